package handlers

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/yourorg/rutabus/internal/debug"
	"github.com/yourorg/rutabus/internal/models"
	"github.com/yourorg/rutabus/internal/planner"
	"github.com/yourorg/rutabus/internal/validation"
)

// planTimeout acota la planificación completa (carga de red incluida).
const planTimeout = 10 * time.Second

// PlanRoute handles POST /api/rutas/planificar.
//
// Recibe {"inicio": {lat, lon}, "fin": {lat, lon}} y devuelve hasta
// MaxRoutes alternativas ordenadas por tiempo total.
func PlanRoute(c *fiber.Ctx) error {
	var req models.PlanRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.DetailResponse{Detail: "JSON inválido"})
	}

	if err := validation.ValidateCoordinatePair(req.Start.Lat, req.Start.Lon, "inicio"); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.DetailResponse{Detail: err.Error()})
	}
	if err := validation.ValidateCoordinatePair(req.End.Lat, req.End.Lon, "fin"); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.DetailResponse{Detail: err.Error()})
	}
	if validation.IsZeroCoordinate(req.Start.Lat, req.Start.Lon) || validation.IsZeroCoordinate(req.End.Lat, req.End.Lon) {
		return c.Status(fiber.StatusBadRequest).JSON(models.DetailResponse{Detail: "Las coordenadas no pueden ser (0, 0)"})
	}

	ctx, cancel := context.WithTimeout(c.Context(), planTimeout)
	defer cancel()

	snap, err := getSnapshot(ctx)
	if err != nil {
		log.Printf("❌ Error cargando red de líneas: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(models.DetailResponse{Detail: "error interno cargando la red"})
	}

	requestID := uuid.NewString()
	var trace planner.TraceFunc
	if debug.IsEnabled() {
		trace = debug.PlannerTrace(requestID)
	}

	start := time.Now()
	itineraries, err := planner.Plan(ctx,
		snap,
		planner.Coordinate{Lat: req.Start.Lat, Lon: req.Start.Lon},
		planner.Coordinate{Lat: req.End.Lat, Lon: req.End.Lon},
		getPlannerConfig(),
		trace,
	)
	if err != nil {
		switch {
		case errors.Is(err, planner.ErrNoPoints), errors.Is(err, planner.ErrNoSegments):
			return c.Status(fiber.StatusBadRequest).JSON(models.DetailResponse{Detail: err.Error()})
		case errors.Is(err, planner.ErrNoRoute):
			return c.Status(fiber.StatusNotFound).JSON(models.DetailResponse{Detail: err.Error()})
		case errors.Is(err, context.DeadlineExceeded):
			return c.Status(fiber.StatusNotFound).JSON(models.DetailResponse{Detail: "la búsqueda excedió el tiempo máximo"})
		default:
			log.Printf("❌ [%s] Error planificando ruta: %v", requestID, err)
			return c.Status(fiber.StatusInternalServerError).JSON(models.DetailResponse{Detail: "error interno planificando la ruta"})
		}
	}

	log.Printf("🗺️ [%s] %d alternativas en %s", requestID, len(itineraries), time.Since(start).Round(time.Millisecond))

	resp := models.PlanResponse{Routes: make([]models.PlannedRoute, 0, len(itineraries))}
	for _, it := range itineraries {
		resp.Routes = append(resp.Routes, toPlannedRoute(it))
	}
	return c.JSON(resp)
}

func toPlannedRoute(it planner.Itinerary) models.PlannedRoute {
	route := models.PlannedRoute{
		Lines:         make([]models.TripLine, 0, len(it.Lines)),
		Description:   it.Description,
		TotalDistance: it.TotalDistance,
		TotalTime:     it.TotalTime,
		Points:        make([]models.PlannedPoint, 0, len(it.Stops)),
	}
	for _, l := range it.Lines {
		route.Lines = append(route.Lines, models.TripLine{Code: l.Code, Name: l.Name, Direction: l.Direction})
	}
	for _, s := range it.Stops {
		p := models.PlannedPoint{
			Order:       s.Order,
			Latitude:    s.Lat,
			Longitude:   s.Lon,
			Description: s.Description,
			LegDistance: s.LegDistance,
			CumDistance: s.CumDistance,
			LegTime:     s.LegTime,
			CumTime:     s.CumTime,
		}
		if s.TransferLine != "" {
			line := s.TransferLine
			p.TransferLine = &line
		}
		route.Points = append(route.Points, p)
	}
	return route
}
