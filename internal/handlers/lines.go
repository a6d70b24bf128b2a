package handlers

import (
	"errors"
	"log"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/yourorg/rutabus/internal/cache"
	"github.com/yourorg/rutabus/internal/models"
	"github.com/yourorg/rutabus/internal/store"
)

// ListLines handles GET /api/lineas.
func ListLines(c *fiber.Ctx) error {
	const cacheKey = "lineas"
	if cached, ok := cache.LinesCache.Get(cacheKey); ok {
		if lines, ok := cached.([]models.Line); ok {
			c.Set("X-Cache", "HIT")
			return c.JSON(lines)
		}
	}

	lines, err := getStore().Lines(c.Context())
	if err != nil {
		log.Printf("❌ Error listando líneas: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(models.DetailResponse{Detail: "error interno listando líneas"})
	}
	cache.LinesCache.Set(cacheKey, lines)
	c.Set("X-Cache", "MISS")
	return c.JSON(lines)
}

// RouteStops handles GET /api/lineas/:codigo/rutas/:sentido/puntos.
func RouteStops(c *fiber.Ctx) error {
	code := c.Params("codigo")
	direction, err := strconv.Atoi(c.Params("sentido"))
	if err != nil || (direction != 1 && direction != 2) {
		return c.Status(fiber.StatusBadRequest).JSON(models.DetailResponse{
			Detail: "El sentido debe ser 1 (ida) o 2 (vuelta).",
		})
	}

	cacheKey := "ruta:" + code + ":" + strconv.Itoa(direction)
	if cached, ok := cache.LinesCache.Get(cacheKey); ok {
		if route, ok := cached.(*models.RouteWithPoints); ok {
			c.Set("X-Cache", "HIT")
			return c.JSON(route)
		}
	}

	route, err := getStore().RoutePoints(c.Context(), code, direction)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(models.DetailResponse{
				Detail: "No existe la ruta solicitada para esa línea y sentido.",
			})
		}
		log.Printf("❌ Error consultando ruta %s sentido %d: %v", code, direction, err)
		return c.Status(fiber.StatusInternalServerError).JSON(models.DetailResponse{Detail: "error interno consultando la ruta"})
	}
	cache.LinesCache.Set(cacheKey, route)
	c.Set("X-Cache", "MISS")
	return c.JSON(route)
}
