package routes

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"github.com/yourorg/rutabus/internal/debug"
	"github.com/yourorg/rutabus/internal/handlers"
	"github.com/yourorg/rutabus/internal/middleware"
)

func Register(app *fiber.App, db *sql.DB) {
	// ============================================================================
	// API PÚBLICA (Endpoints para el frontend)
	// ============================================================================
	api := app.Group("/api")

	// Health check (sin rate limiting)
	api.Get("/health", handlers.Health)

	// ============================================================================
	// AUTENTICACIÓN (con rate limiting estricto)
	// ============================================================================
	api.Post("/login", middleware.StrictRateLimiter(), handlers.Login)
	api.Post("/register", middleware.StrictRateLimiter(), handlers.Register)

	// ============================================================================
	// LÍNEAS Y RUTAS
	// ============================================================================
	api.Get("/lineas", handlers.ListLines)
	api.Get("/lineas/:codigo/rutas/:sentido/puntos", handlers.RouteStops)

	// ============================================================================
	// PLANIFICACIÓN DE RUTAS
	// ============================================================================
	api.Post("/rutas/planificar", middleware.PlanRateLimiter(), handlers.PlanRoute)

	// ============================================================================
	// ADMINISTRACIÓN (requiere JWT)
	// ============================================================================
	admin := api.Group("/admin", handlers.RequireAuth)
	admin.Post("/importar", middleware.ImportRateLimiter(), handlers.ImportWorkbook)

	// ============================================================================
	// WEBSOCKET (Dashboard de depuración)
	// ============================================================================
	app.Use("/ws/debug", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	app.Get("/ws/debug", websocket.New(func(c *websocket.Conn) {
		debug.HandleWebSocketFiber(c)
	}))
}
