package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/joho/godotenv"

	"github.com/yourorg/rutabus/internal/cache"
	appdb "github.com/yourorg/rutabus/internal/db"
	"github.com/yourorg/rutabus/internal/handlers"
	"github.com/yourorg/rutabus/internal/middleware"
	"github.com/yourorg/rutabus/internal/routes"
)

func main() {
	_ = godotenv.Load()

	app := fiber.New()
	app.Use(logger.New())
	app.Use(middleware.GlobalRateLimiter())

	cache.InitCaches()

	// ============================================================================
	// DB CONNECTION
	// ============================================================================
	var dbReady bool

	go func() {
		for {
			db, err := appdb.Connect()
			if err != nil {
				log.Printf("db connect error: %v (retrying in 5s)", err)
				time.Sleep(5 * time.Second)
				continue
			}
			if err := appdb.EnsureSchema(db); err != nil {
				log.Printf("ensure schema error: %v (retrying in 5s)", err)
				time.Sleep(5 * time.Second)
				continue
			}
			handlers.Setup(db)
			routes.Register(app, db)
			dbReady = true
			log.Printf("✅ Database ready and routes registered")
			return
		}
	}()

	// Wait briefly for DB to be ready
	for i := 0; i < 10 && !dbReady; i++ {
		time.Sleep(500 * time.Millisecond)
	}

	// ============================================================================
	// GRACEFUL SHUTDOWN
	// ============================================================================
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Println("\n🛑 Señal de terminación recibida, cerrando servidor...")

		cache.StopCaches()

		if err := app.Shutdown(); err != nil {
			log.Printf("⚠️  Error cerrando servidor: %v", err)
		}

		log.Println("✅ Servidor cerrado correctamente")
		os.Exit(0)
	}()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("🚀 Servidor escuchando en :%s", port)
	log.Println("📍 Endpoints disponibles:")
	log.Println("   GET  /api/health                               - Estado del sistema")
	log.Println("   POST /api/login                                - Inicio de sesión")
	log.Println("   POST /api/register                             - Registro de usuario")
	log.Println("   GET  /api/lineas                               - Listado de líneas")
	log.Println("   GET  /api/lineas/:codigo/rutas/:sentido/puntos - Paradas de una ruta")
	log.Println("   POST /api/rutas/planificar                     - Planificación de itinerarios")
	log.Println("   POST /api/admin/importar                       - Importar libro de líneas (JWT)")
	log.Println("   GET  /ws/debug                                 - Dashboard de depuración (WebSocket)")
	log.Println("")
	log.Println("💡 Presiona Ctrl+C para detener")
	if err := app.Listen(":" + port); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
