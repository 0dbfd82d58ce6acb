package internal

import (
	"log/slog"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/TechHon-P/othello-game/internal/config"
	"github.com/TechHon-P/othello-game/internal/middleware"
	"github.com/TechHon-P/othello-game/internal/routes"
	"github.com/TechHon-P/othello-game/internal/services"
)

const (
	defaultConcurrency  = 256 * 1024 // Maximum number of concurrent connections per worker
	defaultReadTimeout  = 10 * time.Second
	defaultWriteTimeout = 10 * time.Second
	defaultIdleTimeout  = 5 * time.Second
	defaultBodyLimit    = 64 * 1024 // Requests only carry a board and a few fields
)

// SetupApp loads the configuration from the environment and builds the app.
// It exits if the configuration or services cannot be loaded.
func SetupApp() (*fiber.App, *config.ServerConfig) {
	cfg := config.LoadServerConfig()

	if cfg.Prefork {
		slog.Warn("Sessions are kept in memory, with prefork each process has its own sessions")
	}

	services, err := services.InitServices(cfg)
	if err != nil {
		slog.Error("Failed to initialize services", "error", err)
		os.Exit(1)
	}

	return BuildApp(cfg, services), cfg
}

// BuildApp creates the Fiber app. Services are closed when the app shuts down.
func BuildApp(cfg *config.ServerConfig, services *services.Services) *fiber.App {
	app := fiber.New(fiber.Config{
		Prefork:      cfg.Prefork,
		Concurrency:  defaultConcurrency,
		ReadTimeout:  defaultReadTimeout,
		WriteTimeout: defaultWriteTimeout,
		IdleTimeout:  defaultIdleTimeout,
		BodyLimit:    defaultBodyLimit,
	})

	app.Hooks().OnShutdown(services.Close)

	// Setup connections to external services and config in Fiber app
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("services", services)
		c.Locals("config", cfg)
		return c.Next()
	})

	// Add logging middleware
	app.Use(middleware.Logging())

	// Setup all routes
	routes.SetupRoutes(app)

	return app
}
