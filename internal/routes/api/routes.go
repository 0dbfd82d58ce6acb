package api

import (
	"github.com/gofiber/fiber/v2"

	"github.com/TechHon-P/othello-game/internal/middleware"
)

// SetupRoutes sets up the API routes.
func SetupRoutes(app *fiber.App) {
	apiGroup := app.Group("/api", middleware.Token())

	// Stateless engine routes
	apiGroup.Post("/engine/analyze", Analyze)
	apiGroup.Post("/engine/apply", Apply)
	apiGroup.Post("/advisor/best-move", BestMove)

	// Session routes
	apiGroup.Post("/sessions", CreateSession)
	apiGroup.Get("/sessions/:id", GetSession)
	apiGroup.Post("/sessions/:id/actions", SessionAction)
	apiGroup.Delete("/sessions/:id", DeleteSession)
}
