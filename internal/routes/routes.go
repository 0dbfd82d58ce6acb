package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/TechHon-P/othello-game/internal/routes/api"
	"github.com/TechHon-P/othello-game/internal/routes/version"
	"github.com/TechHon-P/othello-game/internal/routes/ws"
)

func SetupRoutes(app *fiber.App) {
	// Serve API routes
	api.SetupRoutes(app)

	// Serve session updates
	ws.SetupRoutes(app)

	// Serve version info
	version.SetupRoutes(app)
}
