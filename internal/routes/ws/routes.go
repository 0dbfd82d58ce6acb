package ws

import (
	"log/slog"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"

	"github.com/TechHon-P/othello-game/internal/middleware"
	"github.com/TechHon-P/othello-game/internal/services"
	"github.com/TechHon-P/othello-game/internal/ws"
)

// requireSession rejects requests that are no websocket upgrade or refer to an unknown session.
func requireSession(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}

	services := c.Locals("services").(*services.Services) //nolint: errcheck

	if _, err := services.Sessions.Get(c.Params("id")); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.Next()
}

func handleWs(c *websocket.Conn) {
	services := c.Locals("services").(*services.Services) //nolint: errcheck

	id := c.Params("id")

	controller, err := services.Sessions.Get(id)
	if err != nil {
		slog.Error("ws session lookup failed", "session", id, "error", err)
		return
	}

	h := ws.NewHandler(c, id, controller, services.Advisor)
	if err = h.Handle(); err != nil {
		slog.Debug("ws connection ended", "session", id, "error", err)
	}
}

// SetupRoutes sets up the routes for the websocket.
func SetupRoutes(app *fiber.App) {
	app.Get("/ws/sessions/:id", middleware.Token(), requireSession, websocket.New(handleWs))
}
