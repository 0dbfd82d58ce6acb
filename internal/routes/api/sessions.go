package api

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/TechHon-P/othello-game/internal/models"
	"github.com/TechHon-P/othello-game/internal/services"
)

// CreateSession starts a new session. The body is optional.
func CreateSession(c *fiber.Ctx) error {
	var payload models.CreateSessionRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&payload); err != nil {
			return invalidBody(c)
		}
	}

	services := c.Locals("services").(*services.Services) //nolint: errcheck

	state, err := payload.NewState(services.Defaults)
	if err != nil {
		return errorResponse(c, err)
	}

	id, controller, err := services.Sessions.Create(state)
	if err != nil {
		return errorResponse(c, err)
	}

	slog.Debug("created session", "id", id, "sessions", services.Sessions.Len())

	return c.Status(fiber.StatusCreated).JSON(models.NewSessionView(c.Context(), id, controller.Snapshot(), services.Advisor))
}

// GetSession returns the current view of a session.
func GetSession(c *fiber.Ctx) error {
	services := c.Locals("services").(*services.Services) //nolint: errcheck

	id := c.Params("id")

	controller, err := services.Sessions.Get(id)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(models.NewSessionView(c.Context(), id, controller.Snapshot(), services.Advisor))
}

// SessionAction applies a player action to a session.
func SessionAction(c *fiber.Ctx) error {
	var payload models.ActionRequest
	if err := c.BodyParser(&payload); err != nil {
		return invalidBody(c)
	}

	action, err := payload.Action()
	if err != nil {
		return errorResponse(c, err)
	}

	services := c.Locals("services").(*services.Services) //nolint: errcheck

	id := c.Params("id")

	controller, err := services.Sessions.Get(id)
	if err != nil {
		return errorResponse(c, err)
	}

	if _, err = controller.Dispatch(action); err != nil {
		return errorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(models.NewSessionView(c.Context(), id, controller.Snapshot(), services.Advisor))
}

// DeleteSession closes a session.
func DeleteSession(c *fiber.Ctx) error {
	services := c.Locals("services").(*services.Services) //nolint: errcheck

	if err := services.Sessions.Delete(c.Params("id")); err != nil {
		return errorResponse(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}
