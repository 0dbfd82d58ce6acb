package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/TechHon-P/othello-game/internal/models"
	"github.com/TechHon-P/othello-game/internal/othello"
	"github.com/TechHon-P/othello-game/internal/session"
)

// badRequestErrors are rejected inputs, the request can be fixed by the client.
var badRequestErrors = []error{
	othello.ErrInvalidMove,
	othello.ErrInvalidPlayer,
	othello.ErrInvalidBoard,
	session.ErrGameFinished,
	session.ErrComputerTurn,
	session.ErrNotComputerTurn,
	session.ErrAIDisabled,
	session.ErrPassNotAllowed,
	session.ErrNothingToUndo,
	session.ErrInvalidStrength,
	session.ErrInvalidSettings,
	models.ErrUnknownAction,
}

// StatusCode maps an error to a HTTP status code.
func StatusCode(err error) int {
	for _, target := range badRequestErrors {
		if errors.Is(err, target) {
			return fiber.StatusBadRequest
		}
	}

	switch {
	case errors.Is(err, session.ErrSessionNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, session.ErrSessionClosed):
		return fiber.StatusConflict
	case errors.Is(err, session.ErrTooManySessions):
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}

func errorResponse(c *fiber.Ctx, err error) error {
	return c.Status(StatusCode(err)).JSON(fiber.Map{
		"error": err.Error(),
	})
}

func invalidBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": "Invalid request body",
	})
}
