package api

import (
	"github.com/gofiber/fiber/v2"

	"github.com/TechHon-P/othello-game/internal/models"
	"github.com/TechHon-P/othello-game/internal/services"
)

// Analyze returns the legal moves and disc counts of a board.
func Analyze(c *fiber.Ctx) error {
	var payload models.EngineRequest
	if err := c.BodyParser(&payload); err != nil {
		return invalidBody(c)
	}

	if err := payload.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.Status(fiber.StatusOK).JSON(models.NewAnalyzeResponse(*payload.Board, payload.Player))
}

// Apply plays a move on a board.
func Apply(c *fiber.Ctx) error {
	var payload models.ApplyRequest
	if err := c.BodyParser(&payload); err != nil {
		return invalidBody(c)
	}

	if err := payload.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	board := *payload.Board
	move := *payload.Move

	flipped := board.Flipped(payload.Player, move.Row, move.Col)

	next, err := board.ApplyMove(payload.Player, move.Row, move.Col)
	if err != nil {
		return errorResponse(c, err)
	}

	black, white := next.CountPieces()

	return c.Status(fiber.StatusOK).JSON(models.ApplyResponse{
		Board:   next,
		Rows:    next.Rows(),
		Flipped: flipped,
		Black:   black,
		White:   white,
	})
}

// BestMove returns the advised move and the scores of all legal moves.
func BestMove(c *fiber.Ctx) error {
	var payload models.BestMoveRequest
	if err := c.BodyParser(&payload); err != nil {
		return invalidBody(c)
	}

	if err := payload.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	services := c.Locals("services").(*services.Services) //nolint: errcheck

	moves := services.Advisor.RankMoves(c.Context(), *payload.Board, payload.Player, payload.Strength)

	return c.Status(fiber.StatusOK).JSON(models.NewBestMoveResponse(moves))
}
