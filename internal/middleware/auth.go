package middleware

import (
	"crypto/subtle"

	"github.com/gofiber/fiber/v2"

	"github.com/TechHon-P/othello-game/internal/config"
)

// Token middleware that checks the x-token header against the configured token.
// Browsers cannot set headers on websocket requests, so the token query parameter is accepted as well.
// All requests pass when no token is configured.
func Token() fiber.Handler {
	return func(c *fiber.Ctx) error {
		cfg := c.Locals("config").(*config.ServerConfig) //nolint: errcheck

		if cfg.Token == "" {
			return c.Next()
		}

		token := c.Get("x-token")
		if token == "" {
			token = c.Query("token")
		}

		if subtle.ConstantTimeCompare([]byte(token), []byte(cfg.Token)) == 1 {
			return c.Next()
		}

		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}
}
