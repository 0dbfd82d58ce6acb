package middleware

import (
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/TechHon-P/othello-game/internal/config"
)

func newTokenApp(token string) *fiber.App {
	app := fiber.New()

	app.Use(func(c *fiber.Ctx) error {
		c.Locals("config", &config.ServerConfig{Token: token})
		return c.Next()
	})

	app.Get("/", Token(), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	return app
}

func TestToken(t *testing.T) {
	tests := []struct {
		name           string
		configured     string
		header         string
		query          string
		wantStatusCode int
	}{
		{"no token configured", "", "", "", http.StatusOK},
		{"missing token", "secret", "", "", http.StatusUnauthorized},
		{"wrong token", "secret", "guess", "", http.StatusUnauthorized},
		{"header token", "secret", "secret", "", http.StatusOK},
		{"query token", "secret", "", "secret", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTokenApp(tt.configured)

			url := "/"
			if tt.query != "" {
				url += "?token=" + tt.query
			}

			req, err := http.NewRequest(http.MethodGet, url, nil)
			require.NoError(t, err)

			if tt.header != "" {
				req.Header.Set("x-token", tt.header)
			}

			resp, err := app.Test(req)
			require.NoError(t, err)
			defer resp.Body.Close()

			require.Equal(t, tt.wantStatusCode, resp.StatusCode)
		})
	}
}
