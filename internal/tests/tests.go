package tests

import (
	"bytes"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/TechHon-P/othello-game/internal"
	"github.com/TechHon-P/othello-game/internal/config"
	"github.com/TechHon-P/othello-game/internal/services"
)

// TestToken is the API token of apps created by NewApp.
const TestToken = "test-token"

// NewConfig returns a config without Redis. The computer replies after an hour, so tests
// control when it moves.
func NewConfig() *config.ServerConfig {
	return &config.ServerConfig{
		ServerHost:  "127.0.0.1",
		ServerPort:  "0",
		Token:       TestToken,
		MaxSessions: 10,
		CacheTTL:    time.Minute,
		Game: config.GameConfig{
			AIEnabled:     true,
			AIStrength:    5,
			ShowHints:     false,
			ComputerDelay: time.Hour,
		},
	}
}

// NewApp builds an app for cfg. Services are closed when the test ends.
func NewApp(t *testing.T, cfg *config.ServerConfig) (*fiber.App, *services.Services) {
	t.Helper()

	svcs, err := services.InitServices(cfg)
	require.NoError(t, err)

	t.Cleanup(func() {
		require.NoError(t, svcs.Close())
	})

	return internal.BuildApp(cfg, svcs), svcs
}

// Request sends a request with a JSON body to app. A nil body sends no body.
// The response body is decoded into out if it is not nil.
func Request(t *testing.T, app *fiber.App, method, url string, body any, out any) int {
	t.Helper()

	var reader io.Reader
	if body != nil {
		var payload bytes.Buffer
		require.NoError(t, json.NewEncoder(&payload).Encode(body))
		reader = &payload
	}

	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)

	req.Header.Set("x-token", TestToken)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}

	return resp.StatusCode
}

// Serve serves app on a random local port until the test ends and returns its address.
func Serve(t *testing.T, app *fiber.App) string {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	go func() {
		_ = app.Listener(ln)
	}()

	t.Cleanup(func() {
		_ = app.Shutdown()
	})

	return ln.Addr().String()
}
