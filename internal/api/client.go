package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/TechHon-P/othello-game/internal/config"
	"github.com/TechHon-P/othello-game/internal/models"
	"github.com/TechHon-P/othello-game/internal/othello"
)

const (
	clientTimeout = 5 * time.Second
)

// ErrRejected is returned when the server rejects a request with a 4xx status.
var ErrRejected = errors.New("request rejected")

// Client talks to the othello server.
type Client struct {
	// config contains details on how to connect to the server
	config *config.ClientConfig

	httpClient *http.Client
}

func NewClient(config *config.ClientConfig) *Client {
	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: clientTimeout,
		},
	}
}

func (c *Client) logRequestAsCurl(req *http.Request) {
	// Do not build string if we're not logging it
	if !slog.Default().Enabled(context.Background(), slog.LevelDebug) {
		return
	}

	var builder strings.Builder
	builder.WriteString("curl -X ")
	builder.WriteString(req.Method)
	builder.WriteString(" '")
	builder.WriteString(req.URL.String())
	builder.WriteString("'")

	for key, values := range req.Header {
		for _, value := range values {
			builder.WriteString(" -H '")
			builder.WriteString(strings.ToLower(key))
			builder.WriteString(": ")
			builder.WriteString(value)
			builder.WriteString("'")
		}
	}

	if req.Body != nil && req.Body != http.NoBody {
		body, err := io.ReadAll(req.Body)
		if err != nil {
			slog.Error("Failed to read request body", "error", err)
		}

		if len(body) > 0 {
			builder.WriteString(" -d '")
			builder.WriteString(strings.ReplaceAll(strings.TrimSpace(string(body)), "'", "'\\''"))
			builder.WriteString("'")
		}

		// Restore the original body
		req.Body = io.NopCloser(bytes.NewBuffer(body))
	}

	slog.Debug("Sending request", "command", builder.String())
}

// request sends payload as JSON and decodes the response into out, if out is not nil.
func (c *Client) request(ctx context.Context, method string, path string, payload any, out any) error {
	var body io.Reader

	if payload == nil {
		body = http.NoBody
	} else {
		buf := &bytes.Buffer{}
		err := json.NewEncoder(buf).Encode(payload)
		if err != nil {
			return fmt.Errorf("failed to encode payload: %w", err)
		}
		body = buf
	}

	req, err := http.NewRequestWithContext(ctx, method, c.config.ServerURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if c.config.Token != "" {
		req.Header.Set("X-Token", c.config.Token)
	}

	c.logRequestAsCurl(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}

	defer resp.Body.Close()

	slog.Debug("Response", "status", resp.Status)

	if resp.StatusCode >= 400 && resp.StatusCode < 500 {
		var parsed struct {
			Error string `json:"error"`
		}
		if err = json.NewDecoder(resp.Body).Decode(&parsed); err != nil || parsed.Error == "" {
			return fmt.Errorf("%w: %s", ErrRejected, resp.Status)
		}
		return fmt.Errorf("%w: %s", ErrRejected, parsed.Error)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("server returned unexpected status %v", resp.Status)
	}

	if out == nil {
		return nil
	}

	if err = json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// CreateSession starts a new session on the server.
func (c *Client) CreateSession(ctx context.Context, payload models.CreateSessionRequest) (models.SessionView, error) {
	var view models.SessionView
	if err := c.request(ctx, http.MethodPost, "/api/sessions", payload, &view); err != nil {
		return models.SessionView{}, fmt.Errorf("failed to create session: %w", err)
	}
	return view, nil
}

// GetSession returns the current view of a session.
func (c *Client) GetSession(ctx context.Context, id string) (models.SessionView, error) {
	var view models.SessionView
	if err := c.request(ctx, http.MethodGet, "/api/sessions/"+id, nil, &view); err != nil {
		return models.SessionView{}, fmt.Errorf("failed to get session: %w", err)
	}
	return view, nil
}

// Act applies an action to a session.
func (c *Client) Act(ctx context.Context, id string, action models.ActionRequest) (models.SessionView, error) {
	var view models.SessionView
	if err := c.request(ctx, http.MethodPost, "/api/sessions/"+id+"/actions", action, &view); err != nil {
		return models.SessionView{}, fmt.Errorf("failed to apply %s: %w", action.Type, err)
	}
	return view, nil
}

// DeleteSession closes a session.
func (c *Client) DeleteSession(ctx context.Context, id string) error {
	if err := c.request(ctx, http.MethodDelete, "/api/sessions/"+id, nil, nil); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// WaitForHuman polls a session until no computer move is pending.
func (c *Client) WaitForHuman(ctx context.Context, id string, interval time.Duration) (models.SessionView, error) {
	for {
		view, err := c.GetSession(ctx, id)
		if err != nil {
			return models.SessionView{}, err
		}

		if !view.ComputerPending {
			return view, nil
		}

		select {
		case <-ctx.Done():
			return models.SessionView{}, ctx.Err()
		case <-time.After(interval):
		}
	}
}

// BestMove asks the advisor for the best move of player.
func (c *Client) BestMove(
	ctx context.Context,
	board othello.Board,
	player othello.Color,
	strength int,
) (models.BestMoveResponse, error) {
	payload := models.BestMoveRequest{
		EngineRequest: models.EngineRequest{Board: &board, Player: player},
		Strength:      strength,
	}

	var response models.BestMoveResponse
	if err := c.request(ctx, http.MethodPost, "/api/advisor/best-move", payload, &response); err != nil {
		return models.BestMoveResponse{}, fmt.Errorf("failed to get best move: %w", err)
	}
	return response, nil
}
