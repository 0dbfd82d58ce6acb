package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultAIEnabled     = true
	defaultAIStrength    = 5
	defaultShowHints     = false
	defaultComputerDelay = 500 * time.Millisecond
	defaultMaxSessions   = 1000
	defaultCacheTTL      = time.Hour
	defaultSessionTTL    = 30 * time.Minute
)

var errMissing = errors.New("environment variable is not set")

// GameConfig holds the defaults for new sessions.
type GameConfig struct {
	AIEnabled     bool
	AIStrength    int
	ShowHints     bool
	ComputerDelay time.Duration
}

// ServerConfig holds all configuration values loaded from environment variables.
type ServerConfig struct {
	ServerHost  string
	ServerPort  string
	RedisURL    string
	Token       string
	Prefork     bool
	MaxSessions int
	CacheTTL    time.Duration
	SessionTTL  time.Duration
	Game        GameConfig
}

// Address returns the address the server listens on.
func (cfg *ServerConfig) Address() string {
	return cfg.ServerHost + ":" + cfg.ServerPort
}

// ClientConfig holds the configuration of clients of the server.
type ClientConfig struct {
	ServerURL string
	Token     string
}

// LoadClientConfig loads the client configuration from environment variables.
func LoadClientConfig() *ClientConfig {
	cfg, err := loadClientConfig(os.Getenv)
	if err != nil {
		slog.Error("Cannot load configuration", "error", err)
		os.Exit(1)
	}
	return cfg
}

func loadClientConfig(getenv func(string) string) (*ClientConfig, error) {
	env := &environment{getenv: getenv}

	cfg := &ClientConfig{
		ServerURL: strings.TrimSuffix(env.mustString("OTHELLO_SERVER_URL"), "/"),
		Token:     getenv("OTHELLO_TOKEN"),
	}

	if err := errors.Join(env.errs...); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadServerConfig loads configuration from environment variables.
// It exits if a required variable is missing or a value cannot be parsed.
func LoadServerConfig() *ServerConfig {
	cfg, err := loadServerConfig(os.Getenv)
	if err != nil {
		slog.Error("Cannot load configuration", "error", err)
		os.Exit(1)
	}
	return cfg
}

// loadServerConfig does the work of LoadServerConfig, getenv returns an empty string for unset keys.
func loadServerConfig(getenv func(string) string) (*ServerConfig, error) {
	env := &environment{getenv: getenv}

	cfg := &ServerConfig{
		ServerHost:  env.mustString("OTHELLO_SERVER_HOST"),
		ServerPort:  env.mustString("OTHELLO_SERVER_PORT"),
		RedisURL:    getenv("OTHELLO_REDIS_URL"),
		Token:       getenv("OTHELLO_TOKEN"),
		Prefork:     env.boolean("OTHELLO_PREFORK", false),
		MaxSessions: env.integer("OTHELLO_MAX_SESSIONS", defaultMaxSessions),
		CacheTTL:    env.duration("OTHELLO_CACHE_TTL", defaultCacheTTL),
		SessionTTL:  env.duration("OTHELLO_SESSION_TTL", defaultSessionTTL),
		Game: GameConfig{
			AIEnabled:     env.boolean("OTHELLO_AI_ENABLED", defaultAIEnabled),
			AIStrength:    env.integer("OTHELLO_AI_STRENGTH", defaultAIStrength),
			ShowHints:     env.boolean("OTHELLO_SHOW_HINTS", defaultShowHints),
			ComputerDelay: env.duration("OTHELLO_COMPUTER_DELAY", defaultComputerDelay),
		},
	}

	if err := errors.Join(env.errs...); err != nil {
		return nil, err
	}

	return cfg, nil
}

// environment reads variables and collects all errors, so they can be reported at once.
type environment struct {
	getenv func(string) string
	errs   []error
}

func (e *environment) mustString(key string) string {
	value := e.getenv(key)
	if value == "" {
		e.errs = append(e.errs, fmt.Errorf("%w: %s", errMissing, key))
	}
	return value
}

func (e *environment) boolean(key string, fallback bool) bool {
	value := e.getenv(key)
	if value == "" {
		return fallback
	}

	if value != "true" && value != "false" {
		e.errs = append(e.errs, fmt.Errorf("%s must be \"true\" or \"false\", got %q", key, value))
		return fallback
	}

	return value == "true"
}

func (e *environment) integer(key string, fallback int) int {
	value := e.getenv(key)
	if value == "" {
		return fallback
	}

	parsed, err := strconv.Atoi(value)
	if err != nil {
		e.errs = append(e.errs, fmt.Errorf("%s must be an integer: %w", key, err))
		return fallback
	}

	return parsed
}

func (e *environment) duration(key string, fallback time.Duration) time.Duration {
	value := e.getenv(key)
	if value == "" {
		return fallback
	}

	parsed, err := time.ParseDuration(value)
	if err != nil {
		e.errs = append(e.errs, fmt.Errorf("%s must be a duration: %w", key, err))
		return fallback
	}

	if parsed < 0 {
		e.errs = append(e.errs, fmt.Errorf("%s must not be negative, got %s", key, value))
		return fallback
	}

	return parsed
}
