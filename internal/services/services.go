package services

import (
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/TechHon-P/othello-game/internal/advisor"
	"github.com/TechHon-P/othello-game/internal/config"
	"github.com/TechHon-P/othello-game/internal/repository"
	"github.com/TechHon-P/othello-game/internal/session"
)

// memoryCacheSize is the size of the evaluation cache when Redis is not configured.
const memoryCacheSize = 100_000

// Services contains the shared state of the server and connections to external services.
type Services struct {
	// Redis is nil when no Redis URL is configured
	Redis *redis.Client

	Advisor  *advisor.Advisor
	Sessions *session.Registry

	// Defaults are the settings of new sessions
	Defaults session.Settings
}

func InitServices(cfg *config.ServerConfig) (*Services, error) {
	defaults := DefaultSettings(cfg.Game)
	if err := defaults.Validate(); err != nil {
		return nil, err
	}

	services := &Services{Defaults: defaults}

	var cache advisor.Cache
	if cfg.RedisURL != "" {
		redis, err := InitRedis(cfg.RedisURL)
		if err != nil {
			return nil, err
		}

		services.Redis = redis
		cache = repository.NewEvaluationCache(redis, cfg.CacheTTL)
	} else {
		slog.Info("Redis is not configured, using in-memory evaluation cache")
		cache = advisor.NewMemoryCache(memoryCacheSize)
	}

	services.Advisor = advisor.New(cache)
	services.Sessions = session.NewRegistry(services.Advisor, cfg.Game.ComputerDelay, cfg.MaxSessions, cfg.SessionTTL)

	return services, nil
}

// DefaultSettings converts the game configuration into session settings. The computer plays white.
func DefaultSettings(cfg config.GameConfig) session.Settings {
	settings := session.DefaultSettings()
	settings.AIEnabled = cfg.AIEnabled
	settings.Strength = cfg.AIStrength
	settings.ShowHints = cfg.ShowHints
	return settings
}

// Close closes all sessions and connections.
func (s *Services) Close() error {
	s.Sessions.Close()

	if s.Redis != nil {
		return s.Redis.Close()
	}
	return nil
}
