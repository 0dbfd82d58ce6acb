package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const evaluationKeyPrefix = "othello:evaluation:"

// EvaluationCache stores advisor evaluations in Redis. It implements advisor.Cache.
type EvaluationCache struct {
	redis *redis.Client
	ttl   time.Duration
}

// NewEvaluationCache creates a new EvaluationCache. Entries expire after ttl, zero means never.
func NewEvaluationCache(client *redis.Client, ttl time.Duration) *EvaluationCache {
	return &EvaluationCache{
		redis: client,
		ttl:   ttl,
	}
}

// Lookup looks up an evaluation.
func (repo *EvaluationCache) Lookup(ctx context.Context, key string) (float64, bool, error) {
	score, err := repo.redis.Get(ctx, evaluationKeyPrefix+key).Float64()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}

	if err != nil {
		return 0, false, fmt.Errorf("error looking up evaluation: %w", err)
	}

	return score, true, nil
}

// Store adds or replaces an evaluation.
func (repo *EvaluationCache) Store(ctx context.Context, key string, score float64) error {
	value := strconv.FormatFloat(score, 'g', -1, 64)

	if err := repo.redis.Set(ctx, evaluationKeyPrefix+key, value, repo.ttl).Err(); err != nil {
		return fmt.Errorf("error storing evaluation: %w", err)
	}

	return nil
}
