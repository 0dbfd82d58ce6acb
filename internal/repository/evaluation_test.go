package repository

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/TechHon-P/othello-game/internal/advisor"
	"github.com/TechHon-P/othello-game/internal/othello"
)

// newTestClient connects to the Redis server in OTHELLO_REDIS_URL, the test is skipped if it is not set.
func newTestClient(t *testing.T) *redis.Client {
	t.Helper()

	url := os.Getenv("OTHELLO_REDIS_URL")
	if url == "" {
		t.Skip("OTHELLO_REDIS_URL is not set")
	}

	opts, err := redis.ParseURL(url)
	require.NoError(t, err)

	client := redis.NewClient(opts)
	require.NoError(t, client.Ping(context.Background()).Err())

	t.Cleanup(func() {
		client.Close()
	})

	return client
}

func TestEvaluationCache(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	cache := NewEvaluationCache(client, time.Minute)

	// Random key so concurrent test runs do not interfere.
	key := "test:" + uuid.NewString()
	t.Cleanup(func() {
		client.Del(context.Background(), evaluationKeyPrefix+key)
	})

	_, ok, err := cache.Lookup(ctx, key)
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, cache.Store(ctx, key, -120.25))

	score, ok, err := cache.Lookup(ctx, key)
	require.NoError(t, err)
	require.True(t, ok)
	require.InDelta(t, -120.25, score, 1e-9)

	ttl, err := client.TTL(ctx, evaluationKeyPrefix+key).Result()
	require.NoError(t, err)
	require.Positive(t, ttl)
}

func TestEvaluationCache_Advisor(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	cache := NewEvaluationCache(client, time.Minute)
	adv := advisor.New(cache)

	board := othello.NewBoardStart()
	t.Cleanup(func() {
		for _, move := range board.LegalMoves(othello.BLACK) {
			child, _ := board.ApplyMove(othello.BLACK, move.Row, move.Col)
			client.Del(context.Background(), evaluationKeyPrefix+advisor.CacheKey(child.Normalized(), othello.BLACK))
		}
	})

	want, ok := advisor.BestMove(board, othello.BLACK, advisor.DefaultStrength)
	require.True(t, ok)

	for range 2 {
		got, ok := adv.BestMove(ctx, board, othello.BLACK, advisor.DefaultStrength)
		require.True(t, ok)
		require.Equal(t, want, got)
	}
}
