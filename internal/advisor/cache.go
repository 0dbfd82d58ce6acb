package advisor

import (
	"context"
	"sync"

	"github.com/TechHon-P/othello-game/internal/othello"
)

// Cache stores unscaled evaluations by key.
type Cache interface {
	Lookup(ctx context.Context, key string) (float64, bool, error)
	Store(ctx context.Context, key string, score float64) error
}

// CacheKey builds the cache key for a board evaluated for player.
func CacheKey(board othello.Board, player othello.Color) string {
	return board.String() + ":" + player.String()
}

// MemoryCache implements a simple in-process cache for evaluations.
type MemoryCache struct {
	// data stores the underlying map
	data map[string]float64

	// maxSize is the maximum number of entries, the cache is cleared when it is exceeded
	maxSize int

	// dataMutex protects data
	dataMutex sync.Mutex
}

// NewMemoryCache creates a new cache. A maxSize of zero or less means unbounded.
func NewMemoryCache(maxSize int) *MemoryCache {
	return &MemoryCache{
		data:    make(map[string]float64),
		maxSize: maxSize,
	}
}

// Lookup looks up an evaluation.
func (c *MemoryCache) Lookup(_ context.Context, key string) (float64, bool, error) {
	c.dataMutex.Lock()
	defer c.dataMutex.Unlock()

	score, ok := c.data[key]
	return score, ok, nil
}

// Store adds or replaces an evaluation.
func (c *MemoryCache) Store(_ context.Context, key string, score float64) error {
	c.dataMutex.Lock()
	defer c.dataMutex.Unlock()

	if _, ok := c.data[key]; !ok && c.maxSize > 0 && len(c.data) >= c.maxSize {
		clear(c.data)
	}

	c.data[key] = score
	return nil
}

// Len returns the number of items in the cache.
func (c *MemoryCache) Len() int {
	c.dataMutex.Lock()
	defer c.dataMutex.Unlock()

	return len(c.data)
}
