package services

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// InitRedis initializes the Redis connection.
func InitRedis(url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("error parsing Redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	if err := client.Ping(context.Background()).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("error pinging Redis: %w", err)
	}

	return client, nil
}
