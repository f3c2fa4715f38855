package db

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/bohemiyan/backoffice/internal/config"
)

// NewRedisClient initializes and returns a Redis client. Returns nil when no
// address is configured; callers treat a nil client as caching disabled.
func NewRedisClient(cfg *config.Config) (*redis.Client, error) {
	if cfg.RedisAddr == "" {
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       0,
	})

	if _, err := client.Ping(context.Background()).Result(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return client, nil
}
