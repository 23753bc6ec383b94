package cache

import (
	"context"

	"github.com/go-redis/redis/v8"

	"hostify/internal/config"
)

// Client is a type alias so callers don't import the redis package directly.
type Client = redis.Client

// NewRedisClient creates a Redis client from config. Returns nil when no
// address is configured; a nil client disables caching everywhere.
func NewRedisClient(cfg *config.Config) *redis.Client {
	if cfg.RedisAddr == "" {
		return nil
	}
	return redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
}

// Ping tests the connection.
func Ping(ctx context.Context, client *redis.Client) error {
	return client.Ping(ctx).Err()
}
