// Package redis provides the Redis connection and the auto-close throttle
// gate built on it.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const connectTimeout = 5 * time.Second

// Config carries the Redis settings for the throttle gate.
type Config struct {
	Addr     string
	Password string
	DB       int
}

// Connect builds a Redis client and verifies it with a ping before use. The
// service treats Redis as soft state: callers keep working when it degrades,
// so a failed connect here is the only hard dependency.
func Connect(ctx context.Context, cfg Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return client, nil
}
