package config

// Redis backs the distributed rate limiter on the auth endpoints and the
// response cache on public reads. Both subsystems degrade gracefully:
// when no Redis address is configured or the server is unreachable at
// startup, this constructor returns nil and the middleware becomes a
// pass-through.

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient connects to Redis using the loaded configuration. The
// returned client may be nil if no address is set or the ping fails.
func NewRedisClient(cfg Config) *redis.Client {
	if cfg.RedisAddr == "" {
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil
	}
	return client
}
