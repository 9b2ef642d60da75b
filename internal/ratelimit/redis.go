package ratelimit

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisLimiter is a fixed-window limiter backed by Redis INCR counters.
type RedisLimiter struct {
	client *redis.Client
	prefix string
}

// NewRedisLimiter creates a new Redis-backed limiter.
func NewRedisLimiter(client *redis.Client) *RedisLimiter {
	return &RedisLimiter{client: client, prefix: "ratelimit:"}
}

func (r *RedisLimiter) Allow(ctx context.Context, key string, cfg Config) (bool, error) {
	bucket := fmt.Sprintf("%s%s:%d", r.prefix, key, cfg.Window.Milliseconds())

	count, err := r.client.Incr(ctx, bucket).Result()
	if err != nil {
		return false, err
	}

	// First hit opens the window.
	if count == 1 {
		if err := r.client.Expire(ctx, bucket, cfg.Window).Err(); err != nil {
			return false, err
		}
	}

	return count <= int64(cfg.Max), nil
}

// Compile-time check.
var _ Limiter = (*RedisLimiter)(nil)
