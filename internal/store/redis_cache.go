package store

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/serroba/shortlink/internal/link"
)

// RedisCache is a Redis implementation of link.Cache. Entries are plain
// code -> URL strings; the TTL passed on Set bounds staleness to the link's
// own remaining lifetime.
type RedisCache struct {
	client *redis.Client
	prefix string
}

// NewRedisCache creates a new Redis-backed resolution cache.
func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{
		client: client,
		prefix: "link:",
	}
}

func (r *RedisCache) Get(ctx context.Context, key link.Code) (string, error) {
	url, err := r.client.Get(ctx, r.prefix+string(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", link.ErrNotFound
		}

		return "", err
	}

	return url, nil
}

func (r *RedisCache) Set(ctx context.Context, key link.Code, url string, ttl time.Duration) error {
	return r.client.Set(ctx, r.prefix+string(key), url, ttl).Err()
}

func (r *RedisCache) Delete(ctx context.Context, key link.Code) error {
	return r.client.Del(ctx, r.prefix+string(key)).Err()
}

// Compile-time check.
var _ link.Cache = (*RedisCache)(nil)
