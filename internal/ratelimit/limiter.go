package ratelimit

import (
	"context"
	"time"
)

// MetadataKey is the huma operation metadata key holding a Config.
const MetadataKey = "ratelimit"

// Config is a fixed-window limit attached to an endpoint.
type Config struct {
	Window time.Duration
	Max    int
}

// Limiter decides whether a request identified by key may proceed under the
// given fixed-window limit.
type Limiter interface {
	Allow(ctx context.Context, key string, cfg Config) (bool, error)
}
