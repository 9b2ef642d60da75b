package container

import (
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"github.com/serroba/shortlink/internal/ratelimit"
)

// RateLimitPackage provides the request rate limiter.
func RateLimitPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (ratelimit.Limiter, error) {
		return ratelimit.NewRedisLimiter(do.MustInvoke[*redis.Client](i)), nil
	})
}
