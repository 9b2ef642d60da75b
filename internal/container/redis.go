package container

import (
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
)

// RedisPackage provides the shared Redis client used by the cache, the rate
// limiter, and the event stream.
func RedisPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*redis.Client, error) {
		opts := do.MustInvoke[*Options](i)

		return redis.NewClient(&redis.Options{Addr: opts.RedisAddr}), nil
	})
}
