package container

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"github.com/serroba/shortlink/internal/auth"
	"github.com/serroba/shortlink/internal/link"
	"github.com/serroba/shortlink/internal/store"
	"go.uber.org/zap"
)

// RepositoryPackage provides the stores, the cache, and the domain services
// built on them.
func RepositoryPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (link.Repository, error) {
		return store.NewPostgresLinks(do.MustInvoke[*pgxpool.Pool](i)), nil
	})

	do.Provide(injector, func(i *do.Injector) (link.Cache, error) {
		return store.NewRedisCache(do.MustInvoke[*redis.Client](i)), nil
	})

	do.Provide(injector, func(i *do.Injector) (auth.Repository, error) {
		return store.NewPostgresUsers(do.MustInvoke[*pgxpool.Pool](i)), nil
	})

	do.Provide(injector, func(i *do.Injector) (*link.Generator, error) {
		opts := do.MustInvoke[*Options](i)

		return link.NewGenerator(opts.CodeLength)
	})

	do.Provide(injector, func(i *do.Injector) (*link.Service, error) {
		return link.NewService(
			do.MustInvoke[link.Repository](i),
			do.MustInvoke[link.Cache](i),
			do.MustInvoke[*link.Generator](i),
			do.MustInvoke[*zap.Logger](i),
		), nil
	})

	do.Provide(injector, func(i *do.Injector) (*auth.Service, error) {
		opts := do.MustInvoke[*Options](i)

		return auth.NewService(do.MustInvoke[auth.Repository](i), []byte(opts.JWTSecret)), nil
	})
}
