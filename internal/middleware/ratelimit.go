package middleware

import (
	"crypto/sha256"
	"encoding/hex"
	"net"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/shortlink/internal/ratelimit"
	"go.uber.org/zap"
)

// RateLimiter limits requests per client on endpoints that declare a
// ratelimit.Config in their operation metadata. Limiter backend failures
// fail open: a broken Redis must not take the service down with it.
func RateLimiter(api huma.API, limiter ratelimit.Limiter, logger *zap.Logger) func(ctx huma.Context, next func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		op := ctx.Operation()
		if op == nil {
			next(ctx)

			return
		}

		cfg, ok := op.Metadata[ratelimit.MetadataKey].(ratelimit.Config)
		if !ok {
			next(ctx)

			return
		}

		key := op.OperationID + ":" + clientKey(ctx)

		allowed, err := limiter.Allow(ctx.Context(), key, cfg)
		if err != nil {
			logger.Warn("rate limiter unavailable, failing open",
				zap.String("operation", op.OperationID),
				zap.Error(err),
			)

			next(ctx)

			return
		}

		if !allowed {
			_ = huma.WriteErr(api, ctx, http.StatusTooManyRequests, "rate limit exceeded")

			return
		}

		next(ctx)
	}
}

// clientKey identifies a client by hashed IP and User-Agent.
func clientKey(ctx huma.Context) string {
	ip := rateLimitClientIP(ctx)
	ua := ctx.Header("User-Agent")

	hash := sha256.Sum256([]byte(ip + "|" + ua))

	return hex.EncodeToString(hash[:])
}

func rateLimitClientIP(ctx huma.Context) string {
	if ip := clientIP(ctx); ip != "" {
		return ip
	}

	host, _, err := net.SplitHostPort(ctx.Host())
	if err != nil {
		return ctx.Host()
	}

	return host
}
