package middleware

import (
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/shortlink/internal/auth"
	"github.com/serroba/shortlink/internal/handlers"
)

// Principal extracts the bearer token, verifies it, and puts the resulting
// principal into the request context. Requests without a token pass through
// anonymously; handlers decide whether a principal is required. A present
// but invalid token is rejected outright.
func Principal(api huma.API, verifier *auth.Service) func(ctx huma.Context, next func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		header := ctx.Header("Authorization")
		if header == "" {
			next(ctx)

			return
		}

		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok {
			_ = huma.WriteErr(api, ctx, 401, "malformed authorization header")

			return
		}

		principal, err := verifier.VerifyToken(token)
		if err != nil {
			_ = huma.WriteErr(api, ctx, 401, "invalid token")

			return
		}

		newCtx := handlers.ContextWithPrincipal(ctx.Context(), principal)
		ctx = huma.WithContext(ctx, newCtx)

		next(ctx)
	}
}
