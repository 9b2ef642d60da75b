package handlers

import (
	"context"

	"github.com/google/uuid"
)

type requestMetaKey struct{}

// RequestMeta holds HTTP request metadata for analytics.
type RequestMeta struct {
	ClientIP  string
	UserAgent string
	Referrer  string
}

// ContextWithRequestMeta adds request metadata to context.
func ContextWithRequestMeta(ctx context.Context, meta RequestMeta) context.Context {
	return context.WithValue(ctx, requestMetaKey{}, meta)
}

// RequestMetaFromContext extracts request metadata from context.
func RequestMetaFromContext(ctx context.Context) RequestMeta {
	if v, ok := ctx.Value(requestMetaKey{}).(RequestMeta); ok {
		return v
	}

	return RequestMeta{}
}

type principalKey struct{}

// ContextWithPrincipal adds the authenticated principal to context.
func ContextWithPrincipal(ctx context.Context, principal uuid.UUID) context.Context {
	return context.WithValue(ctx, principalKey{}, principal)
}

// PrincipalFromContext extracts the authenticated principal from context.
// The second return is false for anonymous requests.
func PrincipalFromContext(ctx context.Context) (uuid.UUID, bool) {
	v, ok := ctx.Value(principalKey{}).(uuid.UUID)

	return v, ok
}
