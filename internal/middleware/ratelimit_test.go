package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/serroba/shortlink/internal/middleware"
	"github.com/serroba/shortlink/internal/ratelimit"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type errorLimiter struct{}

func (errorLimiter) Allow(_ context.Context, _ string, _ ratelimit.Config) (bool, error) {
	return false, errors.New("limiter down")
}

func setupLimitedAPI(t *testing.T, limiter ratelimit.Limiter) *chi.Mux {
	t.Helper()

	router := chi.NewMux()
	api := humachi.New(router, huma.DefaultConfig("Test", "1.0.0"))
	api.UseMiddleware(middleware.RateLimiter(api, limiter, zap.NewNop()))

	huma.Register(api, huma.Operation{
		OperationID: "limited",
		Method:      http.MethodGet,
		Path:        "/limited",
		Metadata: map[string]any{
			ratelimit.MetadataKey: ratelimit.Config{Window: time.Minute, Max: 2},
		},
	}, func(_ context.Context, _ *struct{}) (*testOutput, error) {
		return &testOutput{Body: "ok"}, nil
	})

	huma.Get(api, "/open", func(_ context.Context, _ *struct{}) (*testOutput, error) {
		return &testOutput{Body: "ok"}, nil
	})

	return router
}

func get(router *chi.Mux, path string) int {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Header.Set("User-Agent", "TestAgent/1.0")
	req.Header.Set("X-Forwarded-For", "192.168.1.1")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	return w.Code
}

func TestRateLimiter(t *testing.T) {
	t.Run("returns 429 past the configured limit", func(t *testing.T) {
		router := setupLimitedAPI(t, ratelimit.NewMemoryLimiter())

		assert.Equal(t, http.StatusOK, get(router, "/limited"))
		assert.Equal(t, http.StatusOK, get(router, "/limited"))
		assert.Equal(t, http.StatusTooManyRequests, get(router, "/limited"))
	})

	t.Run("ignores endpoints without a limit", func(t *testing.T) {
		router := setupLimitedAPI(t, ratelimit.NewMemoryLimiter())

		for range 5 {
			assert.Equal(t, http.StatusOK, get(router, "/open"))
		}
	})

	t.Run("fails open when the limiter backend errors", func(t *testing.T) {
		router := setupLimitedAPI(t, errorLimiter{})

		assert.Equal(t, http.StatusOK, get(router, "/limited"))
	})
}
