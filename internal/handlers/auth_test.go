package handlers_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/serroba/shortlink/internal/auth"
	"github.com/serroba/shortlink/internal/handlers"
	"github.com/serroba/shortlink/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newAuthHandler() *handlers.AuthHandler {
	svc := auth.NewService(store.NewMemoryUsers(), []byte("test-secret"))

	return handlers.NewAuthHandler(svc, zap.NewNop())
}

func TestRegisterHandler(t *testing.T) {
	ctx := context.Background()

	t.Run("registers an account", func(t *testing.T) {
		handler := newAuthHandler()

		req := &handlers.RegisterRequest{}
		req.Body.Email = "user@example.com"
		req.Body.Password = "s3cret-enough"

		resp, err := handler.Register(ctx, req)

		require.NoError(t, err)
		assert.NotEmpty(t, resp.Body.ID)
		assert.Equal(t, "user@example.com", resp.Body.Email)
	})

	t.Run("returns 409 for a taken email", func(t *testing.T) {
		handler := newAuthHandler()

		req := &handlers.RegisterRequest{}
		req.Body.Email = "user@example.com"
		req.Body.Password = "s3cret-enough"

		_, err := handler.Register(ctx, req)
		require.NoError(t, err)

		resp, err := handler.Register(ctx, req)

		assert.Nil(t, resp)
		assert.Equal(t, http.StatusConflict, statusOf(t, err))
	})
}

func TestLoginHandler(t *testing.T) {
	ctx := context.Background()

	t.Run("returns a bearer token", func(t *testing.T) {
		handler := newAuthHandler()

		reg := &handlers.RegisterRequest{}
		reg.Body.Email = "user@example.com"
		reg.Body.Password = "s3cret-enough"

		_, err := handler.Register(ctx, reg)
		require.NoError(t, err)

		req := &handlers.LoginRequest{}
		req.Body.Email = "user@example.com"
		req.Body.Password = "s3cret-enough"

		resp, err := handler.Login(ctx, req)

		require.NoError(t, err)
		assert.NotEmpty(t, resp.Body.AccessToken)
		assert.Equal(t, "bearer", resp.Body.TokenType)
	})

	t.Run("returns 401 for bad credentials", func(t *testing.T) {
		handler := newAuthHandler()

		req := &handlers.LoginRequest{}
		req.Body.Email = "user@example.com"
		req.Body.Password = "wrong"

		resp, err := handler.Login(ctx, req)

		assert.Nil(t, resp)
		assert.Equal(t, http.StatusUnauthorized, statusOf(t, err))
	})
}
