package handlers

import (
	"context"
	"errors"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/shortlink/internal/auth"
	"go.uber.org/zap"
)

// AuthHandler exposes account registration and login.
type AuthHandler struct {
	service *auth.Service
	logger  *zap.Logger
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(service *auth.Service, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{service: service, logger: logger}
}

func (h *AuthHandler) Register(ctx context.Context, req *RegisterRequest) (*RegisterResponse, error) {
	u, err := h.service.Register(ctx, req.Body.Email, req.Body.Password)
	if err != nil {
		if errors.Is(err, auth.ErrEmailTaken) {
			return nil, huma.Error409Conflict("email already registered")
		}

		h.logger.Error("register failed", zap.Error(err))

		return nil, huma.Error500InternalServerError("failed to register")
	}

	resp := &RegisterResponse{}
	resp.Body.ID = u.ID.String()
	resp.Body.Email = u.Email

	return resp, nil
}

func (h *AuthHandler) Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	token, err := h.service.Login(ctx, req.Body.Email, req.Body.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			return nil, huma.Error401Unauthorized("incorrect email or password")
		}

		h.logger.Error("login failed", zap.Error(err))

		return nil, huma.Error500InternalServerError("failed to log in")
	}

	resp := &LoginResponse{}
	resp.Body.AccessToken = token
	resp.Body.TokenType = "bearer"

	return resp, nil
}
