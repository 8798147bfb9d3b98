package handlers

import (
	"context"
	"errors"

	"github.com/danielgtaylor/huma/v2"
	"github.com/linkboost/linkboost/internal/auth"
	"github.com/linkboost/linkboost/internal/user"
	"go.uber.org/zap"
)

// AuthHandler handles account registration and login.
type AuthHandler struct {
	users  *user.Service
	tokens *auth.TokenManager
	logger *zap.Logger
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(users *user.Service, tokens *auth.TokenManager, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		users:  users,
		tokens: tokens,
		logger: logger,
	}
}

// Register creates an account and returns a bearer token.
func (h *AuthHandler) Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error) {
	u, err := h.users.Register(ctx, req.Body.Username, req.Body.Password)
	if err != nil {
		if errors.Is(err, user.ErrUsernameTaken) {
			return nil, huma.Error409Conflict("username already taken")
		}

		h.logger.Error("failed to register user", zap.Error(err))

		return nil, huma.Error500InternalServerError("failed to register")
	}

	return h.tokenResponse(u)
}

// Login verifies credentials and returns a bearer token.
func (h *AuthHandler) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	u, err := h.users.Authenticate(ctx, req.Body.Username, req.Body.Password)
	if err != nil {
		if errors.Is(err, user.ErrInvalidCredentials) {
			return nil, huma.Error401Unauthorized("invalid credentials")
		}

		h.logger.Error("failed to authenticate user", zap.Error(err))

		return nil, huma.Error500InternalServerError("failed to authenticate")
	}

	return h.tokenResponse(u)
}

func (h *AuthHandler) tokenResponse(u *user.User) (*AuthResponse, error) {
	token, err := h.tokens.Issue(u.ID, u.Username)
	if err != nil {
		h.logger.Error("failed to issue token", zap.Int64("userId", u.ID), zap.Error(err))

		return nil, huma.Error500InternalServerError("failed to issue token")
	}

	resp := &AuthResponse{}
	resp.Body.Token = token
	resp.Body.UserID = u.ID
	resp.Body.Username = u.Username

	return resp, nil
}
