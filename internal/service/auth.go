package service

import (
	"context"
	"sync"
	"time"

	"github.com/quillpress/quillpress-server/internal/auth"
	"github.com/quillpress/quillpress-server/internal/domain"
	domainerrors "github.com/quillpress/quillpress-server/internal/errors"
	"github.com/quillpress/quillpress-server/internal/store"
)

// AuthService checks credentials and issues and verifies access tokens.
type AuthService struct {
	Deps
	hasher *auth.PasswordHasher
	tokens *auth.TokenService

	dummyHash func() string
}

// NewAuthService creates an auth service.
func NewAuthService(deps Deps, hasher *auth.PasswordHasher, tokens *auth.TokenService) *AuthService {
	if hasher == nil {
		hasher = auth.NewPasswordHasher(auth.DefaultParams)
	}
	return &AuthService{
		Deps:   deps.withDefaults(),
		hasher: hasher,
		tokens: tokens,
		dummyHash: sync.OnceValue(func() string {
			h, _ := hasher.Hash("quillpress-unknown-account")
			return h
		}),
	}
}

// LoginRequest holds sign-in credentials.
type LoginRequest struct {
	Email    string `json:"email" format:"email" validate:"required,email" doc:"Account email"`
	Password string `json:"password" minLength:"1" validate:"required" doc:"Account password"`
}

// LoginResponse is returned on successful sign-in.
type LoginResponse struct {
	User      *domain.User `json:"user" doc:"Signed-in user"`
	Token     string       `json:"token" doc:"Bearer access token"`
	ExpiresAt time.Time    `json:"expires_at" doc:"Token expiry"`
}

// Login verifies the credentials and issues a token.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	if err := s.Validator.Validate(req); err != nil {
		return nil, s.fail(ctx, "auth.login", err)
	}

	user, err := s.Store.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if domainerrors.Is(err, store.ErrNotFound) {
			// Equalise timing with the known-email path.
			s.hasher.Verify(s.dummyHash(), req.Password)
			return nil, s.fail(ctx, "auth.login", domainerrors.ErrInvalidCredentials)
		}
		return nil, s.fail(ctx, "auth.login", err)
	}
	if !user.IsActive {
		return nil, s.fail(ctx, "auth.login", domainerrors.ErrAccountDeactivated, "user_id", user.ID)
	}
	if !s.hasher.Verify(user.PasswordHash, req.Password) {
		return nil, s.fail(ctx, "auth.login", domainerrors.ErrInvalidCredentials, "user_id", user.ID)
	}

	token, expiresAt, err := s.tokens.Issue(user)
	if err != nil {
		return nil, s.fail(ctx, "auth.login", err, "user_id", user.ID)
	}
	s.log(ctx).Info("User logged in", "user_id", user.ID)
	return &LoginResponse{User: user.Sanitized(), Token: token, ExpiresAt: expiresAt}, nil
}

// VerifyToken resolves a token to its active user. Any failure, including a
// deleted or deactivated user, yields nil.
func (s *AuthService) VerifyToken(ctx context.Context, token string) *domain.User {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		s.log(ctx).Debug("token rejected", "error", err)
		return nil
	}
	user, err := s.Store.GetUser(ctx, claims.UserID)
	if err != nil {
		if !domainerrors.Is(err, store.ErrNotFound) {
			s.log(ctx).Error("token user lookup failed", "user_id", claims.UserID, "error", err)
		}
		return nil
	}
	if !user.IsActive {
		return nil
	}
	return user.Sanitized()
}

// GetCurrentUser looks the user up by id. It does not filter on is_active.
func (s *AuthService) GetCurrentUser(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.Store.GetUser(ctx, userID)
	if err != nil {
		return nil, s.fail(ctx, "auth.me", translate(err, "user"), "user_id", userID)
	}
	return user.Sanitized(), nil
}
