package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/quillpress/quillpress-server/internal/domain"
	"github.com/quillpress/quillpress-server/internal/service"
)

func (s *Server) registerAuthRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "auth.login",
		Method:      http.MethodPost,
		Path:        loginPath,
		Summary:     "Log in",
		Description: "Checks credentials and returns a signed access token",
		Tags:        []string{"Auth"},
	}, s.handleLogin)

	huma.Register(s.api, huma.Operation{
		OperationID: "auth.me",
		Method:      http.MethodGet,
		Path:        "/api/v1/auth/me",
		Summary:     "Current user",
		Description: "Returns the user the bearer token belongs to",
		Tags:        []string{"Auth"},
		Security:    bearerSecurity,
	}, s.handleMe)
}

// LoginInput wraps the login request for Huma.
type LoginInput struct {
	Body service.LoginRequest
}

// LoginOutput wraps the login response for Huma.
type LoginOutput struct {
	Body *service.LoginResponse
}

// UserOutput wraps a user for Huma.
type UserOutput struct {
	Body *domain.User
}

func (s *Server) handleLogin(ctx context.Context, input *LoginInput) (*LoginOutput, error) {
	resp, err := s.services.Auth.Login(ctx, input.Body)
	if err != nil {
		return nil, err
	}
	return &LoginOutput{Body: resp}, nil
}

func (s *Server) handleMe(ctx context.Context, _ *struct{}) (*UserOutput, error) {
	actor, err := requireActor(ctx)
	if err != nil {
		return nil, err
	}
	user, err := s.services.Auth.GetCurrentUser(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	return &UserOutput{Body: user}, nil
}
