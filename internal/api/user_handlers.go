package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/quillpress/quillpress-server/internal/domain"
	"github.com/quillpress/quillpress-server/internal/service"
	"github.com/quillpress/quillpress-server/internal/store"
)

func (s *Server) registerUserRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "users.create",
		Method:      http.MethodPost,
		Path:        "/api/v1/users",
		Summary:     "Create user",
		Description: "Creates an account. Super admin only.",
		Tags:        []string{"Users"},
		Security:    bearerSecurity,
	}, s.handleCreateUser)

	huma.Register(s.api, huma.Operation{
		OperationID: "users.list",
		Method:      http.MethodGet,
		Path:        "/api/v1/users",
		Summary:     "List users",
		Description: "Returns a page of users. Super admin only.",
		Tags:        []string{"Users"},
		Security:    bearerSecurity,
	}, s.handleListUsers)

	huma.Register(s.api, huma.Operation{
		OperationID: "users.getById",
		Method:      http.MethodGet,
		Path:        "/api/v1/users/{id}",
		Summary:     "Get user",
		Description: "Returns the user or null. The user themself or a super admin.",
		Tags:        []string{"Users"},
		Security:    bearerSecurity,
	}, s.handleGetUser)

	huma.Register(s.api, huma.Operation{
		OperationID: "users.update",
		Method:      http.MethodPatch,
		Path:        "/api/v1/users/{id}",
		Summary:     "Update user",
		Description: "Applies the supplied fields. The user themself or a super admin.",
		Tags:        []string{"Users"},
		Security:    bearerSecurity,
	}, s.handleUpdateUser)

	huma.Register(s.api, huma.Operation{
		OperationID: "users.delete",
		Method:      http.MethodDelete,
		Path:        "/api/v1/users/{id}",
		Summary:     "Delete user",
		Description: "Deletes the account and its posts. Super admin only.",
		Tags:        []string{"Users"},
		Security:    bearerSecurity,
	}, s.handleDeleteUser)
}

// === DTOs ===

// IDInput addresses a resource by ID.
type IDInput struct {
	ID string `path:"id" doc:"Resource ID"`
}

// SlugInput addresses a resource by slug.
type SlugInput struct {
	Slug string `path:"slug" doc:"URL slug"`
}

// DeletedResponse confirms a deletion.
type DeletedResponse struct {
	ID      string `json:"id" doc:"ID of the deleted resource"`
	Deleted bool   `json:"deleted" doc:"Always true"`
}

// DeletedOutput wraps a deletion confirmation for Huma.
type DeletedOutput struct {
	Body DeletedResponse
}

func deleted(id string) *DeletedOutput {
	return &DeletedOutput{Body: DeletedResponse{ID: id, Deleted: true}}
}

// CreateUserInput wraps the create user request for Huma.
type CreateUserInput struct {
	Body service.CreateUserRequest
}

// UpdateUserInput wraps the update user request for Huma.
type UpdateUserInput struct {
	ID   string `path:"id" doc:"User ID"`
	Body service.UpdateUserRequest
}

// ListUsersInput carries pagination.
type ListUsersInput struct {
	service.PageQuery
}

// UserPageOutput wraps a page of users for Huma.
type UserPageOutput struct {
	Body *store.Page[*domain.User]
}

// NullableUserOutput wraps a user lookup that may find nothing.
type NullableUserOutput struct {
	Body Nullable[domain.User]
}

// === Handlers ===

func (s *Server) handleCreateUser(ctx context.Context, input *CreateUserInput) (*UserOutput, error) {
	user, err := s.services.Users.Create(ctx, actorFrom(ctx), input.Body)
	if err != nil {
		return nil, err
	}
	return &UserOutput{Body: user}, nil
}

func (s *Server) handleListUsers(ctx context.Context, input *ListUsersInput) (*UserPageOutput, error) {
	page, err := s.services.Users.List(ctx, actorFrom(ctx), input.PageQuery)
	if err != nil {
		return nil, err
	}
	return &UserPageOutput{Body: page}, nil
}

func (s *Server) handleGetUser(ctx context.Context, input *IDInput) (*NullableUserOutput, error) {
	user, err := s.services.Users.GetByID(ctx, actorFrom(ctx), input.ID)
	if err != nil {
		return nil, err
	}
	return &NullableUserOutput{Body: NullableOf(user)}, nil
}

func (s *Server) handleUpdateUser(ctx context.Context, input *UpdateUserInput) (*UserOutput, error) {
	user, err := s.services.Users.Update(ctx, actorFrom(ctx), input.ID, input.Body)
	if err != nil {
		return nil, err
	}
	return &UserOutput{Body: user}, nil
}

func (s *Server) handleDeleteUser(ctx context.Context, input *IDInput) (*DeletedOutput, error) {
	if err := s.services.Users.Delete(ctx, actorFrom(ctx), input.ID); err != nil {
		return nil, err
	}
	return deleted(input.ID), nil
}
