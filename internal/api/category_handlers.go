package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/quillpress/quillpress-server/internal/domain"
	"github.com/quillpress/quillpress-server/internal/service"
)

func (s *Server) registerCategoryRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "categories.list",
		Method:      http.MethodGet,
		Path:        "/api/v1/categories",
		Summary:     "List categories",
		Description: "Returns every category ordered by name",
		Tags:        []string{"Categories"},
	}, s.handleListCategories)

	huma.Register(s.api, huma.Operation{
		OperationID: "categories.create",
		Method:      http.MethodPost,
		Path:        "/api/v1/categories",
		Summary:     "Create category",
		Description: "Creates a category. The slug is derived from the name when omitted.",
		Tags:        []string{"Categories"},
		Security:    bearerSecurity,
	}, s.handleCreateCategory)

	huma.Register(s.api, huma.Operation{
		OperationID: "categories.getById",
		Method:      http.MethodGet,
		Path:        "/api/v1/categories/{id}",
		Summary:     "Get category",
		Description: "Returns the category or null",
		Tags:        []string{"Categories"},
	}, s.handleGetCategory)

	huma.Register(s.api, huma.Operation{
		OperationID: "categories.getBySlug",
		Method:      http.MethodGet,
		Path:        "/api/v1/categories/slug/{slug}",
		Summary:     "Get category by slug",
		Description: "Returns the category or null. Matching is case-sensitive.",
		Tags:        []string{"Categories"},
	}, s.handleGetCategoryBySlug)

	huma.Register(s.api, huma.Operation{
		OperationID: "categories.update",
		Method:      http.MethodPatch,
		Path:        "/api/v1/categories/{id}",
		Summary:     "Update category",
		Description: "Applies the supplied fields",
		Tags:        []string{"Categories"},
		Security:    bearerSecurity,
	}, s.handleUpdateCategory)

	huma.Register(s.api, huma.Operation{
		OperationID: "categories.delete",
		Method:      http.MethodDelete,
		Path:        "/api/v1/categories/{id}",
		Summary:     "Delete category",
		Description: "Deletes the category and detaches it from posts",
		Tags:        []string{"Categories"},
		Security:    bearerSecurity,
	}, s.handleDeleteCategory)
}

// === DTOs ===

// CategoryOutput wraps a category for Huma.
type CategoryOutput struct {
	Body *domain.Category
}

// NullableCategoryOutput wraps a category lookup that may find nothing.
type NullableCategoryOutput struct {
	Body Nullable[domain.Category]
}

// ListCategoriesOutput wraps the category list for Huma.
type ListCategoriesOutput struct {
	Body []*domain.Category
}

// CreateCategoryInput wraps the create category request for Huma.
type CreateCategoryInput struct {
	Body service.CreateCategoryRequest
}

// UpdateCategoryInput wraps the update category request for Huma.
type UpdateCategoryInput struct {
	ID   string `path:"id" doc:"Category ID"`
	Body service.UpdateCategoryRequest
}

// === Handlers ===

func (s *Server) handleListCategories(ctx context.Context, _ *struct{}) (*ListCategoriesOutput, error) {
	cats, err := s.services.Categories.List(ctx)
	if err != nil {
		return nil, err
	}
	if cats == nil {
		cats = []*domain.Category{}
	}
	return &ListCategoriesOutput{Body: cats}, nil
}

func (s *Server) handleCreateCategory(ctx context.Context, input *CreateCategoryInput) (*CategoryOutput, error) {
	c, err := s.services.Categories.Create(ctx, actorFrom(ctx), input.Body)
	if err != nil {
		return nil, err
	}
	return &CategoryOutput{Body: c}, nil
}

func (s *Server) handleGetCategory(ctx context.Context, input *IDInput) (*NullableCategoryOutput, error) {
	c, err := s.services.Categories.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &NullableCategoryOutput{Body: NullableOf(c)}, nil
}

func (s *Server) handleGetCategoryBySlug(ctx context.Context, input *SlugInput) (*NullableCategoryOutput, error) {
	c, err := s.services.Categories.GetBySlug(ctx, input.Slug)
	if err != nil {
		return nil, err
	}
	return &NullableCategoryOutput{Body: NullableOf(c)}, nil
}

func (s *Server) handleUpdateCategory(ctx context.Context, input *UpdateCategoryInput) (*CategoryOutput, error) {
	c, err := s.services.Categories.Update(ctx, actorFrom(ctx), input.ID, input.Body)
	if err != nil {
		return nil, err
	}
	return &CategoryOutput{Body: c}, nil
}

func (s *Server) handleDeleteCategory(ctx context.Context, input *IDInput) (*DeletedOutput, error) {
	if err := s.services.Categories.Delete(ctx, actorFrom(ctx), input.ID); err != nil {
		return nil, err
	}
	return deleted(input.ID), nil
}
