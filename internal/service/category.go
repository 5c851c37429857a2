package service

import (
	"context"
	"fmt"

	"github.com/quillpress/quillpress-server/internal/domain"
	"github.com/quillpress/quillpress-server/internal/id"
)

// CategoryService manages categories. Writes are super admin only; reads are public.
type CategoryService struct {
	Deps
}

// NewCategoryService creates a category service.
func NewCategoryService(deps Deps) *CategoryService {
	return &CategoryService{Deps: deps.withDefaults()}
}

// CreateCategoryRequest contains the fields for a new category.
type CreateCategoryRequest struct {
	Name        string  `json:"name" minLength:"1" maxLength:"100" validate:"required,min=1,max=100" doc:"Display name"`
	Slug        string  `json:"slug,omitempty" validate:"omitempty,max=100,slug" doc:"Derived from the name when omitted"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=500" doc:"Optional description"`
}

// UpdateCategoryRequest carries the fields to change.
type UpdateCategoryRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitnil,min=1,max=100" doc:"Display name"`
	Slug        *string `json:"slug,omitempty" validate:"omitnil,max=100,slug" doc:"URL-safe unique slug"`
	Description *string `json:"description,omitempty" nullable:"true" validate:"omitempty,max=500" doc:"Description. Omitted or null keeps it, empty string clears it"`
}

// Create adds a category.
func (s *CategoryService) Create(ctx context.Context, actor *domain.Actor, req CreateCategoryRequest) (*domain.Category, error) {
	if err := domain.Authorize(actor, "", domain.AccessSuperAdmin); err != nil {
		return nil, s.fail(ctx, "categories.create", err)
	}
	if err := s.Validator.Validate(req); err != nil {
		return nil, s.fail(ctx, "categories.create", err)
	}

	slugValue, err := resolveSlug(req.Slug, req.Name)
	if err != nil {
		return nil, s.fail(ctx, "categories.create", err)
	}
	catID, err := id.Generate(id.PrefixCategory)
	if err != nil {
		return nil, s.fail(ctx, "categories.create", fmt.Errorf("generate category ID: %w", err))
	}

	now := s.now()
	c := &domain.Category{
		ID:          catID,
		Name:        req.Name,
		Slug:        slugValue,
		Description: emptyToNil(req.Description),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.Store.CreateCategory(ctx, c); err != nil {
		return nil, s.fail(ctx, "categories.create", translate(err, "category"), "slug", c.Slug)
	}
	return c, nil
}

// Update applies the present fields.
func (s *CategoryService) Update(ctx context.Context, actor *domain.Actor, categoryID string, req UpdateCategoryRequest) (*domain.Category, error) {
	if err := domain.Authorize(actor, "", domain.AccessSuperAdmin); err != nil {
		return nil, s.fail(ctx, "categories.update", err)
	}
	if err := s.Validator.Validate(req); err != nil {
		return nil, s.fail(ctx, "categories.update", err)
	}

	c, err := s.Store.GetCategory(ctx, categoryID)
	if err != nil {
		return nil, s.fail(ctx, "categories.update", translate(err, "category"), "category_id", categoryID)
	}

	applyString(&c.Name, req.Name)
	applyString(&c.Slug, req.Slug)
	applyNullable(&c.Description, req.Description)
	c.UpdatedAt = s.now()

	if err := s.Store.UpdateCategory(ctx, c); err != nil {
		return nil, s.fail(ctx, "categories.update", translate(err, "category"), "category_id", categoryID)
	}
	return c, nil
}

// Delete removes the category and its post associations. Posts stay.
func (s *CategoryService) Delete(ctx context.Context, actor *domain.Actor, categoryID string) error {
	if err := domain.Authorize(actor, "", domain.AccessSuperAdmin); err != nil {
		return s.fail(ctx, "categories.delete", err)
	}
	if err := s.Store.DeleteCategory(ctx, categoryID); err != nil {
		return s.fail(ctx, "categories.delete", translate(err, "category"), "category_id", categoryID)
	}
	return nil
}

// List returns every category ordered by name.
func (s *CategoryService) List(ctx context.Context) ([]*domain.Category, error) {
	cats, err := s.Store.ListCategories(ctx)
	if err != nil {
		return nil, s.fail(ctx, "categories.list", err)
	}
	return cats, nil
}

// GetByID returns the category or nil.
func (s *CategoryService) GetByID(ctx context.Context, categoryID string) (*domain.Category, error) {
	c, err := nullIfMissing(s.Store.GetCategory(ctx, categoryID))
	if err != nil {
		return nil, s.fail(ctx, "categories.getById", err, "category_id", categoryID)
	}
	return c, nil
}

// GetBySlug returns the category or nil. Matching is case-sensitive.
func (s *CategoryService) GetBySlug(ctx context.Context, slugValue string) (*domain.Category, error) {
	c, err := nullIfMissing(s.Store.GetCategoryBySlug(ctx, slugValue))
	if err != nil {
		return nil, s.fail(ctx, "categories.getBySlug", err, "slug", slugValue)
	}
	return c, nil
}
