package service

import (
	"context"
	"fmt"

	"github.com/quillpress/quillpress-server/internal/domain"
	"github.com/quillpress/quillpress-server/internal/id"
)

// TagService manages tags. Writes are super admin only; reads are public.
type TagService struct {
	Deps
}

// NewTagService creates a tag service.
func NewTagService(deps Deps) *TagService {
	return &TagService{Deps: deps.withDefaults()}
}

// CreateTagRequest contains the fields for a new tag.
type CreateTagRequest struct {
	Name string `json:"name" minLength:"1" maxLength:"50" validate:"required,min=1,max=50" doc:"Display name"`
	Slug string `json:"slug,omitempty" validate:"omitempty,max=50,slug" doc:"Derived from the name when omitted"`
}

// UpdateTagRequest carries the fields to change.
type UpdateTagRequest struct {
	Name *string `json:"name,omitempty" validate:"omitnil,min=1,max=50" doc:"Display name"`
	Slug *string `json:"slug,omitempty" validate:"omitnil,max=50,slug" doc:"URL-safe unique slug"`
}

// Create adds a tag.
func (s *TagService) Create(ctx context.Context, actor *domain.Actor, req CreateTagRequest) (*domain.Tag, error) {
	if err := domain.Authorize(actor, "", domain.AccessSuperAdmin); err != nil {
		return nil, s.fail(ctx, "tags.create", err)
	}
	if err := s.Validator.Validate(req); err != nil {
		return nil, s.fail(ctx, "tags.create", err)
	}

	slugValue, err := resolveSlug(req.Slug, req.Name)
	if err != nil {
		return nil, s.fail(ctx, "tags.create", err)
	}
	tagID, err := id.Generate(id.PrefixTag)
	if err != nil {
		return nil, s.fail(ctx, "tags.create", fmt.Errorf("generate tag ID: %w", err))
	}

	now := s.now()
	t := &domain.Tag{ID: tagID, Name: req.Name, Slug: slugValue, CreatedAt: now, UpdatedAt: now}
	if err := s.Store.CreateTag(ctx, t); err != nil {
		return nil, s.fail(ctx, "tags.create", translate(err, "tag"), "slug", t.Slug)
	}
	return t, nil
}

// Update applies the present fields.
func (s *TagService) Update(ctx context.Context, actor *domain.Actor, tagID string, req UpdateTagRequest) (*domain.Tag, error) {
	if err := domain.Authorize(actor, "", domain.AccessSuperAdmin); err != nil {
		return nil, s.fail(ctx, "tags.update", err)
	}
	if err := s.Validator.Validate(req); err != nil {
		return nil, s.fail(ctx, "tags.update", err)
	}

	t, err := s.Store.GetTag(ctx, tagID)
	if err != nil {
		return nil, s.fail(ctx, "tags.update", translate(err, "tag"), "tag_id", tagID)
	}

	applyString(&t.Name, req.Name)
	applyString(&t.Slug, req.Slug)
	t.UpdatedAt = s.now()

	if err := s.Store.UpdateTag(ctx, t); err != nil {
		return nil, s.fail(ctx, "tags.update", translate(err, "tag"), "tag_id", tagID)
	}
	return t, nil
}

// Delete removes the tag and its post associations.
func (s *TagService) Delete(ctx context.Context, actor *domain.Actor, tagID string) error {
	if err := domain.Authorize(actor, "", domain.AccessSuperAdmin); err != nil {
		return s.fail(ctx, "tags.delete", err)
	}
	if err := s.Store.DeleteTag(ctx, tagID); err != nil {
		return s.fail(ctx, "tags.delete", translate(err, "tag"), "tag_id", tagID)
	}
	return nil
}

// List returns every tag ordered by name.
func (s *TagService) List(ctx context.Context) ([]*domain.Tag, error) {
	tags, err := s.Store.ListTags(ctx)
	if err != nil {
		return nil, s.fail(ctx, "tags.list", err)
	}
	return tags, nil
}

// GetByID returns the tag or nil.
func (s *TagService) GetByID(ctx context.Context, tagID string) (*domain.Tag, error) {
	t, err := nullIfMissing(s.Store.GetTag(ctx, tagID))
	if err != nil {
		return nil, s.fail(ctx, "tags.getById", err, "tag_id", tagID)
	}
	return t, nil
}

// GetBySlug returns the tag or nil.
func (s *TagService) GetBySlug(ctx context.Context, slugValue string) (*domain.Tag, error) {
	t, err := nullIfMissing(s.Store.GetTagBySlug(ctx, slugValue))
	if err != nil {
		return nil, s.fail(ctx, "tags.getBySlug", err, "slug", slugValue)
	}
	return t, nil
}
