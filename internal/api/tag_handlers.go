package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/quillpress/quillpress-server/internal/domain"
	"github.com/quillpress/quillpress-server/internal/service"
)

func (s *Server) registerTagRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "tags.list",
		Method:      http.MethodGet,
		Path:        "/api/v1/tags",
		Summary:     "List tags",
		Description: "Returns every tag ordered by name",
		Tags:        []string{"Tags"},
	}, s.handleListTags)

	huma.Register(s.api, huma.Operation{
		OperationID: "tags.create",
		Method:      http.MethodPost,
		Path:        "/api/v1/tags",
		Summary:     "Create tag",
		Description: "Creates a tag. The slug is derived from the name when omitted.",
		Tags:        []string{"Tags"},
		Security:    bearerSecurity,
	}, s.handleCreateTag)

	huma.Register(s.api, huma.Operation{
		OperationID: "tags.getById",
		Method:      http.MethodGet,
		Path:        "/api/v1/tags/{id}",
		Summary:     "Get tag",
		Description: "Returns the tag or null",
		Tags:        []string{"Tags"},
	}, s.handleGetTag)

	huma.Register(s.api, huma.Operation{
		OperationID: "tags.getBySlug",
		Method:      http.MethodGet,
		Path:        "/api/v1/tags/slug/{slug}",
		Summary:     "Get tag by slug",
		Description: "Returns the tag or null",
		Tags:        []string{"Tags"},
	}, s.handleGetTagBySlug)

	huma.Register(s.api, huma.Operation{
		OperationID: "tags.update",
		Method:      http.MethodPatch,
		Path:        "/api/v1/tags/{id}",
		Summary:     "Update tag",
		Description: "Applies the supplied fields",
		Tags:        []string{"Tags"},
		Security:    bearerSecurity,
	}, s.handleUpdateTag)

	huma.Register(s.api, huma.Operation{
		OperationID: "tags.delete",
		Method:      http.MethodDelete,
		Path:        "/api/v1/tags/{id}",
		Summary:     "Delete tag",
		Description: "Deletes the tag and detaches it from posts",
		Tags:        []string{"Tags"},
		Security:    bearerSecurity,
	}, s.handleDeleteTag)
}

// === DTOs ===

// TagOutput wraps a tag for Huma.
type TagOutput struct {
	Body *domain.Tag
}

// NullableTagOutput wraps a tag lookup that may find nothing.
type NullableTagOutput struct {
	Body Nullable[domain.Tag]
}

// ListTagsOutput wraps the tag list for Huma.
type ListTagsOutput struct {
	Body []*domain.Tag
}

// CreateTagInput wraps the create tag request for Huma.
type CreateTagInput struct {
	Body service.CreateTagRequest
}

// UpdateTagInput wraps the update tag request for Huma.
type UpdateTagInput struct {
	ID   string `path:"id" doc:"Tag ID"`
	Body service.UpdateTagRequest
}

// === Handlers ===

func (s *Server) handleListTags(ctx context.Context, _ *struct{}) (*ListTagsOutput, error) {
	tags, err := s.services.Tags.List(ctx)
	if err != nil {
		return nil, err
	}
	if tags == nil {
		tags = []*domain.Tag{}
	}
	return &ListTagsOutput{Body: tags}, nil
}

func (s *Server) handleCreateTag(ctx context.Context, input *CreateTagInput) (*TagOutput, error) {
	t, err := s.services.Tags.Create(ctx, actorFrom(ctx), input.Body)
	if err != nil {
		return nil, err
	}
	return &TagOutput{Body: t}, nil
}

func (s *Server) handleGetTag(ctx context.Context, input *IDInput) (*NullableTagOutput, error) {
	t, err := s.services.Tags.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &NullableTagOutput{Body: NullableOf(t)}, nil
}

func (s *Server) handleGetTagBySlug(ctx context.Context, input *SlugInput) (*NullableTagOutput, error) {
	t, err := s.services.Tags.GetBySlug(ctx, input.Slug)
	if err != nil {
		return nil, err
	}
	return &NullableTagOutput{Body: NullableOf(t)}, nil
}

func (s *Server) handleUpdateTag(ctx context.Context, input *UpdateTagInput) (*TagOutput, error) {
	t, err := s.services.Tags.Update(ctx, actorFrom(ctx), input.ID, input.Body)
	if err != nil {
		return nil, err
	}
	return &TagOutput{Body: t}, nil
}

func (s *Server) handleDeleteTag(ctx context.Context, input *IDInput) (*DeletedOutput, error) {
	if err := s.services.Tags.Delete(ctx, actorFrom(ctx), input.ID); err != nil {
		return nil, err
	}
	return deleted(input.ID), nil
}
