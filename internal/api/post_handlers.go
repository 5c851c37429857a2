package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/quillpress/quillpress-server/internal/domain"
	"github.com/quillpress/quillpress-server/internal/service"
	"github.com/quillpress/quillpress-server/internal/store"
)

func (s *Server) registerPostRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "posts.list",
		Method:      http.MethodGet,
		Path:        "/api/v1/posts",
		Summary:     "List posts",
		Description: "Returns a page of posts, newest first. Filters combine with AND.",
		Tags:        []string{"Posts"},
	}, s.handleListPosts)

	huma.Register(s.api, huma.Operation{
		OperationID: "posts.create",
		Method:      http.MethodPost,
		Path:        "/api/v1/posts",
		Summary:     "Create post",
		Description: "Creates a post owned by the caller",
		Tags:        []string{"Posts"},
		Security:    bearerSecurity,
	}, s.handleCreatePost)

	huma.Register(s.api, huma.Operation{
		OperationID: "posts.myPosts",
		Method:      http.MethodGet,
		Path:        "/api/v1/posts/mine",
		Summary:     "List my posts",
		Description: "Returns a page of the caller's posts",
		Tags:        []string{"Posts"},
		Security:    bearerSecurity,
	}, s.handleMyPosts)

	huma.Register(s.api, huma.Operation{
		OperationID: "posts.getById",
		Method:      http.MethodGet,
		Path:        "/api/v1/posts/{id}",
		Summary:     "Get post",
		Description: "Returns the post with its relations, or null",
		Tags:        []string{"Posts"},
	}, s.handleGetPost)

	huma.Register(s.api, huma.Operation{
		OperationID: "posts.getBySlug",
		Method:      http.MethodGet,
		Path:        "/api/v1/posts/slug/{slug}",
		Summary:     "Get post by slug",
		Description: "Returns the post with its relations, or null",
		Tags:        []string{"Posts"},
	}, s.handleGetPostBySlug)

	huma.Register(s.api, huma.Operation{
		OperationID: "posts.getMarkdown",
		Method:      http.MethodGet,
		Path:        "/api/v1/posts/slug/{slug}/markdown",
		Summary:     "Export post as Markdown",
		Description: "Converts a published post's HTML content to Markdown",
		Tags:        []string{"Posts"},
	}, s.handleGetPostMarkdown)

	huma.Register(s.api, huma.Operation{
		OperationID: "posts.update",
		Method:      http.MethodPatch,
		Path:        "/api/v1/posts/{id}",
		Summary:     "Update post",
		Description: "Applies the supplied fields. Owner or super admin only.",
		Tags:        []string{"Posts"},
		Security:    bearerSecurity,
	}, s.handleUpdatePost)

	huma.Register(s.api, huma.Operation{
		OperationID: "posts.delete",
		Method:      http.MethodDelete,
		Path:        "/api/v1/posts/{id}",
		Summary:     "Delete post",
		Description: "Deletes the post. Owner or super admin only.",
		Tags:        []string{"Posts"},
		Security:    bearerSecurity,
	}, s.handleDeletePost)
}

// === DTOs ===

// PostOutput wraps a post for Huma.
type PostOutput struct {
	Body *domain.BlogPost
}

// NullablePostOutput wraps a post lookup that may find nothing.
type NullablePostOutput struct {
	Body Nullable[domain.BlogPostWithRelations]
}

// PostPageOutput wraps a page of posts for Huma.
type PostPageOutput struct {
	Body *store.Page[*domain.BlogPostWithRelations]
}

// ListPostsInput carries pagination and filters.
type ListPostsInput struct {
	service.ListPostsQuery
}

// CreatePostInput wraps the create post request for Huma.
type CreatePostInput struct {
	Body service.CreatePostRequest
}

// UpdatePostInput wraps the update post request for Huma.
type UpdatePostInput struct {
	ID   string `path:"id" doc:"Post ID"`
	Body service.UpdatePostRequest
}

// MarkdownOutput wraps a Markdown export for Huma.
type MarkdownOutput struct {
	Body *service.MarkdownExport
}

// === Handlers ===

func (s *Server) handleListPosts(ctx context.Context, input *ListPostsInput) (*PostPageOutput, error) {
	page, err := s.services.Posts.List(ctx, input.ListPostsQuery)
	if err != nil {
		return nil, err
	}
	return &PostPageOutput{Body: page}, nil
}

func (s *Server) handleMyPosts(ctx context.Context, input *ListPostsInput) (*PostPageOutput, error) {
	actor, err := requireActor(ctx)
	if err != nil {
		return nil, err
	}
	page, err := s.services.Posts.MyPosts(ctx, actor, input.ListPostsQuery)
	if err != nil {
		return nil, err
	}
	return &PostPageOutput{Body: page}, nil
}

func (s *Server) handleCreatePost(ctx context.Context, input *CreatePostInput) (*PostOutput, error) {
	p, err := s.services.Posts.Create(ctx, actorFrom(ctx), input.Body)
	if err != nil {
		return nil, err
	}
	return &PostOutput{Body: p}, nil
}

func (s *Server) handleGetPost(ctx context.Context, input *IDInput) (*NullablePostOutput, error) {
	p, err := s.services.Posts.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &NullablePostOutput{Body: NullableOf(p)}, nil
}

func (s *Server) handleGetPostBySlug(ctx context.Context, input *SlugInput) (*NullablePostOutput, error) {
	p, err := s.services.Posts.GetBySlug(ctx, input.Slug)
	if err != nil {
		return nil, err
	}
	return &NullablePostOutput{Body: NullableOf(p)}, nil
}

func (s *Server) handleGetPostMarkdown(ctx context.Context, input *SlugInput) (*MarkdownOutput, error) {
	export, err := s.services.Posts.Markdown(ctx, input.Slug)
	if err != nil {
		return nil, err
	}
	return &MarkdownOutput{Body: export}, nil
}

func (s *Server) handleUpdatePost(ctx context.Context, input *UpdatePostInput) (*PostOutput, error) {
	p, err := s.services.Posts.Update(ctx, actorFrom(ctx), input.ID, input.Body)
	if err != nil {
		return nil, err
	}
	return &PostOutput{Body: p}, nil
}

func (s *Server) handleDeletePost(ctx context.Context, input *IDInput) (*DeletedOutput, error) {
	if err := s.services.Posts.Delete(ctx, actorFrom(ctx), input.ID); err != nil {
		return nil, err
	}
	return deleted(input.ID), nil
}
