package service

import (
	"context"
	"fmt"

	"github.com/quillpress/quillpress-server/internal/content"
	"github.com/quillpress/quillpress-server/internal/domain"
	domainerrors "github.com/quillpress/quillpress-server/internal/errors"
	"github.com/quillpress/quillpress-server/internal/id"
	"github.com/quillpress/quillpress-server/internal/store"
)

// PostService manages blog posts.
type PostService struct {
	Deps
}

// NewPostService creates a post service.
func NewPostService(deps Deps) *PostService {
	return &PostService{Deps: deps.withDefaults()}
}

// CreatePostRequest contains the fields for a new post.
type CreatePostRequest struct {
	Title         string            `json:"title" minLength:"1" maxLength:"255" validate:"required,min=1,max=255" doc:"Title"`
	Slug          string            `json:"slug,omitempty" validate:"omitempty,max=255,slug" doc:"Derived from the title when omitted"`
	Content       string            `json:"content" minLength:"1" validate:"required" doc:"Body (HTML)"`
	Excerpt       *string           `json:"excerpt,omitempty" validate:"omitempty,max=500" doc:"Optional excerpt"`
	FeaturedImage *string           `json:"featured_image,omitempty" validate:"omitempty,url,max=2048" doc:"Featured image URL"`
	Status        domain.PostStatus `json:"status,omitempty" enum:"draft,published" validate:"omitempty,oneof=draft published" doc:"Defaults to draft"`
	CategoryIDs   []string          `json:"category_ids" minItems:"1" validate:"required,min=1,dive,required" doc:"At least one category ID"`
	TagIDs        []string          `json:"tag_ids,omitempty" validate:"omitempty,dive,required" doc:"Tag IDs"`
}

// UpdatePostRequest carries the fields to change. A non-nil CategoryIDs or
// TagIDs replaces that association set, even when empty.
type UpdatePostRequest struct {
	Title         *string            `json:"title,omitempty" validate:"omitnil,min=1,max=255" doc:"Title"`
	Slug          *string            `json:"slug,omitempty" validate:"omitnil,max=255,slug" doc:"URL-safe unique slug"`
	Content       *string            `json:"content,omitempty" validate:"omitnil,min=1" doc:"Body (HTML)"`
	Excerpt       *string            `json:"excerpt,omitempty" nullable:"true" validate:"omitempty,max=500" doc:"Excerpt. Omitted or null keeps it, empty string clears it"`
	FeaturedImage *string            `json:"featured_image,omitempty" nullable:"true" validate:"omitempty,url,max=2048" doc:"Featured image URL. Omitted or null keeps it, empty string clears it"`
	Status        *domain.PostStatus `json:"status,omitempty" enum:"draft,published" validate:"omitnil,oneof=draft published" doc:"Publication status"`
	CategoryIDs   []string           `json:"category_ids,omitempty" validate:"omitempty,dive,required" doc:"Replaces the post's categories"`
	TagIDs        []string           `json:"tag_ids,omitempty" validate:"omitempty,dive,required" doc:"Replaces the post's tags"`
}

// ListPostsQuery filters a post listing. Filters combine with AND.
type ListPostsQuery struct {
	PageQuery
	Status     domain.PostStatus `query:"status" enum:"draft,published" validate:"omitempty,oneof=draft published" doc:"Only posts with this status"`
	AuthorID   string            `query:"author_id" doc:"Only posts by this author"`
	Search     string            `query:"search" maxLength:"200" validate:"max=200" doc:"Case-insensitive substring of title, content or excerpt"`
	CategoryID string            `query:"category_id" doc:"Only posts in this category"`
	TagID      string            `query:"tag_id" doc:"Only posts with this tag"`
}

// Create adds a post owned by the actor. Every referenced category and tag
// must exist.
func (s *PostService) Create(ctx context.Context, actor *domain.Actor, req CreatePostRequest) (*domain.BlogPost, error) {
	if err := domain.Authorize(actor, "", domain.AccessAuthenticated); err != nil {
		return nil, s.fail(ctx, "posts.create", err)
	}
	if err := s.Validator.Validate(req); err != nil {
		return nil, s.fail(ctx, "posts.create", err)
	}

	if _, err := s.Store.GetUser(ctx, actor.ID); err != nil {
		if domainerrors.Is(err, store.ErrNotFound) {
			err = domainerrors.NotFound("author not found")
		}
		return nil, s.fail(ctx, "posts.create", err, "author_id", actor.ID)
	}
	if err := s.checkReferences(ctx, req.CategoryIDs, req.TagIDs); err != nil {
		return nil, s.fail(ctx, "posts.create", err, "author_id", actor.ID)
	}

	slugValue, err := resolveSlug(req.Slug, req.Title)
	if err != nil {
		return nil, s.fail(ctx, "posts.create", err)
	}
	postID, err := id.Generate(id.PrefixPost)
	if err != nil {
		return nil, s.fail(ctx, "posts.create", fmt.Errorf("generate post ID: %w", err))
	}

	status := req.Status
	if status == "" {
		status = domain.StatusDraft
	}

	now := s.now()
	p := &domain.BlogPost{
		ID:            postID,
		Title:         req.Title,
		Slug:          slugValue,
		Content:       req.Content,
		Excerpt:       emptyToNil(req.Excerpt),
		FeaturedImage: emptyToNil(req.FeaturedImage),
		AuthorID:      actor.ID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	p.TransitionTo(status, now)

	assoc := store.Associations{CategoryIDs: req.CategoryIDs, TagIDs: req.TagIDs}
	if err := s.Store.CreatePost(ctx, p, assoc); err != nil {
		return nil, s.fail(ctx, "posts.create", translate(err, "post"), "slug", p.Slug)
	}
	s.log(ctx).Info("Post created", "post_id", p.ID, "author_id", p.AuthorID, "status", p.Status)
	return p, nil
}

// Update applies the present fields. Only the owner or a super admin may
// update a post.
func (s *PostService) Update(ctx context.Context, actor *domain.Actor, postID string, req UpdatePostRequest) (*domain.BlogPost, error) {
	if err := domain.Authorize(actor, "", domain.AccessAuthenticated); err != nil {
		return nil, s.fail(ctx, "posts.update", err)
	}
	if err := s.Validator.Validate(req); err != nil {
		return nil, s.fail(ctx, "posts.update", err, "post_id", postID)
	}

	p, err := s.Store.GetPost(ctx, postID)
	if err != nil {
		return nil, s.fail(ctx, "posts.update", translate(err, "post"), "post_id", postID)
	}
	if err := domain.Authorize(actor, p.AuthorID, domain.AccessOwner); err != nil {
		return nil, s.fail(ctx, "posts.update", err, "post_id", postID)
	}
	if err := s.checkReferences(ctx, req.CategoryIDs, req.TagIDs); err != nil {
		return nil, s.fail(ctx, "posts.update", err, "post_id", postID)
	}

	now := s.now()
	applyString(&p.Title, req.Title)
	applyString(&p.Slug, req.Slug)
	applyString(&p.Content, req.Content)
	applyNullable(&p.Excerpt, req.Excerpt)
	applyNullable(&p.FeaturedImage, req.FeaturedImage)
	if req.Status != nil {
		p.TransitionTo(*req.Status, now)
	}
	p.UpdatedAt = now

	assoc := store.Associations{
		CategoryIDs:       req.CategoryIDs,
		TagIDs:            req.TagIDs,
		ReplaceCategories: req.CategoryIDs != nil,
		ReplaceTags:       req.TagIDs != nil,
	}
	if err := s.Store.UpdatePost(ctx, p, assoc); err != nil {
		return nil, s.fail(ctx, "posts.update", translate(err, "post"), "post_id", postID)
	}
	return p, nil
}

// Delete removes a post. Only the owner or a super admin may delete it.
func (s *PostService) Delete(ctx context.Context, actor *domain.Actor, postID string) error {
	if err := domain.Authorize(actor, "", domain.AccessAuthenticated); err != nil {
		return s.fail(ctx, "posts.delete", err)
	}
	p, err := s.Store.GetPost(ctx, postID)
	if err != nil {
		return s.fail(ctx, "posts.delete", translate(err, "post"), "post_id", postID)
	}
	if err := domain.Authorize(actor, p.AuthorID, domain.AccessOwner); err != nil {
		return s.fail(ctx, "posts.delete", err, "post_id", postID)
	}
	if err := s.Store.DeletePost(ctx, postID); err != nil {
		return s.fail(ctx, "posts.delete", translate(err, "post"), "post_id", postID)
	}
	s.log(ctx).Info("Post deleted", "post_id", postID, "by", actor.ID)
	return nil
}

// List returns a filtered page of posts, newest first, each enriched with
// its author, categories and tags.
func (s *PostService) List(ctx context.Context, q ListPostsQuery) (*store.Page[*domain.BlogPostWithRelations], error) {
	page, err := s.list(ctx, q)
	if err != nil {
		return nil, s.fail(ctx, "posts.list", err)
	}
	return page, nil
}

// MyPosts lists the actor's own posts.
func (s *PostService) MyPosts(ctx context.Context, actor *domain.Actor, q ListPostsQuery) (*store.Page[*domain.BlogPostWithRelations], error) {
	if err := domain.Authorize(actor, "", domain.AccessAuthenticated); err != nil {
		return nil, s.fail(ctx, "posts.myPosts", err)
	}
	q.AuthorID = actor.ID
	page, err := s.list(ctx, q)
	if err != nil {
		return nil, s.fail(ctx, "posts.myPosts", err, "author_id", actor.ID)
	}
	return page, nil
}

func (s *PostService) list(ctx context.Context, q ListPostsQuery) (*store.Page[*domain.BlogPostWithRelations], error) {
	if err := s.Validator.Validate(q); err != nil {
		return nil, err
	}
	req := q.request()
	filter := store.PostFilter{Status: q.Status, AuthorID: q.AuthorID, Search: q.Search}

	if q.CategoryID != "" || q.TagID != "" {
		ids, err := s.candidateIDs(ctx, q.CategoryID, q.TagID)
		if err != nil {
			return nil, err
		}
		if len(ids) == 0 {
			empty := store.NewPage[*domain.BlogPostWithRelations](nil, 0, req)
			return &empty, nil
		}
		filter.IDs = ids
		filter.RestrictIDs = true
	}

	posts, total, err := s.Store.ListPosts(ctx, filter, req)
	if err != nil {
		return nil, err
	}
	if err := s.attachRelations(ctx, posts); err != nil {
		return nil, err
	}
	page := store.NewPage(posts, total, req)
	return &page, nil
}

// candidateIDs intersects the post id sets selected by the category and tag filters.
func (s *PostService) candidateIDs(ctx context.Context, categoryID, tagID string) ([]string, error) {
	var sets [][]string
	if categoryID != "" {
		ids, err := s.Store.PostIDsForCategory(ctx, categoryID)
		if err != nil {
			return nil, err
		}
		sets = append(sets, ids)
	}
	if tagID != "" {
		ids, err := s.Store.PostIDsForTag(ctx, tagID)
		if err != nil {
			return nil, err
		}
		sets = append(sets, ids)
	}
	return intersect(sets...), nil
}

func intersect(sets ...[]string) []string {
	if len(sets) == 0 {
		return nil
	}
	result := sets[0]
	for _, next := range sets[1:] {
		keep := make(map[string]struct{}, len(next))
		for _, v := range next {
			keep[v] = struct{}{}
		}
		var narrowed []string
		for _, v := range result {
			if _, ok := keep[v]; ok {
				narrowed = append(narrowed, v)
			}
		}
		result = narrowed
	}
	return result
}

// attachRelations fills categories, tags and summary in place.
func (s *PostService) attachRelations(ctx context.Context, posts []*domain.BlogPostWithRelations) error {
	if len(posts) == 0 {
		return nil
	}
	ids := make([]string, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
	}

	cats, err := s.Store.CategoriesForPosts(ctx, ids)
	if err != nil {
		return err
	}
	tags, err := s.Store.TagsForPosts(ctx, ids)
	if err != nil {
		return err
	}

	for _, p := range posts {
		p.Categories = cats[p.ID]
		if p.Categories == nil {
			p.Categories = []domain.Category{}
		}
		p.Tags = tags[p.ID]
		if p.Tags == nil {
			p.Tags = []domain.Tag{}
		}
		p.Summary = content.Summary(p.Content)
		p.Author = p.Author.Sanitized()
	}
	return nil
}

// GetByID returns the enriched post or nil.
func (s *PostService) GetByID(ctx context.Context, postID string) (*domain.BlogPostWithRelations, error) {
	p, err := nullIfMissing(s.Store.GetPost(ctx, postID))
	if err != nil {
		return nil, s.fail(ctx, "posts.getById", err, "post_id", postID)
	}
	out, err := s.enrich(ctx, p)
	if err != nil {
		return nil, s.fail(ctx, "posts.getById", err, "post_id", postID)
	}
	return out, nil
}

// GetBySlug returns the enriched post or nil.
func (s *PostService) GetBySlug(ctx context.Context, slugValue string) (*domain.BlogPostWithRelations, error) {
	p, err := nullIfMissing(s.Store.GetPostBySlug(ctx, slugValue))
	if err != nil {
		return nil, s.fail(ctx, "posts.getBySlug", err, "slug", slugValue)
	}
	out, err := s.enrich(ctx, p)
	if err != nil {
		return nil, s.fail(ctx, "posts.getBySlug", err, "slug", slugValue)
	}
	return out, nil
}

func (s *PostService) enrich(ctx context.Context, p *domain.BlogPost) (*domain.BlogPostWithRelations, error) {
	if p == nil {
		return nil, nil
	}
	author, err := nullIfMissing(s.Store.GetUser(ctx, p.AuthorID))
	if err != nil {
		return nil, err
	}
	out := &domain.BlogPostWithRelations{BlogPost: *p, Author: author}
	if err := s.attachRelations(ctx, []*domain.BlogPostWithRelations{out}); err != nil {
		return nil, err
	}
	return out, nil
}

// MarkdownExport is a published post rendered as Markdown.
type MarkdownExport struct {
	Slug     string `json:"slug" doc:"Post slug"`
	Title    string `json:"title" doc:"Post title"`
	Markdown string `json:"markdown" doc:"Content converted from HTML"`
}

// Markdown converts a published post's content to Markdown. Drafts are
// reported as not found.
func (s *PostService) Markdown(ctx context.Context, slugValue string) (*MarkdownExport, error) {
	p, err := s.Store.GetPostBySlug(ctx, slugValue)
	if err != nil {
		return nil, s.fail(ctx, "posts.getMarkdown", translate(err, "post"), "slug", slugValue)
	}
	if p.Status != domain.StatusPublished {
		return nil, s.fail(ctx, "posts.getMarkdown", domainerrors.NotFound("post not found"), "slug", slugValue)
	}
	md, err := content.ToMarkdown(p.Content)
	if err != nil {
		return nil, s.fail(ctx, "posts.getMarkdown", fmt.Errorf("convert post %s: %w", p.ID, err), "slug", slugValue)
	}
	return &MarkdownExport{Slug: p.Slug, Title: p.Title, Markdown: md}, nil
}

// checkReferences fails with NotFound when any category or tag id is unknown.
func (s *PostService) checkReferences(ctx context.Context, categoryIDs, tagIDs []string) error {
	if len(categoryIDs) > 0 {
		missing, err := s.Store.MissingCategoryIDs(ctx, categoryIDs)
		if err != nil {
			return err
		}
		if len(missing) > 0 {
			return domainerrors.NotFound("categories not found").WithDetails(map[string]any{"category_ids": missing})
		}
	}
	if len(tagIDs) > 0 {
		missing, err := s.Store.MissingTagIDs(ctx, tagIDs)
		if err != nil {
			return err
		}
		if len(missing) > 0 {
			return domainerrors.NotFound("tags not found").WithDetails(map[string]any{"tag_ids": missing})
		}
	}
	return nil
}
