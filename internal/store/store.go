// Package store defines the persistence contracts used by the services.
package store

import (
	"context"

	"github.com/quillpress/quillpress-server/internal/domain"
)

// Store is the full persistence surface of the application.
type Store interface {
	UserStore
	CategoryStore
	TagStore
	PostStore
	AdSenseStore

	Ping(ctx context.Context) error
	Close() error
}

// UserStore persists users.
type UserStore interface {
	CreateUser(ctx context.Context, user *domain.User) error
	GetUser(ctx context.Context, id string) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	UpdateUser(ctx context.Context, user *domain.User) error
	// DeleteUser removes the user and, by cascade, their posts.
	DeleteUser(ctx context.Context, id string) error
	ListUsers(ctx context.Context, page PageRequest) ([]*domain.User, int, error)
	CountUsersByRole(ctx context.Context, role domain.Role) (int, error)
}

// CategoryStore persists categories.
type CategoryStore interface {
	CreateCategory(ctx context.Context, c *domain.Category) error
	GetCategory(ctx context.Context, id string) (*domain.Category, error)
	GetCategoryBySlug(ctx context.Context, slug string) (*domain.Category, error)
	UpdateCategory(ctx context.Context, c *domain.Category) error
	// DeleteCategory removes the association rows and then the category, atomically.
	DeleteCategory(ctx context.Context, id string) error
	ListCategories(ctx context.Context) ([]*domain.Category, error)
	// MissingCategoryIDs returns the ids that do not resolve to a category.
	MissingCategoryIDs(ctx context.Context, ids []string) ([]string, error)
}

// TagStore persists tags.
type TagStore interface {
	CreateTag(ctx context.Context, t *domain.Tag) error
	GetTag(ctx context.Context, id string) (*domain.Tag, error)
	GetTagBySlug(ctx context.Context, slug string) (*domain.Tag, error)
	UpdateTag(ctx context.Context, t *domain.Tag) error
	// DeleteTag removes the association rows and then the tag, atomically.
	DeleteTag(ctx context.Context, id string) error
	ListTags(ctx context.Context) ([]*domain.Tag, error)
	// MissingTagIDs returns the ids that do not resolve to a tag.
	MissingTagIDs(ctx context.Context, ids []string) ([]string, error)
}

// Associations describes which join rows a post write replaces.
// A nil slice with the Replace flag set clears the set.
type Associations struct {
	CategoryIDs       []string
	TagIDs            []string
	ReplaceCategories bool
	ReplaceTags       bool
}

// PostFilter narrows a post listing. Zero values mean "no filter".
type PostFilter struct {
	Status   domain.PostStatus
	AuthorID string
	// Search is matched case-insensitively against title, content and excerpt.
	Search string
	// IDs restricts the listing to these posts when RestrictIDs is set.
	IDs         []string
	RestrictIDs bool
}

// PostStore persists posts and their associations.
type PostStore interface {
	// CreatePost inserts the post and its join rows in one transaction.
	CreatePost(ctx context.Context, p *domain.BlogPost, assoc Associations) error
	// UpdatePost overwrites the row and replaces the flagged join sets in one transaction.
	UpdatePost(ctx context.Context, p *domain.BlogPost, assoc Associations) error
	GetPost(ctx context.Context, id string) (*domain.BlogPost, error)
	GetPostBySlug(ctx context.Context, slug string) (*domain.BlogPost, error)
	DeletePost(ctx context.Context, id string) error
	// ListPosts returns one page ordered by created_at descending, each with
	// its author joined in, plus the total matching the filter.
	ListPosts(ctx context.Context, filter PostFilter, page PageRequest) ([]*domain.BlogPostWithRelations, int, error)
	PostIDsForCategory(ctx context.Context, categoryID string) ([]string, error)
	PostIDsForTag(ctx context.Context, tagID string) ([]string, error)
	CategoriesForPosts(ctx context.Context, postIDs []string) (map[string][]domain.Category, error)
	TagsForPosts(ctx context.Context, postIDs []string) (map[string][]domain.Tag, error)
}

// AdSenseStore persists the singleton ad configuration.
type AdSenseStore interface {
	// GetAdSenseConfig returns ErrNotFound when no row exists yet.
	GetAdSenseConfig(ctx context.Context) (*domain.AdSenseConfig, error)
	// UpsertAdSenseConfig atomically inserts the singleton row or overwrites
	// every field of the existing one, returning the stored row.
	UpsertAdSenseConfig(ctx context.Context, c *domain.AdSenseConfig) (*domain.AdSenseConfig, error)
}
