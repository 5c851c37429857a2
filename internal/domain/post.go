package domain

import "time"

// PostStatus is the publication state of a post.
type PostStatus string

// Post statuses.
const (
	StatusDraft     PostStatus = "draft"
	StatusPublished PostStatus = "published"
)

// Valid reports whether s is a known status.
func (s PostStatus) Valid() bool {
	return s == StatusDraft || s == StatusPublished
}

// BlogPost is a post row without its relations.
type BlogPost struct {
	ID            string     `json:"id" doc:"Post ID"`
	Title         string     `json:"title" doc:"Title"`
	Slug          string     `json:"slug" doc:"URL-safe unique slug"`
	Content       string     `json:"content" doc:"Body (HTML)"`
	Excerpt       *string    `json:"excerpt" doc:"Optional excerpt"`
	FeaturedImage *string    `json:"featured_image" doc:"Optional featured image URL"`
	AuthorID      string     `json:"author_id" doc:"Owning user ID"`
	Status        PostStatus `json:"status" enum:"draft,published" doc:"Publication status"`
	PublishedAt   *time.Time `json:"published_at" doc:"Set when the post was last published"`
	CreatedAt     time.Time  `json:"created_at" doc:"Creation time"`
	UpdatedAt     time.Time  `json:"updated_at" doc:"Last update time"`
}

// TransitionTo moves the post to next and maintains PublishedAt:
// entering published from any other state stamps now, draft clears it,
// staying published keeps the original stamp.
func (p *BlogPost) TransitionTo(next PostStatus, now time.Time) {
	switch next {
	case StatusPublished:
		if p.Status != StatusPublished || p.PublishedAt == nil {
			stamp := now
			p.PublishedAt = &stamp
		}
	case StatusDraft:
		p.PublishedAt = nil
	}
	p.Status = next
}

// BlogPostWithRelations is a post enriched with its author, categories and tags.
type BlogPostWithRelations struct {
	BlogPost
	Author     *User      `json:"author" doc:"Post author"`
	Categories []Category `json:"categories" doc:"Associated categories"`
	Tags       []Tag      `json:"tags" doc:"Associated tags"`
	Summary    string     `json:"summary" doc:"Plain-text preview derived from the content"`
}
