package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/quillpress/quillpress-server/internal/domain"
	"github.com/quillpress/quillpress-server/internal/store"
)

var postColumns = []string{
	"id", "title", "slug", "content", "excerpt", "featured_image",
	"author_id", "status", "published_at", "created_at", "updated_at",
}

type postRow struct {
	ID            string         `db:"id"`
	Title         string         `db:"title"`
	Slug          string         `db:"slug"`
	Content       string         `db:"content"`
	Excerpt       sql.NullString `db:"excerpt"`
	FeaturedImage sql.NullString `db:"featured_image"`
	AuthorID      string         `db:"author_id"`
	Status        string         `db:"status"`
	PublishedAt   sql.NullString `db:"published_at"`
	CreatedAt     string         `db:"created_at"`
	UpdatedAt     string         `db:"updated_at"`
}

func (r *postRow) toDomain() (*domain.BlogPost, error) {
	created, err := parseTime(r.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	updated, err := parseTime(r.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("parse updated_at: %w", err)
	}
	published, err := parseNullableTime(r.PublishedAt)
	if err != nil {
		return nil, fmt.Errorf("parse published_at: %w", err)
	}
	return &domain.BlogPost{
		ID:            r.ID,
		Title:         r.Title,
		Slug:          r.Slug,
		Content:       r.Content,
		Excerpt:       stringPtr(r.Excerpt),
		FeaturedImage: stringPtr(r.FeaturedImage),
		AuthorID:      r.AuthorID,
		Status:        domain.PostStatus(r.Status),
		PublishedAt:   published,
		CreatedAt:     created,
		UpdatedAt:     updated,
	}, nil
}

// postWithAuthorRow is a post joined to its author. The password hash is
// never selected.
type postWithAuthorRow struct {
	postRow
	Author userRow `db:"author"`
}

// CreatePost inserts the post and its association rows in one transaction.
func (s *Store) CreatePost(ctx context.Context, p *domain.BlogPost, assoc store.Associations) error {
	query, args, err := s.sb.Insert("blog_posts").
		Columns(postColumns...).
		Values(
			p.ID, p.Title, p.Slug, p.Content,
			nullableString(p.Excerpt), nullableString(p.FeaturedImage),
			p.AuthorID, string(p.Status), nullTimeString(p.PublishedAt),
			formatTime(p.CreatedAt), formatTime(p.UpdatedAt),
		).ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	return s.withTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return classify(err)
		}
		if err := s.insertAssociations(ctx, tx, "blog_post_categories", "category_id", p.ID, assoc.CategoryIDs); err != nil {
			return err
		}
		return s.insertAssociations(ctx, tx, "blog_post_tags", "tag_id", p.ID, assoc.TagIDs)
	})
}

// UpdatePost overwrites the post row and, for each flagged set, deletes every
// existing association row before inserting the new ones.
func (s *Store) UpdatePost(ctx context.Context, p *domain.BlogPost, assoc store.Associations) error {
	query, args, err := s.sb.Update("blog_posts").SetMap(map[string]any{
		"title":          p.Title,
		"slug":           p.Slug,
		"content":        p.Content,
		"excerpt":        nullableString(p.Excerpt),
		"featured_image": nullableString(p.FeaturedImage),
		"status":         string(p.Status),
		"published_at":   nullTimeString(p.PublishedAt),
		"updated_at":     formatTime(p.UpdatedAt),
	}).Where(sq.Eq{"id": p.ID}).ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	return s.withTx(ctx, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return classify(err)
		}
		if err := requireAffected(res, "post"); err != nil {
			return err
		}

		if assoc.ReplaceCategories {
			if err := s.replaceAssociations(ctx, tx, "blog_post_categories", "category_id", p.ID, assoc.CategoryIDs); err != nil {
				return err
			}
		}
		if assoc.ReplaceTags {
			if err := s.replaceAssociations(ctx, tx, "blog_post_tags", "tag_id", p.ID, assoc.TagIDs); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Store) replaceAssociations(ctx context.Context, tx *sqlx.Tx, table, column, postID string, ids []string) error {
	query := tx.Rebind("DELETE FROM " + table + " WHERE post_id = ?")
	if _, err := tx.ExecContext(ctx, query, postID); err != nil {
		return fmt.Errorf("clear %s: %w", table, err)
	}
	return s.insertAssociations(ctx, tx, table, column, postID, ids)
}

func (s *Store) insertAssociations(ctx context.Context, tx *sqlx.Tx, table, column, postID string, ids []string) error {
	ids = dedupe(ids)
	if len(ids) == 0 {
		return nil
	}

	ins := s.sb.Insert(table).Columns("post_id", column)
	for _, id := range ids {
		ins = ins.Values(postID, id)
	}
	query, args, err := ins.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return classify(err)
	}
	return nil
}

// GetPost retrieves a post by ID.
func (s *Store) GetPost(ctx context.Context, id string) (*domain.BlogPost, error) {
	return s.getPostWhere(ctx, sq.Eq{"id": id})
}

// GetPostBySlug retrieves a post by slug.
func (s *Store) GetPostBySlug(ctx context.Context, slug string) (*domain.BlogPost, error) {
	return s.getPostWhere(ctx, sq.Eq{"slug": slug})
}

func (s *Store) getPostWhere(ctx context.Context, pred sq.Eq) (*domain.BlogPost, error) {
	query, args, err := s.sb.Select(postColumns...).From("blog_posts").Where(pred).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}
	var row postRow
	if err := s.db.GetContext(ctx, &row, query, args...); err != nil {
		return nil, notFound(err, "post")
	}
	return row.toDomain()
}

// DeletePost removes a post. Association rows cascade.
func (s *Store) DeletePost(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, s.db.Rebind("DELETE FROM blog_posts WHERE id = ?"), id)
	if err != nil {
		return classify(err)
	}
	return requireAffected(res, "post")
}

// ListPosts returns one page of posts matching filter, newest first, with
// authors joined in. Categories and tags are left for the caller to attach.
func (s *Store) ListPosts(ctx context.Context, filter store.PostFilter, page store.PageRequest) ([]*domain.BlogPostWithRelations, int, error) {
	page = page.Normalize()

	if filter.RestrictIDs && len(filter.IDs) == 0 {
		return []*domain.BlogPostWithRelations{}, 0, nil
	}
	pred := s.postPredicate(filter)

	countQuery, countArgs, err := s.sb.Select("COUNT(*)").From("blog_posts p").Where(pred).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build count: %w", err)
	}
	var total int
	if err := s.db.GetContext(ctx, &total, countQuery, countArgs...); err != nil {
		return nil, 0, fmt.Errorf("count posts: %w", err)
	}
	if total == 0 {
		return []*domain.BlogPostWithRelations{}, 0, nil
	}

	cols := make([]string, 0, len(postColumns)+len(userColumns))
	for _, c := range postColumns {
		cols = append(cols, fmt.Sprintf("p.%s AS %s", c, c))
	}
	for _, c := range userColumns {
		if c == "password_hash" {
			continue
		}
		cols = append(cols, fmt.Sprintf(`u.%s AS "author.%s"`, c, c))
	}

	query, args, err := s.sb.Select(cols...).
		From("blog_posts p").
		Join("users u ON u.id = p.author_id").
		Where(pred).
		OrderBy("p.created_at DESC", "p.id DESC").
		Limit(uint64(page.Limit)).
		Offset(uint64(page.Offset())).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build select: %w", err)
	}

	var rows []postWithAuthorRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list posts: %w", err)
	}

	out := make([]*domain.BlogPostWithRelations, 0, len(rows))
	for i := range rows {
		post, err := rows[i].postRow.toDomain()
		if err != nil {
			return nil, 0, err
		}
		author, err := rows[i].Author.toDomain()
		if err != nil {
			return nil, 0, err
		}
		out = append(out, &domain.BlogPostWithRelations{BlogPost: *post, Author: author})
	}
	return out, total, nil
}

func (s *Store) postPredicate(f store.PostFilter) sq.And {
	pred := sq.And{}
	if f.Status != "" {
		pred = append(pred, sq.Eq{"p.status": string(f.Status)})
	}
	if f.AuthorID != "" {
		pred = append(pred, sq.Eq{"p.author_id": f.AuthorID})
	}
	if f.Search != "" {
		pattern := "%" + escapeLike(strings.ToLower(f.Search)) + "%"
		pred = append(pred, sq.Or{
			sq.Expr(s.lower("p.title")+` LIKE ? ESCAPE '\'`, pattern),
			sq.Expr(s.lower("p.content")+` LIKE ? ESCAPE '\'`, pattern),
			sq.Expr(s.lower("COALESCE(p.excerpt, '')")+` LIKE ? ESCAPE '\'`, pattern),
		})
	}
	if f.RestrictIDs {
		pred = append(pred, sq.Eq{"p.id": f.IDs})
	}
	return pred
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// PostIDsForCategory lists the posts associated with a category.
func (s *Store) PostIDsForCategory(ctx context.Context, categoryID string) ([]string, error) {
	var ids []string
	err := s.db.SelectContext(ctx, &ids, s.db.Rebind("SELECT post_id FROM blog_post_categories WHERE category_id = ?"), categoryID)
	if err != nil {
		return nil, fmt.Errorf("post ids for category: %w", err)
	}
	return ids, nil
}

// PostIDsForTag lists the posts associated with a tag.
func (s *Store) PostIDsForTag(ctx context.Context, tagID string) ([]string, error) {
	var ids []string
	err := s.db.SelectContext(ctx, &ids, s.db.Rebind("SELECT post_id FROM blog_post_tags WHERE tag_id = ?"), tagID)
	if err != nil {
		return nil, fmt.Errorf("post ids for tag: %w", err)
	}
	return ids, nil
}

type postCategoryRow struct {
	PostID string `db:"post_id"`
	categoryRow
}

type postTagRow struct {
	PostID string `db:"post_id"`
	tagRow
}

// CategoriesForPosts loads the categories of each post, keyed by post ID.
func (s *Store) CategoriesForPosts(ctx context.Context, postIDs []string) (map[string][]domain.Category, error) {
	out := make(map[string][]domain.Category, len(postIDs))
	if len(postIDs) == 0 {
		return out, nil
	}

	query, args, err := sqlx.In(`
		SELECT bpc.post_id, c.id, c.name, c.slug, c.description, c.created_at, c.updated_at
		FROM blog_post_categories bpc
		JOIN categories c ON c.id = bpc.category_id
		WHERE bpc.post_id IN (?)
		ORDER BY c.name ASC, c.id ASC`, dedupe(postIDs))
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rows []postCategoryRow
	if err := s.db.SelectContext(ctx, &rows, s.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("categories for posts: %w", err)
	}
	for i := range rows {
		c, err := rows[i].categoryRow.toDomain()
		if err != nil {
			return nil, err
		}
		out[rows[i].PostID] = append(out[rows[i].PostID], *c)
	}
	return out, nil
}

// TagsForPosts loads the tags of each post, keyed by post ID.
func (s *Store) TagsForPosts(ctx context.Context, postIDs []string) (map[string][]domain.Tag, error) {
	out := make(map[string][]domain.Tag, len(postIDs))
	if len(postIDs) == 0 {
		return out, nil
	}

	query, args, err := sqlx.In(`
		SELECT bpt.post_id, t.id, t.name, t.slug, t.created_at, t.updated_at
		FROM blog_post_tags bpt
		JOIN tags t ON t.id = bpt.tag_id
		WHERE bpt.post_id IN (?)
		ORDER BY t.name ASC, t.id ASC`, dedupe(postIDs))
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rows []postTagRow
	if err := s.db.SelectContext(ctx, &rows, s.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("tags for posts: %w", err)
	}
	for i := range rows {
		t, err := rows[i].tagRow.toDomain()
		if err != nil {
			return nil, err
		}
		out[rows[i].PostID] = append(out[rows[i].PostID], *t)
	}
	return out, nil
}
