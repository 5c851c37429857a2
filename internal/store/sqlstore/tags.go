package sqlstore

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/quillpress/quillpress-server/internal/domain"
)

var tagColumns = []string{"id", "name", "slug", "created_at", "updated_at"}

type tagRow struct {
	ID        string `db:"id"`
	Name      string `db:"name"`
	Slug      string `db:"slug"`
	CreatedAt string `db:"created_at"`
	UpdatedAt string `db:"updated_at"`
}

func (r *tagRow) toDomain() (*domain.Tag, error) {
	created, err := parseTime(r.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	updated, err := parseTime(r.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("parse updated_at: %w", err)
	}
	return &domain.Tag{
		ID:        r.ID,
		Name:      r.Name,
		Slug:      r.Slug,
		CreatedAt: created,
		UpdatedAt: updated,
	}, nil
}

// CreateTag inserts a tag.
func (s *Store) CreateTag(ctx context.Context, t *domain.Tag) error {
	query, args, err := s.sb.Insert("tags").
		Columns(tagColumns...).
		Values(t.ID, t.Name, t.Slug, formatTime(t.CreatedAt), formatTime(t.UpdatedAt)).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return classify(err)
	}
	return nil
}

// GetTag retrieves a tag by ID.
func (s *Store) GetTag(ctx context.Context, id string) (*domain.Tag, error) {
	return s.getTagWhere(ctx, sq.Eq{"id": id})
}

// GetTagBySlug retrieves a tag by slug.
func (s *Store) GetTagBySlug(ctx context.Context, slug string) (*domain.Tag, error) {
	return s.getTagWhere(ctx, sq.Eq{"slug": slug})
}

func (s *Store) getTagWhere(ctx context.Context, pred sq.Eq) (*domain.Tag, error) {
	query, args, err := s.sb.Select(tagColumns...).From("tags").Where(pred).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}
	var row tagRow
	if err := s.db.GetContext(ctx, &row, query, args...); err != nil {
		return nil, notFound(err, "tag")
	}
	return row.toDomain()
}

// UpdateTag overwrites name and slug.
func (s *Store) UpdateTag(ctx context.Context, t *domain.Tag) error {
	query, args, err := s.sb.Update("tags").
		Set("name", t.Name).
		Set("slug", t.Slug).
		Set("updated_at", formatTime(t.UpdatedAt)).
		Where(sq.Eq{"id": t.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return classify(err)
	}
	return requireAffected(res, "tag")
}

// DeleteTag removes the tag and its post associations atomically.
func (s *Store) DeleteTag(ctx context.Context, id string) error {
	return s.withTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, tx.Rebind("DELETE FROM blog_post_tags WHERE tag_id = ?"), id); err != nil {
			return fmt.Errorf("delete tag associations: %w", err)
		}
		res, err := tx.ExecContext(ctx, tx.Rebind("DELETE FROM tags WHERE id = ?"), id)
		if err != nil {
			return classify(err)
		}
		return requireAffected(res, "tag")
	})
}

// ListTags returns every tag ordered by name.
func (s *Store) ListTags(ctx context.Context) ([]*domain.Tag, error) {
	query, args, err := s.sb.Select(tagColumns...).From("tags").OrderBy("name ASC", "id ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}
	var rows []tagRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	out := make([]*domain.Tag, 0, len(rows))
	for i := range rows {
		t, err := rows[i].toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

// MissingTagIDs reports which of ids have no tag row.
func (s *Store) MissingTagIDs(ctx context.Context, ids []string) ([]string, error) {
	return s.missingIDs(ctx, "tags", ids)
}
