package sqlstore

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/quillpress/quillpress-server/internal/domain"
)

var categoryColumns = []string{"id", "name", "slug", "description", "created_at", "updated_at"}

type categoryRow struct {
	ID          string         `db:"id"`
	Name        string         `db:"name"`
	Slug        string         `db:"slug"`
	Description sql.NullString `db:"description"`
	CreatedAt   string         `db:"created_at"`
	UpdatedAt   string         `db:"updated_at"`
}

func (r *categoryRow) toDomain() (*domain.Category, error) {
	created, err := parseTime(r.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	updated, err := parseTime(r.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("parse updated_at: %w", err)
	}
	return &domain.Category{
		ID:          r.ID,
		Name:        r.Name,
		Slug:        r.Slug,
		Description: stringPtr(r.Description),
		CreatedAt:   created,
		UpdatedAt:   updated,
	}, nil
}

// CreateCategory inserts a category.
func (s *Store) CreateCategory(ctx context.Context, c *domain.Category) error {
	query, args, err := s.sb.Insert("categories").
		Columns(categoryColumns...).
		Values(c.ID, c.Name, c.Slug, nullableString(c.Description), formatTime(c.CreatedAt), formatTime(c.UpdatedAt)).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return classify(err)
	}
	return nil
}

// GetCategory retrieves a category by ID.
func (s *Store) GetCategory(ctx context.Context, id string) (*domain.Category, error) {
	return s.getCategoryWhere(ctx, sq.Eq{"id": id})
}

// GetCategoryBySlug retrieves a category by slug.
func (s *Store) GetCategoryBySlug(ctx context.Context, slug string) (*domain.Category, error) {
	return s.getCategoryWhere(ctx, sq.Eq{"slug": slug})
}

func (s *Store) getCategoryWhere(ctx context.Context, pred sq.Eq) (*domain.Category, error) {
	query, args, err := s.sb.Select(categoryColumns...).From("categories").Where(pred).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}
	var row categoryRow
	if err := s.db.GetContext(ctx, &row, query, args...); err != nil {
		return nil, notFound(err, "category")
	}
	return row.toDomain()
}

// UpdateCategory overwrites name, slug and description.
func (s *Store) UpdateCategory(ctx context.Context, c *domain.Category) error {
	query, args, err := s.sb.Update("categories").
		Set("name", c.Name).
		Set("slug", c.Slug).
		Set("description", nullableString(c.Description)).
		Set("updated_at", formatTime(c.UpdatedAt)).
		Where(sq.Eq{"id": c.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return classify(err)
	}
	return requireAffected(res, "category")
}

// DeleteCategory removes the category and its post associations atomically.
// Posts that end up with no category are left in place.
func (s *Store) DeleteCategory(ctx context.Context, id string) error {
	return s.withTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, tx.Rebind("DELETE FROM blog_post_categories WHERE category_id = ?"), id); err != nil {
			return fmt.Errorf("delete category associations: %w", err)
		}
		res, err := tx.ExecContext(ctx, tx.Rebind("DELETE FROM categories WHERE id = ?"), id)
		if err != nil {
			return classify(err)
		}
		return requireAffected(res, "category")
	})
}

// ListCategories returns every category ordered by name.
func (s *Store) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	query, args, err := s.sb.Select(categoryColumns...).From("categories").OrderBy("name ASC", "id ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}
	var rows []categoryRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	out := make([]*domain.Category, 0, len(rows))
	for i := range rows {
		c, err := rows[i].toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// MissingCategoryIDs reports which of ids have no category row.
func (s *Store) MissingCategoryIDs(ctx context.Context, ids []string) ([]string, error) {
	return s.missingIDs(ctx, "categories", ids)
}
