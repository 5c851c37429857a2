package sqlstore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/quillpress/quillpress-server/internal/domain"
)

var adsenseColumns = []string{
	"id", "publisher_id", "header_slot", "sidebar_slot", "in_article_slot",
	"footer_slot", "enabled", "created_at", "updated_at",
}

type adsenseRow struct {
	ID            string         `db:"id"`
	PublisherID   string         `db:"publisher_id"`
	HeaderSlot    sql.NullString `db:"header_slot"`
	SidebarSlot   sql.NullString `db:"sidebar_slot"`
	InArticleSlot sql.NullString `db:"in_article_slot"`
	FooterSlot    sql.NullString `db:"footer_slot"`
	Enabled       bool           `db:"enabled"`
	CreatedAt     string         `db:"created_at"`
	UpdatedAt     string         `db:"updated_at"`
}

func (r *adsenseRow) toDomain() (*domain.AdSenseConfig, error) {
	created, err := parseTime(r.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	updated, err := parseTime(r.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("parse updated_at: %w", err)
	}
	return &domain.AdSenseConfig{
		ID:            r.ID,
		PublisherID:   r.PublisherID,
		HeaderSlot:    stringPtr(r.HeaderSlot),
		SidebarSlot:   stringPtr(r.SidebarSlot),
		InArticleSlot: stringPtr(r.InArticleSlot),
		FooterSlot:    stringPtr(r.FooterSlot),
		Enabled:       r.Enabled,
		CreatedAt:     created,
		UpdatedAt:     updated,
	}, nil
}

// GetAdSenseConfig returns the singleton row.
func (s *Store) GetAdSenseConfig(ctx context.Context) (*domain.AdSenseConfig, error) {
	query, args, err := s.sb.Select(adsenseColumns...).From("adsense_config").Limit(1).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}
	var row adsenseRow
	if err := s.db.GetContext(ctx, &row, query, args...); err != nil {
		return nil, notFound(err, "adsense config")
	}
	return row.toDomain()
}

// UpsertAdSenseConfig writes the singleton in one statement. On conflict the
// existing row keeps its id and created_at; every other field is replaced.
func (s *Store) UpsertAdSenseConfig(ctx context.Context, c *domain.AdSenseConfig) (*domain.AdSenseConfig, error) {
	query, args, err := s.sb.Insert("adsense_config").
		Columns(adsenseColumns...).
		Values(
			c.ID, c.PublisherID,
			nullableString(c.HeaderSlot), nullableString(c.SidebarSlot),
			nullableString(c.InArticleSlot), nullableString(c.FooterSlot),
			c.Enabled, formatTime(c.CreatedAt), formatTime(c.UpdatedAt),
		).
		Suffix(`ON CONFLICT (singleton) DO UPDATE SET
			publisher_id = excluded.publisher_id,
			header_slot = excluded.header_slot,
			sidebar_slot = excluded.sidebar_slot,
			in_article_slot = excluded.in_article_slot,
			footer_slot = excluded.footer_slot,
			enabled = excluded.enabled,
			updated_at = excluded.updated_at`).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build upsert: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return nil, classify(err)
	}
	return s.GetAdSenseConfig(ctx)
}
