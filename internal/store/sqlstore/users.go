package sqlstore

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/quillpress/quillpress-server/internal/domain"
	"github.com/quillpress/quillpress-server/internal/store"
)

var userColumns = []string{
	"id", "email", "username", "password_hash", "first_name", "last_name",
	"avatar", "bio", "role", "is_active", "created_at", "updated_at",
}

type userRow struct {
	ID           string         `db:"id"`
	Email        string         `db:"email"`
	Username     string         `db:"username"`
	PasswordHash string         `db:"password_hash"`
	FirstName    sql.NullString `db:"first_name"`
	LastName     sql.NullString `db:"last_name"`
	Avatar       sql.NullString `db:"avatar"`
	Bio          sql.NullString `db:"bio"`
	Role         string         `db:"role"`
	IsActive     bool           `db:"is_active"`
	CreatedAt    string         `db:"created_at"`
	UpdatedAt    string         `db:"updated_at"`
}

func (r *userRow) toDomain() (*domain.User, error) {
	created, err := parseTime(r.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	updated, err := parseTime(r.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("parse updated_at: %w", err)
	}
	return &domain.User{
		ID:           r.ID,
		Email:        r.Email,
		Username:     r.Username,
		PasswordHash: r.PasswordHash,
		FirstName:    stringPtr(r.FirstName),
		LastName:     stringPtr(r.LastName),
		Avatar:       stringPtr(r.Avatar),
		Bio:          stringPtr(r.Bio),
		Role:         domain.Role(r.Role),
		IsActive:     r.IsActive,
		CreatedAt:    created,
		UpdatedAt:    updated,
	}, nil
}

// CreateUser inserts a new user.
func (s *Store) CreateUser(ctx context.Context, u *domain.User) error {
	query, args, err := s.sb.Insert("users").
		Columns(userColumns...).
		Values(
			u.ID, u.Email, u.Username, u.PasswordHash,
			nullableString(u.FirstName), nullableString(u.LastName),
			nullableString(u.Avatar), nullableString(u.Bio),
			string(u.Role), u.IsActive,
			formatTime(u.CreatedAt), formatTime(u.UpdatedAt),
		).ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return classify(err)
	}
	return nil
}

// GetUser retrieves a user by ID.
func (s *Store) GetUser(ctx context.Context, id string) (*domain.User, error) {
	return s.getUserWhere(ctx, sq.Eq{"id": id})
}

// GetUserByEmail retrieves a user by exact email.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.getUserWhere(ctx, sq.Eq{"email": email})
}

func (s *Store) getUserWhere(ctx context.Context, pred sq.Eq) (*domain.User, error) {
	query, args, err := s.sb.Select(userColumns...).From("users").Where(pred).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var row userRow
	if err := s.db.GetContext(ctx, &row, query, args...); err != nil {
		return nil, notFound(err, "user")
	}
	return row.toDomain()
}

// UpdateUser overwrites every mutable column of an existing user.
func (s *Store) UpdateUser(ctx context.Context, u *domain.User) error {
	query, args, err := s.sb.Update("users").SetMap(map[string]any{
		"email":         u.Email,
		"username":      u.Username,
		"password_hash": u.PasswordHash,
		"first_name":    nullableString(u.FirstName),
		"last_name":     nullableString(u.LastName),
		"avatar":        nullableString(u.Avatar),
		"bio":           nullableString(u.Bio),
		"role":          string(u.Role),
		"is_active":     u.IsActive,
		"updated_at":    formatTime(u.UpdatedAt),
	}).Where(sq.Eq{"id": u.ID}).ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return classify(err)
	}
	return requireAffected(res, "user")
}

// DeleteUser removes a user. Posts and their join rows go with it.
func (s *Store) DeleteUser(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, s.db.Rebind("DELETE FROM users WHERE id = ?"), id)
	if err != nil {
		return classify(err)
	}
	return requireAffected(res, "user")
}

// ListUsers returns one page of users, newest first.
func (s *Store) ListUsers(ctx context.Context, page store.PageRequest) ([]*domain.User, int, error) {
	page = page.Normalize()

	var total int
	if err := s.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM users"); err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	query, args, err := s.sb.Select(userColumns...).From("users").
		OrderBy("created_at DESC", "id DESC").
		Limit(uint64(page.Limit)).
		Offset(uint64(page.Offset())).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build select: %w", err)
	}

	var rows []userRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}

	users := make([]*domain.User, 0, len(rows))
	for i := range rows {
		u, err := rows[i].toDomain()
		if err != nil {
			return nil, 0, err
		}
		users = append(users, u)
	}
	return users, total, nil
}

// CountUsersByRole counts users holding role.
func (s *Store) CountUsersByRole(ctx context.Context, role domain.Role) (int, error) {
	var n int
	err := s.db.GetContext(ctx, &n, s.db.Rebind("SELECT COUNT(*) FROM users WHERE role = ?"), string(role))
	if err != nil {
		return 0, fmt.Errorf("count users by role: %w", err)
	}
	return n, nil
}
