// Package sqlstore implements store.Store on database/sql via sqlx, with
// queries built by squirrel. SQLite (modernc) and PostgreSQL (lib/pq) share
// one schema.
package sqlstore

import (
	"context"
	"database/sql"
	"database/sql/driver"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/quillpress/quillpress-server/internal/store"

	"modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// Supported driver names.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// timeLayout is fixed width so text ordering is chronological.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// unicodeLower is registered on sqlite because its built-in LOWER folds
// ASCII only. Postgres LOWER already folds Unicode.
const unicodeLower = "unicode_lower"

func init() {
	// modernc registers as "sqlite", which sqlx does not know by default.
	sqlx.BindDriver(DriverSQLite, sqlx.QUESTION)

	if err := sqlite.RegisterDeterministicScalarFunction(unicodeLower, 1, lowerValue); err != nil {
		panic(fmt.Sprintf("register %s: %v", unicodeLower, err))
	}
}

func lowerValue(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	switch v := args[0].(type) {
	case nil:
		return nil, nil
	case string:
		return strings.ToLower(v), nil
	case []byte:
		return strings.ToLower(string(v)), nil
	default:
		return v, nil
	}
}

// lower wraps expr in the driver's Unicode-aware lowercase function.
func (s *Store) lower(expr string) string {
	if s.driver == DriverSQLite {
		return unicodeLower + "(" + expr + ")"
	}
	return "LOWER(" + expr + ")"
}

// Store is the SQL-backed implementation of store.Store.
type Store struct {
	db     *sqlx.DB
	sb     sq.StatementBuilderType
	driver string
	logger *slog.Logger
}

var _ store.Store = (*Store)(nil)

// Open connects to the database, configures the pool and applies the schema.
// For sqlite the dsn is a file path; for postgres a connection URL.
func Open(ctx context.Context, driver, dsn string, logger *slog.Logger) (*Store, error) {
	var (
		db  *sqlx.DB
		err error
	)

	switch driver {
	case DriverSQLite:
		db, err = sqlx.Open(DriverSQLite, sqliteDSN(dsn))
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		// SQLite allows a single writer; keep the pool small.
		db.SetMaxOpenConns(4)
		db.SetMaxIdleConns(2)
	case DriverPostgres:
		db, err = sqlx.Open(DriverPostgres, dsn)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		db.SetMaxOpenConns(20)
		db.SetMaxIdleConns(5)
	default:
		return nil, fmt.Errorf("unsupported driver %q", driver)
	}
	db.SetConnMaxLifetime(time.Hour)

	s := New(db, driver, logger)
	if err := s.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// New wraps an existing connection. The caller owns schema management.
func New(db *sqlx.DB, driver string, logger *slog.Logger) *Store {
	var placeholder sq.PlaceholderFormat = sq.Question
	if driver == DriverPostgres {
		placeholder = sq.Dollar
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		db:     db,
		sb:     sq.StatementBuilder.PlaceholderFormat(placeholder),
		driver: driver,
		logger: logger,
	}
}

// Migrate applies the embedded schema. Every statement is idempotent.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("exec schema: %w", err)
	}
	return nil
}

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the underlying connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

// Driver returns the driver name the store was opened with.
func (s *Store) Driver() string {
	return s.driver
}

// sqliteDSN attaches per-connection pragmas. PRAGMA statements executed on one
// pooled connection would not reach the others, foreign_keys included.
func sqliteDSN(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + strings.Join([]string{
		"_pragma=foreign_keys(1)",
		"_pragma=journal_mode(WAL)",
		"_pragma=synchronous(NORMAL)",
		"_pragma=busy_timeout(5000)",
	}, "&")
}

// withTx runs fn inside a transaction, committing on success.
func (s *Store) withTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// classify maps driver constraint errors onto store sentinels.
func classify(err error) error {
	if err == nil {
		return nil
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "23505":
			return store.ErrAlreadyExists.WithCause(err)
		case "23503":
			return store.ErrInvalidReference.WithCause(err)
		}
		return err
	}

	msg := err.Error()
	switch {
	case strings.Contains(msg, "UNIQUE constraint failed"):
		return store.ErrAlreadyExists.WithCause(err)
	case strings.Contains(msg, "FOREIGN KEY constraint failed"):
		return store.ErrInvalidReference.WithCause(err)
	}
	return err
}

// notFound turns sql.ErrNoRows into store.ErrNotFound.
func notFound(err error, what string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound.WithMessage(what + " not found")
	}
	return err
}

// requireAffected reports ErrNotFound when an UPDATE/DELETE touched nothing.
func requireAffected(res sql.Result, what string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound.WithMessage(what + " not found")
	}
	return nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(timeLayout, s)
}

func parseNullableTime(s sql.NullString) (*time.Time, error) {
	if !s.Valid || s.String == "" {
		return nil, nil
	}
	t, err := parseTime(s.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func nullableString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func stringPtr(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}

func nullTimeString(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: formatTime(*t), Valid: true}
}

// dedupe returns ids without duplicates, preserving first-seen order.
func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, v := range ids {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// missingIDs returns the ids absent from table.
func (s *Store) missingIDs(ctx context.Context, table string, ids []string) ([]string, error) {
	ids = dedupe(ids)
	if len(ids) == 0 {
		return nil, nil
	}

	query, args, err := s.sb.Select("id").From(table).Where(sq.Eq{"id": ids}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var found []string
	if err := s.db.SelectContext(ctx, &found, query, args...); err != nil {
		return nil, fmt.Errorf("lookup %s: %w", table, err)
	}

	present := make(map[string]struct{}, len(found))
	for _, v := range found {
		present[v] = struct{}{}
	}

	var missing []string
	for _, v := range ids {
		if _, ok := present[v]; !ok {
			missing = append(missing, v)
		}
	}
	return missing, nil
}
