package service

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quillpress/quillpress-server/internal/auth"
	"github.com/quillpress/quillpress-server/internal/domain"
	domainerrors "github.com/quillpress/quillpress-server/internal/errors"
	"github.com/quillpress/quillpress-server/internal/logger"
	"github.com/quillpress/quillpress-server/internal/store/sqlstore"
)

// fastParams keeps argon2id cheap in tests.
var fastParams = auth.Params{Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32}

// tickClock returns a strictly increasing time on every call so created_at
// ordering is deterministic.
type tickClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *tickClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(time.Second)
	return c.t
}

type harness struct {
	store *sqlstore.Store
	clock *tickClock

	users      *UserService
	categories *CategoryService
	tags       *TagService
	posts      *PostService
	adsense    *AdSenseService
	auth       *AuthService
	tokens     *auth.TokenService

	admin  *domain.User
	author *domain.User
}

const testPassword = "correct horse battery"

func newHarness(t *testing.T) *harness {
	t.Helper()
	ctx := context.Background()
	dir := t.TempDir()

	st, err := sqlstore.Open(ctx, sqlstore.DriverSQLite, filepath.Join(dir, "test.db"), slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	key, err := auth.LoadOrGenerateKey(filepath.Join(dir, "auth.key"))
	require.NoError(t, err)

	clock := &tickClock{t: time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)}
	deps := Deps{Store: st, Now: clock.Now}
	hasher := auth.NewPasswordHasher(fastParams)
	tokens := auth.NewTokenService(key, 24*time.Hour)

	h := &harness{
		store:      st,
		clock:      clock,
		users:      NewUserService(deps, hasher),
		categories: NewCategoryService(deps),
		tags:       NewTagService(deps),
		posts:      NewPostService(deps),
		adsense:    NewAdSenseService(deps),
		auth:       NewAuthService(deps, hasher, tokens),
		tokens:     tokens,
	}

	h.admin, err = h.users.BootstrapAdmin(ctx, CreateUserRequest{
		Email:    "admin@example.com",
		Username: "admin",
		Password: testPassword,
	})
	require.NoError(t, err)

	h.author = h.createUser(t, "alice")
	return h
}

func (h *harness) createUser(t *testing.T, name string) *domain.User {
	t.Helper()
	u, err := h.users.Create(context.Background(), h.admin.Actor(), CreateUserRequest{
		Email:    name + "@example.com",
		Username: name,
		Password: testPassword,
	})
	require.NoError(t, err)
	return u
}

func (h *harness) createCategory(t *testing.T, name string) *domain.Category {
	t.Helper()
	c, err := h.categories.Create(context.Background(), h.admin.Actor(), CreateCategoryRequest{Name: name})
	require.NoError(t, err)
	return c
}

func (h *harness) createTag(t *testing.T, name string) *domain.Tag {
	t.Helper()
	tag, err := h.tags.Create(context.Background(), h.admin.Actor(), CreateTagRequest{Name: name})
	require.NoError(t, err)
	return tag
}

func (h *harness) createPost(t *testing.T, owner *domain.User, req CreatePostRequest) *domain.BlogPost {
	t.Helper()
	if req.Content == "" {
		req.Content = "<p>Body of " + req.Title + "</p>"
	}
	p, err := h.posts.Create(context.Background(), owner.Actor(), req)
	require.NoError(t, err)
	return p
}

func strPtr(s string) *string { return &s }

func TestDeps_LogsThroughRequestLogger(t *testing.T) {
	var base, scoped bytes.Buffer
	deps := Deps{Logger: slog.New(slog.NewTextHandler(&base, nil))}.withDefaults()

	reqLog := slog.New(slog.NewTextHandler(&scoped, nil)).With("request_id", "req-42")
	ctx := logger.IntoContext(context.Background(), reqLog)

	err := deps.fail(ctx, "posts.create", domainerrors.NotFound("post not found"))
	require.Error(t, err)

	assert.Contains(t, scoped.String(), "request_id=req-42")
	assert.Contains(t, scoped.String(), `msg="posts.create failed"`)
	assert.Contains(t, scoped.String(), "level=WARN")
	assert.Empty(t, base.String())

	deps.log(context.Background()).Info("no request")
	assert.Contains(t, base.String(), `msg="no request"`)
}

func TestCategoryService_LogsRequestID(t *testing.T) {
	h := newHarness(t)

	var buf bytes.Buffer
	reqLog := slog.New(slog.NewTextHandler(&buf, nil)).With("request_id", "req-7")
	ctx := logger.IntoContext(context.Background(), reqLog)

	_, err := h.categories.Create(ctx, h.author.Actor(), CreateCategoryRequest{Name: "Nope"})
	require.Error(t, err)

	assert.Contains(t, buf.String(), "request_id=req-7")
	assert.Contains(t, buf.String(), "categories.create failed")
}
