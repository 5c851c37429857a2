package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quillpress/quillpress-server/internal/auth"
	"github.com/quillpress/quillpress-server/internal/domain"
	"github.com/quillpress/quillpress-server/internal/http/response"
	"github.com/quillpress/quillpress-server/internal/service"
	"github.com/quillpress/quillpress-server/internal/store/sqlstore"
)

const testPassword = "correct horse battery"

type testServer struct {
	server *Server
	store  *sqlstore.Store

	admin       *domain.User
	author      *domain.User
	adminToken  string
	authorToken string
}

// setupTestServer wires a full server over a temporary SQLite database with
// a bootstrapped super admin and one author.
func setupTestServer(t *testing.T, opts Options) *testServer {
	t.Helper()
	ctx := context.Background()
	dir := t.TempDir()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	st, err := sqlstore.Open(ctx, sqlstore.DriverSQLite, filepath.Join(dir, "test.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	key, err := auth.LoadOrGenerateKey(filepath.Join(dir, "auth.key"))
	require.NoError(t, err)

	deps := service.Deps{Store: st, Logger: logger}
	hasher := auth.NewPasswordHasher(auth.Params{Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32})
	tokens := auth.NewTokenService(key, time.Hour)

	services := &Services{
		Auth:       service.NewAuthService(deps, hasher, tokens),
		Users:      service.NewUserService(deps, hasher),
		Categories: service.NewCategoryService(deps),
		Tags:       service.NewTagService(deps),
		Posts:      service.NewPostService(deps),
		AdSense:    service.NewAdSenseService(deps),
	}

	if opts.LoginBurst == 0 {
		opts.LoginRatePerMinute = 600
		opts.LoginBurst = 100
	}
	srv := NewServer(services, st, opts, logger)
	t.Cleanup(srv.Close)

	ts := &testServer{server: srv, store: st}
	ts.admin, err = services.Users.BootstrapAdmin(ctx, service.CreateUserRequest{
		Email:    "admin@example.com",
		Username: "admin",
		Password: testPassword,
	})
	require.NoError(t, err)

	ts.author, err = services.Users.Create(ctx, ts.admin.Actor(), service.CreateUserRequest{
		Email:    "alice@example.com",
		Username: "alice",
		Password: testPassword,
	})
	require.NoError(t, err)

	ts.adminToken = ts.token(t, "admin@example.com")
	ts.authorToken = ts.token(t, "alice@example.com")
	return ts
}

func (ts *testServer) token(t *testing.T, email string) string {
	t.Helper()
	resp, err := ts.server.services.Auth.Login(context.Background(), service.LoginRequest{Email: email, Password: testPassword})
	require.NoError(t, err)
	return resp.Token
}

func (ts *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	ts.server.ServeHTTP(rec, req)
	return rec
}

type testEnvelope[T any] struct {
	Success bool                `json:"success"`
	Data    T                   `json:"data"`
	Error   *response.ErrorBody `json:"error"`
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) testEnvelope[T] {
	t.Helper()
	var env testEnvelope[T]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return env
}

func requireError(t *testing.T, rec *httptest.ResponseRecorder, status int, code string) *response.ErrorBody {
	t.Helper()
	require.Equal(t, status, rec.Code, rec.Body.String())
	env := decode[json.RawMessage](t, rec)
	assert.False(t, env.Success)
	require.NotNil(t, env.Error)
	assert.Equal(t, code, env.Error.Code)
	return env.Error
}

type failingPinger struct{}

func (failingPinger) Ping(context.Context) error { return errors.New("connection refused") }

func TestHealthCheck(t *testing.T) {
	ts := setupTestServer(t, Options{Version: "1.2.3"})

	rec := ts.do(t, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	env := decode[HealthResponse](t, rec)
	assert.True(t, env.Success)
	assert.Equal(t, "healthy", env.Data.Status)
	assert.Equal(t, "1.2.3", env.Data.Version)
	assert.Equal(t, "healthy", env.Data.Components["database"].Status)
}

func TestHealthCheck_DatabaseDown(t *testing.T) {
	ts := setupTestServer(t, Options{})
	ts.server.pinger = failingPinger{}

	rec := ts.do(t, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	env := decode[HealthResponse](t, rec)
	assert.Equal(t, "unhealthy", env.Data.Status)
}

func TestUnknownRoute(t *testing.T) {
	ts := setupTestServer(t, Options{})
	rec := ts.do(t, http.MethodGet, "/api/v1/nothing-here", "", nil)
	requireError(t, rec, http.StatusNotFound, "NOT_FOUND")
}

func TestLoginAndMe(t *testing.T) {
	ts := setupTestServer(t, Options{})

	rec := ts.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    "alice@example.com",
		"password": testPassword,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	login := decode[service.LoginResponse](t, rec)
	assert.True(t, login.Success)
	require.NotEmpty(t, login.Data.Token)
	assert.Equal(t, ts.author.ID, login.Data.User.ID)
	assert.NotContains(t, rec.Body.String(), "password")

	rec = ts.do(t, http.MethodGet, "/api/v1/auth/me", login.Data.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	me := decode[domain.User](t, rec)
	assert.Equal(t, "alice", me.Data.Username)
}

func TestMe_RequiresToken(t *testing.T) {
	ts := setupTestServer(t, Options{})

	requireError(t, ts.do(t, http.MethodGet, "/api/v1/auth/me", "", nil), http.StatusUnauthorized, "UNAUTHORIZED")
	requireError(t, ts.do(t, http.MethodGet, "/api/v1/auth/me", "v4.public.garbage", nil), http.StatusUnauthorized, "UNAUTHORIZED")
}

func TestLogin_Failures(t *testing.T) {
	ts := setupTestServer(t, Options{})

	rec := ts.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    "alice@example.com",
		"password": "wrong password",
	})
	requireError(t, rec, http.StatusUnauthorized, "INVALID_CREDENTIALS")

	rec = ts.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    "not-an-email",
		"password": "x",
	})
	errBody := requireError(t, rec, http.StatusBadRequest, "VALIDATION")
	assert.Contains(t, errBody.Details, "email")
}

func TestLogin_RateLimited(t *testing.T) {
	ts := setupTestServer(t, Options{LoginRatePerMinute: 1, LoginBurst: 2})

	body := map[string]string{"email": "alice@example.com", "password": "wrong password"}
	for range 2 {
		rec := ts.do(t, http.MethodPost, "/api/v1/auth/login", "", body)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	}
	requireError(t, ts.do(t, http.MethodPost, "/api/v1/auth/login", "", body), http.StatusTooManyRequests, "RATE_LIMITED")

	// Other routes are not throttled.
	rec := ts.do(t, http.MethodGet, "/api/v1/categories", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestUsers_RoleGating(t *testing.T) {
	ts := setupTestServer(t, Options{})
	body := map[string]string{
		"email":    "bob@example.com",
		"username": "bob",
		"password": testPassword,
	}

	requireError(t, ts.do(t, http.MethodPost, "/api/v1/users", "", body), http.StatusUnauthorized, "UNAUTHORIZED")
	requireError(t, ts.do(t, http.MethodPost, "/api/v1/users", ts.authorToken, body), http.StatusForbidden, "PERMISSION_DENIED")

	rec := ts.do(t, http.MethodPost, "/api/v1/users", ts.adminToken, body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	created := decode[domain.User](t, rec)
	assert.Equal(t, domain.RoleAuthor, created.Data.Role)

	requireError(t, ts.do(t, http.MethodPost, "/api/v1/users", ts.adminToken, body), http.StatusConflict, "CONSTRAINT_VIOLATION")

	rec = ts.do(t, http.MethodGet, "/api/v1/users?page=1&limit=2", ts.adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	page := decode[struct {
		Items      []domain.User `json:"items"`
		Total      int           `json:"total"`
		TotalPages int           `json:"totalPages"`
	}](t, rec)
	assert.Len(t, page.Data.Items, 2)
	assert.Equal(t, 3, page.Data.Total)
	assert.Equal(t, 2, page.Data.TotalPages)

	requireError(t, ts.do(t, http.MethodGet, "/api/v1/users?limit=101", ts.adminToken, nil), http.StatusBadRequest, "VALIDATION")
}

func TestUsers_NullableLookup(t *testing.T) {
	ts := setupTestServer(t, Options{})

	rec := ts.do(t, http.MethodGet, "/api/v1/users/missing", ts.adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	env := decode[json.RawMessage](t, rec)
	assert.True(t, env.Success)
	assert.JSONEq(t, "null", string(env.Data))
}

func TestCategories(t *testing.T) {
	ts := setupTestServer(t, Options{})

	rec := ts.do(t, http.MethodGet, "/api/v1/categories", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", string(decode[json.RawMessage](t, rec).Data))

	requireError(t, ts.do(t, http.MethodPost, "/api/v1/categories", ts.authorToken, map[string]string{"name": "Go"}),
		http.StatusForbidden, "PERMISSION_DENIED")

	rec = ts.do(t, http.MethodPost, "/api/v1/categories", ts.adminToken, map[string]string{"name": "Go"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	cat := decode[domain.Category](t, rec).Data
	assert.Equal(t, "go", cat.Slug)

	requireError(t, ts.do(t, http.MethodPost, "/api/v1/categories", ts.adminToken, map[string]string{"name": "Go"}),
		http.StatusConflict, "CONSTRAINT_VIOLATION")

	rec = ts.do(t, http.MethodGet, "/api/v1/categories/slug/go", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, cat.ID, decode[domain.Category](t, rec).Data.ID)

	rec = ts.do(t, http.MethodGet, "/api/v1/categories/slug/GO", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "null", string(decode[json.RawMessage](t, rec).Data))

	rec = ts.do(t, http.MethodPatch, "/api/v1/categories/"+cat.ID, ts.adminToken, map[string]string{"description": "All things Go"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decode[domain.Category](t, rec).Data
	require.NotNil(t, updated.Description)
	assert.Equal(t, "All things Go", *updated.Description)

	rec = ts.do(t, http.MethodDelete, "/api/v1/categories/"+cat.ID, ts.adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	del := decode[DeletedResponse](t, rec).Data
	assert.Equal(t, cat.ID, del.ID)
	assert.True(t, del.Deleted)

	requireError(t, ts.do(t, http.MethodDelete, "/api/v1/categories/"+cat.ID, ts.adminToken, nil), http.StatusNotFound, "NOT_FOUND")
}

func TestTags(t *testing.T) {
	ts := setupTestServer(t, Options{})

	rec := ts.do(t, http.MethodPost, "/api/v1/tags", ts.adminToken, map[string]string{"name": "Concurrency", "slug": "conc"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	tag := decode[domain.Tag](t, rec).Data
	assert.Equal(t, "conc", tag.Slug)

	rec = ts.do(t, http.MethodPost, "/api/v1/tags", ts.adminToken, map[string]string{"name": "Bad", "slug": "Not A Slug"})
	requireError(t, rec, http.StatusBadRequest, "VALIDATION")

	rec = ts.do(t, http.MethodGet, "/api/v1/tags/"+tag.ID, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Concurrency", decode[domain.Tag](t, rec).Data.Name)
}

func TestPosts_Flow(t *testing.T) {
	ts := setupTestServer(t, Options{})

	rec := ts.do(t, http.MethodPost, "/api/v1/categories", ts.adminToken, map[string]string{"name": "Guides"})
	require.Equal(t, http.StatusOK, rec.Code)
	cat := decode[domain.Category](t, rec).Data

	rec = ts.do(t, http.MethodPost, "/api/v1/tags", ts.adminToken, map[string]string{"name": "beginner"})
	require.Equal(t, http.StatusOK, rec.Code)
	tag := decode[domain.Tag](t, rec).Data

	requireError(t, ts.do(t, http.MethodPost, "/api/v1/posts", "", map[string]any{
		"title": "Anon", "content": "<p>x</p>", "category_ids": []string{cat.ID},
	}), http.StatusUnauthorized, "UNAUTHORIZED")

	requireError(t, ts.do(t, http.MethodPost, "/api/v1/posts", ts.authorToken, map[string]any{
		"title": "No categories", "content": "<p>x</p>", "category_ids": []string{},
	}), http.StatusBadRequest, "VALIDATION")

	requireError(t, ts.do(t, http.MethodPost, "/api/v1/posts", ts.authorToken, map[string]any{
		"title": "Ghost category", "content": "<p>x</p>", "category_ids": []string{"missing"},
	}), http.StatusNotFound, "NOT_FOUND")

	rec = ts.do(t, http.MethodPost, "/api/v1/posts", ts.authorToken, map[string]any{
		"title":        "Hello World",
		"content":      "<p>Hello <strong>world</strong></p>",
		"status":       "published",
		"category_ids": []string{cat.ID},
		"tag_ids":      []string{tag.ID},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	post := decode[domain.BlogPost](t, rec).Data
	assert.Equal(t, "hello-world", post.Slug)
	assert.Equal(t, ts.author.ID, post.AuthorID)
	assert.NotNil(t, post.PublishedAt)

	rec = ts.do(t, http.MethodGet, "/api/v1/posts/slug/hello-world", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	full := decode[domain.BlogPostWithRelations](t, rec).Data
	require.NotNil(t, full.Author)
	assert.Equal(t, "alice", full.Author.Username)
	require.Len(t, full.Categories, 1)
	assert.Equal(t, cat.ID, full.Categories[0].ID)
	require.Len(t, full.Tags, 1)
	assert.NotContains(t, rec.Body.String(), "password_hash")

	rec = ts.do(t, http.MethodGet, "/api/v1/posts?category_id="+cat.ID+"&tag_id="+tag.ID, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	page := decode[struct {
		Items []domain.BlogPostWithRelations `json:"items"`
		Total int                            `json:"total"`
	}](t, rec).Data
	assert.Equal(t, 1, page.Total)

	rec = ts.do(t, http.MethodGet, "/api/v1/posts/mine", ts.adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"total":0`)
	requireError(t, ts.do(t, http.MethodGet, "/api/v1/posts/mine", "", nil), http.StatusUnauthorized, "UNAUTHORIZED")

	rec = ts.do(t, http.MethodGet, "/api/v1/posts/slug/hello-world/markdown", "", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	md := decode[service.MarkdownExport](t, rec).Data
	assert.Contains(t, md.Markdown, "**world**")

	bob, err := ts.server.services.Users.Create(context.Background(), ts.admin.Actor(), service.CreateUserRequest{
		Email: "bob@example.com", Username: "bob", Password: testPassword,
	})
	require.NoError(t, err)
	bobToken := ts.token(t, bob.Email)

	requireError(t, ts.do(t, http.MethodPatch, "/api/v1/posts/"+post.ID, bobToken, map[string]string{"title": "Mine now"}),
		http.StatusForbidden, "PERMISSION_DENIED")

	rec = ts.do(t, http.MethodPatch, "/api/v1/posts/"+post.ID, ts.adminToken, map[string]any{"status": "draft", "tag_ids": []string{}})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decode[domain.BlogPost](t, rec).Data
	assert.Equal(t, domain.StatusDraft, updated.Status)
	assert.Nil(t, updated.PublishedAt)

	requireError(t, ts.do(t, http.MethodGet, "/api/v1/posts/slug/hello-world/markdown", "", nil), http.StatusNotFound, "NOT_FOUND")

	rec = ts.do(t, http.MethodDelete, "/api/v1/posts/"+post.ID, ts.authorToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decode[DeletedResponse](t, rec).Data.Deleted)

	rec = ts.do(t, http.MethodGet, "/api/v1/posts/"+post.ID, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "null", string(decode[json.RawMessage](t, rec).Data))
}

func TestPosts_UpdateNullKeepsEmptyClears(t *testing.T) {
	ts := setupTestServer(t, Options{})
	ctx := context.Background()

	cat, err := ts.server.services.Categories.Create(ctx, ts.admin.Actor(), service.CreateCategoryRequest{Name: "Notes"})
	require.NoError(t, err)
	excerpt := "Short summary"
	post, err := ts.server.services.Posts.Create(ctx, ts.author.Actor(), service.CreatePostRequest{
		Title:       "Nulls",
		Content:     "<p>body</p>",
		Excerpt:     &excerpt,
		CategoryIDs: []string{cat.ID},
	})
	require.NoError(t, err)

	rec := ts.do(t, http.MethodPatch, "/api/v1/posts/"+post.ID, ts.authorToken, map[string]any{"excerpt": nil})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	kept := decode[domain.BlogPost](t, rec).Data
	require.NotNil(t, kept.Excerpt)
	assert.Equal(t, "Short summary", *kept.Excerpt)

	rec = ts.do(t, http.MethodPatch, "/api/v1/posts/"+post.ID, ts.authorToken, map[string]any{"excerpt": ""})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Nil(t, decode[domain.BlogPost](t, rec).Data.Excerpt)
}

func TestAdSense(t *testing.T) {
	ts := setupTestServer(t, Options{})

	rec := ts.do(t, http.MethodGet, "/api/v1/adsense/public", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "null", string(decode[json.RawMessage](t, rec).Data))

	requireError(t, ts.do(t, http.MethodGet, "/api/v1/adsense/config", ts.authorToken, nil), http.StatusForbidden, "PERMISSION_DENIED")

	rec = ts.do(t, http.MethodGet, "/api/v1/adsense/config", ts.adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "null", string(decode[json.RawMessage](t, rec).Data))

	rec = ts.do(t, http.MethodPut, "/api/v1/adsense/config", ts.adminToken, map[string]any{
		"publisher_id": "pub-123",
		"header_slot":  "111",
		"enabled":      true,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	cfg := decode[domain.AdSenseConfig](t, rec).Data
	assert.Equal(t, "pub-123", cfg.PublisherID)
	assert.True(t, cfg.Enabled)

	rec = ts.do(t, http.MethodGet, "/api/v1/adsense/public", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	public := decode[domain.PublicAdSenseConfig](t, rec).Data
	require.NotNil(t, public.HeaderSlot)
	assert.Equal(t, "111", *public.HeaderSlot)
	assert.NotContains(t, rec.Body.String(), "pub-123")
}

func TestEnvelopeTransformer(t *testing.T) {
	out, err := EnvelopeTransformer(nil, "200", map[string]string{"id": "x"})
	require.NoError(t, err)
	env, ok := out.(response.Envelope)
	require.True(t, ok)
	assert.True(t, env.Success)
	assert.Nil(t, env.Error)

	out, err = EnvelopeTransformer(nil, "409", &APIError{Code: "CONSTRAINT_VIOLATION", Message: "taken"})
	require.NoError(t, err)
	env = out.(response.Envelope)
	assert.False(t, env.Success)
	require.NotNil(t, env.Error)
	assert.Equal(t, "CONSTRAINT_VIOLATION", env.Error.Code)

	out, err = EnvelopeTransformer(nil, "500", errors.New("boom"))
	require.NoError(t, err)
	assert.Equal(t, "INTERNAL", out.(response.Envelope).Error.Code)
}

func TestNullable_MarshalJSON(t *testing.T) {
	raw, err := json.Marshal(NullableOf[domain.Tag](nil))
	require.NoError(t, err)
	assert.JSONEq(t, "null", string(raw))

	raw, err = json.Marshal(NullableOf(&domain.Tag{ID: "t1", Name: "go", Slug: "go"}))
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"id":"t1"`)
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name   string
		header map[string]string
		remote string
		want   string
	}{
		{"forwarded for ignored", map[string]string{"X-Forwarded-For": "203.0.113.7, 10.0.0.1"}, "10.0.0.1:1234", "10.0.0.1"},
		{"real ip ignored", map[string]string{"X-Real-IP": "203.0.113.8"}, "10.0.0.1:1234", "10.0.0.1"},
		{"remote addr", nil, "192.0.2.4:5555", "192.0.2.4"},
		{"no port", nil, "192.0.2.9", "192.0.2.9"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			for k, v := range tt.header {
				req.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, clientIP(req))
		})
	}
}

func (ts *testServer) loginFrom(t *testing.T, forwardedFor string) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(map[string]string{"email": "alice@example.com", "password": "wrong password"})
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Forwarded-For", forwardedFor)
	rec := httptest.NewRecorder()
	ts.server.ServeHTTP(rec, req)
	return rec
}

func TestLogin_RateLimitIgnoresForwardedFor(t *testing.T) {
	ts := setupTestServer(t, Options{LoginRatePerMinute: 1, LoginBurst: 2})

	require.Equal(t, http.StatusUnauthorized, ts.loginFrom(t, "203.0.113.1").Code)
	require.Equal(t, http.StatusUnauthorized, ts.loginFrom(t, "203.0.113.2").Code)
	requireError(t, ts.loginFrom(t, "203.0.113.3"), http.StatusTooManyRequests, "RATE_LIMITED")
}

func TestLogin_RateLimitBehindTrustedProxy(t *testing.T) {
	ts := setupTestServer(t, Options{LoginRatePerMinute: 1, LoginBurst: 1, TrustProxy: true})

	require.Equal(t, http.StatusUnauthorized, ts.loginFrom(t, "203.0.113.1").Code)
	requireError(t, ts.loginFrom(t, "203.0.113.1"), http.StatusTooManyRequests, "RATE_LIMITED")
	// A different forwarded client has its own bucket.
	require.Equal(t, http.StatusUnauthorized, ts.loginFrom(t, "203.0.113.2").Code)
}

func TestOperationIDs(t *testing.T) {
	ts := setupTestServer(t, Options{})

	ids := map[string]bool{}
	for _, item := range ts.server.API().OpenAPI().Paths {
		for _, op := range []*huma.Operation{item.Get, item.Post, item.Put, item.Patch, item.Delete} {
			if op != nil {
				ids[op.OperationID] = true
			}
		}
	}

	for _, want := range []string{
		"auth.login", "auth.me",
		"users.create", "users.update", "users.delete", "users.list", "users.getById",
		"categories.create", "categories.update", "categories.delete", "categories.list", "categories.getById", "categories.getBySlug",
		"tags.create", "tags.update", "tags.delete", "tags.list", "tags.getById", "tags.getBySlug",
		"posts.create", "posts.update", "posts.delete", "posts.list", "posts.getById", "posts.getBySlug", "posts.myPosts", "posts.getMarkdown",
		"adsense.getConfig", "adsense.updateConfig", "adsense.getPublicConfig",
	} {
		assert.True(t, ids[want], "missing operation %s", want)
	}
}

func TestHumaAPI_BearerHeader(t *testing.T) {
	ts := setupTestServer(t, Options{})
	api := humatest.Wrap(t, ts.server.API())

	resp := api.Get("/api/v1/auth/me", "Authorization: Bearer "+ts.adminToken)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	assert.Equal(t, ts.admin.ID, decode[domain.User](t, resp).Data.ID)

	resp = api.Get("/api/v1/tags/slug/missing")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, "null", string(decode[json.RawMessage](t, resp).Data))
}
