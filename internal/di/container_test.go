package di

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/samber/do/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quillpress/quillpress-server/internal/api"
	"github.com/quillpress/quillpress-server/internal/config"
	"github.com/quillpress/quillpress-server/internal/di/providers"
	"github.com/quillpress/quillpress-server/internal/service"
)

func TestContainer_ResolvesServices(t *testing.T) {
	dir := t.TempDir()
	injector := NewContainer([]string{
		"-data-path", dir,
		"-env-file", filepath.Join(dir, "missing.env"),
		"-log-level", "error",
	}, "test")
	t.Cleanup(func() { injector.Shutdown() })

	cfg := do.MustInvoke[*config.Config](injector)
	assert.Equal(t, filepath.Join(dir, "quillpress.db"), cfg.Database.DSN)

	st := do.MustInvoke[*providers.StoreHandle](injector)
	require.NoError(t, st.Ping(context.Background()))

	users := do.MustInvoke[*service.UserService](injector)
	admin, err := users.BootstrapAdmin(context.Background(), service.CreateUserRequest{
		Email:    "root@example.com",
		Username: "root",
		Password: "long enough password",
	})
	require.NoError(t, err)

	login, err := do.MustInvoke[*service.AuthService](injector).Login(context.Background(), service.LoginRequest{
		Email:    "root@example.com",
		Password: "long enough password",
	})
	require.NoError(t, err)
	assert.Equal(t, admin.ID, login.User.ID)

	server := do.MustInvoke[*api.Server](injector)
	defer server.Close()
	assert.Equal(t, "test", server.API().OpenAPI().Info.Version)

	assert.FileExists(t, cfg.Auth.KeyPath)
}
