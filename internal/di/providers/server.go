package providers

import (
	"context"
	"errors"
	"net/http"

	"github.com/samber/do/v2"

	"github.com/quillpress/quillpress-server/internal/api"
	"github.com/quillpress/quillpress-server/internal/config"
	"github.com/quillpress/quillpress-server/internal/logger"
	"github.com/quillpress/quillpress-server/internal/service"
)

// HTTPServerHandle wraps http.Server with Shutdownable.
type HTTPServerHandle struct {
	*http.Server
	api *api.Server
}

// Shutdown implements do.Shutdownable.
func (h *HTTPServerHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	defer h.api.Close()
	return h.Server.Shutdown(ctx)
}

// ProvideAPIServer provides the HTTP handler with every route registered.
func ProvideAPIServer(i do.Injector) (*api.Server, error) {
	cfg := do.MustInvoke[*config.Config](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)
	version, err := do.InvokeNamed[string](i, VersionKey)
	if err != nil {
		version = "dev"
	}

	services := &api.Services{
		Auth:       do.MustInvoke[*service.AuthService](i),
		Users:      do.MustInvoke[*service.UserService](i),
		Categories: do.MustInvoke[*service.CategoryService](i),
		Tags:       do.MustInvoke[*service.TagService](i),
		Posts:      do.MustInvoke[*service.PostService](i),
		AdSense:    do.MustInvoke[*service.AdSenseService](i),
	}

	return api.NewServer(services, storeHandle.Store, api.Options{
		Version:            version,
		CORSOrigins:        cfg.Server.CORSOrigins,
		LoginRatePerMinute: cfg.Auth.LoginRatePerMinute,
		LoginBurst:         cfg.Auth.LoginBurst,
		TrustProxy:         cfg.Server.TrustProxy,
	}, log.Logger), nil
}

// ProvideHTTPServer provides the HTTP server and starts listening.
func ProvideHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	handler := do.MustInvoke[*api.Server](i)

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start in background
	go func() {
		log.Info("HTTP server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("HTTP server error", "error", err)
		}
	}()

	return &HTTPServerHandle{Server: srv, api: handler}, nil
}
