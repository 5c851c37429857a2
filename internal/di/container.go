// Package di provides dependency injection configuration for the QuillPress server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/quillpress/quillpress-server/internal/auth"
	"github.com/quillpress/quillpress-server/internal/config"
	"github.com/quillpress/quillpress-server/internal/di/providers"
	"github.com/quillpress/quillpress-server/internal/logger"
	"github.com/quillpress/quillpress-server/internal/service"
)

// NewContainer creates and configures the DI container with all providers.
// args are the command-line arguments handed to config.Load.
func NewContainer(args []string, version string) *do.RootScope {
	injector := do.New()

	do.ProvideNamedValue(injector, providers.ArgsKey, args)
	do.ProvideNamedValue(injector, providers.VersionKey, version)

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)

	// Database layer
	do.Provide(injector, providers.ProvideStore)

	// Auth layer
	do.Provide(injector, providers.ProvideTokenService)
	do.Provide(injector, providers.ProvidePasswordHasher)

	// Business services
	do.Provide(injector, providers.ProvideServiceDeps)
	do.Provide(injector, providers.ProvideAuthService)
	do.Provide(injector, providers.ProvideUserService)
	do.Provide(injector, providers.ProvideCategoryService)
	do.Provide(injector, providers.ProvideTagService)
	do.Provide(injector, providers.ProvidePostService)
	do.Provide(injector, providers.ProvideAdSenseService)

	// Server
	do.Provide(injector, providers.ProvideAPIServer)
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services and starts the HTTP server.
func Bootstrap(injector *do.RootScope) error {
	if _, err := do.Invoke[*config.Config](injector); err != nil {
		return err
	}
	_ = do.MustInvoke[*logger.Logger](injector)
	if _, err := do.Invoke[*providers.StoreHandle](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*auth.TokenService](injector); err != nil {
		return err
	}

	_ = do.MustInvoke[*service.AuthService](injector)
	_ = do.MustInvoke[*service.UserService](injector)
	_ = do.MustInvoke[*service.CategoryService](injector)
	_ = do.MustInvoke[*service.TagService](injector)
	_ = do.MustInvoke[*service.PostService](injector)
	_ = do.MustInvoke[*service.AdSenseService](injector)

	_, err := do.Invoke[*providers.HTTPServerHandle](injector)
	return err
}
