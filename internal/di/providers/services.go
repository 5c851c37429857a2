package providers

import (
	"github.com/samber/do/v2"

	"github.com/quillpress/quillpress-server/internal/auth"
	"github.com/quillpress/quillpress-server/internal/logger"
	"github.com/quillpress/quillpress-server/internal/service"
	"github.com/quillpress/quillpress-server/internal/validation"
)

// ProvideServiceDeps provides the collaborators shared by every service.
func ProvideServiceDeps(i do.Injector) (service.Deps, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.Deps{
		Store:     storeHandle.Store,
		Validator: validation.New(),
		Logger:    log.Logger,
	}, nil
}

// ProvideAuthService provides the authentication service.
func ProvideAuthService(i do.Injector) (*service.AuthService, error) {
	deps := do.MustInvoke[service.Deps](i)
	hasher := do.MustInvoke[*auth.PasswordHasher](i)
	tokens := do.MustInvoke[*auth.TokenService](i)

	return service.NewAuthService(deps, hasher, tokens), nil
}

// ProvideUserService provides the user service.
func ProvideUserService(i do.Injector) (*service.UserService, error) {
	deps := do.MustInvoke[service.Deps](i)
	hasher := do.MustInvoke[*auth.PasswordHasher](i)

	return service.NewUserService(deps, hasher), nil
}

// ProvideCategoryService provides the category service.
func ProvideCategoryService(i do.Injector) (*service.CategoryService, error) {
	return service.NewCategoryService(do.MustInvoke[service.Deps](i)), nil
}

// ProvideTagService provides the tag service.
func ProvideTagService(i do.Injector) (*service.TagService, error) {
	return service.NewTagService(do.MustInvoke[service.Deps](i)), nil
}

// ProvidePostService provides the blog post service.
func ProvidePostService(i do.Injector) (*service.PostService, error) {
	return service.NewPostService(do.MustInvoke[service.Deps](i)), nil
}

// ProvideAdSenseService provides the AdSense config service.
func ProvideAdSenseService(i do.Injector) (*service.AdSenseService, error) {
	return service.NewAdSenseService(do.MustInvoke[service.Deps](i)), nil
}
