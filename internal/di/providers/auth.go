package providers

import (
	"github.com/samber/do/v2"

	"github.com/quillpress/quillpress-server/internal/auth"
	"github.com/quillpress/quillpress-server/internal/config"
	"github.com/quillpress/quillpress-server/internal/logger"
)

// ProvideTokenService loads or generates the signing key and provides the
// PASETO token service.
func ProvideTokenService(i do.Injector) (*auth.TokenService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	key, err := auth.LoadOrGenerateKey(cfg.Auth.KeyPath)
	if err != nil {
		return nil, err
	}

	log.Info("Authentication key loaded",
		"key_path", cfg.Auth.KeyPath,
		"token_duration", cfg.Auth.TokenDuration,
	)

	return auth.NewTokenService(key, cfg.Auth.TokenDuration), nil
}

// ProvidePasswordHasher provides the argon2id password hasher.
func ProvidePasswordHasher(_ do.Injector) (*auth.PasswordHasher, error) {
	return auth.NewPasswordHasher(auth.DefaultParams), nil
}
