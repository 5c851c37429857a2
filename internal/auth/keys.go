// Package auth provides password hashing and signed access tokens.
package auth

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"aidanwoods.dev/go-paseto"
)

// LoadOrGenerateKey loads the Ed25519 signing key stored hex-encoded at keyPath,
// generating and persisting a new one on first boot.
func LoadOrGenerateKey(keyPath string) (paseto.V4AsymmetricSecretKey, error) {
	//#nosec G304 -- key path comes from validated config
	data, err := os.ReadFile(keyPath)
	if err == nil {
		key, err := paseto.NewV4AsymmetricSecretKeyFromHex(strings.TrimSpace(string(data)))
		if err != nil {
			return paseto.V4AsymmetricSecretKey{}, fmt.Errorf("invalid auth key in %s: %w", keyPath, err)
		}
		return key, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return paseto.V4AsymmetricSecretKey{}, fmt.Errorf("read auth key: %w", err)
	}

	key := paseto.NewV4AsymmetricSecretKey()

	if err := os.MkdirAll(filepath.Dir(keyPath), 0o700); err != nil {
		return paseto.V4AsymmetricSecretKey{}, fmt.Errorf("failed to create key directory: %w", err)
	}
	if err := os.WriteFile(keyPath, []byte(key.ExportHex()), 0o600); err != nil {
		return paseto.V4AsymmetricSecretKey{}, fmt.Errorf("failed to save auth key: %w", err)
	}

	return key, nil
}
