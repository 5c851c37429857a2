// Package id generates identifiers for persisted entities and issued tokens.
package id

import (
	"fmt"

	"github.com/google/uuid"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

// Entity prefixes. The prefix makes an id self-describing in logs and URLs.
const (
	PrefixUser     = "usr"
	PrefixCategory = "cat"
	PrefixTag      = "tag"
	PrefixPost     = "post"
	PrefixAdSense  = "ads"
)

// Generate creates a prefixed NanoID, e.g. "post-V1StGXR8_Z5jdHi6B-myT".
func Generate(prefix string) (string, error) {
	n, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("generate nanoid: %w", err)
	}
	return prefix + "-" + n, nil
}

// TokenID returns a random UUIDv4 used as the jti of issued tokens.
func TokenID() string {
	return uuid.NewString()
}
