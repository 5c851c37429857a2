package auth

import (
	"time"

	"github.com/quillpress/quillpress-server/internal/domain"
)

// AccessClaims are the claims carried by a signed access token. v4.public
// payloads are readable by anyone holding the token, so nothing secret goes here.
type AccessClaims struct {
	UserID string      `json:"user_id"`
	Email  string      `json:"email"`
	Role   domain.Role `json:"role"`

	Issuer     string    `json:"iss"`
	Subject    string    `json:"sub"`
	Audience   string    `json:"aud"`
	Expiration time.Time `json:"exp"`
	NotBefore  time.Time `json:"nbf"`
	IssuedAt   time.Time `json:"iat"`
	TokenID    string    `json:"jti"`
}
