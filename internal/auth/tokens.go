package auth

import (
	"encoding/json"
	"fmt"
	"time"

	"aidanwoods.dev/go-paseto"

	"github.com/quillpress/quillpress-server/internal/domain"
	"github.com/quillpress/quillpress-server/internal/id"
)

const (
	tokenIssuer   = "quillpress-server"
	tokenAudience = "quillpress-client"
)

// TokenService signs and verifies PASETO v4.public access tokens.
type TokenService struct {
	secretKey paseto.V4AsymmetricSecretKey
	publicKey paseto.V4AsymmetricPublicKey
	duration  time.Duration
	now       func() time.Time
}

// NewTokenService creates a token service issuing tokens valid for duration.
func NewTokenService(key paseto.V4AsymmetricSecretKey, duration time.Duration) *TokenService {
	return &TokenService{
		secretKey: key,
		publicKey: key.Public(),
		duration:  duration,
		now:       time.Now,
	}
}

// Issue signs a token for user. It returns the token and its expiry.
func (s *TokenService) Issue(user *domain.User) (string, time.Time, error) {
	now := s.now()
	expiresAt := now.Add(s.duration)

	token := paseto.NewToken()
	token.SetIssuer(tokenIssuer)
	token.SetSubject(user.ID)
	token.SetAudience(tokenAudience)
	token.SetIssuedAt(now)
	token.SetNotBefore(now)
	token.SetExpiration(expiresAt)
	token.SetJti(id.TokenID())

	for key, value := range map[string]any{
		"user_id": user.ID,
		"email":   user.Email,
		"role":    string(user.Role),
	} {
		if err := token.Set(key, value); err != nil {
			return "", time.Time{}, fmt.Errorf("set claim %s: %w", key, err)
		}
	}

	return token.V4Sign(s.secretKey, nil), expiresAt, nil
}

// Verify checks the signature and time claims and returns the decoded claims.
func (s *TokenService) Verify(tokenString string) (*AccessClaims, error) {
	parser := paseto.NewParserWithoutExpiryCheck()
	parser.AddRule(paseto.ForAudience(tokenAudience))
	parser.AddRule(paseto.IssuedBy(tokenIssuer))
	parser.AddRule(paseto.ValidAt(s.now()))

	token, err := parser.ParseV4Public(s.publicKey, tokenString, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	var claims AccessClaims
	if err := json.Unmarshal(token.ClaimsJSON(), &claims); err != nil {
		return nil, fmt.Errorf("parse claims: %w", err)
	}
	if claims.UserID == "" {
		return nil, fmt.Errorf("invalid token: missing user_id")
	}

	return &claims, nil
}

// Duration returns the configured token lifetime.
func (s *TokenService) Duration() time.Duration {
	return s.duration
}
