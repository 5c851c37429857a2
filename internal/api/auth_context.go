package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/quillpress/quillpress-server/internal/domain"
	"github.com/quillpress/quillpress-server/internal/service"
)

// ctxKey is the type for context keys to avoid collisions.
type ctxKey string

// userKey is the context key for the authenticated user.
const userKey ctxKey = "user"

// CurrentUser returns the authenticated user from ctx, or nil.
func CurrentUser(ctx context.Context) *domain.User {
	u, _ := ctx.Value(userKey).(*domain.User)
	return u
}

func setUser(ctx context.Context, u *domain.User) context.Context {
	return context.WithValue(ctx, userKey, u)
}

// actorFrom returns the actor for authorization decisions; nil is anonymous.
func actorFrom(ctx context.Context) *domain.Actor {
	if u := CurrentUser(ctx); u != nil {
		return u.Actor()
	}
	return nil
}

// requireActor fails with Unauthorized for anonymous requests.
func requireActor(ctx context.Context) (*domain.Actor, error) {
	actor := actorFrom(ctx)
	if err := domain.Authorize(actor, "", domain.AccessAuthenticated); err != nil {
		return nil, err
	}
	return actor, nil
}

// authMiddleware verifies Bearer tokens and stores the user in the context.
// A missing or invalid token continues anonymously; operations that need a
// user reject the request through domain.Authorize.
func authMiddleware(auth *service.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || token == "" {
				next.ServeHTTP(w, r)
				return
			}

			user := auth.VerifyToken(r.Context(), strings.TrimSpace(token))
			if user == nil {
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(setUser(r.Context(), user)))
		})
	}
}
