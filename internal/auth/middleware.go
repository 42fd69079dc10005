package auth

import (
	"context"
	"net/http"

	"github.com/mohamedhussein2626/backend-part/internal/models"
)

type contextKey string

// Identity verifies the token in the named cookie and stores its claims in
// the request context. A missing or invalid token leaves the request
// anonymous; it is never rejected here.
func Identity(tokenManager *TokenManager, cookieName string) func(http.Handler) http.Handler {
	key := contextKey(cookieName)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			c, err := r.Cookie(cookieName)
			if err != nil || c.Value == "" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := tokenManager.ValidateToken(c.Value)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), key, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// WithIdentity returns a copy of ctx carrying claims under cookieName.
func WithIdentity(ctx context.Context, cookieName string, claims *Claims) context.Context {
	return context.WithValue(ctx, contextKey(cookieName), claims)
}

// UserFromContext returns the identity derived from the user session cookie.
func UserFromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(contextKey(UserCookie)).(*Claims)
	return claims, ok && claims != nil
}

// UserID is the caller's id, or "" for anonymous requests.
func UserID(ctx context.Context) string {
	if claims, ok := UserFromContext(ctx); ok {
		return claims.ID
	}
	return ""
}

// AdminFromContext returns the admin session identity. Tokens without the
// admin role are ignored.
func AdminFromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(contextKey(AdminCookie)).(*Claims)
	if !ok || claims == nil || claims.Role != models.RoleAdmin {
		return nil, false
	}
	return claims, true
}
