package auth

import (
	"net/http"
	"time"

	"github.com/mohamedhussein2626/backend-part/internal/models"
)

const (
	UserCookie  = "auth-token"
	AdminCookie = "admin-auth-token"
)

// CookieName returns the session cookie used for role.
func CookieName(role models.Role) string {
	if role == models.RoleAdmin {
		return AdminCookie
	}
	return UserCookie
}

// SessionCookie builds the HttpOnly cookie that carries token.
func SessionCookie(name, token string, ttl time.Duration, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl / time.Second),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}
