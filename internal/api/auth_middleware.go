package api

import (
	"net/http"

	"github.com/mohamedhussein2626/backend-part/internal/auth"
)

var errUnauthorized = failure{Message: "Unauthorized"}

// RequireAdmin rejects requests without an admin session.
func (api *Api) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := auth.AdminFromContext(r.Context()); !ok {
			writeJSON(w, http.StatusUnauthorized, errUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// anyIdentity reports whether the request carries a user or an admin
// session.
func anyIdentity(r *http.Request) bool {
	if _, ok := auth.UserFromContext(r.Context()); ok {
		return true
	}
	_, ok := auth.AdminFromContext(r.Context())
	return ok
}
