package api

import (
	"encoding/json"
	"net/http"

	"github.com/mohamedhussein2626/backend-part/internal/apperror"
	"github.com/mohamedhussein2626/backend-part/internal/auth"
	"github.com/mohamedhussein2626/backend-part/internal/models"
)

type sessionResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	User    *models.Account `json:"user,omitempty"`
	Admin   *models.Account `json:"admin,omitempty"`
	Token   string          `json:"token"`
}

func (api *Api) RegisterHandler(accounts Accounts) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req auth.RegisterRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			api.fail(w, r, apperror.InvalidParameters("Invalid request body"))
			return
		}

		sess, err := accounts.Register(r.Context(), req)
		if err != nil {
			api.fail(w, r, err)
			return
		}

		msg := "User registered successfully"
		if accounts.Role() == models.RoleAdmin {
			msg = "Admin registered successfully"
		}
		api.startSession(w, accounts.Role(), sess, msg)
	}
}

func (api *Api) LoginHandler(accounts Accounts) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req auth.LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			api.fail(w, r, apperror.InvalidParameters("Invalid request body"))
			return
		}

		sess, err := accounts.Login(r.Context(), req)
		if err != nil {
			api.fail(w, r, err)
			return
		}

		msg := "Login successful"
		if accounts.Role() == models.RoleAdmin {
			msg = "Admin login successful"
		}
		api.startSession(w, accounts.Role(), sess, msg)
	}
}

// startSession sets the session cookie for role and writes the account.
func (api *Api) startSession(w http.ResponseWriter, role models.Role, sess *auth.Session, msg string) {
	cookie := auth.SessionCookie(auth.CookieName(role), sess.Token, api.deps.Tokens.TTL(), api.Config.IsProduction())
	http.SetCookie(w, cookie)

	resp := sessionResponse{Success: true, Message: msg, Token: sess.Token}
	if role == models.RoleAdmin {
		resp.Admin = sess.Account
	} else {
		resp.User = sess.Account
	}
	writeJSON(w, http.StatusOK, resp)
}
