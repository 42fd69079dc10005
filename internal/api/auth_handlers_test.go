package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mohamedhussein2626/backend-part/internal/auth"
)

func findCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestUserRegisterAndLogin(t *testing.T) {
	env := newTestEnv(t)
	creds := map[string]string{"name": "Ada", "email": "ada@example.com", "password": "s3cret"}

	rec := env.do(jsonRequest(t, "/api/user/register", creds))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decode(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "User registered successfully", body["message"])
	user := body["user"].(map[string]any)
	assert.Equal(t, "ada@example.com", user["email"])
	assert.NotContains(t, user, "password")
	assert.NotEmpty(t, body["token"])

	c := findCookie(rec, auth.UserCookie)
	require.NotNil(t, c)
	assert.True(t, c.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, c.SameSite)
	assert.False(t, c.Secure)

	rec = env.do(jsonRequest(t, "/api/user/register", creds))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "User with this email already exists", decode(t, rec)["message"])

	rec = env.do(jsonRequest(t, "/api/user/login", map[string]string{"email": "ada@example.com", "password": "s3cret"}))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Login successful", decode(t, rec)["message"])
	assert.NotNil(t, findCookie(rec, auth.UserCookie))

	rec = env.do(jsonRequest(t, "/api/user/login", map[string]string{"email": "ada@example.com", "password": "wrong"}))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid email or password", decode(t, rec)["message"])
}

func TestAdminRegisterAndLogin(t *testing.T) {
	env := newTestEnv(t)
	creds := map[string]string{"name": "Root", "email": "root@example.com", "password": "pw"}

	rec := env.do(jsonRequest(t, "/api/admin/register", creds))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decode(t, rec)
	assert.Equal(t, "Admin registered successfully", body["message"])
	assert.Equal(t, "admin", body["admin"].(map[string]any)["role"])
	assert.NotContains(t, body, "user")
	assert.NotNil(t, findCookie(rec, auth.AdminCookie))

	rec = env.do(jsonRequest(t, "/api/admin/register", creds))
	assert.Equal(t, "Admin with this email already exists", decode(t, rec)["message"])

	rec = env.do(jsonRequest(t, "/api/admin/login", map[string]string{"email": "root@example.com", "password": "pw"}))
	assert.Equal(t, "Admin login successful", decode(t, rec)["message"])

	// admins cannot sign in as users
	rec = env.do(jsonRequest(t, "/api/user/login", map[string]string{"email": "root@example.com", "password": "pw"}))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthValidation(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		path string
		body any
		want string
	}{
		{"/api/user/register", map[string]string{"email": "a@b.c", "password": "x"}, "Name, email, and password are required"},
		{"/api/admin/register", map[string]string{"name": "n", "email": "a@b.c"}, "Name, email, and password are required"},
		{"/api/user/login", map[string]string{"email": "a@b.c"}, "Email and password are required"},
	}
	for _, tt := range tests {
		rec := env.do(jsonRequest(t, tt.path, tt.body))
		assert.Equal(t, http.StatusBadRequest, rec.Code, tt.path)
		assert.Equal(t, tt.want, decode(t, rec)["message"], tt.path)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/user/login", strings.NewReader("{"))
	rec := env.do(req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid request body", decode(t, rec)["message"])
}

func TestSecureCookieInProduction(t *testing.T) {
	env := newTestEnv(t)
	env.api.Config.Environment = "production"

	rec := env.do(jsonRequest(t, "/api/user/register", map[string]string{"name": "A", "email": "a@example.com", "password": "pw"}))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, findCookie(rec, auth.UserCookie).Secure)
}
