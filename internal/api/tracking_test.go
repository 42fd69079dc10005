package api

import (
	"context"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mohamedhussein2626/backend-part/internal/auth"
	"github.com/mohamedhussein2626/backend-part/internal/config"
	"github.com/mohamedhussein2626/backend-part/internal/database"
	"github.com/mohamedhussein2626/backend-part/internal/logging"
	"github.com/mohamedhussein2626/backend-part/internal/models"
	"github.com/mohamedhussein2626/backend-part/internal/store"
	"github.com/mohamedhussein2626/backend-part/internal/usage"
)

// newStoreEnv wires the handlers to a real sqlite store.
func newStoreEnv(t *testing.T) *testEnv {
	t.Helper()
	dbCfg := &config.Config{}
	dbCfg.Database.Type = "sqlite"
	dbCfg.Database.Path = filepath.Join(t.TempDir(), "api.db")

	db, err := database.Open(context.Background(), dbCfg, logging.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	s := store.New(db, "sqlite")

	return newTestEnv(t, func(_ *config.Config, d *Deps) {
		d.Users = auth.NewService(models.RoleUser, s.Users(), d.Tokens, logging.Nop())
		d.Admins = auth.NewService(models.RoleAdmin, s.Admins(), d.Tokens, logging.Nop())
		d.Stats = s.Usage()
		d.Tracker = usage.NewTracker(s.Usage(), nil, logging.Nop())
	})
}

func resizeCount(t *testing.T, env *testEnv, session *http.Cookie) float64 {
	t.Helper()
	req := get("/api/usage/user")
	req.AddCookie(session)
	rec := env.do(req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	stats := decode(t, rec)["stats"].(map[string]any)
	for _, row := range stats["byTool"].([]any) {
		tc := row.(map[string]any)
		if tc["toolName"] == models.ToolResizeImage.Name {
			return tc["count"].(float64)
		}
	}
	return 0
}

func TestUsageTracking_EndToEnd(t *testing.T) {
	env := newStoreEnv(t)

	rec := env.do(jsonRequest(t, "/api/user/register", map[string]string{"name": "Ada", "email": "ada@example.com", "password": "pw"}))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	session := findCookie(rec, auth.UserCookie)
	require.NotNil(t, session)

	assert.Zero(t, resizeCount(t, env, session))

	req := uploadRequest(t, "/api/image/resize", map[string]string{"width": "10"}, pngImage(t, 20, 20))
	req.AddCookie(session)
	require.Equal(t, http.StatusOK, env.do(req).Code)
	assert.Equal(t, 1.0, resizeCount(t, env, session))

	// anonymous calls leave the counts alone
	require.Equal(t, http.StatusOK, env.do(uploadRequest(t, "/api/image/resize", map[string]string{"width": "10"}, pngImage(t, 20, 20))).Code)
	assert.Equal(t, 1.0, resizeCount(t, env, session))

	// failed conversions are not counted
	req = uploadRequest(t, "/api/image/resize", nil, pngImage(t, 20, 20))
	req.AddCookie(session)
	require.Equal(t, http.StatusBadRequest, env.do(req).Code)
	assert.Equal(t, 1.0, resizeCount(t, env, session))
}

func TestUsageTracking_UnknownUserDoesNotFailRequest(t *testing.T) {
	env := newStoreEnv(t)

	// signed token for an account that was never stored: the insert
	// violates the foreign key, the conversion still succeeds
	req := uploadRequest(t, "/api/image/resize", map[string]string{"width": "10"}, pngImage(t, 20, 20))
	req.AddCookie(env.cookie(t, "ghost", models.RoleUser))
	rec := env.do(req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAdminUsersList_EndToEnd(t *testing.T) {
	env := newStoreEnv(t)

	for _, email := range []string{"a@example.com", "b@example.com"} {
		rec := env.do(jsonRequest(t, "/api/user/register", map[string]string{"name": "N", "email": email, "password": "pw"}))
		require.Equal(t, http.StatusOK, rec.Code)
		if email == "b@example.com" {
			req := uploadRequest(t, "/api/image/crop", map[string]string{"x": "0", "y": "0", "width": "5", "height": "5"}, pngImage(t, 10, 10))
			req.AddCookie(findCookie(rec, auth.UserCookie))
			require.Equal(t, http.StatusOK, env.do(req).Code)
		}
		time.Sleep(10 * time.Millisecond)
	}

	rec := env.do(jsonRequest(t, "/api/admin/register", map[string]string{"name": "Root", "email": "root@example.com", "password": "pw"}))
	require.Equal(t, http.StatusOK, rec.Code)

	req := get("/api/admin/users/all")
	req.AddCookie(findCookie(rec, auth.AdminCookie))
	rec = env.do(req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	body := decode(t, rec)
	assert.EqualValues(t, 2, body["total"])
	assert.EqualValues(t, 1, body["active"])
	first := body["users"].([]any)[0].(map[string]any)
	assert.Equal(t, "b@example.com", first["email"])
	assert.EqualValues(t, 1, first["totalUses"])
	assert.Equal(t, "Active", first["status"])
}
