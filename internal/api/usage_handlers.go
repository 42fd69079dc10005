package api

import (
	"net/http"
	"time"

	"github.com/mohamedhussein2626/backend-part/internal/auth"
	"github.com/mohamedhussein2626/backend-part/internal/models"
)

type statsResponse struct {
	Success bool `json:"success"`
	Stats   any  `json:"stats"`
}

type usersResponse struct {
	Success bool                 `json:"success"`
	Users   []models.UserSummary `json:"users"`
	Total   int                  `json:"total"`
	Active  int                  `json:"active"`
}

// UserUsage returns the caller's own aggregate. A failing store degrades
// to zero counts.
func (api *Api) UserUsage(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.UserFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errUnauthorized)
		return
	}

	stats, err := api.deps.Stats.UserStats(r.Context(), claims.ID)
	if err != nil {
		api.log.Warn(r.Context(), "user stats unavailable", "user_id", claims.ID, "error", err)
		stats = models.UsageStats{}
	}
	if stats.ByTool == nil {
		stats.ByTool = []models.ToolCount{}
	}
	writeJSON(w, http.StatusOK, statsResponse{Success: true, Stats: stats})
}

// AllUsage returns the global aggregate to any signed-in caller.
func (api *Api) AllUsage(w http.ResponseWriter, r *http.Request) {
	if !anyIdentity(r) {
		writeJSON(w, http.StatusUnauthorized, errUnauthorized)
		return
	}

	stats, err := api.deps.Stats.GlobalStats(r.Context())
	if err != nil {
		api.log.Warn(r.Context(), "global stats unavailable", "error", err)
		stats = models.GlobalUsageStats{}
	}
	if stats.ByTool == nil {
		stats.ByTool = []models.ToolCount{}
	}
	writeJSON(w, http.StatusOK, statsResponse{Success: true, Stats: stats})
}

func (api *Api) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := api.deps.Stats.UserSummaries(r.Context(), time.Now().Add(-models.ActiveWindow))
	if err != nil {
		api.log.Error(r.Context(), "listing users failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, failure{Message: "Failed to fetch users"})
		return
	}

	active := 0
	for _, u := range users {
		if u.Status == models.UserStatusActive {
			active++
		}
	}
	if users == nil {
		users = []models.UserSummary{}
	}
	writeJSON(w, http.StatusOK, usersResponse{Success: true, Users: users, Total: len(users), Active: active})
}
