package store

import (
	"context"
	"fmt"
	"time"

	"github.com/mohamedhussein2626/backend-part/internal/models"
)

// UsageStore appends usage events and computes aggregates over them.
type UsageStore struct {
	s *Store
}

// Record appends one usage event.
func (u *UsageStore) Record(ctx context.Context, ev models.ToolUsage) error {
	_, err := u.s.exec(ctx,
		"INSERT INTO tool_usage (id, user_id, tool_name, tool_type, endpoint, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		ev.ID, ev.UserID, ev.ToolName, string(ev.ToolType), ev.Endpoint, ev.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert tool_usage: %w", err)
	}
	return nil
}

// UserStats aggregates the usage of one user, most used tool first.
func (u *UsageStore) UserStats(ctx context.Context, userID string) (models.UsageStats, error) {
	byTool, err := u.countByTool(ctx,
		"SELECT tool_name, COUNT(*) AS cnt FROM tool_usage WHERE user_id = ? GROUP BY tool_name ORDER BY cnt DESC, tool_name ASC",
		userID)
	if err != nil {
		return models.UsageStats{ByTool: []models.ToolCount{}}, err
	}
	return models.UsageStats{TotalUsage: sum(byTool), ByTool: byTool}, nil
}

// GlobalStats aggregates usage across every user.
func (u *UsageStore) GlobalStats(ctx context.Context) (models.GlobalUsageStats, error) {
	empty := models.GlobalUsageStats{ByTool: []models.ToolCount{}}

	byTool, err := u.countByTool(ctx,
		"SELECT tool_name, COUNT(*) AS cnt FROM tool_usage GROUP BY tool_name ORDER BY cnt DESC, tool_name ASC")
	if err != nil {
		return empty, err
	}

	var totalUsers, activeUsers int
	if err := u.scalar(ctx, "SELECT COUNT(*) FROM users", &totalUsers); err != nil {
		return empty, err
	}
	if err := u.scalar(ctx, "SELECT COUNT(DISTINCT user_id) FROM tool_usage", &activeUsers); err != nil {
		return empty, err
	}

	return models.GlobalUsageStats{
		TotalUsage:  sum(byTool),
		TotalUsers:  totalUsers,
		ActiveUsers: activeUsers,
		ByTool:      byTool,
	}, nil
}

// UserSummaries lists users newest first with their total usage and the
// number of uses at or after since.
func (u *UsageStore) UserSummaries(ctx context.Context, since time.Time) ([]models.UserSummary, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	rows, err := u.s.db.QueryContext(ctx, u.s.rebind(`
		SELECT u.id, u.name, u.email, u.created_at,
		       COUNT(t.id) AS total_uses,
		       COALESCE(SUM(CASE WHEN t.created_at >= ? THEN 1 ELSE 0 END), 0) AS recent_uses
		FROM users u
		LEFT JOIN tool_usage t ON t.user_id = u.id
		GROUP BY u.id, u.name, u.email, u.created_at
		ORDER BY u.created_at DESC`), since.UTC())
	if err != nil {
		return nil, fmt.Errorf("select user summaries: %w", err)
	}
	defer rows.Close()

	summaries := []models.UserSummary{}
	for rows.Next() {
		var s models.UserSummary
		if err := rows.Scan(&s.ID, &s.Name, &s.Email, &s.CreatedAt, &s.TotalUses, &s.RecentUses); err != nil {
			return nil, fmt.Errorf("scan user summary: %w", err)
		}
		s.Classify()
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}

func (u *UsageStore) countByTool(ctx context.Context, query string, args ...any) ([]models.ToolCount, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	rows, err := u.s.db.QueryContext(ctx, u.s.rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("count by tool: %w", err)
	}
	defer rows.Close()

	counts := []models.ToolCount{}
	for rows.Next() {
		var c models.ToolCount
		if err := rows.Scan(&c.ToolName, &c.Count); err != nil {
			return nil, fmt.Errorf("scan tool count: %w", err)
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

func (u *UsageStore) scalar(ctx context.Context, query string, dst *int) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	if err := u.s.db.QueryRowContext(ctx, u.s.rebind(query)).Scan(dst); err != nil {
		return fmt.Errorf("%s: %w", query, err)
	}
	return nil
}

func sum(counts []models.ToolCount) int {
	total := 0
	for _, c := range counts {
		total += c.Count
	}
	return total
}
