// Package store holds the SQL repositories for accounts and usage events.
package store

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("already exists")
)

// queryTimeout bounds every single statement.
const queryTimeout = 5 * time.Second

// Store handles all database operations
type Store struct {
	db       *sql.DB
	postgres bool
}

// New creates a new store instance. dbType selects the placeholder style.
func New(db *sql.DB, dbType string) *Store {
	return &Store{db: db, postgres: dbType == "postgres"}
}

// Users returns the repository for regular accounts.
func (s *Store) Users() *AccountStore {
	return &AccountStore{s: s, table: "users"}
}

// Admins returns the repository for admin accounts.
func (s *Store) Admins() *AccountStore {
	return &AccountStore{s: s, table: "admins"}
}

// Usage returns the tool usage repository.
func (s *Store) Usage() *UsageStore {
	return &UsageStore{s: s}
}

// rebind rewrites ? placeholders to $n for PostgreSQL.
func (s *Store) rebind(query string) string {
	if !s.postgres {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (s *Store) exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	return s.db.ExecContext(ctx, s.rebind(query), args...)
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return false
}
