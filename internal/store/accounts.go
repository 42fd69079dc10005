package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mohamedhussein2626/backend-part/internal/models"
)

// AccountStore reads and writes one account table (users or admins).
type AccountStore struct {
	s     *Store
	table string
}

// Create inserts acc. A taken email yields ErrDuplicate.
func (a *AccountStore) Create(ctx context.Context, acc *models.Account) error {
	query := fmt.Sprintf(
		"INSERT INTO %s (id, name, email, password, role, created_at) VALUES (?, ?, ?, ?, ?, ?)", a.table)

	_, err := a.s.exec(ctx, query, acc.ID, acc.Name, acc.Email, acc.Password, string(acc.Role), acc.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("insert into %s: %w", a.table, err)
	}
	return nil
}

// GetByEmail returns the account registered under email or ErrNotFound.
func (a *AccountStore) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := fmt.Sprintf("SELECT id, name, email, password, role, created_at FROM %s WHERE email = ?", a.table)

	acc := &models.Account{}
	var role string
	err := a.s.db.QueryRowContext(ctx, a.s.rebind(query), email).Scan(
		&acc.ID, &acc.Name, &acc.Email, &acc.Password, &role, &acc.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select from %s: %w", a.table, err)
	}
	acc.Role = models.Role(role)
	return acc, nil
}
