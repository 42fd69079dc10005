package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"path"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/sqlite/*.sql migrations/postgres/*.sql
var migrationFS embed.FS

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// gooseDialect maps the configured database type to goose's dialect name.
func gooseDialect(dbType string) (string, error) {
	switch dbType {
	case TypeSQLite:
		return "sqlite3", nil
	case TypePostgres:
		return "postgres", nil
	default:
		return "", fmt.Errorf("unsupported database type: %s", dbType)
	}
}

// RunMigrations applies the embedded migrations for dbType.
func RunMigrations(ctx context.Context, db *sql.DB, dbType string) error {
	dialect, err := gooseDialect(dbType)
	if err != nil {
		return err
	}

	goose.SetBaseFS(migrationFS)
	if err := goose.SetDialect(dialect); err != nil {
		return err
	}
	goose.SetLogger(goose.NopLogger())

	if err := gooseUpContext(ctx, db, path.Join("migrations", dbType)); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}
