package database

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/mohamedhussein2626/backend-part/internal/config"
	"github.com/mohamedhussein2626/backend-part/internal/logging"
)

// DatabaseTestSuite runs against a throwaway SQLite file per test.
type DatabaseTestSuite struct {
	suite.Suite
	db *sql.DB
}

func (s *DatabaseTestSuite) SetupTest() {
	cfg := &config.Config{}
	cfg.Database.Type = TypeSQLite
	cfg.Database.Path = filepath.Join(s.T().TempDir(), "toolur_test.db")

	db, err := Open(context.Background(), cfg, logging.Nop())
	require.NoError(s.T(), err, "Database initialization should succeed")
	s.db = db
}

func (s *DatabaseTestSuite) TearDownTest() {
	if s.db != nil {
		s.db.Close()
	}
}

func TestDatabaseTestSuite(t *testing.T) {
	suite.Run(t, new(DatabaseTestSuite))
}

func (s *DatabaseTestSuite) TestTablesExist() {
	for _, table := range []string{"users", "admins", "tool_usage"} {
		var name string
		err := s.db.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&name)
		assert.NoError(s.T(), err, table)
		assert.Equal(s.T(), table, name)
	}
}

func (s *DatabaseTestSuite) TestMigrationsAreIdempotent() {
	err := RunMigrations(context.Background(), s.db, TypeSQLite)
	assert.NoError(s.T(), err)
}

func (s *DatabaseTestSuite) TestUsageRequiresExistingUser() {
	_, err := s.db.Exec(`INSERT INTO tool_usage (id, user_id, tool_name, tool_type, endpoint) VALUES ('u1', 'ghost', 'Crop Image', 'image', '/api/image/crop')`)
	assert.Error(s.T(), err, "foreign key on tool_usage.user_id must be enforced")
}

func TestOpenRejectsUnknownType(t *testing.T) {
	cfg := &config.Config{}
	cfg.Database.Type = "mysql"

	_, err := Open(context.Background(), cfg, logging.Nop())
	assert.Error(t, err)
}

func TestRunMigrationsUsesDialectDirectory(t *testing.T) {
	orig := gooseUpContext
	defer func() { gooseUpContext = orig }()

	var gotDir string
	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		gotDir = dir
		return errors.New("stop")
	}

	err := RunMigrations(context.Background(), nil, TypePostgres)
	require.Error(t, err)
	assert.Equal(t, "migrations/postgres", gotDir)

	err = RunMigrations(context.Background(), nil, "oracle")
	assert.EqualError(t, err, "unsupported database type: oracle")
}
