package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mohamedhussein2626/backend-part/internal/config"
	"github.com/mohamedhussein2626/backend-part/internal/logging"
	"github.com/mohamedhussein2626/backend-part/internal/ocr"
	"github.com/mohamedhussein2626/backend-part/internal/storage"
)

type stubEngine struct{}

func (stubEngine) SetImageFromBytes([]byte) error { return nil }
func (stubEngine) Text() (string, error)          { return "", nil }
func (stubEngine) Close() error                   { return nil }

func stubOCR(t *testing.T) {
	t.Helper()
	original := newOCRPool
	newOCRPool = func(_ []string, size int) (*ocr.Pool, error) {
		return ocr.NewPool(size, func() (ocr.Engine, error) { return stubEngine{}, nil })
	}
	t.Cleanup(func() { newOCRPool = original })
}

func writeConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "app.yml")
	body := "apiPort: 8080\n" +
		"tempDir: " + filepath.Join(dir, "temp") + "\n" +
		"database:\n  type: sqlite\n  path: " + filepath.Join(dir, "toolur.db") + "\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestInitializeAPI(t *testing.T) {
	stubOCR(t)

	cfg, err := configInit(writeConfig(t))
	require.NoError(t, err)

	a, cleanup, err := initializeAPI(context.Background(), cfg, logging.Nop())
	require.NoError(t, err)
	defer cleanup()
	assert.Equal(t, 8080, a.Config.APIPort)
	assert.DirExists(t, cfg.TempDir)

	rec := httptest.NewRecorder()
	a.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestInitializeAPI_Errors(t *testing.T) {
	stubOCR(t)

	t.Run("OCR", func(t *testing.T) {
		cfg, err := configInit(writeConfig(t))
		require.NoError(t, err)

		newOCRPool = func([]string, int) (*ocr.Pool, error) { return nil, assert.AnError }
		a, cleanup, err := initializeAPI(context.Background(), cfg, logging.Nop())
		assert.ErrorIs(t, err, assert.AnError)
		assert.Nil(t, a)
		assert.Nil(t, cleanup)
	})

	t.Run("Storage", func(t *testing.T) {
		stubOCR(t)
		original := newArchiver
		defer func() { newArchiver = original }()
		newArchiver = func(context.Context, storage.Options) (*storage.S3Client, error) { return nil, assert.AnError }

		cfg, err := configInit(writeConfig(t))
		require.NoError(t, err)
		cfg.Storage.Enabled = true
		cfg.Storage.Bucket = "outputs"

		_, _, err = initializeAPI(context.Background(), cfg, logging.Nop())
		assert.ErrorIs(t, err, assert.AnError)
	})

	t.Run("Database", func(t *testing.T) {
		cfg := &config.Config{APIPort: 8080, TempDir: t.TempDir()}
		cfg.Database.Type = "mysql"
		_, _, err := initializeAPI(context.Background(), cfg, logging.Nop())
		assert.Error(t, err)
	})
}
