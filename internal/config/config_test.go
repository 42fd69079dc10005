package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "app.yml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	tests := []struct {
		name        string
		configData  string
		envVars     map[string]string
		expectError bool
		check       func(t *testing.T, cfg *Config)
	}{
		{
			name: "Valid config file",
			configData: `
apiPort: 8080
database:
  type: sqlite
  path: /tmp/toolur.db
allowedOrigins:
  - http://localhost:3001
  - https://toolur.example
`,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 8080, cfg.APIPort)
				assert.Equal(t, "/tmp/toolur.db", cfg.Database.Path)
				assert.Equal(t, []string{"http://localhost:3001", "https://toolur.example"}, cfg.AllowedOrigins)
			},
		},
		{
			name:        "Invalid port type",
			configData:  "apiPort: invalid\n",
			expectError: true,
		},
		{
			name:        "Unsupported database",
			configData:  "database:\n  type: mysql\n",
			expectError: true,
		},
		{
			name:       "Environment variables override",
			configData: "apiPort: 8080\n",
			envVars: map[string]string{
				"APIPORT":       "9090",
				"DATABASE_TYPE": "postgres",
				"AUTH_TOKENTTL": "2h",
			},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 9090, cfg.APIPort)
				assert.Equal(t, "postgres", cfg.Database.Type)
				assert.Equal(t, 2*time.Hour, cfg.Auth.TokenTTL)
			},
		},
		{
			name:        "Production requires a real secret",
			configData:  "environment: production\n",
			expectError: true,
		},
		{
			name:       "Production with secret",
			configData: "environment: production\nauth:\n  jwtSecret: s3cr3t\n",
			check: func(t *testing.T, cfg *Config) {
				assert.True(t, cfg.IsProduction())
			},
		},
		{
			name:        "Storage without bucket",
			configData:  "storage:\n  enabled: true\n",
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, tt.configData)
			for k, v := range tt.envVars {
				t.Setenv(k, v)
			}

			cfg, err := LoadConfig(path)
			if tt.expectError {
				if err == nil {
					t.Error("Expected error but got none")
				}
				return
			}
			require.NoError(t, err)
			if tt.check != nil {
				tt.check(t, cfg)
			}
		})
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yml"))
	require.NoError(t, err)

	assert.Equal(t, 3000, cfg.APIPort)
	assert.Equal(t, "sqlite", cfg.Database.Type)
	assert.Equal(t, []string{"http://localhost:3001"}, cfg.AllowedOrigins)
	assert.Equal(t, 7*24*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, "tool.usage", cfg.AMQP.Queue)
	assert.Equal(t, []string{"eng"}, cfg.OCR.Languages)
	assert.Equal(t, 144.0, cfg.PDF.RenderDPI)
	assert.Equal(t, 95, cfg.PDF.JPEGQuality)
	assert.Equal(t, int64(25<<20), cfg.MaxUploadBytes())
	assert.False(t, cfg.IsProduction())
}

func TestLoadEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("TOOLUR_TEST_VALUE=from-dotenv\n"), 0644))
	t.Setenv("TOOLUR_TEST_VALUE", "")
	os.Unsetenv("TOOLUR_TEST_VALUE")

	require.NoError(t, LoadEnv(path, filepath.Join(dir, "absent.env")))
	assert.Equal(t, "from-dotenv", os.Getenv("TOOLUR_TEST_VALUE"))
}
