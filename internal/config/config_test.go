package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadExpandsEnvAndDefaults(t *testing.T) {
	t.Setenv("MANZIL_API_KEY", "secret-key")

	dbPath := filepath.Join(t.TempDir(), "data", "test.db")
	path := writeConfig(t, `
server:
  api_key: ${MANZIL_API_KEY}
database:
  path: `+dbPath+`
reports:
  cache_ttl_seconds: 120
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "secret-key", cfg.Server.APIKey)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, dbPath, cfg.Database.Path)
	assert.Equal(t, "en", cfg.Reports.DefaultLocale)
	assert.Equal(t, 2*time.Minute, cfg.ReportCacheTTL())

	// Load creates the database directory.
	_, err = os.Stat(filepath.Dir(dbPath))
	assert.NoError(t, err)
}

func TestDurationFallbacks(t *testing.T) {
	var cfg Config
	assert.Equal(t, 5*time.Minute, cfg.ReportCacheTTL())
	assert.Equal(t, 24*time.Hour, cfg.BackupInterval())
	assert.Equal(t, 30*24*time.Hour, cfg.BackupRetention())
	assert.Equal(t, 30*time.Minute, cfg.SheetsSyncInterval())

	limit, burst := cfg.RateLimit()
	assert.Equal(t, float64(10), limit)
	assert.Equal(t, 20, burst)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
