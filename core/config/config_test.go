package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLoadConfig_Defaults tests that struct tag defaults are applied.
func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "mysql", cfg.Database.Driver)
	assert.Equal(t, 10*time.Minute, cfg.Indexer.Interval)
	assert.Equal(t, time.Hour, cfg.Indexer.LockTTL)
	assert.Equal(t, 4, cfg.Indexer.Workers)
	assert.Equal(t, 500, cfg.Indexer.BatchSize)
	assert.True(t, cfg.Indexer.RunOnStart)
	assert.False(t, cfg.Indexer.ContinueOnUpdateError)
	assert.Equal(t, "reports/textsearch", cfg.Indexer.ReportPrefix)
}

// TestLoadConfig_EnvOverrides tests that .env values and environment variables win over defaults.
func TestLoadConfig_EnvOverrides(t *testing.T) {
	dir := t.TempDir()
	env := "INDEXER_INTERVAL=90s\nINDEXER_LOCK_BACKEND=database\nINDEXER_UPDATE_RATE=2.5\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(env), 0o600))
	t.Cleanup(func() {
		os.Unsetenv("INDEXER_INTERVAL")
		os.Unsetenv("INDEXER_LOCK_BACKEND")
		os.Unsetenv("INDEXER_UPDATE_RATE")
	})
	t.Setenv("INDEXER_WORKERS", "8")

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, 90*time.Second, cfg.Indexer.Interval)
	assert.Equal(t, "database", cfg.Indexer.LockBackend)
	assert.Equal(t, 2.5, cfg.Indexer.UpdateRate)
	assert.Equal(t, 8, cfg.Indexer.Workers)
}
