package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "./data", cfg.Storage.DataDir)
	assert.Equal(t, time.Second, cfg.Playtime.TickInterval)
	assert.True(t, cfg.RateLimit.Enabled)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DATA_DIR", "/var/lib/playerdata")
	t.Setenv("PLAYTIME_TICK", "5s")
	t.Setenv("OPERATORS", "a8f6e3c1-2b4d-4e5f-8a9b-0c1d2e3f4a5b")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "/var/lib/playerdata", cfg.Storage.DataDir)
	assert.Equal(t, 5*time.Second, cfg.Playtime.TickInterval)
	assert.Equal(t, []string{"a8f6e3c1-2b4d-4e5f-8a9b-0c1d2e3f4a5b"}, cfg.Auth.Operators)
}

func TestFromFileOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[server]
port = "7000"

[storage]
data_dir = "/srv/game"

[ratelimit]
enabled = false
`), 0o644))

	cfg, err := FromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "7000", cfg.Server.Port)
	assert.Equal(t, "/srv/game", cfg.Storage.DataDir)
	assert.False(t, cfg.RateLimit.Enabled)

	// Fields absent from the file keep their defaults.
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, time.Second, cfg.Playtime.TickInterval)
	assert.Equal(t, 100, cfg.RateLimit.RequestsPerSecond)
}

func TestFromFileMissing(t *testing.T) {
	_, err := FromFile(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestFromFileMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`[server`), 0o644))

	_, err := FromFile(path)
	assert.Error(t, err)
}
