package server

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
	path := filepath.Join(t.TempDir(), "tenpin.hcl")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadServerConfig(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `
server {
  address   = "0.0.0.0"
  port      = 9090
  log_level = "debug"
}

sessions {
  idle_timeout = "10m"
  max_sessions = 50
}
`)

	cfg, err := LoadServerConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:9090", cfg.ListenAddr())
	assert.Equal(t, "debug", cfg.Server.LogLevel)
	assert.Equal(t, 50, cfg.Sessions.MaxSessions)

	timeout, err := cfg.IdleTimeout()
	require.NoError(t, err)
	assert.Equal(t, 10*time.Minute, timeout)
}

func TestLoadServerConfigDefaults(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `
server {}
`)

	cfg, err := LoadServerConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "localhost:8080", cfg.ListenAddr())
	assert.Equal(t, "info", cfg.Server.LogLevel)
	assert.Equal(t, 1000, cfg.Sessions.MaxSessions)
}

func TestLoadServerConfigMissingFile(t *testing.T) {
	t.Parallel()

	cfg, err := LoadServerConfig(filepath.Join(t.TempDir(), "absent.hcl"))
	require.NoError(t, err)
	assert.Equal(t, DefaultServerConfig(), cfg)
}

func TestLoadServerConfigBadTimeout(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `
server {}

sessions {
  idle_timeout = "soon"
}
`)

	_, err := LoadServerConfig(path)
	require.ErrorContains(t, err, "invalid idle_timeout")
}

func TestLoadServerConfigParseError(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `server {`)

	_, err := LoadServerConfig(path)
	require.ErrorContains(t, err, "failed to parse")
}
