// File: internal/config/config_test.go
package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Equal(t, "console", cfg.Logger.Format)
	assert.Equal(t, "pagelens", cfg.Logger.ServiceName)

	assert.Equal(t, "http://127.0.0.1:9222", cfg.Channel.DevToolsURL)
	assert.Equal(t, "robust", cfg.Channel.Strategy)
	assert.Equal(t, 15*time.Second, cfg.Channel.OutlineTimeout)
	assert.Equal(t, 20*time.Second, cfg.Channel.DomLiteTimeout)

	assert.Equal(t, "outline", cfg.Snapshot.Mode)
	assert.False(t, cfg.Snapshot.VisibleOnly)
	assert.Equal(t, 10, cfg.Snapshot.MaxDepth)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
logger:
  level: debug
channel:
  strategy: legacy
  outline_timeout: 5s
snapshot:
  mode: dom-lite
  max_depth: 3
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Logger.Level)
	assert.Equal(t, "legacy", cfg.Channel.Strategy)
	assert.Equal(t, 5*time.Second, cfg.Channel.OutlineTimeout)
	// Untouched keys keep their defaults.
	assert.Equal(t, 20*time.Second, cfg.Channel.DomLiteTimeout)
	assert.Equal(t, "dom-lite", cfg.Snapshot.Mode)
	assert.Equal(t, 3, cfg.Snapshot.MaxDepth)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("PAGELENS_CHANNEL_STRATEGY", "legacy")
	t.Setenv("PAGELENS_SNAPSHOT_MODE", "dom-lite")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "legacy", cfg.Channel.Strategy)
	assert.Equal(t, "dom-lite", cfg.Snapshot.Mode)
}

func TestValidateRejectsBadValues(t *testing.T) {
	base := func() *Config {
		cfg, err := Load("")
		require.NoError(t, err)
		return cfg
	}

	cfg := base()
	cfg.Channel.Strategy = "yolo"
	assert.ErrorContains(t, cfg.Validate(), "channel.strategy")

	cfg = base()
	cfg.Snapshot.Mode = "everything"
	assert.ErrorContains(t, cfg.Validate(), "snapshot.mode")

	cfg = base()
	cfg.Channel.OutlineTimeout = 0
	assert.ErrorContains(t, cfg.Validate(), "timeouts")

	cfg = base()
	cfg.Snapshot.MaxDepth = -1
	assert.ErrorContains(t, cfg.Validate(), "max_depth")
}

func TestLoadRejectsInvalidFileValues(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("channel:\n  strategy: chaotic\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.ErrorContains(t, err, "channel.strategy")
}
