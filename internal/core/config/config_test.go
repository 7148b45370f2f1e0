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
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_DefaultsWhenMissing(t *testing.T) {
	dataDir := t.TempDir()

	cfg, err := Load(filepath.Join(dataDir, "nope.yaml"), dataDir)
	require.NoError(t, err)

	assert.Equal(t, DefaultConfig().Overlay, cfg.Overlay)
	assert.Equal(t, dataDir, cfg.DataDir)
	assert.True(t, cfg.History.IsEnabled())
}

func TestLoad_ParsesYAML(t *testing.T) {
	path := writeConfig(t, `
overlay:
  default_duration: 8s
  max_toasts: 3
  dismiss_animation: 150ms
  tick_interval: 50ms
  width: 40
history:
  enabled: false
`)

	cfg, err := Load(path, t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, 8*time.Second, cfg.Overlay.DefaultDuration.Std())
	assert.Equal(t, 3, cfg.Overlay.MaxToasts)
	assert.Equal(t, 150*time.Millisecond, cfg.Overlay.DismissAnimation.Std())
	assert.Equal(t, 50*time.Millisecond, cfg.Overlay.TickInterval.Std())
	assert.Equal(t, 40, cfg.Overlay.Width)
	assert.False(t, cfg.History.IsEnabled())
}

func TestLoad_AppliesDefaultsForZeroValues(t *testing.T) {
	path := writeConfig(t, `
overlay:
  max_toasts: 2
`)

	cfg, err := Load(path, t.TempDir())
	require.NoError(t, err)

	defaults := DefaultConfig()
	assert.Equal(t, 2, cfg.Overlay.MaxToasts)
	assert.Equal(t, defaults.Overlay.DefaultDuration, cfg.Overlay.DefaultDuration)
	assert.Equal(t, defaults.Overlay.Width, cfg.Overlay.Width)
	assert.Equal(t, defaults.History.BusyTimeout, cfg.History.BusyTimeout)
}

func TestLoad_InvalidDuration(t *testing.T) {
	path := writeConfig(t, `
overlay:
  default_duration: soon
`)

	_, err := Load(path, t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config file")
	assert.Contains(t, err.Error(), "invalid duration")
}

func TestLoad_RejectsNegativeDuration(t *testing.T) {
	path := writeConfig(t, `
overlay:
  dismiss_animation: -1s
`)

	_, err := Load(path, t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be >= 0")
}

func TestDuration_MarshalYAML(t *testing.T) {
	v, err := Duration(1500 * time.Millisecond).MarshalYAML()
	require.NoError(t, err)
	assert.Equal(t, "1.5s", v)
}
