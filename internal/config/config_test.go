package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "aero.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoad_MissingFileGivesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := writeConfig(t, `
server:
  addr: "127.0.0.1:9090"
camera:
  device_id: 2
  active_fps: 30
tray:
  enabled: false
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9090", cfg.Server.Addr)
	assert.Equal(t, 2, cfg.Camera.DeviceID)
	assert.Equal(t, 30, cfg.Camera.ActiveFPS)
	assert.False(t, cfg.Tray.Enabled)

	// Untouched fields fall back to defaults.
	assert.Equal(t, 5, cfg.Camera.IdleFPS)
	assert.Equal(t, 640, cfg.Camera.Width)
	assert.Equal(t, 1000, cfg.Store.EventRetention)
	assert.InDelta(t, 0.5, cfg.Detector.MinConfidence, 1e-9)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"malformed yaml", "server: [addr"},
		{"zero fps", "camera:\n  idle_fps: 0\n"},
		{"negative retention", "store:\n  event_retention: -1\n"},
		{"threshold out of range", "motion:\n  threshold: 150\n"},
		{"confidence out of range", "detector:\n  min_confidence: 1.5\n"},
		{"empty addr", "server:\n  addr: \"\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}
}

func TestDefault_Validates(t *testing.T) {
	assert.NoError(t, Default().Validate())
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	assert.Equal(t, filepath.Join(home, ".aero", "aero.db"), ExpandHome("~/.aero/aero.db"))
	assert.Equal(t, home, ExpandHome("~"))
	assert.Equal(t, "/tmp/aero.db", ExpandHome("/tmp/aero.db"))
	assert.Equal(t, "~user/x", ExpandHome("~user/x"))
}

func TestApplyEnv(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("AERO_ADDR=:7000\nAERO_PLUGIN_DIR=/opt/aero/plugins\nAERO_TRAY=false\n"), 0644))
	t.Setenv(EnvAddr, ":9999")
	t.Setenv(EnvCamera, "3")

	cfg := Default()
	require.NoError(t, cfg.ApplyEnv(envFile))

	// The process environment wins over the file.
	assert.Equal(t, ":9999", cfg.Server.Addr)
	assert.Equal(t, 3, cfg.Camera.DeviceID)
	assert.Equal(t, "/opt/aero/plugins", cfg.Plugins.Dir)
	assert.False(t, cfg.Tray.Enabled)
	assert.Equal(t, Default().Store.Path, cfg.Store.Path)
}

func TestApplyEnv_MissingFile(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.ApplyEnv(filepath.Join(t.TempDir(), "missing.env")))
	assert.Equal(t, Default(), cfg)
}

func TestApplyEnv_Invalid(t *testing.T) {
	t.Setenv(EnvCamera, "front")
	assert.Error(t, Default().ApplyEnv(""))
}
