package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg, err := Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, 0.15, cfg.MinZoom)
	assert.Equal(t, 1.5, cfg.MaxZoom)
	assert.Equal(t, 0.1, cfg.ZoomStep)
	assert.Equal(t, 30, cfg.FPS)
	assert.Equal(t, 50, cfg.ChunkSize)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.ReadOnly)
}

func TestExplicitConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("fps: 12\nzoom:\n  max: 2.5\n"), 0o644))

	cfg, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, 12, cfg.FPS)
	assert.Equal(t, 2.5, cfg.MaxZoom)
	assert.Equal(t, 0.15, cfg.MinZoom) // untouched defaults survive
}

func TestExplicitConfigFileMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), nil)
	assert.Error(t, err)
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("GRAPHPAD_ZOOM_MAX", "2.0")
	t.Setenv("GRAPHPAD_READONLY", "true")

	cfg, err := Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, 2.0, cfg.MaxZoom)
	assert.True(t, cfg.ReadOnly)
}

func TestFlagsWinOverEnv(t *testing.T) {
	t.Setenv("GRAPHPAD_FPS", "15")

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.Int("fps", 30, "")
	require.NoError(t, fs.Parse([]string{"--fps", "60"}))

	cfg, err := Load("", fs)
	require.NoError(t, err)
	assert.Equal(t, 60, cfg.FPS)
}

func TestValidation(t *testing.T) {
	t.Setenv("GRAPHPAD_ZOOM_MIN", "3.0") // above max
	_, err := Load("", nil)
	assert.Error(t, err)
}

func TestValidationFPS(t *testing.T) {
	t.Setenv("GRAPHPAD_FPS", "0")
	_, err := Load("", nil)
	assert.Error(t, err)
}
