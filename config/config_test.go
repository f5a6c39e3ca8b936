package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromEnvDefaults(t *testing.T) {
	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadFromEnvOverrides(t *testing.T) {
	t.Setenv("MOTIONX_RESIZE_QUIET", "250ms")
	t.Setenv("MOTIONX_SAMPLE_WINDOW", "30")
	t.Setenv("MOTIONX_PRESET_FILE", "/etc/motionx/presets.yaml")
	t.Setenv("MOTIONX_WATCH_PRESETS", "true")
	t.Setenv("MOTIONX_FORCE_REDUCED_MOTION", "true")
	t.Setenv("MOTIONX_LOG_LEVEL", "debug")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	assert.Equal(t, 250*time.Millisecond, cfg.ResizeQuiet)
	assert.Equal(t, 30, cfg.SampleWindow)
	assert.Equal(t, "/etc/motionx/presets.yaml", cfg.PresetFile)
	assert.True(t, cfg.WatchPresets)
	assert.True(t, cfg.ForceReducedMotion)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 100*time.Millisecond, cfg.PointerQuiet)
}

func TestLoadFromEnvParseError(t *testing.T) {
	t.Setenv("MOTIONX_TICK_RATE", "fast")
	_, err := LoadFromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse env:")
}

func TestValidate(t *testing.T) {
	require.NoError(t, Default().Validate())

	cfg := Default()
	cfg.ResizeQuiet = 0
	cfg.SampleWindow = -1
	cfg.WatchPresets = true
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MOTIONX_RESIZE_QUIET")
	assert.Contains(t, err.Error(), "MOTIONX_SAMPLE_WINDOW")
	assert.Contains(t, err.Error(), "MOTIONX_PRESET_FILE")
}
