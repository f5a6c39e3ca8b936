// Package config loads engine settings from the environment.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds the engine's tunables. Zero values are replaced by defaults
// during Parse.
type Config struct {
	ResizeQuiet     time.Duration `env:"MOTIONX_RESIZE_QUIET"       envDefault:"150ms"`
	PointerQuiet    time.Duration `env:"MOTIONX_POINTER_QUIET"      envDefault:"100ms"`
	SwipeClearDelay time.Duration `env:"MOTIONX_SWIPE_CLEAR_DELAY"  envDefault:"300ms"`
	FrameBudget     time.Duration `env:"MOTIONX_FRAME_BUDGET"       envDefault:"33.333ms"`
	SampleWindow    int           `env:"MOTIONX_SAMPLE_WINDOW"      envDefault:"60"`
	TickRate        time.Duration `env:"MOTIONX_TICK_RATE"          envDefault:"16.667ms"`
	MaxPostsPerTick int           `env:"MOTIONX_MAX_POSTS_PER_TICK" envDefault:"1000"`

	// PresetFile is an optional YAML file merged over the built-in presets.
	PresetFile string `env:"MOTIONX_PRESET_FILE"`
	// WatchPresets reloads PresetFile when it changes.
	WatchPresets bool `env:"MOTIONX_WATCH_PRESETS"`
	// ForceReducedMotion closes the gate regardless of host signals.
	ForceReducedMotion bool   `env:"MOTIONX_FORCE_REDUCED_MOTION"`
	LogLevel           string `env:"MOTIONX_LOG_LEVEL" envDefault:"info"`
}

// Default returns the configuration used when no variables are set.
func Default() Config {
	return Config{
		ResizeQuiet:     150 * time.Millisecond,
		PointerQuiet:    100 * time.Millisecond,
		SwipeClearDelay: 300 * time.Millisecond,
		FrameBudget:     33333 * time.Microsecond,
		SampleWindow:    60,
		TickRate:        16667 * time.Microsecond,
		MaxPostsPerTick: 1000,
		LogLevel:        "info",
	}
}

// LoadFromEnv parses the environment and validates the result.
func LoadFromEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects non-positive durations and counts.
func (c Config) Validate() error {
	var errs []error
	durations := []struct {
		name string
		v    time.Duration
	}{
		{"MOTIONX_RESIZE_QUIET", c.ResizeQuiet},
		{"MOTIONX_POINTER_QUIET", c.PointerQuiet},
		{"MOTIONX_SWIPE_CLEAR_DELAY", c.SwipeClearDelay},
		{"MOTIONX_FRAME_BUDGET", c.FrameBudget},
		{"MOTIONX_TICK_RATE", c.TickRate},
	}
	for _, d := range durations {
		if d.v <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive, got %s", d.name, d.v))
		}
	}
	if c.SampleWindow <= 0 {
		errs = append(errs, fmt.Errorf("MOTIONX_SAMPLE_WINDOW must be positive, got %d", c.SampleWindow))
	}
	if c.MaxPostsPerTick <= 0 {
		errs = append(errs, fmt.Errorf("MOTIONX_MAX_POSTS_PER_TICK must be positive, got %d", c.MaxPostsPerTick))
	}
	if c.WatchPresets && c.PresetFile == "" {
		errs = append(errs, errors.New("MOTIONX_WATCH_PRESETS requires MOTIONX_PRESET_FILE"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}
