// Package config provides YAML-based configuration loading and difficulty
// presets for the game and its adaptive director.
package config

import (
	"github.com/arcadeworks/serpent/internal/core"
	"github.com/arcadeworks/serpent/internal/director"
)

// Config is the full game configuration.
type Config struct {
	Grid     GridConfig      `yaml:"grid"`
	Game     GameConfig      `yaml:"game"`
	Director director.Config `yaml:"director"`
}

// GridConfig defines the playfield dimensions.
type GridConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// GameConfig defines simulation timing parameters.
type GameConfig struct {
	// BaseIntervalMS is the movement interval in milliseconds at speed 1.0.
	BaseIntervalMS int `yaml:"base_interval_ms"`
	// InitialSpeed is the starting speed multiplier.
	InitialSpeed float64 `yaml:"initial_speed"`
}

// Normalize clamps loaded values into usable ranges.
func (c *Config) Normalize() {
	c.Grid.Width = core.Clamp(c.Grid.Width, 5, 100)
	c.Grid.Height = core.Clamp(c.Grid.Height, 5, 100)
	c.Game.BaseIntervalMS = core.Clamp(c.Game.BaseIntervalMS, 30, 1000)
	c.Game.InitialSpeed = core.ClampF(c.Game.InitialSpeed, 0.1, 5.0)
	c.Director = c.Director.Clamped()
}

// Preset names a difficulty preset applied on top of the loaded config.
type Preset string

const (
	PresetEasy   Preset = "easy"
	PresetNormal Preset = "normal"
	PresetHard   Preset = "hard"
	// PresetFixed disables adaptation entirely: the director still observes
	// and logs, but its sensitivity is zeroed so no adjustment commits.
	PresetFixed Preset = "fixed"
)

// ApplyPreset adjusts the config for a named preset. Unknown presets are
// ignored.
func ApplyPreset(cfg *Config, preset Preset) {
	switch preset {
	case PresetEasy:
		cfg.Game.InitialSpeed = 0.8
		cfg.Director.RecoveryThreshold = 0.5
		cfg.Director.MasteryThreshold = 0.8
	case PresetNormal:
		// Loaded values stand.
	case PresetHard:
		cfg.Game.InitialSpeed = 1.3
		cfg.Director.RecoveryThreshold = 0.7
		cfg.Director.MasteryThreshold = 0.6
	case PresetFixed:
		cfg.Director.AdaptationSensitivity = 0
	}
	cfg.Normalize()
}
