package director

import "github.com/arcadeworks/serpent/internal/core"

// Verbosity controls how much detail decision reasoning carries.
type Verbosity string

const (
	VerbosityMinimal  Verbosity = "minimal"
	VerbosityDetailed Verbosity = "detailed"
	VerbosityVerbose  Verbosity = "verbose"
)

// Config bounds the director's behavior. Out-of-range values are clamped
// into their legal ranges rather than rejected.
type Config struct {
	// AdaptationSensitivity scales the size of speed steps, in [0,1].
	AdaptationSensitivity float64 `yaml:"adaptation_sensitivity"`

	// MaxSpeedIncrease caps the speed multiplier on the way up, in [1,5].
	MaxSpeedIncrease float64 `yaml:"max_speed_increase"`

	// MinSpeedDecrease floors the speed multiplier on the way down, in [0.1,1].
	MinSpeedDecrease float64 `yaml:"min_speed_decrease"`

	// RecoveryThreshold is the risk level that activates recovery mode, in [0,1].
	RecoveryThreshold float64 `yaml:"recovery_threshold"`

	// MasteryThreshold is the performance level that unlocks speed-ups, in [0,1].
	MasteryThreshold float64 `yaml:"mastery_threshold"`

	// Verbosity selects minimal, detailed, or verbose decision reasoning.
	Verbosity Verbosity `yaml:"verbosity"`
}

// DefaultConfig returns the standard tuning.
func DefaultConfig() Config {
	return Config{
		AdaptationSensitivity: 0.5,
		MaxSpeedIncrease:      3.0,
		MinSpeedDecrease:      0.3,
		RecoveryThreshold:     0.6,
		MasteryThreshold:      0.7,
		Verbosity:             VerbosityDetailed,
	}
}

// Clamped returns a copy with every field forced into its legal range.
func (c Config) Clamped() Config {
	c.AdaptationSensitivity = core.ClampF(c.AdaptationSensitivity, 0, 1)
	c.MaxSpeedIncrease = core.ClampF(c.MaxSpeedIncrease, 1, 5)
	c.MinSpeedDecrease = core.ClampF(c.MinSpeedDecrease, 0.1, 1)
	c.RecoveryThreshold = core.ClampF(c.RecoveryThreshold, 0, 1)
	c.MasteryThreshold = core.ClampF(c.MasteryThreshold, 0, 1)
	switch c.Verbosity {
	case VerbosityMinimal, VerbosityDetailed, VerbosityVerbose:
	default:
		c.Verbosity = VerbosityDetailed
	}
	return c
}
