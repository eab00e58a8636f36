package config

import (
	_ "embed"

	"github.com/arcadeworks/serpent/internal/director"
)

//go:embed defaults/serpent.yaml
var defaultYAML []byte

// Default returns the hardcoded default configuration, used when even the
// embedded YAML cannot be parsed.
func Default() Config {
	return Config{
		Grid: GridConfig{Width: 20, Height: 20},
		Game: GameConfig{
			BaseIntervalMS: 150,
			InitialSpeed:   1.0,
		},
		Director: director.DefaultConfig(),
	}
}
