package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultIsNormalized(t *testing.T) {
	cfg := Default()
	normalized := cfg
	normalized.Normalize()

	if cfg != normalized {
		t.Errorf("Default() changes under Normalize(): %+v vs %+v", cfg, normalized)
	}
	if cfg.Grid.Width != 20 || cfg.Grid.Height != 20 {
		t.Errorf("default grid = %dx%d, want 20x20", cfg.Grid.Width, cfg.Grid.Height)
	}
	if cfg.Game.BaseIntervalMS != 150 {
		t.Errorf("default interval = %d, want 150", cfg.Game.BaseIntervalMS)
	}
}

func TestNormalizeClamps(t *testing.T) {
	cfg := Config{}
	cfg.Grid.Width = 2
	cfg.Grid.Height = 500
	cfg.Game.BaseIntervalMS = 1
	cfg.Game.InitialSpeed = 100
	cfg.Normalize()

	if cfg.Grid.Width != 5 {
		t.Errorf("width = %d, want clamp to 5", cfg.Grid.Width)
	}
	if cfg.Grid.Height != 100 {
		t.Errorf("height = %d, want clamp to 100", cfg.Grid.Height)
	}
	if cfg.Game.BaseIntervalMS != 30 {
		t.Errorf("interval = %d, want clamp to 30", cfg.Game.BaseIntervalMS)
	}
	if cfg.Game.InitialSpeed != 5.0 {
		t.Errorf("speed = %v, want clamp to 5.0", cfg.Game.InitialSpeed)
	}
}

func TestApplyPreset(t *testing.T) {
	easy := Default()
	ApplyPreset(&easy, PresetEasy)
	if easy.Game.InitialSpeed != 0.8 || easy.Director.RecoveryThreshold != 0.5 {
		t.Errorf("easy preset wrong: %+v", easy)
	}

	hard := Default()
	ApplyPreset(&hard, PresetHard)
	if hard.Game.InitialSpeed != 1.3 || hard.Director.MasteryThreshold != 0.6 {
		t.Errorf("hard preset wrong: %+v", hard)
	}

	fixed := Default()
	ApplyPreset(&fixed, PresetFixed)
	if fixed.Director.AdaptationSensitivity != 0 {
		t.Errorf("fixed preset sensitivity = %v, want 0", fixed.Director.AdaptationSensitivity)
	}

	// Unknown presets leave the config untouched
	normal := Default()
	ApplyPreset(&normal, Preset("bogus"))
	if normal != Default() {
		t.Errorf("unknown preset changed config: %+v", normal)
	}
}

func TestLoadCustomPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	yaml := `
grid:
  width: 30
  height: 15
game:
  base_interval_ms: 120
  initial_speed: 1.5
director:
  adaptation_sensitivity: 0.9
  verbosity: verbose
`
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Grid.Width != 30 || cfg.Grid.Height != 15 {
		t.Errorf("grid = %dx%d, want 30x15", cfg.Grid.Width, cfg.Grid.Height)
	}
	if cfg.Game.BaseIntervalMS != 120 || cfg.Game.InitialSpeed != 1.5 {
		t.Errorf("game section wrong: %+v", cfg.Game)
	}
	if cfg.Director.AdaptationSensitivity != 0.9 {
		t.Errorf("sensitivity = %v, want 0.9", cfg.Director.AdaptationSensitivity)
	}
}

func TestLoadMissingCustomPath(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("missing explicit config path should be an error")
	}
}

func TestLoadMalformedCustomPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("grid: [not a map"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("malformed explicit config should be an error")
	}
}
