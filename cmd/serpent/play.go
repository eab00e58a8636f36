package main

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/arcadeworks/serpent/internal/config"
	"github.com/arcadeworks/serpent/internal/core"
	"github.com/arcadeworks/serpent/internal/platform/tui"
	"github.com/arcadeworks/serpent/internal/runtime"
	"github.com/arcadeworks/serpent/internal/session"
	"github.com/arcadeworks/serpent/internal/storage"
)

var (
	flagConfig     string
	flagDifficulty string
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play the game",
	Long: `Start the game in the current terminal.

Controls:
  Arrows/WASD - Steer
  P/Esc       - Pause
  R           - Restart (after game over)
  E           - Toggle AI decision log
  Q/Ctrl+C    - Quit

Difficulty options:
  easy   - Slower start, the director eases off sooner
  normal - Default tuning
  hard   - Faster start, mastery rewarded earlier
  fixed  - Adaptation disabled, static difficulty`,
	RunE: runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagConfig, "config", "", "Path to custom config YAML")
	playCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
}

func runPlay(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return err
	}
	if flagDifficulty != "" {
		config.ApplyPreset(&cfg, config.Preset(flagDifficulty))
	}

	// Warn early if the terminal cannot fit the board.
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		if w < cfg.Grid.Width+2 || h < cfg.Grid.Height+4 {
			fmt.Fprintf(os.Stderr, "Warning: terminal %dx%d is small for a %dx%d board\n",
				w, h, cfg.Grid.Width, cfg.Grid.Height)
		}
	}

	seed := flagSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	// The archive is best-effort; the game runs without it.
	var archiver session.Archiver
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open session archive: %v\n", err)
	} else {
		archiver = store
		defer store.Close()
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{Level: log.WarnLevel})

	controller := runtime.NewController(runtime.Options{
		Grid:         core.GridSize{Width: cfg.Grid.Width, Height: cfg.Grid.Height},
		Seed:         seed,
		BaseInterval: time.Duration(cfg.Game.BaseIntervalMS) * time.Millisecond,
		InitialSpeed: cfg.Game.InitialSpeed,
		Director:     cfg.Director,
		Archiver:     archiver,
		Logger:       logger,
	})

	return tui.Run(controller, flagFPS)
}
