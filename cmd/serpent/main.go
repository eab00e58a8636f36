// serpent is a terminal snake game with an adaptive difficulty director
// that watches how you play and tunes speed and food placement to match.
//
// Usage:
//
//	serpent play               - Play the game
//	serpent sessions           - Show archived session statistics
//	serpent serve              - Start SSH server for remote play
//
// Global flags:
//
//	--fps <rate>    - Simulation frame rate (default: 60)
//	--seed <value>  - RNG seed for reproducible food placement
//	--db <path>     - Session archive path (default: ~/.serpent/sessions.db)
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	flagFPS    int
	flagSeed   int64
	flagDBPath string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "serpent",
	Short: "Adaptive snake for your terminal",
	Long: `Serpent is a terminal snake game with a rule-based difficulty
director: it profiles your reaction times, risk-taking, and mistakes, then
adjusts speed and food placement so the game stays in your zone.

Examples:
  serpent play
  serpent play --difficulty hard
  serpent play --config ./my-serpent.yaml
  serpent sessions
  serpent serve --ssh :23235`,
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Simulation frame rate")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.serpent/sessions.db", "Path to session archive")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(sessionsCmd)
	rootCmd.AddCommand(serveCmd)
}
