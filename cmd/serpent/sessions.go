package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/arcadeworks/serpent/internal/storage"
)

var (
	flagTop   bool
	flagLimit int
	flagClear bool
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Show archived session statistics",
	Long: `Display archived play sessions and aggregate statistics.

By default the most recent sessions are listed. Use --top to rank by
score instead.

Examples:
  serpent sessions
  serpent sessions --top
  serpent sessions --limit 50
  serpent sessions --clear`,
	Run: runSessions,
}

func init() {
	sessionsCmd.Flags().BoolVar(&flagTop, "top", false, "Rank sessions by score instead of recency")
	sessionsCmd.Flags().IntVar(&flagLimit, "limit", 20, "Maximum number of sessions to show")
	sessionsCmd.Flags().BoolVar(&flagClear, "clear", false, "Delete the whole session archive")
}

func runSessions(_ *cobra.Command, _ []string) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening session archive: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if flagClear {
		if err := store.ClearSessions(); err != nil {
			fmt.Fprintf(os.Stderr, "Error clearing archive: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Session archive cleared.")
		return
	}

	stats, err := store.Stats()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving statistics: %v\n", err)
		os.Exit(1)
	}

	if stats.Sessions == 0 {
		fmt.Println("No sessions recorded yet.")
		fmt.Println()
		fmt.Println("Play 'serpent play' to record the first one!")
		return
	}

	fmt.Println("Archive")
	fmt.Printf("  Sessions: %d   High score: %d   Avg score: %.1f\n",
		stats.Sessions, stats.HighScore, stats.AvgScore)
	fmt.Printf("  Play time: %s   Avg reaction: %.0fms\n",
		formatPlayTime(stats.TotalPlayMS), stats.AvgReactionMS)
	fmt.Println()

	var rows []storage.SessionRow
	if flagTop {
		fmt.Printf("Top %d sessions by score\n", flagLimit)
		rows, err = store.TopSessions(flagLimit)
	} else {
		fmt.Printf("Last %d sessions\n", flagLimit)
		rows, err = store.RecentSessions(flagLimit)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving sessions: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("  %-4s  %-7s  %-7s  %-6s  %-9s  %-6s  %s\n",
		"Rank", "Score", "Length", "Food", "Reaction", "Skill", "Date")
	fmt.Printf("  %-4s  %-7s  %-7s  %-6s  %-9s  %-6s  %s\n",
		"----", "-----", "------", "----", "--------", "-----", "----")
	for i, r := range rows {
		fmt.Printf("  %-4d  %-7d  %-7d  %-6d  %-9s  %-6.2f  %s\n",
			i+1, r.FinalScore, r.SnakeLength, r.FoodCollected,
			fmt.Sprintf("%.0fms", r.AvgReactionMS), r.FinalSkill,
			r.EndedAt.Format("2006-01-02 15:04"))
	}
}

// formatPlayTime renders total play time as a short human duration.
func formatPlayTime(ms int64) string {
	d := time.Duration(ms) * time.Millisecond
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm%02ds", int(d.Minutes()), int(d.Seconds())%60)
	}
	return fmt.Sprintf("%dh%02dm", int(d.Hours()), int(d.Minutes())%60)
}
