package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/ballsort/internal/storage"
)

var (
	flagScoresLimit int
	flagScoresAll   bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Show the fewest-move completions",
	Long: `Display the solved games with the fewest moves.

Examples:
  ballsort scores
  ballsort scores --player alice
  ballsort scores --all --limit 20`,
	Args: cobra.NoArgs,
	RunE: runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagScoresLimit, "limit", 10, "Number of completions to show")
	scoresCmd.Flags().BoolVar(&flagScoresAll, "all", false, "Rank completions of all players")
}

func runScores(_ *cobra.Command, _ []string) error {
	// Open storage
	store, err := storage.Open(flagDBPath)
	if err != nil {
		return fmt.Errorf("cannot open database: %w", err)
	}
	defer store.Close()

	scope := flagScope
	title := flagScope
	if flagScoresAll {
		scope = ""
		title = "all players"
	}

	scores, err := store.TopCompletions(scope, flagScoresLimit)
	if err != nil {
		return fmt.Errorf("cannot retrieve completions: %w", err)
	}

	// Display scores
	fmt.Printf("Fewest Moves - %s\n", title)
	fmt.Println()

	if len(scores) == 0 {
		fmt.Println("No solved games recorded yet.")
		fmt.Println()
		fmt.Println("Play 'ballsort play' and sort every slot to set the first record!")
		return nil
	}

	// Print header
	if flagScoresAll {
		fmt.Printf("  %-4s  %-6s  %-10s  %-12s  %s\n", "Rank", "Moves", "Layout", "Player", "Date")
		fmt.Printf("  %-4s  %-6s  %-10s  %-12s  %s\n", "----", "-----", "------", "------", "----")
	} else {
		fmt.Printf("  %-4s  %-6s  %-10s  %s\n", "Rank", "Moves", "Layout", "Date")
		fmt.Printf("  %-4s  %-6s  %-10s  %s\n", "----", "-----", "------", "----")
	}

	// Print completions
	for i, c := range scores {
		dateStr := c.CreatedAt.Format("2006-01-02 15:04")
		if flagScoresAll {
			fmt.Printf("  %-4d  %-6d  %-10s  %-12s  %s\n", i+1, c.Moves, c.Layout, c.Scope, dateStr)
		} else {
			fmt.Printf("  %-4d  %-6d  %-10s  %s\n", i+1, c.Moves, c.Layout, dateStr)
		}
	}

	if flagScoresAll {
		return nil
	}

	// Show stats for the player
	stats, err := store.GetStats(scope)
	if err != nil {
		return nil
	}
	fmt.Println()
	fmt.Printf("Solved: %d   Best: %d   Average: %.1f   Last played: %s\n",
		stats.Solved, stats.BestMoves, stats.AvgMoves, stats.LastPlayed.Format("2006-01-02 15:04"))
	return nil
}
