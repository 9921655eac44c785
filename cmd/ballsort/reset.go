package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/ballsort/internal/config"
)

var flagResetScores bool

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Discard the saved game",
	Long: `Delete the saved game of a player. The best score and completion
records are kept unless --scores is given.

Examples:
  ballsort reset
  ballsort reset --scores --player alice`,
	Args: cobra.NoArgs,
	RunE: runReset,
}

func init() {
	resetCmd.Flags().BoolVar(&flagResetScores, "scores", false, "Also delete the best score and completion records")
}

func runReset(_ *cobra.Command, _ []string) error {
	cfg, err := config.LoadBallSort(flagConfig)
	if err != nil {
		return err
	}

	store, gw, err := openGateway(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := gw.Clear(); err != nil {
		return err
	}
	fmt.Printf("Saved game for %s discarded.\n", flagScope)

	if !flagResetScores {
		return nil
	}
	if err := gw.ClearBestScore(); err != nil {
		return err
	}
	if err := store.ClearCompletions(flagScope); err != nil {
		return fmt.Errorf("cannot delete completions: %w", err)
	}
	fmt.Printf("Scores for %s deleted.\n", flagScope)
	return nil
}
