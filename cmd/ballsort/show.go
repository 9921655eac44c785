package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/ballsort/internal/config"
	"github.com/vovakirdan/ballsort/internal/games/ballsort"
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the saved board",
	Long: `Print the saved game as text. Each column is a slot, top level first;
balls print as their color number in hex, empty places as dots.

Examples:
  ballsort show
  ballsort show --player alice`,
	Args: cobra.NoArgs,
	RunE: runShow,
}

func runShow(_ *cobra.Command, _ []string) error {
	cfg, err := config.LoadBallSort(flagConfig)
	if err != nil {
		return err
	}

	store, gw, err := openGateway(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	board, moves, ok, err := loadSavedBoard(gw, cfg)
	if err != nil {
		return fmt.Errorf("saved game for %s is unreadable: %w", flagScope, err)
	}
	if !ok {
		fmt.Printf("No saved game for %s.\n", flagScope)
		fmt.Println("Run 'ballsort play' to start one.")
		return nil
	}

	fmt.Print(ballsort.BoardText(board.Slots(), board.MaxBalls()))
	fmt.Println()
	fmt.Printf("Moves: %d", moves)
	if best, ok, _ := gw.LoadBestScore(); ok {
		fmt.Printf("   Best: %d", best)
	}
	fmt.Println()
	if ballsort.IsSolved(board) {
		fmt.Println("Solved.")
	}
	return nil
}
