package main

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/ballsort/internal/config"
	"github.com/vovakirdan/ballsort/internal/export"
	"github.com/vovakirdan/ballsort/internal/games/ballsort"
)

var exportCmd = &cobra.Command{
	Use:   "export <file.png>",
	Short: "Draw the saved board as a PNG",
	Long: `Write the saved game as a PNG image. Without a saved game the
configured starting layout is drawn instead.

Examples:
  ballsort export board.png
  ballsort export --player alice alice.png
  ballsort export --layout shuffled --seed 3 deal.png`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVar(&flagLayout, "layout", "", "Draw a fresh deal: canonical, striped, shuffled")
}

func runExport(_ *cobra.Command, args []string) error {
	path := args[0]

	cfg, err := config.LoadBallSort(flagConfig)
	if err != nil {
		return err
	}

	var (
		board *ballsort.Board
		moves int
	)
	if flagLayout == "" {
		store, gw, err := openGateway(cfg)
		if err != nil {
			return err
		}
		board, moves, _, err = loadSavedBoard(gw, cfg)
		store.Close()
		if err != nil {
			return fmt.Errorf("saved game for %s is unreadable: %w", flagScope, err)
		}
	} else if err := config.ApplyLayout(&cfg, flagLayout); err != nil {
		return err
	}

	if board == nil {
		deal, err := ballsort.ParseDeal(cfg.Board.Layout)
		if err != nil {
			return err
		}
		seed := flagSeed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		board = ballsort.NewDealtBoard(deal, cfg.Board.Slots, cfg.Board.MaxBalls, rand.New(rand.NewSource(seed)))
	}

	pic := export.Picture{Board: board, Moves: moves, Selected: ballsort.NoSlot}
	if err := export.SavePNG(path, pic, ballsort.DefaultSettings().Layout); err != nil {
		return err
	}
	fmt.Printf("Wrote %s\n", path)
	return nil
}
