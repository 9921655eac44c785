package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/ballsort/internal/config"
	"github.com/vovakirdan/ballsort/internal/registry"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered games and starting layouts",
	Long: `Shows the games registered with the platform and the starting
layouts a new game can be dealt with. The configured default is marked.`,
	RunE: runList,
}

var layoutDescriptions = []struct {
	name string
	desc string
}{
	{config.LayoutCanonical, "slot 0 empty, every other slot one color (already sorted)"},
	{config.LayoutStriped, "every filled slot holds one ball of each color"},
	{config.LayoutShuffled, "random deal, reproducible with --seed"},
}

func runList(_ *cobra.Command, _ []string) error {
	cfg, err := config.LoadBallSort(flagConfig)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "Games:")
	fmt.Fprintln(w, "  ID\tTitle")
	for _, g := range registry.List() {
		fmt.Fprintf(w, "  %s\t%s\n", g.ID, g.Title)
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Layouts (%d slots x %d balls):\n", cfg.Board.Slots, cfg.Board.MaxBalls)
	for _, l := range layoutDescriptions {
		mark := " "
		if l.name == cfg.Board.Layout {
			mark = "*"
		}
		fmt.Fprintf(w, "%s %s\t%s\n", mark, l.name, l.desc)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Println()
	fmt.Println("Run 'ballsort play --layout <name>' to start one.")
	return nil
}
