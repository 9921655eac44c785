package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/ballsort/internal/config"
	"github.com/vovakirdan/ballsort/internal/core"
	"github.com/vovakirdan/ballsort/internal/games/ballsort"
	"github.com/vovakirdan/ballsort/internal/platform/tui"
	"github.com/vovakirdan/ballsort/internal/registry"
	"github.com/vovakirdan/ballsort/internal/storage"
)

var (
	flagLayout string
	flagResume bool
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play Ball Sort",
	Long: `Start playing. Without --resume or --layout a start menu offers to
continue the saved game, deal a new one or view the scoreboard.

Controls:
  Mouse        - Click a slot to pick up, click another to drop
                 Drag to move the whole run, right-click drops the run
  ←/→ or h/l   - Move the cursor
  Space/Enter  - Pick up / drop one ball
  X            - Drop the whole run
  U            - Undo
  R            - New game
  Y            - Copy the board as text
  Ctrl+S       - Text screenshot
  B            - Back to the menu
  Q/Ctrl+C     - Quit

Examples:
  ballsort play
  ballsort play --resume
  ballsort play --layout striped
  ballsort play --layout shuffled --seed 7`,
	Args: cobra.NoArgs,
	RunE: runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagLayout, "layout", "", "Start a new game: canonical, striped, shuffled")
	playCmd.Flags().BoolVar(&flagResume, "resume", false, "Continue the saved game without the menu")
}

func runPlay(_ *cobra.Command, _ []string) error {
	if flagResume && flagLayout != "" {
		return fmt.Errorf("--resume and --layout are exclusive")
	}

	cfg, err := config.LoadBallSort(flagConfig)
	if err != nil {
		return err
	}
	if err := config.ApplyLayout(&cfg, flagLayout); err != nil {
		return err
	}

	logger, closeLog, err := newLogger()
	if err != nil {
		return err
	}
	defer closeLog()

	// Get terminal size early for the start menu
	width, height := 80, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	rc := core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
	}

	// Open storage
	var kv registry.KeyValue
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open database, the game will not be saved: %v\n", err)
		// Continue in memory - game still works
		store = nil
		kv = storage.NewMemory()
	} else {
		defer store.Close()
		kv = store.Bucket(flagScope)
	}

	p := player{
		cfg:    cfg,
		rc:     rc,
		store:  store,
		kv:     kv,
		logger: logger,
	}

	if flagResume || flagLayout != "" {
		_, err := p.play(&tui.Selection{Resume: flagResume, Layout: flagLayout}, false)
		return err
	}
	return p.menuLoop()
}

// player runs local games against one KV bucket.
type player struct {
	cfg    config.BallSortConfig
	rc     core.RuntimeConfig
	store  *storage.Store
	kv     registry.KeyValue
	logger *log.Logger
}

// menuLoop shows the start menu until the player quits.
func (p player) menuLoop() error {
	for {
		hasSaved, best := p.savedInfo()
		sel, err := tui.RunSelector(p.rc, hasSaved, best)
		if err != nil {
			return err
		}
		if sel == nil {
			return nil
		}

		if sel.Scoreboard {
			goBack, err := tui.RunScoreboard(p.store, flagScope, p.rc.ScreenW, p.rc.ScreenH)
			if err != nil {
				return err
			}
			if !goBack {
				return nil
			}
			continue
		}

		goBack, err := p.play(sel, true)
		if err != nil {
			return err
		}
		if !goBack {
			return nil
		}
	}
}

// savedInfo reports whether a game is saved and the best score as text.
func (p player) savedInfo() (bool, string) {
	gw := ballsort.NewGatewayFor(p.kv, p.cfg)
	_, hasSaved, err := gw.Load()
	if err != nil {
		p.logger.Warn("saved game unreadable", "err", err)
	}
	best := ""
	if n, ok, _ := gw.LoadBestScore(); ok {
		best = strconv.Itoa(n)
	}
	return hasSaved, best
}

// play runs one game. Returns true if the player went back to the menu.
func (p player) play(sel *tui.Selection, allowBack bool) (bool, error) {
	cfg := p.cfg
	game, err := registry.Create(ballsort.GameID, registry.Env{
		KV:     p.kv,
		Config: &cfg,
		Logger: p.logger,
		Layout: sel.Layout,
		Fresh:  !sel.Resume,
	})
	if err != nil {
		return false, fmt.Errorf("cannot create game: %w", err)
	}

	p.logger.Info("game started", "player", flagScope, "resume", sel.Resume, "layout", sel.Layout)
	return tui.Run(game, p.rc, tui.Options{
		Store:         p.store,
		Scope:         flagScope,
		Logger:        p.logger,
		CopyText:      tui.SystemClipboard,
		ScreenshotDir: tui.DefaultScreenshotDir(),
		AllowBack:     allowBack,
	})
}
