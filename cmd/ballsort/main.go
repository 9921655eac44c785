// ballsort is a ball-sort puzzle for the terminal.
//
// Usage:
//
//	ballsort play               - Play (start menu, or --resume / --layout)
//	ballsort show               - Print the saved board
//	ballsort reset              - Discard the saved game
//	ballsort scores             - Show the fewest-move completions
//	ballsort export <file.png>  - Draw the saved board as a PNG
//	ballsort serve              - Start SSH server for remote play
//	ballsort list               - List registered games
//
// Global flags:
//
//	--db <path>         - Database path (default: ~/.ballsort/ballsort.db)
//	--config <path>     - Config YAML (default search: ~/.ballsort/configs, ./configs)
//	--log-file <path>   - Write logs to a file
//	--log-level <level> - debug, info, warn, error
//	--seed <value>      - RNG seed for shuffled deals
//	--player <name>     - Player the game and scores belong to (default: local)
package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/ballsort/internal/config"
	"github.com/vovakirdan/ballsort/internal/games/ballsort"
	"github.com/vovakirdan/ballsort/internal/storage"
)

const defaultDBPath = "~/.ballsort/ballsort.db"

var (
	// Global flags
	flagFPS      int
	flagSeed     int64
	flagDBPath   string
	flagConfig   string
	flagLogFile  string
	flagLogLevel string
	flagScope    string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "ballsort",
	Short: "Ball Sort - sort colored balls in your terminal",
	Long: `Ball Sort is a puzzle: move balls between slots until every slot
holds a single color. Click a slot to pick up its top ball, click another
to drop it there. Right-click or X drops the whole run of that color.

Available commands:
  play     - Play (start menu, or resume directly)
  show     - Print the saved board
  reset    - Discard the saved game
  scores   - Fewest-move completions
  export   - Save the board as a PNG image
  serve    - Start SSH server for remote play
  list     - Show registered games

Settings can also come from a .env file:
  BALLSORT_DB, BALLSORT_CONFIG, BALLSORT_LOG_LEVEL

Examples:
  ballsort play
  ballsort play --layout shuffled --seed 42
  ballsort show
  ballsort export board.png
  ballsort serve --ssh :2222`,
	SilenceUsage:      true,
	PersistentPreRunE: loadEnv,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 30, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", defaultDBPath, "Path to game database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom config YAML")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "Write logs to this file")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&flagScope, "player", storage.DefaultScope, "Player the game and scores belong to")

	// Add subcommands
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(serveCmd)
}

// loadEnv reads .env and fills flags the user did not set.
func loadEnv(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("cannot read .env: %w", err)
	}

	flags := cmd.Flags()
	envFlags := []struct {
		name string
		env  string
		dst  *string
	}{
		{"db", "BALLSORT_DB", &flagDBPath},
		{"config", "BALLSORT_CONFIG", &flagConfig},
		{"log-level", "BALLSORT_LOG_LEVEL", &flagLogLevel},
	}
	for _, f := range envFlags {
		if flags.Changed(f.name) {
			continue
		}
		if v, ok := os.LookupEnv(f.env); ok && v != "" {
			*f.dst = v
		}
	}
	return nil
}

// newLogger builds the application logger. Without --log-file logs are
// discarded so they don't tear the alt screen.
func newLogger() (*log.Logger, func(), error) {
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid --log-level: %w", err)
	}

	if flagLogFile == "" {
		return log.New(io.Discard), func() {}, nil
	}

	f, err := os.OpenFile(flagLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("cannot open log file: %w", err)
	}
	logger := log.NewWithOptions(f, log.Options{
		ReportTimestamp: true,
		Prefix:          "ballsort",
		Level:           level,
	})
	return logger, func() { f.Close() }, nil
}

// openGateway opens the database and returns a gateway on the --player
// bucket. The caller closes the store.
func openGateway(cfg config.BallSortConfig) (*storage.Store, *ballsort.Gateway, error) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		return nil, nil, fmt.Errorf("cannot open database: %w", err)
	}
	return store, ballsort.NewGatewayFor(store.Bucket(flagScope), cfg), nil
}

// loadSavedBoard restores the saved game of the --player bucket.
// ok is false when nothing is saved.
func loadSavedBoard(gw *ballsort.Gateway, cfg config.BallSortConfig) (board *ballsort.Board, moves int, ok bool, err error) {
	saved, ok, err := gw.Load()
	if err != nil || !ok {
		return nil, 0, ok, err
	}
	board, _, err = saved.Restore(cfg.Board.Slots, cfg.Board.MaxBalls)
	if err != nil {
		return nil, 0, false, err
	}
	return board, saved.MoveCount, true, nil
}
