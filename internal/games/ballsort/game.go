package ballsort

import (
	"io"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/ballsort/internal/config"
	"github.com/vovakirdan/ballsort/internal/core"
	"github.com/vovakirdan/ballsort/internal/registry"
)

// GameID is the registry identifier of the puzzle.
const GameID = "ballsort"

// Game adapts a Session to the platform's registry.Game interface.
type Game struct {
	env      registry.Env
	cfg      config.BallSortConfig
	logger   *log.Logger
	session  *Session
	settings Settings

	cursor  int
	message string

	screenW  int
	screenH  int
	tooSmall bool
}

// New creates a game wired to env. Nothing is loaded until Reset.
func New(env registry.Env) *Game {
	cfg := config.DefaultBallSortConfig()
	if env.Config != nil {
		cfg = *env.Config
	}
	logger := env.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if err := config.ApplyLayout(&cfg, env.Layout); err != nil {
		logger.Warn("layout ignored, using configured one", "layout", env.Layout, "configured", cfg.Board.Layout, "err", err)
	}
	return &Game{
		env:      env,
		cfg:      cfg,
		logger:   logger,
		settings: SettingsFromConfig(cfg),
	}
}

func init() {
	registry.Register(GameID, func(env registry.Env) registry.Game {
		return New(env)
	})
}

// SettingsFromConfig converts the YAML configuration into session settings.
func SettingsFromConfig(cfg config.BallSortConfig) Settings {
	deal, err := ParseDeal(cfg.Board.Layout)
	if err != nil {
		deal = DealCanonical
	}
	return Settings{
		SlotCount:    cfg.Board.Slots,
		MaxBalls:     cfg.Board.MaxBalls,
		HistoryLimit: cfg.History.Limit,
		Deal:         deal,
		Input: InputConfig{
			DragThreshold:     cfg.Input.DragThreshold,
			TapWindow:         time.Duration(cfg.Input.TapWindowMS) * time.Millisecond,
			LongPress:         time.Duration(cfg.Input.LongPressMS) * time.Millisecond,
			TapKeepsSelection: cfg.Input.TapKeepsSelection,
		},
		Layout: Layout{
			Margin:     cfg.Geometry.Margin,
			SlotWidth:  cfg.Geometry.SlotWidth,
			Top:        cfg.Geometry.Top,
			BallHeight: cfg.Geometry.BallHeight,
			SlotCount:  cfg.Board.Slots,
			MaxBalls:   cfg.Board.MaxBalls,
		},
	}
}

// NewGatewayFor builds the persistence gateway for a KV store using the
// configured keys. It returns nil when kv is nil.
func NewGatewayFor(kv KV, cfg config.BallSortConfig) *Gateway {
	if kv == nil {
		return nil
	}
	return NewGateway(kv, cfg.Storage.StateKey, cfg.Storage.BestScoreKey)
}

// ID returns the game identifier.
func (g *Game) ID() string {
	return GameID
}

// Title returns the display name.
func (g *Game) Title() string {
	return "Ball Sort"
}

// Session exposes the underlying session, mainly for tests and exporters.
func (g *Game) Session() *Session {
	return g.session
}

// Reset starts the game on first call and deals a new board afterwards.
func (g *Game) Reset(cfg core.RuntimeConfig) {
	g.Resize(cfg.ScreenW, cfg.ScreenH)
	g.message = ""

	if g.session != nil {
		g.session.Reset()
		g.cursor = 0
		return
	}

	var kv KV
	if g.env.KV != nil {
		kv = g.env.KV
	}
	rng := rand.New(rand.NewSource(cfg.Seed))
	g.session = NewSession(g.settings, NewGatewayFor(kv, g.cfg), g.logger, rng)

	if g.env.Fresh {
		g.session.Start() // loads the best score
		g.session.Reset()
		return
	}
	if g.session.Start() {
		g.message = "Saved game restored"
	}
}

// Resize adapts to a new screen size without touching the board.
func (g *Game) Resize(w, h int) {
	g.screenW = w
	g.screenH = h
	l := g.settings.Layout
	needW := int(l.Width()) + 1
	needH := int(l.Top+l.Height()) + hudRowsBelow
	g.tooSmall = w < needW || h < needH
}

// Step consumes one frame of input.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	if g.session == nil {
		return core.StepResult{State: g.State()}
	}

	for _, ev := range in.Pointer {
		switch ev.Kind {
		case core.PointerPress:
			g.session.PressAt(ev.Pos, ev.At)
		case core.PointerMove:
			g.session.MoveAt(ev.Pos)
		case core.PointerRelease:
			g.report(g.session.ReleaseAt(ev.Pos, ev.Alt, ev.At))
		}
	}

	n := g.settings.SlotCount
	switch {
	case in.Has(core.ActionLeft):
		g.cursor = (g.cursor - 1 + n) % n
	case in.Has(core.ActionRight):
		g.cursor = (g.cursor + 1) % n
	}

	switch {
	case in.Has(core.ActionSelect):
		g.report(g.session.ClickSlot(g.cursor, false))
	case in.Has(core.ActionBatch):
		g.report(g.session.ClickSlot(g.cursor, true))
	case in.Has(core.ActionUndo):
		if g.session.Undo() {
			g.message = ""
		} else {
			g.message = "Nothing to undo"
		}
	case in.Has(core.ActionRestart):
		g.session.Reset()
		g.message = "New game"
	case in.Has(core.ActionCancel):
		g.session.CancelSelection()
	}

	return core.StepResult{State: g.State()}
}

func (g *Game) report(res MoveResult) {
	if res.Applied() {
		g.message = ""
	}
}

// State returns the platform view of the game: the score is the move count
// and the game is over once the puzzle is solved.
func (g *Game) State() core.GameState {
	if g.session == nil {
		return core.GameState{}
	}
	return core.GameState{
		Score:    g.session.MoveCount(),
		GameOver: g.session.Outcome() != OutcomeNone,
		Paused:   g.tooSmall,
	}
}

// Text returns the board as plain text for the clipboard.
func (g *Game) Text() string {
	if g.session == nil {
		return ""
	}
	return BoardText(g.session.Slots(), g.settings.MaxBalls)
}

// LayoutName returns the starting layout of the current board.
func (g *Game) LayoutName() string {
	if g.session == nil {
		return string(g.settings.Deal)
	}
	return string(g.session.Settings().Deal)
}
