package tui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/ballsort/internal/core"
	"github.com/vovakirdan/ballsort/internal/registry"
	"github.com/vovakirdan/ballsort/internal/storage"
)

// Texter is implemented by games that can describe their board as text.
type Texter interface {
	Text() string
}

// LayoutNamer is implemented by games that know which starting layout
// is being played.
type LayoutNamer interface {
	LayoutName() string
}

// Options configure a game model.
type Options struct {
	// Store receives completion records. May be nil.
	Store *storage.Store
	// Scope is the player the completions are recorded for.
	Scope string
	Logger *log.Logger
	// CopyText writes text to the clipboard. Nil disables copying.
	CopyText func(string) error
	// ScreenshotDir is where ctrl+s writes text screenshots. Empty disables them.
	ScreenshotDir string
	// AllowBack lets the player leave to the menu with B.
	AllowBack bool
}

// DefaultScreenshotDir returns ~/.ballsort/screenshots.
func DefaultScreenshotDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".ballsort", "screenshots")
}

// SystemClipboard copies through the local system clipboard.
func SystemClipboard(text string) error {
	return clipboard.WriteAll(text)
}

// Model is the Bubble Tea model for running a game.
type Model struct {
	game       registry.Game
	screen     *core.Screen
	opts       Options
	logger     *log.Logger
	config     core.RuntimeConfig
	inputFrame core.InputFrame
	gameState  core.GameState
	keyMapper  *KeyMapper
	help       help.Model
	status     string
	quitting   bool
	backToMenu bool
	recorded   bool // Whether the completion has been saved for the current solve
	lastRunID  string
}

// NewModel creates a new Bubble Tea model for the given game.
func NewModel(game registry.Game, cfg core.RuntimeConfig, opts Options) Model {
	// Use time-based seed if not specified
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	h := help.New()
	h.Width = cfg.ScreenW

	return Model{
		game:       game,
		screen:     core.NewScreen(cfg.ScreenW, max(cfg.ScreenH-1, 1)),
		opts:       opts,
		logger:     logger,
		config:     cfg,
		inputFrame: core.NewInputFrame(),
		keyMapper:  NewKeyMapper(),
		help:       h,
	}
}

// Init starts the tick loop. The game must already be Reset (see Start).
func (m Model) Init() tea.Cmd {
	return tickCmd(m.config.TickRate)
}

// Start resets the game with the model's configuration. It is separate
// from Init because Init has a value receiver.
func (m *Model) Start() {
	m.game.Reset(m.screenConfig())
	m.gameState = m.game.State()
	// A game resumed in the solved state has already been recorded.
	m.recorded = m.gameState.GameOver
}

func (m Model) screenConfig() core.RuntimeConfig {
	cfg := m.config
	cfg.ScreenH = m.screen.Height()
	return cfg
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		if ev, ok := m.keyMapper.MapMouse(msg, time.Now()); ok {
			m.inputFrame.AddPointer(ev)
		}
		return m, nil

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keys := m.keyMapper.Keys()

	switch {
	case key.Matches(msg, keys.Screenshot):
		m.saveScreenshot()
		return m, nil
	case key.Matches(msg, keys.Copy):
		m.copyBoard()
		return m, nil
	case key.Matches(msg, keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, keys.Back) && m.opts.AllowBack:
		m.backToMenu = true
		return m, tea.Quit
	}

	if m.keyMapper.MapKeyToFrame(msg, &m.inputFrame) {
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

// handleResize processes window resize events.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.config.ScreenW = msg.Width
	m.config.ScreenH = msg.Height
	m.screen.Resize(msg.Width, max(msg.Height-1, 1))
	m.help.Width = msg.Width

	if r, ok := m.game.(registry.Resizer); ok {
		r.Resize(m.screen.Width(), m.screen.Height())
	} else if !m.gameState.GameOver {
		m.game.Reset(m.screenConfig())
	}

	return m, nil
}

// handleTick processes game ticks.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	// Check for restart
	if m.inputFrame.Has(core.ActionRestart) && m.gameState.GameOver {
		m.game.Reset(m.screenConfig())
		m.gameState = m.game.State()
		m.recorded = false
		m.status = ""
		m.inputFrame.Clear()
		return m, tickCmd(m.config.TickRate)
	}

	if !m.inputFrame.Empty() {
		m.status = ""
	}
	result := m.game.Step(m.inputFrame)
	if m.gameState.GameOver && !result.State.GameOver {
		// Undo out of a solved board; a new solve is recorded again.
		m.recorded = false
	}
	m.gameState = result.State

	// Record the completion once per solve
	if m.gameState.GameOver && !m.recorded {
		m.recordCompletion()
		m.recorded = true
	}

	// Clear input for next frame
	m.inputFrame.Clear()

	return m, tickCmd(m.config.TickRate)
}

func (m *Model) recordCompletion() {
	if m.opts.Store == nil {
		return
	}
	layout := ""
	if ln, ok := m.game.(LayoutNamer); ok {
		layout = ln.LayoutName()
	}
	runID, err := m.opts.Store.RecordCompletion(m.opts.Scope, layout, m.gameState.Score)
	if err != nil {
		m.logger.Warn("completion not recorded", "err", err)
		return
	}
	m.lastRunID = runID
	m.logger.Info("completion recorded", "run", runID, "scope", m.opts.Scope, "moves", m.gameState.Score)
}

func (m *Model) copyBoard() {
	t, ok := m.game.(Texter)
	if !ok || m.opts.CopyText == nil {
		m.status = "Copy not available"
		return
	}
	if err := m.opts.CopyText(t.Text()); err != nil {
		m.logger.Warn("clipboard write failed", "err", err)
		m.status = "Copy failed"
		return
	}
	m.status = "Board copied"
}

// saveScreenshot saves the current screen to a file.
func (m *Model) saveScreenshot() {
	if m.opts.ScreenshotDir == "" {
		m.status = "Screenshots disabled"
		return
	}

	// Render current state
	m.game.Render(m.screen)

	if err := os.MkdirAll(m.opts.ScreenshotDir, 0o755); err != nil {
		m.logger.Warn("screenshot directory", "err", err)
		return
	}

	// Generate filename with timestamp
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("%s_%s.txt", m.game.ID(), timestamp)
	path := filepath.Join(m.opts.ScreenshotDir, filename)

	if err := os.WriteFile(path, []byte(m.screen.String()), 0o600); err != nil {
		m.logger.Warn("screenshot not saved", "err", err)
		return
	}
	m.status = "Saved " + path
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	// Render game to screen buffer
	m.game.Render(m.screen)

	line := m.help.View(m.keyMapper.Keys())
	if m.status != "" {
		line = m.status
	}
	return RenderScreen(m.screen) + "\n" + line
}

// State returns the last observed game state.
func (m Model) State() core.GameState {
	return m.gameState
}

// LastRunID returns the run ID of the last recorded completion.
func (m Model) LastRunID() string {
	return m.lastRunID
}

// IsQuitting returns true if user requested to quit entirely.
func (m Model) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m Model) BackToMenu() bool {
	return m.backToMenu
}

// Run starts the Bubble Tea program with the given game.
// Returns true if the player asked to go back to the menu.
func Run(game registry.Game, cfg core.RuntimeConfig, opts Options) (backToMenu bool, err error) {
	model := NewModel(game, cfg, opts)
	model.Start()

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return false, err
	}

	m, ok := finalModel.(Model)
	if !ok {
		return false, nil
	}
	return m.BackToMenu(), nil
}
