package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"
	"github.com/google/uuid"

	"github.com/vovakirdan/ballsort/internal/config"
	"github.com/vovakirdan/ballsort/internal/core"
	"github.com/vovakirdan/ballsort/internal/registry"
	"github.com/vovakirdan/ballsort/internal/storage"
)

// SSHServerConfig holds configuration for the SSH server.
type SSHServerConfig struct {
	// Address is the host:port to listen on (e.g., ":23234").
	Address string

	// HostKeyPath is the path to the host key file.
	// If empty, a key will be auto-generated at ~/.ballsort/host_key.
	HostKeyPath string

	// DBPath is the path to the game database.
	DBPath string

	// IdleTimeout is how long to wait before closing idle connections.
	IdleTimeout time.Duration

	// GameID is the registered game served to every session.
	GameID string

	// Config is the game configuration shared by all sessions.
	Config config.BallSortConfig

	// Logger receives server events. Nil logs to stderr.
	Logger *log.Logger
}

// DefaultSSHServerConfig returns a config with sensible defaults.
func DefaultSSHServerConfig() SSHServerConfig {
	return SSHServerConfig{
		Address:     ":23234",
		DBPath:      "~/.ballsort/ballsort.db",
		IdleTimeout: 30 * time.Minute,
		GameID:      "ballsort",
		Config:      config.DefaultBallSortConfig(),
	}
}

// SSHServer wraps a Wish SSH server. Every connection plays its own game,
// saved under the SSH user name.
type SSHServer struct {
	config SSHServerConfig
	server *ssh.Server
	store  *storage.Store
	logger *log.Logger
}

// NewSSHServer creates a new SSH server with the given configuration.
func NewSSHServer(cfg SSHServerConfig) (*SSHServer, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "ballsort-ssh",
		})
	}

	// Open storage
	store, err := storage.Open(cfg.DBPath)
	if err != nil {
		logger.Warn("could not open database, games will not be saved", "error", err)
		// Continue without storage
		store = nil
	}

	srv := &SSHServer{
		config: cfg,
		store:  store,
		logger: logger,
	}

	// Resolve host key path
	hostKeyPath := cfg.HostKeyPath
	if hostKeyPath == "" {
		home, homeErr := os.UserHomeDir()
		if homeErr != nil {
			return nil, fmt.Errorf("cannot get home directory: %w", homeErr)
		}
		hostKeyPath = filepath.Join(home, ".ballsort", "host_key")
	}

	// Ensure host key directory exists
	hostKeyDir := filepath.Dir(hostKeyPath)
	if mkdirErr := os.MkdirAll(hostKeyDir, 0o700); mkdirErr != nil {
		return nil, fmt.Errorf("cannot create host key directory: %w", mkdirErr)
	}

	// Create Wish server options
	opts := []ssh.Option{
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			srv.loggingMiddleware,
		),
	}

	// Create the server
	server, err := wish.NewServer(opts...)
	if err != nil {
		if store != nil {
			store.Close()
		}
		return nil, fmt.Errorf("cannot create SSH server: %w", err)
	}

	srv.server = server
	return srv, nil
}

// teaHandler creates a Bubble Tea program for each SSH session.
func (s *SSHServer) teaHandler(sshSession ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, ok := sshSession.Pty()
	if !ok {
		s.logger.Warn("no PTY requested", "user", sshSession.User())
		return nil, nil
	}

	// Create runtime config from PTY size
	cfg := core.RuntimeConfig{
		ScreenW:  pty.Window.Width,
		ScreenH:  pty.Window.Height,
		TickRate: 30,
		Seed:     time.Now().UnixNano(),
	}

	model := NewSessionModel(SessionDeps{
		Store:  s.store,
		GameID: s.config.GameID,
		Config: s.config.Config,
		Scope:  sshSession.User(),
		Logger: s.logger.With("session", sessionID(sshSession)),
	}, cfg)

	return model, []tea.ProgramOption{
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	}
}

// sessionID tags an SSH session for log correlation.
func sessionID(sshSession ssh.Session) string {
	if id, ok := sshSession.Context().Value(sessionIDKey{}).(string); ok {
		return id
	}
	return ""
}

type sessionIDKey struct{}

// loggingMiddleware assigns a session ID and logs SSH session events.
func (s *SSHServer) loggingMiddleware(next ssh.Handler) ssh.Handler {
	return func(sshSession ssh.Session) {
		id := uuid.NewString()
		sshSession.Context().SetValue(sessionIDKey{}, id)

		s.logger.Info("session started",
			"session", id,
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
		next(sshSession)
		s.logger.Info("session ended",
			"session", id,
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
	}
}

// ListenAndServe starts the SSH server and blocks until shutdown.
func (s *SSHServer) ListenAndServe() error {
	s.logger.Info("starting SSH server", "address", s.config.Address)

	// Setup signal handling for graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			s.logger.Error("server error", "error", err)
		}
	}()

	<-done
	s.logger.Info("shutting down...")
	return s.Shutdown()
}

// Shutdown gracefully stops the server.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err := s.server.Shutdown(ctx)
	if s.store != nil {
		s.store.Close()
	}
	return err
}

// Addr returns the server's listen address string.
func (s *SSHServer) Addr() string {
	return s.config.Address
}

// SessionDeps are the shared dependencies of a session model.
type SessionDeps struct {
	Store  *storage.Store
	GameID string
	Config config.BallSortConfig
	// Scope is the player name games and completions are saved under.
	Scope  string
	Logger *log.Logger
}

type sessionScreen int

const (
	screenSelector sessionScreen = iota
	screenGame
	screenScoreboard
)

// SessionModel manages the full session flow: selector -> game or
// scoreboard -> selector. This is the top-level model used for SSH sessions.
type SessionModel struct {
	deps       SessionDeps
	config     core.RuntimeConfig
	logger     *log.Logger
	active     sessionScreen
	selector   SelectorModel
	scoreboard ScoreboardModel
	gameModel  *Model
	quitting   bool
}

// NewSessionModel creates a new session model.
func NewSessionModel(deps SessionDeps, cfg core.RuntimeConfig) SessionModel {
	if deps.Scope == "" {
		deps.Scope = storage.DefaultScope
	}
	logger := deps.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	m := SessionModel{
		deps:   deps,
		config: cfg,
		logger: logger,
	}
	m.selector = m.newSelector()
	return m
}

func (m SessionModel) kv() registry.KeyValue {
	if m.deps.Store == nil {
		return nil
	}
	return m.deps.Store.Bucket(m.deps.Scope)
}

func (m SessionModel) newSelector() SelectorModel {
	hasSaved, best := false, ""
	if kv := m.kv(); kv != nil {
		_, hasSaved, _ = kv.Get(m.deps.Config.Storage.StateKey)
		if v, ok, _ := kv.Get(m.deps.Config.Storage.BestScoreKey); ok {
			if _, err := strconv.Atoi(v); err == nil {
				best = v
			}
		}
	}
	return NewSelectorModel(m.config.ScreenW, m.config.ScreenH, hasSaved, best)
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	return m.selector.Init()
}

// Update handles messages for the session.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Handle window resize globally
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.config.ScreenW = wsm.Width
		m.config.ScreenH = wsm.Height
	}

	switch m.active {
	case screenGame:
		return m.updateGame(msg)
	case screenScoreboard:
		return m.updateScoreboard(msg)
	default:
		return m.updateSelector(msg)
	}
}

// updateSelector handles updates while the start menu is shown.
func (m SessionModel) updateSelector(msg tea.Msg) (tea.Model, tea.Cmd) {
	newSel, cmd := m.selector.Update(msg)
	if sel, ok := newSel.(SelectorModel); ok {
		m.selector = sel
	}

	if m.selector.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	selected := m.selector.Selected()
	if selected == nil {
		return m, cmd
	}

	// The selector quits its own program on selection; here it hands over instead.
	if selected.Scoreboard {
		m.scoreboard = NewScoreboardModel(m.deps.Store, m.deps.Scope, m.config.ScreenW, m.config.ScreenH)
		m.active = screenScoreboard
		return m, nil
	}

	cfg := m.deps.Config
	env := registry.Env{
		Config: &cfg,
		Logger: m.logger,
		Layout: selected.Layout,
		Fresh:  !selected.Resume,
	}
	if kv := m.kv(); kv != nil {
		env.KV = kv
	}
	game, err := registry.Create(m.deps.GameID, env)
	if err != nil {
		m.logger.Error("cannot create game", "err", err)
		m.quitting = true
		return m, tea.Quit
	}

	gm := NewModel(game, m.config, Options{
		Store:     m.deps.Store,
		Scope:     m.deps.Scope,
		Logger:    m.logger,
		AllowBack: true,
	})
	gm.Start()
	m.gameModel = &gm
	m.active = screenGame
	m.logger.Info("game started", "user", m.deps.Scope, "resume", selected.Resume, "layout", selected.Layout)
	return m, m.gameModel.Init()
}

// updateScoreboard handles updates while the scoreboard is shown.
func (m SessionModel) updateScoreboard(msg tea.Msg) (tea.Model, tea.Cmd) {
	newBoard, cmd := m.scoreboard.Update(msg)
	if sb, ok := newBoard.(ScoreboardModel); ok {
		m.scoreboard = sb
	}

	if m.scoreboard.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}
	if m.scoreboard.IsGoingBack() {
		m.active = screenSelector
		m.selector = m.newSelector()
		return m, nil
	}
	return m, cmd
}

// updateGame handles updates while a game runs.
func (m SessionModel) updateGame(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.gameModel.Update(msg)
	if gameModel, ok := newModel.(Model); ok {
		m.gameModel = &gameModel
	}

	// Check if user quit entirely
	if m.gameModel.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	// Back to the start menu; the pending tick is dropped by the selector.
	if m.gameModel.BackToMenu() {
		m.active = screenSelector
		m.gameModel = nil
		m.selector = m.newSelector()
		return m, m.selector.Init()
	}

	return m, cmd
}

// View renders the current view.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}

	switch m.active {
	case screenGame:
		if m.gameModel != nil {
			return m.gameModel.View()
		}
	case screenScoreboard:
		return m.scoreboard.View()
	}
	return m.selector.View()
}
