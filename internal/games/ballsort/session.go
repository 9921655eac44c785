package ballsort

import (
	"errors"
	"io"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/ballsort/internal/core"
)

// Settings configure a session.
type Settings struct {
	SlotCount    int
	MaxBalls     int
	HistoryLimit int
	Deal         Deal
	Input        InputConfig
	Layout       Layout
}

// DefaultSettings returns the standard 11-slot board with pixel geometry.
func DefaultSettings() Settings {
	return Settings{
		SlotCount:    DefaultSlotCount,
		MaxBalls:     DefaultMaxBalls,
		HistoryLimit: DefaultHistoryLimit,
		Deal:         DealCanonical,
		Input:        DefaultInputConfig(),
		Layout: Layout{
			Margin:     20,
			SlotWidth:  60,
			Top:        20,
			BallHeight: 40,
			SlotCount:  DefaultSlotCount,
			MaxBalls:   DefaultMaxBalls,
		},
	}
}

// Session owns one game: the board, undo history, input state, move counter
// and best score. All mutations go through it.
type Session struct {
	settings Settings
	board    *Board
	history  *History
	input    *Interpreter
	gateway  *Gateway
	logger   *log.Logger
	rng      *rand.Rand

	moveCount int
	best      int
	hasBest   bool
	outcome   Outcome
}

// NewSession creates a session on a freshly dealt board. gateway may be nil
// for an unpersisted game; logger may be nil.
func NewSession(settings Settings, gateway *Gateway, logger *log.Logger, rng *rand.Rand) *Session {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	settings.Layout.SlotCount = settings.SlotCount
	settings.Layout.MaxBalls = settings.MaxBalls

	s := &Session{
		settings: settings,
		history:  NewHistory(settings.HistoryLimit),
		input:    NewInterpreter(settings.Input, settings.Layout),
		gateway:  gateway,
		logger:   logger,
		rng:      rng,
	}
	s.board = NewDealtBoard(settings.Deal, settings.SlotCount, settings.MaxBalls, rng)
	return s
}

// Start loads the best score and the saved game, if any. It reports whether
// a saved game was resumed. Corrupt saved data is logged and ignored.
func (s *Session) Start() bool {
	if s.gateway == nil {
		return false
	}

	if best, ok, err := s.gateway.LoadBestScore(); err != nil {
		s.logger.Warn("ignoring best score", "err", err)
	} else if ok {
		s.best, s.hasBest = best, true
	}

	saved, ok, err := s.gateway.Load()
	if err != nil {
		s.logger.Warn("ignoring saved game", "err", err)
		return false
	}
	if !ok {
		return false
	}
	board, entries, err := saved.Restore(s.settings.SlotCount, s.settings.MaxBalls)
	if err != nil {
		s.logger.Warn("ignoring saved game", "err", err)
		return false
	}

	s.board = board
	s.moveCount = saved.MoveCount
	s.history.restore(entries)
	s.input.Cancel()
	s.outcome = OutcomeNone
	if IsSolved(s.board) && s.moveCount > 0 {
		s.outcome = OutcomeSolved
	}
	s.logger.Debug("resumed saved game", "moves", s.moveCount, "history", s.history.Len())
	return true
}

// Board returns read-only access to the live board.
func (s *Session) Board() BoardView {
	return s.board
}

// Slots returns a copy of the live board contents.
func (s *Session) Slots() [][]Color {
	return s.board.Slots()
}

// MoveCount returns the number of balls moved so far.
func (s *Session) MoveCount() int {
	return s.moveCount
}

// BestScore returns the best score, if one was recorded.
func (s *Session) BestScore() (int, bool) {
	return s.best, s.hasBest
}

// HistoryLen returns the number of undo steps available.
func (s *Session) HistoryLen() int {
	return s.history.Len()
}

// History returns copies of the undo snapshots, oldest first.
func (s *Session) History() []Snapshot {
	return s.history.Entries()
}

// Outcome returns the completion outcome of the last move.
func (s *Session) Outcome() Outcome {
	return s.outcome
}

// Solved reports whether the board is solved.
func (s *Session) Solved() bool {
	return IsSolved(s.board)
}

// Layout returns the geometry used for pointer input.
func (s *Session) Layout() Layout {
	return s.settings.Layout
}

// Settings returns the session settings.
func (s *Session) Settings() Settings {
	return s.settings
}

// InputState returns the interpreter state.
func (s *Session) InputState() InputState {
	return s.input.State()
}

// Selected returns the selected slot, if any.
func (s *Session) Selected() (int, bool) {
	return s.input.Selected()
}

// Drag returns the drag feedback for rendering.
func (s *Session) Drag() Drag {
	return s.input.Drag()
}

// Move transfers balls from source to target. A rejected move leaves the
// board, history and counter untouched and reports Moved == 0.
func (s *Session) Move(kind MoveKind, source, target int) MoveResult {
	res := MoveResult{Kind: kind, Source: source, Target: target, MoveCount: s.moveCount}

	k := Transferable(s.board, kind, source, target)
	if k == 0 {
		s.logger.Debug("move rejected", "kind", kind, "from", source, "to", target)
		return res
	}

	s.history.Push(s.board, s.moveCount)
	if err := transfer(s.board, source, target, k); err != nil {
		// Transferable guarantees the transfer fits; a failure here is a bug.
		s.logger.Error("transfer failed", "err", err)
		if snap, ok := s.history.Pop(); ok {
			s.board.replace(snap.Slots)
		}
		return res
	}
	s.moveCount += k
	s.outcome = OutcomeNone
	s.input.Cancel()
	s.save()

	res.Moved = k
	res.MoveCount = s.moveCount
	res.Outcome = s.CheckCompletion()
	s.logger.Debug("move", "kind", kind, "from", source, "to", target, "balls", k, "moves", s.moveCount)
	return res
}

// CheckCompletion evaluates the board and records a new best score when
// solved in fewer moves. Calling it again without a move returns the same
// outcome and changes nothing.
func (s *Session) CheckCompletion() Outcome {
	// A board dealt sorted is not a completion until a move was made.
	if s.moveCount == 0 || !IsSolved(s.board) {
		s.outcome = OutcomeNone
		return s.outcome
	}
	if s.outcome != OutcomeNone {
		return s.outcome
	}
	if s.hasBest && s.moveCount >= s.best {
		s.outcome = OutcomeSolved
		return s.outcome
	}

	s.best, s.hasBest = s.moveCount, true
	if s.gateway != nil {
		if err := s.gateway.SaveBestScore(s.best); err != nil {
			s.logger.Warn("best score not saved", "err", err)
		}
	}
	s.logger.Info("new record", "moves", s.moveCount)
	s.outcome = OutcomeNewRecord
	return s.outcome
}

// Undo restores the state before the last move. It returns false when
// there is nothing to undo.
func (s *Session) Undo() bool {
	snap, ok := s.history.Pop()
	if !ok {
		return false
	}
	s.board.replace(snap.Slots)
	s.moveCount = snap.MoveCount
	s.input.Cancel()
	s.outcome = OutcomeNone
	s.save()
	s.logger.Debug("undo", "moves", s.moveCount, "history", s.history.Len())
	return true
}

// Reset clears the saved game and deals a new board with the configured
// layout. The best score is kept.
func (s *Session) Reset() {
	s.ResetWith(s.settings.Deal)
}

// ResetWith clears the saved game and deals a new board with the given layout.
func (s *Session) ResetWith(deal Deal) {
	s.settings.Deal = deal
	s.board = NewDealtBoard(deal, s.settings.SlotCount, s.settings.MaxBalls, s.rng)
	s.history.Clear()
	s.moveCount = 0
	s.outcome = OutcomeNone
	s.input.Cancel()
	if s.gateway != nil {
		if err := s.gateway.Clear(); err != nil {
			s.logger.Warn("saved game not cleared", "err", err)
		}
	}
	s.logger.Debug("reset", "layout", deal)
}

func (s *Session) save() {
	if s.gateway == nil {
		return
	}
	if err := s.gateway.Save(s.board, s.moveCount, s.history); err != nil {
		s.logger.Warn("game state not saved", "err", err)
	}
}

// PressAt feeds a pointer press at p.
func (s *Session) PressAt(p core.Point, at time.Time) Intent {
	slot := s.settings.Layout.PointToSlotIndex(p)
	return s.input.PressAt(s.board, slot, p, at)
}

// MoveAt feeds pointer motion at p.
func (s *Session) MoveAt(p core.Point) {
	s.input.MoveAt(s.board, p)
}

// ReleaseAt feeds a pointer release at p and applies the resulting move.
// secondary marks a right-button release.
func (s *Session) ReleaseAt(p core.Point, secondary bool, at time.Time) MoveResult {
	slot := s.settings.Layout.PointToSlotIndex(p)
	intent := s.input.ReleaseAt(s.board, slot, p, secondary, at)
	return s.apply(intent)
}

// ClickSlot is the keyboard modality: the first click presses on a slot,
// a click on another slot releases there. batch turns the release into a
// batch move. Presses are untimed so long-press never triggers.
func (s *Session) ClickSlot(slot int, batch bool) MoveResult {
	p := s.settings.Layout.SlotPoint(slot)
	if sel, ok := s.input.Selected(); ok && sel != slot {
		return s.apply(s.input.ReleaseAt(s.board, slot, p, batch, time.Time{}))
	}
	s.input.PressAt(s.board, slot, p, time.Time{})
	return MoveResult{Source: NoSlot, Target: NoSlot, MoveCount: s.moveCount, Outcome: s.outcome}
}

// CancelSelection drops the current selection.
func (s *Session) CancelSelection() {
	s.input.Cancel()
}

func (s *Session) apply(intent Intent) MoveResult {
	switch intent.Kind {
	case IntentSingleMove:
		return s.Move(MoveSingle, intent.Source, intent.Target)
	case IntentBatchMove:
		return s.Move(MoveBatch, intent.Source, intent.Target)
	default:
		return MoveResult{Source: intent.Source, Target: intent.Target, MoveCount: s.moveCount, Outcome: s.outcome}
	}
}

// IsInvalidState reports whether err describes unusable saved data.
func IsInvalidState(err error) bool {
	return errors.Is(err, ErrInvalidState)
}
