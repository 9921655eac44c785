package ballsort

import (
	"time"

	"github.com/vovakirdan/ballsort/internal/core"
)

// InputState is the state of the pointer interpreter.
type InputState int

const (
	StateIdle InputState = iota
	StateSelected
	StateDragging
)

// String returns a human-readable name for the state.
func (s InputState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSelected:
		return "selected"
	case StateDragging:
		return "dragging"
	default:
		return "unknown"
	}
}

// InputConfig holds gesture thresholds.
type InputConfig struct {
	// DragThreshold is the pointer travel, in layout units, that turns a
	// held press into a drag.
	DragThreshold float64
	// TapWindow is how fast a same-slot release must follow its press to
	// count as a tap.
	TapWindow time.Duration
	// LongPress is how long a press must be held without dragging to act
	// as a batch gesture.
	LongPress time.Duration
	// TapKeepsSelection keeps the slot selected after a quick tap on it, so
	// that click-then-click moves work. When false (the default) a quick
	// release on the selected slot cancels the selection.
	TapKeepsSelection bool
}

// DefaultInputConfig returns the pixel-space thresholds. A quick tap on the
// selected slot cancels the selection.
func DefaultInputConfig() InputConfig {
	return InputConfig{
		DragThreshold:     5,
		TapWindow:         200 * time.Millisecond,
		LongPress:         500 * time.Millisecond,
		TapKeepsSelection: false,
	}
}

// IntentKind is the semantic result of an input event.
type IntentKind int

const (
	IntentNone IntentKind = iota
	IntentSelect
	IntentDeselect
	IntentSingleMove
	IntentBatchMove
)

// String returns a human-readable name for the intent kind.
func (k IntentKind) String() string {
	switch k {
	case IntentNone:
		return "none"
	case IntentSelect:
		return "select"
	case IntentDeselect:
		return "deselect"
	case IntentSingleMove:
		return "single-move"
	case IntentBatchMove:
		return "batch-move"
	default:
		return "unknown"
	}
}

// Intent is what the interpreter asks the session to do.
type Intent struct {
	Kind   IntentKind
	Source int
	Target int
}

// IsMove reports whether the intent requests a board mutation.
func (i Intent) IsMove() bool {
	return i.Kind == IntentSingleMove || i.Kind == IntentBatchMove
}

// BoardView is the read-only board access the interpreter needs.
type BoardView interface {
	SlotCount() int
	MaxBalls() int
	Count(i int) int
	TopColor(i int) (Color, bool)
}

// Drag describes the ball following the pointer.
type Drag struct {
	Active bool
	Source int
	Color  Color
	// Pos is where the ball is drawn: the pointer plus the grab offset.
	Pos core.Point
}

// Interpreter turns press, move and release events into intents. It owns
// only selection and drag state and never touches the board.
type Interpreter struct {
	cfg    InputConfig
	layout Layout

	state    InputState
	selected int
	held     bool
	// fresh is set while the press that created the selection has not
	// been released yet.
	fresh bool

	pressAt  time.Time
	pressPos core.Point
	pointer  core.Point

	dragColor  Color
	dragOffset core.Point
}

// NewInterpreter creates an idle interpreter.
func NewInterpreter(cfg InputConfig, layout Layout) *Interpreter {
	return &Interpreter{
		cfg:      cfg,
		layout:   layout,
		selected: NoSlot,
	}
}

// State returns the current interpreter state.
func (in *Interpreter) State() InputState {
	return in.state
}

// Selected returns the selected slot, if any.
func (in *Interpreter) Selected() (int, bool) {
	if in.state == StateIdle {
		return NoSlot, false
	}
	return in.selected, true
}

// Drag returns the current drag feedback.
func (in *Interpreter) Drag() Drag {
	if in.state != StateDragging {
		return Drag{Source: NoSlot}
	}
	return Drag{
		Active: true,
		Source: in.selected,
		Color:  in.dragColor,
		Pos:    in.pointer.Add(in.dragOffset),
	}
}

// Cancel drops any selection or drag.
func (in *Interpreter) Cancel() {
	in.state = StateIdle
	in.selected = NoSlot
	in.held = false
	in.fresh = false
}

// PressAt handles a button press over slot (or NoSlot) at pos.
// A zero timestamp disables long-press detection for this press; the
// keyboard adapter relies on that.
func (in *Interpreter) PressAt(board BoardView, slot int, pos core.Point, at time.Time) Intent {
	in.pressAt = at
	in.pressPos = pos
	in.pointer = pos
	in.held = true

	switch in.state {
	case StateIdle:
		if slot == NoSlot || board.Count(slot) == 0 {
			in.held = false
			return Intent{Kind: IntentNone, Source: NoSlot, Target: NoSlot}
		}
		in.state = StateSelected
		in.selected = slot
		in.fresh = true
		return Intent{Kind: IntentSelect, Source: slot, Target: NoSlot}

	default:
		// A press while dragging means the release was lost; fall back to
		// plain selection handling.
		in.state = StateSelected
		if slot == in.selected {
			src := in.selected
			in.Cancel()
			return Intent{Kind: IntentDeselect, Source: src, Target: NoSlot}
		}
		in.fresh = false
		return Intent{Kind: IntentNone, Source: in.selected, Target: NoSlot}
	}
}

// MoveAt handles pointer motion. It only changes feedback state.
func (in *Interpreter) MoveAt(board BoardView, pos core.Point) {
	in.pointer = pos
	if in.state != StateSelected || !in.held {
		return
	}
	if pos.Dist(in.pressPos) <= in.cfg.DragThreshold {
		return
	}
	c, ok := board.TopColor(in.selected)
	if !ok {
		return
	}
	in.state = StateDragging
	in.dragColor = c
	center := in.layout.BallCenter(in.selected, board.Count(in.selected)-1)
	in.dragOffset = center.Sub(pos)
}

// ReleaseAt handles a button release over slot (or NoSlot). secondary marks
// a right-button release or the keyboard batch key.
func (in *Interpreter) ReleaseAt(board BoardView, slot int, pos core.Point, secondary bool, at time.Time) Intent {
	held := in.held
	in.held = false
	in.pointer = pos

	switch in.state {
	case StateIdle:
		return Intent{Kind: IntentNone, Source: NoSlot, Target: NoSlot}

	case StateDragging:
		src := in.selected
		in.Cancel()
		if slot == NoSlot || slot == src {
			return Intent{Kind: IntentDeselect, Source: src, Target: NoSlot}
		}
		return Intent{Kind: IntentBatchMove, Source: src, Target: slot}
	}

	src := in.selected
	var elapsed time.Duration
	if !in.pressAt.IsZero() && !at.IsZero() {
		elapsed = at.Sub(in.pressAt)
	}

	if slot == src {
		if in.cfg.TapKeepsSelection && in.fresh && elapsed < in.cfg.TapWindow {
			in.fresh = false
			return Intent{Kind: IntentNone, Source: src, Target: NoSlot}
		}
		in.Cancel()
		return Intent{Kind: IntentDeselect, Source: src, Target: NoSlot}
	}
	if slot == NoSlot {
		in.Cancel()
		return Intent{Kind: IntentDeselect, Source: src, Target: NoSlot}
	}

	alt := secondary || (held && !in.pressAt.IsZero() && elapsed >= in.cfg.LongPress)
	in.Cancel()
	if alt {
		return Intent{Kind: IntentBatchMove, Source: src, Target: slot}
	}
	return Intent{Kind: IntentSingleMove, Source: src, Target: slot}
}
