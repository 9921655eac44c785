package tui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/ballsort/internal/core"
)

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestMapKey(t *testing.T) {
	km := NewKeyMapper()

	tests := []struct {
		name   string
		msg    tea.KeyMsg
		action core.Action
		quit   bool
	}{
		{"left arrow", tea.KeyMsg{Type: tea.KeyLeft}, core.ActionLeft, false},
		{"vim h", runeKey('h'), core.ActionLeft, false},
		{"right arrow", tea.KeyMsg{Type: tea.KeyRight}, core.ActionRight, false},
		{"d", runeKey('d'), core.ActionRight, false},
		{"space", tea.KeyMsg{Type: tea.KeySpace}, core.ActionSelect, false},
		{"enter", tea.KeyMsg{Type: tea.KeyEnter}, core.ActionSelect, false},
		{"batch", runeKey('x'), core.ActionBatch, false},
		{"undo", runeKey('u'), core.ActionUndo, false},
		{"backspace", tea.KeyMsg{Type: tea.KeyBackspace}, core.ActionUndo, false},
		{"restart", runeKey('r'), core.ActionRestart, false},
		{"escape", tea.KeyMsg{Type: tea.KeyEsc}, core.ActionCancel, false},
		{"quit", runeKey('q'), core.ActionQuit, true},
		{"ctrl+c", tea.KeyMsg{Type: tea.KeyCtrlC}, core.ActionQuit, true},
		{"unbound", runeKey('z'), core.ActionNone, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			action, quit := km.MapKey(tt.msg)
			if action != tt.action || quit != tt.quit {
				t.Errorf("MapKey(%q) = %v, %v; expected %v, %v", tt.msg.String(), action, quit, tt.action, tt.quit)
			}
		})
	}
}

func TestMapKeyToFrame(t *testing.T) {
	km := NewKeyMapper()
	frame := core.NewInputFrame()

	if km.MapKeyToFrame(runeKey('u'), &frame) {
		t.Error("u is not a quit key")
	}
	if !frame.Has(core.ActionUndo) {
		t.Error("frame should hold undo")
	}
	if !km.MapKeyToFrame(runeKey('q'), &frame) {
		t.Error("q should quit")
	}
	if frame.Has(core.ActionQuit) {
		t.Error("quit is reported, not stored in the frame")
	}
}

func TestMapMouse(t *testing.T) {
	km := NewKeyMapper()
	at := time.Now()

	ev, ok := km.MapMouse(tea.MouseMsg{X: 10, Y: 5, Action: tea.MouseActionPress, Button: tea.MouseButtonRight}, at)
	if !ok || ev.Kind != core.PointerPress || ev.Pos != core.Pt(10, 5) || !ev.At.Equal(at) {
		t.Fatalf("press = %+v, %v", ev, ok)
	}

	ev, ok = km.MapMouse(tea.MouseMsg{X: 11, Y: 4, Action: tea.MouseActionMotion, Button: tea.MouseButtonRight}, at)
	if !ok || ev.Kind != core.PointerMove {
		t.Errorf("motion = %+v, %v", ev, ok)
	}

	// Releases without a button use the pressed one.
	ev, ok = km.MapMouse(tea.MouseMsg{X: 4, Y: 5, Action: tea.MouseActionRelease, Button: tea.MouseButtonNone}, at)
	if !ok || ev.Kind != core.PointerRelease || !ev.Alt {
		t.Errorf("release after right press = %+v, %v", ev, ok)
	}

	km.MapMouse(tea.MouseMsg{Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}, at)
	ev, _ = km.MapMouse(tea.MouseMsg{Action: tea.MouseActionRelease, Button: tea.MouseButtonNone}, at)
	if ev.Alt {
		t.Error("left release should not be secondary")
	}

	ignored := []tea.MouseMsg{
		{Action: tea.MouseActionPress, Button: tea.MouseButtonWheelUp},
		{Action: tea.MouseActionPress, Button: tea.MouseButtonMiddle},
	}
	for _, msg := range ignored {
		if _, ok := km.MapMouse(msg, at); ok {
			t.Errorf("%v should be ignored", msg.Button)
		}
	}
}

func TestMapKeyToMenuAction(t *testing.T) {
	km := NewKeyMapper()

	tests := []struct {
		msg      tea.KeyMsg
		expected MenuAction
	}{
		{tea.KeyMsg{Type: tea.KeyUp}, MenuActionUp},
		{runeKey('k'), MenuActionUp},
		{tea.KeyMsg{Type: tea.KeyDown}, MenuActionDown},
		{runeKey('j'), MenuActionDown},
		{tea.KeyMsg{Type: tea.KeyEnter}, MenuActionSelect},
		{tea.KeyMsg{Type: tea.KeyEsc}, MenuActionBack},
		{runeKey('q'), MenuActionQuit},
		{runeKey('z'), MenuActionNone},
	}

	for _, tt := range tests {
		if got := km.MapKeyToMenuAction(tt.msg); got != tt.expected {
			t.Errorf("MapKeyToMenuAction(%q) = %v, expected %v", tt.msg.String(), got, tt.expected)
		}
	}
}
