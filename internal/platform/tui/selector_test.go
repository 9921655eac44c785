package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/ballsort/internal/config"
	"github.com/vovakirdan/ballsort/internal/core"
)

func pressSelector(m SelectorModel, msgs ...tea.Msg) SelectorModel {
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(SelectorModel)
	}
	return m
}

func TestSelectorOptions(t *testing.T) {
	down := tea.KeyMsg{Type: tea.KeyDown}
	enter := tea.KeyMsg{Type: tea.KeyEnter}

	tests := []struct {
		name     string
		hasSaved bool
		moves    []tea.Msg
		expected Selection
	}{
		{"continue first when saved", true, []tea.Msg{enter}, Selection{Resume: true}},
		{"sorted start without save", false, []tea.Msg{enter}, Selection{Layout: config.LayoutCanonical}},
		{"striped", false, []tea.Msg{down, enter}, Selection{Layout: config.LayoutStriped}},
		{"shuffled after continue", true, []tea.Msg{down, down, down, enter}, Selection{Layout: config.LayoutShuffled}},
		{"scoreboard", false, []tea.Msg{down, down, down, down, down, enter}, Selection{Scoreboard: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewSelectorModel(80, 24, tt.hasSaved, "")
			if m.Selected() != nil {
				t.Fatal("nothing selected yet")
			}
			m = pressSelector(m, tt.moves...)
			sel := m.Selected()
			if sel == nil || *sel != tt.expected {
				t.Errorf("Selected() = %+v, expected %+v", sel, tt.expected)
			}
		})
	}
}

func TestSelectorQuitAndView(t *testing.T) {
	m := NewSelectorModel(80, 24, false, "42")
	view := m.View()
	if !strings.Contains(view, "Best: 42 moves") {
		t.Errorf("view should show the best score:\n%s", view)
	}
	if strings.Contains(view, "Continue") {
		t.Error("continue is only offered with a saved game")
	}

	m = pressSelector(m, runeKey('q'))
	if !m.IsQuitting() || m.Selected() != nil {
		t.Error("q should quit without a selection")
	}
	if m.View() != "" {
		t.Error("quitting view should be empty")
	}
}

func TestSessionModelFlow(t *testing.T) {
	store := openTestStore(t)
	m := NewSessionModel(SessionDeps{
		Store:  store,
		GameID: "ballsort",
		Config: config.DefaultBallSortConfig(),
		Scope:  "alice",
	}, testRuntimeConfig())

	step := func(msg tea.Msg) {
		t.Helper()
		next, _ := m.Update(msg)
		m = next.(SessionModel)
	}

	// Start a sorted game and make one move.
	step(tea.KeyMsg{Type: tea.KeyEnter})
	if m.active != screenGame || m.gameModel == nil {
		t.Fatalf("expected the game screen, got %v", m.active)
	}
	step(tea.KeyMsg{Type: tea.KeyRight})
	step(tea.KeyMsg{Type: tea.KeySpace})
	step(TickMsg{})
	step(tea.KeyMsg{Type: tea.KeyLeft})
	step(tea.KeyMsg{Type: tea.KeySpace})
	step(TickMsg{})
	if m.gameModel.State().Score != 1 {
		t.Fatalf("score = %d", m.gameModel.State().Score)
	}

	// Back to the menu: the game was saved under the player's bucket.
	step(runeKey('b'))
	if m.active != screenSelector {
		t.Fatalf("expected the selector, got %v", m.active)
	}
	if _, ok, _ := store.Bucket("alice").Get(config.DefaultBallSortConfig().Storage.StateKey); !ok {
		t.Error("game should be saved for alice")
	}
	if _, ok, _ := store.Bucket("bob").Get(config.DefaultBallSortConfig().Storage.StateKey); ok {
		t.Error("bob has no saved game")
	}
	if !strings.Contains(m.View(), "Continue saved game") {
		t.Error("selector should offer to continue")
	}

	// Continue restores the move count.
	step(tea.KeyMsg{Type: tea.KeyEnter})
	step(TickMsg{})
	if m.gameModel.State().Score != 1 {
		t.Errorf("resumed score = %d", m.gameModel.State().Score)
	}

	step(runeKey('q'))
	if !m.quitting || m.View() != "" {
		t.Error("q in game should end the session")
	}
}

func TestSessionModelScoreboard(t *testing.T) {
	store := openTestStore(t)
	if _, err := store.RecordCompletion("alice", "canonical", 12); err != nil {
		t.Fatal(err)
	}
	m := NewSessionModel(SessionDeps{
		Store:  store,
		GameID: "ballsort",
		Config: config.DefaultBallSortConfig(),
		Scope:  "alice",
	}, core.RuntimeConfig{ScreenW: 100, ScreenH: 30})

	for range 4 {
		next, _ := m.Update(tea.KeyMsg{Type: tea.KeyDown})
		m = next.(SessionModel)
	}
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(SessionModel)
	if m.active != screenScoreboard {
		t.Fatalf("expected the scoreboard, got %v", m.active)
	}
	view := m.View()
	if !strings.Contains(view, "FEWEST MOVES - alice") {
		t.Errorf("scoreboard should open on the current player:\n%s", view)
	}
	if !strings.Contains(view, "Solved 1   Best 12") {
		t.Errorf("scoreboard should show the player's stats:\n%s", view)
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = next.(SessionModel)
	if m.active != screenSelector {
		t.Errorf("esc should return to the selector, got %v", m.active)
	}
}

func TestSessionModelWithoutStore(t *testing.T) {
	m := NewSessionModel(SessionDeps{GameID: "ballsort", Config: config.DefaultBallSortConfig()}, testRuntimeConfig())
	if m.kv() != nil {
		t.Error("no store means no bucket")
	}
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(SessionModel)
	if m.active != screenGame {
		t.Errorf("game should start without storage, got %v", m.active)
	}
}
