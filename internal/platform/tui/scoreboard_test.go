package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func pressScoreboard(m ScoreboardModel, msgs ...tea.Msg) ScoreboardModel {
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(ScoreboardModel)
	}
	return m
}

func TestScoreboardSwitchesPlayers(t *testing.T) {
	store := openTestStore(t)
	for _, c := range []struct {
		scope string
		moves int
	}{{"alice", 12}, {"bob", 30}, {"bob", 25}} {
		if _, err := store.RecordCompletion(c.scope, "canonical", c.moves); err != nil {
			t.Fatal(err)
		}
	}

	m := NewScoreboardModel(store, "bob", 80, 24)
	tests := []struct {
		name     string
		msg      tea.Msg
		expected []string
	}{
		{"opens on current player", nil, []string{"FEWEST MOVES - bob", "< player 2/2 >", "Solved 2   Best 25"}},
		{"next wraps around", tea.KeyMsg{Type: tea.KeyTab}, []string{"FEWEST MOVES - alice", "< player 1/2 >", "Solved 1   Best 12"}},
		{"prev wraps around", tea.KeyMsg{Type: tea.KeyLeft}, []string{"FEWEST MOVES - bob"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.msg != nil {
				m = pressScoreboard(m, tt.msg)
			}
			view := m.View()
			for _, want := range tt.expected {
				if !strings.Contains(view, want) {
					t.Errorf("view missing %q:\n%s", want, view)
				}
			}
		})
	}
}

func TestScoreboardEmptyAndExit(t *testing.T) {
	m := NewScoreboardModel(openTestStore(t), "alice", 80, 24)
	view := m.View()
	if !strings.Contains(view, "No solved games yet.") {
		t.Errorf("empty scoreboard should say so:\n%s", view)
	}
	if strings.Contains(view, "player 1/") {
		t.Error("player switcher needs more than one player")
	}

	back := pressScoreboard(m, tea.KeyMsg{Type: tea.KeyEsc})
	if !back.IsGoingBack() || back.IsQuitting() || back.View() != "" {
		t.Error("esc should go back to the menu")
	}
	quit := pressScoreboard(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if !quit.IsQuitting() || quit.IsGoingBack() {
		t.Error("q should quit")
	}
}
