package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/ballsort/internal/config"
	"github.com/vovakirdan/ballsort/internal/core"
)

// Selection holds the user's choice from the start menu.
type Selection struct {
	// Resume continues the saved game.
	Resume bool
	// Layout is the starting layout for a new game.
	Layout string
	// Scoreboard opens the scoreboard instead of a game.
	Scoreboard bool
}

type selectorOption struct {
	label     string
	selection Selection
}

// SelectorModel lets users continue their saved game or start a new one
// in a chosen layout.
type SelectorModel struct {
	options   []selectorOption
	cursor    int
	width     int
	height    int
	best      string
	keyMapper *KeyMapper
	selection Selection
	choosing  bool
	quitting  bool
}

// NewSelectorModel creates the start menu. hasSaved adds the continue
// option; best is shown under the title when non-empty.
func NewSelectorModel(width, height int, hasSaved bool, best string) SelectorModel {
	var options []selectorOption
	if hasSaved {
		options = append(options, selectorOption{"Continue saved game", Selection{Resume: true}})
	}
	options = append(options,
		selectorOption{"New game (sorted start)", Selection{Layout: config.LayoutCanonical}},
		selectorOption{"New game (striped)", Selection{Layout: config.LayoutStriped}},
		selectorOption{"New game (shuffled)", Selection{Layout: config.LayoutShuffled}},
		selectorOption{"Scoreboard", Selection{Scoreboard: true}},
	)

	return SelectorModel{
		options:   options,
		width:     width,
		height:    height,
		best:      best,
		keyMapper: NewKeyMapper(),
		choosing:  true,
	}
}

// Init initializes the model.
func (m SelectorModel) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (m SelectorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	}
	return m, nil
}

func (m SelectorModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.keyMapper.MapKeyToMenuAction(msg) {
	case MenuActionQuit, MenuActionBack:
		m.quitting = true
		return m, tea.Quit
	case MenuActionUp:
		if m.cursor > 0 {
			m.cursor--
		}
	case MenuActionDown:
		if m.cursor < len(m.options)-1 {
			m.cursor++
		}
	case MenuActionSelect:
		m.choosing = false
		m.selection = m.options[m.cursor].selection
		return m, tea.Quit
	}

	return m, nil
}

// View renders the menu.
func (m SelectorModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText("B A L L   S O R T", m.width))
	b.WriteString("\n\n")
	if m.best != "" {
		b.WriteString(centerText("Best: "+m.best+" moves", m.width))
		b.WriteString("\n\n")
	}

	for i, opt := range m.options {
		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}
		b.WriteString(centerText(fmt.Sprintf("%s%s", cursor, opt.label), m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(centerText("Enter: Select  |  Q: Quit", m.width))

	return b.String()
}

// Selected returns the selection, or nil if still choosing.
func (m SelectorModel) Selected() *Selection {
	if m.choosing {
		return nil
	}
	return &m.selection
}

// IsQuitting returns true if user wants to quit.
func (m SelectorModel) IsQuitting() bool {
	return m.quitting
}

// RunSelector runs the start menu and returns the selection, or nil when
// the user quit.
func RunSelector(cfg core.RuntimeConfig, hasSaved bool, best string) (*Selection, error) {
	model := NewSelectorModel(cfg.ScreenW, cfg.ScreenH, hasSaved, best)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return nil, err
	}

	m, ok := finalModel.(SelectorModel)
	if !ok || m.IsQuitting() {
		return nil, nil
	}

	return m.Selected(), nil
}

// centerText centers text within the given width.
func centerText(text string, width int) string {
	if len(text) >= width {
		return text
	}
	padding := (width - len(text)) / 2
	return strings.Repeat(" ", padding) + text
}
