package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/ballsort/internal/core"
)

// colorStyles maps core.Color to lipgloss styles.
var colorStyles = map[core.Color]lipgloss.Style{
	core.ColorDefault:     lipgloss.NewStyle(),
	core.ColorRed:         lipgloss.NewStyle().Foreground(lipgloss.Color("#FF0000")),
	core.ColorOrange:      lipgloss.NewStyle().Foreground(lipgloss.Color("#FF7F00")),
	core.ColorYellow:      lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFF00")),
	core.ColorGreen:       lipgloss.NewStyle().Foreground(lipgloss.Color("#00FF00")),
	core.ColorCyan:        lipgloss.NewStyle().Foreground(lipgloss.Color("#00FFFF")),
	core.ColorBlue:        lipgloss.NewStyle().Foreground(lipgloss.Color("#0000FF")),
	core.ColorPurple:      lipgloss.NewStyle().Foreground(lipgloss.Color("#8B00FF")),
	core.ColorPink:        lipgloss.NewStyle().Foreground(lipgloss.Color("#FF69B4")),
	core.ColorBrown:       lipgloss.NewStyle().Foreground(lipgloss.Color("#A0522D")),
	core.ColorGray:        lipgloss.NewStyle().Foreground(lipgloss.Color("#808080")),
	core.ColorWhite:       lipgloss.NewStyle().Foreground(lipgloss.Color("7")),
	core.ColorBrightWhite: lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Bold(true),
	core.ColorDim:         lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
}

// RenderScreen converts a Screen buffer to a styled string for display.
// Groups adjacent cells with the same color to minimize ANSI escape sequences.
func RenderScreen(s *core.Screen) string {
	var sb strings.Builder
	// Pre-allocate with extra space for ANSI codes
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	for y := range s.Height() {
		if y > 0 {
			sb.WriteRune('\n')
		}

		// Group consecutive cells with the same color for efficiency
		x := 0
		for x < s.Width() {
			cell := s.GetCell(x, y)
			startColor := cell.Color

			// Collect consecutive cells with same color
			var run strings.Builder
			for x < s.Width() {
				cell = s.GetCell(x, y)
				if cell.Color != startColor {
					break
				}
				run.WriteRune(cell.Rune)
				x++
			}

			// Apply style to the run
			style, ok := colorStyles[startColor]
			if !ok {
				style = colorStyles[core.ColorDefault]
			}
			sb.WriteString(style.Render(run.String()))
		}
	}
	return sb.String()
}
