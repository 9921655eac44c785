package ballsort

import (
	"fmt"
	"math"
	"strings"

	"github.com/vovakirdan/ballsort/internal/core"
)

// Rows used under the slots: floor, cursor and message line.
const hudRowsBelow = 3

const (
	ballRune   = '●'
	wallRune   = '│'
	cursorRune = '▲'
)

// Render draws the board, the selection, the dragged ball and the status
// lines. It never mutates the session.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()

	if g.tooSmall {
		l := g.settings.Layout
		dst.DrawTextCentered(dst.Height()/2, "Window too small", core.ColorWhite)
		dst.DrawTextCentered(dst.Height()/2+1,
			fmt.Sprintf("need %dx%d", int(l.Width())+1, int(l.Top+l.Height())+hudRowsBelow), core.ColorDim)
		return
	}
	if g.session == nil {
		return
	}

	s := g.session
	l := s.Layout()
	board := s.Board()
	drag := s.Drag()
	selected, hasSel := s.Selected()

	// Status line
	best := "-"
	if b, ok := s.BestScore(); ok {
		best = fmt.Sprintf("%d", b)
	}
	dst.DrawTextColored(int(l.Margin), 0, "BALL SORT", core.ColorBrightWhite)
	dst.DrawText(int(l.Margin)+12, 0,
		fmt.Sprintf("Moves: %d   Best: %s   Undo: %d", s.MoveCount(), best, s.HistoryLen()))

	floorY := int(l.Top + l.Height())
	for i := 0; i < board.SlotCount(); i++ {
		x0 := int(l.Margin + float64(i)*l.SlotWidth)
		inner := int(l.SlotWidth) - 2
		wallColor := core.ColorDim
		if hasSel && i == selected {
			wallColor = core.ColorBrightWhite
		}

		dst.DrawTextColored(x0+1, int(l.Top)-1, fmt.Sprintf("%2d", i+1), wallColor)
		for y := int(l.Top); y < floorY; y++ {
			dst.SetColored(x0, y, wallRune, wallColor)
			dst.SetColored(x0+inner, y, wallRune, wallColor)
		}
		dst.DrawTextColored(x0, floorY, "└"+strings.Repeat("─", inner-1)+"┘", wallColor)

		n := board.Count(i)
		if drag.Active && drag.Source == i {
			n-- // the top ball follows the pointer
		}
		for j := 0; j < n; j++ {
			c, _ := ballAt(s, i, j)
			x, y := ballCell(l.BallCenter(i, j))
			dst.SetColored(x, y, ballRune, core.BallColor(int(c)))
		}

		if i == g.cursor {
			x, _ := ballCell(l.BallCenter(i, 0))
			dst.SetColored(x, floorY+1, cursorRune, core.ColorBrightWhite)
		}
	}

	if drag.Active {
		x, y := ballCell(drag.Pos)
		dst.SetColored(x, y, ballRune, core.BallColor(int(drag.Color)))
	}

	msgY := floorY + 2
	switch s.Outcome() {
	case OutcomeNewRecord:
		dst.DrawTextCentered(msgY, fmt.Sprintf("Solved in %d moves - new record! Press R for a new game", s.MoveCount()), core.ColorGreen)
	case OutcomeSolved:
		dst.DrawTextCentered(msgY, fmt.Sprintf("Solved in %d moves (best %s). Press R for a new game", s.MoveCount(), best), core.ColorGreen)
	default:
		if g.message != "" {
			dst.DrawTextCentered(msgY, g.message, core.ColorYellow)
		}
	}
}

// ballCell converts a ball center into the screen cell it is drawn in.
func ballCell(p core.Point) (int, int) {
	return int(math.Floor(p.X)) - 1, int(math.Floor(p.Y))
}

func ballAt(s *Session, slot, index int) (Color, bool) {
	sl, err := s.board.Get(slot)
	if err != nil || index >= len(sl) {
		return 0, false
	}
	return sl[index], true
}

// BoardText renders slot contents as plain text, one row per ball level,
// top level first. Colors print as their 0-based index in hexadecimal.
func BoardText(slots [][]Color, maxBalls int) string {
	var sb strings.Builder
	for level := maxBalls - 1; level >= 0; level-- {
		for i, s := range slots {
			if i > 0 {
				sb.WriteByte(' ')
			}
			if level < len(s) {
				fmt.Fprintf(&sb, "%x", int(s[level]))
			} else {
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	for i := range slots {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteByte('-')
	}
	sb.WriteByte('\n')
	return sb.String()
}
