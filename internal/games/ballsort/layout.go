package ballsort

import (
	"math"

	"github.com/vovakirdan/ballsort/internal/core"
)

// NoSlot is returned when a point is not over any slot.
const NoSlot = -1

// Layout maps pointer coordinates to slots. Slot i spans
// [Margin+i*SlotWidth, Margin+(i+1)*SlotWidth) horizontally and the shared
// vertical extent [Top, Top+Height], both ends included.
type Layout struct {
	Margin     float64
	SlotWidth  float64
	Top        float64
	BallHeight float64
	SlotCount  int
	MaxBalls   int
}

// Height returns the vertical extent of a slot.
func (l Layout) Height() float64 {
	return float64(l.MaxBalls) * l.BallHeight
}

// Width returns the horizontal extent of all slots plus the left margin.
func (l Layout) Width() float64 {
	return l.Margin + float64(l.SlotCount)*l.SlotWidth
}

// PointToSlotIndex returns the slot under p, or NoSlot.
func (l Layout) PointToSlotIndex(p core.Point) int {
	if l.SlotWidth <= 0 {
		return NoSlot
	}
	if p.Y < l.Top || p.Y > l.Top+l.Height() {
		return NoSlot
	}
	i := int(math.Floor((p.X - l.Margin) / l.SlotWidth))
	if i < 0 || i >= l.SlotCount {
		return NoSlot
	}
	return i
}

// SlotCenterX returns the horizontal center of slot i.
func (l Layout) SlotCenterX(i int) float64 {
	return l.Margin + (float64(i)+0.5)*l.SlotWidth
}

// BallCenter returns the center of the ball at stack position index
// (0 = bottom) in slot i.
func (l Layout) BallCenter(i, index int) core.Point {
	return core.Pt(
		l.SlotCenterX(i),
		l.Top+l.Height()-(float64(index)+0.5)*l.BallHeight,
	)
}

// SlotPoint returns a point inside slot i, used by the keyboard adapter.
func (l Layout) SlotPoint(i int) core.Point {
	return core.Pt(l.SlotCenterX(i), l.Top+l.Height()/2)
}

// TouchPoint converts a touch position in client coordinates into board
// coordinates. origin is the board's client-space offset and scale the
// device pixel ratio between board and client units.
func TouchPoint(client, origin core.Point, scale float64) core.Point {
	if scale <= 0 {
		scale = 1
	}
	return client.Sub(origin).Scale(scale)
}
