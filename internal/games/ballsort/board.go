// Package ballsort implements the ball sort puzzle: slots of colored balls
// that the player sorts until every filled slot holds a single color.
//
// The package holds pure game logic. Input arrives as slot-resolved press,
// move and release events; the platform layer owns devices and timing.
package ballsort

import (
	"errors"
	"fmt"
	"math/rand"
)

// Default board dimensions.
const (
	DefaultSlotCount = 11
	DefaultMaxBalls  = 10
)

// Slot store errors.
var (
	ErrSlotFull       = errors.New("ballsort: slot is full")
	ErrSlotEmpty      = errors.New("ballsort: slot is empty")
	ErrSlotOutOfRange = errors.New("ballsort: slot index out of range")
	ErrInvalidState   = errors.New("ballsort: invalid board state")
)

// Color identifies a ball color. Only equality is meaningful.
type Color int

// Slot is an ordered stack of balls, bottom first. The last element is the top.
type Slot []Color

// Top returns the top ball of the slot.
func (s Slot) Top() (Color, bool) {
	if len(s) == 0 {
		return 0, false
	}
	return s[len(s)-1], true
}

// Board is the slot store. It enforces slot capacity on every mutation.
type Board struct {
	slots    []Slot
	maxBalls int
}

// NewBoard creates a board of empty slots.
func NewBoard(slotCount, maxBalls int) *Board {
	if slotCount < 0 {
		slotCount = 0
	}
	b := &Board{
		slots:    make([]Slot, slotCount),
		maxBalls: maxBalls,
	}
	for i := range b.slots {
		b.slots[i] = make(Slot, 0, maxBalls)
	}
	return b
}

// Deal names a starting arrangement.
type Deal string

const (
	// DealCanonical leaves slot 0 empty and fills slot i with color i-1.
	DealCanonical Deal = "canonical"
	// DealStriped fills every slot after the first with colors 0..K-1 bottom to top.
	DealStriped Deal = "striped"
	// DealShuffled distributes the balls of every color at random.
	DealShuffled Deal = "shuffled"
)

// ParseDeal converts a layout name into a Deal. Empty means canonical.
func ParseDeal(name string) (Deal, error) {
	switch Deal(name) {
	case "", DealCanonical:
		return DealCanonical, nil
	case DealStriped:
		return DealStriped, nil
	case DealShuffled:
		return DealShuffled, nil
	default:
		return "", fmt.Errorf("ballsort: unknown layout %q", name)
	}
}

// NewDealtBoard creates a board in the given starting arrangement.
// rng is only used by DealShuffled; nil falls back to a fixed seed.
func NewDealtBoard(deal Deal, slotCount, maxBalls int, rng *rand.Rand) *Board {
	switch deal {
	case DealStriped:
		return StripedBoard(slotCount, maxBalls)
	case DealShuffled:
		if rng == nil {
			rng = rand.New(rand.NewSource(1))
		}
		return ShuffledBoard(slotCount, maxBalls, rng)
	default:
		return CanonicalBoard(slotCount, maxBalls)
	}
}

// CanonicalBoard returns the reset layout: slot 0 empty, slot i full of color i-1.
func CanonicalBoard(slotCount, maxBalls int) *Board {
	b := NewBoard(slotCount, maxBalls)
	for i := 1; i < slotCount; i++ {
		for j := 0; j < maxBalls; j++ {
			b.slots[i] = append(b.slots[i], Color(i-1))
		}
	}
	return b
}

// StripedBoard returns a layout where every filled slot holds one ball of
// each color in order.
func StripedBoard(slotCount, maxBalls int) *Board {
	b := NewBoard(slotCount, maxBalls)
	colors := slotCount - 1
	for i := 1; i < slotCount; i++ {
		for j := 0; j < maxBalls; j++ {
			b.slots[i] = append(b.slots[i], Color(j%colors))
		}
	}
	return b
}

// ShuffledBoard returns a random layout with maxBalls balls of each color
// spread over slots 1..slotCount-1. Slot 0 starts empty.
func ShuffledBoard(slotCount, maxBalls int, rng *rand.Rand) *Board {
	colors := slotCount - 1
	balls := make([]Color, 0, colors*maxBalls)
	for c := 0; c < colors; c++ {
		for j := 0; j < maxBalls; j++ {
			balls = append(balls, Color(c))
		}
	}

	var b *Board
	// A deal that is already solved is only possible with a single color.
	for attempt := 0; attempt < 8; attempt++ {
		rng.Shuffle(len(balls), func(i, j int) { balls[i], balls[j] = balls[j], balls[i] })
		b = NewBoard(slotCount, maxBalls)
		for i := 1; i < slotCount; i++ {
			start := (i - 1) * maxBalls
			b.slots[i] = append(b.slots[i], balls[start:start+maxBalls]...)
		}
		if !IsSolved(b) {
			break
		}
	}
	return b
}

// BoardFromSlots builds a board from raw slot contents, validating the shape:
// the slot count, per-slot capacity, the color range and that every color
// appears exactly maxBalls times.
func BoardFromSlots(slots [][]Color, slotCount, maxBalls int) (*Board, error) {
	if len(slots) != slotCount {
		return nil, fmt.Errorf("%w: %d slots, expected %d", ErrInvalidState, len(slots), slotCount)
	}

	colors := slotCount - 1
	counts := make([]int, colors)
	b := NewBoard(slotCount, maxBalls)
	for i, s := range slots {
		if len(s) > maxBalls {
			return nil, fmt.Errorf("%w: slot %d holds %d balls, capacity %d", ErrInvalidState, i, len(s), maxBalls)
		}
		for _, c := range s {
			if c < 0 || int(c) >= colors {
				return nil, fmt.Errorf("%w: slot %d has unknown color %d", ErrInvalidState, i, c)
			}
			counts[c]++
		}
		b.slots[i] = append(b.slots[i], s...)
	}
	for c, n := range counts {
		if n != maxBalls {
			return nil, fmt.Errorf("%w: color %d appears %d times, expected %d", ErrInvalidState, c, n, maxBalls)
		}
	}
	return b, nil
}

// SlotCount returns the number of slots.
func (b *Board) SlotCount() int {
	return len(b.slots)
}

// MaxBalls returns the capacity of every slot.
func (b *Board) MaxBalls() int {
	return b.maxBalls
}

// ColorCount returns the number of distinct colors the board is dealt with.
func (b *Board) ColorCount() int {
	if len(b.slots) == 0 {
		return 0
	}
	return len(b.slots) - 1
}

func (b *Board) inRange(i int) bool {
	return i >= 0 && i < len(b.slots)
}

// Get returns a copy of slot i.
func (b *Board) Get(i int) (Slot, error) {
	if !b.inRange(i) {
		return nil, fmt.Errorf("%w: %d", ErrSlotOutOfRange, i)
	}
	return append(Slot(nil), b.slots[i]...), nil
}

// TopColor returns the top ball of slot i. ok is false for an empty or
// out-of-range slot.
func (b *Board) TopColor(i int) (Color, bool) {
	if !b.inRange(i) {
		return 0, false
	}
	return b.slots[i].Top()
}

// Count returns the number of balls in slot i, or 0 when out of range.
func (b *Board) Count(i int) int {
	if !b.inRange(i) {
		return 0
	}
	return len(b.slots[i])
}

// Space returns how many more balls slot i can take.
func (b *Board) Space(i int) int {
	if !b.inRange(i) {
		return 0
	}
	return b.maxBalls - len(b.slots[i])
}

// RunLength returns the length of the same-color run at the top of slot i.
func (b *Board) RunLength(i int) int {
	top, ok := b.TopColor(i)
	if !ok {
		return 0
	}
	s := b.slots[i]
	n := 0
	for j := len(s) - 1; j >= 0 && s[j] == top; j-- {
		n++
	}
	return n
}

// Push places a ball on top of slot i.
func (b *Board) Push(i int, c Color) error {
	if !b.inRange(i) {
		return fmt.Errorf("%w: %d", ErrSlotOutOfRange, i)
	}
	if len(b.slots[i]) >= b.maxBalls {
		return ErrSlotFull
	}
	b.slots[i] = append(b.slots[i], c)
	return nil
}

// PopTop removes and returns the top ball of slot i.
func (b *Board) PopTop(i int) (Color, error) {
	if !b.inRange(i) {
		return 0, fmt.Errorf("%w: %d", ErrSlotOutOfRange, i)
	}
	s := b.slots[i]
	if len(s) == 0 {
		return 0, ErrSlotEmpty
	}
	c := s[len(s)-1]
	b.slots[i] = s[:len(s)-1]
	return c, nil
}

// TotalBalls returns the number of balls on the board.
func (b *Board) TotalBalls() int {
	n := 0
	for _, s := range b.slots {
		n += len(s)
	}
	return n
}

// Slots returns a deep copy of all slot contents.
func (b *Board) Slots() [][]Color {
	out := make([][]Color, len(b.slots))
	for i, s := range b.slots {
		out[i] = append(make([]Color, 0, len(s)), s...)
	}
	return out
}

// Clone returns an independent copy of the board.
func (b *Board) Clone() *Board {
	c := &Board{
		slots:    make([]Slot, len(b.slots)),
		maxBalls: b.maxBalls,
	}
	for i, s := range b.slots {
		c.slots[i] = append(make(Slot, 0, b.maxBalls), s...)
	}
	return c
}

// Equal reports whether two boards hold the same balls in the same places.
func (b *Board) Equal(o *Board) bool {
	if o == nil || len(b.slots) != len(o.slots) || b.maxBalls != o.maxBalls {
		return false
	}
	for i := range b.slots {
		if len(b.slots[i]) != len(o.slots[i]) {
			return false
		}
		for j := range b.slots[i] {
			if b.slots[i][j] != o.slots[i][j] {
				return false
			}
		}
	}
	return true
}

// replace swaps in raw slot contents without validation. Callers pass
// snapshot copies they own.
func (b *Board) replace(slots [][]Color) {
	b.slots = make([]Slot, len(slots))
	for i, s := range slots {
		b.slots[i] = append(make(Slot, 0, b.maxBalls), s...)
	}
}
