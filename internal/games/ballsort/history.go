package ballsort

// DefaultHistoryLimit is the number of undo snapshots kept.
const DefaultHistoryLimit = 50

// Snapshot is a board and move counter captured before a move.
type Snapshot struct {
	Slots     [][]Color `json:"slots"`
	MoveCount int       `json:"moveCount"`
}

func (s Snapshot) clone() Snapshot {
	out := Snapshot{MoveCount: s.MoveCount, Slots: make([][]Color, len(s.Slots))}
	for i, slot := range s.Slots {
		out.Slots[i] = append(make([]Color, 0, len(slot)), slot...)
	}
	return out
}

// History is a bounded undo stack, oldest first.
type History struct {
	entries []Snapshot
	limit   int
}

// NewHistory creates a history holding at most limit snapshots.
func NewHistory(limit int) *History {
	if limit < 1 {
		limit = DefaultHistoryLimit
	}
	return &History{limit: limit}
}

// Push records a deep copy of the board. The oldest entry is dropped on overflow.
func (h *History) Push(b *Board, moveCount int) {
	h.entries = append(h.entries, Snapshot{Slots: b.Slots(), MoveCount: moveCount})
	if over := len(h.entries) - h.limit; over > 0 {
		h.entries = append(h.entries[:0:0], h.entries[over:]...)
	}
}

// Pop removes and returns the newest snapshot.
func (h *History) Pop() (Snapshot, bool) {
	if len(h.entries) == 0 {
		return Snapshot{}, false
	}
	last := h.entries[len(h.entries)-1]
	h.entries = h.entries[:len(h.entries)-1]
	return last, true
}

// Len returns the number of stored snapshots.
func (h *History) Len() int {
	return len(h.entries)
}

// Limit returns the maximum number of stored snapshots.
func (h *History) Limit() int {
	return h.limit
}

// Entries returns deep copies of the stored snapshots, oldest first.
func (h *History) Entries() []Snapshot {
	out := make([]Snapshot, len(h.entries))
	for i, e := range h.entries {
		out[i] = e.clone()
	}
	return out
}

// Clear drops all snapshots.
func (h *History) Clear() {
	h.entries = nil
}

// restore replaces the stack with loaded snapshots, keeping the newest
// when there are more than the limit.
func (h *History) restore(entries []Snapshot) {
	if over := len(entries) - h.limit; over > 0 {
		entries = entries[over:]
	}
	h.entries = make([]Snapshot, len(entries))
	for i, e := range entries {
		h.entries[i] = e.clone()
	}
}
