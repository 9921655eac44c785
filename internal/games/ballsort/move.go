package ballsort

// MoveKind selects how many balls a move carries.
type MoveKind int

const (
	// MoveSingle carries exactly one ball.
	MoveSingle MoveKind = iota
	// MoveBatch carries the whole same-color run from the top, as far as
	// the target has room.
	MoveBatch
)

// String returns a human-readable name for the move kind.
func (k MoveKind) String() string {
	switch k {
	case MoveSingle:
		return "single"
	case MoveBatch:
		return "batch"
	default:
		return "unknown"
	}
}

// Outcome is the completion result reported after a move.
type Outcome int

const (
	OutcomeNone      Outcome = iota // puzzle not solved
	OutcomeSolved                   // solved, best score unchanged
	OutcomeNewRecord                // solved with a new best score
)

// String returns a human-readable name for the outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeNone:
		return "none"
	case OutcomeSolved:
		return "solved"
	case OutcomeNewRecord:
		return "new record"
	default:
		return "unknown"
	}
}

// MoveResult describes what a move request did.
type MoveResult struct {
	Kind   MoveKind
	Source int
	Target int
	// Moved is the number of balls transferred; 0 means the move was rejected.
	Moved     int
	MoveCount int
	Outcome   Outcome
}

// Applied reports whether the move changed the board.
func (r MoveResult) Applied() bool {
	return r.Moved > 0
}

// Transferable returns how many balls a move of the given kind would carry
// from source to target. Zero means the move is illegal.
func Transferable(b *Board, kind MoveKind, source, target int) int {
	if !b.inRange(source) || !b.inRange(target) || source == target {
		return 0
	}
	if b.Count(source) == 0 {
		return 0
	}
	space := b.Space(target)
	if space <= 0 {
		return 0
	}
	if kind == MoveSingle {
		return 1
	}
	return min(b.RunLength(source), space)
}

// transfer moves k balls from the top of source onto target. The balls are
// one color, so their relative order is preserved. Callers check legality
// with Transferable first.
func transfer(b *Board, source, target, k int) error {
	for i := 0; i < k; i++ {
		c, err := b.PopTop(source)
		if err != nil {
			return err
		}
		if err := b.Push(target, c); err != nil {
			return err
		}
	}
	return nil
}

// IsSolved reports whether every non-empty slot is full with a single color.
func IsSolved(b *Board) bool {
	for _, s := range b.slots {
		if len(s) == 0 {
			continue
		}
		if len(s) != b.maxBalls {
			return false
		}
		bottom := s[0]
		for _, c := range s[1:] {
			if c != bottom {
				return false
			}
		}
	}
	return true
}
