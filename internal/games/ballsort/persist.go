package ballsort

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Default persistent store keys.
const (
	DefaultStateKey     = "ballGameState"
	DefaultBestScoreKey = "ballGameBestScore"
)

// KV is the key-value store the gateway persists into.
type KV interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Delete(key string) error
}

// SavedGame is the persisted game state.
type SavedGame struct {
	Slots     [][]Color  `json:"slots"`
	MoveCount int        `json:"moveCount"`
	History   []Snapshot `json:"history"`
}

// Gateway serializes game state and the best score into a KV store.
type Gateway struct {
	kv       KV
	stateKey string
	bestKey  string
}

// NewGateway creates a gateway. Empty keys fall back to the defaults.
func NewGateway(kv KV, stateKey, bestKey string) *Gateway {
	if stateKey == "" {
		stateKey = DefaultStateKey
	}
	if bestKey == "" {
		bestKey = DefaultBestScoreKey
	}
	return &Gateway{kv: kv, stateKey: stateKey, bestKey: bestKey}
}

// Save writes the board, move counter and full history.
func (g *Gateway) Save(b *Board, moveCount int, h *History) error {
	saved := SavedGame{
		Slots:     b.Slots(),
		MoveCount: moveCount,
		History:   h.Entries(),
	}
	data, err := json.Marshal(saved)
	if err != nil {
		return fmt.Errorf("persist: cannot encode game state: %w", err)
	}
	if err := g.kv.Set(g.stateKey, string(data)); err != nil {
		return fmt.Errorf("persist: cannot save game state: %w", err)
	}
	return nil
}

// Load reads the saved game. ok is false when nothing is stored. A stored
// value that does not decode returns an error wrapping ErrInvalidState.
func (g *Gateway) Load() (SavedGame, bool, error) {
	raw, ok, err := g.kv.Get(g.stateKey)
	if err != nil {
		return SavedGame{}, false, fmt.Errorf("persist: cannot load game state: %w", err)
	}
	if !ok || strings.TrimSpace(raw) == "" {
		return SavedGame{}, false, nil
	}

	var saved SavedGame
	if err := json.Unmarshal([]byte(raw), &saved); err != nil {
		return SavedGame{}, false, fmt.Errorf("%w: %v", ErrInvalidState, err)
	}
	if saved.Slots == nil {
		return SavedGame{}, false, fmt.Errorf("%w: missing slots", ErrInvalidState)
	}
	if saved.MoveCount < 0 {
		return SavedGame{}, false, fmt.Errorf("%w: negative move count", ErrInvalidState)
	}
	return saved, true, nil
}

// Clear removes the saved game. The best score is kept.
func (g *Gateway) Clear() error {
	if err := g.kv.Delete(g.stateKey); err != nil {
		return fmt.Errorf("persist: cannot clear game state: %w", err)
	}
	return nil
}

// LoadBestScore reads the best score. ok is false when no record exists.
func (g *Gateway) LoadBestScore() (int, bool, error) {
	raw, ok, err := g.kv.Get(g.bestKey)
	if err != nil {
		return 0, false, fmt.Errorf("persist: cannot load best score: %w", err)
	}
	if !ok {
		return 0, false, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 0 {
		return 0, false, fmt.Errorf("%w: best score %q", ErrInvalidState, raw)
	}
	return n, true, nil
}

// SaveBestScore writes the best score as a decimal string.
func (g *Gateway) SaveBestScore(n int) error {
	if err := g.kv.Set(g.bestKey, strconv.Itoa(n)); err != nil {
		return fmt.Errorf("persist: cannot save best score: %w", err)
	}
	return nil
}

// ClearBestScore removes the best score record.
func (g *Gateway) ClearBestScore() error {
	if err := g.kv.Delete(g.bestKey); err != nil {
		return fmt.Errorf("persist: cannot clear best score: %w", err)
	}
	return nil
}

// Restore validates a saved game against the board dimensions and returns
// the live board, the history entries and the move counter.
func (s SavedGame) Restore(slotCount, maxBalls int) (*Board, []Snapshot, error) {
	b, err := BoardFromSlots(s.Slots, slotCount, maxBalls)
	if err != nil {
		return nil, nil, err
	}
	for i, e := range s.History {
		if _, err := BoardFromSlots(e.Slots, slotCount, maxBalls); err != nil {
			return nil, nil, fmt.Errorf("history entry %d: %w", i, err)
		}
		if e.MoveCount < 0 {
			return nil, nil, fmt.Errorf("%w: history entry %d has negative move count", ErrInvalidState, i)
		}
	}
	return b, s.History, nil
}
