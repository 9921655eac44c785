// Package config provides YAML-based configuration loading for Ball Sort.
package config

import (
	"errors"
	"fmt"
)

// BallSortConfig contains all configuration for the Ball Sort puzzle.
type BallSortConfig struct {
	Board    BoardConfig    `yaml:"board"`
	History  HistoryConfig  `yaml:"history"`
	Input    InputConfig    `yaml:"input"`
	Geometry GeometryConfig `yaml:"geometry"`
	Storage  StorageConfig  `yaml:"storage"`
}

// BoardConfig defines the board dimensions and starting deal.
type BoardConfig struct {
	Slots    int    `yaml:"slots"`
	MaxBalls int    `yaml:"max_balls"`
	Layout   string `yaml:"layout"`
}

// HistoryConfig defines the undo history bound.
type HistoryConfig struct {
	Limit int `yaml:"limit"`
}

// InputConfig defines pointer gesture thresholds.
type InputConfig struct {
	DragThreshold     float64 `yaml:"drag_threshold"`
	TapWindowMS       int     `yaml:"tap_window_ms"`
	LongPressMS       int     `yaml:"long_press_ms"`
	TapKeepsSelection bool    `yaml:"tap_keeps_selection"`
}

// GeometryConfig defines where slots sit in pointer space.
type GeometryConfig struct {
	Margin     float64 `yaml:"margin"`
	SlotWidth  float64 `yaml:"slot_width"`
	Top        float64 `yaml:"top"`
	BallHeight float64 `yaml:"ball_height"`
}

// StorageConfig names the persistent store keys.
type StorageConfig struct {
	StateKey     string `yaml:"state_key"`
	BestScoreKey string `yaml:"best_score_key"`
}

// Layout names accepted by board.layout.
const (
	LayoutCanonical = "canonical"
	LayoutStriped   = "striped"
	LayoutShuffled  = "shuffled"
)

// Validate checks that the configuration describes a playable board.
func (c BallSortConfig) Validate() error {
	var errs []error

	if c.Board.Slots < 2 {
		errs = append(errs, fmt.Errorf("board.slots must be at least 2, got %d", c.Board.Slots))
	}
	if c.Board.MaxBalls < 1 {
		errs = append(errs, fmt.Errorf("board.max_balls must be positive, got %d", c.Board.MaxBalls))
	}
	switch c.Board.Layout {
	case "", LayoutCanonical, LayoutStriped, LayoutShuffled:
	default:
		errs = append(errs, fmt.Errorf("board.layout %q is not one of canonical, striped, shuffled", c.Board.Layout))
	}
	if c.History.Limit < 1 {
		errs = append(errs, fmt.Errorf("history.limit must be positive, got %d", c.History.Limit))
	}
	if c.Input.DragThreshold < 0 {
		errs = append(errs, fmt.Errorf("input.drag_threshold must not be negative"))
	}
	if c.Input.TapWindowMS < 0 || c.Input.LongPressMS < 0 {
		errs = append(errs, fmt.Errorf("input durations must not be negative"))
	}
	if c.Geometry.SlotWidth <= 0 || c.Geometry.BallHeight <= 0 {
		errs = append(errs, fmt.Errorf("geometry.slot_width and geometry.ball_height must be positive"))
	}
	if c.Storage.StateKey == "" || c.Storage.BestScoreKey == "" {
		errs = append(errs, fmt.Errorf("storage keys must not be empty"))
	}
	if c.Storage.StateKey != "" && c.Storage.StateKey == c.Storage.BestScoreKey {
		errs = append(errs, fmt.Errorf("storage.state_key and storage.best_score_key must differ"))
	}

	return errors.Join(errs...)
}
