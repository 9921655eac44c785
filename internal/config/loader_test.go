package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestEmbeddedDefaultsMatchHardcoded(t *testing.T) {
	cfg := DefaultBallSortConfig()
	if err := yaml.Unmarshal(GetDefaultYAML(), &cfg); err != nil {
		t.Fatalf("embedded YAML does not parse: %v", err)
	}
	if cfg != DefaultBallSortConfig() {
		t.Errorf("embedded defaults drifted from DefaultBallSortConfig():\n%+v\n%+v", cfg, DefaultBallSortConfig())
	}
}

func TestDefaultConfigValid(t *testing.T) {
	if err := DefaultBallSortConfig().Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
}

func TestLoadCustomPathPartialOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	data := []byte("board:\n  slots: 6\n  max_balls: 4\nhistory:\n  limit: 5\n")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadBallSort(path)
	if err != nil {
		t.Fatalf("LoadBallSort() failed: %v", err)
	}

	if cfg.Board.Slots != 6 || cfg.Board.MaxBalls != 4 || cfg.History.Limit != 5 {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	// Untouched sections keep their defaults
	if cfg.Storage.StateKey != "ballGameState" {
		t.Errorf("state key = %q, expected default", cfg.Storage.StateKey)
	}
	if cfg.Input.LongPressMS != 500 {
		t.Errorf("long press = %d, expected default 500", cfg.Input.LongPressMS)
	}
}

func TestLoadCustomPathErrors(t *testing.T) {
	dir := t.TempDir()

	if _, err := LoadBallSort(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("missing custom config should be an error")
	}

	bad := filepath.Join(dir, "bad.yaml")
	os.WriteFile(bad, []byte("board: [unclosed"), 0o600)
	if _, err := LoadBallSort(bad); err == nil {
		t.Error("malformed YAML should be an error")
	}

	invalid := filepath.Join(dir, "invalid.yaml")
	os.WriteFile(invalid, []byte("board:\n  slots: 1\n"), 0o600)
	_, err := LoadBallSort(invalid)
	if err == nil || !strings.Contains(err.Error(), "board.slots") {
		t.Errorf("invalid slot count should be reported, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*BallSortConfig)
		field  string
	}{
		{"zero capacity", func(c *BallSortConfig) { c.Board.MaxBalls = 0 }, "board.max_balls"},
		{"unknown layout", func(c *BallSortConfig) { c.Board.Layout = "spiral" }, "board.layout"},
		{"zero history", func(c *BallSortConfig) { c.History.Limit = 0 }, "history.limit"},
		{"negative drag", func(c *BallSortConfig) { c.Input.DragThreshold = -1 }, "drag_threshold"},
		{"zero slot width", func(c *BallSortConfig) { c.Geometry.SlotWidth = 0 }, "slot_width"},
		{"same keys", func(c *BallSortConfig) { c.Storage.BestScoreKey = c.Storage.StateKey }, "must differ"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultBallSortConfig()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tc.field) {
				t.Errorf("Validate() = %v, expected mention of %q", err, tc.field)
			}
		})
	}
}

func TestApplyLayout(t *testing.T) {
	cfg := DefaultBallSortConfig()

	if err := ApplyLayout(&cfg, ""); err != nil || cfg.Board.Layout != LayoutCanonical {
		t.Errorf("empty layout should be a no-op, got %q, %v", cfg.Board.Layout, err)
	}
	if err := ApplyLayout(&cfg, LayoutShuffled); err != nil || cfg.Board.Layout != LayoutShuffled {
		t.Errorf("ApplyLayout(shuffled) = %q, %v", cfg.Board.Layout, err)
	}
	if err := ApplyLayout(&cfg, "bogus"); err == nil {
		t.Error("unknown layout should be rejected")
	}
}
