package config

import (
	_ "embed"
)

//go:embed defaults/ballsort.yaml
var defaultBallSortYAML []byte

// DefaultBallSortConfig returns the default Ball Sort configuration.
func DefaultBallSortConfig() BallSortConfig {
	return BallSortConfig{
		Board: BoardConfig{
			Slots:    11,
			MaxBalls: 10,
			Layout:   LayoutCanonical,
		},
		History: HistoryConfig{
			Limit: 50,
		},
		Input: InputConfig{
			DragThreshold:     0.5,
			TapWindowMS:       200,
			LongPressMS:       500,
			TapKeepsSelection: true,
		},
		Geometry: GeometryConfig{
			Margin:     2,
			SlotWidth:  6,
			Top:        3,
			BallHeight: 1,
		},
		Storage: StorageConfig{
			StateKey:     "ballGameState",
			BestScoreKey: "ballGameBestScore",
		},
	}
}

// GetDefaultYAML returns the embedded default YAML.
func GetDefaultYAML() []byte {
	return defaultBallSortYAML
}
