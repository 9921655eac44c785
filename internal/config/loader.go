package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LoadBallSort loads Ball Sort configuration.
// Search order: customPath -> ~/.ballsort/configs/ballsort.yaml -> ./configs/ballsort.yaml -> embedded default
//
// Files are decoded on top of the defaults, so a partial file only
// overrides the keys it names.
func LoadBallSort(customPath string) (BallSortConfig, error) {
	cfg := DefaultBallSortConfig()

	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		if err := cfg.Validate(); err != nil {
			return cfg, fmt.Errorf("invalid config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory
	if userCfgPath := userConfigPath("ballsort.yaml"); userCfgPath != "" {
		if loaded, ok := tryLoad(userCfgPath); ok {
			return loaded, nil
		}
	}

	// Try local configs directory
	if loaded, ok := tryLoad(filepath.Join("configs", "ballsort.yaml")); ok {
		return loaded, nil
	}

	// Use embedded default YAML
	if err := yaml.Unmarshal(defaultBallSortYAML, &cfg); err != nil || cfg.Validate() != nil {
		return DefaultBallSortConfig(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// tryLoad reads an optional config file. Unreadable or invalid files are skipped.
func tryLoad(path string) (BallSortConfig, bool) {
	cfg := DefaultBallSortConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, false
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, false
	}
	if err := cfg.Validate(); err != nil {
		return cfg, false
	}
	return cfg, true
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".ballsort", "configs", filename)
}

// ApplyLayout overrides the starting layout when name is non-empty.
func ApplyLayout(cfg *BallSortConfig, name string) error {
	if name == "" {
		return nil
	}
	switch name {
	case LayoutCanonical, LayoutStriped, LayoutShuffled:
		cfg.Board.Layout = name
		return nil
	default:
		return fmt.Errorf("unknown layout %q (want canonical, striped or shuffled)", name)
	}
}
