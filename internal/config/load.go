package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"

	"github.com/Faultbox/ev-configurator/internal/viewer/section"
)

// Load loads configuration with priority: defaults < file < flags.
func Load() (*Config, error) {
	// Start with defaults
	cfg := Default()

	// Try to load from file (explicit path takes priority)
	configPath := ConfigPath()
	if configPath == "" {
		configPath = findConfigFile()
	}

	if configPath != "" {
		if err := loadFromFile(cfg, configPath); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", configPath, err)
		}
	}

	// Apply CLI flags (highest priority)
	applyFlags(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// findConfigFile looks for config in standard locations.
func findConfigFile() string {
	candidates := []string{
		"./config.yaml",
		filepath.Join(ConfigDir(), "config.yaml"),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// ConfigDir returns the OS-appropriate config directory.
func ConfigDir() string {
	switch runtime.GOOS {
	case "darwin":
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", "EVConfigurator")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "EVConfigurator")
	default: // Linux and others
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "ev-configurator")
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "ev-configurator")
	}
}

// Validate rejects settings the viewer cannot run with.
func (c *Config) Validate() error {
	if c.Viewer.AnimationSpeed <= 0 {
		return fmt.Errorf("viewer.animation_speed must be > 0, got %v", c.Viewer.AnimationSpeed)
	}
	if _, err := section.ParseAxis(c.Viewer.SectionAxis); err != nil {
		return fmt.Errorf("viewer.section_axis: %w", err)
	}
	lod := c.Viewer.LOD
	if lod.LowFPS >= lod.HighFPS {
		return fmt.Errorf("viewer.lod.low_fps (%d) must be below high_fps (%d)", lod.LowFPS, lod.HighFPS)
	}
	if lod.MaxLevel < 0 || lod.Window <= 0 {
		return fmt.Errorf("viewer.lod: max_level must be >= 0 and window > 0")
	}
	return nil
}

// loadFromFile loads config from a YAML file, merging with existing values.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}
