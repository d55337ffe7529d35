// Package config handles viewer configuration loading and management.
package config

import "time"

// Config holds all viewer settings.
type Config struct {
	Graphics GraphicsConfig `yaml:"graphics"`
	Viewer   ViewerConfig   `yaml:"viewer"`
	Scene    SceneConfig    `yaml:"scene"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// GraphicsConfig holds display and rendering settings.
type GraphicsConfig struct {
	Width      int  `yaml:"width"`
	Height     int  `yaml:"height"`
	Fullscreen bool `yaml:"fullscreen"`
	VSync      bool `yaml:"vsync"`
	FPSLimit   int  `yaml:"fps_limit"`
}

// ViewerConfig holds the interaction defaults of the configurator view.
type ViewerConfig struct {
	AnimationSpeed float64       `yaml:"animation_speed"` // explode ramp rate, factor units per second
	TransitionTime time.Duration `yaml:"transition_time"` // camera preset transition duration
	InitialPreset  string        `yaml:"initial_preset"`
	SectionAxis    string        `yaml:"section_axis"` // x, y or z
	ShowFPS        bool          `yaml:"show_fps"`
	ScreenshotDir  string        `yaml:"screenshot_dir"`
	LOD            LODConfig     `yaml:"lod"`
}

// LODConfig holds the adaptive level-of-detail thresholds.
type LODConfig struct {
	LowFPS   int           `yaml:"low_fps"`  // below this, drop detail
	HighFPS  int           `yaml:"high_fps"` // above this, raise detail
	MaxLevel int           `yaml:"max_level"`
	Window   time.Duration `yaml:"window"`
}

// SceneConfig points at an optional scene description file.
type SceneConfig struct {
	Path  string `yaml:"path"`
	Watch bool   `yaml:"watch"` // reload the scene file when it changes on disk
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
			FPSLimit:   0,
		},
		Viewer: ViewerConfig{
			AnimationSpeed: 1.0,
			TransitionTime: 2 * time.Second,
			InitialPreset:  "overview",
			SectionAxis:    "x",
			ShowFPS:        false,
			ScreenshotDir:  "screenshots",
			LOD: LODConfig{
				LowFPS:   30,
				HighFPS:  50,
				MaxLevel: 2,
				Window:   time.Second,
			},
		},
		Scene: SceneConfig{
			Path:  "",
			Watch: false,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
