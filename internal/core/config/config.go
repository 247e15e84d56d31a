// Package config handles configuration loading and validation for khatt.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/colonyops/khatt/internal/core/reconstruct"
	"github.com/colonyops/khatt/internal/core/styles"
	"github.com/colonyops/khatt/internal/core/viewport"
)

// Config holds the application configuration.
type Config struct {
	Viewer  ViewerConfig `yaml:"viewer"`
	Editor  EditorConfig `yaml:"editor"`
	Export  ExportConfig `yaml:"export"`
	TUI     TUIConfig    `yaml:"tui"`
	DataDir string       `yaml:"-"` // set by caller, not from config file
}

// ViewerConfig tunes the image viewer.
type ViewerConfig struct {
	ZoomStep    float64       `yaml:"zoom_step"`
	WheelSettle time.Duration `yaml:"wheel_settle"`
	PanStep     int           `yaml:"pan_step"`  // cells moved per pan key
	Smoothing   bool          `yaml:"smoothing"` // ease zoom changes
}

// EditorConfig tunes text reconstruction and edit history.
type EditorConfig struct {
	CommitDelay     time.Duration `yaml:"commit_delay"`
	LineThreshold   float64       `yaml:"line_threshold"`
	MaxHistory      int           `yaml:"max_history"` // 0 = unlimited
	StripDiacritics bool          `yaml:"strip_diacritics"`
}

// ExportConfig controls where exported text goes.
type ExportConfig struct {
	Dir         string `yaml:"dir"`          // default directory for exports, empty = next to the source
	CopyCommand string `yaml:"copy_command"` // e.g. "pbcopy"; empty uses the system clipboard
}

// TUIConfig holds display settings.
type TUIConfig struct {
	Theme     string `yaml:"theme"`
	ShowBrief bool   `yaml:"show_brief"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Viewer: ViewerConfig{
			ZoomStep:    viewport.ZoomStep,
			WheelSettle: viewport.WheelSettle,
			PanStep:     4,
			Smoothing:   true,
		},
		Editor: EditorConfig{
			CommitDelay:   500 * time.Millisecond,
			LineThreshold: reconstruct.DefaultLineThreshold,
		},
		TUI: TUIConfig{
			Theme:     styles.DefaultTheme,
			ShowBrief: true,
		},
	}
}

// Load reads configuration from the given path and sets the data directory.
// If configPath is empty or doesn't exist, returns defaults with the provided dataDir.
func Load(configPath, dataDir string) (*Config, error) {
	cfg := DefaultConfig()
	cfg.DataDir = dataDir

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}

			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}

			// Re-set dataDir since Unmarshal may have cleared it
			cfg.DataDir = dataDir
		}
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for options explicitly zeroed in the file.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.Viewer.ZoomStep == 0 {
		c.Viewer.ZoomStep = defaults.Viewer.ZoomStep
	}
	if c.Viewer.WheelSettle == 0 {
		c.Viewer.WheelSettle = defaults.Viewer.WheelSettle
	}
	if c.Viewer.PanStep == 0 {
		c.Viewer.PanStep = defaults.Viewer.PanStep
	}
	if c.Editor.CommitDelay == 0 {
		c.Editor.CommitDelay = defaults.Editor.CommitDelay
	}
	if c.Editor.LineThreshold == 0 {
		c.Editor.LineThreshold = defaults.Editor.LineThreshold
	}
	if c.TUI.Theme == "" {
		c.TUI.Theme = defaults.TUI.Theme
	}
}

// ViewportOptions returns the viewport controller options.
func (c *Config) ViewportOptions() viewport.Options {
	return viewport.Options{
		ZoomStep:    c.Viewer.ZoomStep,
		WheelSettle: c.Viewer.WheelSettle,
	}
}

// Palette returns the configured theme palette, falling back to the default.
func (c *Config) Palette() styles.Palette {
	if p, ok := styles.GetPalette(c.TUI.Theme); ok {
		return p
	}
	p, _ := styles.GetPalette(styles.DefaultTheme)
	return p
}

// LogFile returns the default log file path.
func (c *Config) LogFile() string {
	return filepath.Join(c.DataDir, "khatt.log")
}

// ExportDir returns the configured export directory, or empty for "next to
// the source".
func (c *Config) ExportDir() string {
	return c.Export.Dir
}
