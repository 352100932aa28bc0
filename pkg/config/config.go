// Package config provides configuration loading and management.
package config

import (
	"os"

	"github.com/user/decodekit/pkg/orchestrator"
	"gopkg.in/yaml.v3"
)

// Config represents the full configuration for decodekit.
type Config struct {
	// Input/Output
	Input     string `yaml:"input"`
	OutputDir string `yaml:"output_dir"`

	// Decoding
	Codec     string `yaml:"codec"` // auto-detect when empty
	MaxFrames int    `yaml:"max_frames"`

	// Per-frame output
	SaveYUV bool `yaml:"save_yuv"`
	SavePNG bool `yaml:"save_png"`

	// Contact sheet
	Sheet SheetConfig `yaml:"sheet"`

	// Codec library lookup
	LibDir string `yaml:"lib_dir"`

	// Logging
	LogLevel string `yaml:"log_level"`

	// Summary
	SummaryPath string `yaml:"summary"`
}

// SheetConfig represents contact sheet settings.
type SheetConfig struct {
	Enabled    bool `yaml:"enabled"`
	Columns    int  `yaml:"columns"`
	ThumbWidth int  `yaml:"thumb_width"`
}

// Defaults returns a Config with default values.
func Defaults() Config {
	return Config{
		OutputDir: "./decoded",

		SaveYUV: true,
		SavePNG: false,

		Sheet: SheetConfig{
			Enabled:    true,
			Columns:    4,
			ThumbWidth: 160,
		},

		LogLevel: "info",
	}
}

// LoadFromFile loads configuration from a YAML file.
func LoadFromFile(path string) (Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// ToOrchestratorConfig converts Config to orchestrator.Config.
func (c Config) ToOrchestratorConfig() orchestrator.Config {
	return orchestrator.Config{
		InputPath: c.Input,
		Codec:     c.Codec,

		MaxFrames: c.MaxFrames,

		SaveYUV: c.SaveYUV,
		SavePNG: c.SavePNG,

		SheetEnabled:    c.Sheet.Enabled,
		SheetColumns:    c.Sheet.Columns,
		SheetThumbWidth: c.Sheet.ThumbWidth,
	}
}
