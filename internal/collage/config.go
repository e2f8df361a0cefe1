package collage

import (
	"fmt"
	"image/color"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the collage layout settings. All of these can come from a
// YAML file, command-line flags, or both (flags win).
type Config struct {
	Width         int    `yaml:"width"`
	Height        int    `yaml:"height"` // 0 = derive from row count
	Columns       int    `yaml:"columns"`
	Padding       int    `yaml:"padding"`
	Margin        int    `yaml:"margin"`
	Background    string `yaml:"background"`
	Title         string `yaml:"title"`
	TitleColor    string `yaml:"title_color"`
	TitlePosition string `yaml:"title_position"` // "top" or "bottom"
	TitleSize     int    `yaml:"title_size"`
}

// DefaultConfig returns the standard collage settings.
func DefaultConfig() Config {
	return Config{
		Width:         1440,
		Columns:       7,
		Padding:       20,
		Margin:        40,
		Background:    "#ffffff",
		TitleColor:    "#000000",
		TitlePosition: "top",
		TitleSize:     48,
	}
}

// LoadConfig reads a YAML settings file over the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config file: %w", err)
	}
	return cfg, nil
}

// ParseHexColor converts a "#rrggbb" (or "rrggbb") string to an opaque color.
func ParseHexColor(s string) (color.RGBA, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 6 {
		return color.RGBA{}, fmt.Errorf("invalid hex color %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid hex color %q: %w", s, err)
	}
	return color.RGBA{
		R: uint8(v >> 16),
		G: uint8(v >> 8),
		B: uint8(v),
		A: 0xff,
	}, nil
}
