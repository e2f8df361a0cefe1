package collage

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"
)

func TestParseHexColor(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    color.RGBA
		wantErr bool
	}{
		{"white with hash", "#ffffff", color.RGBA{255, 255, 255, 255}, false},
		{"black without hash", "000000", color.RGBA{0, 0, 0, 255}, false},
		{"mixed", "#1a2B3c", color.RGBA{0x1a, 0x2b, 0x3c, 255}, false},
		{"too short", "#fff", color.RGBA{}, true},
		{"not hex", "#zzzzzz", color.RGBA{}, true},
		{"empty", "", color.RGBA{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseHexColor(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseHexColor(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseHexColor(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "collage.yaml")
	yaml := "columns: 5\nbackground: \"#222222\"\ntitle: Read in 2025\n"
	if err := os.WriteFile(path, []byte(yaml), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}

	if cfg.Columns != 5 || cfg.Background != "#222222" || cfg.Title != "Read in 2025" {
		t.Errorf("LoadConfig() = %+v", cfg)
	}
	// Unset fields keep their defaults.
	if cfg.Width != 1440 || cfg.TitlePosition != "top" {
		t.Errorf("defaults not preserved: %+v", cfg)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("LoadConfig() succeeded on a missing file")
	}
}

func TestWrapText(t *testing.T) {
	face, err := newFace(14)
	if err != nil {
		t.Fatal(err)
	}
	defer face.Close()

	if lines := wrapText(face, "", 100); lines != nil {
		t.Errorf("wrapText(empty) = %v, want nil", lines)
	}

	lines := wrapText(face, "The Wind-Up Bird Chronicle", 80)
	if len(lines) < 2 {
		t.Errorf("long title did not wrap: %v", lines)
	}
	for _, line := range lines {
		if line == "" {
			t.Error("wrapText produced an empty line")
		}
	}
}
