package engine

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spaghettifunk/anima-imgui/engine/core"
	"github.com/spaghettifunk/anima-imgui/engine/renderer/gui"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	return writeFile(t, dir, "config.toml", body)
}

func TestLoadApplicationConfigMissingFile(t *testing.T) {
	config, err := LoadApplicationConfig(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if config.StartWidth != 500 || config.StartHeight != 500 {
		t.Errorf("size = %dx%d, want 500x500", config.StartWidth, config.StartHeight)
	}
	if config.MinImageCount != 2 {
		t.Errorf("MinImageCount = %d, want 2", config.MinImageCount)
	}
}

func TestLoadApplicationConfigOverridesDefaults(t *testing.T) {
	path := writeConfig(t, t.TempDir(), `
name = "demo"
width = 800
unlimited_frame_rate = true
clear_color = [0.1, 0.2, 0.3, 0.5]

[font]
path = "goregular"
size = 16.0
`)
	config, err := LoadApplicationConfig(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if config.Name != "demo" || config.StartWidth != 800 {
		t.Errorf("got name=%q width=%d", config.Name, config.StartWidth)
	}
	if config.StartHeight != 500 {
		t.Errorf("height should keep default, got %d", config.StartHeight)
	}
	if !config.UnlimitedFrameRate {
		t.Error("UnlimitedFrameRate not decoded")
	}
	if config.ClearColor != [4]float32{0.1, 0.2, 0.3, 0.5} {
		t.Errorf("ClearColor = %v", config.ClearColor)
	}
	if config.Font.Path != gui.BuiltinFontName || config.Font.Size != 16 {
		t.Errorf("Font = %+v", config.Font)
	}
}

func TestLoadApplicationConfigRejectsUnknownKeys(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "colour = 3\n")
	if _, err := LoadApplicationConfig(path); !errors.Is(err, core.ErrInvalidConfiguration) {
		t.Fatalf("err = %v, want ErrInvalidConfiguration", err)
	}
}

func TestLoadApplicationConfigRejectsSyntaxErrors(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "width = = 3\n")
	if _, err := LoadApplicationConfig(path); !errors.Is(err, core.ErrInvalidConfiguration) {
		t.Fatalf("err = %v, want ErrInvalidConfiguration", err)
	}
}

func TestApplicationConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *ApplicationConfig)
		ok     bool
	}{
		{"defaults", func(c *ApplicationConfig) {}, true},
		{"zero width", func(c *ApplicationConfig) { c.StartWidth = 0 }, false},
		{"one image", func(c *ApplicationConfig) { c.MinImageCount = 1 }, false},
		{"colour out of range", func(c *ApplicationConfig) { c.ClearColor[1] = 1.5 }, false},
		{"bad log level", func(c *ApplicationConfig) { c.LogLevel = "loud" }, false},
		{"font without size", func(c *ApplicationConfig) { c.Font.Path = "a.ttf" }, false},
		{"font with size", func(c *ApplicationConfig) { c.Font = FontConfig{Path: "a.ttf", Size: 13} }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := DefaultApplicationConfig()
			tt.mutate(c)
			err := c.Validate()
			if tt.ok && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if !tt.ok && !errors.Is(err, core.ErrInvalidConfiguration) {
				t.Errorf("err = %v, want ErrInvalidConfiguration", err)
			}
		})
	}
}

func TestPremultipliedClearColor(t *testing.T) {
	c := DefaultApplicationConfig()
	c.ClearColor = [4]float32{0.5, 1, 0.25, 0.5}
	want := [4]float32{0.25, 0.5, 0.125, 0.5}
	if got := c.PremultipliedClearColor(); got != want {
		t.Errorf("PremultipliedClearColor() = %v, want %v", got, want)
	}
}
