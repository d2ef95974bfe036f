package gui

import (
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/font/gofont/goregular"
)

func TestLoadFontDataBuiltin(t *testing.T) {
	data, family, err := loadFontData(BuiltinFontName)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(data) != len(goregular.TTF) {
		t.Errorf("got %d bytes, want %d", len(data), len(goregular.TTF))
	}
	if family == "" || family == "unknown" {
		t.Errorf("family = %q, want the name table entry", family)
	}
}

func TestLoadFontDataFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "go.ttf")
	if err := os.WriteFile(path, goregular.TTF, 0o644); err != nil {
		t.Fatal(err)
	}
	if _, _, err := loadFontData(path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestLoadFontDataRejectsGarbage(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.ttf")
	if err := os.WriteFile(path, []byte("definitely not a font"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, _, err := loadFontData(path); err == nil {
		t.Error("expected a parse error")
	}
	if _, _, err := loadFontData(filepath.Join(dir, "missing.ttf")); err == nil {
		t.Error("expected a read error")
	}
}
