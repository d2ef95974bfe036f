package gui

import (
	"fmt"
	"os"

	"github.com/inkyblackness/imgui-go/v4"
	"github.com/spaghettifunk/anima-imgui/engine/core"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
)

// BuiltinFontName selects the Go Regular face compiled into the binary.
const BuiltinFontName = "goregular"

// LoadFont adds the font at path to the atlas. An empty path keeps the GUI
// default font. Unreadable or malformed files are logged and replaced by the default font.
func LoadFont(atlas imgui.FontAtlas, path string, size float32) {
	if path == "" {
		atlas.AddFontDefault()
		return
	}
	data, family, err := loadFontData(path)
	if err != nil {
		core.LogWarn("font %s rejected, using the default font: %s", path, err.Error())
		atlas.AddFontDefault()
		return
	}
	core.LogInfo("Loading font '%s' (%s) at %.1fpx", family, path, size)
	atlas.AddFontFromMemoryTTF(data, size)
}

// loadFontData reads and validates a TrueType/OpenType face and returns its family name.
func loadFontData(path string) ([]byte, string, error) {
	var data []byte
	if path == BuiltinFontName {
		data = goregular.TTF
	} else {
		var err error
		if data, err = os.ReadFile(path); err != nil {
			return nil, "", err
		}
	}

	face, err := opentype.Parse(data)
	if err != nil {
		return nil, "", fmt.Errorf("failed to parse font: %w", err)
	}
	family, err := face.Name(nil, sfnt.NameIDFamily)
	if err != nil {
		// Some fonts ship without a name table entry for the family.
		family = "unknown"
	}
	return data, family, nil
}
