package engine

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/spaghettifunk/anima-imgui/engine/core"
	"github.com/spaghettifunk/anima-imgui/engine/math"
)

type FontConfig struct {
	// Path to a TTF/OTF file, or gui.BuiltinFontName. Empty keeps the GUI default font.
	Path string  `toml:"path"`
	Size float32 `toml:"size"`
}

type ApplicationConfig struct {
	// The application name used in windowing.
	Name string `toml:"name"`
	// Window starting width.
	StartWidth int `toml:"width"`
	// Window starting height.
	StartHeight int `toml:"height"`
	// Minimum number of swapchain images requested from the surface.
	MinImageCount uint32 `toml:"min_image_count"`
	// Prefer mailbox/immediate presentation over vsync.
	UnlimitedFrameRate bool `toml:"unlimited_frame_rate"`
	// Enables the validation layer and the debug report callback.
	Debug      bool       `toml:"debug"`
	ClearColor [4]float32 `toml:"clear_color"`
	LogLevel   string     `toml:"log_level"`
	// GUI layout persistence file. Empty disables it.
	IniFilename string `toml:"ini_filename"`
	// Directory holding the compiled SPIR-V modules of the GUI pipeline.
	ShaderDir string     `toml:"shader_dir"`
	Font      FontConfig `toml:"font"`

	// set from the command line, survives reloads of the file
	logLevelPinned bool
}

// PinLogLevel sets the log level and keeps it when the file is reloaded.
func (c *ApplicationConfig) PinLogLevel(level string) {
	c.LogLevel = level
	c.logLevelPinned = true
}

func DefaultApplicationConfig() *ApplicationConfig {
	return &ApplicationConfig{
		Name:          "Dear ImGui GLFW+Vulkan example",
		StartWidth:    500,
		StartHeight:   500,
		MinImageCount: 2,
		ClearColor:    [4]float32{0.45, 0.55, 0.60, 1.00},
		LogLevel:      "info",
		IniFilename:   "imgui.ini",
		ShaderDir:     "shaders",
	}
}

// LoadApplicationConfig decodes the TOML file at path over the defaults.
// A missing file is not an error.
func LoadApplicationConfig(path string) (*ApplicationConfig, error) {
	config := DefaultApplicationConfig()

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			core.LogInfo("config file %s not found, using defaults", path)
			return config, nil
		}
		return nil, fmt.Errorf("failed to open config %s: %w", path, err)
	}
	defer f.Close()

	decoder := toml.NewDecoder(f).DisallowUnknownFields()
	if err := decoder.Decode(config); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return nil, fmt.Errorf("%w: %s", core.ErrInvalidConfiguration, strict.String())
		}
		var decodeErr *toml.DecodeError
		if errors.As(err, &decodeErr) {
			row, col := decodeErr.Position()
			return nil, fmt.Errorf("%w: %s:%d:%d: %s", core.ErrInvalidConfiguration, path, row, col, decodeErr.Error())
		}
		return nil, fmt.Errorf("failed to decode config %s: %w", path, err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *ApplicationConfig) Validate() error {
	if c.StartWidth <= 0 || c.StartHeight <= 0 {
		return fmt.Errorf("%w: window size %dx%d", core.ErrInvalidConfiguration, c.StartWidth, c.StartHeight)
	}
	if c.MinImageCount < 2 {
		return fmt.Errorf("%w: min_image_count must be >= 2, got %d", core.ErrInvalidConfiguration, c.MinImageCount)
	}
	for i, v := range c.ClearColor {
		if math.Saturate(v) != v {
			return fmt.Errorf("%w: clear_color[%d] = %v is outside [0, 1]", core.ErrInvalidConfiguration, i, v)
		}
	}
	if _, err := core.ParseLogLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: %s", core.ErrInvalidConfiguration, err.Error())
	}
	if c.Font.Path != "" && c.Font.Size <= 0 {
		return fmt.Errorf("%w: font size must be > 0", core.ErrInvalidConfiguration)
	}
	return nil
}

// PremultipliedClearColor returns the clear colour with rgb scaled by alpha.
func (c *ApplicationConfig) PremultipliedClearColor() [4]float32 {
	a := c.ClearColor[3]
	return [4]float32{c.ClearColor[0] * a, c.ClearColor[1] * a, c.ClearColor[2] * a, a}
}
