package canopy

import (
	"errors"
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
)

// ErrInvalidConfig is wrapped by every Config validation failure.
var ErrInvalidConfig = errors.New("canopy: invalid config")

// Config configures an Engine and the window opened by Run.
type Config struct {
	// Title is the window title.
	Title string `yaml:"title"`
	// Width and Height are the surface size in pixels, fixed for the
	// lifetime of the engine.
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
	// FrameRate caps how many ticks per second Frame performs.
	FrameRate int `yaml:"frameRate"`
	// Debug draws the timing overlay on the visible surface.
	Debug bool `yaml:"debug"`
	// DebugSamples is how many tick intervals the overlay averages.
	DebugSamples int `yaml:"debugSamples"`
	// ClearColor fills the offscreen surface before each render.
	ClearColor Color `yaml:"clearColor"`
	// ScreenshotDir receives the PNG files written by Engine.Screenshot.
	ScreenshotDir string `yaml:"screenshotDir"`
}

// DefaultConfig returns a 640x480, 60 fps configuration.
func DefaultConfig() Config {
	return Config{
		Title:         "canopy",
		Width:         640,
		Height:        480,
		FrameRate:     60,
		DebugSamples:  30,
		ClearColor:    ColorTransparent,
		ScreenshotDir: "screenshots",
	}
}

// LoadConfig parses YAML over DefaultConfig and validates the result.
// Unknown keys are rejected.
func LoadConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.UnmarshalWithOptions(data, &cfg, yaml.DisallowUnknownField()); err != nil {
		return Config{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfigFile reads and parses a YAML config file.
func LoadConfigFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return LoadConfig(data)
}

// Marshal encodes the config as YAML.
func (c Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

// Validate reports every out-of-range field.
func (c Config) Validate() error {
	var errs []error
	if c.Width <= 0 || c.Height <= 0 {
		errs = append(errs, fmt.Errorf("%w: surface size %dx%d must be positive", ErrInvalidConfig, c.Width, c.Height))
	}
	if c.FrameRate <= 0 {
		errs = append(errs, fmt.Errorf("%w: frame rate %d must be positive", ErrInvalidConfig, c.FrameRate))
	}
	if c.Debug && c.DebugSamples <= 0 {
		errs = append(errs, fmt.Errorf("%w: debug samples %d must be positive", ErrInvalidConfig, c.DebugSamples))
	}
	return errors.Join(errs...)
}

// tickInterval is the minimum time between ticks in milliseconds.
func (c Config) tickInterval() float64 {
	return 1000 / float64(c.FrameRate)
}
