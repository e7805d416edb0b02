// Package config loads the explorer settings from a TOML file. Defaults
// live in code; the file overrides them and command-line flags override
// the file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"os"
	"time"

	"fortio.org/log"
	"github.com/pelletier/go-toml/v2"

	"github.com/taigrr/crosscut/pkg/choreo"
	"github.com/taigrr/crosscut/pkg/geometry"
	"github.com/taigrr/crosscut/pkg/input"
	"github.com/taigrr/crosscut/pkg/math3d"
	"github.com/taigrr/crosscut/pkg/render"
	"github.com/taigrr/crosscut/pkg/section"
	"github.com/taigrr/crosscut/pkg/session"
)

// ErrInvalid is wrapped by every validation error.
var ErrInvalid = errors.New("invalid config")

// RGB is a color as three 0-255 components.
type RGB [3]uint8

func (c RGB) color() render.Color {
	return render.RGB(c[0], c[1], c[2])
}

// Config is the full settings tree.
type Config struct {
	Solid    string `toml:"solid"`
	Mode     string `toml:"mode"`
	FPS      int    `toml:"fps"`
	LogLevel string `toml:"log_level"`
	// Model is an optional STL/OBJ/GLB file shown instead of a catalog solid.
	Model string `toml:"model"`
	Watch bool   `toml:"watch"`
	// WatchDebounceMs coalesces bursts of writes to Model.
	WatchDebounceMs int `toml:"watch_debounce_ms"`

	Camera Camera `toml:"camera"`
	Input  Input  `toml:"input"`
	Colors Colors `toml:"colors"`
}

type Camera struct {
	FOVDegrees float64    `toml:"fov_degrees"`
	Standoff   float64    `toml:"standoff"`
	AlignMs    int        `toml:"align_ms"`
	DefaultEye [3]float64 `toml:"default_eye"`
}

type Input struct {
	ClickDistance       float64 `toml:"click_distance"`
	ClickMs             int     `toml:"click_ms"`
	DoubleClickDistance float64 `toml:"double_click_distance"`
	DoubleClickMs       int     `toml:"double_click_ms"`
}

type Colors struct {
	Solid       RGB     `toml:"solid"`
	Cap         RGB     `toml:"cap"`
	Wire        RGB     `toml:"wire"`
	WireOpacity float64 `toml:"wire_opacity"`
	Indicator   RGB     `toml:"indicator"`
}

// Default returns the built-in settings.
func Default() Config {
	th := input.DefaultThresholds()
	ch := choreo.DefaultOptions()
	so := section.DefaultOptions()
	return Config{
		Solid:           geometry.Box.String(),
		Mode:            session.ModeCamera.String(),
		FPS:             60,
		LogLevel:        "info",
		Watch:           true,
		WatchDebounceMs: 200,
		Camera: Camera{
			FOVDegrees: 60,
			Standoff:   ch.Standoff,
			AlignMs:    int(ch.AlignDuration / time.Millisecond),
			DefaultEye: [3]float64{ch.DefaultEye.X, ch.DefaultEye.Y, ch.DefaultEye.Z},
		},
		Input: Input{
			ClickDistance:       th.ClickDistance,
			ClickMs:             int(th.ClickDuration / time.Millisecond),
			DoubleClickDistance: th.DoubleClickDistance,
			DoubleClickMs:       int(th.DoubleClickInterval / time.Millisecond),
		},
		Colors: Colors{
			Solid:       RGB{so.SolidColor.R, so.SolidColor.G, so.SolidColor.B},
			Cap:         RGB{so.CapColor.R, so.CapColor.G, so.CapColor.B},
			Wire:        RGB{so.WireColor.R, so.WireColor.G, so.WireColor.B},
			WireOpacity: so.WireOpacity,
			Indicator:   RGB{so.IndicatorColor.R, so.IndicatorColor.G, so.IndicatorColor.B},
		},
	}
}

// Load reads path over the defaults. An empty path returns the defaults.
// Unknown keys are rejected.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := Decode(data, &cfg); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Decode parses TOML data into cfg, keeping fields the data does not set,
// and validates the result.
func Decode(data []byte, cfg *Config) error {
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	return cfg.Validate()
}

// Encode renders cfg as TOML.
func Encode(cfg Config) ([]byte, error) {
	return toml.Marshal(cfg)
}

// Validate checks ranges and names.
func (c Config) Validate() error {
	if _, ok := session.ParseMode(c.Mode); !ok {
		return fmt.Errorf("%w: unknown mode %q", ErrInvalid, c.Mode)
	}
	switch {
	case c.FPS < 1 || c.FPS > 240:
		return fmt.Errorf("%w: fps %d out of range 1-240", ErrInvalid, c.FPS)
	case c.WatchDebounceMs < 0:
		return fmt.Errorf("%w: negative watch_debounce_ms", ErrInvalid)
	case c.Camera.FOVDegrees <= 0 || c.Camera.FOVDegrees >= 180:
		return fmt.Errorf("%w: fov_degrees %v out of range", ErrInvalid, c.Camera.FOVDegrees)
	case c.Camera.Standoff <= 0:
		return fmt.Errorf("%w: standoff must be positive", ErrInvalid)
	case c.Camera.AlignMs < 0:
		return fmt.Errorf("%w: negative align_ms", ErrInvalid)
	case c.Input.ClickDistance < 0 || c.Input.DoubleClickDistance < 0:
		return fmt.Errorf("%w: negative click distance", ErrInvalid)
	case c.Input.ClickMs < 0 || c.Input.DoubleClickMs < 0:
		return fmt.Errorf("%w: negative click duration", ErrInvalid)
	case c.Colors.WireOpacity < 0 || c.Colors.WireOpacity > 1:
		return fmt.Errorf("%w: wire_opacity %v outside 0-1", ErrInvalid, c.Colors.WireOpacity)
	}
	return nil
}

// SolidKind returns the configured catalog solid. An unknown name falls
// back to the box like a menu selection does.
func (c Config) SolidKind() geometry.Kind {
	k, ok := geometry.ParseKind(c.Solid)
	if !ok {
		log.Warnf("unknown solid %q, using %s", c.Solid, k)
	}
	return k
}

// InitialMode returns the configured interaction mode.
func (c Config) InitialMode() session.Mode {
	m, _ := session.ParseMode(c.Mode)
	return m
}

// FOV is the vertical field of view in radians.
func (c Config) FOV() float64 {
	return c.Camera.FOVDegrees * math.Pi / 180
}

// WatchDebounce is the watcher's quiet period.
func (c Config) WatchDebounce() time.Duration {
	return time.Duration(c.WatchDebounceMs) * time.Millisecond
}

// Thresholds converts the input section.
func (c Config) Thresholds() input.Thresholds {
	return input.Thresholds{
		ClickDistance:       c.Input.ClickDistance,
		ClickDuration:       time.Duration(c.Input.ClickMs) * time.Millisecond,
		DoubleClickDistance: c.Input.DoubleClickDistance,
		DoubleClickInterval: time.Duration(c.Input.DoubleClickMs) * time.Millisecond,
	}
}

// ChoreoOptions converts the camera section.
func (c Config) ChoreoOptions() choreo.Options {
	e := c.Camera.DefaultEye
	return choreo.Options{
		Standoff:      c.Camera.Standoff,
		AlignDuration: time.Duration(c.Camera.AlignMs) * time.Millisecond,
		DefaultEye:    math3d.V3(e[0], e[1], e[2]),
	}
}

// SectionOptions converts the colors section.
func (c Config) SectionOptions() section.Options {
	o := section.DefaultOptions()
	o.SolidColor = c.Colors.Solid.color()
	o.CapColor = c.Colors.Cap.color()
	o.WireColor = c.Colors.Wire.color()
	o.WireOpacity = c.Colors.WireOpacity
	o.IndicatorColor = c.Colors.Indicator.color()
	return o
}
