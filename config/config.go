// Package config holds crawl settings: defaults, an optional TOML file, and flag overrides applied by main.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/pelletier/go-toml/v2"

	"github.com/lixenwraith/crawl/game"
	"github.com/lixenwraith/crawl/render"
	"github.com/lixenwraith/crawl/terminal"
)

// Display backends
const (
	BackendANSI  = "ansi"
	BackendTcell = "tcell"
)

// Color mode settings
const (
	ColorAuto      = "auto"
	Color256       = "256"
	ColorTrueColor = "truecolor"
)

var (
	ErrInvalid = errors.New("invalid config")
	ErrColor   = errors.New("unknown color")
)

// Duration decodes TOML strings such as "10ms"
type Duration time.Duration

func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Config is the full set of crawl settings
type Config struct {
	TickInterval Duration `toml:"tick_interval"`
	TurnInterval Duration `toml:"turn_interval"`
	MaxTurns     int      `toml:"max_turns"`
	Seed         int64    `toml:"seed"`

	Backend      string `toml:"backend"`
	ColorMode    string `toml:"color_mode"`
	MessageColor string `toml:"message_color"`
	FadeMessages bool   `toml:"fade_messages"`
	FadeTo       string `toml:"fade_to"`

	// Placeholder overrides the floor file's open-tile glyph when set
	Placeholder string `toml:"placeholder"`
	FloorPath   string `toml:"floor"`

	// SpectateAddr enables the websocket mirror when non-empty, e.g. ":8080"
	SpectateAddr string `toml:"spectate_addr"`
	Debug        bool   `toml:"debug"`
}

// Default returns stock settings
func Default() Config {
	return Config{
		TickInterval: Duration(render.DefaultTickInterval),
		TurnInterval: Duration(game.DefaultTurnInterval),
		MaxTurns:     game.DefaultMaxTurns,
		Backend:      BackendANSI,
		ColorMode:    ColorAuto,
		MessageColor: "white",
		FadeMessages: true,
		FadeTo:       "#606060",
	}
}

// Load reads a TOML file over the defaults
// A missing file is not an error and yields the defaults
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return Config{}, fmt.Errorf("reading config file %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes TOML over the defaults; keys not present keep their default
func Parse(data []byte) (Config, error) {
	cfg := Default()
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks value ranges and that colors resolve
func (c Config) Validate() error {
	if c.TickInterval <= 0 {
		return fmt.Errorf("%w: tick_interval must be positive", ErrInvalid)
	}
	if c.TurnInterval <= 0 {
		return fmt.Errorf("%w: turn_interval must be positive", ErrInvalid)
	}
	if c.MaxTurns < 0 {
		return fmt.Errorf("%w: max_turns must not be negative", ErrInvalid)
	}
	switch c.Backend {
	case BackendANSI, BackendTcell:
	default:
		return fmt.Errorf("%w: backend %q", ErrInvalid, c.Backend)
	}
	switch c.ColorMode {
	case ColorAuto, Color256, ColorTrueColor:
	default:
		return fmt.Errorf("%w: color_mode %q", ErrInvalid, c.ColorMode)
	}
	if _, err := ResolveColor(c.MessageColor); err != nil {
		return fmt.Errorf("%w: message_color: %w", ErrInvalid, err)
	}
	if _, err := ResolveColor(c.FadeTo); err != nil {
		return fmt.Errorf("%w: fade_to: %w", ErrInvalid, err)
	}
	return nil
}

// ResolveColor accepts "#rrggbb" or a W3C/X11 color name
func ResolveColor(s string) (terminal.RGB, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "#") {
		c, err := colorful.Hex(s)
		if err != nil {
			return terminal.RGB{}, fmt.Errorf("%w: %q", ErrColor, s)
		}
		r, g, b := c.RGB255()
		return terminal.RGB{R: r, G: g, B: b}, nil
	}

	tc := tcell.GetColor(strings.ToLower(s))
	if tc == tcell.ColorDefault {
		return terminal.RGB{}, fmt.Errorf("%w: %q", ErrColor, s)
	}
	return terminal.TcellToRGB(tc), nil
}

// TerminalColorMode maps the color_mode setting, detecting from the environment on auto
func (c Config) TerminalColorMode() terminal.ColorMode {
	switch c.ColorMode {
	case Color256:
		return terminal.ColorMode256
	case ColorTrueColor:
		return terminal.ColorModeTrueColor
	default:
		return terminal.DetectColorMode()
	}
}

// Render builds the render loop settings
func (c Config) Render() (render.Config, error) {
	rc := render.DefaultConfig()
	rc.TickInterval = time.Duration(c.TickInterval)
	rc.FadeMessages = c.FadeMessages

	var err error
	if rc.MessageColor, err = ResolveColor(c.MessageColor); err != nil {
		return rc, err
	}
	if rc.FadeTo, err = ResolveColor(c.FadeTo); err != nil {
		return rc, err
	}
	return rc, nil
}

// Game builds the demo driver settings
func (c Config) Game() game.Config {
	return game.Config{
		TurnInterval: time.Duration(c.TurnInterval),
		MaxTurns:     c.MaxTurns,
		Seed:         c.Seed,
	}
}
