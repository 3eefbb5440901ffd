package main

import (
	"flag"
	"fmt"
	"time"

	"github.com/lixenwraith/crawl/config"
)

// options are command-line overrides; only flags given explicitly replace config values
type options struct {
	configPath string

	floorPath   string
	placeholder string
	backend     string
	colorMode   string
	tick        time.Duration
	turn        time.Duration
	turns       int
	seed        int64
	spectate    string
	debug       bool
}

func newFlagSet(o *options) *flag.FlagSet {
	fs := flag.NewFlagSet("crawl", flag.ContinueOnError)
	fs.StringVar(&o.configPath, "config", "", "TOML config file")
	fs.StringVar(&o.floorPath, "floor", "", "TOML floor file (default: built-in floor)")
	fs.StringVar(&o.placeholder, "placeholder", "", "Glyph drawn on open floor, e.g. ‧")
	fs.StringVar(&o.backend, "backend", "", "Display backend: ansi, tcell")
	fs.StringVar(&o.colorMode, "color", "", "Color mode: auto, truecolor, 256")
	fs.DurationVar(&o.tick, "tick", 0, "Render tick interval")
	fs.DurationVar(&o.turn, "turn", 0, "Game turn interval")
	fs.IntVar(&o.turns, "turns", 0, "Turns before the game stops, 0 runs until quit")
	fs.Int64Var(&o.seed, "seed", 0, "Random seed, 0 for time-based")
	fs.StringVar(&o.spectate, "spectate", "", "Serve a websocket mirror on this address, e.g. :8080")
	fs.BoolVar(&o.debug, "debug", false, "Write logs to logs/crawl.log")
	return fs
}

// apply copies explicitly set flags over cfg and validates the result
func (o *options) apply(fs *flag.FlagSet, cfg *config.Config) error {
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "floor":
			cfg.FloorPath = o.floorPath
		case "placeholder":
			cfg.Placeholder = o.placeholder
		case "backend":
			cfg.Backend = o.backend
		case "color":
			cfg.ColorMode = o.colorMode
		case "tick":
			cfg.TickInterval = config.Duration(o.tick)
		case "turn":
			cfg.TurnInterval = config.Duration(o.turn)
		case "turns":
			cfg.MaxTurns = o.turns
		case "seed":
			cfg.Seed = o.seed
		case "spectate":
			cfg.SpectateAddr = o.spectate
		case "debug":
			cfg.Debug = o.debug
		}
	})
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("flags: %w", err)
	}
	return nil
}
