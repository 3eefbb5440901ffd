package main

import (
	"errors"
	"testing"
	"time"

	"github.com/lixenwraith/crawl/config"
)

func TestFlagsOverrideOnlyWhenSet(t *testing.T) {
	o := &options{}
	fs := newFlagSet(o)
	if err := fs.Parse([]string{"-backend", "tcell", "-tick", "5ms", "-turns", "0"}); err != nil {
		t.Fatalf("parse: %v", err)
	}

	cfg := config.Default()
	cfg.Seed = 99
	if err := o.apply(fs, &cfg); err != nil {
		t.Fatalf("apply: %v", err)
	}

	if cfg.Backend != config.BackendTcell {
		t.Errorf("backend = %q", cfg.Backend)
	}
	if time.Duration(cfg.TickInterval) != 5*time.Millisecond {
		t.Errorf("tick = %v", time.Duration(cfg.TickInterval))
	}
	if cfg.MaxTurns != 0 {
		t.Errorf("explicit -turns 0 should override, got %d", cfg.MaxTurns)
	}
	if cfg.Seed != 99 {
		t.Errorf("unset -seed replaced config value: %d", cfg.Seed)
	}
}

func TestFlagsValidate(t *testing.T) {
	o := &options{}
	fs := newFlagSet(o)
	if err := fs.Parse([]string{"-color", "16"}); err != nil {
		t.Fatalf("parse: %v", err)
	}

	cfg := config.Default()
	if err := o.apply(fs, &cfg); !errors.Is(err, config.ErrInvalid) {
		t.Errorf("expected ErrInvalid, got %v", err)
	}
}
