package game

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/lixenwraith/crawl/actor"
	"github.com/lixenwraith/crawl/asset"
	"github.com/lixenwraith/crawl/floor"
	"github.com/lixenwraith/crawl/render"
	"github.com/lixenwraith/crawl/terminal"
	"github.com/lixenwraith/crawl/world"
)

func newTestWorld(t *testing.T) *world.World {
	t.Helper()
	bp, err := floor.Parse([]byte(asset.DefaultFloor))
	if err != nil {
		t.Fatalf("parse default floor: %v", err)
	}
	p := actor.NewPlayer("", "", bp.PlayerStart)
	var ms []actor.Monster
	for _, c := range bp.MonsterStarts {
		ms = append(ms, actor.NewMonster("", "", c))
	}
	return world.New(bp.Floor, p, ms)
}

func TestStepKeepsActorsOnOpenFloor(t *testing.T) {
	w := newTestWorld(t)
	d := NewDriver(w, Config{Seed: 7}, nil)
	fl, _ := w.Floor.Load()

	for i := 0; i < 500; i++ {
		if err := d.Step(); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}

		ms, _ := w.Monsters.Load()
		for _, m := range ms {
			if !fl.IsOpen(m.Coord()) {
				t.Fatalf("step %d: monster on blocked cell %v", i, m.Coord())
			}
		}
		p, _ := w.Player.Load()
		if !fl.IsOpen(p.Coord()) {
			t.Fatalf("step %d: player on blocked cell %v", i, p.Coord())
		}
		if !fl.Contains(p.Weapon) {
			t.Fatalf("step %d: weapon off the floor at %v", i, p.Weapon)
		}
	}

	if d.Turns() != 500 {
		t.Errorf("expected 500 turns, got %d", d.Turns())
	}
	q, _ := w.Dirty.Load()
	if len(q) == 0 {
		t.Error("moving actors should leave dirty coordinates")
	}
	for _, c := range q {
		if !fl.Contains(c) {
			t.Errorf("dirty coordinate %v outside floor", c)
		}
	}
}

func TestStepMarksPlayerDirty(t *testing.T) {
	w := newTestWorld(t)
	w.Player.With(func(p **actor.Player) error {
		(*p).Dirty = false
		return nil
	})

	if err := NewDriver(w, Config{Seed: 1}, nil).Step(); err != nil {
		t.Fatalf("step: %v", err)
	}
	p, _ := w.Player.Load()
	if !p.Dirty {
		t.Error("player should be dirty after a turn")
	}
}

func TestRunStopsAfterMaxTurns(t *testing.T) {
	w := newTestWorld(t)
	d := NewDriver(w, Config{TurnInterval: time.Millisecond, MaxTurns: 5, Seed: 3}, nil)

	if err := d.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if d.Turns() != 5 {
		t.Errorf("expected 5 turns, got %d", d.Turns())
	}
	if stopped, _ := w.Stopped(); !stopped {
		t.Error("stop signal not raised")
	}

	msgs, _ := w.Messages.Load()
	if len(msgs) != 2 || msgs[0] != "You descend into the cellar." || msgs[1] != "The torch gutters out." {
		t.Errorf("unexpected messages %q", msgs)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	w := newTestWorld(t)
	d := NewDriver(w, Config{TurnInterval: time.Millisecond}, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if err := d.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if stopped, _ := w.Stopped(); !stopped {
		t.Error("cancel should raise the stop signal")
	}
}

func TestPostKeepsNewestMessages(t *testing.T) {
	w := newTestWorld(t)
	d := NewDriver(w, Config{}, nil)

	for i := 0; i < MaxMessages+3; i++ {
		d.post(string(rune('a' + i)))
	}

	msgs, _ := w.Messages.Load()
	if len(msgs) != MaxMessages {
		t.Fatalf("expected %d messages, got %d", MaxMessages, len(msgs))
	}
	if msgs[0] != "d" || msgs[MaxMessages-1] != "g" {
		t.Errorf("expected oldest dropped, got %q", msgs)
	}
}

func TestStepFailsOnPoisonedCell(t *testing.T) {
	w := newTestWorld(t)
	func() {
		defer func() { recover() }()
		w.Player.With(func(**actor.Player) error { panic("boom") })
	}()

	err := NewDriver(w, Config{}, nil).Step()
	if !errors.Is(err, world.ErrPoisoned) {
		t.Fatalf("expected ErrPoisoned, got %v", err)
	}
}

func TestDriverWithRenderLoop(t *testing.T) {
	w := newTestWorld(t)
	d := NewDriver(w, Config{TurnInterval: time.Millisecond, MaxTurns: 100, Seed: 11}, nil)

	rc := render.DefaultConfig()
	rc.TickInterval = time.Millisecond
	loop := render.New(w, terminal.NewANSISurface(io.Discard, terminal.ColorModeTrueColor), rc, nil)

	done := make(chan error, 1)
	go func() { done <- loop.Run(context.Background()) }()

	if err := d.Run(context.Background()); err != nil {
		t.Fatalf("driver: %v", err)
	}

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("render loop: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("render loop did not observe stop")
	}

	if loop.Stats().Ticks == 0 {
		t.Error("render loop never ticked")
	}
}
