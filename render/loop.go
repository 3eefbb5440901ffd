// Package render draws shared world state onto a character terminal.
//
// The loop owns no game state. Each tick it takes the floor lock first and,
// while holding it, repaints dirty terrain, the player when flagged, every
// monster, and the status text, then flushes the frame in one write.
package render

import (
	"context"
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/lixenwraith/crawl/actor"
	"github.com/lixenwraith/crawl/core"
	"github.com/lixenwraith/crawl/floor"
	"github.com/lixenwraith/crawl/terminal"
	"github.com/lixenwraith/crawl/world"
)

const (
	DefaultTickInterval = 10 * time.Millisecond

	// DefaultShutdownRows is how far below the floor the cursor is left on exit
	DefaultShutdownRows = 7
)

// Config holds render tuning
type Config struct {
	TickInterval time.Duration
	ShutdownRows int

	MessageColor terminal.RGB
	FadeMessages bool
	FadeTo       terminal.RGB
}

// DefaultConfig returns the stock render settings
func DefaultConfig() Config {
	return Config{
		TickInterval: DefaultTickInterval,
		ShutdownRows: DefaultShutdownRows,
		MessageColor: terminal.RGBLightWhite,
		FadeTo:       terminal.RGB{R: 96, G: 96, B: 96},
	}
}

// Stats counts loop activity
type Stats struct {
	Ticks    uint64
	Repaints uint64
}

// Loop renders a world onto a surface until the world's stop signal is set
type Loop struct {
	world   *world.World
	surface Surface
	cfg     Config
	log     logrus.FieldLogger

	repaint  atomic.Bool
	ticks    atomic.Uint64
	repaints atomic.Uint64

	colors []terminal.RGB
}

// New creates a loop; log may be nil
func New(w *world.World, s Surface, cfg Config, log logrus.FieldLogger) *Loop {
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = DefaultTickInterval
	}
	if cfg.ShutdownRows < 0 {
		cfg.ShutdownRows = DefaultShutdownRows
	}
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	return &Loop{
		world:   w,
		surface: s,
		cfg:     cfg,
		log:     log.WithField("component", "render"),
	}
}

// RequestRepaint schedules a full clear and floor repaint on the next tick
// Safe to call from any goroutine
func (l *Loop) RequestRepaint() {
	l.repaint.Store(true)
}

// Stats returns a snapshot of loop counters
func (l *Loop) Stats() Stats {
	return Stats{Ticks: l.ticks.Load(), Repaints: l.repaints.Load()}
}

// Run paints the full floor, then ticks until the stop signal or ctx ends
// Any device or lock failure aborts immediately without further writes
func (l *Loop) Run(ctx context.Context) error {
	l.log.WithField("tick", l.cfg.TickInterval).Info("render loop starting")

	if err := l.start(); err != nil {
		l.log.WithError(err).Error("initial paint failed")
		return fmt.Errorf("initial paint: %w", err)
	}

	timer := time.NewTimer(l.cfg.TickInterval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			l.log.Info("render loop cancelled")
			return l.shutdown()
		case <-timer.C:
		}

		stopped, err := l.world.Stopped()
		if err != nil {
			l.log.WithError(err).Error("stop signal unreadable")
			return fmt.Errorf("stop signal: %w", err)
		}
		if stopped {
			l.log.WithField("ticks", l.ticks.Load()).Info("stop signal observed")
			return l.shutdown()
		}

		if err := l.tick(); err != nil {
			l.log.WithError(err).WithField("tick", l.ticks.Load()).Error("render tick failed")
			return fmt.Errorf("render tick %d: %w", l.ticks.Load(), err)
		}

		timer.Reset(l.cfg.TickInterval)
	}
}

// start hides the cursor, clears, and paints the whole floor
func (l *Loop) start() error {
	l.surface.HideCursor()
	l.surface.Clear()

	err := l.world.Floor.With(func(fl **floor.Floor) error {
		l.paintFloor(*fl)
		return nil
	})
	if err != nil {
		return err
	}
	return l.surface.Flush()
}

// paintFloor writes every row from the top-left corner, each ended by a raw-mode newline
func (l *Loop) paintFloor(f *floor.Floor) {
	l.surface.MoveTo(1, 1)
	for r := 0; r < f.Rows(); r++ {
		l.surface.Put(f.Line(r))
		l.surface.Newline()
	}
}

// tick draws one frame. The floor lock is held throughout; other cells nest inside it
func (l *Loop) tick() error {
	err := l.world.Floor.With(func(fl **floor.Floor) error {
		f := *fl

		forcePlayer := false
		if l.repaint.Swap(false) {
			l.surface.Clear()
			l.paintFloor(f)
			l.repaints.Add(1)
			forcePlayer = true
		}

		if err := l.drawDirty(f); err != nil {
			return err
		}
		if err := l.drawPlayer(forcePlayer); err != nil {
			return err
		}
		if err := l.drawMonsters(); err != nil {
			return err
		}
		if err := l.drawStatus(f); err != nil {
			return err
		}

		if err := l.surface.Flush(); err != nil {
			return fmt.Errorf("flush frame: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	l.ticks.Add(1)
	return nil
}

// drawDirty drains the queue, reverting each coordinate to terrain
func (l *Loop) drawDirty(f *floor.Floor) error {
	return l.world.Dirty.With(func(q *[]core.Coord) error {
		coords := *q
		*q = coords[:0]

		for _, c := range coords {
			sym, err := f.SymbolAt(c)
			if err != nil {
				return fmt.Errorf("dirty coordinate: %w", err)
			}
			l.put(c, sym)
		}
		return nil
	})
}

// drawPlayer draws weapon then player so the player wins a shared cell
func (l *Loop) drawPlayer(force bool) error {
	return l.world.Player.With(func(pp **actor.Player) error {
		p := *pp
		if !p.Dirty && !force {
			return nil
		}
		p.Dirty = false

		weapon, err := actor.WeaponSymbol(p.Facing)
		if err != nil {
			return fmt.Errorf("player weapon: %w", err)
		}
		l.put(p.Weapon, weapon)
		l.put(p.Coord(), p.Symbol())
		return nil
	})
}

// drawMonsters repaints every monster; monsters carry no dirty state
func (l *Loop) drawMonsters() error {
	return l.world.Monsters.With(func(ms *[]actor.Monster) error {
		for i := range *ms {
			m := &(*ms)[i]
			l.put(m.Coord(), m.Symbol())
		}
		return nil
	})
}

// drawStatus writes the floor name and the message log below the floor
func (l *Loop) drawStatus(f *floor.Floor) error {
	l.surface.MoveTo(1, f.Rows()+1)
	l.surface.Put(f.Name)
	l.surface.Newline()
	l.surface.Newline()

	return l.world.Messages.With(func(msgs *[]string) error {
		l.colors = messageColors(len(*msgs), l.cfg.MessageColor, l.cfg.FadeMessages, l.cfg.FadeTo, l.colors)
		for i, msg := range *msgs {
			l.surface.SetFg(l.colors[i])
			l.surface.Put(msg)
			l.surface.ResetFg()
			l.surface.ClearToEOL()
			l.surface.Newline()
		}
		return nil
	})
}

// shutdown leaves the cursor below the final frame and makes it visible
func (l *Loop) shutdown() error {
	err := l.world.Floor.With(func(fl **floor.Floor) error {
		l.surface.MoveTo(1, (*fl).Rows()+l.cfg.ShutdownRows+1)
		return nil
	})
	if err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	l.surface.ShowCursor()
	if err := l.surface.Flush(); err != nil {
		return fmt.Errorf("shutdown flush: %w", err)
	}

	l.log.WithFields(logrus.Fields{
		"ticks":    l.ticks.Load(),
		"repaints": l.repaints.Load(),
	}).Info("render loop stopped")
	return nil
}

func (l *Loop) put(c core.Coord, glyph string) {
	col, row := ScreenPos(c)
	l.surface.MoveTo(col, row)
	l.surface.Put(glyph)
}
