// Package game drives world state for the renderer: monsters wander, the player
// roams and turns, and the stop signal is raised once the turn budget runs out.
package game

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/lixenwraith/crawl/actor"
	"github.com/lixenwraith/crawl/core"
	"github.com/lixenwraith/crawl/floor"
	"github.com/lixenwraith/crawl/world"
)

const (
	DefaultTurnInterval = 120 * time.Millisecond
	DefaultMaxTurns     = 400

	// MaxMessages bounds the message log; the oldest line is dropped first
	MaxMessages = 4

	// messageEvery is how many turns pass between flavor messages
	messageEvery = 25
)

var flavor = []string{
	"Water drips somewhere in the dark.",
	"Your sword hums against the rust.",
	"Something skitters behind the wall.",
	"The air tastes of iron.",
	"A mite gnaws at a fallen shield.",
}

// Config controls the driver pace and length
type Config struct {
	TurnInterval time.Duration
	// MaxTurns of 0 runs until the context ends
	MaxTurns int
	// Seed of 0 picks a time-based seed
	Seed int64
}

// Driver is the game-logic side of the shared world
type Driver struct {
	world *world.World
	cfg   Config
	rng   *rand.Rand
	log   logrus.FieldLogger

	turns   int
	flavorN int
}

// NewDriver creates a driver; log may be nil
func NewDriver(w *world.World, cfg Config, log logrus.FieldLogger) *Driver {
	if cfg.TurnInterval <= 0 {
		cfg.TurnInterval = DefaultTurnInterval
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	return &Driver{
		world: w,
		cfg:   cfg,
		rng:   rand.New(rand.NewSource(seed)),
		log:   log.WithField("component", "game"),
	}
}

// Turns returns how many turns have been played
func (d *Driver) Turns() int {
	return d.turns
}

// Run plays turns until MaxTurns or ctx ends, then raises the stop signal
func (d *Driver) Run(ctx context.Context) error {
	d.log.WithFields(logrus.Fields{
		"turn_interval": d.cfg.TurnInterval,
		"max_turns":     d.cfg.MaxTurns,
	}).Info("driver starting")

	if err := d.post("You descend into the cellar."); err != nil {
		return err
	}

	ticker := time.NewTicker(d.cfg.TurnInterval)
	defer ticker.Stop()

	for d.cfg.MaxTurns == 0 || d.turns < d.cfg.MaxTurns {
		select {
		case <-ctx.Done():
			d.log.WithField("turns", d.turns).Info("driver cancelled")
			return d.world.RequestStop()
		case <-ticker.C:
		}

		if err := d.Step(); err != nil {
			d.log.WithError(err).WithField("turn", d.turns).Error("turn failed")
			return fmt.Errorf("turn %d: %w", d.turns, err)
		}
	}

	d.log.WithField("turns", d.turns).Info("turn budget spent")
	if err := d.post("The torch gutters out."); err != nil {
		return err
	}
	return d.world.RequestStop()
}

// Step plays a single turn. The floor lock is taken first and held while actors move
func (d *Driver) Step() error {
	err := d.world.Floor.With(func(fl **floor.Floor) error {
		f := *fl
		if err := d.moveMonsters(f); err != nil {
			return err
		}
		return d.movePlayer(f)
	})
	if err != nil {
		return err
	}

	d.turns++
	if d.turns%messageEvery == 0 {
		msg := flavor[d.flavorN%len(flavor)]
		d.flavorN++
		return d.post(msg)
	}
	return nil
}

// moveMonsters takes one random step per monster, skipping blocked cells
func (d *Driver) moveMonsters(f *floor.Floor) error {
	return d.world.Monsters.With(func(ms *[]actor.Monster) error {
		for i := range *ms {
			m := &(*ms)[i]
			dc, dr := actor.Facings[d.rng.Intn(len(actor.Facings))].Delta()
			next, ok := m.Coord().Offset(dc, dr)
			if !ok || !f.IsOpen(next) {
				continue
			}
			old := m.Coord()
			m.SetCoord(next)
			if err := d.world.MarkDirty(old); err != nil {
				return err
			}
		}
		return nil
	})
}

// movePlayer walks forward when the way is clear and otherwise turns
func (d *Driver) movePlayer(f *floor.Floor) error {
	return d.world.Player.With(func(pp **actor.Player) error {
		p := *pp
		oldPos, oldWeapon := p.Coord(), p.Weapon

		dc, dr := p.Facing.Delta()
		next, ok := oldPos.Offset(dc, dr)
		if ok && f.IsOpen(next) && d.rng.Intn(4) != 0 {
			p.SetCoord(next)
			p.Face(p.Facing, f.IsOpen)
		} else {
			p.Face(actor.Facings[d.rng.Intn(len(actor.Facings))], f.IsOpen)
		}

		var stale []core.Coord
		for _, c := range []core.Coord{oldPos, oldWeapon} {
			if c != p.Coord() && c != p.Weapon {
				stale = append(stale, c)
			}
		}
		if len(stale) == 0 {
			return nil
		}
		return d.world.MarkDirty(stale...)
	})
}

// post appends a message, keeping at most MaxMessages
// The log never shrinks so status rows below the floor are always overwritten
func (d *Driver) post(msg string) error {
	return d.world.Messages.With(func(log *[]string) error {
		*log = append(*log, msg)
		if n := len(*log); n > MaxMessages {
			*log = append((*log)[:0], (*log)[n-MaxMessages:]...)
		}
		return nil
	})
}
