// Package world holds the state shared between the game-logic driver and the renderer.
//
// Each field is its own lock-guarded cell. There is no lock over the whole
// world: a reader sees each cell consistently while holding it, but cells
// may change between acquisitions within one frame. Keeping hold times short
// per cell is the point; merging them under one lock would change frame
// latency for both sides.
//
// Lock order: acquire Floor first. A goroutine holding Floor may then take any
// other cell. Every goroutine touching more than one cell must follow this.
package world

import (
	"github.com/lixenwraith/crawl/actor"
	"github.com/lixenwraith/crawl/core"
	"github.com/lixenwraith/crawl/floor"
)

// World is the set of shared cells, created once at game start
type World struct {
	Floor    *Guarded[*floor.Floor]
	Dirty    *Guarded[[]core.Coord]
	Messages *Guarded[[]string]
	Player   *Guarded[*actor.Player]
	Monsters *Guarded[[]actor.Monster]
	Stop     *Guarded[bool]
}

// New wraps initial game state into independently locked cells
func New(fl *floor.Floor, player *actor.Player, monsters []actor.Monster) *World {
	return &World{
		Floor:    NewGuarded(fl),
		Dirty:    NewGuarded([]core.Coord(nil)),
		Messages: NewGuarded([]string(nil)),
		Player:   NewGuarded(player),
		Monsters: NewGuarded(monsters),
		Stop:     NewGuarded(false),
	}
}

// MarkDirty queues coordinates whose overlay must revert to terrain
func (w *World) MarkDirty(coords ...core.Coord) error {
	return w.Dirty.With(func(q *[]core.Coord) error {
		*q = append(*q, coords...)
		return nil
	})
}

// Post appends a message to the log
func (w *World) Post(msg string) error {
	return w.Messages.With(func(log *[]string) error {
		*log = append(*log, msg)
		return nil
	})
}

// RequestStop sets the stop signal; the renderer exits after its current tick
func (w *World) RequestStop() error {
	return w.Stop.Store(true)
}

// Stopped reports the stop signal
func (w *World) Stopped() (bool, error) {
	return w.Stop.Load()
}
