package world

import (
	"errors"
	"sync"
)

// ErrPoisoned is returned by a cell whose previous holder panicked while holding it
var ErrPoisoned = errors.New("shared cell poisoned by panicking holder")

// Guarded is one independently locked piece of shared state
type Guarded[T any] struct {
	mu       sync.Mutex
	val      T
	poisoned bool
}

// NewGuarded wraps v in its own lock
func NewGuarded[T any](v T) *Guarded[T] {
	return &Guarded[T]{val: v}
}

// With runs fn while holding the lock and returns fn's error
// A panic inside fn poisons the cell before the lock is released and keeps unwinding
func (g *Guarded[T]) With(fn func(v *T) error) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.poisoned {
		return ErrPoisoned
	}

	done := false
	defer func() {
		if !done {
			g.poisoned = true
		}
	}()

	err := fn(&g.val)
	done = true
	return err
}

// Load returns a copy of the guarded value
// Slices and pointers inside T still alias the guarded state
func (g *Guarded[T]) Load() (T, error) {
	var out T
	err := g.With(func(v *T) error {
		out = *v
		return nil
	})
	return out, err
}

// Store replaces the guarded value
func (g *Guarded[T]) Store(v T) error {
	return g.With(func(cur *T) error {
		*cur = v
		return nil
	})
}

// Poisoned reports whether a holder panicked inside With
func (g *Guarded[T]) Poisoned() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.poisoned
}
