// Package actor defines the entities drawn over the floor.
package actor

import (
	"errors"
	"fmt"

	"github.com/lixenwraith/crawl/core"
)

// Actor is anything drawn by symbol at a grid coordinate
type Actor interface {
	Name() string
	Symbol() string
	Coord() core.Coord
	SetCoord(c core.Coord)
}

var ErrUnknownFacing = errors.New("unknown facing")

// Facing is the direction the player's weapon points
type Facing uint8

const (
	FacingUp Facing = iota
	FacingDown
	FacingLeft
	FacingRight
)

// Facings lists every valid facing in declaration order
var Facings = [...]Facing{FacingUp, FacingDown, FacingLeft, FacingRight}

// Delta returns the grid step one cell ahead in this facing
func (f Facing) Delta() (dc, dr int) {
	switch f {
	case FacingUp:
		return 0, -1
	case FacingDown:
		return 0, 1
	case FacingLeft:
		return -1, 0
	case FacingRight:
		return 1, 0
	}
	return 0, 0
}

func (f Facing) String() string {
	switch f {
	case FacingUp:
		return "up"
	case FacingDown:
		return "down"
	case FacingLeft:
		return "left"
	case FacingRight:
		return "right"
	}
	return fmt.Sprintf("Facing(%d)", uint8(f))
}

// WeaponSymbol returns the glyph for a weapon swung in facing f
// Values outside Facings are a caller bug and return ErrUnknownFacing
func WeaponSymbol(f Facing) (string, error) {
	switch f {
	case FacingUp, FacingDown:
		return "│", nil
	case FacingLeft, FacingRight:
		return "─", nil
	}
	return "", fmt.Errorf("%w: %d", ErrUnknownFacing, uint8(f))
}
