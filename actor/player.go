package actor

import "github.com/lixenwraith/crawl/core"

const (
	DefaultPlayerName   = "Rusty Sword!"
	DefaultPlayerSymbol = "†"
)

// Player is the controlled actor. Weapon is the cell its sword occupies
// Dirty means position or orientation changed since the last frame
type Player struct {
	Pos    core.Coord
	Weapon core.Coord
	Facing Facing
	Dirty  bool

	name   string
	symbol string
}

// NewPlayer places a player at pos holding its weapon on the same cell
// Starts dirty so the first frame draws it
func NewPlayer(name, symbol string, pos core.Coord) *Player {
	if name == "" {
		name = DefaultPlayerName
	}
	if symbol == "" {
		symbol = DefaultPlayerSymbol
	}
	return &Player{
		Pos:    pos,
		Weapon: pos,
		Facing: FacingRight,
		Dirty:  true,
		name:   name,
		symbol: symbol,
	}
}

func (p *Player) Name() string      { return p.name }
func (p *Player) Symbol() string    { return p.symbol }
func (p *Player) Coord() core.Coord { return p.Pos }

// SetCoord moves the player and marks it for redraw
func (p *Player) SetCoord(c core.Coord) {
	p.Pos = c
	p.Dirty = true
}

// Face turns the player and places the weapon one cell ahead
// ahead reports whether that cell is usable; otherwise the weapon stays on the player
func (p *Player) Face(f Facing, ahead func(core.Coord) bool) {
	p.Facing = f
	p.Weapon = p.Pos
	dc, dr := f.Delta()
	if next, ok := p.Pos.Offset(dc, dr); ok && (ahead == nil || ahead(next)) {
		p.Weapon = next
	}
	p.Dirty = true
}
