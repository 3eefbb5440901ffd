package actor

import "github.com/lixenwraith/crawl/core"

const (
	DefaultMonsterName   = "Rust Mite"
	DefaultMonsterSymbol = "X"
)

// Monster carries no dirty state; the renderer repaints every monster each tick
type Monster struct {
	Pos core.Coord

	name   string
	symbol string
}

// NewMonster creates a monster at pos
func NewMonster(name, symbol string, pos core.Coord) Monster {
	if name == "" {
		name = DefaultMonsterName
	}
	if symbol == "" {
		symbol = DefaultMonsterSymbol
	}
	return Monster{Pos: pos, name: name, symbol: symbol}
}

func (m *Monster) Name() string      { return m.name }
func (m *Monster) Symbol() string    { return m.symbol }
func (m *Monster) Coord() core.Coord { return m.Pos }
func (m *Monster) SetCoord(c core.Coord) {
	m.Pos = c
}
