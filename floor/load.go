package floor

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/lixenwraith/crawl/core"
)

// Layout markers. Both stand on open floor
const (
	MarkPlayer  = '@'
	MarkMonster = 'M'
)

var ErrNoPlayer = errors.New("floor layout has no player start")

// file is the on-disk shape of a floor definition
type file struct {
	Name        string            `toml:"name"`
	Placeholder string            `toml:"placeholder"`
	Layout      string            `toml:"layout"`
	Legend      map[string]string `toml:"legend"`
}

// Blueprint is a parsed floor plus the actor start positions marked in its layout
type Blueprint struct {
	Floor         *Floor
	PlayerStart   core.Coord
	MonsterStarts []core.Coord
}

// Load reads and parses a floor definition file
func Load(path string) (*Blueprint, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("floor read: %w", err)
	}
	bp, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("floor %s: %w", path, err)
	}
	return bp, nil
}

// Parse decodes a TOML floor definition
// Layout characters: ' ' and '.' are open, '@' and 'M' mark starts on open floor,
// anything else is a wall drawn with its legend glyph or itself
func Parse(data []byte) (*Blueprint, error) {
	var f file
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("floor parse: %w", err)
	}

	legend := make(map[rune]string, len(f.Legend))
	for k, v := range f.Legend {
		rs := []rune(k)
		if len(rs) != 1 {
			return nil, fmt.Errorf("legend key %q: must be a single character", k)
		}
		legend[rs[0]] = v
	}

	lines := strings.Split(strings.TrimRight(f.Layout, "\n"), "\n")
	bp := &Blueprint{}
	hasPlayer := false

	tiles := make([][]Tile, 0, len(lines))
	for r, line := range lines {
		line = strings.TrimSuffix(line, "\r")
		row := make([]Tile, 0, len(line))
		for c, ch := range []rune(line) {
			pos := core.Coord{Col: uint16(c), Row: uint16(r)}
			switch ch {
			case ' ', '.':
				row = append(row, Tile{})
			case MarkPlayer:
				if hasPlayer {
					return nil, fmt.Errorf("second player start at %v", pos)
				}
				hasPlayer = true
				bp.PlayerStart = pos
				row = append(row, Tile{})
			case MarkMonster:
				bp.MonsterStarts = append(bp.MonsterStarts, pos)
				row = append(row, Tile{})
			default:
				glyph, ok := legend[ch]
				if !ok {
					glyph = string(ch)
				}
				row = append(row, Tile{Wall: glyph})
			}
		}
		tiles = append(tiles, row)
	}

	if !hasPlayer {
		return nil, ErrNoPlayer
	}

	fl, err := New(f.Name, f.Placeholder, tiles)
	if err != nil {
		return nil, err
	}
	bp.Floor = fl
	return bp, nil
}
