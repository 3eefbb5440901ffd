// Package floor holds the static terrain grid the renderer paints under actors.
// A Floor is read-only once built; collaborators publish it through a world cell.
package floor

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/lixenwraith/crawl/core"
)

// DefaultPlaceholder is drawn for open tiles when a floor names none
const DefaultPlaceholder = " "

// MaxDimension bounds rows and columns to what Coord can address
const MaxDimension = 0xFFFF

// Box-drawing and dagger glyphs are East Asian ambiguous; measure them as narrow
var glyphWidth = func() *runewidth.Condition {
	c := runewidth.NewCondition()
	c.EastAsianWidth = false
	return c
}()

var (
	ErrOutOfBounds = errors.New("coordinate out of floor bounds")
	ErrRagged      = errors.New("floor rows have unequal length")
	ErrDimensions  = errors.New("floor dimensions out of range")
	ErrGlyphWidth  = errors.New("glyph is not a single terminal cell")
)

// Tile is one grid cell. Empty Wall means open floor
type Tile struct {
	Wall string
}

// IsWall reports whether the tile carries a wall glyph
func (t Tile) IsWall() bool {
	return t.Wall != ""
}

// Floor is an immutable grid of tiles indexed [row][col]
type Floor struct {
	Name        string
	Placeholder string

	rows  int
	cols  int
	tiles [][]Tile
}

// New validates the grid and returns a floor owning a copy of it
func New(name, placeholder string, tiles [][]Tile) (*Floor, error) {
	if placeholder == "" {
		placeholder = DefaultPlaceholder
	}
	if err := CheckGlyph(placeholder); err != nil {
		return nil, fmt.Errorf("placeholder: %w", err)
	}

	rows := len(tiles)
	if rows == 0 || rows > MaxDimension {
		return nil, fmt.Errorf("%w: %d rows", ErrDimensions, rows)
	}
	cols := len(tiles[0])
	if cols == 0 || cols > MaxDimension {
		return nil, fmt.Errorf("%w: %d columns", ErrDimensions, cols)
	}

	grid := make([][]Tile, rows)
	for r, row := range tiles {
		if len(row) != cols {
			return nil, fmt.Errorf("%w: row %d has %d tiles, want %d", ErrRagged, r, len(row), cols)
		}
		for c, tile := range row {
			if tile.IsWall() {
				if err := CheckGlyph(tile.Wall); err != nil {
					return nil, fmt.Errorf("wall at (%d,%d): %w", c, r, err)
				}
			}
		}
		grid[r] = append([]Tile(nil), row...)
	}

	return &Floor{
		Name:        name,
		Placeholder: placeholder,
		rows:        rows,
		cols:        cols,
		tiles:       grid,
	}, nil
}

// CheckGlyph rejects glyphs that do not occupy exactly one terminal cell
func CheckGlyph(g string) error {
	if w := glyphWidth.StringWidth(g); w != 1 {
		return fmt.Errorf("%w: %q is %d cells wide", ErrGlyphWidth, g, w)
	}
	return nil
}

// Rows returns the number of rows
func (f *Floor) Rows() int { return f.rows }

// Cols returns the number of columns
func (f *Floor) Cols() int { return f.cols }

// Contains reports whether c lies inside [0,cols) x [0,rows)
func (f *Floor) Contains(c core.Coord) bool {
	return int(c.Row) < f.rows && int(c.Col) < f.cols
}

// Tile returns the tile at c
func (f *Floor) Tile(c core.Coord) (Tile, error) {
	if !f.Contains(c) {
		return Tile{}, fmt.Errorf("%w: %v on %dx%d", ErrOutOfBounds, c, f.cols, f.rows)
	}
	return f.tiles[c.Row][c.Col], nil
}

// IsOpen reports whether c is inside the floor and not a wall
func (f *Floor) IsOpen(c core.Coord) bool {
	t, err := f.Tile(c)
	return err == nil && !t.IsWall()
}

// SymbolAt returns the glyph displayed for terrain at c
func (f *Floor) SymbolAt(c core.Coord) (string, error) {
	t, err := f.Tile(c)
	if err != nil {
		return "", err
	}
	return f.glyph(t), nil
}

// Line renders one full row of terrain, one glyph per column
func (f *Floor) Line(row int) string {
	if row < 0 || row >= f.rows {
		return ""
	}
	var b strings.Builder
	b.Grow(f.cols)
	for _, t := range f.tiles[row] {
		b.WriteString(f.glyph(t))
	}
	return b.String()
}

func (f *Floor) glyph(t Tile) string {
	if t.IsWall() {
		return t.Wall
	}
	return f.Placeholder
}
