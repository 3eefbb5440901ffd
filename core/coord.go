package core

import "fmt"

// Coord is a grid position on a floor, 0-indexed
// Screen placement is a render concern; Coord carries no offset
type Coord struct {
	Col uint16
	Row uint16
}

// Equal reports whether both axes match
func (c Coord) Equal(other Coord) bool {
	return c == other
}

// Offset returns the coordinate shifted by (dc, dr) and whether it stayed non-negative
func (c Coord) Offset(dc, dr int) (Coord, bool) {
	col := int(c.Col) + dc
	row := int(c.Row) + dr
	if col < 0 || row < 0 || col > 0xFFFF || row > 0xFFFF {
		return c, false
	}
	return Coord{Col: uint16(col), Row: uint16(row)}, true
}

func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d)", c.Col, c.Row)
}
