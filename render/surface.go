package render

import (
	"github.com/lixenwraith/crawl/core"
	"github.com/lixenwraith/crawl/terminal"
)

// Surface is the display the loop draws on. Positions are 1-indexed terminal cells
// Output may be buffered; only Flush is required to reach the device
type Surface interface {
	Clear()
	HideCursor()
	ShowCursor()
	MoveTo(col, row int)
	Put(glyph string)
	Newline()
	SetFg(c terminal.RGB)
	ResetFg()
	ClearToEOL()
	Flush() error
}

// ScreenPos translates a grid coordinate to a screen cell
// The floor is drawn from the top-left corner, so (0,0) lands on (1,1)
func ScreenPos(c core.Coord) (col, row int) {
	return int(c.Col) + 1, int(c.Row) + 1
}
