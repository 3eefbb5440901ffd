package terminal

import (
	"github.com/gdamore/tcell/v2"
)

// TcellSurface draws render operations onto a tcell screen
// It tracks its own cursor since tcell addresses cells directly
type TcellSurface struct {
	screen        tcell.Screen
	x, y          int
	style         tcell.Style
	cursorVisible bool
}

// NewTcellSurface wraps an initialized screen
func NewTcellSurface(screen tcell.Screen) *TcellSurface {
	return &TcellSurface{
		screen: screen,
		style:  tcell.StyleDefault,
	}
}

func (s *TcellSurface) Clear() {
	s.screen.Clear()
}

func (s *TcellSurface) HideCursor() {
	s.cursorVisible = false
	s.screen.HideCursor()
}

func (s *TcellSurface) ShowCursor() {
	s.cursorVisible = true
	s.screen.ShowCursor(s.x, s.y)
}

// MoveTo positions the cursor, 1-indexed
func (s *TcellSurface) MoveTo(col, row int) {
	s.x, s.y = col-1, row-1
	if s.cursorVisible {
		s.screen.ShowCursor(s.x, s.y)
	}
}

// Put writes one cell per rune; glyphs are single-cell by contract
func (s *TcellSurface) Put(text string) {
	for _, r := range text {
		s.screen.SetContent(s.x, s.y, r, nil, s.style)
		s.x++
	}
}

func (s *TcellSurface) Newline() {
	s.x = 0
	s.y++
}

func (s *TcellSurface) SetFg(c RGB) {
	s.style = s.style.Foreground(RGBToTcell(c))
}

func (s *TcellSurface) ResetFg() {
	s.style = s.style.Foreground(tcell.ColorDefault)
}

func (s *TcellSurface) ClearToEOL() {
	w, _ := s.screen.Size()
	for x := s.x; x < w; x++ {
		s.screen.SetContent(x, s.y, ' ', nil, tcell.StyleDefault)
	}
}

// Flush pushes pending cells to the display
func (s *TcellSurface) Flush() error {
	s.screen.Show()
	return nil
}

// Fini releases the screen; satisfies the crash handler's finalizer
func (s *TcellSurface) Fini() {
	s.screen.Fini()
}

// RGBToTcell converts RGB to tcell.Color
func RGBToTcell(c RGB) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

// TcellToRGB converts a tcell color; ColorDefault maps to light white
func TcellToRGB(c tcell.Color) RGB {
	if c == tcell.ColorDefault {
		return RGBLightWhite
	}
	r, g, b := c.RGB()
	return RGB{uint8(r), uint8(g), uint8(b)}
}
