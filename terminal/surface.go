package terminal

import (
	"bufio"
	"io"
)

// ANSISurface writes render operations as ANSI sequences into one buffer
// Nothing reaches the device until Flush, so each frame lands as a single batch
type ANSISurface struct {
	w    *bufio.Writer
	mode ColorMode
}

// NewANSISurface wraps out in a frame buffer
func NewANSISurface(out io.Writer, mode ColorMode) *ANSISurface {
	return &ANSISurface{
		w:    bufio.NewWriterSize(out, 65536),
		mode: mode,
	}
}

// Clear erases the whole screen without moving the cursor
func (s *ANSISurface) Clear() {
	s.w.Write(csiClearAll)
}

func (s *ANSISurface) HideCursor() {
	s.w.Write(csiCursorHide)
}

func (s *ANSISurface) ShowCursor() {
	s.w.Write(csiCursorShow)
}

// MoveTo positions the cursor, 1-indexed
func (s *ANSISurface) MoveTo(col, row int) {
	writeCursorPos(s.w, col, row)
}

// Put writes text at the cursor
func (s *ANSISurface) Put(text string) {
	s.w.WriteString(text)
}

// Newline returns to column 1 of the next row
// Raw mode disables output CR translation, so the CR is explicit
func (s *ANSISurface) Newline() {
	s.w.Write(crlf)
}

func (s *ANSISurface) SetFg(c RGB) {
	writeFg(s.w, s.mode, c)
}

func (s *ANSISurface) ResetFg() {
	s.w.Write(csiDefaultFg)
}

// ClearToEOL erases from the cursor to the end of the row
func (s *ANSISurface) ClearToEOL() {
	s.w.Write(csiClearEOL)
}

// Flush sends the buffered frame to the device
// bufio keeps the first write error, so a failure anywhere in the frame surfaces here
func (s *ANSISurface) Flush() error {
	return s.w.Flush()
}
