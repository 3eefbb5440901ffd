package terminal

import (
	"bytes"
	"errors"
	"testing"
)

func TestANSISurfaceSequences(t *testing.T) {
	tests := []struct {
		name string
		draw func(s *ANSISurface)
		want string
	}{
		{"move origin", func(s *ANSISurface) { s.MoveTo(1, 1) }, "\x1b[1;1H"},
		{"move col row order", func(s *ANSISurface) { s.MoveTo(12, 3) }, "\x1b[3;12H"},
		{"newline", func(s *ANSISurface) { s.Newline() }, "\r\n"},
		{"hide", func(s *ANSISurface) { s.HideCursor() }, "\x1b[?25l"},
		{"show", func(s *ANSISurface) { s.ShowCursor() }, "\x1b[?25h"},
		{"clear", func(s *ANSISurface) { s.Clear() }, "\x1b[2J"},
		{"clear eol", func(s *ANSISurface) { s.ClearToEOL() }, "\x1b[K"},
		{"reset fg", func(s *ANSISurface) { s.ResetFg() }, "\x1b[39m"},
		{"put", func(s *ANSISurface) { s.Put("†") }, "†"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			s := NewANSISurface(&buf, ColorMode256)
			tt.draw(s)
			if err := s.Flush(); err != nil {
				t.Fatalf("Flush failed: %v", err)
			}
			if got := buf.String(); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestANSISurfaceFgByColorMode(t *testing.T) {
	var buf bytes.Buffer
	s := NewANSISurface(&buf, ColorMode256)
	s.SetFg(RGBLightWhite)
	s.Flush()
	if got := buf.String(); got != "\x1b[38;5;231m" {
		t.Errorf("256 mode: got %q", got)
	}

	buf.Reset()
	s = NewANSISurface(&buf, ColorModeTrueColor)
	s.SetFg(RGB{R: 200, G: 10, B: 0})
	s.Flush()
	if got := buf.String(); got != "\x1b[38;2;200;10;0m" {
		t.Errorf("truecolor mode: got %q", got)
	}
}

func TestANSISurfaceBuffersUntilFlush(t *testing.T) {
	var buf bytes.Buffer
	s := NewANSISurface(&buf, ColorMode256)

	s.MoveTo(2, 2)
	s.Put("X")
	if buf.Len() != 0 {
		t.Fatalf("output reached device before Flush: %q", buf.String())
	}

	s.Flush()
	if buf.String() != "\x1b[2;2HX" {
		t.Errorf("unexpected frame %q", buf.String())
	}
}

type failWriter struct{ err error }

func (f failWriter) Write(p []byte) (int, error) { return 0, f.err }

func TestANSISurfaceFlushError(t *testing.T) {
	sentinel := errors.New("device gone")
	s := NewANSISurface(failWriter{sentinel}, ColorMode256)

	s.Put("frame")
	if err := s.Flush(); !errors.Is(err, sentinel) {
		t.Errorf("expected device error from Flush, got %v", err)
	}
}
