package terminal

import (
	"bufio"
)

// Pre-allocated ANSI sequence fragments
var (
	csi         = []byte("\x1b[")
	csiClearAll = []byte("\x1b[2J")
	csiClearEOL = []byte("\x1b[K")
	csiRIS      = []byte("\x1bc") // Reset to Initial State (emergency)
	csiSGR0     = []byte("\x1b[0m")
	crlf        = []byte("\r\n")

	// Cursor control
	csiCursorHide = []byte("\x1b[?25l")
	csiCursorShow = []byte("\x1b[?25h")

	// Color
	csiFg256     = []byte("\x1b[38;5;") // followed by N;m
	csiFgRGB     = []byte("\x1b[38;2;") // followed by R;G;B;m
	csiDefaultFg = []byte("\x1b[39m")

	// Mouse reporting (xterm), SGR extended coordinates
	csiMouseClickOn   = []byte("\x1b[?1000h")
	csiMouseClickOff  = []byte("\x1b[?1000l")
	csiMouseDragOn    = []byte("\x1b[?1002h")
	csiMouseDragOff   = []byte("\x1b[?1002l")
	csiMouseMotionOn  = []byte("\x1b[?1003h")
	csiMouseMotionOff = []byte("\x1b[?1003l")
	csiMouseSGROn     = []byte("\x1b[?1006h")
	csiMouseSGROff    = []byte("\x1b[?1006l")
)

// writeInt writes an integer without allocation
// Optimized for terminal values (0-255 common, 0-999 typical max)
func writeInt(w *bufio.Writer, n int) {
	if n < 0 {
		n = 0
	}
	if n < 10 {
		w.WriteByte(byte(n) + '0')
		return
	}
	if n < 100 {
		w.WriteByte(byte(n/10) + '0')
		w.WriteByte(byte(n%10) + '0')
		return
	}
	if n < 1000 {
		w.WriteByte(byte(n/100) + '0')
		w.WriteByte(byte(n/10%10) + '0')
		w.WriteByte(byte(n%10) + '0')
		return
	}
	var buf [5]byte
	i := 4
	for n > 0 {
		buf[i] = byte(n%10) + '0'
		n /= 10
		i--
	}
	w.Write(buf[i+1:])
}

// writeCursorPos writes a cursor positioning sequence (1-indexed, terminal addressing)
func writeCursorPos(w *bufio.Writer, col, row int) {
	w.Write(csi)
	writeInt(w, row)
	w.WriteByte(';')
	writeInt(w, col)
	w.WriteByte('H')
}

// writeFg writes a complete foreground color sequence for the color mode
func writeFg(w *bufio.Writer, mode ColorMode, fg RGB) {
	if mode == ColorModeTrueColor {
		w.Write(csiFgRGB)
		writeInt(w, int(fg.R))
		w.WriteByte(';')
		writeInt(w, int(fg.G))
		w.WriteByte(';')
		writeInt(w, int(fg.B))
		w.WriteByte('m')
		return
	}
	w.Write(csiFg256)
	writeInt(w, int(RGBTo256(fg)))
	w.WriteByte('m')
}
