package main

import (
	"context"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/crawl/terminal"
)

const (
	keyCtrlC = 0x03
	keyEsc   = 0x1b
)

// isQuit reports whether a raw input chunk is a quit key
// A lone ESC quits; ESC followed by more bytes is an escape sequence such as a mouse report
func isQuit(b []byte) bool {
	if len(b) == 0 {
		return false
	}
	switch b[0] {
	case 'q', 'Q', keyCtrlC:
		return true
	case keyEsc:
		return len(b) == 1
	}
	return false
}

// readQuit watches raw terminal input and cancels on a quit key
func readQuit(ctx context.Context, term terminal.Terminal, cancel context.CancelFunc) {
	for {
		b, err := term.Read(ctx.Done())
		if err != nil || b == nil {
			return
		}
		if isQuit(b) {
			cancel()
			return
		}
	}
}

// pollTcell handles tcell keys and resizes until the screen is finalized
func pollTcell(screen tcell.Screen, cancel context.CancelFunc, repaint func()) {
	for {
		switch ev := screen.PollEvent().(type) {
		case nil:
			return
		case *tcell.EventKey:
			if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC ||
				(ev.Key() == tcell.KeyRune && (ev.Rune() == 'q' || ev.Rune() == 'Q')) {
				cancel()
			}
		case *tcell.EventResize:
			screen.Sync()
			repaint()
		}
	}
}
