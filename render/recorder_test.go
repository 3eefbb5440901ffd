package render

import (
	"sync"
	"unicode/utf8"

	"github.com/lixenwraith/crawl/terminal"
)

type opKind string

const (
	opHide    opKind = "hide"
	opShow    opKind = "show"
	opClear   opKind = "clear"
	opMove    opKind = "move"
	opPut     opKind = "put"
	opNewline opKind = "newline"
	opFg      opKind = "fg"
	opResetFg opKind = "resetfg"
	opEOL     opKind = "eol"
	opFlush   opKind = "flush"
)

type op struct {
	kind     opKind
	col, row int
	text     string
	color    terminal.RGB
}

// recorder is a Surface that logs every call with the cursor position it applied to
type recorder struct {
	mu       sync.Mutex
	ops      []op
	col, row int

	flushes     int
	failOnFlush int // 1-based flush number to fail, 0 never
	flushErr    error
}

func (r *recorder) add(o op) {
	r.mu.Lock()
	r.ops = append(r.ops, o)
	r.mu.Unlock()
}

func (r *recorder) Clear()      { r.add(op{kind: opClear}) }
func (r *recorder) HideCursor() { r.add(op{kind: opHide}) }
func (r *recorder) ShowCursor() { r.add(op{kind: opShow}) }
func (r *recorder) ResetFg()    { r.add(op{kind: opResetFg}) }
func (r *recorder) ClearToEOL() { r.add(op{kind: opEOL}) }

func (r *recorder) MoveTo(col, row int) {
	r.col, r.row = col, row
	r.add(op{kind: opMove, col: col, row: row})
}

func (r *recorder) Put(glyph string) {
	r.add(op{kind: opPut, col: r.col, row: r.row, text: glyph})
	r.col += utf8.RuneCountInString(glyph)
}

func (r *recorder) Newline() {
	r.col = 1
	r.row++
	r.add(op{kind: opNewline})
}

func (r *recorder) SetFg(c terminal.RGB) { r.add(op{kind: opFg, color: c}) }

func (r *recorder) Flush() error {
	r.flushes++
	r.add(op{kind: opFlush})
	if r.failOnFlush > 0 && r.flushes >= r.failOnFlush {
		return r.flushErr
	}
	return nil
}

func (r *recorder) snapshot() []op {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]op(nil), r.ops...)
}

func (r *recorder) reset() {
	r.mu.Lock()
	r.ops = nil
	r.mu.Unlock()
}

// putsAt returns every glyph written at a screen cell, in order
func putsAt(ops []op, col, row int) []string {
	var out []string
	for _, o := range ops {
		if o.kind == opPut && o.col == col && o.row == row {
			out = append(out, o.text)
		}
	}
	return out
}

func countKind(ops []op, k opKind) int {
	n := 0
	for _, o := range ops {
		if o.kind == k {
			n++
		}
	}
	return n
}
