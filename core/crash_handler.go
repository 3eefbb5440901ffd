package core

import (
	"fmt"
	"os"
	"runtime/debug"
	"sync"

	"github.com/lixenwraith/crawl/terminal"
)

// Finalizer is the part of a display the crash path needs to restore
type Finalizer interface {
	Fini()
}

var (
	crashMu       sync.Mutex
	crashTerminal Finalizer
)

// SetCrashTerminal registers the display restored by HandleCrash
// Passing nil falls back to EmergencyReset on stdout
func SetCrashTerminal(t Finalizer) {
	crashMu.Lock()
	crashTerminal = t
	crashMu.Unlock()
}

// HandleCrash is the unified panic handler that resets the terminal and prints the stack trace
func HandleCrash(r any) {
	if r == nil {
		return
	}

	crashMu.Lock()
	t := crashTerminal
	crashMu.Unlock()

	if t != nil {
		t.Fini()
	} else {
		terminal.EmergencyReset(os.Stdout)
	}

	os.Stdout.Sync()

	// Raw mode may still be active on the fallback path, \r\n keeps lines aligned
	fmt.Fprintf(os.Stderr, "\r\n\x1b[31mCRASH DETECTED: %v\x1b[0m\r\n", r)
	fmt.Fprintf(os.Stderr, "Stack Trace:\r\n%s\r\n", debug.Stack())
	os.Stderr.Sync()

	os.Exit(1)
}

// Go runs a function in a new goroutine with panic recovery.
// Use this instead of the 'go' keyword to ensure terminal cleanup on crash.
func Go(fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				HandleCrash(r)
			}
		}()
		fn()
	}()
}
