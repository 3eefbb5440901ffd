package terminal

import (
	"io"
	"os"
	"sync"
)

// Terminal is the raw-mode display device owned by the caller of the render loop
// Init acquires raw mode, Fini releases it; the render loop only writes
type Terminal interface {
	io.Writer

	// Init enters raw mode and enables mouse reporting
	Init() error

	// Fini restores terminal state. Safe to call multiple times
	Fini()

	// Size returns current terminal dimensions
	Size() (width, height int)

	// ResizeChan returns channel that receives resize events
	ResizeChan() <-chan ResizeEvent

	// ColorMode returns the color capability in use
	ColorMode() ColorMode

	// Read blocks for raw input bytes until stop is closed
	Read(stop <-chan struct{}) ([]byte, error)
}

// ResizeEvent represents a terminal resize
type ResizeEvent struct {
	Width  int
	Height int
}

// termImpl implements Terminal using the Backend interface
type termImpl struct {
	backend   Backend
	colorMode ColorMode
	mouseMode MouseMode
	resizeCh  chan ResizeEvent

	mu          sync.Mutex
	initialized bool
	finalized   bool
}

// New creates a Terminal on stdin/stdout
// colorMode overrides environment detection when given
func New(colorMode ...ColorMode) Terminal {
	c := DetectColorMode()
	if len(colorMode) > 0 {
		c = colorMode[0]
	}
	return newTerm(newBackend(), c, MouseModeClick)
}

func newTerm(b Backend, c ColorMode, mouse MouseMode) *termImpl {
	return &termImpl{
		backend:   b,
		colorMode: c,
		mouseMode: mouse,
		resizeCh:  make(chan ResizeEvent, 1),
	}
}

// Init enters raw mode and sets up terminal
func (t *termImpl) Init() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.initialized {
		return nil
	}

	if err := t.backend.Init(); err != nil {
		return err
	}

	t.backend.SetResizeHandler(func(w, h int) {
		// Keep only the latest size pending
		select {
		case t.resizeCh <- ResizeEvent{Width: w, Height: h}:
		default:
			select {
			case <-t.resizeCh:
			default:
			}
			select {
			case t.resizeCh <- ResizeEvent{Width: w, Height: h}:
			default:
			}
		}
	})

	for _, seq := range mouseOnSeq(t.mouseMode) {
		t.backend.Write(seq)
	}

	t.initialized = true
	return nil
}

// Fini restores terminal state
// Screen contents are left in place so the final frame stays visible
func (t *termImpl) Fini() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.initialized || t.finalized {
		return
	}

	for _, seq := range mouseOffSeq(t.mouseMode) {
		t.backend.Write(seq)
	}
	t.backend.Write(csiCursorShow)
	t.backend.Write(csiSGR0)

	t.backend.Fini()
	t.finalized = true
}

func (t *termImpl) Write(p []byte) (int, error) {
	if err := t.backend.Write(p); err != nil {
		return 0, err
	}
	return len(p), nil
}

func (t *termImpl) Size() (int, int) {
	return t.backend.Size()
}

func (t *termImpl) ResizeChan() <-chan ResizeEvent {
	return t.resizeCh
}

func (t *termImpl) ColorMode() ColorMode {
	return t.colorMode
}

func (t *termImpl) Read(stop <-chan struct{}) ([]byte, error) {
	return t.backend.Read(stop)
}

// EmergencyReset attempts to restore terminal to sane state
// Call this from panic recovery if Fini() cannot be called normally
func EmergencyReset(w io.Writer) {
	for _, seq := range mouseOffSeq(MouseModeClick | MouseModeDrag | MouseModeMotion) {
		w.Write(seq)
	}
	w.Write(csiCursorShow)
	w.Write(csiSGR0)
	w.Write(csiRIS)

	if f, ok := w.(*os.File); ok {
		f.Sync()
	}

	// Escape sequences alone don't restore termios; best-effort in crash context
	resetTerminalMode()
}
