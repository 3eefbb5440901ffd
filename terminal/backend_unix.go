//go:build unix

package terminal

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

var ErrNotTerminal = errors.New("stdin is not a terminal")

type unixBackend struct {
	in      *os.File
	out     *os.File
	inFd    int
	outFd   int
	oldTerm *term.State
	readBuf []byte

	resizeStopCh chan struct{}
	resizeDoneCh chan struct{}
}

func newBackend() Backend {
	return &unixBackend{
		in:      os.Stdin,
		out:     os.Stdout,
		inFd:    int(os.Stdin.Fd()),
		outFd:   int(os.Stdout.Fd()),
		readBuf: make([]byte, 256),
	}
}

func (b *unixBackend) Init() error {
	if !term.IsTerminal(b.inFd) {
		return ErrNotTerminal
	}

	old, err := term.MakeRaw(b.inFd)
	if err != nil {
		return fmt.Errorf("raw mode: %w", err)
	}
	b.oldTerm = old
	return nil
}

func (b *unixBackend) Fini() {
	if b.resizeStopCh != nil {
		close(b.resizeStopCh)
		<-b.resizeDoneCh
		b.resizeStopCh = nil
	}
	if b.oldTerm != nil {
		term.Restore(b.inFd, b.oldTerm)
		b.oldTerm = nil
	}
}

func (b *unixBackend) Size() (int, int) {
	return getTerminalSize(b.outFd)
}

func (b *unixBackend) Write(p []byte) error {
	_, err := b.out.Write(p)
	return err
}

// Read polls stdin so the stop channel is observed between reads
func (b *unixBackend) Read(stopCh <-chan struct{}) ([]byte, error) {
	for {
		select {
		case <-stopCh:
			return nil, nil
		default:
		}

		fds := []unix.PollFd{
			{Fd: int32(b.inFd), Events: unix.POLLIN},
		}

		// 100ms timeout
		n, err := unix.Poll(fds, 100)
		if err != nil {
			if err == unix.EINTR {
				continue
			}
			return nil, err
		}
		if n == 0 {
			continue
		}

		rn, err := unix.Read(b.inFd, b.readBuf)
		if err != nil {
			if err == unix.EINTR || err == unix.EAGAIN {
				continue
			}
			return nil, err
		}
		if rn == 0 {
			// EOF
			return nil, nil
		}

		ret := make([]byte, rn)
		copy(ret, b.readBuf[:rn])
		return ret, nil
	}
}

func (b *unixBackend) SetResizeHandler(handler func(width, height int)) {
	b.resizeStopCh = make(chan struct{})
	b.resizeDoneCh = make(chan struct{})

	go func() {
		defer close(b.resizeDoneCh)
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGWINCH)
		defer signal.Stop(sigCh)

		for {
			select {
			case <-b.resizeStopCh:
				return
			case <-sigCh:
				w, h := b.Size()
				handler(w, h)
			}
		}
	}()
}

// getTerminalSize returns the terminal size for a given fd
func getTerminalSize(fd int) (int, int) {
	ws, err := unix.IoctlGetWinsize(fd, unix.TIOCGWINSZ)
	if err != nil {
		return 80, 24 // Fallback
	}
	return int(ws.Col), int(ws.Row)
}
