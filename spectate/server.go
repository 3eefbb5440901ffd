package spectate

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"
)

const shutdownTimeout = 2 * time.Second

// Serve listens on addr and serves the hub until ctx ends
// ready, when non-nil, receives the bound address once listening
func (h *Hub) Serve(ctx context.Context, addr string, ready chan<- net.Addr) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	if ready != nil {
		ready <- ln.Addr()
	}

	srv := &http.Server{
		Handler:           h.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()
	h.log.WithField("addr", ln.Addr().String()).Info("spectate server listening")

	select {
	case err := <-errCh:
		h.Close()
		return err
	case <-ctx.Done():
	}

	// Hijacked websocket connections are not tracked by Shutdown; Close ends them
	h.Close()
	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
