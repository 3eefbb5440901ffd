package spectate

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + Path
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	return conn
}

func waitViewers(t *testing.T, h *Hub, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for h.Viewers() != n {
		if time.Now().After(deadline) {
			t.Fatalf("expected %d viewers, have %d", n, h.Viewers())
		}
		time.Sleep(time.Millisecond)
	}
}

func TestWriteWithoutViewers(t *testing.T) {
	h := NewHub(nil, nil)
	n, err := h.Write([]byte("frame"))
	if err != nil || n != 5 {
		t.Errorf("Write = (%d, %v), want (5, nil)", n, err)
	}
}

func TestViewerReceivesFramesAndTriggersRepaint(t *testing.T) {
	joined := make(chan struct{}, 4)
	h := NewHub(func() { joined <- struct{}{} }, nil)
	srv := httptest.NewServer(h.Router())
	defer srv.Close()

	conn := dial(t, srv)
	defer conn.Close()

	select {
	case <-joined:
	case <-time.After(2 * time.Second):
		t.Fatal("join did not request a repaint")
	}
	waitViewers(t, h, 1)

	frame := []byte("\x1b[2J\x1b[1;1H#####\r\n")
	h.Write(frame)
	// The hub owns a copy; reusing the caller buffer must not alter the frame
	frame[0] = 'Z'

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	kind, got, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if kind != websocket.BinaryMessage {
		t.Errorf("expected binary message, got %d", kind)
	}
	if string(got) != "\x1b[2J\x1b[1;1H#####\r\n" {
		t.Errorf("got frame %q", got)
	}
}

func TestViewerLeaves(t *testing.T) {
	h := NewHub(nil, nil)
	srv := httptest.NewServer(h.Router())
	defer srv.Close()

	conn := dial(t, srv)
	waitViewers(t, h, 1)

	conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	conn.Close()
	waitViewers(t, h, 0)

	// Writes after departure are harmless
	if _, err := h.Write([]byte("x")); err != nil {
		t.Errorf("Write: %v", err)
	}
}

func TestRouterRejectsOtherRoutes(t *testing.T) {
	h := NewHub(nil, nil)
	srv := httptest.NewServer(h.Router())
	defer srv.Close()

	resp, err := http.Post(srv.URL+Path, "text/plain", nil)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("POST %s status %d, want 404", Path, resp.StatusCode)
	}

	resp, err = http.Get(srv.URL + Path)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("plain GET status %d, want 400", resp.StatusCode)
	}
}

func TestSlowViewerDropsThenResyncs(t *testing.T) {
	repaints := 0
	h := NewHub(func() { repaints++ }, nil)

	v := &viewer{send: make(chan []byte, 1)}
	h.register(v)

	h.Write([]byte("a"))
	h.Write([]byte("b"))
	if h.Dropped() != 1 {
		t.Fatalf("expected 1 dropped frame, got %d", h.Dropped())
	}
	if repaints != 0 {
		t.Fatal("no repaint until the viewer catches up")
	}

	<-v.send
	h.Write([]byte("c"))
	if repaints != 1 {
		t.Errorf("expected a repaint once the viewer caught up, got %d", repaints)
	}
	if got := <-v.send; string(got) != "c" {
		t.Errorf("got %q after resync", got)
	}
}

func TestCloseRefusesViewers(t *testing.T) {
	h := NewHub(nil, nil)
	v := &viewer{send: make(chan []byte, 1)}
	h.register(v)

	h.Close()
	if _, ok := <-v.send; ok {
		t.Error("viewer queue should be closed")
	}
	if h.register(&viewer{send: make(chan []byte, 1)}) {
		t.Error("closed hub accepted a viewer")
	}
	if h.Viewers() != 0 {
		t.Errorf("expected no viewers, got %d", h.Viewers())
	}
}

func TestServeUntilCancelled(t *testing.T) {
	h := NewHub(nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	ready := make(chan net.Addr, 1)
	done := make(chan error, 1)
	go func() { done <- h.Serve(ctx, "127.0.0.1:0", ready) }()

	addr := <-ready
	conn, _, err := websocket.DefaultDialer.Dial("ws://"+addr.String()+Path, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	waitViewers(t, h, 1)

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Serve: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return")
	}
	if h.Viewers() != 0 {
		t.Error("viewers should be disconnected on shutdown")
	}
}
