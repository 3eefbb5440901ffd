// Package spectate mirrors the terminal output stream to read-only websocket viewers.
package spectate

import (
	"io"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/matryer/way"
	"github.com/sirupsen/logrus"
)

// Path is the websocket endpoint
const Path = "/spectate"

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512

	// sendBuffer is how many frames a viewer may fall behind before frames are dropped
	sendBuffer = 64
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

type viewer struct {
	conn    *websocket.Conn
	send    chan []byte
	lagging bool
}

// Hub is an io.Writer that fans each write out to every connected viewer
// Writes never block: a viewer with a full queue loses the frame and gets a repaint once it catches up
type Hub struct {
	mu      sync.Mutex
	viewers map[*viewer]struct{}
	closed  bool

	onJoin  func()
	log     logrus.FieldLogger
	dropped atomic.Uint64
}

// NewHub creates a hub; onJoin runs whenever a viewer needs a full frame and may be nil
func NewHub(onJoin func(), log logrus.FieldLogger) *Hub {
	if onJoin == nil {
		onJoin = func() {}
	}
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	return &Hub{
		viewers: make(map[*viewer]struct{}),
		onJoin:  onJoin,
		log:     log.WithField("component", "spectate"),
	}
}

// Write copies p to every viewer queue. It always reports success
func (h *Hub) Write(p []byte) (int, error) {
	h.mu.Lock()
	if len(h.viewers) == 0 {
		h.mu.Unlock()
		return len(p), nil
	}

	frame := make([]byte, len(p))
	copy(frame, p)

	resync := false
	for v := range h.viewers {
		select {
		case v.send <- frame:
			if v.lagging {
				v.lagging = false
				resync = true
			}
		default:
			v.lagging = true
			h.dropped.Add(1)
		}
	}
	h.mu.Unlock()

	if resync {
		h.onJoin()
	}
	return len(p), nil
}

// Viewers returns the number of connected viewers
func (h *Hub) Viewers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.viewers)
}

// Dropped returns how many frames were discarded for slow viewers
func (h *Hub) Dropped() uint64 {
	return h.dropped.Load()
}

// Router serves the websocket endpoint
func (h *Hub) Router() *way.Router {
	r := way.NewRouter()
	r.HandleFunc(http.MethodGet, Path, h.HandleSpectate())
	return r
}

// HandleSpectate upgrades the request and streams frames until the viewer leaves
func (h *Hub) HandleSpectate() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			h.log.WithError(err).Warn("websocket upgrade failed")
			return
		}

		v := &viewer{conn: conn, send: make(chan []byte, sendBuffer)}
		if !h.register(v) {
			conn.Close()
			return
		}
		h.log.WithField("remote", r.RemoteAddr).Info("viewer joined")
		h.onJoin()

		go h.writePump(v)
		h.readPump(v)
		h.log.WithField("remote", r.RemoteAddr).Info("viewer left")
	}
}

// Close disconnects every viewer and refuses new ones
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for v := range h.viewers {
		delete(h.viewers, v)
		close(v.send)
	}
}

func (h *Hub) register(v *viewer) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.viewers[v] = struct{}{}
	return true
}

func (h *Hub) unregister(v *viewer) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.viewers[v]; ok {
		delete(h.viewers, v)
		close(v.send)
	}
}

// readPump discards viewer input and returns when the connection ends
func (h *Hub) readPump(v *viewer) {
	defer func() {
		h.unregister(v)
		v.conn.Close()
	}()

	v.conn.SetReadLimit(maxMessageSize)
	if err := v.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		h.log.WithError(err).Warn("failed to set read deadline")
	}
	v.conn.SetPongHandler(func(string) error {
		return v.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := v.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.WithError(err).Debug("viewer read failed")
			}
			return
		}
	}
}

// writePump sends queued frames as binary messages and keeps the connection alive
func (h *Hub) writePump(v *viewer) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		v.conn.Close()
	}()

	for {
		select {
		case frame, ok := <-v.send:
			v.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				v.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := v.conn.WriteMessage(websocket.BinaryMessage, frame); err != nil {
				h.log.WithError(err).Debug("viewer write failed")
				return
			}

		case <-ticker.C:
			v.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := v.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				h.log.WithError(err).Debug("ping failed")
				return
			}
		}
	}
}
