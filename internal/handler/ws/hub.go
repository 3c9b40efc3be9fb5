package ws

import (
	"net/http"
	"sync"
	"time"

	"github.com/driver4567/StockvsTrend/internal/domain/models"
	"github.com/driver4567/StockvsTrend/internal/usecase"
	applogger "github.com/driver4567/StockvsTrend/pkg/logger"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

// Hub streams series snapshots to WebSocket clients. Each client holds at
// most one pending snapshot; a slow client skips straight to the newest.
type Hub struct {
	dash         *usecase.Dashboard
	upgrader     websocket.Upgrader
	pingInterval time.Duration
	writeTimeout time.Duration
	logger       *applogger.Logger

	// mu is never held while calling into the dashboard: the orchestrator
	// calls OnOutput with its own lock held.
	mu          sync.Mutex
	clients     map[*client]struct{}
	unsubscribe func()
	started     bool
	closed      bool
}

type client struct {
	conn *websocket.Conn
	send chan models.Output

	mu      sync.Mutex
	lastSeq uint64
	offered bool
}

func NewHub(dash *usecase.Dashboard, pingInterval, writeTimeout time.Duration, l *applogger.Logger) *Hub {
	return &Hub{
		dash: dash,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		pingInterval: pingInterval,
		writeTimeout: writeTimeout,
		logger:       l,
		clients:      make(map[*client]struct{}),
	}
}

// Start subscribes the hub to the dashboard.
func (h *Hub) Start() {
	h.mu.Lock()
	if h.started || h.closed {
		h.mu.Unlock()
		return
	}
	h.started = true
	h.mu.Unlock()

	unsubscribe := h.dash.Subscribe(h)

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		unsubscribe()
		return
	}
	h.unsubscribe = unsubscribe
	h.mu.Unlock()
}

// OnOutput fans a snapshot out to every client without blocking.
func (h *Hub) OnOutput(out models.Output) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		c.offer(out)
	}
}

func (h *Hub) RegisterRoutes(e *echo.Echo) {
	e.GET("/api/series/stream", h.Stream)
}

// Stream upgrades the request and serves snapshots until the peer goes away.
func (h *Hub) Stream(c echo.Context) error {
	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		h.logger.Warn("ws upgrade failed", applogger.Error(err))
		return nil
	}

	cl := &client{conn: conn, send: make(chan models.Output, 1)}
	if !h.register(cl) {
		_ = conn.Close()
		return nil
	}
	defer h.unregister(cl)

	cl.offer(h.dash.Output())
	h.logger.Debug("ws client connected", applogger.String("remote", c.RealIP()))

	done := make(chan struct{})
	go h.readPump(cl, done)
	h.writePump(cl, done)

	h.logger.Debug("ws client disconnected", applogger.String("remote", c.RealIP()))
	return nil
}

// Clients reports the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close detaches from the dashboard and drops every client.
func (h *Hub) Close() {
	h.mu.Lock()
	h.closed = true
	unsubscribe := h.unsubscribe
	h.unsubscribe = nil
	clients := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
	deadline := time.Now().Add(time.Second)
	for _, c := range clients {
		_ = c.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutdown"), deadline)
		_ = c.conn.Close()
	}
}

func (h *Hub) register(c *client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.clients[c] = struct{}{}
	return true
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	delete(h.clients, c)
	h.mu.Unlock()
	_ = c.conn.Close()
}

// readPump discards inbound frames; it exists to process control frames and
// notice when the peer closes.
func (h *Hub) readPump(c *client, done chan<- struct{}) {
	defer close(done)
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writePump(c *client, done <-chan struct{}) {
	var ping <-chan time.Time
	if h.pingInterval > 0 {
		ticker := time.NewTicker(h.pingInterval)
		defer ticker.Stop()
		ping = ticker.C
	}

	for {
		select {
		case <-done:
			return
		case out := <-c.send:
			_ = c.conn.SetWriteDeadline(h.deadline())
			if err := c.conn.WriteJSON(out); err != nil {
				h.logger.Debug("ws write failed", applogger.Error(err))
				return
			}
		case <-ping:
			if err := c.conn.WriteControl(websocket.PingMessage, nil, h.deadline()); err != nil {
				return
			}
		}
	}
}

func (h *Hub) deadline() time.Time {
	if h.writeTimeout <= 0 {
		return time.Time{}
	}
	return time.Now().Add(h.writeTimeout)
}

// offer queues out, replacing any snapshot the client has not taken yet.
// Snapshots older than the last one offered are ignored.
func (c *client) offer(out models.Output) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.offered && out.Seq <= c.lastSeq {
		return
	}
	c.offered = true
	c.lastSeq = out.Seq

	select {
	case <-c.send:
	default:
	}
	c.send <- out
}
