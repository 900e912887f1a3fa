// Package party pushes now-playing updates to listeners connected over
// websocket, so phones on the same LAN can follow along with playback.
package party

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/GajjarKashyap/Audio/logger"
	"github.com/GajjarKashyap/Audio/model"
)

const (
	writeWait = 5 * time.Second

	// Broadcasts queued per client before it is considered unresponsive.
	sendBuffer = 8
)

// Message is the envelope broadcast to every connected client.
type Message struct {
	Type  string      `json:"type"`
	Track model.Track `json:"track"`
}

// client pairs a connection with its outbound queue. All writes to the
// connection happen on the client's own pump goroutine, so a stalled
// socket never holds up the hub.
type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub tracks the connected party clients and broadcasts now-playing
// messages to all of them. Clients that cannot keep up are dropped.
type Hub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]*client
}

// NewHub returns an empty hub.
func NewHub() *Hub {
	return &Hub{clients: make(map[*websocket.Conn]*client)}
}

// Add registers a connection for broadcasts and starts its write pump.
func (h *Hub) Add(conn *websocket.Conn) {
	c := &client{conn: conn, send: make(chan []byte, sendBuffer)}

	h.mu.Lock()
	h.clients[conn] = c
	count := len(h.clients)
	h.mu.Unlock()

	go h.writePump(c)
	logger.Info("party client connected", logger.Int("clients", count))
}

// Remove unregisters a connection; its pump closes the socket.
func (h *Hub) Remove(conn *websocket.Conn) {
	if c := h.detach(conn); c != nil {
		close(c.send)
	}
	logger.Info("party client disconnected", logger.Int("clients", h.Count()))
}

// Count returns the number of connected clients.
func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// BroadcastNowPlaying queues the track for every connected client. The
// sends are non-blocking: a client whose queue is full is dropped on the
// spot rather than stalling joins, leaves and later broadcasts.
func (h *Hub) BroadcastNowPlaying(track model.Track) {
	payload, err := json.Marshal(Message{Type: "now_playing", Track: track})
	if err != nil {
		logger.Error("failed to encode party message", logger.ErrorField(err))
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for conn, c := range h.clients {
		select {
		case c.send <- payload:
		default:
			logger.Warn("dropping unresponsive party client")
			delete(h.clients, conn)
			close(c.send)
		}
	}
}

// detach removes conn's client from the set and returns it, if present.
// Whoever detaches a client owns closing its send channel.
func (h *Hub) detach(conn *websocket.Conn) *client {
	h.mu.Lock()
	defer h.mu.Unlock()
	c := h.clients[conn]
	delete(h.clients, conn)
	return c
}

// writePump drains the client's queue onto its connection. One writer
// per connection is a gorilla/websocket requirement, so this goroutine
// is the only place the hub touches the socket.
func (h *Hub) writePump(c *client) {
	defer c.conn.Close()

	for payload := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			logger.Warn("party client write failed", logger.ErrorField(err))
			if dead := h.detach(c.conn); dead != nil {
				close(dead.send)
			}
			return
		}
	}

	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}
