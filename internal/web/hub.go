package web

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/JonMunkholm/aidrug/internal/core"
	"github.com/JonMunkholm/aidrug/internal/logging"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = pongWait * 9 / 10
	maxMessageSize = 64 << 10
	sendBuffer     = 16
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
}

// Message is what the server pushes over a dashboard socket.
type Message struct {
	Type  string            `json:"type"` // "cycle" or "error"
	Cycle *core.Cycle       `json:"cycle,omitempty"`
	Error *core.UserMessage `json:"error,omitempty"`
}

type client struct {
	session string
	conn    *websocket.Conn
	send    chan []byte
}

// Hub tracks the open sockets of every session so a cycle produced by one
// tab reaches all tabs of the same session.
type Hub struct {
	mu      sync.Mutex
	clients map[string]map[*client]bool
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{clients: make(map[string]map[*client]bool)}
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[c.session] == nil {
		h.clients[c.session] = make(map[*client]bool)
	}
	h.clients[c.session][c] = true
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if set, ok := h.clients[c.session]; ok && set[c] {
		delete(set, c)
		close(c.send)
		if len(set) == 0 {
			delete(h.clients, c.session)
		}
	}
}

// Broadcast sends msg to every socket of a session. Clients that cannot
// keep up are dropped.
func (h *Hub) Broadcast(sessionID string, msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		slog.Error("websocket: marshal message", "error", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients[sessionID] {
		select {
		case c.send <- data:
		default:
			close(c.send)
			delete(h.clients[sessionID], c)
		}
	}
}

// sendTo queues data for one client if it is still registered.
func (h *Hub) sendTo(c *client, data []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.clients[c.session][c] {
		return
	}
	select {
	case c.send <- data:
	default:
	}
}

// Count returns the number of open sockets for a session.
func (h *Hub) Count(sessionID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients[sessionID])
}

// CloseAll closes every socket.
func (h *Hub) CloseAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, set := range h.clients {
		for c := range set {
			close(c.send)
		}
		delete(h.clients, id)
	}
}

// handleWebsocket upgrades the connection, pushes a full refresh and then
// applies every event the client sends, broadcasting the resulting cycle.
func (s *Server) handleWebsocket(w http.ResponseWriter, r *http.Request) {
	id, r := sessionParam(r)
	if _, err := s.service.Selection(id); err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error.
		logging.FromContext(r.Context()).Warn("websocket: upgrade failed", "error", err)
		return
	}

	c := &client{session: id, conn: conn, send: make(chan []byte, sendBuffer)}
	s.hub.register(c)
	go c.writePump()

	if cycle, err := s.service.Dispatch(id, core.Event{Type: core.EventRefresh}); err == nil {
		s.hub.Broadcast(id, Message{Type: "cycle", Cycle: &cycle})
	}

	s.readPump(r, c)
}

// readPump decodes events until the socket closes. Rejected events are
// reported to the sending socket only.
func (s *Server) readPump(r *http.Request, c *client) {
	logger := logging.FromContext(r.Context())
	defer func() {
		s.hub.unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warn("websocket: read failed", "error", err)
			}
			return
		}

		ev, err := core.DecodeEvent(data)
		if err == nil {
			var cycle core.Cycle
			cycle, err = s.service.Dispatch(c.session, ev)
			if err == nil {
				s.hub.Broadcast(c.session, Message{Type: "cycle", Cycle: &cycle})
				continue
			}
		}

		msg := core.MapError(err)
		logger.Warn("websocket: event rejected", "error", err, "code", msg.Code)
		data, _ = json.Marshal(Message{Type: "error", Error: &msg})
		s.hub.sendTo(c, data)
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
