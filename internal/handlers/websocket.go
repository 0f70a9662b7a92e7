package handlers

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/ternarybob/arbor"

	"github.com/plumehq/plume/internal/common"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// wireMessage is the envelope pushed to connected clients.
type wireMessage struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

type client struct {
	userID string
	conn   *websocket.Conn
	send   chan wireMessage
}

// WebSocketHandler maintains per-user realtime connections and fans
// messages out to every connection a user holds.
type WebSocketHandler struct {
	logger  arbor.ILogger
	mu      sync.RWMutex
	clients map[string]map[*client]bool
}

func NewWebSocketHandler() *WebSocketHandler {
	return &WebSocketHandler{
		logger:  common.GetLogger(),
		clients: make(map[string]map[*client]bool),
	}
}

// ServeWS upgrades a request to a websocket connection. The user is
// identified by the user_id query parameter; upstream middleware has
// already authenticated the request.
func (h *WebSocketHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		http.Error(w, "user_id is required", http.StatusBadRequest)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn().Err(err).Msg("WebSocket upgrade failed")
		return
	}

	c := &client{userID: userID, conn: conn, send: make(chan wireMessage, 32)}
	h.register(c)

	common.SafeGo(h.logger, "ws-write-"+userID, func() { h.writePump(c) })
	common.SafeGo(h.logger, "ws-read-"+userID, func() { h.readPump(c) })
}

// SendToUser queues a message for every connection the user holds. Slow
// connections are dropped rather than allowed to block the hub.
func (h *WebSocketHandler) SendToUser(userID, messageType string, data interface{}) {
	h.mu.RLock()
	conns := make([]*client, 0, len(h.clients[userID]))
	for c := range h.clients[userID] {
		conns = append(conns, c)
	}
	h.mu.RUnlock()

	for _, c := range conns {
		select {
		case c.send <- wireMessage{Type: messageType, Data: data}:
		default:
			h.logger.Warn().
				Str("user_id", userID).
				Str("message_type", messageType).
				Msg("Dropping slow websocket client")
			h.unregister(c)
		}
	}
}

// ConnectedUsers returns the number of users with at least one connection.
func (h *WebSocketHandler) ConnectedUsers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *WebSocketHandler) register(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[c.userID] == nil {
		h.clients[c.userID] = make(map[*client]bool)
	}
	h.clients[c.userID][c] = true
	h.logger.Debug().Str("user_id", c.userID).Msg("WebSocket client connected")
}

func (h *WebSocketHandler) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if conns, ok := h.clients[c.userID]; ok {
		if conns[c] {
			delete(conns, c)
			close(c.send)
			c.conn.Close()
		}
		if len(conns) == 0 {
			delete(h.clients, c.userID)
		}
	}
}

func (h *WebSocketHandler) readPump(c *client) {
	defer h.unregister(c)
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *WebSocketHandler) writePump(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		h.unregister(c)
	}()
	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(message); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
