package playground

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/vango-dev/toaster/pkg/toast"
)

// MessageType identifies a message sent to browsers.
type MessageType string

// MessageSnapshot carries the serialized container and toast states.
const MessageSnapshot MessageType = "snapshot"

// Message is sent to browsers via WebSocket.
type Message struct {
	Type     MessageType  `json:"type"`
	Position string       `json:"position,omitempty"`
	HTML     string       `json:"html,omitempty"`
	Toasts   []ToastState `json:"toasts,omitempty"`
}

// ToastState is the JSON form of a toast snapshot.
type ToastState struct {
	ID      string  `json:"id"`
	Kind    string  `json:"kind"`
	Message string  `json:"message"`
	Title   string  `json:"title,omitempty"`
	Variant string  `json:"variant"`
	State   string  `json:"state"`
	Offset  float64 `json:"offset"`
	ZIndex  int     `json:"zIndex"`
	Visible bool    `json:"visible"`
	Created int64   `json:"createdAt"`
}

func toastStates(snap []toast.Snapshot) []ToastState {
	out := make([]ToastState, len(snap))
	for i, s := range snap {
		out[i] = ToastState{
			ID:      s.ID.String(),
			Kind:    string(s.Kind),
			Message: s.Message,
			Title:   s.Title,
			Variant: string(s.Variant),
			State:   s.State.String(),
			Offset:  s.Slot.Offset,
			ZIndex:  s.Slot.ZIndex,
			Visible: s.Slot.Visible,
			Created: s.CreatedAt.UnixMilli(),
		}
	}
	return out
}

// client serializes writes to one connection.
type client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *client) send(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

// Hub manages WebSocket connections that follow the toast stack.
type Hub struct {
	clients  map[*client]bool
	mu       sync.RWMutex
	upgrader websocket.Upgrader
	initial  func() Message
	logger   *slog.Logger
}

// NewHub creates a hub. initial builds the message sent to each new client.
func NewHub(initial func() Message, logger *slog.Logger) *Hub {
	return &Hub{
		clients: make(map[*client]bool),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin: func(r *http.Request) bool {
				return true // local playground
			},
		},
		initial: initial,
		logger:  logger,
	}
}

// HandleWebSocket handles WebSocket upgrade and connection.
func (h *Hub) HandleWebSocket(w http.ResponseWriter, req *http.Request) {
	conn, err := h.upgrader.Upgrade(w, req, nil)
	if err != nil {
		h.logger.Debug("websocket upgrade failed", "error", err)
		return
	}
	c := &client{conn: conn}

	h.mu.Lock()
	h.clients[c] = true
	h.mu.Unlock()

	if h.initial != nil {
		if data, err := json.Marshal(h.initial()); err == nil {
			_ = c.send(data)
		}
	}

	// Keep connection alive until client disconnects
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	h.mu.Lock()
	delete(h.clients, c)
	h.mu.Unlock()
	conn.Close()
}

// Broadcast sends msg to all clients. Clients that fail are dropped.
func (h *Hub) Broadcast(msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Warn("encode broadcast", "error", err)
		return
	}

	h.mu.RLock()
	clients := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	for _, c := range clients {
		if err := c.send(data); err != nil {
			h.mu.Lock()
			delete(h.clients, c)
			h.mu.Unlock()
			c.conn.Close()
		}
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close closes all client connections.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for c := range h.clients {
		c.conn.Close()
		delete(h.clients, c)
	}
}
