// Package dashboard pushes live market and audit data to browsers.
package dashboard

import (
	"context"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/yanun0323/logs"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(*http.Request) bool { return true },
}

// Hub fans messages out to every connected websocket client. A client
// that cannot keep up is dropped rather than slowing the others.
type Hub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]chan []byte
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{clients: make(map[*websocket.Conn]chan []byte)}
}

// Broadcast queues the payload for every connected client.
func (h *Hub) Broadcast(payload []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn, send := range h.clients {
		select {
		case send <- payload:
		default:
			h.dropLocked(conn)
		}
	}
}

// ServeWS upgrades the request and registers the connection.
func (h *Hub) ServeWS(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logs.Warnf("websocket upgrade: %v", err)
		return
	}

	send := make(chan []byte, 64)
	h.mu.Lock()
	h.clients[conn] = send
	h.mu.Unlock()

	go h.writeLoop(conn, send)
	go h.readLoop(conn)
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients {
		h.dropLocked(conn)
	}
}

// Pump forwards payloads from the channel to all clients until the
// context is done or the channel closes.
func (h *Hub) Pump(ctx context.Context, payloads <-chan []byte) {
	for {
		select {
		case <-ctx.Done():
			return
		case payload, ok := <-payloads:
			if !ok {
				return
			}
			h.Broadcast(payload)
		}
	}
}

func (h *Hub) writeLoop(conn *websocket.Conn, send <-chan []byte) {
	for payload := range send {
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			h.drop(conn)
			return
		}
	}
	_ = conn.Close()
}

// readLoop discards inbound frames so pings and close handshakes are
// processed.
func (h *Hub) readLoop(conn *websocket.Conn) {
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			h.drop(conn)
			return
		}
	}
}

func (h *Hub) drop(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.dropLocked(conn)
}

func (h *Hub) dropLocked(conn *websocket.Conn) {
	send, ok := h.clients[conn]
	if !ok {
		return
	}
	delete(h.clients, conn)
	close(send)
	_ = conn.Close()
}

// Count reports the number of connected clients.
func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}
