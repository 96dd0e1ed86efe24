package server

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ayusman/aero/internal/gesture"
)

// clientBuffer is how many messages may queue for a slow client before
// further events to it are dropped.
const clientBuffer = 64

var writeTimeout = 5 * time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// EventMessage is the JSON frame sent to WebSocket clients for each event.
type EventMessage struct {
	Name        string        `json:"name"`
	TimestampMs int64         `json:"timestamp_ms"`
	Event       gesture.Event `json:"event"`
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub broadcasts gesture events, cursor moves included, to every connected
// WebSocket client.
type Hub struct {
	clients map[*client]struct{}
	mu      sync.RWMutex
}

// NewHub creates a hub with no clients.
func NewHub() *Hub {
	return &Hub{clients: make(map[*client]struct{})}
}

// ServeHTTP upgrades the request and keeps the client registered until the
// connection closes.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	c := &client{conn: conn, send: make(chan []byte, clientBuffer)}
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()

	done := make(chan struct{})
	go func() {
		defer close(done)
		c.writeLoop()
	}()

	// Reading drives control frames and notices the peer going away.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	h.mu.Lock()
	delete(h.clients, c)
	close(c.send)
	h.mu.Unlock()
	<-done
}

func (c *client) writeLoop() {
	for msg := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			// Closing ends the read loop in ServeHTTP, which unregisters the
			// client and closes send.
			c.conn.Close()
			for range c.send {
			}
			return
		}
	}
}

// HandleEvent sends ev to every client without blocking the caller.
func (h *Hub) HandleEvent(ev gesture.Event, timestampMs int64) {
	if h.Clients() == 0 {
		return
	}

	msg, err := json.Marshal(EventMessage{Name: ev.Name(), TimestampMs: timestampMs, Event: ev})
	if err != nil {
		log.Printf("Failed to encode event: %v", err)
		return
	}
	h.broadcast(msg)
}

// broadcast queues msg for every client, skipping those whose queue is full.
func (h *Hub) broadcast(msg []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		select {
		case c.send <- msg:
		default:
		}
	}
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
