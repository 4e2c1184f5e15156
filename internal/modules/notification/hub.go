package notification

import (
	"log"
	"sync"

	"github.com/gorilla/websocket"
)

// Hub fans events out to WebSocket connections and in-process channel
// subscribers (reminder jobs, tests). A slow or dead subscriber is
// dropped, never waited on.
type Hub struct {
	mu    sync.RWMutex
	conns map[*websocket.Conn]struct{}
	subs  map[chan Event]struct{}
}

func NewHub() *Hub {
	return &Hub{
		conns: make(map[*websocket.Conn]struct{}),
		subs:  make(map[chan Event]struct{}),
	}
}

func (h *Hub) Register(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.conns[conn] = struct{}{}
}

func (h *Hub) Unregister(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.conns[conn]; ok {
		delete(h.conns, conn)
		_ = conn.Close()
	}
}

// Subscribe returns a buffered channel receiving every broadcast.
func (h *Hub) Subscribe() chan Event {
	ch := make(chan Event, 64)
	h.mu.Lock()
	defer h.mu.Unlock()
	h.subs[ch] = struct{}{}
	return ch
}

func (h *Hub) Unsubscribe(ch chan Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.subs[ch]; ok {
		delete(h.subs, ch)
		close(ch)
	}
}

// Broadcast delivers evt to every subscriber, best effort. Write
// failures close the connection; full channels drop the event.
func (h *Hub) Broadcast(evt Event) {
	h.mu.RLock()
	conns := make([]*websocket.Conn, 0, len(h.conns))
	for c := range h.conns {
		conns = append(conns, c)
	}
	subs := make([]chan Event, 0, len(h.subs))
	for ch := range h.subs {
		subs = append(subs, ch)
	}
	h.mu.RUnlock()

	for _, c := range conns {
		if err := c.WriteJSON(evt); err != nil {
			log.Printf("notification_write_failed type=%s error=%q", evt.Type, err)
			h.Unregister(c)
		}
	}

	for _, ch := range subs {
		select {
		case ch <- evt:
		default:
		}
	}
}
