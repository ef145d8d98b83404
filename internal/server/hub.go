package server

import (
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/five82/vitrine/internal/state"
)

// clientBuffer is how many events a slow client may fall behind before
// new events are dropped for it.
const clientBuffer = 32

type client struct {
	id   string
	send chan state.Event
}

// Hub fans store events out to websocket clients. Publish never blocks.
type Hub struct {
	mu      sync.Mutex
	clients map[string]*client
	closed  bool
	dropped uint64
	logger  *slog.Logger
}

// NewHub returns an empty hub.
func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{clients: make(map[string]*client), logger: logger}
}

// Publish queues ev for every client, dropping it for clients whose buffer
// is full.
func (h *Hub) Publish(ev state.Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, c := range h.clients {
		select {
		case c.send <- ev:
		default:
			h.dropped++
			h.logger.Debug("server: dropped event for slow client", "client", c.id, "key", ev.Key)
		}
	}
}

// subscribe registers a new client. It returns nil after Close.
func (h *Hub) subscribe() *client {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil
	}
	c := &client{id: uuid.NewString(), send: make(chan state.Event, clientBuffer)}
	h.clients[c.id] = c
	h.logger.Debug("server: websocket client connected", "client", c.id, "clients", len(h.clients))
	return c
}

func (h *Hub) unsubscribe(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c.id]; !ok {
		return
	}
	delete(h.clients, c.id)
	close(c.send)
	h.logger.Debug("server: websocket client disconnected", "client", c.id, "clients", len(h.clients))
}

// Len returns the number of connected clients.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Dropped returns how many events were discarded for slow clients.
func (h *Hub) Dropped() uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.dropped
}

// Close disconnects every client and rejects new ones.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for id, c := range h.clients {
		delete(h.clients, id)
		close(c.send)
	}
}
