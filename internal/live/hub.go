// Package live keeps the websocket connections of signed-in users and pushes
// messages to them. Delivery is best-effort: nothing is queued for users
// without an open connection.
package live

import (
	"sync"

	"travel-service/internal/metrics"
	"travel-service/internal/shared/logging"
)

const (
	EventNotification = "notification"
	EventPing         = "ping"
	EventPong         = "pong"
)

type Message struct {
	Event string `json:"event"`
	Data  any    `json:"data,omitempty"`
}

// Hub maps a user id to all of that user's open connections.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]map[*Client]struct{}
	closed  bool
}

func NewHub() *Hub {
	return &Hub{clients: make(map[string]map[*Client]struct{})}
}

func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		close(c.send)
		return
	}
	set, ok := h.clients[c.userID]
	if !ok {
		set = make(map[*Client]struct{})
		h.clients[c.userID] = set
	}
	set[c] = struct{}{}
	metrics.LiveConnections.Inc()
	logging.Debug().Str("user_id", c.userID).Str("client_id", c.id).Msg("live client registered")
}

// Unregister removes c and closes its send channel. Calling it twice is a no-op.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.clients[c.userID]
	if !ok {
		return
	}
	if _, ok := set[c]; !ok {
		return
	}
	delete(set, c)
	if len(set) == 0 {
		delete(h.clients, c.userID)
	}
	close(c.send)
	metrics.LiveConnections.Dec()
}

// PushTo queues msg on every connection of userID without blocking and
// returns how many connections accepted it. A connection whose buffer is
// full misses the message.
func (h *Hub) PushTo(userID string, msg Message) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	set := h.clients[userID]
	if len(set) == 0 {
		metrics.LivePushes.WithLabelValues("offline").Inc()
		return 0
	}
	delivered := 0
	for c := range set {
		select {
		case c.send <- msg:
			delivered++
			metrics.LivePushes.WithLabelValues("delivered").Inc()
		default:
			metrics.LivePushes.WithLabelValues("dropped").Inc()
			logging.Warn().Str("user_id", userID).Str("client_id", c.id).Msg("live send buffer full, message dropped")
		}
	}
	return delivered
}

func (h *Hub) Connections(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}

// Close disconnects every client; later registrations are closed immediately.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for _, set := range h.clients {
		for c := range set {
			close(c.send)
			metrics.LiveConnections.Dec()
		}
	}
	h.clients = make(map[string]map[*Client]struct{})
}

// reply queues msg for a single registered client.
func (h *Hub) reply(c *Client, msg Message) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if _, ok := h.clients[c.userID][c]; !ok {
		return
	}
	select {
	case c.send <- msg:
	default:
	}
}
