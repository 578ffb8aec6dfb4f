// Package feed pushes route lifecycle events to connected dashboard clients
// over WebSocket, so a dashboard refreshes when a route is shared or removed
// without polling the collections.
package feed

import (
	"fmt"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// Event kinds broadcast to clients.
const (
	EventRouteCreated = "route_created"
	EventRouteDeleted = "route_deleted"
)

// Event describes one route lifecycle change.
type Event struct {
	Type       string `json:"type"`
	Collection string `json:"collection"`
	ID         string `json:"id,omitempty"`
	Title      string `json:"title"`
}

// Hub manages active WebSocket connections and fans events out to all of
// them. Slow or closed connections are dropped, never waited on.
type Hub struct {
	clients   map[*websocket.Conn]bool
	broadcast chan Event
	mu        sync.Mutex
}

// NewHub creates a Hub and starts its broadcast goroutine.
func NewHub() *Hub {
	h := &Hub{
		clients:   make(map[*websocket.Conn]bool),
		broadcast: make(chan Event, 100),
	}
	go h.run()
	return h
}

// Publish enqueues an event without blocking the caller. When the channel is
// full the event is dropped; the feed is advisory, the collections stay the
// source of truth.
func (h *Hub) Publish(ev Event) {
	select {
	case h.broadcast <- ev:
	default:
		logrus.Warn("feed broadcast channel full, dropping event")
	}
}

// Register adds a client connection to the fan-out set.
func (h *Hub) Register(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[conn] = true
	logrus.WithField("conn_ptr", fmt.Sprintf("%p", conn)).Info("feed client registered")
}

// Unregister removes a client connection and closes it.
func (h *Hub) Unregister(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[conn]; !ok {
		return
	}
	delete(h.clients, conn)
	_ = conn.Close()
	logrus.WithField("conn_ptr", fmt.Sprintf("%p", conn)).Info("feed client unregistered")
}

func (h *Hub) run() {
	for ev := range h.broadcast {
		h.mu.Lock()
		conns := make([]*websocket.Conn, 0, len(h.clients))
		for conn := range h.clients {
			conns = append(conns, conn)
		}
		h.mu.Unlock()

		for _, conn := range conns {
			if err := conn.WriteJSON(ev); err != nil {
				if websocket.IsCloseError(err,
					websocket.CloseGoingAway,
					websocket.CloseNormalClosure,
					websocket.CloseAbnormalClosure) {
					logrus.WithField("conn_ptr", fmt.Sprintf("%p", conn)).
						Info("feed client connection closed during broadcast")
				} else {
					logrus.WithError(err).Warn("failed to send feed event to client")
				}
				h.Unregister(conn)
			}
		}
	}
}
