package websocket

import (
	"context"
	"sync"
	"time"

	"github.com/ikkim/variant-reservation/pkg/logger"
)

// Hub tracks connected shopper sessions and the product each one is viewing.
type Hub struct {
	clients map[*Client]bool

	// 상품별 세션 (ProductID -> clients)
	rooms map[uint]map[*Client]bool

	register   chan *Client
	unregister chan *Client
	// closed once Run returns
	done chan struct{}

	mu sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		rooms:      make(map[uint]map[*Client]bool),
		register:   make(chan *Client, 256),
		unregister: make(chan *Client, 256),
		done:       make(chan struct{}),
	}
}

// Run serves register/unregister requests until ctx is done, then shuts
// every remaining session down.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			remaining := make([]*Client, 0, len(h.clients))
			for c := range h.clients {
				remaining = append(remaining, c)
			}
			h.clients = make(map[*Client]bool)
			h.rooms = make(map[uint]map[*Client]bool)
			h.mu.Unlock()

			for _, c := range remaining {
				c.shutdown()
			}
			drained := h.drain()
			logger.Info("WebSocket hub stopped", map[string]interface{}{
				"closed_sessions": len(remaining) + drained,
			})
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.joinLocked(client, client.ProductID())
			total := len(h.clients)
			h.mu.Unlock()
			logger.Info("WebSocket session registered", map[string]interface{}{
				"session_id":     client.ID,
				"product_id":     client.ProductID(),
				"total_sessions": total,
			})

		case client := <-h.unregister:
			h.mu.Lock()
			_, ok := h.clients[client]
			if ok {
				delete(h.clients, client)
				h.leaveLocked(client, client.ProductID())
			}
			total := len(h.clients)
			h.mu.Unlock()

			if ok {
				client.shutdown()
				logger.Info("WebSocket session unregistered", map[string]interface{}{
					"session_id":     client.ID,
					"total_sessions": total,
				})
			}
		}
	}
}

// drain shuts down clients still queued on the channels when Run stops.
func (h *Hub) drain() int {
	n := 0
	for {
		select {
		case c := <-h.register:
			c.shutdown()
			n++
		case c := <-h.unregister:
			c.shutdown()
			n++
		default:
			return n
		}
	}
}

// Register adds a client. Once the hub has stopped the client is shut down
// instead.
func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
		client.shutdown()
	}
}

// Unregister removes a client and shuts it down. It never blocks after the
// hub has stopped.
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
		client.shutdown()
	}
}

// move switches the client's room when it opens another product.
func (h *Hub) move(client *Client, from, to uint) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.clients[client] {
		return
	}
	h.leaveLocked(client, from)
	h.joinLocked(client, to)
}

func (h *Hub) joinLocked(client *Client, productID uint) {
	if productID == 0 {
		return
	}
	if _, ok := h.rooms[productID]; !ok {
		h.rooms[productID] = make(map[*Client]bool)
	}
	h.rooms[productID][client] = true
}

func (h *Hub) leaveLocked(client *Client, productID uint) {
	if room, ok := h.rooms[productID]; ok {
		delete(room, client)
		if len(room) == 0 {
			delete(h.rooms, productID)
		}
	}
}

// ViewerCount returns how many sessions are on productID.
func (h *Hub) ViewerCount(productID uint) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[productID])
}

// SessionCount returns how many sessions are connected.
func (h *Hub) SessionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// SweepIdle disconnects sessions without a shopper message for longer than
// maxIdle and returns how many it closed.
func (h *Hub) SweepIdle(maxIdle time.Duration) int {
	now := time.Now()

	h.mu.RLock()
	var idle []*Client
	for c := range h.clients {
		if now.Sub(c.LastActive()) > maxIdle {
			idle = append(idle, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range idle {
		logger.Info("Closing idle WebSocket session", map[string]interface{}{
			"session_id":  c.ID,
			"product_id":  c.ProductID(),
			"idle_for_ms": now.Sub(c.LastActive()).Milliseconds(),
		})
		c.closeConn()
		h.Unregister(c)
	}
	return len(idle)
}
