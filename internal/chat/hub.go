// Package chat holds the relay's broadcast core shared by all transports.
package chat

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/omochice/relay-chat/internal/transport"
)

// Client represents a connected client with transport-agnostic connection.
type Client struct {
	ID       string
	Conn     transport.Conn
	Outgoing chan string
}

// NewClient wraps conn with a fresh id and an outgoing queue of queueSize lines.
func NewClient(conn transport.Conn, queueSize int) *Client {
	return &Client{
		ID:       uuid.NewString(),
		Conn:     conn,
		Outgoing: make(chan string, queueSize),
	}
}

// Hub manages all connected clients and handles broadcast.
// Both TCP and WebSocket clients share a single Hub instance.
type Hub struct {
	clients map[*Client]bool
	mu      sync.RWMutex
	log     *slog.Logger
}

// NewHub creates a new Hub.
func NewHub(log *slog.Logger) *Hub {
	return &Hub{
		clients: make(map[*Client]bool),
		log:     log,
	}
}

// Register adds a client to the hub.
func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[client] = true
}

// Unregister removes a client from the hub. Once it returns, Broadcast no
// longer touches the client's queue.
func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, client)
}

// ClientCount returns number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Clients returns a snapshot of the connected clients.
func (h *Hub) Clients() []*Client {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return lo.Keys(h.clients)
}

// Broadcast queues line for every client except sender and returns how many
// clients accepted it. A client whose queue is full misses the line.
func (h *Hub) Broadcast(line string, sender *Client) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	targets := lo.Filter(lo.Keys(h.clients), func(c *Client, _ int) bool {
		return c != sender
	})

	delivered := 0
	for _, client := range targets {
		select {
		case client.Outgoing <- line:
			delivered++
		default:
			h.log.Warn("client queue full, skipping", "client", client.ID)
		}
	}
	return delivered
}

// HandleClient relays every line read from client until its connection ends.
// The returned error is nil for a graceful close.
func (h *Hub) HandleClient(ctx context.Context, client *Client) error {
	for {
		line, err := client.Conn.ReadLine(ctx)
		if err != nil {
			if transport.IsClosed(err) {
				return nil
			}
			return err
		}
		n := h.Broadcast(line, client)
		h.log.Debug("relayed line", "client", client.ID, "recipients", n)
	}
}
