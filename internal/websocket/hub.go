package websocket

import (
	"context"
	"sync"

	"mediapost/pkg/logger"

	"go.uber.org/zap"
)

// Hub tracks connected feed clients and fans lifecycle payloads out to them.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client
	closed  bool

	logger *logger.Logger
}

func NewHub(l *logger.Logger) *Hub {
	if l == nil {
		l = logger.Nop()
	}
	return &Hub{
		clients: make(map[string]*Client),
		logger:  l,
	}
}

// Run blocks until ctx is cancelled, then closes every client and refuses new ones.
func (h *Hub) Run(ctx context.Context) {
	<-ctx.Done()
	h.closeAll()
}

// Register tracks client. It reports false once the hub has shut down.
func (h *Hub) Register(client *Client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.clients[client.ID] = client
	h.logger.Debug(context.Background(), "Feed client connected", zap.String("client_id", client.ID))
	return true
}

func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[client.ID]; !ok {
		return
	}
	delete(h.clients, client.ID)
	close(client.Send)
}

// Broadcast queues payload on every client. Slow clients drop messages.
func (h *Hub) Broadcast(payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, c := range h.clients {
		if !c.SendMessage(payload) {
			h.logger.Warn(context.Background(), "Feed client send buffer full, dropping message",
				zap.String("client_id", c.ID))
		}
	}
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for id, c := range h.clients {
		delete(h.clients, id)
		close(c.Send)
	}
}
