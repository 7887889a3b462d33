package realtime

import (
	"context"
	"sync"
)

// Hub fans a "something changed" signal out to in-process subscribers.
// Each subscriber channel holds at most one pending signal, so bursts
// coalesce and Broadcast never blocks.
type Hub struct {
	mu      sync.Mutex
	clients map[chan struct{}]struct{}
}

func NewHub() *Hub {
	return &Hub{clients: make(map[chan struct{}]struct{})}
}

func (h *Hub) Register() chan struct{} {
	ch := make(chan struct{}, 1)

	h.mu.Lock()
	h.clients[ch] = struct{}{}
	h.mu.Unlock()

	return ch
}

func (h *Hub) Unregister(ch chan struct{}) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[ch]; ok {
		delete(h.clients, ch)
		close(ch)
	}
}

func (h *Hub) Broadcast() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for ch := range h.clients {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Publish makes Hub usable as a single-instance publisher.
func (h *Hub) Publish(context.Context) error {
	h.Broadcast()
	return nil
}
