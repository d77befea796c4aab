package hub

import (
	"encoding/json"
	"sync"

	"github.com/rs/zerolog/log"
)

// Event represents a real-time event to be sent to clients.
type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// Client represents a single viewer of a collection.
// The SSE handler drains it until it is closed.
type Client chan []byte

// ClientBuffer is the number of pending events a client may hold before
// further events to it are dropped.
const ClientBuffer = 16

// Hub fans collection events out to the clients watching each collection.
type Hub struct {
	collections map[uint]map[Client]bool
	mu          sync.RWMutex
}

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{
		collections: make(map[uint]map[Client]bool),
	}
}

// Subscribe registers a new client for a collection.
func (h *Hub) Subscribe(collectionID uint) Client {
	client := make(Client, ClientBuffer)

	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.collections[collectionID]; !ok {
		h.collections[collectionID] = make(map[Client]bool)
	}
	h.collections[collectionID][client] = true
	return client
}

// Unsubscribe removes a client from a collection and closes it.
func (h *Hub) Unsubscribe(collectionID uint, client Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if clients, ok := h.collections[collectionID]; ok {
		if _, ok := clients[client]; ok {
			delete(clients, client)
			close(client)
			if len(clients) == 0 {
				delete(h.collections, collectionID)
			}
		}
	}
}

// Subscribers returns the number of clients watching a collection.
func (h *Hub) Subscribers(collectionID uint) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.collections[collectionID])
}

// Broadcast sends an event to all clients of a collection.
func (h *Hub) Broadcast(collectionID uint, event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	clients, ok := h.collections[collectionID]
	if !ok {
		return
	}
	messageBytes, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Str("type", event.Type).Uint("collection_id", collectionID).Msg("failed to encode event")
		return
	}

	for client := range clients {
		// A slow client must not block the others.
		select {
		case client <- messageBytes:
		default:
			log.Warn().Uint("collection_id", collectionID).Msg("dropping event for slow client")
		}
	}
}

// Publish broadcasts a typed payload to the viewers of a collection.
func (h *Hub) Publish(collectionID uint, eventType string, payload any) {
	h.Broadcast(collectionID, Event{Type: eventType, Payload: payload})
}

// Close disconnects every client. Streams still open end once their client
// channel is drained.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for id, clients := range h.collections {
		for client := range clients {
			close(client)
		}
		delete(h.collections, id)
	}
}
