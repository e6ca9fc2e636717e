package websocket

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Message types sent over the socket
const (
	MessageTypeChat  = "message"
	MessageTypeError = "error"
)

// Hub maintains the set of active clients and broadcasts messages to the clients
type Hub struct {
	// Registered clients organized by chat scope
	clients map[string]map[*Client]bool

	// Channel for outbound messages
	broadcast chan *Message

	// Register requests from the clients
	register chan *Client

	// Unregister requests from clients
	unregister chan *Client

	// Mutex for concurrent access to clients map
	mu sync.RWMutex

	logger zerolog.Logger
}

// Message represents a message sent over WebSocket
type Message struct {
	// Type of message: "message" or "error"
	Type string `json:"type"`

	// Chat scope: "global" or a session id
	Scope string `json:"scope"`

	// Message ID from the database
	ID string `json:"id,omitempty"`

	// Author of the message
	UserID     string `json:"userId,omitempty"`
	AuthorName string `json:"authorName,omitempty"`

	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// NewHub creates a new Hub instance
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		broadcast:  make(chan *Message, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[string]map[*Client]bool),
		logger:     logger,
	}
}

// Run starts the hub, handling client registrations and broadcasts
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case message := <-h.broadcast:
			h.broadcastMessage(message)
		}
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client.scope]; !ok {
		h.clients[client.scope] = make(map[*Client]bool)
	}
	h.clients[client.scope][client] = true

	h.logger.Info().
		Str("scope", client.scope).
		Str("userID", client.userID).
		Msg("Client registered")
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(client)
}

// removeLocked drops a client and closes its send channel. Caller holds mu.
func (h *Hub) removeLocked(client *Client) {
	scoped, ok := h.clients[client.scope]
	if !ok {
		return
	}
	if _, ok := scoped[client]; !ok {
		return
	}

	delete(scoped, client)
	close(client.send)
	if len(scoped) == 0 {
		delete(h.clients, client.scope)
	}

	h.logger.Info().
		Str("scope", client.scope).
		Str("userID", client.userID).
		Msg("Client unregistered")
}

// broadcastMessage sends a message to every client subscribed to its scope
func (h *Hub) broadcastMessage(message *Message) {
	data, err := json.Marshal(message)
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("scope", message.Scope).
			Msg("Failed to marshal message for broadcast")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	clients, ok := h.clients[message.Scope]
	if !ok {
		h.logger.Debug().
			Str("scope", message.Scope).
			Msg("No clients in scope for broadcast")
		return
	}

	for client := range clients {
		select {
		case client.send <- data:
		default:
			// send buffer full, the client is too slow or gone
			h.removeLocked(client)
		}
	}

	h.logger.Debug().
		Str("scope", message.Scope).
		Int("clientCount", len(clients)).
		Msg("Message broadcasted to scope")
}

// Broadcast queues a message for every subscriber of message.Scope
func (h *Hub) Broadcast(message *Message) {
	h.broadcast <- message
}

// ClientsCount returns the number of connected clients for a scope
func (h *Hub) ClientsCount(scope string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.clients[scope])
}
