package websocket

import (
	"encoding/json"
	"sync"

	"github.com/rs/zerolog"
	"github.com/yigit/campusconnect/internal/pkg/metrics"
)

// Hub maintains the set of active clients and pushes messages to them
type Hub struct {
	// Registered clients organized by user ID. A user may have several tabs open.
	clients map[int64]map[*Client]bool

	// Outbound pushes addressed to one user
	deliver chan *Push

	// Register requests from the clients
	register chan *Client

	// Unregister requests from clients
	unregister chan *Client

	stop chan struct{}
	done chan struct{}

	// Mutex for concurrent access to clients map
	mu sync.RWMutex

	// Logger for Hub operations
	logger zerolog.Logger
}

// Message is the frame written to the browser
type Message struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// Push is a message addressed to every connection of one user
type Push struct {
	UserID  int64
	Message Message
}

// NewHub creates a new Hub instance
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		clients:    make(map[int64]map[*Client]bool),
		deliver:    make(chan *Push, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

// Run starts the hub, handling client registrations and pushes until Stop
func (h *Hub) Run() {
	defer close(h.done)
	for {
		select {
		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case push := <-h.deliver:
			h.deliverPush(push)

		case <-h.stop:
			h.closeAll()
			return
		}
	}
}

// Stop disconnects every client and ends Run
func (h *Hub) Stop() {
	select {
	case <-h.stop:
		return
	default:
		close(h.stop)
	}
	<-h.done
}

// registerClient registers a new client to the hub
func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client.userID]; !ok {
		h.clients[client.userID] = make(map[*Client]bool)
	}
	h.clients[client.userID][client] = true
	metrics.WSConnections.Inc()

	h.logger.Info().
		Int64("userID", client.userID).
		Str("addr", client.remoteAddr()).
		Msg("Client registered")
}

func (h *Hub) add(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.stop:
		return false
	}
}

func (h *Hub) remove(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.stop:
	}
}

// unregisterClient unregisters a client from the hub
func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(client)
}

func (h *Hub) removeLocked(client *Client) {
	clients, ok := h.clients[client.userID]
	if !ok || !clients[client] {
		return
	}
	delete(clients, client)
	close(client.send)
	metrics.WSConnections.Dec()

	// If no more clients for this user, clean up
	if len(clients) == 0 {
		delete(h.clients, client.userID)
	}

	h.logger.Info().
		Int64("userID", client.userID).
		Str("addr", client.remoteAddr()).
		Msg("Client unregistered")
}

// deliverPush writes to every connection of the addressed user
func (h *Hub) deliverPush(push *Push) {
	data, err := json.Marshal(push.Message)
	if err != nil {
		h.logger.Error().Err(err).Int64("userID", push.UserID).Msg("Failed to marshal push")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	clients, ok := h.clients[push.UserID]
	if !ok {
		h.logger.Debug().Int64("userID", push.UserID).Msg("No connections for push")
		return
	}

	for client := range clients {
		select {
		case client.send <- data:
		default:
			// Client's send buffer is full; drop the connection
			h.removeLocked(client)
		}
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, clients := range h.clients {
		for client := range clients {
			h.removeLocked(client)
		}
	}
}

// SendToUser queues a message for every connection of userID.
// It never blocks; pushes are dropped when the hub is saturated or stopped.
func (h *Hub) SendToUser(userID int64, msgType string, data json.RawMessage) {
	push := &Push{UserID: userID, Message: Message{Type: msgType, Data: data}}
	select {
	case <-h.stop:
	case h.deliver <- push:
	default:
		h.logger.Warn().Int64("userID", userID).Str("type", msgType).Msg("Hub saturated, dropping push")
	}
}

// GetClientsCount returns the number of connections of a user
func (h *Hub) GetClientsCount(userID int64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}
