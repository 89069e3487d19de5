package websocket

import (
	"log"
	"sync"
	"time"

	"github.com/omshejul/cli-tools-frontend/types"
)

// SessionEvent wraps a progress event with the session it belongs to
// before it is relayed to browser connections.
type SessionEvent struct {
	SessionID string              `json:"sessionId"`
	Event     types.ProgressEvent `json:"event"`
	Timestamp time.Time           `json:"timestamp"`
}

// Hub interface defines the methods for managing relay connections
type Hub interface {
	Run()
	BroadcastEvent(sessionID string, event types.ProgressEvent)
	RegisterClient(client *Client)
	UnregisterClient(client *Client)
}

// hub maintains the set of active browser connections and fans session
// events out to them
type hub struct {
	// Registered clients mapped by session ID
	clients map[string]map[*Client]bool

	// Broadcast channel for sending events to all clients of a session
	broadcast chan SessionEvent

	// Register requests from clients
	register chan *Client

	// Unregister requests from clients
	unregister chan *Client

	// Mutex for thread-safe operations
	mu sync.RWMutex
}

// NewHub creates a new relay hub
func NewHub() Hub {
	return &hub{
		clients:    make(map[string]map[*Client]bool),
		broadcast:  make(chan SessionEvent, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run starts the hub's main event loop
func (h *hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if h.clients[client.sessionID] == nil {
				h.clients[client.sessionID] = make(map[*Client]bool)
			}
			h.clients[client.sessionID][client] = true
			h.mu.Unlock()
			log.Printf("Relay client connected for session %s", client.sessionID)

		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.clients[client.sessionID]; ok {
				if _, ok := clients[client]; ok {
					delete(clients, client)
					close(client.send)
					if len(clients) == 0 {
						delete(h.clients, client.sessionID)
					}
				}
			}
			h.mu.Unlock()
			log.Printf("Relay client disconnected for session %s", client.sessionID)

		case message := <-h.broadcast:
			h.mu.RLock()
			// Send to clients watching this specific session
			if clients, ok := h.clients[message.SessionID]; ok {
				for client := range clients {
					select {
					case client.send <- message:
					default:
						close(client.send)
						delete(clients, client)
					}
				}
				if len(clients) == 0 {
					delete(h.clients, message.SessionID)
				}
			}

			// Also send to "all" clients for any session update
			if allClients, ok := h.clients["all"]; ok {
				for client := range allClients {
					select {
					case client.send <- message:
					default:
						close(client.send)
						delete(allClients, client)
					}
				}
				if len(allClients) == 0 {
					delete(h.clients, "all")
				}
			}
			h.mu.RUnlock()
		}
	}
}

// BroadcastEvent relays a progress event to all clients of a session
func (h *hub) BroadcastEvent(sessionID string, event types.ProgressEvent) {
	sessionEvent := SessionEvent{
		SessionID: sessionID,
		Event:     event,
		Timestamp: time.Now(),
	}

	select {
	case h.broadcast <- sessionEvent:
	default:
		log.Printf("Relay broadcast channel full, dropping event for session %s", sessionID)
	}
}

// RegisterClient registers a new client with the hub
func (h *hub) RegisterClient(client *Client) {
	h.register <- client
}

// UnregisterClient unregisters a client from the hub
func (h *hub) UnregisterClient(client *Client) {
	h.unregister <- client
}
