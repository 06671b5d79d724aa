package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"go.uber.org/zap"
)

// Hub tracks the open connections of every user and fans messages out to them.
type Hub struct {
	userClients map[uint64]map[*Client]struct{}
	register    chan *Client
	unregister  chan *Client
	done        chan struct{}
	mu          sync.RWMutex
	logger      *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		userClients: make(map[uint64]map[*Client]struct{}),
		register:    make(chan *Client),
		unregister:  make(chan *Client),
		done:        make(chan struct{}),
		logger:      logger,
	}
}

// Run serves registrations until ctx is cancelled, then closes every client.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if h.userClients[client.UserID] == nil {
				h.userClients[client.UserID] = make(map[*Client]struct{})
			}
			h.userClients[client.UserID][client] = struct{}{}
			h.mu.Unlock()
			h.logger.Debug("websocket client registered", zap.Uint64("userID", client.UserID))
		case client := <-h.unregister:
			h.remove(client)
		case <-ctx.Done():
			h.mu.Lock()
			for userID, clients := range h.userClients {
				for client := range clients {
					close(client.Send)
				}
				delete(h.userClients, userID)
			}
			h.mu.Unlock()
			return
		}
	}
}

func (h *Hub) Register(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

func (h *Hub) remove(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients, ok := h.userClients[client.UserID]
	if !ok {
		return
	}
	if _, ok := clients[client]; !ok {
		return
	}
	delete(clients, client)
	close(client.Send)
	if len(clients) == 0 {
		delete(h.userClients, client.UserID)
	}
	h.logger.Debug("websocket client unregistered", zap.Uint64("userID", client.UserID))
}

// Connected reports how many open connections userID has.
func (h *Hub) Connected(userID uint64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.userClients[userID])
}

// SendToUser delivers envelope to every open connection of userID. A client
// whose buffer is full misses the message; a user with no connection is not
// an error.
func (h *Hub) SendToUser(userID uint64, envelope Envelope) error {
	message, err := json.Marshal(envelope)
	if err != nil {
		return err
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	clients := h.userClients[userID]
	if len(clients) == 0 {
		h.logger.Debug("no open websocket for user", zap.Uint64("userID", userID), zap.String("type", envelope.Type))
		return nil
	}
	for client := range clients {
		select {
		case client.Send <- message:
		default:
			h.logger.Warn("websocket buffer full, message dropped",
				zap.Uint64("userID", userID),
				zap.String("envelopeID", envelope.ID),
			)
		}
	}
	return nil
}
