// internal/websocket/hub.go
package websocket

import (
	"context"
	"sync"

	"jiudi-console/internal/domain/auth"
	wstypes "jiudi-console/internal/domain/websocket"

	"go.uber.org/zap"
)

// Hub fans events out to every open tab of a console session.
type Hub struct {
	// Registered clients by console session id
	clients map[string]map[*Client]bool
	mu      sync.RWMutex

	Register   chan *Client
	unregister chan *Client
	broadcast  chan *BroadcastMessage
	done       chan struct{}

	logger *zap.Logger
}

type BroadcastMessage struct {
	// SessionIDs nil means every connected session.
	SessionIDs []string
	Message    *wstypes.WSMessage
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		clients:    make(map[string]map[*Client]bool),
		Register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *BroadcastMessage, 256),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.shutdown()
			return

		case client := <-h.Register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case msg := <-h.broadcast:
			h.BroadcastMessage(msg)
		}
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	if h.clients[client.sessionID] == nil {
		h.clients[client.sessionID] = make(map[*Client]bool)
	}
	h.clients[client.sessionID][client] = true
	total := h.totalClients()
	h.mu.Unlock()

	h.logger.Info("websocket client connected",
		zap.String("session_id", client.sessionID),
		zap.String("role", string(client.role)),
		zap.Int("total", total),
	)

	client.SendMessage(wstypes.NewMessage(wstypes.EventTypeConnected, map[string]interface{}{
		"role": client.role,
	}))
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if clients, ok := h.clients[client.sessionID]; ok {
		if _, exists := clients[client]; exists {
			delete(clients, client)
			client.Close()

			if len(clients) == 0 {
				delete(h.clients, client.sessionID)
			}

			h.logger.Info("websocket client disconnected",
				zap.String("session_id", client.sessionID),
				zap.Int("total", h.totalClients()),
			)
		}
	}
}

func (h *Hub) BroadcastMessage(msg *BroadcastMessage) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if msg.SessionIDs == nil {
		for _, clients := range h.clients {
			for client := range clients {
				client.SendMessage(msg.Message)
			}
		}
		return
	}
	for _, id := range msg.SessionIDs {
		for client := range h.clients[id] {
			client.SendMessage(msg.Message)
		}
	}
}

// SessionClients reports how many tabs of a session are connected.
func (h *Hub) SessionClients(sessionID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[sessionID])
}

func (h *Hub) TotalClients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.totalClients()
}

// ----- Publishing -----

// Notify pushes a notification to every tab of a session.
func (h *Hub) Notify(sessionID string, n wstypes.NotificationData) {
	h.enqueue(&BroadcastMessage{
		SessionIDs: []string{sessionID},
		Message:    wstypes.NewMessage(wstypes.EventTypeNotification, n),
	})
}

// ForceLogout tells every tab of a session to leave for the login page.
func (h *Hub) ForceLogout(sessionID, reason string) {
	h.enqueue(&BroadcastMessage{
		SessionIDs: []string{sessionID},
		Message: wstypes.NewMessage(wstypes.EventTypeForceLogout, wstypes.SessionEventData{
			Reason:   reason,
			Message:  "Phiên đăng nhập đã kết thúc",
			Redirect: auth.LoginPath,
		}),
	})
}

// enqueue never blocks a request: when the queue is full the event is
// dropped and logged.
func (h *Hub) enqueue(msg *BroadcastMessage) {
	select {
	case h.broadcast <- msg:
	default:
		h.logger.Warn("websocket broadcast queue full, dropping event",
			zap.String("type", string(msg.Message.Type)),
		)
	}
}

func (h *Hub) totalClients() int {
	total := 0
	for _, clients := range h.clients {
		total += len(clients)
	}
	return total
}

// drop hands a closed client back to Run. It blocks until Run takes it or
// the hub has shut down.
func (h *Hub) drop(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

func (h *Hub) shutdown() {
	close(h.done)

	h.mu.Lock()
	defer h.mu.Unlock()

	for id, clients := range h.clients {
		for client := range clients {
			client.Close()
		}
		delete(h.clients, id)
	}
}
