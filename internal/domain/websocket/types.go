// internal/domain/websocket/types.go
package websocket

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// EventType represents different real-time event types
type EventType string

const (
	// Connection events
	EventTypePing      EventType = "ping"
	EventTypePong      EventType = "pong"
	EventTypeConnected EventType = "connected"
	EventTypeError     EventType = "error"

	// server -> client
	EventTypeNotification EventType = "notification"
	EventTypeForceLogout  EventType = "session:force_logout"
)

// WSMessage is the universal message format
type WSMessage struct {
	Type      EventType   `json:"type"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	ID        string      `json:"id,omitempty"`
}

// ErrorData for error events
type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// NotificationData mirrors a flash: kind is "success" or "error". Origin
// names the tab that caused it, which already shows the flash itself.
type NotificationData struct {
	Kind    string `json:"kind"`
	Title   string `json:"title"`
	Message string `json:"message"`
	Origin  string `json:"origin,omitempty"`
}

// SessionEventData for session events
type SessionEventData struct {
	Reason   string `json:"reason"`
	Message  string `json:"message"`
	Redirect string `json:"redirect"`
}

func NewMessage(eventType EventType, data interface{}) *WSMessage {
	return &WSMessage{
		Type:      eventType,
		Data:      data,
		Timestamp: time.Now(),
		ID:        uuid.NewString(),
	}
}

func (m *WSMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func ParseMessage(data []byte) (*WSMessage, error) {
	var msg WSMessage
	err := json.Unmarshal(data, &msg)
	return &msg, err
}
