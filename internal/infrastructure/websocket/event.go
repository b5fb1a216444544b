package websocket

import (
	"encoding/json"
	"time"

	"lendly/pkg/logger"
)

// Event types pushed over the wire to connected clients.
const (
	EventNewMessage      = "new_message"
	EventRequestCreated  = "request_created"
	EventRequestApproved = "request_approved"
	EventRequestRejected = "request_rejected"
	EventSwapApproved    = "swap_approved"
)

// Event is the envelope for every push notification.
type Event struct {
	Type      string      `json:"type"`
	Payload   interface{} `json:"payload"`
	Timestamp time.Time   `json:"timestamp"`
}

// SendEvent marshals an event and delivers it to the user if connected.
func (m *Manager) SendEvent(userID, eventType string, payload interface{}) {
	data, err := json.Marshal(Event{
		Type:      eventType,
		Payload:   payload,
		Timestamp: time.Now(),
	})
	if err != nil {
		logger.Error("Failed to marshal %s event for %s: %v", eventType, userID, err)
		return
	}

	m.SendToUser(userID, data)
}
