package models

import "encoding/json"

// Event names exchanged over the real-time channel.
const (
	EventConnected      = "connected"
	EventSendMessage    = "send_message"
	EventMessageSent    = "message_sent"
	EventNewMessage     = "new_message"
	EventMarkRead       = "mark_read"
	EventClearHistory   = "clear_history"
	EventHistoryCleared = "history_cleared"
	EventError          = "error"
)

// ClientEvent is the envelope for events received from a connection.
type ClientEvent struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// ServerEvent is the envelope for events pushed to a connection.
type ServerEvent struct {
	Event string `json:"event"`
	Data  any    `json:"data,omitempty"`
}

// SendMessagePayload carries a send_message event. Type defaults to "text"
// when empty.
type SendMessagePayload struct {
	Content     string `json:"content"`
	Type        string `json:"type"`
	RecipientID uint   `json:"recipient_id"`
}

// MarkReadPayload carries a mark_read event.
type MarkReadPayload struct {
	SenderID uint `json:"sender_id"`
}

// ConnectedPayload acknowledges a successful channel join.
type ConnectedPayload struct {
	UserID uint `json:"user_id"`
}

// ErrorPayload is the single-field, human-readable error surface.
type ErrorPayload struct {
	Message string `json:"message"`
}

// ErrorEvent builds an error ServerEvent.
func ErrorEvent(message string) ServerEvent {
	return ServerEvent{Event: EventError, Data: ErrorPayload{Message: message}}
}
