package models

import "time"

// Message status transitions: sending -> sent -> read. Rows are never
// mutated otherwise and never deleted except through user deletion.
const (
	StatusSending = "sending"
	StatusSent    = "sent"
	StatusRead    = "read"
)

// Supported message types.
const (
	TypeText  = "text"
	TypeImage = "image"
	TypeVoice = "voice"
)

// WireTimeFormat is the fixed timestamp layout used on the wire.
const WireTimeFormat = "2006-01-02 15:04:05"

// Message is a directed message between two users.
type Message struct {
	ID          uint       `gorm:"primaryKey"`
	Content     *string    `gorm:"type:text"` // nil for non-text types
	MessageType string     `gorm:"size:20;not null"`
	MediaURL    *string    `gorm:"size:500"`
	Timestamp   time.Time  `gorm:"index"`
	SenderID    uint       `gorm:"not null;index"`
	RecipientID uint       `gorm:"not null;index"`
	Status      string     `gorm:"size:20;default:sending"`
	ReadAt      *time.Time
}

// MessageWire is the representation pushed over the real-time channel.
type MessageWire struct {
	ID          uint    `json:"id"`
	Content     *string `json:"content"`
	MessageType string  `json:"message_type"`
	MediaURL    *string `json:"media_url"`
	Timestamp   string  `json:"timestamp"`
	SenderID    uint    `json:"sender_id"`
	RecipientID uint    `json:"recipient_id"`
	Status      string  `json:"status"`
	ReadAt      *string `json:"read_at"`
}

// ToWire renders the message with the fixed timestamp format.
func (m *Message) ToWire() MessageWire {
	w := MessageWire{
		ID:          m.ID,
		Content:     m.Content,
		MessageType: m.MessageType,
		MediaURL:    m.MediaURL,
		Timestamp:   m.Timestamp.Format(WireTimeFormat),
		SenderID:    m.SenderID,
		RecipientID: m.RecipientID,
		Status:      m.Status,
	}
	if m.ReadAt != nil {
		readAt := m.ReadAt.Format(WireTimeFormat)
		w.ReadAt = &readAt
	}
	return w
}
