// Package chat ties persistence, conversation memory and the real-time
// router together for a single chat turn: user message in, bot reply out.
package chat

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"aichat/backend/internal/chathub"
	"aichat/backend/internal/models"
	"aichat/backend/internal/storage"
)

// User-facing error strings emitted over the real-time channel.
const (
	errIncompleteMessage = "message data is incomplete"
	errSendFailed        = "message send failed"
	errReplyFailed       = "assistant reply could not be delivered, please try again"
)

// Responder produces the bot reply for a user message. The returned string
// is always non-empty.
type Responder interface {
	Respond(ctx context.Context, userID uint, message string) string
	ClearHistory(userID uint) bool
}

// Router pushes an event to every live connection on a user's channel.
// Implemented by *chathub.Hub.
type Router interface {
	Push(userID uint, event models.ServerEvent)
}

// Orchestrator handles decoded real-time events. One instance serves all
// connections; per-event state lives on the stack.
type Orchestrator struct {
	storage   storage.Storage
	router    Router
	responder Responder
	botID     uint
}

// NewOrchestrator wires the orchestrator to its collaborators. The bot
// identity is resolved once at startup; without it the real-time layer
// cannot operate.
func NewOrchestrator(s storage.Storage, r Router, resp Responder, botID uint) (*Orchestrator, error) {
	if botID == 0 {
		return nil, errors.New("chat: bot user id is not configured")
	}
	return &Orchestrator{
		storage:   s,
		router:    r,
		responder: resp,
		botID:     botID,
	}, nil
}

// BotID returns the resolved bot identity.
func (o *Orchestrator) BotID() uint { return o.botID }

// HandleEvent implements chathub.EventHandler.
func (o *Orchestrator) HandleEvent(sess chathub.Session, event models.ClientEvent) {
	switch event.Event {
	case models.EventSendMessage:
		var payload models.SendMessagePayload
		if err := json.Unmarshal(event.Data, &payload); err != nil {
			sess.Emit(models.ErrorEvent(errIncompleteMessage))
			return
		}
		o.handleSendMessage(sess, payload)
	case models.EventMarkRead:
		var payload models.MarkReadPayload
		if err := json.Unmarshal(event.Data, &payload); err != nil {
			return
		}
		o.handleMarkRead(sess, payload)
	case models.EventClearHistory:
		o.handleClearHistory(sess)
	default:
		log.Printf("WARN: Unknown event %q from user %d", event.Event, sess.UserID())
	}
}

// handleSendMessage runs one chat turn. The user's message is persisted and
// acknowledged before the completion call; a failure on the bot side never
// undoes the user's own send.
func (o *Orchestrator) handleSendMessage(sess chathub.Session, payload models.SendMessagePayload) {
	if payload.Content == "" || payload.RecipientID == 0 {
		log.Printf("WARN: Incomplete send_message from user %d", sess.UserID())
		sess.Emit(models.ErrorEvent(errIncompleteMessage))
		return
	}

	messageType := payload.Type
	if messageType == "" {
		messageType = models.TypeText
	}

	content := payload.Content
	userMsg := &models.Message{
		Content:     &content,
		MessageType: messageType,
		Timestamp:   time.Now().UTC(),
		SenderID:    sess.UserID(),
		RecipientID: o.botID,
		Status:      models.StatusSent,
	}
	if err := o.storage.SaveMessage(userMsg); err != nil {
		sess.Emit(models.ErrorEvent(errSendFailed))
		return
	}

	sess.Emit(models.ServerEvent{Event: models.EventMessageSent, Data: userMsg.ToWire()})

	reply := o.responder.Respond(context.Background(), sess.UserID(), payload.Content)

	botMsg := &models.Message{
		Content:     &reply,
		MessageType: models.TypeText,
		Timestamp:   time.Now().UTC(),
		SenderID:    o.botID,
		RecipientID: sess.UserID(),
		Status:      models.StatusSent,
	}
	if err := o.storage.SaveMessage(botMsg); err != nil {
		sess.Emit(models.ErrorEvent(errReplyFailed))
		return
	}

	o.router.Push(sess.UserID(), models.ServerEvent{Event: models.EventNewMessage, Data: botMsg.ToWire()})
}

// handleMarkRead flips pending messages from the given sender to the caller
// into "read". It never reports errors back to the client.
func (o *Orchestrator) handleMarkRead(sess chathub.Session, payload models.MarkReadPayload) {
	if payload.SenderID == 0 {
		return
	}
	count, err := o.storage.MarkMessagesRead(payload.SenderID, sess.UserID())
	if err != nil {
		return
	}
	if count > 0 {
		log.Printf("Marked %d messages read for user %d", count, sess.UserID())
	}
}

func (o *Orchestrator) handleClearHistory(sess chathub.Session) {
	if o.responder.ClearHistory(sess.UserID()) {
		log.Printf("Cleared conversation history for user %d", sess.UserID())
		sess.Emit(models.ServerEvent{Event: models.EventHistoryCleared})
	}
}
