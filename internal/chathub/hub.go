package chathub

import (
	"log"

	"aichat/backend/internal/models"
	"aichat/backend/internal/storage"
)

// Delivery addresses one event to every connection joined to a user's
// channel.
type Delivery struct {
	UserID uint
	Event  models.ServerEvent
}

// Hub routes events to live connections, keyed by user identity. All state
// is owned by the Run goroutine; other goroutines talk to it through the
// channels.
type Hub struct {
	// channels maps a user id to the set of connections joined to that
	// user's channel, keyed by connection id.
	channels map[uint]map[string]Client

	RegisterCh   chan Client
	UnregisterCh chan Client
	DeliverCh    chan Delivery

	Storage storage.Storage
}

// NewHub creates a Hub backed by the given storage for presence tracking.
func NewHub(s storage.Storage) *Hub {
	return &Hub{
		channels:     make(map[uint]map[string]Client),
		RegisterCh:   make(chan Client),
		UnregisterCh: make(chan Client),
		DeliverCh:    make(chan Delivery, 64),
		Storage:      s,
	}
}

// Push delivers an event to every connection currently joined to the user's
// channel. With no connections joined the event is dropped; durability comes
// from the stored message rows, not from the live push.
func (h *Hub) Push(userID uint, event models.ServerEvent) {
	h.DeliverCh <- Delivery{UserID: userID, Event: event}
}

// Run is the hub dispatcher. It must run in its own goroutine.
func (h *Hub) Run() {
	log.Println("Chat hub started.")
	for {
		select {
		case client := <-h.RegisterCh:
			h.join(client)
		case client := <-h.UnregisterCh:
			h.leave(client)
		case delivery := <-h.DeliverCh:
			h.deliver(delivery)
		}
	}
}

func (h *Hub) join(client Client) {
	userID := client.GetUserID()
	conns, ok := h.channels[userID]
	if !ok {
		conns = make(map[string]Client)
		h.channels[userID] = conns
	}
	conns[client.GetConnID()] = client

	if err := h.Storage.SetUserOnline(userID, client.GetConnID()); err != nil {
		log.Printf("WARN: Failed to record presence for user %d: %v", userID, err)
	}
	log.Printf("User %d joined channel (conn %s, %d active)", userID, client.GetConnID(), len(conns))
}

func (h *Hub) leave(client Client) {
	userID := client.GetUserID()
	conns, ok := h.channels[userID]
	if !ok {
		return
	}
	if _, joined := conns[client.GetConnID()]; !joined {
		return
	}
	delete(conns, client.GetConnID())
	if len(conns) == 0 {
		delete(h.channels, userID)
	}
	client.Close()

	if err := h.Storage.SetUserOffline(userID, client.GetConnID()); err != nil {
		log.Printf("WARN: Failed to clear presence for user %d: %v", userID, err)
	}
	log.Printf("User %d left channel (conn %s)", userID, client.GetConnID())
}

func (h *Hub) deliver(delivery Delivery) {
	conns, ok := h.channels[delivery.UserID]
	if !ok || len(conns) == 0 {
		// Offline: the live push is best effort, the stored row remains.
		return
	}
	for _, client := range conns {
		select {
		case client.GetSendChannel() <- delivery.Event:
		default:
			// Slow consumer: drop the connection rather than block the hub.
			h.leave(client)
		}
	}
}
