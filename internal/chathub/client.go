package chathub

import "aichat/backend/internal/models"

// Client is the interface for one live connection joined to a user's
// channel. It abstracts the underlying transport, allowing the hub to manage
// connections uniformly.
type Client interface {
	// GetConnID returns the unique identifier of this connection. One user
	// may hold several connections at once.
	GetConnID() string
	// GetUserID returns the identity the connection is bound to.
	GetUserID() uint

	// GetSendChannel returns the channel the hub pushes outbound events
	// into. It is a send-only channel.
	GetSendChannel() chan<- models.ServerEvent

	// Run starts the client's read and write pumps.
	Run()
	// Close shuts down the client's send channel and, through it, the write
	// pump.
	Close()
}

// Session is the view of a connection handed to event handlers: the bound
// identity plus a way to emit events back to this connection only.
type Session interface {
	UserID() uint
	Emit(event models.ServerEvent)
}

// EventHandler processes one decoded client event. Handlers run on the
// connection's read goroutine and are expected to run to completion.
type EventHandler interface {
	HandleEvent(sess Session, event models.ClientEvent)
}
