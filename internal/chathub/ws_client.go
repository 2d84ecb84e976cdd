package chathub

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"aichat/backend/internal/models"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

// WebSocketClient implements Client and Session over a gorilla/websocket
// connection.
type WebSocketClient struct {
	ConnID  string
	UID     uint
	Conn    *websocket.Conn
	Hub     *Hub
	Handler EventHandler
	Send    chan models.ServerEvent

	// mu orders Emit against Close: the hub closes Send from its own
	// goroutine while Emit runs on the read pump, so an unguarded send
	// could hit a closed channel.
	mu     sync.Mutex
	closed bool
}

func (c *WebSocketClient) GetConnID() string                         { return c.ConnID }
func (c *WebSocketClient) GetUserID() uint                           { return c.UID }
func (c *WebSocketClient) GetSendChannel() chan<- models.ServerEvent { return c.Send }

// UserID implements Session.
func (c *WebSocketClient) UserID() uint { return c.UID }

// Emit queues an event for this connection only. A full send buffer drops
// the event instead of blocking the handler; after Close it is a no-op.
func (c *WebSocketClient) Emit(event models.ServerEvent) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	select {
	case c.Send <- event:
	default:
		log.Printf("WARN: Dropping %q event for slow connection %s", event.Event, c.ConnID)
	}
}

// Run starts the read and write pumps.
func (c *WebSocketClient) Run() {
	go c.writePump()
	go c.readPump()
}

// Close closes the Send channel, which stops the write pump. Safe to call
// more than once and concurrently with Emit.
func (c *WebSocketClient) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.Send)
}

func (c *WebSocketClient) readPump() {
	defer func() {
		c.Hub.UnregisterCh <- c
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("error reading message: %v", err)
			}
			break
		}

		var event models.ClientEvent
		if err := json.Unmarshal(raw, &event); err != nil {
			log.Printf("Error decoding event from conn %s: %v", c.ConnID, err)
			continue
		}

		c.Handler.HandleEvent(c, event)
	}
}

func (c *WebSocketClient) writePump() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case event, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Channel closed by the hub.
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			data, err := json.Marshal(event)
			if err != nil {
				log.Printf("Error encoding event for conn %s: %v", c.ConnID, err)
				continue
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
