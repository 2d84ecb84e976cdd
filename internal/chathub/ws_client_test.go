package chathub

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"aichat/backend/internal/models"
)

// TestEmitAfterEviction reproduces the hub closing a slow consumer's send
// channel while the connection's own goroutines still emit: the late Emit
// must be a silent no-op, never a send on a closed channel.
func TestEmitAfterEviction(t *testing.T) {
	hub := NewHub(newFakeStorage())
	go hub.Run()

	client := &WebSocketClient{
		ConnID: "conn1",
		UID:    1,
		Hub:    hub,
		Send:   make(chan models.ServerEvent), // zero buffer, nobody reading
	}

	hub.RegisterCh <- client
	time.Sleep(100 * time.Millisecond)

	// Blocked send channel: the hub evicts and closes the client.
	hub.Push(1, models.ServerEvent{Event: models.EventNewMessage})
	time.Sleep(100 * time.Millisecond)

	assert.NotPanics(t, func() {
		client.Emit(models.ErrorEvent("late emit"))
	})
}

func TestWebSocketClient_CloseIsIdempotent(t *testing.T) {
	client := &WebSocketClient{
		ConnID: "conn1",
		UID:    1,
		Send:   make(chan models.ServerEvent, 1),
	}

	assert.NotPanics(t, func() {
		client.Close()
		client.Close()
	})
	assert.NotPanics(t, func() {
		client.Emit(models.ServerEvent{Event: models.EventConnected})
	})
}

func TestWebSocketClient_ConcurrentEmitAndClose(t *testing.T) {
	client := &WebSocketClient{
		ConnID: "conn1",
		UID:    1,
		Send:   make(chan models.ServerEvent, 4),
	}

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			client.Emit(models.ServerEvent{Event: models.EventNewMessage})
		}()
	}
	client.Close()
	wg.Wait()
}
