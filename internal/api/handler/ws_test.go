package handler

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aichat/backend/internal/chathub"
	"aichat/backend/internal/models"
)

func newWSTestServer(t *testing.T) (*httptest.Server, *Handler, *fakeStorage) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	h, fs := newTestHandler()
	hub := chathub.NewHub(fs)
	go hub.Run()
	h.Hub = hub

	router := gin.New()
	router.GET("/ws", h.ServeWebSocket)
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv, h, fs
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
}

// TestServeWebSocket_Unauthenticated: the upgrade succeeds, the client gets
// exactly one in-band error event and the connection closes without the
// channel ever being joined.
func TestServeWebSocket_Unauthenticated(t *testing.T) {
	srv, _, fs := newWSTestServer(t)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv), nil)
	require.NoError(t, err, "the upgrade itself succeeds without a token")
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(time.Second))
	var event struct {
		Event string              `json:"event"`
		Data  models.ErrorPayload `json:"data"`
	}
	require.NoError(t, conn.ReadJSON(&event))
	assert.Equal(t, models.EventError, event.Event)
	assert.Equal(t, "please log in before chatting", event.Data.Message)

	// The server hangs up after the error event.
	_, _, err = conn.ReadMessage()
	assert.Error(t, err)

	time.Sleep(100 * time.Millisecond)
	assert.Empty(t, fs.joined(), "unauthenticated connections never join the channel")
}

func TestServeWebSocket_AuthenticatedGetsConnectedAck(t *testing.T) {
	srv, h, fs := newWSTestServer(t)

	token, err := h.generateJWT(7)
	require.NoError(t, err)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv)+"?token="+token, nil)
	require.NoError(t, err)
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(time.Second))
	var event struct {
		Event string                  `json:"event"`
		Data  models.ConnectedPayload `json:"data"`
	}
	require.NoError(t, conn.ReadJSON(&event))
	assert.Equal(t, models.EventConnected, event.Event)
	assert.Equal(t, uint(7), event.Data.UserID)

	time.Sleep(100 * time.Millisecond)
	assert.Len(t, fs.joined(), 1, "one connection joined the user's channel")
}
