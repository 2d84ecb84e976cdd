package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"aichat/backend/internal/chathub"
	"aichat/backend/internal/models"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Allows connections from any origin. Tighten for production.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ServeWebSocket upgrades the connection and binds it to the caller's
// identity channel. An unauthenticated caller receives an error event over
// the fresh socket and is never joined.
func (h *Handler) ServeWebSocket(c *gin.Context) {
	tokenString := bearerToken(c)

	var userID uint
	authErr := errInvalidToken
	if tokenString != "" {
		userID, _, authErr = h.parseToken(tokenString)
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to upgrade connection"})
		return
	}

	if authErr != nil {
		conn.WriteJSON(models.ErrorEvent("please log in before chatting"))
		conn.Close()
		return
	}

	client := &chathub.WebSocketClient{
		ConnID:  uuid.New().String(),
		UID:     userID,
		Conn:    conn,
		Hub:     h.Hub,
		Handler: h.Events,
		Send:    make(chan models.ServerEvent, 256),
	}

	h.Hub.RegisterCh <- client
	client.Run()

	client.Emit(models.ServerEvent{
		Event: models.EventConnected,
		Data:  models.ConnectedPayload{UserID: userID},
	})
}
