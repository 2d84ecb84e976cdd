package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"aichat/backend/internal/models"
)

const defaultHistoryLimit = 50

// ListMessages returns the authenticated user's conversation with the
// assistant, oldest first, in the wire format used by the realtime channel.
func (h *Handler) ListMessages(c *gin.Context) {
	userID := c.GetUint("user_id")

	bot, err := h.Storage.GetUserByUsername(h.Cfg.BotUsername)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "System error: the assistant is not configured"})
		return
	}

	limit := defaultHistoryLimit
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}

	messages, err := h.Storage.GetConversation(userID, bot.ID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load messages"})
		return
	}

	wire := make([]models.MessageWire, 0, len(messages))
	for _, m := range messages {
		wire = append(wire, m.ToWire())
	}
	c.JSON(http.StatusOK, gin.H{"messages": wire})
}
