package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"ttchat/internal/entities"
	"ttchat/internal/usecases"
)

type ChatHandler struct {
	chat   *usecases.ChatService
	logger *zap.Logger
}

func NewChatHandler(chat *usecases.ChatService, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{chat: chat, logger: logger}
}

// HandleMessage is the public widget chat endpoint. Failures degrade to
// a visitor-facing apology rather than error detail.
func (h *ChatHandler) HandleMessage(c *gin.Context) {
	var req struct {
		Message   string `json:"message" binding:"required,min=1"`
		SessionID string `json:"sessionId" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Message and session ID are required"})
		return
	}

	reply, err := h.chat.HandleInboundMessage(c.Request.Context(), c.Param("widgetId"), req.Message, req.SessionID)
	if err != nil {
		if errors.Is(err, entities.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Widget not found or inactive"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":    "Failed to process message",
			"response": "Sorry, I encountered an error. Please try again later.",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"response": reply})
}
