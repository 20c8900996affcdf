package handlers

import (
	"errors"
	"net/http"

	"recap-backend/models"
	"recap-backend/service"
	"recap-backend/storage"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ChatHandler handles HTTP requests for case-law chat
type ChatHandler struct {
	chatService *service.ChatService
	logger      *zap.Logger
}

// NewChatHandler creates a new chat handler
func NewChatHandler(chatService *service.ChatService, logger *zap.Logger) *ChatHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChatHandler{
		chatService: chatService,
		logger:      logger,
	}
}

// ChatRequest represents the request body for a chat turn
type ChatRequest struct {
	Messages []models.ChatMessage `json:"messages" binding:"required,dive"`
}

// Chat handles POST /api/chat. Case context is resolved before the response
// starts; the completion is then relayed as server-sent events.
func (h *ChatHandler) Chat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_REQUEST",
				"message": err.Error(),
			},
		})
		return
	}

	ctx := c.Request.Context()
	prepared, err := h.chatService.PrepareChat(ctx, service.ChatRequest{Messages: req.Messages})
	if err != nil {
		if errors.Is(err, service.ErrNoMessages) {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "INVALID_REQUEST",
					"message": err.Error(),
				},
			})
			return
		}
		h.logger.Error("failed to prepare chat", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to process request",
			"details": err.Error(),
		})
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Status(http.StatusOK)

	result, err := h.chatService.StreamChat(ctx, prepared, func(chunk string) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		c.SSEvent("token", gin.H{"content": chunk})
		c.Writer.Flush()
		return nil
	})

	exchangeKey := ""
	if result != nil {
		exchangeKey = result.ExchangeKey
	}

	if err != nil {
		c.SSEvent("error", gin.H{
			"message":     err.Error(),
			"exchange_id": exchangeKey,
		})
		c.Writer.Flush()
		return
	}

	c.SSEvent("done", gin.H{
		"exchange_id": exchangeKey,
		"cases":       len(prepared.Exchange.Cases),
	})
	c.Writer.Flush()
}

// GetExchange handles GET /api/exchanges/:id
func (h *ChatHandler) GetExchange(c *gin.Context) {
	key := c.Param("id")

	transcript, err := h.chatService.GetExchangeLog(c.Request.Context(), key)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrInvalidKey):
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "INVALID_EXCHANGE_ID",
					"message": "Invalid exchange id",
				},
			})
		case errors.Is(err, storage.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "NOT_FOUND",
					"message": "Exchange not found",
				},
			})
		default:
			h.logger.Error("failed to read exchange log", zap.String("key", key), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "READ_FAILED",
					"message": err.Error(),
				},
			})
		}
		return
	}

	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(transcript))
}
