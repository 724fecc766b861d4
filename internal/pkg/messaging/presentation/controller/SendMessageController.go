package controller

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/RajeebLochan/QuickPost/internal/pkg/identity"
	"github.com/RajeebLochan/QuickPost/internal/pkg/messaging/application/usecase"
	messaging "github.com/RajeebLochan/QuickPost/internal/pkg/messaging/domain"
	"github.com/RajeebLochan/QuickPost/internal/pkg/messaging/persistence/repository/adapter"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SendMessageController handles the stateless send endpoint: the fallback for
// clients without a live socket. Same validation and persistence path as the
// relay; only the transport differs. One controller per endpoint.
type SendMessageController struct {
	UC *usecase.SendMessageUseCase
}

func NewSendMessageController(pool *pgxpool.Pool) *SendMessageController {
	repo := adapter.NewPgChatRepository(pool)
	return &SendMessageController{UC: usecase.NewSendMessageUseCase(repo)}
}

// sendMessageRequest is the DTO for the HTTP request body
type sendMessageRequest struct {
	Message string `json:"message"`
}

func (h *SendMessageController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		conversationID := c.Param("conversationId")
		ident, ok := identity.FromContext(c)
		if !ok {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		var req sendMessageRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Missing data"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		msg, err := h.UC.Execute(ctx, usecase.SendMessageInput{
			ConversationID: conversationID,
			SenderID:       ident.UserID,
			SenderName:     ident.Username,
			Content:        req.Message,
		})
		if err != nil {
			status, reason := sendErrorResponse(err)
			c.JSON(status, gin.H{"success": false, "error": reason})
			return
		}

		dto := toMessageDTO(*msg)
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": gin.H{
				"id":        dto.ID,
				"content":   dto.Content,
				"sender":    dto.Sender,
				"sender_id": dto.SenderID,
				"timestamp": dto.Timestamp,
			},
		})
	}
}

// sendErrorResponse maps domain and infrastructure errors onto the error
// strings the web client displays.
func sendErrorResponse(err error) (int, string) {
	switch {
	case errors.Is(err, messaging.ErrEmptyMessage):
		return http.StatusBadRequest, "Missing data"
	case errors.Is(err, messaging.ErrMessageTooLong):
		return http.StatusBadRequest, "Message too long"
	case errors.Is(err, messaging.ErrNotParticipant):
		return http.StatusForbidden, "Access denied"
	default:
		return http.StatusInternalServerError, "Failed to send message"
	}
}
