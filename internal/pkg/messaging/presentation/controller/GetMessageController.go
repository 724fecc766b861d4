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

// GetMessageController handles the backlog fetch: the most recent 50 messages
// of a conversation, oldest first, read state included but untouched.
type GetMessageController struct {
	UC *usecase.GetMessageUseCase
}

func NewGetMessageController(pool *pgxpool.Pool) *GetMessageController {
	repo := adapter.NewPgChatRepository(pool)
	return &GetMessageController{UC: usecase.NewGetMessageUseCase(repo)}
}

func (h *GetMessageController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		conversationID := c.Param("conversationId")
		ident, ok := identity.FromContext(c)
		if !ok {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		msgs, err := h.UC.Execute(ctx, usecase.GetMessageInput{
			ConversationID: conversationID,
			RequesterID:    ident.UserID,
		})
		if err != nil {
			if errors.Is(err, messaging.ErrNotParticipant) {
				c.JSON(http.StatusForbidden, gin.H{"success": false, "error": "Access denied"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to load messages"})
			return
		}

		out := make([]messageDTO, 0, len(msgs))
		for _, m := range msgs {
			out = append(out, toMessageDTO(m))
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "messages": out})
	}
}
