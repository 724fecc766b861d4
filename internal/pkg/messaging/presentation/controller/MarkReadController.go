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

// MarkReadController marks the peer's messages read when the caller opens a
// conversation. Repeat calls are harmless no-ops.
type MarkReadController struct {
	UC *usecase.MarkReadUseCase
}

func NewMarkReadController(pool *pgxpool.Pool) *MarkReadController {
	repo := adapter.NewPgChatRepository(pool)
	return &MarkReadController{UC: usecase.NewMarkReadUseCase(repo)}
}

func (h *MarkReadController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		conversationID := c.Param("conversationId")
		ident, ok := identity.FromContext(c)
		if !ok {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		n, err := h.UC.Execute(ctx, usecase.MarkReadInput{
			ConversationID: conversationID,
			ReaderID:       ident.UserID,
		})
		if err != nil {
			if errors.Is(err, messaging.ErrNotParticipant) {
				c.JSON(http.StatusForbidden, gin.H{"success": false, "error": "Access denied"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to mark messages read"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "marked_read": n})
	}
}
