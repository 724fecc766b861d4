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

// StartConversationController opens the thread between the caller and a peer,
// creating it lazily on first contact. Calling it again returns the same
// conversation id.
type StartConversationController struct {
	UC *usecase.StartConversationUseCase
}

func NewStartConversationController(pool *pgxpool.Pool) *StartConversationController {
	repo := adapter.NewPgChatRepository(pool)
	return &StartConversationController{UC: usecase.NewStartConversationUseCase(repo)}
}

type startConversationRequest struct {
	UserID string `json:"user_id" binding:"required"`
}

func (h *StartConversationController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		ident, ok := identity.FromContext(c)
		if !ok {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		var req startConversationRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Missing data"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		conv, created, err := h.UC.Execute(ctx, usecase.StartConversationInput{
			InitiatorID: ident.UserID,
			PeerID:      req.UserID,
		})
		if err != nil {
			if errors.Is(err, messaging.ErrSelfConversation) {
				c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Cannot start a conversation with yourself"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to start conversation"})
			return
		}

		status := http.StatusOK
		if created {
			status = http.StatusCreated
		}
		c.JSON(status, gin.H{
			"success":         true,
			"conversation_id": conv.ID,
			"created":         created,
		})
	}
}
