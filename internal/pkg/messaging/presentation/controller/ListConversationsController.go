package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/RajeebLochan/QuickPost/internal/pkg/identity"
	"github.com/RajeebLochan/QuickPost/internal/pkg/messaging/application/usecase"
	"github.com/RajeebLochan/QuickPost/internal/pkg/messaging/persistence/repository/adapter"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ListConversationsController serves the caller's inbox: conversations ordered
// by last activity with a last-message preview and an unread flag.
type ListConversationsController struct {
	UC *usecase.ListConversationsUseCase
}

func NewListConversationsController(pool *pgxpool.Pool) *ListConversationsController {
	repo := adapter.NewPgChatRepository(pool)
	return &ListConversationsController{UC: usecase.NewListConversationsUseCase(repo)}
}

func (h *ListConversationsController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		ident, ok := identity.FromContext(c)
		if !ok {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		summaries, err := h.UC.Execute(ctx, usecase.ListConversationsInput{UserID: ident.UserID})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to load conversations"})
			return
		}

		out := make([]gin.H, 0, len(summaries))
		for _, s := range summaries {
			entry := gin.H{
				"id":              s.Conversation.ID,
				"peer_id":         s.PeerID,
				"created_at":      s.Conversation.CreatedAt.Format(time.RFC3339),
				"last_message_at": s.Conversation.LastMessageAt.Format(time.RFC3339),
				"has_unread":      s.HasUnread,
			}
			if s.LastMessage != nil {
				entry["last_message"] = toMessageDTO(*s.LastMessage)
			}
			out = append(out, entry)
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "conversations": out})
	}
}
