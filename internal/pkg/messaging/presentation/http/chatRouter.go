package http

import (
	bport "github.com/RajeebLochan/QuickPost/internal/infrastructure/broadcast/port"
	"github.com/RajeebLochan/QuickPost/internal/pkg/messaging/presentation/controller"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RegisterRoutes registers the chat endpoints under the given router group.
// It constructs per-endpoint controllers and binds them directly to routes.
// Identity middleware is expected on the group already.
func RegisterRoutes(g *gin.RouterGroup, pool *pgxpool.Pool, backbone bport.Backbone) {
	startCtl := controller.NewStartConversationController(pool)
	listCtl := controller.NewListConversationsController(pool)
	sendMsgCtl := controller.NewSendMessageController(pool)
	getMsgCtl := controller.NewGetMessageController(pool)
	markReadCtl := controller.NewMarkReadController(pool)
	socketCtl := controller.NewChatSocketController(pool, backbone)
	notifyCtl := controller.NewNotificationSocketController(backbone)

	// POST /api/v1/chat/start -> open (or find) the thread with another user
	g.POST("/chat/start", startCtl.Handle())

	// GET /api/v1/chat -> the caller's inbox
	g.GET("/chat", listCtl.Handle())

	// POST /api/v1/chat/:conversationId/messages -> stateless send fallback
	g.POST("/chat/:conversationId/messages", sendMsgCtl.Handle())

	// GET /api/v1/chat/:conversationId/messages -> recent backlog, oldest first
	g.GET("/chat/:conversationId/messages", getMsgCtl.Handle())

	// POST /api/v1/chat/:conversationId/read -> mark the peer's messages read
	g.POST("/chat/:conversationId/read", markReadCtl.Handle())

	// GET /api/v1/chat/:conversationId/ws -> realtime endpoint per conversation
	g.GET("/chat/:conversationId/ws", socketCtl.Handle())

	// GET /api/v1/notifications/ws -> the caller's personal notification stream
	g.GET("/notifications/ws", notifyCtl.Handle())
}
