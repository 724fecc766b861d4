package controller

import (
	"log"
	"net/http"
	"time"

	bport "github.com/RajeebLochan/QuickPost/internal/infrastructure/broadcast/port"
	"github.com/RajeebLochan/QuickPost/internal/infrastructure/realtime"
	"github.com/RajeebLochan/QuickPost/internal/pkg/identity"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// NotificationSocketController joins the caller's personal notification group.
// No in-scope flow publishes into these groups yet; the endpoint exists so
// collaborators (feed activity, follower events) have a delivery channel.
type NotificationSocketController struct {
	backbone bport.Backbone
}

func NewNotificationSocketController(backbone bport.Backbone) *NotificationSocketController {
	return &NotificationSocketController{backbone: backbone}
}

func (ctl *NotificationSocketController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		ident, ok := identity.FromContext(c)
		if !ok {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		ws, err := wsUpgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Printf("notification socket: upgrade: %v", err)
			return
		}

		sess := realtime.NewSession(ident.UserID, ident.Username, "", ws)
		sess.Start()

		group := bport.NotificationGroup(ident.UserID)
		sub, err := ctl.backbone.Join(c.Request.Context(), group, sess.Deliver)
		if err != nil {
			log.Printf("notification socket: join group %s: %v", group, err)
			sess.Close(websocket.CloseInternalServerErr, "join failed")
			return
		}
		defer func() {
			_ = sub.Close()
			sess.Close(websocket.CloseNormalClosure, "session closed")
		}()

		// Inbound traffic is ignored on this endpoint; the loop only exists to
		// service control frames and notice the disconnect.
		ws.SetReadLimit(1 << 10)
		_ = ws.SetReadDeadline(time.Now().Add(defaultReadTimeout))
		ws.SetPongHandler(func(string) error {
			return ws.SetReadDeadline(time.Now().Add(defaultReadTimeout))
		})
		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				return
			}
		}
	}
}
