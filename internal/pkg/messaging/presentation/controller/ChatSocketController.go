package controller

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	bport "github.com/RajeebLochan/QuickPost/internal/infrastructure/broadcast/port"
	"github.com/RajeebLochan/QuickPost/internal/infrastructure/realtime"
	"github.com/RajeebLochan/QuickPost/internal/pkg/identity"
	"github.com/RajeebLochan/QuickPost/internal/pkg/messaging/application/usecase"
	messaging "github.com/RajeebLochan/QuickPost/internal/pkg/messaging/domain"
	repoAdapter "github.com/RajeebLochan/QuickPost/internal/pkg/messaging/persistence/repository/adapter"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	defaultReadTimeout = 60 * time.Second
	// errFailedToSend matches what clients already expect from the send path.
	errFailedToSend   = "Failed to send message"
	errInvalidPayload = "Invalid message format"
)

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// The trusted gateway in front of this service enforces origins.
		return true
	},
}

// ChatSocketController handles the realtime endpoint for one conversation.
// Lifecycle per connection: authorize -> upgrade -> join the conversation's
// broadcast group -> relay frames until either end disconnects.
type ChatSocketController struct {
	backbone        bport.Backbone
	authorizeUC     *usecase.AuthorizeParticipantUseCase
	sendMessageUC   *usecase.SendMessageUseCase
	inflightTimeout time.Duration
}

func NewChatSocketController(pool *pgxpool.Pool, backbone bport.Backbone) *ChatSocketController {
	repo := repoAdapter.NewPgChatRepository(pool)
	return &ChatSocketController{
		backbone:        backbone,
		authorizeUC:     usecase.NewAuthorizeParticipantUseCase(repo),
		sendMessageUC:   usecase.NewSendMessageUseCase(repo),
		inflightTimeout: 5 * time.Second,
	}
}

// Handle upgrades authorized connections and relays frames until the client
// disconnects. Unauthorized identities are rejected before the group join with
// a bare status: the response does not reveal whether the conversation exists.
func (ctl *ChatSocketController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		conversationID := c.Param("conversationId")
		ident, ok := identity.FromContext(c)
		if !ok {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		authCtx, cancel := context.WithTimeout(c.Request.Context(), ctl.inflightTimeout)
		err := ctl.authorizeUC.Execute(authCtx, usecase.AuthorizeParticipantInput{
			ConversationID: conversationID,
			UserID:         ident.UserID,
		})
		cancel()
		if err != nil {
			if errors.Is(err, messaging.ErrNotParticipant) {
				c.AbortWithStatus(http.StatusForbidden)
			} else {
				log.Printf("chat socket: authorize conversation=%s: %v", conversationID, err)
				c.AbortWithStatus(http.StatusInternalServerError)
			}
			return
		}

		ws, err := wsUpgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			// Upgrade already wrote the response; just log and return.
			log.Printf("chat socket: upgrade: %v", err)
			return
		}

		sess := realtime.NewSession(ident.UserID, ident.Username, conversationID, ws)
		sess.Start()

		group := bport.ConversationGroup(conversationID)
		sub, err := ctl.backbone.Join(c.Request.Context(), group, sess.Deliver)
		if err != nil {
			log.Printf("chat socket: join group %s: %v", group, err)
			sess.Close(websocket.CloseInternalServerErr, "join failed")
			return
		}
		defer func() {
			// Leaving is best-effort cleanup and never fails the session.
			_ = sub.Close()
			sess.Close(websocket.CloseNormalClosure, "session closed")
		}()

		ctl.readLoop(c, sess, ws)
	}
}

func (ctl *ChatSocketController) readLoop(c *gin.Context, sess *realtime.Session, ws *websocket.Conn) {
	ws.SetReadLimit(1 << 20)
	_ = ws.SetReadDeadline(time.Now().Add(defaultReadTimeout))
	ws.SetPongHandler(func(string) error {
		return ws.SetReadDeadline(time.Now().Add(defaultReadTimeout))
	})

	for {
		_, data, err := ws.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseNoStatusReceived) &&
				!errors.Is(err, websocket.ErrCloseSent) {
				log.Printf("chat socket: read user=%s: %v", sess.UserID, err)
			}
			return
		}

		var frame inboundFrame
		if err := json.Unmarshal(data, &frame); err != nil {
			// Malformed frame: soft error to this session only, stay open.
			_ = sess.Send(encodeErrorFrame(errInvalidPayload))
			continue
		}

		ctl.relayMessage(c, sess, frame.Message)
	}
}

// relayMessage persists the text and broadcasts the stored message to the
// whole group. Validation rejects are dropped silently — never persisted,
// never broadcast; other failures get a soft error frame back to the sender.
func (ctl *ChatSocketController) relayMessage(c *gin.Context, sess *realtime.Session, text string) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), ctl.inflightTimeout)
	defer cancel()

	msg, err := ctl.sendMessageUC.Execute(ctx, usecase.SendMessageInput{
		ConversationID: sess.ConversationID,
		SenderID:       sess.UserID,
		SenderName:     sess.Username,
		Content:        text,
	})
	if err != nil {
		switch {
		case errors.Is(err, messaging.ErrEmptyMessage), errors.Is(err, messaging.ErrMessageTooLong):
			log.Printf("chat socket: dropped invalid message user=%s: %v", sess.UserID, err)
		default:
			log.Printf("chat socket: persist user=%s conversation=%s: %v", sess.UserID, sess.ConversationID, err)
			_ = sess.Send(encodeErrorFrame(errFailedToSend))
		}
		return
	}

	payload, err := encodeMessageFrame(*msg)
	if err != nil {
		log.Printf("chat socket: encode message %d: %v", msg.ID, err)
		_ = sess.Send(encodeErrorFrame(errFailedToSend))
		return
	}

	if err := ctl.backbone.Publish(ctx, bport.ConversationGroup(sess.ConversationID), payload); err != nil {
		// The message is durable; only the fan-out failed. The sender can
		// recover the backlog through the fetch endpoint.
		log.Printf("chat socket: broadcast message %d: %v", msg.ID, err)
	}
}
