package realtime

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pingPeriod = 30 * time.Second
)

// ErrConnectionClosed is returned by Send once the session is torn down.
// A payload that cannot be delivered to a closed session is simply dropped
// by callers; this error exists so fan-out code can detect dead members.
var ErrConnectionClosed = errors.New("realtime: connection closed")

// Session wraps one live websocket, bound to a single user and conversation
// for its whole lifetime. Outbound writes go through a buffered channel
// drained by a dedicated write loop, so Deliver is safe to call from the
// broadcast backbone's delivery path without blocking it.
type Session struct {
	ID             string
	UserID         string
	Username       string
	ConversationID string

	ws    *websocket.Conn
	send  chan []byte
	once  sync.Once
	close chan struct{}
}

// NewSession constructs a Session for the given identity and conversation.
func NewSession(userID, username, conversationID string, ws *websocket.Conn) *Session {
	return &Session{
		ID:             uuid.NewString(),
		UserID:         userID,
		Username:       username,
		ConversationID: conversationID,
		ws:             ws,
		send:           make(chan []byte, 128),
		close:          make(chan struct{}),
	}
}

// Start launches the write loop. It must be called exactly once per session.
func (s *Session) Start() {
	go s.writeLoop()
}

// Deliver enqueues payload for delivery, dropping it if the session is closed.
// This is the shape the broadcast backbone expects from a group member.
func (s *Session) Deliver(payload []byte) {
	_ = s.Send(payload)
}

// Send enqueues payload for delivery. If the client is slow and the buffer is
// full, the session is closed to keep backpressure bounded.
func (s *Session) Send(payload []byte) error {
	select {
	case <-s.close:
		return ErrConnectionClosed
	case s.send <- payload:
		return nil
	default:
		s.Close(websocket.CloseGoingAway, "send buffer full")
		return errors.New("realtime: send buffer exceeded")
	}
}

// Close terminates the session and stops the write loop. Safe to call from
// any goroutine and more than once.
func (s *Session) Close(code int, reason string) {
	s.once.Do(func() {
		close(s.close)
		_ = s.ws.SetWriteDeadline(time.Now().Add(writeWait))
		_ = s.ws.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(code, reason), time.Now().Add(writeWait))
		_ = s.ws.Close()
	})
}

func (s *Session) writeLoop() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-s.close:
			return
		case msg := <-s.send:
			if err := s.writeMessage(msg); err != nil {
				return
			}
		case <-ticker.C:
			if err := s.writePing(); err != nil {
				return
			}
		}
	}
}

func (s *Session) writeMessage(payload []byte) error {
	if err := s.ws.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return s.ws.WriteMessage(websocket.TextMessage, payload)
}

func (s *Session) writePing() error {
	if err := s.ws.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return s.ws.WriteMessage(websocket.PingMessage, nil)
}
