package controller

import (
	"encoding/json"
	"time"

	messaging "github.com/RajeebLochan/QuickPost/internal/pkg/messaging/domain"
)

// inboundFrame is what clients push over the realtime endpoint: one text field.
type inboundFrame struct {
	Message string `json:"message"`
}

// outboundFrame is the canonical broadcast payload. Every session in the
// conversation's group receives it, the sender's included, so clients render
// the server-assigned id and timestamp instead of a local echo.
type outboundFrame struct {
	Message   string `json:"message"`
	Sender    string `json:"sender"`
	SenderID  string `json:"sender_id"`
	Timestamp string `json:"timestamp"`
	MessageID int64  `json:"message_id"`
}

// errorFrame is the soft error payload; the connection stays open after it.
type errorFrame struct {
	Error string `json:"error"`
}

func encodeMessageFrame(m messaging.Message) ([]byte, error) {
	return json.Marshal(outboundFrame{
		Message:   m.Content,
		Sender:    m.SenderName,
		SenderID:  m.SenderID,
		Timestamp: m.CreatedAt.Format(time.RFC3339),
		MessageID: m.ID,
	})
}

func encodeErrorFrame(description string) []byte {
	payload, err := json.Marshal(errorFrame{Error: description})
	if err != nil {
		return []byte(`{"error":"internal error"}`)
	}
	return payload
}
