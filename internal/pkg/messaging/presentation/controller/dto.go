package controller

import (
	"time"

	messaging "github.com/RajeebLochan/QuickPost/internal/pkg/messaging/domain"
)

// messageDTO is the HTTP shape of a message. The realtime frame carries the
// same canonical fields under its own names; this one additionally exposes the
// read flag for the fetch endpoint.
type messageDTO struct {
	ID        int64  `json:"id"`
	Content   string `json:"content"`
	Sender    string `json:"sender"`
	SenderID  string `json:"sender_id"`
	Timestamp string `json:"timestamp"`
	IsRead    bool   `json:"is_read"`
}

func toMessageDTO(m messaging.Message) messageDTO {
	return messageDTO{
		ID:        m.ID,
		Content:   m.Content,
		Sender:    m.SenderName,
		SenderID:  m.SenderID,
		Timestamp: m.CreatedAt.Format(time.RFC3339),
		IsRead:    m.Read,
	}
}
