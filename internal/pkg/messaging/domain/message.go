package messaging

import (
	"strings"
	"time"
	"unicode/utf8"
)

// MaxMessageLength caps message content, counted in runes after trimming.
const MaxMessageLength = 1000

// Message is an immutable log entry in a conversation. The ID is assigned by
// the database and is strictly increasing in creation order, which makes it a
// stable secondary sort key alongside CreatedAt. The Read flag is the only
// field that ever changes after insert (false -> true, never back).
type Message struct {
	ID             int64     `db:"id"`
	ConversationID string    `db:"conversation_id"`
	SenderID       string    `db:"sender_id"`
	SenderName     string    `db:"sender_name"`
	Content        string    `db:"content"`
	CreatedAt      time.Time `db:"created_at"`
	Read           bool      `db:"is_read"`
}

// ValidateContent applies the content rules shared by the realtime and HTTP
// send paths: surrounding whitespace is stripped, the result must be non-empty
// and at most MaxMessageLength runes. The trimmed form is what gets persisted,
// never the raw input.
func ValidateContent(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", ErrEmptyMessage
	}
	if utf8.RuneCountInString(trimmed) > MaxMessageLength {
		return "", ErrMessageTooLong
	}
	return trimmed, nil
}
