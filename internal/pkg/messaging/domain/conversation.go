package messaging

import "time"

// Conversation represents a 1:1 thread. The schema allows N participants but
// product logic only ever creates two. LastMessageAt is touched on every
// persisted message and is never allowed to move backwards.
type Conversation struct {
	ID            string    `db:"id"`
	CreatedAt     time.Time `db:"created_at"`
	LastMessageAt time.Time `db:"last_message_at"`
}

// ConversationSummary is the inbox projection of a conversation for one user:
// the peer on the other side, the newest message if any, and whether anything
// from the peer is still unread.
type ConversationSummary struct {
	Conversation Conversation
	PeerID       string
	LastMessage  *Message
	HasUnread    bool
}
