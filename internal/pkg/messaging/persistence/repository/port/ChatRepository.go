package repository

import (
	"context"

	messaging "github.com/RajeebLochan/QuickPost/internal/pkg/messaging/domain"
)

// ChatRepository defines persistence operations for the messaging domain.
// Implementations must treat SaveMessage as a single unit: the message insert
// and the conversation's last-activity touch either both happen or neither.
type ChatRepository interface {
	// GetOrCreateConversation returns the conversation whose participant set is
	// exactly {userA, userB}, creating it on first contact. The bool reports
	// whether a new conversation was created by this call.
	GetOrCreateConversation(ctx context.Context, userA, userB string) (messaging.Conversation, bool, error)

	// IsParticipant reports whether userID belongs to the conversation.
	// A conversation that does not exist yields (false, nil).
	IsParticipant(ctx context.Context, conversationID, userID string) (bool, error)

	// SaveMessage inserts the message and touches the conversation's
	// last_message_at in the same transaction. Returns the stored message with
	// its server-assigned id and timestamp. A missing conversation yields
	// messaging.ErrConversationNotFound.
	SaveMessage(ctx context.Context, m messaging.Message) (messaging.Message, error)

	// GetMessagesByConversation returns the most recent limit messages in
	// ascending creation order (oldest first).
	GetMessagesByConversation(ctx context.Context, conversationID string, limit int) ([]messaging.Message, error)

	// MarkMessagesRead flips is_read on every unread message in the
	// conversation not authored by readerID. Idempotent; returns the number of
	// rows updated.
	MarkMessagesRead(ctx context.Context, conversationID, readerID string) (int64, error)

	// LastMessage returns the newest message in the conversation, or nil when
	// the conversation has none.
	LastMessage(ctx context.Context, conversationID string) (*messaging.Message, error)

	// HasUnread reports whether any message authored by someone other than
	// userID is still unread.
	HasUnread(ctx context.Context, conversationID, userID string) (bool, error)

	// ListConversations returns the user's conversations ordered by last
	// activity, newest first, each with its latest message and unread flag.
	ListConversations(ctx context.Context, userID string) ([]messaging.ConversationSummary, error)
}
