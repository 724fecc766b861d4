package messaging

import "errors"

// Domain-level errors for messaging behaviors
var (
	ErrConversationNotFound = errors.New("messaging: conversation does not exist")
	ErrNotParticipant       = errors.New("messaging: user is not a participant in the conversation")
	ErrEmptyMessage         = errors.New("messaging: message is empty after trimming")
	ErrMessageTooLong       = errors.New("messaging: message exceeds the maximum length")
	ErrSelfConversation     = errors.New("messaging: a conversation needs two distinct participants")
)
