package usecase

import (
	"context"
	"errors"
	"fmt"

	messaging "github.com/RajeebLochan/QuickPost/internal/pkg/messaging/domain"
	repository "github.com/RajeebLochan/QuickPost/internal/pkg/messaging/persistence/repository/port"
)

// SendMessageInput carries the data needed to send a new message. Content is
// the raw client input; validation and trimming happen here so the realtime
// and HTTP paths share one rule.
type SendMessageInput struct {
	ConversationID string
	SenderID       string
	SenderName     string
	Content        string
}

// SendMessageUseCase authorizes, validates and persists one message.
// Hexagonal: depends on repository port, returns domain entity.
type SendMessageUseCase struct {
	Repo repository.ChatRepository
}

func NewSendMessageUseCase(repo repository.ChatRepository) *SendMessageUseCase {
	return &SendMessageUseCase{Repo: repo}
}

// Execute persists a new message and returns it with the server-assigned id
// and timestamp. Returns domain errors for authorization and validation
// failures, ErrPersistence for infrastructure ones.
func (uc *SendMessageUseCase) Execute(ctx context.Context, in SendMessageInput) (*messaging.Message, error) {
	if in.ConversationID == "" || in.SenderID == "" {
		return nil, fmt.Errorf("conversationId and senderId are required")
	}

	isParticipant, err := uc.Repo.IsParticipant(ctx, in.ConversationID, in.SenderID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if !isParticipant {
		return nil, messaging.ErrNotParticipant
	}

	content, err := messaging.ValidateContent(in.Content)
	if err != nil {
		return nil, err
	}

	msg, err := uc.Repo.SaveMessage(ctx, messaging.Message{
		ConversationID: in.ConversationID,
		SenderID:       in.SenderID,
		SenderName:     in.SenderName,
		Content:        content,
	})
	if err != nil {
		if errors.Is(err, messaging.ErrConversationNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return &msg, nil
}
