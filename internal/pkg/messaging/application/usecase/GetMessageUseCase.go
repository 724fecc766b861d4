package usecase

import (
	"context"
	"fmt"

	messaging "github.com/RajeebLochan/QuickPost/internal/pkg/messaging/domain"
	repository "github.com/RajeebLochan/QuickPost/internal/pkg/messaging/persistence/repository/port"
)

// historyPageSize is how much backlog the pull interface returns: the most
// recent 50 messages, oldest first.
const historyPageSize = 50

// GetMessageInput carries parameters to fetch a conversation's recent messages.
type GetMessageInput struct {
	ConversationID string
	RequesterID    string
}

// GetMessageUseCase returns the backlog for a conversation the requester
// belongs to. Read state is reported but never changed here.
type GetMessageUseCase struct {
	Repo repository.ChatRepository
}

func NewGetMessageUseCase(repo repository.ChatRepository) *GetMessageUseCase {
	return &GetMessageUseCase{Repo: repo}
}

func (uc *GetMessageUseCase) Execute(ctx context.Context, in GetMessageInput) ([]messaging.Message, error) {
	if in.ConversationID == "" || in.RequesterID == "" {
		return nil, fmt.Errorf("conversationId and requesterId are required")
	}

	isParticipant, err := uc.Repo.IsParticipant(ctx, in.ConversationID, in.RequesterID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if !isParticipant {
		return nil, messaging.ErrNotParticipant
	}

	msgs, err := uc.Repo.GetMessagesByConversation(ctx, in.ConversationID, historyPageSize)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return msgs, nil
}
