package usecase

import (
	"context"
	"fmt"

	messaging "github.com/RajeebLochan/QuickPost/internal/pkg/messaging/domain"
	repository "github.com/RajeebLochan/QuickPost/internal/pkg/messaging/persistence/repository/port"
)

// MarkReadInput identifies the reader opening a conversation.
type MarkReadInput struct {
	ConversationID string
	ReaderID       string
}

// MarkReadUseCase flips the read flag on everything the peer sent that the
// reader has not seen yet. Idempotent: once all qualifying messages are read,
// repeated calls touch nothing.
type MarkReadUseCase struct {
	Repo repository.ChatRepository
}

func NewMarkReadUseCase(repo repository.ChatRepository) *MarkReadUseCase {
	return &MarkReadUseCase{Repo: repo}
}

// Execute returns the number of messages newly marked read.
func (uc *MarkReadUseCase) Execute(ctx context.Context, in MarkReadInput) (int64, error) {
	if in.ConversationID == "" || in.ReaderID == "" {
		return 0, fmt.Errorf("conversationId and readerId are required")
	}

	isParticipant, err := uc.Repo.IsParticipant(ctx, in.ConversationID, in.ReaderID)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if !isParticipant {
		return 0, messaging.ErrNotParticipant
	}

	n, err := uc.Repo.MarkMessagesRead(ctx, in.ConversationID, in.ReaderID)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return n, nil
}
