package usecase

import (
	"context"
	"fmt"

	messaging "github.com/RajeebLochan/QuickPost/internal/pkg/messaging/domain"
	repository "github.com/RajeebLochan/QuickPost/internal/pkg/messaging/persistence/repository/port"
)

// StartConversationInput opens (or reopens) the thread between two users.
type StartConversationInput struct {
	InitiatorID string
	PeerID      string
}

// StartConversationUseCase lazily creates the conversation on first contact.
// Calling it again with the same pair returns the existing conversation, so
// there is never more than one thread per pair.
type StartConversationUseCase struct {
	Repo repository.ChatRepository
}

func NewStartConversationUseCase(repo repository.ChatRepository) *StartConversationUseCase {
	return &StartConversationUseCase{Repo: repo}
}

// Execute returns the conversation between the two users and whether this
// call created it.
func (uc *StartConversationUseCase) Execute(ctx context.Context, in StartConversationInput) (*messaging.Conversation, bool, error) {
	if in.InitiatorID == "" || in.PeerID == "" {
		return nil, false, fmt.Errorf("initiator and peer user ids are required")
	}
	if in.InitiatorID == in.PeerID {
		return nil, false, messaging.ErrSelfConversation
	}

	conv, created, err := uc.Repo.GetOrCreateConversation(ctx, in.InitiatorID, in.PeerID)
	if err != nil {
		return nil, false, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return &conv, created, nil
}
