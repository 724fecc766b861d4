package usecase

import (
	"context"
	"fmt"

	messaging "github.com/RajeebLochan/QuickPost/internal/pkg/messaging/domain"
	repository "github.com/RajeebLochan/QuickPost/internal/pkg/messaging/persistence/repository/port"
)

// ListConversationsInput wraps the user whose inbox is requested.
type ListConversationsInput struct {
	UserID string
}

// ListConversationsUseCase returns the user's inbox: every conversation they
// belong to, most recently active first, with last-message preview and unread
// flag.
type ListConversationsUseCase struct {
	Repo repository.ChatRepository
}

func NewListConversationsUseCase(repo repository.ChatRepository) *ListConversationsUseCase {
	return &ListConversationsUseCase{Repo: repo}
}

func (uc *ListConversationsUseCase) Execute(ctx context.Context, in ListConversationsInput) ([]messaging.ConversationSummary, error) {
	if in.UserID == "" {
		return nil, fmt.Errorf("user_id is required")
	}

	summaries, err := uc.Repo.ListConversations(ctx, in.UserID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return summaries, nil
}
