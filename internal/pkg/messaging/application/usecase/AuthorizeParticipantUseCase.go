package usecase

import (
	"context"
	"fmt"

	messaging "github.com/RajeebLochan/QuickPost/internal/pkg/messaging/domain"
	repository "github.com/RajeebLochan/QuickPost/internal/pkg/messaging/persistence/repository/port"
)

// AuthorizeParticipantInput identifies a user knocking on a conversation.
type AuthorizeParticipantInput struct {
	ConversationID string
	UserID         string
}

// AuthorizeParticipantUseCase is the membership guard: it must pass before a
// session joins a conversation's broadcast group and before any message flows.
// A conversation that does not exist is indistinguishable from one the user is
// not part of — both come back as ErrNotParticipant, so nothing about the
// conversation's existence leaks to outsiders.
type AuthorizeParticipantUseCase struct {
	Repo repository.ChatRepository
}

func NewAuthorizeParticipantUseCase(repo repository.ChatRepository) *AuthorizeParticipantUseCase {
	return &AuthorizeParticipantUseCase{Repo: repo}
}

func (uc *AuthorizeParticipantUseCase) Execute(ctx context.Context, in AuthorizeParticipantInput) error {
	if in.ConversationID == "" || in.UserID == "" {
		return fmt.Errorf("conversation_id and user_id are required")
	}

	ok, err := uc.Repo.IsParticipant(ctx, in.ConversationID, in.UserID)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if !ok {
		return messaging.ErrNotParticipant
	}
	return nil
}
