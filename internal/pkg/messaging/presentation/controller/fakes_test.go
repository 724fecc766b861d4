package controller

import (
	"context"
	"fmt"
	"sync"
	"time"

	messaging "github.com/RajeebLochan/QuickPost/internal/pkg/messaging/domain"
)

// fakeChatRepository backs controller tests without Postgres.
type fakeChatRepository struct {
	mu           sync.Mutex
	participants map[string]map[string]bool
	messages     []messaging.Message
	nextMsgID    int64
}

func newFakeRepo() *fakeChatRepository {
	return &fakeChatRepository{participants: make(map[string]map[string]bool)}
}

func (f *fakeChatRepository) addConversation(id string, members ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	set := make(map[string]bool, len(members))
	for _, m := range members {
		set[m] = true
	}
	f.participants[id] = set
}

func (f *fakeChatRepository) messageCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.messages)
}

func (f *fakeChatRepository) GetOrCreateConversation(_ context.Context, userA, userB string) (messaging.Conversation, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, members := range f.participants {
		if len(members) == 2 && members[userA] && members[userB] {
			return messaging.Conversation{ID: id}, false, nil
		}
	}
	id := fmt.Sprintf("conv-%d", len(f.participants)+1)
	f.participants[id] = map[string]bool{userA: true, userB: true}
	now := time.Now().UTC()
	return messaging.Conversation{ID: id, CreatedAt: now, LastMessageAt: now}, true, nil
}

func (f *fakeChatRepository) IsParticipant(_ context.Context, conversationID, userID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.participants[conversationID][userID], nil
}

func (f *fakeChatRepository) SaveMessage(_ context.Context, m messaging.Message) (messaging.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.participants[m.ConversationID]; !ok {
		return messaging.Message{}, messaging.ErrConversationNotFound
	}
	f.nextMsgID++
	m.ID = f.nextMsgID
	m.CreatedAt = time.Now().UTC()
	f.messages = append(f.messages, m)
	return m, nil
}

func (f *fakeChatRepository) GetMessagesByConversation(_ context.Context, conversationID string, limit int) ([]messaging.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []messaging.Message
	for _, m := range f.messages {
		if m.ConversationID == conversationID {
			out = append(out, m)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}

func (f *fakeChatRepository) MarkMessagesRead(_ context.Context, conversationID, readerID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for i := range f.messages {
		m := &f.messages[i]
		if m.ConversationID == conversationID && m.SenderID != readerID && !m.Read {
			m.Read = true
			n++
		}
	}
	return n, nil
}

func (f *fakeChatRepository) LastMessage(_ context.Context, conversationID string) (*messaging.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.messages) - 1; i >= 0; i-- {
		if f.messages[i].ConversationID == conversationID {
			m := f.messages[i]
			return &m, nil
		}
	}
	return nil, nil
}

func (f *fakeChatRepository) HasUnread(_ context.Context, conversationID, userID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, m := range f.messages {
		if m.ConversationID == conversationID && m.SenderID != userID && !m.Read {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeChatRepository) ListConversations(_ context.Context, userID string) ([]messaging.ConversationSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []messaging.ConversationSummary
	for id, members := range f.participants {
		if !members[userID] {
			continue
		}
		s := messaging.ConversationSummary{Conversation: messaging.Conversation{ID: id}}
		for member := range members {
			if member != userID {
				s.PeerID = member
			}
		}
		for i := len(f.messages) - 1; i >= 0; i-- {
			if f.messages[i].ConversationID == id {
				m := f.messages[i]
				s.LastMessage = &m
				s.Conversation.LastMessageAt = m.CreatedAt
				break
			}
		}
		for _, m := range f.messages {
			if m.ConversationID == id && m.SenderID != userID && !m.Read {
				s.HasUnread = true
				break
			}
		}
		out = append(out, s)
	}
	return out, nil
}
