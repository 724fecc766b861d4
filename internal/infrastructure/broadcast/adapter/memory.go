package adapter

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/RajeebLochan/QuickPost/internal/infrastructure/broadcast/port"
)

// MemoryBackbone fans out within a single process. Group membership lives in
// one registry guarded by a RWMutex; Publish delivers under the read lock so
// payloads published to a group arrive in publish order at every subscriber.
// Deliver funcs must therefore be non-blocking.
type MemoryBackbone struct {
	mu     sync.RWMutex
	closed bool
	groups map[string]map[string]port.DeliverFunc // group -> subscription id -> deliver
}

// NewMemoryBackbone constructs an initialized in-process backbone.
func NewMemoryBackbone() *MemoryBackbone {
	return &MemoryBackbone{groups: make(map[string]map[string]port.DeliverFunc)}
}

var _ port.Backbone = (*MemoryBackbone)(nil)

func (b *MemoryBackbone) Join(ctx context.Context, group string, deliver port.DeliverFunc) (port.Subscription, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	id := uuid.NewString()

	b.mu.Lock()
	members := b.groups[group]
	if members == nil {
		members = make(map[string]port.DeliverFunc)
		b.groups[group] = members
	}
	members[id] = deliver
	b.mu.Unlock()

	return &memorySubscription{backbone: b, group: group, id: id}, nil
}

func (b *MemoryBackbone) Publish(ctx context.Context, group string, payload []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	b.mu.RLock()
	for _, deliver := range b.groups[group] {
		deliver(payload)
	}
	b.mu.RUnlock()
	return nil
}

func (b *MemoryBackbone) Close() error {
	b.mu.Lock()
	b.closed = true
	b.groups = make(map[string]map[string]port.DeliverFunc)
	b.mu.Unlock()
	return nil
}

func (b *MemoryBackbone) leave(group, id string) {
	b.mu.Lock()
	if members, ok := b.groups[group]; ok {
		delete(members, id)
		if len(members) == 0 {
			delete(b.groups, group)
		}
	}
	b.mu.Unlock()
}

type memorySubscription struct {
	backbone *MemoryBackbone
	group    string
	id       string
	once     sync.Once
}

func (s *memorySubscription) Close() error {
	s.once.Do(func() { s.backbone.leave(s.group, s.id) })
	return nil
}
