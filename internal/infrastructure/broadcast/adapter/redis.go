package adapter

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/RajeebLochan/QuickPost/internal/infrastructure/broadcast/port"
)

// RedisBackbone maps each group onto a Redis pub/sub channel of the same name.
// Redis guarantees per-channel publish order, and subscriptions are visible to
// every process sharing the Redis instance, so relay processes can scale out
// without any peer-forwarding logic of their own.
type RedisBackbone struct {
	client *redis.Client
}

// NewRedisBackbone wraps an existing client.
func NewRedisBackbone(client *redis.Client) *RedisBackbone {
	return &RedisBackbone{client: client}
}

// NewRedisBackboneFromEnv constructs a backbone using the REDIS_URL environment variable.
func NewRedisBackboneFromEnv() (*RedisBackbone, error) {
	url := os.Getenv("REDIS_URL")
	if url == "" {
		return nil, errors.New("redis backbone: REDIS_URL environment variable is not set")
	}
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("redis backbone: parse url: %w", err)
	}
	c := redis.NewClient(opt)
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := c.Ping(ctx).Err(); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("redis backbone: ping: %w", err)
	}
	return &RedisBackbone{client: c}, nil
}

var _ port.Backbone = (*RedisBackbone)(nil)

func (b *RedisBackbone) Join(ctx context.Context, group string, deliver port.DeliverFunc) (port.Subscription, error) {
	ps := b.client.Subscribe(ctx, group)
	// Force the SUBSCRIBE round-trip so a failed join surfaces here, not on
	// the first missed message.
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return nil, fmt.Errorf("redis backbone: subscribe %s: %w", group, err)
	}

	go func() {
		for msg := range ps.Channel() {
			deliver([]byte(msg.Payload))
		}
	}()

	return &redisSubscription{ps: ps}, nil
}

func (b *RedisBackbone) Publish(ctx context.Context, group string, payload []byte) error {
	return b.client.Publish(ctx, group, payload).Err()
}

func (b *RedisBackbone) Close() error {
	return b.client.Close()
}

type redisSubscription struct {
	ps   *redis.PubSub
	once sync.Once
}

func (s *redisSubscription) Close() error {
	// Closing the PubSub drains and closes its Channel, ending the delivery
	// goroutine. Errors here are cleanup noise, never fatal to the caller.
	s.once.Do(func() { _ = s.ps.Close() })
	return nil
}
