package adapter

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/nats-io/nats.go"

	"github.com/RajeebLochan/QuickPost/internal/infrastructure/broadcast/port"
)

// NatsBackbone maps each group onto a NATS subject. Functionally equivalent to
// the Redis adapter; pick whichever bus the deployment already runs.
type NatsBackbone struct {
	conn *nats.Conn
}

// NewNatsBackbone wraps an existing connection.
func NewNatsBackbone(conn *nats.Conn) *NatsBackbone {
	return &NatsBackbone{conn: conn}
}

// NewNatsBackboneFromEnv connects using the NATS_URL environment variable,
// falling back to the library default (localhost) when unset.
func NewNatsBackboneFromEnv() (*NatsBackbone, error) {
	url := os.Getenv("NATS_URL")
	if url == "" {
		url = nats.DefaultURL
	}
	conn, err := nats.Connect(url, nats.Name("quickpost-relay"))
	if err != nil {
		return nil, fmt.Errorf("nats backbone: connect: %w", err)
	}
	return &NatsBackbone{conn: conn}, nil
}

var _ port.Backbone = (*NatsBackbone)(nil)

// subjectFor namespaces group names under a common token so the relay's
// traffic is isolated from anything else on the same NATS deployment.
func subjectFor(group string) string {
	return "broadcast." + group
}

func (b *NatsBackbone) Join(ctx context.Context, group string, deliver port.DeliverFunc) (port.Subscription, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	sub, err := b.conn.Subscribe(subjectFor(group), func(m *nats.Msg) {
		deliver(m.Data)
	})
	if err != nil {
		return nil, fmt.Errorf("nats backbone: subscribe %s: %w", group, err)
	}
	return &natsSubscription{sub: sub}, nil
}

func (b *NatsBackbone) Publish(ctx context.Context, group string, payload []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return b.conn.Publish(subjectFor(group), payload)
}

func (b *NatsBackbone) Close() error {
	b.conn.Close()
	return nil
}

type natsSubscription struct {
	sub  *nats.Subscription
	once sync.Once
}

func (s *natsSubscription) Close() error {
	s.once.Do(func() { _ = s.sub.Unsubscribe() })
	return nil
}
