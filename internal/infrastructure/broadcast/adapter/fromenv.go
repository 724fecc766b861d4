package adapter

import (
	"fmt"
	"os"
	"strings"

	"github.com/RajeebLochan/QuickPost/internal/infrastructure/broadcast/port"
)

// NewFromEnv selects the backbone via BROADCAST_BACKEND: "memory" (default),
// "redis", or "nats". Single-process deployments keep the in-memory registry;
// anything running more than one relay process needs a shared bus.
func NewFromEnv() (port.Backbone, error) {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("BROADCAST_BACKEND"))) {
	case "", "memory":
		return NewMemoryBackbone(), nil
	case "redis":
		return NewRedisBackboneFromEnv()
	case "nats":
		return NewNatsBackboneFromEnv()
	default:
		return nil, fmt.Errorf("broadcast: unknown BROADCAST_BACKEND %q", os.Getenv("BROADCAST_BACKEND"))
	}
}
