package port

import "context"

// DeliverFunc receives every payload published to the joined group. It is
// invoked from the backbone's delivery path and must not block; enqueue to a
// buffered per-session channel and return.
type DeliverFunc func(payload []byte)

// Subscription is one session's membership in a group.
type Subscription interface {
	// Close leaves the group. Best-effort cleanup: it succeeds even if the
	// group is already gone or the subscription was never fully established,
	// and it is safe to call more than once.
	Close() error
}

// Backbone is a named-group fan-out channel shared by all relay processes.
// Any payload published to a group reaches every live subscription of that
// group, in publish order per group. Implementations must be safe for
// concurrent Join/Leave/Publish by arbitrarily many sessions.
//
// The in-memory adapter serves single-process deployments; the redis and nats
// adapters put the groups on a shared bus so relay processes can scale out.
type Backbone interface {
	Join(ctx context.Context, group string, deliver DeliverFunc) (Subscription, error)
	Publish(ctx context.Context, group string, payload []byte) error
	Close() error
}

// ConversationGroup derives the broadcast group for a conversation. It is a
// pure function of the conversation id so every process instance resolves the
// same group name.
func ConversationGroup(conversationID string) string {
	return "chat_" + conversationID
}

// NotificationGroup derives the per-user out-of-band notification group.
// No in-scope flow publishes into it; it exists as a hook for collaborators.
func NotificationGroup(userID string) string {
	return "notifications_" + userID
}
