package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// schemaDDL holds the messaging tables. Statements are idempotent so the
// bootstrap can run on every startup.
//
// chat.message.id is a bigserial: ids are strictly increasing in creation
// order, which the relay relies on for per-conversation delivery ordering.
const schemaDDL = `
CREATE SCHEMA IF NOT EXISTS chat;

CREATE TABLE IF NOT EXISTS chat.conversation (
	id              uuid PRIMARY KEY DEFAULT gen_random_uuid(),
	created_at      timestamptz NOT NULL DEFAULT now(),
	last_message_at timestamptz NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS chat.participant (
	conversation_id uuid NOT NULL REFERENCES chat.conversation (id) ON DELETE CASCADE,
	user_id         uuid NOT NULL,
	PRIMARY KEY (conversation_id, user_id)
);

CREATE TABLE IF NOT EXISTS chat.message (
	id              bigserial PRIMARY KEY,
	conversation_id uuid NOT NULL REFERENCES chat.conversation (id) ON DELETE CASCADE,
	sender_id       uuid NOT NULL,
	sender_name     text NOT NULL,
	content         text NOT NULL,
	created_at      timestamptz NOT NULL DEFAULT now(),
	is_read         boolean NOT NULL DEFAULT FALSE
);

CREATE INDEX IF NOT EXISTS message_conversation_id_idx ON chat.message (conversation_id, id);
CREATE INDEX IF NOT EXISTS message_unread_idx ON chat.message (conversation_id) WHERE NOT is_read;
`

// EnsureSchema creates the chat schema and tables if they do not exist yet.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schemaDDL); err != nil {
		return fmt.Errorf("postgres: ensure schema: %w", err)
	}
	return nil
}
