package adapter

import (
	"context"
	"errors"
	"time"

	messaging "github.com/RajeebLochan/QuickPost/internal/pkg/messaging/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// pgForeignKeyViolation is the SQLSTATE raised when a message references a
// conversation that does not exist.
const pgForeignKeyViolation = "23503"

type PgChatRepository struct {
	pool *pgxpool.Pool
}

func NewPgChatRepository(pool *pgxpool.Pool) *PgChatRepository {
	return &PgChatRepository{pool: pool}
}

func (r *PgChatRepository) GetOrCreateConversation(ctx context.Context, userA, userB string) (messaging.Conversation, bool, error) {
	if r == nil || r.pool == nil {
		return messaging.Conversation{}, false, errors.New("PgChatRepository: nil pool")
	}

	var conv messaging.Conversation
	err := r.pool.QueryRow(ctx, `
		SELECT c.id::text, c.created_at, c.last_message_at
		FROM chat.conversation c
		JOIN chat.participant pa ON pa.conversation_id = c.id AND pa.user_id = $1::uuid
		JOIN chat.participant pb ON pb.conversation_id = c.id AND pb.user_id = $2::uuid
		WHERE (SELECT count(*) FROM chat.participant p WHERE p.conversation_id = c.id) = 2
		LIMIT 1
	`, userA, userB).Scan(&conv.ID, &conv.CreatedAt, &conv.LastMessageAt)
	if err == nil {
		return conv, false, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return messaging.Conversation{}, false, err
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return messaging.Conversation{}, false, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	err = tx.QueryRow(ctx, `
		INSERT INTO chat.conversation DEFAULT VALUES
		RETURNING id::text, created_at, last_message_at
	`).Scan(&conv.ID, &conv.CreatedAt, &conv.LastMessageAt)
	if err != nil {
		return messaging.Conversation{}, false, err
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO chat.participant (conversation_id, user_id)
		VALUES ($1::uuid, $2::uuid), ($1::uuid, $3::uuid)
	`, conv.ID, userA, userB)
	if err != nil {
		return messaging.Conversation{}, false, err
	}

	if err := tx.Commit(ctx); err != nil {
		return messaging.Conversation{}, false, err
	}
	return conv, true, nil
}

func (r *PgChatRepository) IsParticipant(ctx context.Context, conversationID, userID string) (bool, error) {
	if r == nil || r.pool == nil {
		return false, errors.New("PgChatRepository: nil pool")
	}
	var ok bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM chat.participant
			WHERE conversation_id = $1::uuid AND user_id = $2::uuid
		)
	`, conversationID, userID).Scan(&ok)
	return ok, err
}

func (r *PgChatRepository) SaveMessage(ctx context.Context, m messaging.Message) (messaging.Message, error) {
	if r == nil || r.pool == nil {
		return messaging.Message{}, errors.New("PgChatRepository: nil pool")
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return messaging.Message{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	err = tx.QueryRow(ctx, `
		INSERT INTO chat.message (conversation_id, sender_id, sender_name, content)
		VALUES ($1::uuid, $2::uuid, $3, $4)
		RETURNING id, created_at
	`, m.ConversationID, m.SenderID, m.SenderName, m.Content).Scan(&m.ID, &m.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation {
			return messaging.Message{}, messaging.ErrConversationNotFound
		}
		return messaging.Message{}, err
	}

	// GREATEST keeps last_message_at monotonic even if clocks skew between writers.
	_, err = tx.Exec(ctx, `
		UPDATE chat.conversation
		SET last_message_at = GREATEST(last_message_at, $2)
		WHERE id = $1::uuid
	`, m.ConversationID, m.CreatedAt)
	if err != nil {
		return messaging.Message{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return messaging.Message{}, err
	}
	return m, nil
}

func (r *PgChatRepository) GetMessagesByConversation(ctx context.Context, conversationID string, limit int) ([]messaging.Message, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgChatRepository: nil pool")
	}
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id, conversation_id, sender_id, sender_name, content, created_at, is_read
		FROM (
			SELECT id, conversation_id::text, sender_id::text, sender_name, content, created_at, is_read
			FROM chat.message
			WHERE conversation_id = $1::uuid
			ORDER BY id DESC
			LIMIT $2
		) latest
		ORDER BY id ASC
	`, conversationID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var msgs []messaging.Message
	for rows.Next() {
		var msg messaging.Message
		if err := rows.Scan(&msg.ID, &msg.ConversationID, &msg.SenderID, &msg.SenderName, &msg.Content, &msg.CreatedAt, &msg.Read); err != nil {
			return nil, err
		}
		msgs = append(msgs, msg)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return msgs, nil
}

func (r *PgChatRepository) MarkMessagesRead(ctx context.Context, conversationID, readerID string) (int64, error) {
	if r == nil || r.pool == nil {
		return 0, errors.New("PgChatRepository: nil pool")
	}
	ct, err := r.pool.Exec(ctx, `
		UPDATE chat.message
		SET is_read = TRUE
		WHERE conversation_id = $1::uuid AND sender_id <> $2::uuid AND NOT is_read
	`, conversationID, readerID)
	if err != nil {
		return 0, err
	}
	return ct.RowsAffected(), nil
}

func (r *PgChatRepository) LastMessage(ctx context.Context, conversationID string) (*messaging.Message, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgChatRepository: nil pool")
	}
	var msg messaging.Message
	err := r.pool.QueryRow(ctx, `
		SELECT id, conversation_id::text, sender_id::text, sender_name, content, created_at, is_read
		FROM chat.message
		WHERE conversation_id = $1::uuid
		ORDER BY id DESC
		LIMIT 1
	`, conversationID).Scan(&msg.ID, &msg.ConversationID, &msg.SenderID, &msg.SenderName, &msg.Content, &msg.CreatedAt, &msg.Read)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

func (r *PgChatRepository) HasUnread(ctx context.Context, conversationID, userID string) (bool, error) {
	if r == nil || r.pool == nil {
		return false, errors.New("PgChatRepository: nil pool")
	}
	var unread bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM chat.message
			WHERE conversation_id = $1::uuid AND sender_id <> $2::uuid AND NOT is_read
		)
	`, conversationID, userID).Scan(&unread)
	return unread, err
}

func (r *PgChatRepository) ListConversations(ctx context.Context, userID string) ([]messaging.ConversationSummary, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgChatRepository: nil pool")
	}
	rows, err := r.pool.Query(ctx, `
		SELECT c.id::text, c.created_at, c.last_message_at, peer.user_id::text,
		       lm.id, lm.sender_id::text, lm.sender_name, lm.content, lm.created_at, lm.is_read,
		       EXISTS (
		           SELECT 1 FROM chat.message m
		           WHERE m.conversation_id = c.id AND m.sender_id <> $1::uuid AND NOT m.is_read
		       ) AS has_unread
		FROM chat.conversation c
		JOIN chat.participant me ON me.conversation_id = c.id AND me.user_id = $1::uuid
		JOIN chat.participant peer ON peer.conversation_id = c.id AND peer.user_id <> $1::uuid
		LEFT JOIN LATERAL (
			SELECT id, sender_id, sender_name, content, created_at, is_read
			FROM chat.message m
			WHERE m.conversation_id = c.id
			ORDER BY m.id DESC
			LIMIT 1
		) lm ON TRUE
		ORDER BY c.last_message_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var summaries []messaging.ConversationSummary
	for rows.Next() {
		var (
			s         messaging.ConversationSummary
			lmID      *int64
			lmSender  *string
			lmName    *string
			lmContent *string
			lmCreated *time.Time
			lmRead    *bool
		)
		if err := rows.Scan(&s.Conversation.ID, &s.Conversation.CreatedAt, &s.Conversation.LastMessageAt, &s.PeerID,
			&lmID, &lmSender, &lmName, &lmContent, &lmCreated, &lmRead, &s.HasUnread); err != nil {
			return nil, err
		}
		if lmID != nil {
			s.LastMessage = &messaging.Message{
				ID:             *lmID,
				ConversationID: s.Conversation.ID,
				SenderID:       *lmSender,
				SenderName:     *lmName,
				Content:        *lmContent,
				CreatedAt:      *lmCreated,
				Read:           *lmRead,
			}
		}
		summaries = append(summaries, s)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return summaries, nil
}
