package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/treffchat/treffchat/internal/models"
)

type MessageStore struct {
	pool *pgxpool.Pool
}

func NewMessageStore(pool *pgxpool.Pool) *MessageStore {
	return &MessageStore{pool: pool}
}

const messageColumns = `id, channel_id, conversation_id, author_id, content, created_at`

func scanMessage(row pgx.Row, msg *models.Message) error {
	return row.Scan(
		&msg.ID,
		&msg.ChannelID,
		&msg.ConversationID,
		&msg.AuthorID,
		&msg.Content,
		&msg.CreatedAt,
	)
}

// Create appends a message to the target scope. The tagged target
// guarantees exactly one scope column is set; the table's CHECK
// constraint backs that up at the storage level.
func (s *MessageStore) Create(ctx context.Context, target models.MessageTarget, authorID uuid.UUID, content string) (*models.Message, error) {
	var channelID, conversationID *uuid.UUID
	switch target.Kind() {
	case models.TargetChannel:
		id := target.ID()
		channelID = &id
	case models.TargetConversation:
		id := target.ID()
		conversationID = &id
	default:
		return nil, fmt.Errorf("invalid message target")
	}

	query := `
		INSERT INTO messages (channel_id, conversation_id, author_id, content)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + messageColumns

	var msg models.Message
	if err := scanMessage(s.pool.QueryRow(ctx, query, channelID, conversationID, authorID, content), &msg); err != nil {
		return nil, fmt.Errorf("insert message: %w", err)
	}
	return &msg, nil
}

// listScoped is the shared cursor pagination for both scope columns.
// before=0 means "from the latest"; otherwise id < before. Newest first.
func (s *MessageStore) listScoped(ctx context.Context, column string, scopeID uuid.UUID, before int64, limit int) ([]models.Message, error) {
	var query string
	var args []any

	if before > 0 {
		query = `
			SELECT ` + messageColumns + `
			FROM messages
			WHERE ` + column + ` = $1 AND id < $2
			ORDER BY id DESC
			LIMIT $3`
		args = []any{scopeID, before, limit}
	} else {
		query = `
			SELECT ` + messageColumns + `
			FROM messages
			WHERE ` + column + ` = $1
			ORDER BY id DESC
			LIMIT $2`
		args = []any{scopeID, limit}
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	messages := make([]models.Message, 0)
	for rows.Next() {
		var msg models.Message
		if err := scanMessage(rows, &msg); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		messages = append(messages, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate messages: %w", err)
	}

	return messages, nil
}

func (s *MessageStore) ListByChannel(ctx context.Context, channelID uuid.UUID, before int64, limit int) ([]models.Message, error) {
	return s.listScoped(ctx, "channel_id", channelID, before, limit)
}

func (s *MessageStore) ListByConversation(ctx context.Context, conversationID uuid.UUID, before int64, limit int) ([]models.Message, error) {
	return s.listScoped(ctx, "conversation_id", conversationID, before, limit)
}

func (s *MessageStore) LatestInConversation(ctx context.Context, conversationID uuid.UUID) (*models.Message, error) {
	query := `
		SELECT ` + messageColumns + `
		FROM messages
		WHERE conversation_id = $1
		ORDER BY id DESC
		LIMIT 1`

	var msg models.Message
	if err := scanMessage(s.pool.QueryRow(ctx, query, conversationID), &msg); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("latest message: %w", err)
	}
	return &msg, nil
}
