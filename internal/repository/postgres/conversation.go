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

type ConversationStore struct {
	pool *pgxpool.Pool
}

func NewConversationStore(pool *pgxpool.Pool) *ConversationStore {
	return &ConversationStore{pool: pool}
}

const conversationColumns = `id, user_a_id, user_b_id, created_at`

func (s *ConversationStore) GetByID(ctx context.Context, conversationID uuid.UUID) (*models.Conversation, error) {
	query := `
		SELECT ` + conversationColumns + `
		FROM conversations
		WHERE id = $1`

	var conv models.Conversation
	err := s.pool.QueryRow(ctx, query, conversationID).Scan(
		&conv.ID,
		&conv.UserAID,
		&conv.UserBID,
		&conv.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get conversation: %w", err)
	}
	return &conv, nil
}

func (s *ConversationStore) GetByPair(ctx context.Context, userAID, userBID uuid.UUID) (*models.Conversation, error) {
	query := `
		SELECT ` + conversationColumns + `
		FROM conversations
		WHERE user_a_id = $1 AND user_b_id = $2`

	var conv models.Conversation
	err := s.pool.QueryRow(ctx, query, userAID, userBID).Scan(
		&conv.ID,
		&conv.UserAID,
		&conv.UserBID,
		&conv.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get conversation by pair: %w", err)
	}
	return &conv, nil
}

// CreateWithParticipants inserts the conversation and both membership
// rows inside one transaction. If a concurrent caller created the same
// pair first, the unique index fires, the transaction rolls back, and
// we return the winner's row instead.
func (s *ConversationStore) CreateWithParticipants(ctx context.Context, userAID, userBID uuid.UUID) (*models.Conversation, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin conversation tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var conv models.Conversation
	err = tx.QueryRow(ctx, `
		INSERT INTO conversations (user_a_id, user_b_id)
		VALUES ($1, $2)
		ON CONFLICT (user_a_id, user_b_id) DO NOTHING
		RETURNING `+conversationColumns,
		userAID, userBID,
	).Scan(&conv.ID, &conv.UserAID, &conv.UserBID, &conv.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Lost the race; the pair already exists.
			return s.GetByPair(ctx, userAID, userBID)
		}
		return nil, fmt.Errorf("insert conversation: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO conversation_members (user_id, conversation_id)
		VALUES ($1, $3), ($2, $3)`,
		userAID, userBID, conv.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("insert conversation members: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit conversation tx: %w", err)
	}
	return &conv, nil
}

type ConversationMembershipStore struct {
	pool *pgxpool.Pool
}

func NewConversationMembershipStore(pool *pgxpool.Pool) *ConversationMembershipStore {
	return &ConversationMembershipStore{pool: pool}
}

func (s *ConversationMembershipStore) ListForUser(ctx context.Context, userID uuid.UUID) ([]models.ConversationMembership, error) {
	query := `
		SELECT user_id, conversation_id
		FROM conversation_members
		WHERE user_id = $1`

	rows, err := s.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list conversation memberships: %w", err)
	}
	defer rows.Close()

	memberships := make([]models.ConversationMembership, 0)
	for rows.Next() {
		var m models.ConversationMembership
		if err := rows.Scan(&m.UserID, &m.ConversationID); err != nil {
			return nil, fmt.Errorf("scan conversation membership: %w", err)
		}
		memberships = append(memberships, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate conversation memberships: %w", err)
	}

	return memberships, nil
}

func (s *ConversationMembershipStore) IsParticipant(ctx context.Context, userID, conversationID uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM conversation_members
			WHERE user_id = $1 AND conversation_id = $2
		)`

	var exists bool
	if err := s.pool.QueryRow(ctx, query, userID, conversationID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check participation: %w", err)
	}
	return exists, nil
}
