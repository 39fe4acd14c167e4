package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/treffchat/treffchat/internal/models"
)

type MembershipStore struct {
	pool *pgxpool.Pool
}

func NewMembershipStore(pool *pgxpool.Pool) *MembershipStore {
	return &MembershipStore{pool: pool}
}

// Join inserts a membership row, or returns the existing one's id when
// the user already joined. The DO UPDATE arm is a no-op write that
// exists so RETURNING yields the existing id on conflict — a plain
// DO NOTHING returns no row at all.
func (s *MembershipStore) Join(ctx context.Context, userID, channelID uuid.UUID) (int64, error) {
	query := `
		INSERT INTO channel_members (user_id, channel_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, channel_id)
			DO UPDATE SET joined_at = channel_members.joined_at
		RETURNING id`

	var id int64
	if err := s.pool.QueryRow(ctx, query, userID, channelID).Scan(&id); err != nil {
		return 0, fmt.Errorf("join channel: %w", err)
	}
	return id, nil
}

// Leave is naturally idempotent: deleting zero rows is not an error.
func (s *MembershipStore) Leave(ctx context.Context, userID, channelID uuid.UUID) error {
	query := `
		DELETE FROM channel_members
		WHERE user_id = $1 AND channel_id = $2`

	if _, err := s.pool.Exec(ctx, query, userID, channelID); err != nil {
		return fmt.Errorf("leave channel: %w", err)
	}
	return nil
}

func (s *MembershipStore) ListForUser(ctx context.Context, userID uuid.UUID) ([]models.ChannelMembership, error) {
	query := `
		SELECT id, user_id, channel_id, joined_at
		FROM channel_members
		WHERE user_id = $1`

	rows, err := s.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list memberships: %w", err)
	}
	defer rows.Close()

	memberships := make([]models.ChannelMembership, 0)
	for rows.Next() {
		var m models.ChannelMembership
		if err := rows.Scan(&m.ID, &m.UserID, &m.ChannelID, &m.JoinedAt); err != nil {
			return nil, fmt.Errorf("scan membership: %w", err)
		}
		memberships = append(memberships, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate memberships: %w", err)
	}

	return memberships, nil
}

// IsMember uses SELECT EXISTS so Postgres stops at the first match.
// Hot path: runs before every channel message send.
func (s *MembershipStore) IsMember(ctx context.Context, userID, channelID uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM channel_members
			WHERE user_id = $1 AND channel_id = $2
		)`

	var exists bool
	if err := s.pool.QueryRow(ctx, query, userID, channelID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check membership: %w", err)
	}
	return exists, nil
}
