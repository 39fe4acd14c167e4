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

type ChannelStore struct {
	pool *pgxpool.Pool
}

func NewChannelStore(pool *pgxpool.Pool) *ChannelStore {
	return &ChannelStore{pool: pool}
}

const channelColumns = `id, name, slug, type, icon, icon_library, description, is_default, sort_order, created_at`

func scanChannel(row pgx.Row, ch *models.Channel) error {
	return row.Scan(
		&ch.ID,
		&ch.Name,
		&ch.Slug,
		&ch.Type,
		&ch.Icon,
		&ch.IconLibrary,
		&ch.Description,
		&ch.IsDefault,
		&ch.SortOrder,
		&ch.CreatedAt,
	)
}

func (s *ChannelStore) queryChannels(ctx context.Context, query string, args ...any) ([]models.Channel, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list channels: %w", err)
	}
	defer rows.Close()

	channels := make([]models.Channel, 0)
	for rows.Next() {
		var ch models.Channel
		if err := scanChannel(rows, &ch); err != nil {
			return nil, fmt.Errorf("scan channel: %w", err)
		}
		channels = append(channels, ch)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate channels: %w", err)
	}

	return channels, nil
}

func (s *ChannelStore) GetByID(ctx context.Context, channelID uuid.UUID) (*models.Channel, error) {
	query := `
		SELECT ` + channelColumns + `
		FROM channels
		WHERE id = $1`

	var ch models.Channel
	if err := scanChannel(s.pool.QueryRow(ctx, query, channelID), &ch); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get channel: %w", err)
	}
	return &ch, nil
}

func (s *ChannelStore) GetBySlug(ctx context.Context, slug string) (*models.Channel, error) {
	query := `
		SELECT ` + channelColumns + `
		FROM channels
		WHERE slug = $1`

	var ch models.Channel
	if err := scanChannel(s.pool.QueryRow(ctx, query, slug), &ch); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get channel by slug: %w", err)
	}
	return &ch, nil
}

func (s *ChannelStore) ListByType(ctx context.Context, channelType models.ChannelType) ([]models.Channel, error) {
	query := `
		SELECT ` + channelColumns + `
		FROM channels
		WHERE type = $1
		ORDER BY sort_order`

	return s.queryChannels(ctx, query, channelType)
}

func (s *ChannelStore) ListByIDs(ctx context.Context, channelIDs []uuid.UUID) ([]models.Channel, error) {
	if len(channelIDs) == 0 {
		return []models.Channel{}, nil
	}

	query := `
		SELECT ` + channelColumns + `
		FROM channels
		WHERE id = ANY($1)
		ORDER BY sort_order`

	return s.queryChannels(ctx, query, channelIDs)
}

func (s *ChannelStore) ListDefault(ctx context.Context) ([]models.Channel, error) {
	query := `
		SELECT ` + channelColumns + `
		FROM channels
		WHERE is_default
		ORDER BY sort_order`

	return s.queryChannels(ctx, query)
}

// ListAvailable returns channels of the given type the user has not
// joined. One anti-join query instead of list-then-filter in Go.
func (s *ChannelStore) ListAvailable(ctx context.Context, userID uuid.UUID, channelType models.ChannelType) ([]models.Channel, error) {
	query := `
		SELECT ` + channelColumns + `
		FROM channels c
		WHERE c.type = $1
		  AND NOT EXISTS (
			SELECT 1 FROM channel_members m
			WHERE m.channel_id = c.id AND m.user_id = $2
		  )
		ORDER BY c.sort_order`

	return s.queryChannels(ctx, query, channelType, userID)
}
