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

type ProfileStore struct {
	pool *pgxpool.Pool
}

func NewProfileStore(pool *pgxpool.Pool) *ProfileStore {
	return &ProfileStore{pool: pool}
}

const profileColumns = `user_id, display_name, bio, avatar_url, location, created_at, updated_at`

func scanProfile(row pgx.Row, p *models.UserProfile) error {
	return row.Scan(
		&p.UserID,
		&p.DisplayName,
		&p.Bio,
		&p.AvatarURL,
		&p.Location,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
}

func (s *ProfileStore) GetByUserID(ctx context.Context, userID uuid.UUID) (*models.UserProfile, error) {
	query := `
		SELECT ` + profileColumns + `
		FROM user_profiles
		WHERE user_id = $1`

	var p models.UserProfile
	if err := scanProfile(s.pool.QueryRow(ctx, query, userID), &p); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return &p, nil
}

// GetByUserIDs fetches all requested profiles in a single query.
// Users without a profile row are simply absent from the map.
func (s *ProfileStore) GetByUserIDs(ctx context.Context, userIDs []uuid.UUID) (map[uuid.UUID]models.UserProfile, error) {
	profiles := make(map[uuid.UUID]models.UserProfile, len(userIDs))
	if len(userIDs) == 0 {
		return profiles, nil
	}

	query := `
		SELECT ` + profileColumns + `
		FROM user_profiles
		WHERE user_id = ANY($1)`

	rows, err := s.pool.Query(ctx, query, userIDs)
	if err != nil {
		return nil, fmt.Errorf("batch get profiles: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var p models.UserProfile
		if err := scanProfile(rows, &p); err != nil {
			return nil, fmt.Errorf("scan profile: %w", err)
		}
		profiles[p.UserID] = p
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate profiles: %w", err)
	}

	return profiles, nil
}

func (s *ProfileStore) Create(ctx context.Context, profile *models.UserProfile) error {
	query := `
		INSERT INTO user_profiles (user_id, display_name, bio, avatar_url, location)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at`

	err := s.pool.QueryRow(ctx, query,
		profile.UserID,
		profile.DisplayName,
		profile.Bio,
		profile.AvatarURL,
		profile.Location,
	).Scan(&profile.CreatedAt, &profile.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert profile: %w", err)
	}
	return nil
}

// Update applies the non-nil patch fields. COALESCE keeps columns whose
// patch field is nil; a pointer to "" still overwrites.
func (s *ProfileStore) Update(ctx context.Context, userID uuid.UUID, patch models.ProfilePatch) (*models.UserProfile, error) {
	query := `
		UPDATE user_profiles
		SET display_name = COALESCE($2, display_name),
		    bio          = COALESCE($3, bio),
		    avatar_url   = COALESCE($4, avatar_url),
		    location     = COALESCE($5, location),
		    updated_at   = now()
		WHERE user_id = $1
		RETURNING ` + profileColumns

	var p models.UserProfile
	err := scanProfile(s.pool.QueryRow(ctx, query,
		userID, patch.DisplayName, patch.Bio, patch.AvatarURL, patch.Location), &p)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return &p, nil
}

// Search matches display names case-insensitively. The trigram index on
// display_name keeps the ILIKE scan cheap at directory sizes.
func (s *ProfileStore) Search(ctx context.Context, term string, limit int) ([]models.UserProfile, error) {
	query := `
		SELECT ` + profileColumns + `
		FROM user_profiles
		WHERE display_name ILIKE '%' || $1 || '%'
		ORDER BY display_name
		LIMIT $2`

	rows, err := s.pool.Query(ctx, query, term, limit)
	if err != nil {
		return nil, fmt.Errorf("search profiles: %w", err)
	}
	defer rows.Close()

	results := make([]models.UserProfile, 0)
	for rows.Next() {
		var p models.UserProfile
		if err := scanProfile(rows, &p); err != nil {
			return nil, fmt.Errorf("scan profile: %w", err)
		}
		results = append(results, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate profiles: %w", err)
	}

	return results, nil
}
