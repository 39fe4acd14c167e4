package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/treffchat/treffchat/internal/cache"
	"github.com/treffchat/treffchat/internal/models"
	"github.com/treffchat/treffchat/internal/repository"
)

// unknownAuthor is the display-name fallback for authors without a
// profile row.
const unknownAuthor = "Unknown"

// ProfileDirectory resolves user ids to profiles for listing
// enrichment, with a Redis read-through cache in front of Postgres.
// The cache may be nil; everything then goes straight to the store.
type ProfileDirectory struct {
	profiles repository.ProfileRepository
	cache    *cache.ProfileCache
}

func NewProfileDirectory(profiles repository.ProfileRepository, profileCache *cache.ProfileCache) *ProfileDirectory {
	return &ProfileDirectory{profiles: profiles, cache: profileCache}
}

// Lookup returns a single profile, nil when the user has none.
func (d *ProfileDirectory) Lookup(ctx context.Context, userID uuid.UUID) (*models.UserProfile, error) {
	if p, ok := d.cache.Get(ctx, userID); ok {
		return p, nil
	}

	p, err := d.profiles.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("lookup profile: %w", err)
	}
	if p != nil {
		d.cache.Set(ctx, *p)
	}
	return p, nil
}

// LookupMany resolves a set of user ids in two batched steps: one MGET
// against the cache, one query for the misses. Users without a profile
// are absent from the result. Input order does not matter; callers key
// into the map while reassembling their page.
func (d *ProfileDirectory) LookupMany(ctx context.Context, userIDs []uuid.UUID) (map[uuid.UUID]models.UserProfile, error) {
	distinct := make([]uuid.UUID, 0, len(userIDs))
	seen := make(map[uuid.UUID]struct{}, len(userIDs))
	for _, id := range userIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		distinct = append(distinct, id)
	}

	found, missing := d.cache.GetMany(ctx, distinct)
	if len(missing) == 0 {
		return found, nil
	}

	fetched, err := d.profiles.GetByUserIDs(ctx, missing)
	if err != nil {
		return nil, fmt.Errorf("batch lookup profiles: %w", err)
	}
	for id, p := range fetched {
		found[id] = p
		d.cache.Set(ctx, p)
	}
	return found, nil
}

// Invalidate drops a user's cached profile after an update.
func (d *ProfileDirectory) Invalidate(ctx context.Context, userID uuid.UUID) {
	d.cache.Invalidate(ctx, userID)
}
