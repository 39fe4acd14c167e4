// Package cache holds the Redis read-through cache for user profiles.
// Profiles are read once per distinct author on every message page, so
// they are by far the hottest lookup in the system.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/treffchat/treffchat/internal/models"
	"go.uber.org/zap"
)

// ProfileCache caches profile rows in Redis under profile:<user_id>.
// A nil *ProfileCache (or one with no client) degrades to a permanent
// miss, so the service layer works without Redis configured.
//
// Cache errors are logged and treated as misses: Redis being down must
// never fail a request that Postgres can answer.
type ProfileCache struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewProfileCache(rdb *redis.Client, ttl time.Duration, logger *zap.Logger) *ProfileCache {
	return &ProfileCache{rdb: rdb, ttl: ttl, logger: logger}
}

func profileKey(userID uuid.UUID) string {
	return "profile:" + userID.String()
}

func (c *ProfileCache) enabled() bool {
	return c != nil && c.rdb != nil
}

// Get returns the cached profile and whether it was present.
func (c *ProfileCache) Get(ctx context.Context, userID uuid.UUID) (*models.UserProfile, bool) {
	if !c.enabled() {
		return nil, false
	}

	raw, err := c.rdb.Get(ctx, profileKey(userID)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("profile cache get failed", zap.Error(err))
		}
		return nil, false
	}

	var p models.UserProfile
	if err := json.Unmarshal(raw, &p); err != nil {
		c.logger.Warn("profile cache entry corrupt", zap.Error(err))
		return nil, false
	}
	return &p, true
}

// GetMany returns the cached subset of the requested ids and the ids
// that missed, using a single MGET round trip.
func (c *ProfileCache) GetMany(ctx context.Context, userIDs []uuid.UUID) (map[uuid.UUID]models.UserProfile, []uuid.UUID) {
	if !c.enabled() || len(userIDs) == 0 {
		return map[uuid.UUID]models.UserProfile{}, userIDs
	}

	keys := make([]string, len(userIDs))
	for i, id := range userIDs {
		keys[i] = profileKey(id)
	}

	values, err := c.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		c.logger.Warn("profile cache mget failed", zap.Error(err))
		return map[uuid.UUID]models.UserProfile{}, userIDs
	}

	hits := make(map[uuid.UUID]models.UserProfile, len(userIDs))
	missing := make([]uuid.UUID, 0)
	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			missing = append(missing, userIDs[i])
			continue
		}
		var p models.UserProfile
		if err := json.Unmarshal([]byte(raw), &p); err != nil {
			missing = append(missing, userIDs[i])
			continue
		}
		hits[userIDs[i]] = p
	}
	return hits, missing
}

// Set stores a profile with the cache TTL.
func (c *ProfileCache) Set(ctx context.Context, profile models.UserProfile) {
	if !c.enabled() {
		return
	}

	raw, err := json.Marshal(profile)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, profileKey(profile.UserID), raw, c.ttl).Err(); err != nil {
		c.logger.Warn("profile cache set failed", zap.Error(err))
	}
}

// Invalidate drops a user's cache entry. Called after profile updates
// so stale display names don't outlive the TTL.
func (c *ProfileCache) Invalidate(ctx context.Context, userID uuid.UUID) {
	if !c.enabled() {
		return
	}
	if err := c.rdb.Del(ctx, profileKey(userID)).Err(); err != nil {
		c.logger.Warn("profile cache invalidate failed", zap.Error(err))
	}
}
