package cache

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"kuppi/internal/shared/logger"
)

// EntitlementCache caches the per-user set of completed-purchase card IDs so
// the projector and the play gate do not hit the database on every read. The
// cache is strictly an accelerator: a miss falls through to the purchase
// repository, and every purchase completion invalidates the owner's entry.
type EntitlementCache interface {
	// GetCardIDs returns the cached entitlement set, or (nil, false, nil) on
	// a miss. An empty cached set is a valid hit.
	GetCardIDs(ctx context.Context, userID uint) ([]uint, bool, error)
	SetCardIDs(ctx context.Context, userID uint, cardIDs []uint) error
	Invalidate(ctx context.Context, userID uint) error
}

const (
	entitlementKeyPrefix = "entitlement:cards:"
	baseEntitlementTTL   = 30 * time.Minute
	entitlementTTLJitter = 10 * time.Minute // anti-stampede
	emptySetMarker       = "_none"
)

// RedisEntitlementCache implements EntitlementCache using a Redis set.
type RedisEntitlementCache struct {
	client *redis.Client
	logger logger.Interface
}

// NewRedisEntitlementCache creates a new Redis-based entitlement cache.
func NewRedisEntitlementCache(client *redis.Client, logger logger.Interface) *RedisEntitlementCache {
	return &RedisEntitlementCache{
		client: client,
		logger: logger,
	}
}

func (c *RedisEntitlementCache) key(userID uint) string {
	return fmt.Sprintf("%s%d", entitlementKeyPrefix, userID)
}

func (c *RedisEntitlementCache) ttl() time.Duration {
	return baseEntitlementTTL + rand.N(entitlementTTLJitter)
}

// GetCardIDs retrieves the cached entitlement set.
func (c *RedisEntitlementCache) GetCardIDs(ctx context.Context, userID uint) ([]uint, bool, error) {
	members, err := c.client.SMembers(ctx, c.key(userID)).Result()
	if err != nil {
		return nil, false, fmt.Errorf("failed to get entitlement set from cache: %w", err)
	}
	if len(members) == 0 {
		return nil, false, nil
	}

	cardIDs := make([]uint, 0, len(members))
	for _, m := range members {
		if m == emptySetMarker {
			continue
		}
		id, err := strconv.ParseUint(m, 10, 64)
		if err != nil {
			c.logger.Warnw("invalid entitlement cache member, invalidating",
				"user_id", userID, "member", m)
			_ = c.Invalidate(ctx, userID)
			return nil, false, nil
		}
		cardIDs = append(cardIDs, uint(id))
	}

	return cardIDs, true, nil
}

// SetCardIDs stores the entitlement set. An empty set is cached with a
// marker member so "owns nothing" also avoids repeated database lookups.
func (c *RedisEntitlementCache) SetCardIDs(ctx context.Context, userID uint, cardIDs []uint) error {
	key := c.key(userID)

	members := make([]interface{}, 0, len(cardIDs)+1)
	if len(cardIDs) == 0 {
		members = append(members, emptySetMarker)
	}
	for _, id := range cardIDs {
		members = append(members, strconv.FormatUint(uint64(id), 10))
	}

	pipe := c.client.Pipeline()
	pipe.Del(ctx, key)
	pipe.SAdd(ctx, key, members...)
	pipe.Expire(ctx, key, c.ttl())

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to set entitlement set in cache: %w", err)
	}
	return nil
}

// Invalidate drops the cached set, forcing the next read to the database.
func (c *RedisEntitlementCache) Invalidate(ctx context.Context, userID uint) error {
	if err := c.client.Del(ctx, c.key(userID)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate entitlement cache: %w", err)
	}
	return nil
}
