// Package cache keeps short-lived derived values in Redis.
package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultUnreadTTL bounds how stale a cached unread count can get.
const DefaultUnreadTTL = 5 * time.Minute

// UnreadCounter caches per-user unread message counts.
type UnreadCounter struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewUnreadCounter returns a counter. A nil client disables caching.
func NewUnreadCounter(rdb *redis.Client, ttl time.Duration) *UnreadCounter {
	if ttl <= 0 {
		ttl = DefaultUnreadTTL
	}
	return &UnreadCounter{rdb: rdb, ttl: ttl}
}

func unreadKey(userID int64) string {
	return fmt.Sprintf("unread:%d", userID)
}

// Get returns the cached count and whether it was present.
func (c *UnreadCounter) Get(ctx context.Context, userID int64) (int64, bool, error) {
	if c == nil || c.rdb == nil {
		return 0, false, nil
	}
	val, err := c.rdb.Get(ctx, unreadKey(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	n, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, false, nil
	}
	return n, true, nil
}

// Set stores the count for the TTL.
func (c *UnreadCounter) Set(ctx context.Context, userID, count int64) error {
	if c == nil || c.rdb == nil {
		return nil
	}
	return c.rdb.Set(ctx, unreadKey(userID), count, c.ttl).Err()
}

// Invalidate drops the cached count.
func (c *UnreadCounter) Invalidate(ctx context.Context, userID int64) error {
	if c == nil || c.rdb == nil {
		return nil
	}
	return c.rdb.Del(ctx, unreadKey(userID)).Err()
}
