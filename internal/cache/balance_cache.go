// Package cache holds the Redis-backed balance read cache and the
// balance-changed pub/sub channel.  Both are optional accelerators:
// the snapshot row in the database stays authoritative, a cache miss
// falls back to it, and every operation here is best-effort.  All
// methods are safe on a nil cache so the service degrades gracefully
// when Redis is unreachable at startup.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

// balanceChangedChannel is the pub/sub channel connected clients
// subscribe to for live balance updates.
const balanceChangedChannel = "balance.changed"

// BalanceCache caches per-user wallet balances under balance:{userID}.
type BalanceCache struct {
	client *redis.Client
	ttl    time.Duration
}

// New returns a BalanceCache over the given client.  A nil client is
// permitted and produces a cache that always misses.
func New(client *redis.Client, ttl time.Duration) *BalanceCache {
	return &BalanceCache{client: client, ttl: ttl}
}

func (c *BalanceCache) key(userID uint64) string {
	return fmt.Sprintf("balance:%d", userID)
}

func (c *BalanceCache) disabled() bool {
	return c == nil || c.client == nil
}

// Get returns the cached balance and whether the lookup hit.  Any
// Redis error is treated as a miss.
func (c *BalanceCache) Get(ctx context.Context, userID uint64) (decimal.Decimal, bool) {
	if c.disabled() {
		return decimal.Zero, false
	}
	raw, err := c.client.Get(ctx, c.key(userID)).Result()
	if err != nil {
		return decimal.Zero, false
	}
	bal, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, false
	}
	return bal, true
}

// Set stores the balance with the configured TTL, best effort.
func (c *BalanceCache) Set(ctx context.Context, userID uint64, balance decimal.Decimal) {
	if c.disabled() {
		return
	}
	_ = c.client.Set(ctx, c.key(userID), balance.String(), c.ttl).Err()
}

// Invalidate drops the cached balance after a committed mutation so
// the next read goes back to the snapshot row.
func (c *BalanceCache) Invalidate(ctx context.Context, userID uint64) {
	if c.disabled() {
		return
	}
	_ = c.client.Del(ctx, c.key(userID)).Err()
}

// balanceChanged is the pub/sub payload.
type balanceChanged struct {
	UserID    uint64 `json:"user_id"`
	Balance   string `json:"balance"`
	ChangedAt string `json:"changed_at"`
}

// PublishChanged announces a committed balance change to subscribers,
// best effort.  Connected clients use it to refresh without polling;
// nothing in the core depends on delivery.
func (c *BalanceCache) PublishChanged(ctx context.Context, userID uint64, balance decimal.Decimal) {
	if c.disabled() {
		return
	}
	payload, err := json.Marshal(balanceChanged{
		UserID:    userID,
		Balance:   balance.StringFixed(2),
		ChangedAt: time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return
	}
	_ = c.client.Publish(ctx, balanceChangedChannel, payload).Err()
}
