// Package cache provides an explicit read-through cache over Redis for
// catalog and currency reads. Keys are derived from an operation name and
// its normalized arguments, so writers can invalidate every cached variant
// of an operation without knowing which argument combinations were seen.
package cache

import (
	"context"
	"crypto/sha1"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache wraps a Redis client with a key namespace and TTL. A nil Cache or
// one built over a nil client is valid and simply never hits.
type Cache struct {
	rdb    *redis.Client
	prefix string
	ttl    time.Duration
}

// New builds a cache with the given namespace prefix and entry TTL. Pass a
// nil client to disable caching without branching at every call site.
func New(rdb *redis.Client, prefix string, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Cache{rdb: rdb, prefix: prefix, ttl: ttl}
}

// Key builds the storage key for an operation and its arguments. The
// operation stays in clear text so Invalidate can match on it; arguments
// are hashed to keep keys bounded.
func (c *Cache) Key(op string, args ...string) string {
	sum := sha1.Sum([]byte(strings.Join(args, "\x00")))
	return fmt.Sprintf("%s:%s:%x", c.prefix, op, sum[:])
}

// Get loads a cached value into dest. It returns false on a miss, a
// decode failure or when caching is disabled; a stale entry that fails to
// decode is treated as absent.
func (c *Cache) Get(ctx context.Context, key string, dest any) bool {
	if c == nil || c.rdb == nil {
		return false
	}
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false
	}
	return true
}

// Set stores a value under the key. Failures are dropped on the floor:
// the cache is an optimization, never a source of truth.
func (c *Cache) Set(ctx context.Context, key string, value any) {
	if c == nil || c.rdb == nil {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	_ = c.rdb.Set(ctx, key, raw, c.ttl).Err()
}

// Invalidate removes every cached entry for the named operations,
// whatever arguments they were keyed with.
func (c *Cache) Invalidate(ctx context.Context, ops ...string) {
	if c == nil || c.rdb == nil {
		return
	}
	for _, op := range ops {
		pattern := fmt.Sprintf("%s:%s:*", c.prefix, op)
		iter := c.rdb.Scan(ctx, 0, pattern, 100).Iterator()
		var keys []string
		for iter.Next(ctx) {
			keys = append(keys, iter.Val())
		}
		if iter.Err() != nil {
			continue
		}
		if len(keys) > 0 {
			_ = c.rdb.Del(ctx, keys...).Err()
		}
	}
}
