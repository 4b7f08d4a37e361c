package querycache

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/rafaelmedeirospb83/guimaps-admin/pkg/redis"
)

// DefaultTTL keeps cached reads short-lived; the server stays the single
// source of truth and navigation always refetches soon after
const DefaultTTL = 30 * time.Second

// keyPrefix namespaces every cache entry
const keyPrefix = "cache"

// Invalidation names one prefix affected by a mutation. WithID scopes it to a
// single resource id.
type Invalidation struct {
	Prefix string
	WithID bool
}

// InvalidationMap declares, as data, which cache keys each mutation can
// affect. Mutations invalidate exactly these keys, never the whole cache.
type InvalidationMap map[string][]Invalidation

// Cache is a short-lived read cache keyed by (resource, id-or-filter tuple)
type Cache struct {
	redis         *redis.Client
	ttl           time.Duration
	invalidations InvalidationMap
}

// New creates a cache. A non-positive ttl falls back to DefaultTTL.
func New(redisClient *redis.Client, ttl time.Duration, invalidations InvalidationMap) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if invalidations == nil {
		invalidations = InvalidationMap{}
	}
	return &Cache{redis: redisClient, ttl: ttl, invalidations: invalidations}
}

// Key builds a cache key from a resource name and its id-or-filter tuple
func Key(resource string, parts ...string) string {
	elems := append([]string{keyPrefix, resource}, parts...)
	return strings.Join(elems, ":")
}

// Get loads a cached value into dest. Returns false on miss; a failed or
// corrupt read is treated as a miss so callers just refetch.
func (c *Cache) Get(ctx context.Context, key string, dest interface{}) bool {
	raw, err := c.redis.GetString(ctx, key)
	if err != nil || raw == "" {
		return false
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		return false
	}
	return true
}

// Set stores a value under the cache TTL. Best-effort: a write failure only
// costs a refetch.
func (c *Cache) Set(ctx context.Context, key string, value interface{}) {
	payload, err := json.Marshal(value)
	if err != nil {
		return
	}
	_ = c.redis.SetWithExpiration(ctx, key, payload, c.ttl)
}

// InvalidateFor drops exactly the keys the named mutation can affect. The id
// scopes detail entries; list entries are dropped by prefix.
func (c *Cache) InvalidateFor(ctx context.Context, mutation, id string) {
	for _, prefix := range c.PrefixesFor(mutation, id) {
		c.deleteByPrefix(ctx, prefix)
	}
}

// PrefixesFor resolves the mutation's invalidation entries to concrete key
// prefixes. Exposed for tests.
func (c *Cache) PrefixesFor(mutation, id string) []string {
	entries := c.invalidations[mutation]
	prefixes := make([]string, 0, len(entries))
	for _, inv := range entries {
		prefix := Key(inv.Prefix)
		if inv.WithID && id != "" {
			prefix = prefix + ":" + id
		}
		prefixes = append(prefixes, prefix)
	}
	return prefixes
}

func (c *Cache) deleteByPrefix(ctx context.Context, prefix string) {
	var cursor uint64
	for {
		keys, next, err := c.redis.Scan(ctx, cursor, prefix+"*", 100).Result()
		if err != nil {
			return
		}
		if len(keys) > 0 {
			_ = c.redis.Del(ctx, keys...).Err()
		}
		if next == 0 {
			return
		}
		cursor = next
	}
}

// Underlying exposes the raw client for health checks
func (c *Cache) Underlying() *goredis.Client {
	return c.redis.Client
}
