package feed

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/newsloom/newsloom/internal/models"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Cache holds the most recently computed first page per key ("trending" or a
// query/category). Values are replaced wholesale; two in-flight requests for
// the same key simply race to overwrite, which is safe.
type Cache interface {
	Get(ctx context.Context, key string) (*models.FeedPage, bool)
	Set(ctx context.Context, key string, page *models.FeedPage)
}

// MemoryCache is the in-process Cache used when no Redis address is
// configured.
type MemoryCache struct {
	ttl     time.Duration
	mu      sync.RWMutex
	entries map[string]memoryEntry
}

type memoryEntry struct {
	page      *models.FeedPage
	expiresAt time.Time
}

// NewMemoryCache creates a MemoryCache with the given TTL.
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{
		ttl:     ttl,
		entries: make(map[string]memoryEntry),
	}
}

func (c *MemoryCache) Get(_ context.Context, key string) (*models.FeedPage, bool) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok || time.Now().After(entry.expiresAt) {
		return nil, false
	}
	return entry.page, true
}

func (c *MemoryCache) Set(_ context.Context, key string, page *models.FeedPage) {
	c.mu.Lock()
	c.entries[key] = memoryEntry{page: page, expiresAt: time.Now().Add(c.ttl)}
	c.mu.Unlock()
}

// RedisCache stores pages as JSON with a Redis-side TTL, for deployments with
// more than one instance.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache creates a RedisCache against the given address.
func NewRedisCache(addr string, ttl time.Duration) *RedisCache {
	return &RedisCache{
		client: redis.NewClient(&redis.Options{Addr: addr}),
		ttl:    ttl,
	}
}

func (c *RedisCache) Get(ctx context.Context, key string) (*models.FeedPage, bool) {
	data, err := c.client.Get(ctx, cacheKeyPrefix+key).Bytes()
	if err != nil {
		if err != redis.Nil {
			logrus.Warnf("Feed cache read failed for %q: %v", key, err)
		}
		return nil, false
	}

	var page models.FeedPage
	if err := json.Unmarshal(data, &page); err != nil {
		logrus.Warnf("Feed cache entry for %q is corrupt, dropping: %v", key, err)
		c.client.Del(ctx, cacheKeyPrefix+key)
		return nil, false
	}

	return &page, true
}

func (c *RedisCache) Set(ctx context.Context, key string, page *models.FeedPage) {
	data, err := json.Marshal(page)
	if err != nil {
		logrus.Warnf("Feed page for %q did not marshal: %v", key, err)
		return
	}

	if err := c.client.Set(ctx, cacheKeyPrefix+key, data, c.ttl).Err(); err != nil {
		logrus.Warnf("Feed cache write failed for %q: %v", key, err)
	}
}

const cacheKeyPrefix = "feed:"
