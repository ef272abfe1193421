package utils

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"

	"github.com/cppla/yatube/models"
)

// FeedCacheKey is the key the home feed is stored under.
const FeedCacheKey = "index_page"

var feedCacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "yatube_feed_cache_lookups_total",
	Help: "Home feed cache lookups by result.",
}, []string{"result"})

// FeedCache holds the full home feed for a fixed expiry. Writes to posts do not
// invalidate it, so the feed may lag by up to one expiry window.
type FeedCache interface {
	Get(ctx context.Context) ([]models.Post, bool)
	Set(ctx context.Context, posts []models.Post)
	Clear(ctx context.Context)
}

// NewFeedCache prefers Redis and falls back to process memory when rc is nil.
func NewFeedCache(rc *redis.Client, ttl time.Duration) FeedCache {
	if rc != nil {
		return NewRedisFeedCache(rc, ttl)
	}
	return NewMemoryFeedCache(ttl)
}

// RedisFeedCache stores the feed as JSON under FeedCacheKey.
type RedisFeedCache struct {
	rc  *redis.Client
	ttl time.Duration
}

func NewRedisFeedCache(rc *redis.Client, ttl time.Duration) *RedisFeedCache {
	return &RedisFeedCache{rc: rc, ttl: ttl}
}

func (c *RedisFeedCache) Get(ctx context.Context) ([]models.Post, bool) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	b, err := c.rc.Get(ctx, FeedCacheKey).Bytes()
	if err != nil {
		if err != redis.Nil {
			Sugar.Warnf("feed cache get failed: %v", err)
		}
		feedCacheLookups.WithLabelValues("miss").Inc()
		return nil, false
	}
	var posts []models.Post
	if err := json.Unmarshal(b, &posts); err != nil {
		Sugar.Warnf("feed cache decode failed: %v", err)
		feedCacheLookups.WithLabelValues("miss").Inc()
		return nil, false
	}
	feedCacheLookups.WithLabelValues("hit").Inc()
	return posts, true
}

func (c *RedisFeedCache) Set(ctx context.Context, posts []models.Post) {
	b, err := json.Marshal(posts)
	if err != nil {
		Sugar.Warnf("feed cache encode failed: %v", err)
		return
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := c.rc.Set(ctx, FeedCacheKey, b, c.ttl).Err(); err != nil {
		Sugar.Warnf("feed cache set failed: %v", err)
	}
}

func (c *RedisFeedCache) Clear(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := c.rc.Del(ctx, FeedCacheKey).Err(); err != nil {
		Sugar.Warnf("feed cache clear failed: %v", err)
	}
}

// MemoryFeedCache keeps the feed in process memory with the same expiry semantics.
type MemoryFeedCache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	posts   []models.Post
	expires time.Time
	now     func() time.Time
}

func NewMemoryFeedCache(ttl time.Duration) *MemoryFeedCache {
	return &MemoryFeedCache{ttl: ttl, now: time.Now}
}

func (c *MemoryFeedCache) Get(_ context.Context) ([]models.Post, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.posts == nil || !c.now().Before(c.expires) {
		feedCacheLookups.WithLabelValues("miss").Inc()
		return nil, false
	}
	feedCacheLookups.WithLabelValues("hit").Inc()
	out := make([]models.Post, len(c.posts))
	copy(out, c.posts)
	return out, true
}

func (c *MemoryFeedCache) Set(_ context.Context, posts []models.Post) {
	snapshot := make([]models.Post, len(posts))
	copy(snapshot, posts)
	c.mu.Lock()
	c.posts = snapshot
	c.expires = c.now().Add(c.ttl)
	c.mu.Unlock()
}

func (c *MemoryFeedCache) Clear(_ context.Context) {
	c.mu.Lock()
	c.posts = nil
	c.mu.Unlock()
}
