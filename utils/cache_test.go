package utils

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cppla/yatube/models"
)

func samplePosts() []models.Post {
	return []models.Post{
		{ID: 2, Text: "second", Author: models.User{ID: 1, Username: "alice"}},
		{ID: 1, Text: "first", Author: models.User{ID: 1, Username: "alice"}},
	}
}

func TestMemoryFeedCacheExpires(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	c := NewMemoryFeedCache(20 * time.Second)
	c.now = func() time.Time { return now }

	_, ok := c.Get(ctx)
	assert.False(t, ok, "empty cache misses")

	c.Set(ctx, samplePosts())
	now = now.Add(19 * time.Second)
	got, ok := c.Get(ctx)
	require.True(t, ok)
	assert.Len(t, got, 2)

	now = now.Add(time.Second)
	_, ok = c.Get(ctx)
	assert.False(t, ok, "entry expires after the ttl")
}

func TestMemoryFeedCacheCopiesAndClears(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryFeedCache(time.Minute)
	posts := samplePosts()
	c.Set(ctx, posts)
	posts[0].Text = "mutated"

	got, ok := c.Get(ctx)
	require.True(t, ok)
	assert.Equal(t, "second", got[0].Text)
	got[1].Text = "mutated"
	again, _ := c.Get(ctx)
	assert.Equal(t, "first", again[1].Text)

	c.Clear(ctx)
	_, ok = c.Get(ctx)
	assert.False(t, ok)
}

func TestMemoryFeedCacheStoresEmptyFeed(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryFeedCache(time.Minute)
	c.Set(ctx, nil)
	got, ok := c.Get(ctx)
	assert.True(t, ok)
	assert.Empty(t, got)
}

func TestRedisFeedCache(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	rc := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rc.Close() })

	c := NewFeedCache(rc, 20*time.Second)
	require.IsType(t, &RedisFeedCache{}, c)

	_, ok := c.Get(ctx)
	assert.False(t, ok)

	c.Set(ctx, samplePosts())
	assert.True(t, mr.Exists(FeedCacheKey))
	got, ok := c.Get(ctx)
	require.True(t, ok)
	require.Len(t, got, 2)
	assert.Equal(t, "alice", got[0].Author.Username)

	mr.FastForward(21 * time.Second)
	_, ok = c.Get(ctx)
	assert.False(t, ok)

	c.Set(ctx, samplePosts())
	c.Clear(ctx)
	assert.False(t, mr.Exists(FeedCacheKey))
}

func TestRedisFeedCacheIgnoresCorruptEntry(t *testing.T) {
	mr := miniredis.RunT(t)
	rc := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rc.Close() })
	require.NoError(t, mr.Set(FeedCacheKey, "not json"))

	_, ok := NewRedisFeedCache(rc, time.Minute).Get(context.Background())
	assert.False(t, ok)
}

func TestNewFeedCacheFallsBackToMemory(t *testing.T) {
	assert.IsType(t, &MemoryFeedCache{}, NewFeedCache(nil, time.Minute))
}
