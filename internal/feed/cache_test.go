package feed

import (
	"context"
	"testing"
	"time"

	"github.com/newsloom/newsloom/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCache_RoundTrip(t *testing.T) {
	cache := NewMemoryCache(time.Minute)
	ctx := context.Background()

	_, ok := cache.Get(ctx, "trending")
	assert.False(t, ok)

	page := &models.FeedPage{Feed: []models.FeedItem{{Keyword: "Alpha"}}, HasMore: true}
	cache.Set(ctx, "trending", page)

	got, ok := cache.Get(ctx, "trending")
	require.True(t, ok)
	assert.Equal(t, page, got)

	_, ok = cache.Get(ctx, "other-key")
	assert.False(t, ok)
}

func TestMemoryCache_EntriesExpire(t *testing.T) {
	cache := NewMemoryCache(10 * time.Millisecond)
	ctx := context.Background()

	cache.Set(ctx, "trending", &models.FeedPage{})
	_, ok := cache.Get(ctx, "trending")
	require.True(t, ok)

	time.Sleep(20 * time.Millisecond)
	_, ok = cache.Get(ctx, "trending")
	assert.False(t, ok)
}

func TestMemoryCache_SetOverwrites(t *testing.T) {
	cache := NewMemoryCache(time.Minute)
	ctx := context.Background()

	cache.Set(ctx, "Tech", &models.FeedPage{HasMore: true})
	cache.Set(ctx, "Tech", &models.FeedPage{HasMore: false})

	got, ok := cache.Get(ctx, "Tech")
	require.True(t, ok)
	assert.False(t, got.HasMore)
}
