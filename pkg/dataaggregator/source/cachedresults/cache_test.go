package cachedresults

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func TestCache(t *testing.T) {
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	defer client.Close()

	cache := New(client, time.Minute)
	ctx := context.Background()

	_, found := cache.Get(ctx, "missing")
	assert.False(t, found)

	cache.Set(ctx, "key", "value")

	value, found := cache.Get(ctx, "key")
	assert.True(t, found)
	assert.Equal(t, "value", value)

	server.FastForward(2 * time.Minute)

	_, found = cache.Get(ctx, "key")
	assert.False(t, found)
}

func TestNilCache(t *testing.T) {
	var cache *Cache

	cache.Set(context.Background(), "key", "value")
	_, found := cache.Get(context.Background(), "key")
	assert.False(t, found)
}
