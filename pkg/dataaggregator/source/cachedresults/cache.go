package cachedresults

import (
	"context"
	"time"

	"github.com/eko/gocache/lib/v4/cache"
	"github.com/eko/gocache/lib/v4/store"
	redisstore "github.com/eko/gocache/store/redis/v4"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

type Cache struct {
	Cache *cache.Cache[string]
}

func New(client *redis.Client, expiration time.Duration) *Cache {
	redisStore := redisstore.NewRedis(client, store.WithExpiration(expiration))

	return &Cache{
		Cache: cache.New[string](redisStore),
	}
}

// Get returns the cached value for key. A nil cache always misses.
func (c *Cache) Get(ctx context.Context, key string) (string, bool) {
	if c == nil || c.Cache == nil {
		return "", false
	}

	value, err := c.Cache.Get(ctx, key)
	if err != nil {
		return "", false
	}

	return value, true
}

func (c *Cache) Set(ctx context.Context, key string, value string) {
	if c == nil || c.Cache == nil {
		return
	}

	if err := c.Cache.Set(ctx, key, value); err != nil {
		log.Error().Err(err).Str("key", key).Msg("Failed to store cached result")
	}
}
