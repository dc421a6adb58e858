package cache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

type MemoryCache struct {
	cache *gocache.Cache
}

var _ VectorCache = &MemoryCache{}

func NewMemoryCache(ttl time.Duration) *MemoryCache {
	if ttl <= 0 {
		ttl = 1 * time.Hour
	}
	return &MemoryCache{
		cache: gocache.New(ttl, 10*time.Minute),
	}
}

func (c *MemoryCache) Get(_ context.Context, key string) ([]float32, bool) {
	if x, found := c.cache.Get(key); found {
		return x.([]float32), true
	}
	return nil, false
}

func (c *MemoryCache) Set(_ context.Context, key string, vector []float32) {
	c.cache.Set(key, vector, gocache.DefaultExpiration)
}
