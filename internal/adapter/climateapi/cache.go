package climateapi

import (
	"context"
	"fmt"
	"sync"

	"github.com/couchcryptid/climax-batch/internal/domain"
	"github.com/couchcryptid/climax-batch/internal/observability"
	"github.com/golang/groupcache/lru"
)

// CachedService wraps a ClimateService with an in-memory LRU cache. Input
// files often repeat a trial, and the climate computation is expensive.
type CachedService struct {
	inner   domain.ClimateService
	cache   *lruCache
	metrics *observability.Metrics
}

// NewCachedService creates a cache decorator around a climate service.
func NewCachedService(inner domain.ClimateService, maxEntries int, metrics *observability.Metrics) *CachedService {
	return &CachedService{
		inner:   inner,
		cache:   newLRUCache(maxEntries),
		metrics: metrics,
	}
}

func (c *CachedService) ClimateData(ctx context.Context, params domain.TrialParams) (domain.ClimateData, error) {
	key := cacheKey(params)
	if data, ok := c.cache.get(key); ok {
		c.metrics.ClimateCache.WithLabelValues("hit").Inc()
		return data, nil
	}
	c.metrics.ClimateCache.WithLabelValues("miss").Inc()

	data, err := c.inner.ClimateData(ctx, params)
	if err != nil {
		return data, err
	}
	c.cache.put(key, data)
	return data, nil
}

func cacheKey(p domain.TrialParams) string {
	return fmt.Sprintf("%d|%s|%g|%g", p.CultureID, p.FloweringDate, p.SoilVolume, p.FieldCapacity)
}

// lruCache guards a groupcache LRU, which is not safe for concurrent use.
type lruCache struct {
	mu  sync.Mutex
	lru *lru.Cache
}

func newLRUCache(maxEntries int) *lruCache {
	return &lruCache{lru: lru.New(maxEntries)}
}

func (c *lruCache) get(key string) (domain.ClimateData, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	v, ok := c.lru.Get(key)
	if !ok {
		return domain.ClimateData{}, false
	}
	return v.(domain.ClimateData), true
}

func (c *lruCache) put(key string, value domain.ClimateData) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lru.Add(key, value)
}

func (c *lruCache) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Len()
}
