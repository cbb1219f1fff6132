// services/cache.go
package services

import (
	"sync"
	"time"
)

// Well-known cache keys refreshed by the background worker.
const (
	CacheKeyRevenue       = "revenue"
	CacheKeyRevenueToday  = "revenue_today"
	CacheKeyPipelineToday = "pipeline_today"
	CacheKeyHallEVs       = "hall_evs"
	CacheKeyHallSDRsNew   = "hall_sdrs_new"
	CacheKeyHallSDRsExp   = "hall_sdrs_expansao"
	CacheKeyHallLDRs      = "hall_ldrs"
)

// Cache is the shared dashboard cache. One mutex guards the map; values are
// computed outside the lock and assigned inside, so a slow CRM call never
// blocks readers. Concurrent foreground refreshes and the background worker
// may race on a key — last write wins, which is fine for display data.
type Cache struct {
	mu         sync.Mutex
	data       map[string]interface{}
	lastUpdate time.Time
}

func NewCache() *Cache {
	return &Cache{data: make(map[string]interface{})}
}

// Get returns the cached value for key, if any.
func (c *Cache) Get(key string) (interface{}, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.data[key]
	if v == nil {
		return nil, false
	}
	return v, ok
}

// Set stores a freshly computed value.
func (c *Cache) Set(key string, value interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
	c.lastUpdate = time.Now()
}

// Invalidate drops one key.
func (c *Cache) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
}

// LastUpdate reports when any key was last written.
func (c *Cache) LastUpdate() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastUpdate
}
