package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCacheSetGetInvalidate(t *testing.T) {
	cache := NewCache()

	_, ok := cache.Get(CacheKeyRevenue)
	assert.False(t, ok)
	assert.True(t, cache.LastUpdate().IsZero())

	cache.Set(CacheKeyRevenue, 42)
	v, ok := cache.Get(CacheKeyRevenue)
	assert.True(t, ok)
	assert.Equal(t, 42, v)
	assert.False(t, cache.LastUpdate().IsZero())

	cache.Invalidate(CacheKeyRevenue)
	_, ok = cache.Get(CacheKeyRevenue)
	assert.False(t, ok)
}

func TestCacheKeysAreIndependent(t *testing.T) {
	cache := NewCache()
	cache.Set(CacheKeyHallEVs, "evs")
	cache.Set(CacheKeyHallLDRs, "ldrs")

	cache.Invalidate(CacheKeyHallEVs)
	v, ok := cache.Get(CacheKeyHallLDRs)
	assert.True(t, ok)
	assert.Equal(t, "ldrs", v)
}
