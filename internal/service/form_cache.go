package service

import (
	"fmt"
	"time"

	cache "github.com/patrickmn/go-cache"
	"github.com/yourusername/matchcast/internal/features"
	"github.com/yourusername/matchcast/internal/metrics"
	"github.com/yourusername/matchcast/internal/models"
)

// formKey identifies one cached form computation. The artifact generation is
// part of the key so a retrain naturally invalidates every stale entry, and
// the day stamp bounds entries that straddle midnight.
type formKey struct {
	Generation uint64
	Home       string
	Away       string
	Window     int
	Day        string
}

// String returns the string representation used as the cache key
func (k formKey) String() string {
	return fmt.Sprintf("%d:%s:%s:%d:%s", k.Generation, k.Home, k.Away, k.Window, k.Day)
}

// formCache provides short-lived in-memory caching for form computations.
// Entries are cheap to recompute, so the TTL stays small and eviction is
// left entirely to the underlying cache.
type formCache struct {
	cache *cache.Cache
}

func newFormCache(ttl time.Duration) *formCache {
	return &formCache{cache: cache.New(ttl, ttl*2)}
}

// GetAssembled retrieves a cached fixture assembly
func (c *formCache) GetAssembled(key formKey) (features.Assembled, bool) {
	if v, found := c.cache.Get(key.String()); found {
		if asm, ok := v.(features.Assembled); ok {
			metrics.FormCacheHitsTotal.Inc()
			return asm, true
		}
	}
	metrics.FormCacheMissesTotal.Inc()
	return features.Assembled{}, false
}

// SetAssembled stores a fixture assembly
func (c *formCache) SetAssembled(key formKey, asm features.Assembled) {
	c.cache.SetDefault(key.String(), asm)
}

// GetForm retrieves a cached single-team snapshot
func (c *formCache) GetForm(key formKey) (models.TeamFormSnapshot, bool) {
	if v, found := c.cache.Get(key.String()); found {
		if snap, ok := v.(models.TeamFormSnapshot); ok {
			metrics.FormCacheHitsTotal.Inc()
			return snap, true
		}
	}
	metrics.FormCacheMissesTotal.Inc()
	return models.TeamFormSnapshot{}, false
}

// SetForm stores a single-team snapshot
func (c *formCache) SetForm(key formKey, snap models.TeamFormSnapshot) {
	c.cache.SetDefault(key.String(), snap)
}
