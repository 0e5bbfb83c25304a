package advisor

import (
	"strings"
	"sync"
	"time"

	"MarketAdvisor/internal/model"
	"MarketAdvisor/internal/store"
)

type cacheEntry struct {
	series   *model.PriceSeries
	loadedAt time.Time
}

// seriesCache keeps loaded series by symbol to save disk reads. Entries are
// advisory: a miss only costs a reload.
type seriesCache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[string]cacheEntry
}

func newSeriesCache(ttl time.Duration) *seriesCache {
	return &seriesCache{ttl: ttl, entries: make(map[string]cacheEntry)}
}

func cacheKey(symbol string) string {
	return strings.ToUpper(store.NormalizeSymbol(symbol))
}

func (c *seriesCache) get(symbol string, now time.Time) (*model.PriceSeries, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[cacheKey(symbol)]
	if !ok {
		return nil, false
	}
	if c.ttl > 0 && now.Sub(e.loadedAt) > c.ttl {
		return nil, false
	}
	return e.series, true
}

func (c *seriesCache) put(symbol string, series *model.PriceSeries, now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[cacheKey(symbol)] = cacheEntry{series: series, loadedAt: now}
}

func (c *seriesCache) invalidate(symbol string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, cacheKey(symbol))
}

func (c *seriesCache) purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]cacheEntry)
}

func (c *seriesCache) len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
