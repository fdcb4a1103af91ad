package predictor

import (
	"fmt"
	"sync"
	"time"

	cache "github.com/patrickmn/go-cache"

	"github.com/yourusername/match-predictor/internal/models"
)

// ResultCache provides in-memory TTL caching of prediction results keyed
// by fixture.
type ResultCache struct {
	cache     *cache.Cache
	ttl       time.Duration
	mu        sync.RWMutex
	hitCount  uint64
	missCount uint64
}

// NewResultCache creates a prediction result cache.
func NewResultCache(ttl time.Duration) *ResultCache {
	return &ResultCache{
		cache: cache.New(ttl, ttl*2),
		ttl:   ttl,
	}
}

func fixtureKey(f *models.Fixture) string {
	return fmt.Sprintf("%s|%s|%s|%s", f.HomeTeam, f.AwayTeam, f.Date, f.Time)
}

// Get retrieves a cached result for the fixture, if present.
func (c *ResultCache) Get(f *models.Fixture) *models.PredictionResult {
	c.mu.Lock()
	defer c.mu.Unlock()

	if cached, found := c.cache.Get(fixtureKey(f)); found {
		if result, ok := cached.(*models.PredictionResult); ok {
			c.hitCount++
			return result
		}
	}
	c.missCount++
	return nil
}

// Set stores a result for the fixture.
func (c *ResultCache) Set(f *models.Fixture, result *models.PredictionResult) {
	c.cache.Set(fixtureKey(f), result, c.ttl)
}

// Clear flushes the cache.
func (c *ResultCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache.Flush()
	c.hitCount = 0
	c.missCount = 0
}

// Stats returns hit/miss counts and the hit ratio.
func (c *ResultCache) Stats() (hits, misses uint64, ratio float64) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	hits = c.hitCount
	misses = c.missCount
	if total := hits + misses; total > 0 {
		ratio = float64(hits) / float64(total)
	}
	return
}
