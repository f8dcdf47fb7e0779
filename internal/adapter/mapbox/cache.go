package mapbox

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/couchcryptid/impact-effects-service/internal/domain"
	"github.com/couchcryptid/impact-effects-service/internal/observability"
)

// CachedClassifier wraps a SurfaceClassifier with an in-memory LRU cache.
// Coordinates are keyed to 4 decimal places (about 11 m).
type CachedClassifier struct {
	inner   domain.SurfaceClassifier
	cache   *lru.Cache[string, domain.SurfaceResult]
	metrics *observability.Metrics
}

// NewCachedClassifier creates a cache decorator around a classifier holding
// at most maxEntries results. Sizes below one are raised to one.
func NewCachedClassifier(inner domain.SurfaceClassifier, maxEntries int, metrics *observability.Metrics) *CachedClassifier {
	cache, err := lru.NewWithEvict(max(maxEntries, 1), func(string, domain.SurfaceResult) {
		metrics.ClassifierCache.WithLabelValues("evict").Inc()
	})
	if err != nil {
		// Only a non-positive size fails, and that is ruled out above.
		panic(err)
	}
	return &CachedClassifier{
		inner:   inner,
		cache:   cache,
		metrics: metrics,
	}
}

func (c *CachedClassifier) ClassifySurface(ctx context.Context, lat, lon float64) (domain.SurfaceResult, error) {
	key := cacheKey(lat, lon)
	if result, ok := c.cache.Get(key); ok {
		c.metrics.ClassifierCache.WithLabelValues("hit").Inc()
		return result, nil
	}
	c.metrics.ClassifierCache.WithLabelValues("miss").Inc()

	result, err := c.inner.ClassifySurface(ctx, lat, lon)
	if err != nil {
		return result, err
	}
	// Water verdicts are cached too: coastlines do not move.
	c.cache.Add(key, result)
	return result, nil
}

// Len reports the number of cached coordinates.
func (c *CachedClassifier) Len() int { return c.cache.Len() }

func cacheKey(lat, lon float64) string {
	return fmt.Sprintf("%.4f,%.4f", lat, lon)
}
