package geocoding

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/UnknownOlympus/trajmap/internal/models"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

// DefaultCacheSize bounds the number of remembered place names.
const DefaultCacheSize = 256

// CachedProvider remembers successful lookups for a while. Failures are never cached.
type CachedProvider struct {
	next  Provider
	cache *expirable.LRU[string, models.GeoPoint]
	log   *slog.Logger
}

// NewCachedProvider wraps next with an LRU of the given size whose entries expire after ttl.
func NewCachedProvider(next Provider, size int, ttl time.Duration, log *slog.Logger) *CachedProvider {
	if size <= 0 {
		size = DefaultCacheSize
	}
	return &CachedProvider{
		next:  next,
		cache: expirable.NewLRU[string, models.GeoPoint](size, nil, ttl),
		log:   log,
	}
}

// Geocode serves address from the cache, falling through to the wrapped provider on a miss.
func (cp *CachedProvider) Geocode(ctx context.Context, address string) (models.GeoPoint, error) {
	key := cacheKey(address)
	if point, ok := cp.cache.Get(key); ok {
		cp.log.DebugContext(ctx, "Geocoding cache hit", "address", address)
		return point, nil
	}

	point, err := cp.next.Geocode(ctx, address)
	if err != nil {
		return models.GeoPoint{}, err
	}
	cp.cache.Add(key, point)

	return point, nil
}

// Len is the number of cached place names.
func (cp *CachedProvider) Len() int {
	return cp.cache.Len()
}

func cacheKey(address string) string {
	return strings.ToLower(strings.Join(strings.Fields(address), " "))
}
