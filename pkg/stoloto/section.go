package stoloto

import (
	"context"
	"time"

	"github.com/404-t/lotobot-backend/internal/pkg/logger"
	"github.com/404-t/lotobot-backend/pkg/cache"
)

// Section is the capability set every cached upstream resource provides.
// Each concrete section owns its upstream target, cache key and TTL; at least
// one (draw details) parameterizes its key by request arguments.
type Section[T any] interface {
	FetchFresh(ctx context.Context) (T, error)
	CacheKey() string
	CacheTTL() time.Duration
}

// CacheStore is the slice of the cache layer Fetch needs. *cache.Store
// satisfies it.
type CacheStore interface {
	GetJSON(ctx context.Context, key string, dest interface{}) (bool, error)
	SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

var _ CacheStore = (*cache.Store)(nil)

// Fetch is the shared read-through path: cache hit wins unless forceRefresh,
// a cache read failure degrades to a miss, and a cache write failure is
// logged and swallowed because the freshly fetched value is still valid.
func Fetch[T any](ctx context.Context, store CacheStore, log logger.ILogger, section Section[T], forceRefresh bool) (T, error) {
	var zero T

	if !forceRefresh {
		var cached T
		found, err := store.GetJSON(ctx, section.CacheKey(), &cached)
		if err != nil {
			log.Warn("Stoloto", "Cache read failed, falling back to upstream", map[string]interface{}{
				"key":   section.CacheKey(),
				"error": err.Error(),
			})
		} else if found {
			log.Debug("Stoloto", "Cache hit", map[string]interface{}{"key": section.CacheKey()})
			return cached, nil
		}
	}

	fresh, err := section.FetchFresh(ctx)
	if err != nil {
		return zero, err
	}

	if err := store.SetJSON(ctx, section.CacheKey(), fresh, section.CacheTTL()); err != nil {
		log.Warn("Stoloto", "Cache write failed, returning fresh value anyway", map[string]interface{}{
			"key":   section.CacheKey(),
			"error": err.Error(),
		})
	}

	return fresh, nil
}
