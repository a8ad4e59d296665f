// Package cachemanager provides a typed cache used to memoize expensive
// render work (glamour markdown output). Server state is never cached here:
// the activity collection is re-fetched wholesale on every refresh.
package cachemanager

import (
	"context"
	"time"
)

// CacheManager is a typed key/value cache with per-entry TTLs.
type CacheManager[K comparable, V any] interface {
	Get(ctx context.Context, key K) (V, bool)
	Set(ctx context.Context, key K, value V, ttl time.Duration)
	Delete(ctx context.Context, keys ...K) error
	Flush(ctx context.Context) error
}
