// Copyright 2026 The Harbor Authors
// SPDX-License-Identifier: Apache-2.0

// Package querycache provides a read-through cache for asynchronous
// query results, addressed by composite keys and invalidated by key
// prefix.
//
// Keys are ordered fragment sequences such as ["list-updates",
// "opp-1"]. Reads go through Fetch: a cached entry is served
// directly, a miss runs the supplied fetcher exactly once even under
// concurrent callers for the same key, and the result is stored with
// the cache's TTL. Fetch errors are never cached — the next read
// retries. Any actor may invalidate a key or a key prefix; readers
// always re-fetch on a miss, so invalidation is the only
// synchronization between mutators and readers.
package querycache

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jellydator/ttlcache/v3"
	"golang.org/x/sync/singleflight"
)

// keySeparator joins key fragments into the flat string the TTL store
// is addressed by. The unit separator cannot appear in operation
// names or CRM identifiers, so distinct fragment sequences never
// collide after joining.
const keySeparator = "\x1f"

// Key is an ordered sequence of cache-key fragments. The canonical
// shape for sidebar fetches is [operation, entityID]; outer views may
// register longer keys under the same prefix.
type Key []string

// String returns the flat storage form of the key.
func (key Key) String() string {
	return strings.Join(key, keySeparator)
}

// HasPrefix reports whether the key starts with the given fragment
// sequence.
func (key Key) HasPrefix(prefix Key) bool {
	if len(prefix) > len(key) {
		return false
	}
	for index, fragment := range prefix {
		if key[index] != fragment {
			return false
		}
	}
	return true
}

// Cache is a TTL'd read-through query cache. Safe for concurrent use.
type Cache struct {
	store *ttlcache.Cache[string, any]
	group singleflight.Group
}

// New creates a Cache whose entries expire after ttl. Call Close when
// the cache is no longer needed to stop the expiry loop.
func New(ttl time.Duration) *Cache {
	store := ttlcache.New[string, any](
		ttlcache.WithTTL[string, any](ttl),
		ttlcache.WithDisableTouchOnHit[string, any](),
	)
	go store.Start()
	return &Cache{store: store}
}

// Close stops the background expiry loop.
func (cache *Cache) Close() {
	cache.store.Stop()
}

// Invalidate discards the entry for exactly this key, if present. The
// next Fetch for the key re-runs its fetcher.
func (cache *Cache) Invalidate(key Key) {
	flat := key.String()
	cache.store.Delete(flat)
	cache.group.Forget(flat)
}

// InvalidatePrefix discards every entry whose key starts with the
// given fragment sequence. Used after mutations: invalidating
// ["list-updates", "opp-1"] discards the entity's cached update list
// and any longer keys registered under it.
func (cache *Cache) InvalidatePrefix(prefix Key) {
	flatPrefix := prefix.String()
	for _, flat := range cache.store.Keys() {
		if flat == flatPrefix || strings.HasPrefix(flat, flatPrefix+keySeparator) {
			cache.store.Delete(flat)
			cache.group.Forget(flat)
		}
	}
}

// Len returns the number of live entries. Test helper.
func (cache *Cache) Len() int {
	return cache.store.Len()
}

// Fetch returns the cached value for key, or runs fetcher and caches
// its result. Concurrent Fetch calls for the same key share a single
// fetcher invocation. A fetcher error is returned to every waiting
// caller and nothing is cached.
//
// The cached value's concrete type must match T across all callers of
// a given key; a mismatch indicates two components sharing a key by
// accident and is reported as an error rather than a panic.
func Fetch[T any](ctx context.Context, cache *Cache, key Key, fetcher func(context.Context) (T, error)) (T, error) {
	var zero T
	flat := key.String()

	if item := cache.store.Get(flat); item != nil {
		value, ok := item.Value().(T)
		if !ok {
			return zero, fmt.Errorf("querycache: entry %v holds %T, caller expects %T", key, item.Value(), zero)
		}
		return value, nil
	}

	result, err, _ := cache.group.Do(flat, func() (any, error) {
		// Re-check under the flight: another caller may have completed
		// and populated the store between our miss and this callback.
		if item := cache.store.Get(flat); item != nil {
			return item.Value(), nil
		}
		value, fetchErr := fetcher(ctx)
		if fetchErr != nil {
			return nil, fetchErr
		}
		cache.store.Set(flat, value, ttlcache.DefaultTTL)
		return value, nil
	})
	if err != nil {
		return zero, err
	}

	value, ok := result.(T)
	if !ok {
		return zero, fmt.Errorf("querycache: entry %v holds %T, caller expects %T", key, result, zero)
	}
	return value, nil
}
