// Package respcache memoizes fetched responses under string keys for a fixed TTL.
//
// A Cache sits in front of any fetch function. Identical keys inside the TTL
// window are served from memory; concurrent misses for the same key share a
// single in-flight fetch. Failed fetches are never stored.
//
// A shared fetch runs detached from the cancellation of the caller that
// started it, so one caller giving up never fails the others. Each caller
// still stops waiting when its own context is done.
package respcache

import (
	"container/list"
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Clock supplies the current time. Tests substitute a fake.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Entry is a memoized value and its validity window.
type Entry struct {
	Value     any
	StoredAt  time.Time
	ExpiresAt time.Time
}

// Fresh reports whether the entry is still valid at now.
func (e Entry) Fresh(now time.Time) bool {
	return now.Before(e.ExpiresAt)
}

type item struct {
	key   string
	entry Entry
}

// Stats is a diagnostic snapshot of the cache.
// Size and Keys include expired entries that have not been touched since
// they expired; the cache sweeps lazily.
type Stats struct {
	Size   int      `json:"size"`
	Keys   []string `json:"keys"`
	Hits   uint64   `json:"hits"`
	Misses uint64   `json:"misses"`
}

// Cache is a TTL-keyed response cache. The zero value is not usable; call New.
type Cache struct {
	mu      sync.Mutex
	entries map[string]*list.Element
	order   *list.List
	ttl     time.Duration
	timeout time.Duration
	clock   Clock
	logger  *slog.Logger
	flights singleflight.Group

	hits   uint64
	misses uint64
}

// Option configures a Cache.
type Option func(*Cache)

// WithClock sets the time source.
func WithClock(clock Clock) Option {
	return func(c *Cache) {
		c.clock = clock
	}
}

// WithLogger sets the logger used for hit/miss tracing.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Cache) {
		c.logger = logger
	}
}

// WithFetchTimeout bounds every shared fetch. Zero leaves fetches unbounded,
// relying on the fetch function's own deadlines.
func WithFetchTimeout(d time.Duration) Option {
	return func(c *Cache) {
		c.timeout = d
	}
}

// New creates a cache whose entries live for ttl.
// A zero ttl is allowed and disables memoization; a negative ttl is rejected.
func New(ttl time.Duration, opts ...Option) (*Cache, error) {
	if ttl < 0 {
		return nil, ErrInvalidTTL
	}
	c := &Cache{
		entries: make(map[string]*list.Element),
		order:   list.New(),
		ttl:     ttl,
		clock:   systemClock{},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c, nil
}

// TTL returns the default entry lifetime.
func (c *Cache) TTL() time.Duration {
	return c.ttl
}

// GetOrFetch returns the fresh value stored under key, or calls fetch, stores
// its result for the cache TTL and returns it. Errors from fetch are returned
// unchanged and leave no entry behind.
func GetOrFetch[T any](ctx context.Context, c *Cache, key string, fetch func(context.Context) (T, error)) (T, error) {
	return GetOrFetchTTL(ctx, c, key, c.ttl, fetch)
}

// GetOrFetchTTL is GetOrFetch with a per-call TTL for the stored entry.
func GetOrFetchTTL[T any](ctx context.Context, c *Cache, key string, ttl time.Duration, fetch func(context.Context) (T, error)) (T, error) {
	var zero T
	if v, ok := lookupAs[T](c, key); ok {
		return v, nil
	}
	if err := ctx.Err(); err != nil {
		return zero, err
	}

	ch := c.flights.DoChan(key, func() (any, error) {
		// A flight that finished between our lookup and DoChan may have filled the key.
		if v, ok := lookupAs[T](c, key); ok {
			return v, nil
		}
		c.countMiss(key)
		fctx, cancel := c.flightContext(ctx)
		defer cancel()
		val, err := fetch(fctx)
		if err != nil {
			return nil, err
		}
		c.store(key, val, ttl)
		return val, nil
	})

	var res singleflight.Result
	select {
	case res = <-ch:
	case <-ctx.Done():
		return zero, ctx.Err()
	}
	if res.Err != nil {
		return zero, res.Err
	}
	v := res.Val

	typed, ok := v.(T)
	if !ok {
		// Joined a flight for the same key started with a different result
		// type. Fetch on our own rather than hand back the wrong type.
		c.logger.Warn("cache key shared across result types", "key", key)
		return fetch(ctx)
	}
	return typed, nil
}

// flightContext keeps ctx's values but not its cancellation.
func (c *Cache) flightContext(ctx context.Context) (context.Context, context.CancelFunc) {
	detached := context.WithoutCancel(ctx)
	if c.timeout > 0 {
		return context.WithTimeout(detached, c.timeout)
	}
	return context.WithCancel(detached)
}

func lookupAs[T any](c *Cache, key string) (T, bool) {
	var zero T
	v, ok := c.Get(key)
	if !ok {
		return zero, false
	}
	typed, ok := v.(T)
	if !ok {
		return zero, false
	}
	c.mu.Lock()
	c.hits++
	c.mu.Unlock()
	c.logger.Debug("cache hit", "key", key)
	return typed, true
}

// Get returns the fresh value stored under key. An expired entry is removed.
func (c *Cache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	it := el.Value.(*item)
	if !it.entry.Fresh(c.clock.Now()) {
		c.removeElement(el)
		return nil, false
	}
	return it.entry.Value, true
}

// Set stores value under key with the cache TTL, replacing any previous entry.
func (c *Cache) Set(key string, value any) {
	c.store(key, value, c.ttl)
}

func (c *Cache) store(key string, value any, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock.Now()
	entry := Entry{Value: value, StoredAt: now, ExpiresAt: now.Add(ttl)}
	if el, ok := c.entries[key]; ok {
		el.Value.(*item).entry = entry
		return
	}
	c.entries[key] = c.order.PushBack(&item{key: key, entry: entry})
}

func (c *Cache) countMiss(key string) {
	c.mu.Lock()
	c.misses++
	c.mu.Unlock()
	c.logger.Debug("cache miss", "key", key)
}

// Delete removes key. Deleting an absent key is a no-op.
func (c *Cache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.entries[key]; ok {
		c.removeElement(el)
	}
}

func (c *Cache) removeElement(el *list.Element) {
	c.order.Remove(el)
	delete(c.entries, el.Value.(*item).key)
}

// Clear drops every entry. Hit and miss counters are kept.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]*list.Element)
	c.order.Init()
}

// Prune removes expired entries and returns how many were dropped.
func (c *Cache) Prune() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock.Now()
	removed := 0
	for el := c.order.Front(); el != nil; {
		next := el.Next()
		if !el.Value.(*item).entry.Fresh(now) {
			c.removeElement(el)
			removed++
		}
		el = next
	}
	return removed
}

// Len returns the number of stored entries, expired or not.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// Stats returns a snapshot of the stored keys in insertion order.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	keys := make([]string, 0, c.order.Len())
	for el := c.order.Front(); el != nil; el = el.Next() {
		keys = append(keys, el.Value.(*item).key)
	}
	return Stats{
		Size:   len(keys),
		Keys:   keys,
		Hits:   c.hits,
		Misses: c.misses,
	}
}
