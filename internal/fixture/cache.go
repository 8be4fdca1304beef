package fixture

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/roach88/testkit/internal/cachekey"
)

// Cache memoizes fixture values per cache key.
//
// INVARIANTS:
//   - A producer runs at most once per key between invalidations.
//   - Entries are replaced wholesale, never mutated.
//   - Failed computations leave no entry behind.
//
// Thread-safety: all methods are safe for concurrent use.
type Cache struct {
	registry *Registry
	logger   *slog.Logger
	group    singleflight.Group

	mu      sync.Mutex
	entries map[cachekey.Key]any
	// inflight counts running computations per key, so invalidation can
	// detach them from later callers.
	inflight map[cachekey.Key]int
	// gens counts invalidations per fixture name and epoch counts Clear
	// calls. A computation that started before either changed returns its
	// value to its callers but does not store it.
	gens  map[string]uint64
	epoch uint64

	hits     int64
	misses   int64
	computes int64
}

// CacheOption configures a Cache.
type CacheOption func(*Cache)

// WithLogger sets the logger used for compute/hit diagnostics.
// Default: a logger that discards everything.
func WithLogger(logger *slog.Logger) CacheOption {
	return func(c *Cache) {
		c.logger = logger
	}
}

// NewCache creates an empty cache resolving producers from reg.
func NewCache(reg *Registry, opts ...CacheOption) *Cache {
	c := &Cache{
		registry: reg,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		entries:  make(map[cachekey.Key]any),
		inflight: make(map[cachekey.Key]int),
		gens:     make(map[string]uint64),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Registry returns the registry this cache resolves producers from.
func (c *Cache) Registry() *Registry {
	return c.registry
}

// GetOrCompute returns the cached value for (name, args), computing and
// storing it on first use.
//
// Returns *NotFoundError if name is not registered, *ComputeError if the
// producer fails or panics, or an encoding error if args have no canonical
// form.
func (c *Cache) GetOrCompute(ctx context.Context, name string, args cachekey.Args) (any, error) {
	key, err := cachekey.New(name, args)
	if err != nil {
		return nil, err
	}

	if v, ok := c.lookup(key); ok {
		c.logger.Debug("fixture cache hit", "fixture", name, "key", key.String())
		return v, nil
	}

	v, err, shared := c.group.Do(key.String(), func() (any, error) {
		return c.computeAndStore(ctx, key, args)
	})
	if err != nil {
		return nil, err
	}
	if shared {
		c.logger.Debug("fixture computation shared", "fixture", name, "key", key.String())
	}
	return v, nil
}

// lookup checks for an existing entry and records a hit or miss.
func (c *Cache) lookup(key cachekey.Key) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	v, ok := c.entries[key]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return v, ok
}

// computeAndStore runs inside the single flight for key.
func (c *Cache) computeAndStore(ctx context.Context, key cachekey.Key, args cachekey.Args) (any, error) {
	// Re-check under the flight: a previous flight for this key may have
	// stored its value after our miss and before we entered Do.
	c.mu.Lock()
	if v, ok := c.entries[key]; ok {
		c.mu.Unlock()
		return v, nil
	}
	gen, epoch := c.gens[key.Fixture], c.epoch
	c.inflight[key]++
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		if c.inflight[key]--; c.inflight[key] == 0 {
			delete(c.inflight, key)
		}
		c.mu.Unlock()
	}()

	producer, err := c.registry.Lookup(key.Fixture)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("computing fixture", "fixture", key.Fixture, "key", key.String())
	v, err := callProducer(ctx, key.Fixture, producer, args)
	if err != nil {
		c.logger.Debug("fixture computation failed", "fixture", key.Fixture, "error", err)
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.computes++
	if c.gens[key.Fixture] == gen && c.epoch == epoch {
		c.entries[key] = v
	}
	return v, nil
}

// callProducer invokes p, converting errors and panics into ComputeError.
func callProducer(ctx context.Context, name string, p Producer, args cachekey.Args) (v any, err error) {
	defer func() {
		if r := recover(); r != nil {
			v = nil
			err = &ComputeError{Fixture: name, Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	v, err = p(ctx, args)
	if err != nil {
		return nil, &ComputeError{Fixture: name, Err: err}
	}
	return v, nil
}

// Invalidate removes every entry computed for the named fixture.
// Computations of that fixture still running are not stored, and callers
// arriving after Invalidate start a new one. Other fixtures are untouched.
// An empty name clears the whole cache.
func (c *Cache) Invalidate(name string) {
	if name == "" {
		c.Clear()
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for key := range c.entries {
		if key.Fixture == name {
			delete(c.entries, key)
			c.group.Forget(key.String())
		}
	}
	for key := range c.inflight {
		if key.Fixture == name {
			c.group.Forget(key.String())
		}
	}
	c.gens[name]++
}

// Clear removes every entry.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key := range c.entries {
		c.group.Forget(key.String())
	}
	for key := range c.inflight {
		c.group.Forget(key.String())
	}
	c.entries = make(map[cachekey.Key]any)
	c.epoch++
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Stats is a point-in-time snapshot of the cache for diagnostics and tests.
// It has no effect on caching behavior.
type Stats struct {
	EntryCount      int      `json:"entry_count"`
	EntryKeys       []string `json:"entry_keys"`
	RegisteredNames []string `json:"registered_names"`
	Hits            int64    `json:"hits"`
	Misses          int64    `json:"misses"`
	Computes        int64    `json:"computes"`
}

// Stats returns a snapshot of the cache contents and counters.
// EntryKeys and RegisteredNames are sorted.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	keys := make([]string, 0, len(c.entries))
	for key := range c.entries {
		keys = append(keys, key.String())
	}
	s := Stats{
		EntryCount: len(c.entries),
		Hits:       c.hits,
		Misses:     c.misses,
		Computes:   c.computes,
	}
	c.mu.Unlock()

	slices.Sort(keys)
	s.EntryKeys = keys
	s.RegisteredNames = c.registry.Names()
	return s
}
