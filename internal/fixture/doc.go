// Package fixture implements named, lazily computed, cached test values.
//
// A fixture is declared once with a name and a Producer and registered with
// a Registry. Test bodies never call producers directly: they ask a Cache,
// which memoizes the producer's result per (name, arguments) key.
//
// CONCURRENCY:
//
// The Cache is shared by every invocation of a parametrized run, including
// invocations running on parallel workers. Each key is computed at most
// once: concurrent requests for a key that is being computed wait for that
// computation and receive its result (single-flight). A key never maps to
// two different values without an intervening Invalidate or Clear.
//
// The Registry is expected to be populated before tests run. It is safe for
// concurrent reads; registering while a run is in progress is allowed but
// the new producer only affects keys that are not cached yet.
//
// LIFECYCLE:
//
// Default and DefaultCache return the process-scoped registry and cache.
// Tests that want isolation construct their own with NewRegistry and
// NewCache, or reset the defaults with ResetDefaults.
//
// Producers with side effects (counters, connections) own their own
// synchronization; the cache only guarantees how often they are called.
package fixture
