package testutil

import (
	"maps"
	"sync"
)

// CallCounter counts calls per name for fixture producers under test.
//
// Producers run on parallel workers, so the counter is the caller-owned
// synchronization the fixture cache expects around producer side effects.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type CallCounter struct {
	mu     sync.Mutex
	counts map[string]int
}

// NewCallCounter creates a counter with every name at 0.
func NewCallCounter() *CallCounter {
	return &CallCounter{counts: make(map[string]int)}
}

// Inc increments the count for name and returns the new value.
//
// The first call for a name returns 1.
func (c *CallCounter) Inc(name string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.counts[name]++
	return c.counts[name]
}

// Count returns the current count for name without incrementing.
func (c *CallCounter) Count(name string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.counts[name]
}

// Snapshot returns a copy of all counts.
func (c *CallCounter) Snapshot() map[string]int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return maps.Clone(c.counts)
}

// Reset sets every count back to 0.
func (c *CallCounter) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.counts = make(map[string]int)
}
