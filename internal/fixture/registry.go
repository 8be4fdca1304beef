package fixture

import (
	"context"
	"slices"
	"sync"

	"github.com/roach88/testkit/internal/cachekey"
)

// Producer computes a fixture value.
//
// Fixtures resolved for test parameters are always called with zero
// arguments; args are only non-empty when a caller uses Cache.GetOrCompute
// directly with arguments.
type Producer func(ctx context.Context, args cachekey.Args) (any, error)

// Definition is a fixture declaration: a name and the producer behind it.
type Definition struct {
	Name     string
	Producer Producer
}

// Define builds a Definition from a zero-argument function.
//
// Example:
//
//	var colorCount = fixture.Define("color_count", func() int { return 3 })
//	fixture.Register(colorCount)
func Define[T any](name string, fn func() T) Definition {
	return Definition{Name: name, Producer: Static(fn)}
}

// Static adapts a zero-argument function into a Producer.
func Static[T any](fn func() T) Producer {
	return func(context.Context, cachekey.Args) (any, error) {
		return fn(), nil
	}
}

// Fallible adapts a zero-argument function that can fail into a Producer.
func Fallible[T any](fn func() (T, error)) Producer {
	return func(context.Context, cachekey.Args) (any, error) {
		return fn()
	}
}

// Value adapts a constant into a Producer.
func Value(v any) Producer {
	return func(context.Context, cachekey.Args) (any, error) {
		return v, nil
	}
}

// Registry maps fixture names to producers.
//
// Last registration wins: registering an existing name replaces its
// producer without error.
type Registry struct {
	mu        sync.RWMutex
	producers map[string]Producer
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{producers: make(map[string]Producer)}
}

// Register stores def under def.Name, replacing any previous producer.
// Panics if def has an empty name or nil producer, which is a programming
// error at declaration time.
func (r *Registry) Register(def Definition) {
	if def.Name == "" {
		panic("fixture: Register with empty name")
	}
	if def.Producer == nil {
		panic("fixture: Register " + def.Name + " with nil producer")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.producers[def.Name] = def.Producer
}

// RegisterFunc is shorthand for Register(Definition{name, p}).
func (r *Registry) RegisterFunc(name string, p Producer) {
	r.Register(Definition{Name: name, Producer: p})
}

// Lookup returns the producer registered under name.
// Returns *NotFoundError if name is not registered.
func (r *Registry) Lookup(name string) (Producer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.producers[name]
	if !ok {
		return nil, &NotFoundError{Name: name}
	}
	return p, nil
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.producers[name]
	return ok
}

// Names returns all registered names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.producers))
	for name := range r.producers {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Len returns the number of registered fixtures.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.producers)
}

// Reset removes every registration.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.producers = make(map[string]Producer)
}
