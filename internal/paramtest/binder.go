package paramtest

import (
	"context"
	"slices"

	"github.com/roach88/testkit/internal/cachekey"
	"github.com/roach88/testkit/internal/fixture"
)

// Classification splits a test's declared parameters by binding source.
type Classification struct {
	// Supplied are bound from the caller's base arguments.
	Supplied []string

	// Parametrized are bound positionally from each value tuple.
	Parametrized []string

	// Fixtures are bound from the fixture cache.
	Fixtures []string

	// Unresolved have no source. Resolving them fails.
	Unresolved []string
}

// Binder classifies parameter names and resolves fixtures for them.
type Binder struct {
	registry *fixture.Registry
	cache    *fixture.Cache
}

// NewBinder creates a binder resolving fixtures through cache.
// Fixture membership is decided by the cache's registry.
func NewBinder(cache *fixture.Cache) *Binder {
	return &Binder{registry: cache.Registry(), cache: cache}
}

// Classify decides the binding source of each declared parameter.
//
// A name in supplied is bound from base arguments. When vars is nil,
// every other declared name is a fixture if registered and parametrized
// otherwise. When vars is non-nil, vars are the parametrized names (in
// their given order) and every other declared name is a fixture if
// registered and unresolved otherwise.
//
// Supplied, Fixtures and Unresolved keep declaration order.
func (b *Binder) Classify(declared, supplied, vars []string) Classification {
	var c Classification
	if vars != nil {
		c.Parametrized = slices.Clone(vars)
	}

	for _, name := range declared {
		switch {
		case slices.Contains(supplied, name):
			c.Supplied = append(c.Supplied, name)
		case vars != nil && slices.Contains(vars, name):
			// Already listed in Parametrized.
		case b.registry.Has(name):
			c.Fixtures = append(c.Fixtures, name)
		case vars != nil:
			c.Unresolved = append(c.Unresolved, name)
		default:
			c.Parametrized = append(c.Parametrized, name)
		}
	}
	return c
}

// Resolve binds every fixture name of c, in declaration order.
//
// The first unresolved name fails with a RESOLUTION error naming it, as
// does any fixture whose lookup or computation fails (the fixture error is
// kept as the cause).
func (b *Binder) Resolve(ctx context.Context, test string, c Classification) (Args, error) {
	if len(c.Unresolved) > 0 {
		return nil, newResolutionError(test, c.Unresolved[0], nil)
	}

	args := make(Args, len(c.Fixtures))
	for _, name := range c.Fixtures {
		v, err := b.cache.GetOrCompute(ctx, name, cachekey.Args{})
		if err != nil {
			return nil, newResolutionError(test, name, err)
		}
		args[name] = v
	}
	return args, nil
}
