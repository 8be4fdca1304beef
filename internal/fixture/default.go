package fixture

import (
	"context"
	"sync"

	"github.com/roach88/testkit/internal/cachekey"
)

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
	defaultCache    *Cache
)

func initDefaults() {
	defaultOnce.Do(func() {
		defaultRegistry = NewRegistry()
		defaultCache = NewCache(defaultRegistry)
	})
}

// Default returns the process-scoped registry.
func Default() *Registry {
	initDefaults()
	return defaultRegistry
}

// DefaultCache returns the process-scoped cache over Default().
func DefaultCache() *Cache {
	initDefaults()
	return defaultCache
}

// Register registers def with the process-scoped registry and returns it,
// so declarations can be written as package-level variables:
//
//	var myFavoriteColor = fixture.Register(fixture.Define("my_favorite_color", func() Color {
//		return Color{Name: "black"}
//	}))
func Register(def Definition) Definition {
	Default().Register(def)
	return def
}

// Get resolves name with no arguments through the process-scoped cache.
func Get(ctx context.Context, name string) (any, error) {
	return DefaultCache().GetOrCompute(ctx, name, cachekey.Args{})
}

// ClearCache clears the process-scoped cache. Registrations are kept.
func ClearCache() {
	DefaultCache().Clear()
}

// ResetDefaults clears the process-scoped cache and registry.
func ResetDefaults() {
	DefaultCache().Clear()
	Default().Reset()
}
