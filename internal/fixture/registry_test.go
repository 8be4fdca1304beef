package fixture

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/testkit/internal/cachekey"
)

func call(t *testing.T, p Producer) any {
	t.Helper()
	v, err := p(context.Background(), cachekey.Args{})
	require.NoError(t, err)
	return v
}

func TestRegistry_RegisterAndLookup(t *testing.T) {
	reg := NewRegistry()
	reg.Register(Define("color_count", func() int { return 3 }))

	p, err := reg.Lookup("color_count")
	require.NoError(t, err)
	assert.Equal(t, 3, call(t, p))
	assert.True(t, reg.Has("color_count"))
	assert.Equal(t, 1, reg.Len())
}

func TestRegistry_LastRegistrationWins(t *testing.T) {
	reg := NewRegistry()
	reg.RegisterFunc("my_favorite_color", Value("black"))
	reg.RegisterFunc("my_favorite_color", Value("white"))

	p, err := reg.Lookup("my_favorite_color")
	require.NoError(t, err)
	assert.Equal(t, "white", call(t, p))
	assert.Equal(t, 1, reg.Len())
}

func TestRegistry_LookupNotFound(t *testing.T) {
	reg := NewRegistry()

	_, err := reg.Lookup("missing")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	assert.True(t, errors.Is(err, ErrFixtureNotFound))
	assert.Contains(t, err.Error(), `"missing"`)

	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "missing", nf.Name)
}

func TestRegistry_NamesSorted(t *testing.T) {
	reg := NewRegistry()
	reg.RegisterFunc("primary_colors", Value(nil))
	reg.RegisterFunc("color_count", Value(3))
	reg.RegisterFunc("my_favorite_color", Value("black"))

	assert.Equal(t, []string{"color_count", "my_favorite_color", "primary_colors"}, reg.Names())
}

func TestRegistry_Reset(t *testing.T) {
	reg := NewRegistry()
	reg.RegisterFunc("a", Value(1))

	reg.Reset()
	assert.Equal(t, 0, reg.Len())
	assert.False(t, reg.Has("a"))
}

func TestRegistry_RegisterPanicsOnInvalidDefinition(t *testing.T) {
	reg := NewRegistry()

	assert.Panics(t, func() { reg.Register(Definition{Name: "", Producer: Value(1)}) })
	assert.Panics(t, func() { reg.Register(Definition{Name: "x"}) })
}

func TestProducerAdapters(t *testing.T) {
	assert.Equal(t, "v", call(t, Value("v")))
	assert.Equal(t, 42, call(t, Static(func() int { return 42 })))
	assert.Equal(t, "ok", call(t, Fallible(func() (string, error) { return "ok", nil })))

	boom := errors.New("boom")
	_, err := Fallible(func() (int, error) { return 0, boom })(context.Background(), cachekey.Args{})
	assert.ErrorIs(t, err, boom)
}
