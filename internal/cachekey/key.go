package cachekey

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// DomainFixtureCall separates fixture-call digests from any other
// SHA-256 use. The version suffix allows a future encoding change.
const DomainFixtureCall = "testkit/fixture-call/v2"

// Args are the arguments of one fixture call.
type Args struct {
	Positional []any
	Keyword    map[string]any
}

// IsZero reports whether the call has no arguments at all.
func (a Args) IsZero() bool {
	return len(a.Positional) == 0 && len(a.Keyword) == 0
}

// Key identifies one memoized fixture call.
//
// Fixture is kept as its own component so that invalidation by fixture
// name never has to parse the digest.
type Key struct {
	Fixture string
	Digest  string
}

// String renders the key as "fixture#digest".
func (k Key) String() string {
	return k.Fixture + "#" + k.Digest
}

// New derives the key for calling fixture with args.
// Returns an error if any argument has no canonical encoding.
func New(fixture string, args Args) (Key, error) {
	positional := args.Positional
	if positional == nil {
		positional = []any{}
	}
	keyword := args.Keyword
	if keyword == nil {
		keyword = map[string]any{}
	}

	canonical, err := marshalKey(map[string]any{
		"fixture": fixture,
		"args":    positional,
		"kwargs":  keyword,
	})
	if err != nil {
		return Key{}, fmt.Errorf("cache key for fixture %q: %w", fixture, err)
	}

	return Key{Fixture: fixture, Digest: hashWithDomain(DomainFixtureCall, canonical)}, nil
}

// MustNew is like New but panics on error.
// Use only in tests or when arguments are known to be encodable.
func MustNew(fixture string, args Args) Key {
	k, err := New(fixture, args)
	if err != nil {
		panic(err)
	}
	return k
}

// hashWithDomain computes SHA256(domain + 0x00 + data).
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}
