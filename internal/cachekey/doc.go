// Package cachekey derives deterministic cache keys for fixture calls.
//
// A key is the pair (fixture name, digest) where the digest is a
// domain-separated SHA-256 over the typed canonical JSON encoding of the
// call:
//
//	{"m":{"args":[...],"fixture":"name","kwargs":{"m":{...}}}}
//
// Canonical JSON here follows the RFC 8785 shape: object keys sorted by
// UTF-16 code units and no HTML escaping. Keyword arguments are therefore
// order-independent, and structurally equal arguments always produce
// equal keys. The key encoding also records each value's kind, so int 1,
// float 1.0, the string "a" and a Keyer returning "a" are four different
// arguments. Strings are compared byte for byte; NFC and NFD spellings of
// the same text are different arguments.
//
// Supported argument values are nil, booleans, every integer and float
// kind, valid UTF-8 strings, slices, arrays, maps with string keys,
// pointers to any of these, and any type implementing Keyer. Everything
// else is rejected with an error rather than silently encoded through fmt,
// because a lossy encoding could map two different calls onto one key.
// Cyclic values are rejected too.
//
// MarshalCanonical is the display form of the same encoding: untagged and
// NFC-normalized, for reports and golden files.
package cachekey
