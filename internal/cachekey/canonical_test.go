package cachekey

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type color struct{ name string }

func (c color) CacheKey() string { return "color:" + c.name }

func TestMarshalCanonicalBasic(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		expected string
	}{
		{"nil", nil, "null"},
		{"string", "hello", `"hello"`},
		{"empty string", "", `""`},
		{"int", 42, "42"},
		{"negative int", int8(-100), "-100"},
		{"uint", uint16(7), "7"},
		{"float", 2.5, "2.5"},
		{"integral float", 3.0, "3"},
		{"bool true", true, "true"},
		{"bool false", false, "false"},
		{"empty slice", []any{}, "[]"},
		{"nil slice", []int(nil), "null"},
		{"array", [2]int{1, 2}, "[1,2]"},
		{"empty map", map[string]int{}, "{}"},
		{"nested", []any{1, []string{"a"}}, `[1,["a"]]`},
		{"keyer", color{name: "black"}, `"color:black"`},
		{"html not escaped", "<a&b>", `"<a&b>"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := MarshalCanonical(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, string(result))
		})
	}
}

func TestMarshalCanonicalSortedKeys(t *testing.T) {
	obj := map[string]any{
		"zebra": 1,
		"alpha": 2,
		"beta":  3,
	}

	result, err := MarshalCanonical(obj)
	require.NoError(t, err)
	assert.Equal(t, `{"alpha":2,"beta":3,"zebra":1}`, string(result))
}

func TestMarshalCanonicalUTF16KeyOrder(t *testing.T) {
	// U+1F600 encodes as a surrogate pair (0xD83D...), which sorts before
	// U+FB01 (0xFB01) in UTF-16 even though it sorts after it in UTF-8.
	obj := map[string]int{
		"\ufb01":     1,
		"\U0001F600": 2,
	}

	result, err := MarshalCanonical(obj)
	require.NoError(t, err)
	assert.Equal(t, "{\"\U0001F600\":2,\"\ufb01\":1}", string(result))
}

func TestMarshalCanonicalNFC(t *testing.T) {
	// "e" + combining acute accent normalizes to precomposed "é".
	decomposed, err := MarshalCanonical("e\u0301")
	require.NoError(t, err)
	precomposed, err := MarshalCanonical("\u00e9")
	require.NoError(t, err)

	assert.Equal(t, string(precomposed), string(decomposed))
}

func TestMarshalKeyTagsKinds(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		expected string
	}{
		{"int", 1, `{"i":1}`},
		{"uint", uint8(1), `{"i":1}`},
		{"float", 1.0, `{"f":1}`},
		{"string", "1", `"1"`},
		{"keyer", color{name: "black"}, `{"$key":"color:black"}`},
		{"map", map[string]any{"i": 1}, `{"m":{"i":{"i":1}}}`},
		{"nested", []any{true, nil, []int{2}}, `[true,null,[{"i":2}]]`},
		{"nfd kept", "e\u0301", "\"e\u0301\""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := marshalKey(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, string(result))
		})
	}
}

func TestMarshalKeyRejectsInvalidUTF8(t *testing.T) {
	_, err := marshalKey("\xff")
	assert.Error(t, err)
}

func TestMarshalCanonicalRejectsCycles(t *testing.T) {
	selfMap := map[string]any{}
	selfMap["self"] = selfMap

	selfSlice := []any{nil}
	selfSlice[0] = selfSlice

	var selfPtr any
	selfPtr = &selfPtr

	tests := []struct {
		name  string
		input any
	}{
		{"map", selfMap},
		{"slice", selfSlice},
		{"pointer", selfPtr},
		{"nested map", []any{map[string]any{"loop": selfMap}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := MarshalCanonical(tt.input)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "cycle")

			_, err = marshalKey(tt.input)
			require.Error(t, err)
		})
	}
}

func TestMarshalCanonicalSharedReferences(t *testing.T) {
	shared := []int{1}
	result, err := MarshalCanonical(map[string]any{"a": shared, "b": shared})
	require.NoError(t, err)
	assert.Equal(t, `{"a":[1],"b":[1]}`, string(result))
}

func TestMarshalCanonicalPointers(t *testing.T) {
	n := 5
	result, err := MarshalCanonical(&n)
	require.NoError(t, err)
	assert.Equal(t, "5", string(result))

	var nilPtr *int
	result, err = MarshalCanonical(nilPtr)
	require.NoError(t, err)
	assert.Equal(t, "null", string(result))
}

func TestMarshalCanonicalRejectsUnsupported(t *testing.T) {
	tests := []struct {
		name  string
		input any
	}{
		{"struct", struct{ A int }{1}},
		{"func", func() {}},
		{"chan", make(chan int)},
		{"int keyed map", map[int]string{1: "a"}},
		{"nested struct", []any{struct{}{}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := MarshalCanonical(tt.input)
			assert.Error(t, err)
		})
	}
}
