package cachekey

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"slices"
	"strconv"
	"unicode/utf16"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// Keyer lets a value choose its own cache identity.
//
// Types that are not plain data (structs, handles) implement Keyer to take
// part in fixture cache keys. Two values with equal CacheKey strings are
// treated as the same argument. A Keyer never equals a plain string, even
// one with the same text.
type Keyer interface {
	CacheKey() string
}

// MarshalCanonical encodes v as canonical JSON for display and golden
// files. Strings are NFC-normalized and numbers are written bare, so
// int 1 and float 1.0 render the same.
//
// Key digests use the stricter typed encoding of marshalKey instead.
func MarshalCanonical(v any) ([]byte, error) {
	e := &encoder{}
	if err := e.encode(reflect.ValueOf(v)); err != nil {
		return nil, err
	}
	return e.buf.Bytes(), nil
}

// marshalKey encodes v as canonical JSON in which every value keeps its
// kind: integers become {"i":n}, floats {"f":n}, Keyers {"$key":s} and
// maps {"m":{...}}. Strings are kept byte-exact. Distinct arguments
// therefore never share an encoding.
func marshalKey(v any) ([]byte, error) {
	e := &encoder{typed: true}
	if err := e.encode(reflect.ValueOf(v)); err != nil {
		return nil, err
	}
	return e.buf.Bytes(), nil
}

var keyerType = reflect.TypeOf((*Keyer)(nil)).Elem()

// visit identifies a reference value on the current encoding path.
type visit struct {
	ptr uintptr
	typ reflect.Type
	len int
}

type encoder struct {
	buf   bytes.Buffer
	typed bool

	// path holds the maps, slices and pointers being encoded, for cycle
	// detection.
	path map[visit]struct{}
}

func (e *encoder) encode(v reflect.Value) error {
	if !v.IsValid() {
		e.buf.WriteString("null")
		return nil
	}

	if v.Type().Implements(keyerType) {
		if v.Kind() == reflect.Pointer && v.IsNil() {
			e.buf.WriteString("null")
			return nil
		}
		return e.encodeKeyer(v.Interface().(Keyer).CacheKey())
	}

	switch v.Kind() {
	case reflect.Bool:
		if v.Bool() {
			e.buf.WriteString("true")
		} else {
			e.buf.WriteString("false")
		}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		e.writeNumber("i", strconv.FormatInt(v.Int(), 10))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		e.writeNumber("i", strconv.FormatUint(v.Uint(), 10))
	case reflect.Float32, reflect.Float64:
		f := v.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return fmt.Errorf("non-finite float %v has no canonical form", f)
		}
		e.writeNumber("f", strconv.FormatFloat(f, 'g', -1, 64))
	case reflect.String:
		return e.encodeString(v.String())
	case reflect.Slice:
		if v.IsNil() {
			e.buf.WriteString("null")
			return nil
		}
		return e.enter(v, func() error { return e.encodeArray(v) })
	case reflect.Array:
		return e.encodeArray(v)
	case reflect.Map:
		if v.IsNil() {
			e.buf.WriteString("null")
			return nil
		}
		return e.enter(v, func() error { return e.encodeObject(v) })
	case reflect.Pointer:
		if v.IsNil() {
			e.buf.WriteString("null")
			return nil
		}
		return e.enter(v, func() error { return e.encode(v.Elem()) })
	case reflect.Interface:
		if v.IsNil() {
			e.buf.WriteString("null")
			return nil
		}
		return e.encode(v.Elem())
	default:
		return fmt.Errorf("unsupported type for cache key: %s", v.Type())
	}
	return nil
}

// enter runs fn with v marked as on the current path. A value that is
// already on the path is a cycle.
func (e *encoder) enter(v reflect.Value, fn func() error) error {
	id := visit{ptr: v.Pointer(), typ: v.Type()}
	if v.Kind() == reflect.Slice {
		id.len = v.Len()
	}
	if _, ok := e.path[id]; ok {
		return fmt.Errorf("cycle through %s has no canonical form", v.Type())
	}
	if e.path == nil {
		e.path = make(map[visit]struct{})
	}
	e.path[id] = struct{}{}
	defer delete(e.path, id)
	return fn()
}

func (e *encoder) writeNumber(tag, n string) {
	if !e.typed {
		e.buf.WriteString(n)
		return
	}
	e.buf.WriteString(`{"` + tag + `":` + n + `}`)
}

func (e *encoder) encodeKeyer(s string) error {
	if !e.typed {
		return e.encodeString(s)
	}
	e.buf.WriteString(`{"$key":`)
	if err := e.encodeString(s); err != nil {
		return err
	}
	e.buf.WriteByte('}')
	return nil
}

func (e *encoder) encodeArray(v reflect.Value) error {
	e.buf.WriteByte('[')
	for i := 0; i < v.Len(); i++ {
		if i > 0 {
			e.buf.WriteByte(',')
		}
		if err := e.encode(v.Index(i)); err != nil {
			return fmt.Errorf("[%d]: %w", i, err)
		}
	}
	e.buf.WriteByte(']')
	return nil
}

func (e *encoder) encodeObject(v reflect.Value) error {
	if v.Type().Key().Kind() != reflect.String {
		return fmt.Errorf("map keys must be strings, got %s", v.Type().Key())
	}

	keys := make([]string, 0, v.Len())
	values := make(map[string]reflect.Value, v.Len())
	for _, k := range v.MapKeys() {
		keys = append(keys, k.String())
		values[k.String()] = v.MapIndex(k)
	}
	sortUTF16(keys)

	if e.typed {
		e.buf.WriteString(`{"m":`)
	}
	e.buf.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			e.buf.WriteByte(',')
		}
		if err := e.encodeString(k); err != nil {
			return err
		}
		e.buf.WriteByte(':')
		if err := e.encode(values[k]); err != nil {
			return fmt.Errorf("[%q]: %w", k, err)
		}
	}
	e.buf.WriteByte('}')
	if e.typed {
		e.buf.WriteByte('}')
	}
	return nil
}

// encodeString writes a JSON string without HTML escaping. Display
// encoding normalizes to NFC; key encoding keeps the exact bytes.
func (e *encoder) encodeString(s string) error {
	switch {
	case !e.typed:
		s = norm.NFC.String(s)
	case !utf8.ValidString(s):
		return fmt.Errorf("string %q is not valid UTF-8", s)
	}
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return err
	}
	e.buf.Write(bytes.TrimSuffix(tmp.Bytes(), []byte{'\n'}))
	return nil
}

// sortUTF16 orders keys by UTF-16 code units, as RFC 8785 requires.
func sortUTF16(keys []string) {
	slices.SortFunc(keys, func(a, b string) int {
		return slices.Compare(utf16.Encode([]rune(a)), utf16.Encode([]rune(b)))
	})
}
