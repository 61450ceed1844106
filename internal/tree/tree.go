// Package tree provides typed accessors over the generic value tree that is
// the only boundary format of fluxfield.
//
// A tree is built from three shapes produced by any text front end:
//
//   - map:      map[string]any
//   - sequence: []any
//   - scalar:   string, bool, integer and floating point types, or nil
//
// Front ends differ in how they deliver scalars (YAML may hand over "15" as
// text, HCL delivers every number as a float), so the accessors here accept
// every reasonable encoding of a value and report a specerr.Decode error for
// anything else.
package tree

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/vk/fluxfield/internal/specerr"
)

// Map is the canonical map shape.
type Map = map[string]any

// Seq is the canonical sequence shape.
type Seq = []any

// Normalize deep-converts loosely typed containers (map[any]any,
// map[string]string, []string, []map[string]any) into Map and Seq.
func Normalize(v any) (any, error) {
	switch t := v.(type) {
	case map[string]any:
		out := make(Map, len(t))
		for k, elem := range t {
			n, err := Normalize(elem)
			if err != nil {
				return nil, fmt.Errorf("key %q: %w", k, err)
			}
			out[k] = n
		}
		return out, nil
	case map[any]any:
		out := make(Map, len(t))
		for k, elem := range t {
			key, err := scalarString(k)
			if err != nil {
				return nil, specerr.New(specerr.Decode, "", "map key %v is not a scalar", k)
			}
			n, err := Normalize(elem)
			if err != nil {
				return nil, fmt.Errorf("key %q: %w", key, err)
			}
			out[key] = n
		}
		return out, nil
	case map[string]string:
		out := make(Map, len(t))
		for k, elem := range t {
			out[k] = elem
		}
		return out, nil
	case []any:
		out := make(Seq, 0, len(t))
		for i, elem := range t {
			n, err := Normalize(elem)
			if err != nil {
				return nil, fmt.Errorf("index %d: %w", i, err)
			}
			out = append(out, n)
		}
		return out, nil
	case []string:
		out := make(Seq, 0, len(t))
		for _, elem := range t {
			out = append(out, elem)
		}
		return out, nil
	case []map[string]any:
		out := make(Seq, 0, len(t))
		for i, elem := range t {
			n, err := Normalize(elem)
			if err != nil {
				return nil, fmt.Errorf("index %d: %w", i, err)
			}
			out = append(out, n)
		}
		return out, nil
	default:
		return v, nil
	}
}

// AsMap asserts that v is a map.
func AsMap(v any) (Map, error) {
	m, ok := v.(map[string]any)
	if !ok {
		return nil, specerr.New(specerr.Decode, "", "expected a map, got %s", Describe(v))
	}
	return m, nil
}

// AsSeq asserts that v is a sequence.
func AsSeq(v any) (Seq, error) {
	s, ok := v.([]any)
	if !ok {
		return nil, specerr.New(specerr.Decode, "", "expected a sequence, got %s", Describe(v))
	}
	return s, nil
}

// IsMap reports whether v is a map.
func IsMap(v any) bool {
	_, ok := v.(map[string]any)
	return ok
}

// IsSeq reports whether v is a sequence.
func IsSeq(v any) bool {
	_, ok := v.([]any)
	return ok
}

// Lookup returns m[key] and whether it is present with a non-nil value. A key
// explicitly set to null is treated as absent.
func Lookup(m Map, key string) (any, bool) {
	v, ok := m[key]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

// Int64 converts an integer scalar. Strings are parsed as base-10 integers
// and floats must be integral.
func Int64(v any) (int64, error) {
	switch t := v.(type) {
	case int:
		return int64(t), nil
	case int8:
		return int64(t), nil
	case int16:
		return int64(t), nil
	case int32:
		return int64(t), nil
	case int64:
		return t, nil
	case uint:
		return uintToInt64(uint64(t))
	case uint8:
		return int64(t), nil
	case uint16:
		return int64(t), nil
	case uint32:
		return int64(t), nil
	case uint64:
		return uintToInt64(t)
	case float32:
		return floatToInt64(float64(t))
	case float64:
		return floatToInt64(t)
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(t), 10, 64)
		if err != nil {
			return 0, specerr.New(specerr.Decode, "", "cannot convert %q to an integer", t)
		}
		return n, nil
	default:
		return 0, specerr.New(specerr.Decode, "", "expected an integer, got %s", Describe(v))
	}
}

func uintToInt64(u uint64) (int64, error) {
	if u > math.MaxInt64 {
		return 0, specerr.New(specerr.Decode, "", "integer %d overflows int64", u)
	}
	return int64(u), nil
}

func floatToInt64(f float64) (int64, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, specerr.New(specerr.Decode, "", "expected an integer, got %v", f)
	}
	if f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, specerr.New(specerr.Decode, "", "integer %v overflows int64", f)
	}
	return int64(f), nil
}

// String asserts that v is a string. Other scalars are rejected so that
// names such as a resource type are never silently derived from numbers.
func String(v any) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", specerr.New(specerr.Decode, "", "expected a string, got %s", Describe(v))
	}
	return s, nil
}

// Bool converts a boolean scalar, accepting the textual forms understood by
// strconv.ParseBool.
func Bool(v any) (bool, error) {
	switch t := v.(type) {
	case bool:
		return t, nil
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(t))
		if err != nil {
			return false, specerr.New(specerr.Decode, "", "cannot convert %q to a boolean", t)
		}
		return b, nil
	default:
		return false, specerr.New(specerr.Decode, "", "expected a boolean, got %s", Describe(v))
	}
}

// Scalar renders any scalar as text, the way a YAML scalar reads.
func Scalar(v any) (string, error) {
	s, err := scalarString(v)
	if err != nil {
		return "", specerr.New(specerr.Decode, "", "expected a scalar, got %s", Describe(v))
	}
	return s, nil
}

func scalarString(v any) (string, error) {
	switch t := v.(type) {
	case string:
		return t, nil
	case bool:
		return strconv.FormatBool(t), nil
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", t), nil
	case float32:
		return strconv.FormatFloat(float64(t), 'g', -1, 32), nil
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64), nil
	default:
		return "", fmt.Errorf("not a scalar: %T", v)
	}
}

// Strings converts a sequence of scalars into a string slice.
func Strings(v any) ([]string, error) {
	seq, err := AsSeq(v)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(seq))
	for i, elem := range seq {
		s, err := Scalar(elem)
		if err != nil {
			return nil, specerr.Wrap(specerr.Decode, fmt.Sprintf("[%d]", i), err)
		}
		out = append(out, s)
	}
	return out, nil
}

// StringMap converts a map of scalars into a map[string]string.
func StringMap(v any) (map[string]string, error) {
	m, err := AsMap(v)
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(m))
	for k, elem := range m {
		s, err := Scalar(elem)
		if err != nil {
			return nil, specerr.Wrap(specerr.Decode, k, err)
		}
		out[k] = s
	}
	return out, nil
}

// Keys returns the keys of m in sorted order.
func Keys(m Map) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Clone deep-copies a tree of maps and sequences. Scalars are shared.
func Clone(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(Map, len(t))
		for k, elem := range t {
			out[k] = Clone(elem)
		}
		return out
	case []any:
		out := make(Seq, len(t))
		for i, elem := range t {
			out[i] = Clone(elem)
		}
		return out
	default:
		return v
	}
}

// Describe names the shape of v for error messages.
func Describe(v any) string {
	switch t := v.(type) {
	case nil:
		return "null"
	case map[string]any, map[any]any:
		return "map"
	case []any:
		return "sequence"
	case string:
		return fmt.Sprintf("string %q", t)
	case bool:
		return "boolean"
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return "integer"
	case float32, float64:
		return "number"
	default:
		return fmt.Sprintf("%T", v)
	}
}
