package value

import (
	"fmt"
	"math"
	"reflect"
	"slices"
	"strconv"
)

// RawEntry is one key/value pair of a raw ordered container, as produced by
// a decoder that preserves key order.
type RawEntry struct {
	Key   any
	Value any
}

// Classify turns an ordered raw container into a Value. The result is a List
// when the keys are exactly the integers 0..n-1 in order, and a Map otherwise.
// Nested raw values are converted with FromRaw.
func Classify(entries []RawEntry) Value {
	if isSequential(entries) {
		list := Value{kind: List, items: make([]Value, 0, len(entries))}
		for _, e := range entries {
			list.items = append(list.items, FromRaw(e.Value))
		}

		return list
	}

	m := Value{kind: Map, entries: make([]Entry, 0, len(entries))}
	for _, e := range entries {
		m.put(KeyString(e.Key), FromRaw(e.Value))
	}

	return m
}

// FromRaw converts plain Go data into a Value. Slices and arrays become
// Lists. Go maps are unordered, so their keys are sorted before classification.
// Values already of type Value are cloned. Everything else is a Scalar.
func FromRaw(raw any) Value {
	switch x := raw.(type) {
	case Value:
		return x.Clone()
	case []RawEntry:
		return Classify(x)
	case []any:
		list := Value{kind: List, items: make([]Value, 0, len(x))}
		for _, item := range x {
			list.items = append(list.items, FromRaw(item))
		}

		return list
	case []string:
		list := Value{kind: List, items: make([]Value, 0, len(x))}
		for _, item := range x {
			list.items = append(list.items, Of(item))
		}

		return list
	case map[string]any:
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}

		slices.Sort(keys)

		entries := make([]RawEntry, len(keys))
		for i, k := range keys {
			entries[i] = RawEntry{Key: k, Value: x[k]}
		}

		return Classify(entries)
	}

	rv := reflect.ValueOf(raw)
	switch rv.Kind() { //nolint:exhaustive // remaining kinds are scalars
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.Type().Elem().Kind() == reflect.Uint8 {
			return Of(raw)
		}

		list := Value{kind: List, items: make([]Value, 0, rv.Len())}
		for i := range rv.Len() {
			list.items = append(list.items, FromRaw(rv.Index(i).Interface()))
		}

		return list
	case reflect.Map:
		return fromReflectMap(rv)
	default:
		return Of(raw)
	}
}

func fromReflectMap(rv reflect.Value) Value {
	keys := rv.MapKeys()
	slices.SortFunc(keys, func(a, b reflect.Value) int {
		ka, kb := normalizeNumber(a.Interface()), normalizeNumber(b.Interface())

		ia, aInt := ka.(int64)
		ib, bInt := kb.(int64)

		if aInt && bInt {
			switch {
			case ia < ib:
				return -1
			case ia > ib:
				return 1
			default:
				return 0
			}
		}

		sa, sb := KeyString(ka), KeyString(kb)

		switch {
		case sa < sb:
			return -1
		case sa > sb:
			return 1
		default:
			return 0
		}
	})

	entries := make([]RawEntry, len(keys))
	for i, k := range keys {
		entries[i] = RawEntry{Key: k.Interface(), Value: rv.MapIndex(k).Interface()}
	}

	return Classify(entries)
}

func isSequential(entries []RawEntry) bool {
	for i, e := range entries {
		n, ok := normalizeNumber(e.Key).(int64)
		if !ok || n != int64(i) {
			return false
		}
	}

	return true
}

// KeyString renders a raw map key as a Map key.
func KeyString(k any) string {
	switch x := normalizeNumber(k).(type) {
	case string:
		return x
	case int64:
		return strconv.FormatInt(x, 10)
	case nil:
		return ""
	default:
		return fmt.Sprint(x)
	}
}

// normalizeNumber maps every integer type to int64 (uint64 when it does not
// fit) and every float type to float64.
func normalizeNumber(v any) any {
	switch x := v.(type) {
	case int:
		return int64(x)
	case int8:
		return int64(x)
	case int16:
		return int64(x)
	case int32:
		return int64(x)
	case int64:
		return x
	case uint:
		return normalizeUint(uint64(x))
	case uint8:
		return int64(x)
	case uint16:
		return int64(x)
	case uint32:
		return int64(x)
	case uint64:
		return normalizeUint(x)
	case float32:
		return float64(x)
	default:
		return v
	}
}

func normalizeUint(u uint64) any {
	if u > math.MaxInt64 {
		return u
	}

	return int64(u)
}
