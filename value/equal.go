package value

import "reflect"

// Equal reports whether a and b hold the same data. Numeric scalars compare
// by value across integer and float representations. Map entry order is ignored.
func Equal(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}

	switch a.kind {
	case Absent:
		return true
	case Scalar:
		return ScalarEqual(a.scalar, b.scalar)
	case List:
		if len(a.items) != len(b.items) {
			return false
		}

		for i := range a.items {
			if !Equal(a.items[i], b.items[i]) {
				return false
			}
		}

		return true
	case Map:
		if len(a.entries) != len(b.entries) {
			return false
		}

		for _, e := range a.entries {
			other, ok := b.Get(e.Key)
			if !ok || !Equal(e.Value, other) {
				return false
			}
		}

		return true
	default:
		return false
	}
}

// ScalarEqual compares two scalar payloads after number normalization.
func ScalarEqual(a, b any) bool {
	a, b = normalizeNumber(a), normalizeNumber(b)

	if ia, ok := a.(int64); ok {
		if ib, ok := b.(int64); ok {
			return ia == ib
		}
	}

	if fa, ok := asFloat(a); ok {
		fb, ok := asFloat(b)

		return ok && fa == fb
	}

	return reflect.DeepEqual(a, b)
}

func asFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case int64:
		return float64(x), true
	case uint64:
		return float64(x), true
	case float64:
		return x, true
	default:
		return 0, false
	}
}
