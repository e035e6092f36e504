package merge

import (
	"strconv"

	"github.com/0xalexb/hjarta-layers/value"
)

// MergeListOrMapLowIntoHigh merges the entries of src, a lower priority
// container, into dest in place.
//
// Falsy entries of src are skipped. List entries are appended to dest. Map
// entries fill keys missing from dest; on a key clash two containers are
// merged recursively and two scalars keep the entry already in dest.
//
// A List merged into a Map lands under the next unused integer keys. A Map
// merged into a List first turns the List into a Map keyed "0".."n-1".
func MergeListOrMapLowIntoHigh(dest *value.Value, src value.Value) error {
	return mergeInto(dest, src, nil)
}

// MergeHighIntoLow returns a fresh value built from high with the previous
// low priority accumulator merged underneath it. When either side is not a
// container, high simply replaces low.
func MergeHighIntoLow(low, high value.Value) (value.Value, error) {
	base := high.Clone()

	if !base.IsContainer() || !low.IsContainer() {
		return base, nil
	}

	err := mergeInto(&base, low, nil)
	if err != nil {
		return value.Value{}, err
	}

	return base, nil
}

// MergeLowIntoHigh folds v, contributed by a lower priority source, into the
// accumulated result. Entries of v matched by suppress are dropped first.
//
// An Absent or falsy result is replaced by v outright. Otherwise a falsy v is
// ignored, a scalar result is left untouched and two containers are merged.
func MergeLowIntoHigh(result *value.Value, v value.Value, suppress []Pair) error {
	if len(suppress) > 0 {
		if v.IsContainer() {
			v = Filter(v, suppress)
			if value.Falsy(v) {
				return nil
			}
		} else if Matches(suppress, v) {
			return nil
		}
	}

	if value.Falsy(*result) {
		*result = v.Clone()

		return nil
	}

	if value.Falsy(v) {
		return nil
	}

	if result.IsContainer() != v.IsContainer() {
		return mismatch(nil, *result, v)
	}

	if !result.IsContainer() {
		return nil
	}

	return mergeInto(result, v, nil)
}

func mergeInto(dest *value.Value, src value.Value, path []string) error {
	if value.Falsy(src) {
		return nil
	}

	if !value.Falsy(*dest) && dest.Kind() != src.Kind() {
		switch {
		case !dest.IsContainer() || !src.IsContainer():
			return mismatch(path, *dest, src)
		case src.Kind() == value.List:
			appendKeyed(dest, src)

			return nil
		default:
			*dest = keyedList(*dest)
		}
	}

	if src.Kind() == value.List {
		for _, item := range src.Items() {
			if value.Falsy(item) {
				continue
			}

			dest.Append(item.Clone())
		}

		return nil
	}

	for _, e := range src.Entries() {
		if value.Falsy(e.Value) {
			continue
		}

		existing, ok := dest.At(e.Key)
		if !ok || existing.Kind() == value.Absent || isNull(*existing) {
			dest.Set(e.Key, e.Value.Clone())

			continue
		}

		switch {
		case existing.IsContainer() && e.Value.IsContainer():
			err := mergeInto(existing, e.Value, append(path, e.Key))
			if err != nil {
				return err
			}
		case existing.IsContainer() == e.Value.IsContainer():
			// two scalars: the higher priority entry stays
		case value.Falsy(*existing):
			*existing = e.Value.Clone()
		default:
			return mismatch(append(path, e.Key), *existing, e.Value)
		}
	}

	return nil
}

// appendKeyed adds the truthy items of list to m, numbering them after the
// largest integer key already present.
func appendKeyed(m *value.Value, list value.Value) {
	next := 0

	for _, key := range m.Keys() {
		if n, err := strconv.Atoi(key); err == nil && n >= next {
			next = n + 1
		}
	}

	for _, item := range list.Items() {
		if value.Falsy(item) {
			continue
		}

		m.Set(strconv.Itoa(next), item.Clone())
		next++
	}
}

// keyedList returns list as a Map keyed by position.
func keyedList(list value.Value) value.Value {
	items := list.Items()
	entries := make([]value.Entry, len(items))

	for i, item := range items {
		entries[i] = value.E(strconv.Itoa(i), item)
	}

	return value.NewMap(entries...)
}

// isNull reports a scalar explicitly holding nil, which counts as an unset key.
func isNull(v value.Value) bool {
	return v.Kind() == value.Scalar && v.Scalar() == nil
}
