package merge

import "github.com/0xalexb/hjarta-layers/value"

// Pair is a suppression mask. Each side is either a concrete key or value, or
// a wildcard matching anything. The zero Pair matches everything.
type Pair struct {
	key      string
	val      value.Value
	hasKey   bool
	hasValue bool
}

// AnyPair returns a pair with both sides wildcarded.
func AnyPair() Pair { return Pair{} }

// MatchKey returns a pair matching map entries at key, whatever their value.
func MatchKey(key string) Pair {
	return Pair{key: key, hasKey: true}
}

// MatchValue returns a pair matching any entry or scalar equal to v.
func MatchValue(v value.Value) Pair {
	return Pair{val: v.Clone(), hasValue: true}
}

// MatchEntry returns a pair matching map entries at key equal to v.
func MatchEntry(key string, v value.Value) Pair {
	return Pair{key: key, val: v.Clone(), hasKey: true, hasValue: true}
}

// Key returns the key side and whether it is concrete.
func (p Pair) Key() (string, bool) { return p.key, p.hasKey }

// Value returns the value side and whether it is concrete.
func (p Pair) Value() (value.Value, bool) { return p.val, p.hasValue }

func (p Pair) String() string {
	key, val := "*", "*"
	if p.hasKey {
		key = p.key
	}

	if p.hasValue {
		val = p.val.String()
	}

	return "(" + key + ", " + val + ")"
}

func (p Pair) matchesValue(v value.Value) bool {
	return !p.hasValue || value.Equal(p.val, v)
}

func (p Pair) matchesEntry(key string, v value.Value) bool {
	return (!p.hasKey || p.key == key) && p.matchesValue(v)
}

// Matches reports whether a scalar (or any whole value) is masked by one of
// pairs. Only the value side of each pair is considered.
func Matches(pairs []Pair, v value.Value) bool {
	for _, p := range pairs {
		if p.matchesValue(v) {
			return true
		}
	}

	return false
}

// Filter returns v without the entries masked by pairs. Map entries must
// match on key and value, List entries on value only. Scalars are returned
// as is; use Matches for them.
func Filter(v value.Value, pairs []Pair) value.Value {
	if len(pairs) == 0 || !v.IsContainer() {
		return v
	}

	return v.Filter(func(key string, positional bool, item value.Value) bool {
		for _, p := range pairs {
			if positional && p.matchesValue(item) {
				return false
			}

			if !positional && p.matchesEntry(key, item) {
				return false
			}
		}

		return true
	})
}
