package value

import (
	"fmt"
	"slices"
	"strings"
)

// Kind identifies which arm of the Value union is populated.
type Kind uint8

// Value kinds. The zero Kind is Absent.
const (
	Absent Kind = iota
	Scalar
	List
	Map
)

func (k Kind) String() string {
	switch k {
	case Absent:
		return "absent"
	case Scalar:
		return "scalar"
	case List:
		return "list"
	case Map:
		return "map"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Entry is one key/value pair of a Map.
type Entry struct {
	Key   string
	Value Value
}

// Value is a configuration value: absent, an opaque scalar, an ordered list
// or an insertion-ordered map. The zero Value is Absent.
//
// Copies of a Value may share storage. Set, Append and At copy the slice they
// touch before writing, so mutating one copy never shows through another.
// Values are not safe for concurrent mutation.
type Value struct {
	kind    Kind
	scalar  any
	items   []Value
	entries []Entry
}

// None returns the Absent value.
func None() Value {
	return Value{}
}

// Of wraps an opaque scalar. Numbers are normalized; containers should go
// through FromRaw instead.
func Of(v any) Value {
	return Value{kind: Scalar, scalar: normalizeNumber(v)}
}

// NewList builds a List from items, in order.
func NewList(items ...Value) Value {
	list := Value{kind: List, items: make([]Value, 0, len(items))}
	for _, item := range items {
		list.items = append(list.items, item.Clone())
	}

	return list
}

// NewMap builds a Map from entries. A later duplicate key replaces the
// earlier entry in place.
func NewMap(entries ...Entry) Value {
	m := Value{kind: Map, entries: make([]Entry, 0, len(entries))}
	for _, e := range entries {
		m.put(e.Key, e.Value.Clone())
	}

	return m
}

// E is a shorthand Entry constructor.
func E(key string, v Value) Entry {
	return Entry{Key: key, Value: v}
}

func (v Value) Kind() Kind { return v.kind }

// IsAbsent reports whether no value is present.
func (v Value) IsAbsent() bool { return v.kind == Absent }

// IsContainer reports whether v is a List or a Map.
func (v Value) IsContainer() bool { return v.kind == List || v.kind == Map }

// Scalar returns the scalar payload, or nil for other kinds.
func (v Value) Scalar() any {
	if v.kind != Scalar {
		return nil
	}

	return v.scalar
}

// Len returns the number of list items or map entries.
func (v Value) Len() int {
	switch v.kind {
	case List:
		return len(v.items)
	case Map:
		return len(v.entries)
	default:
		return 0
	}
}

// Items returns the list items. The slice must not be modified.
func (v Value) Items() []Value {
	if v.kind != List {
		return nil
	}

	return v.items
}

// Entries returns the map entries in insertion order. The slice must not be modified.
func (v Value) Entries() []Entry {
	if v.kind != Map {
		return nil
	}

	return v.entries
}

// Keys returns the map keys in insertion order.
func (v Value) Keys() []string {
	if v.kind != Map {
		return nil
	}

	keys := make([]string, len(v.entries))
	for i, e := range v.entries {
		keys[i] = e.Key
	}

	return keys
}

// Get returns the map entry at key.
func (v Value) Get(key string) (Value, bool) {
	if v.kind != Map {
		return Value{}, false
	}

	i := v.find(key)
	if i < 0 {
		return Value{}, false
	}

	return v.entries[i].Value, true
}

// At returns a pointer to the stored map entry at key so it can be merged in
// place. The entries are copied first, so writes through the pointer reach
// only v.
func (v *Value) At(key string) (*Value, bool) {
	if v.kind != Map {
		return nil, false
	}

	i := v.find(key)
	if i < 0 {
		return nil, false
	}

	v.entries = slices.Clone(v.entries)

	return &v.entries[i].Value, true
}

// Set stores x at key, keeping the original position of an existing key.
// A receiver that is not a Map is reset to an empty Map first.
func (v *Value) Set(key string, x Value) {
	if v.kind != Map {
		*v = Value{kind: Map}
	}

	if i := v.find(key); i >= 0 {
		v.entries = slices.Clone(v.entries)
		v.entries[i].Value = x

		return
	}

	v.entries = append(slices.Clip(v.entries), Entry{Key: key, Value: x})
}

// put is Set for maps under construction whose storage is not shared.
func (v *Value) put(key string, x Value) {
	if i := v.find(key); i >= 0 {
		v.entries[i].Value = x

		return
	}

	v.entries = append(v.entries, Entry{Key: key, Value: x})
}

func (v Value) find(key string) int {
	return slices.IndexFunc(v.entries, func(e Entry) bool { return e.Key == key })
}

// Append adds x to the end of a List. A receiver that is not a List is
// reset to an empty List first.
func (v *Value) Append(x Value) {
	if v.kind != List {
		*v = Value{kind: List}
	}

	v.items = append(slices.Clip(v.items), x)
}

// Clone returns a deep copy of v.
func (v Value) Clone() Value {
	switch v.kind {
	case List:
		out := Value{kind: List, items: make([]Value, len(v.items))}
		for i, item := range v.items {
			out.items[i] = item.Clone()
		}

		return out
	case Map:
		out := Value{kind: Map, entries: make([]Entry, len(v.entries))}
		for i, e := range v.entries {
			out.entries[i] = Entry{Key: e.Key, Value: e.Value.Clone()}
		}

		return out
	default:
		return v
	}
}

// Filter returns a copy of a container keeping only the entries for which
// keep returns true. For List items the key is empty and positional is true.
func (v Value) Filter(keep func(key string, positional bool, item Value) bool) Value {
	switch v.kind {
	case List:
		out := Value{kind: List, items: make([]Value, 0, len(v.items))}
		for _, item := range v.items {
			if keep("", true, item) {
				out.items = append(out.items, item.Clone())
			}
		}

		return out
	case Map:
		out := Value{kind: Map, entries: make([]Entry, 0, len(v.entries))}
		for _, e := range v.entries {
			if keep(e.Key, false, e.Value) {
				out.put(e.Key, e.Value.Clone())
			}
		}

		return out
	default:
		return v
	}
}

// Interface converts v back to plain Go values: []any for lists,
// map[string]any for maps, the payload for scalars and nil for Absent.
func (v Value) Interface() any {
	switch v.kind {
	case Scalar:
		return v.scalar
	case List:
		out := make([]any, len(v.items))
		for i, item := range v.items {
			out[i] = item.Interface()
		}

		return out
	case Map:
		out := make(map[string]any, len(v.entries))
		for _, e := range v.entries {
			out[e.Key] = e.Value.Interface()
		}

		return out
	default:
		return nil
	}
}

// String renders v in a compact flow form, e.g. {a: 1, b: [x, y]}.
func (v Value) String() string {
	var sb strings.Builder

	v.writeTo(&sb)

	return sb.String()
}

func (v Value) writeTo(sb *strings.Builder) {
	switch v.kind {
	case Absent:
		sb.WriteString("<absent>")
	case Scalar:
		if v.scalar == nil {
			sb.WriteString("null")

			return
		}

		fmt.Fprint(sb, v.scalar)
	case List:
		sb.WriteByte('[')

		for i, item := range v.items {
			if i > 0 {
				sb.WriteString(", ")
			}

			item.writeTo(sb)
		}

		sb.WriteByte(']')
	case Map:
		sb.WriteByte('{')

		for i, e := range v.entries {
			if i > 0 {
				sb.WriteString(", ")
			}

			sb.WriteString(e.Key)
			sb.WriteString(": ")
			e.Value.writeTo(sb)
		}

		sb.WriteByte('}')
	}
}
