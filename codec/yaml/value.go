package yaml

import (
	"errors"
	"fmt"

	"github.com/0xalexb/hjarta-layers/value"

	"github.com/goccy/go-yaml"
)

// ErrNotString is returned by StringList for anything but strings.
var ErrNotString = errors.New("expected a string or a list of strings")

// DecodeDocuments decodes every document of a YAML stream. Mappings are
// decoded as yaml.MapSlice so key order is kept. Empty documents are skipped.
func DecodeDocuments(data []byte) ([]any, error) {
	file, err := parseFile(data)
	if err != nil {
		return nil, err
	}

	var docs []any

	for i, doc := range file.Docs {
		var out any

		err = decodeNode(doc.Body, &out, yaml.UseOrderedMap())
		if err != nil {
			return nil, fmt.Errorf("decoding document %d: %w", i+1, err)
		}

		if out == nil {
			continue
		}

		docs = append(docs, out)
	}

	return docs, nil
}

// DecodeValues decodes every document of a YAML stream into a Value.
func DecodeValues(data []byte) ([]value.Value, error) {
	docs, err := DecodeDocuments(data)
	if err != nil {
		return nil, err
	}

	values := make([]value.Value, len(docs))
	for i, doc := range docs {
		values[i] = ToValue(doc)
	}

	return values, nil
}

// ToValue converts decoded YAML into a Value. Sequences become Lists and
// ordered mappings are classified with value.Classify, so a mapping keyed
// 0..n-1 is a List.
func ToValue(raw any) value.Value {
	switch x := raw.(type) {
	case yaml.MapSlice:
		entries := make([]value.RawEntry, len(x))
		for i, item := range x {
			entries[i] = value.RawEntry{Key: item.Key, Value: ToValue(item.Value)}
		}

		return value.Classify(entries)
	case []any:
		items := make([]value.Value, len(x))
		for i, item := range x {
			items[i] = ToValue(item)
		}

		return value.NewList(items...)
	default:
		return value.FromRaw(raw)
	}
}

// Field returns the value at key of a decoded mapping.
func Field(doc any, key string) (any, bool) {
	ms, ok := doc.(yaml.MapSlice)
	if !ok {
		return nil, false
	}

	for _, item := range ms {
		if value.KeyString(item.Key) == key {
			return item.Value, true
		}
	}

	return nil, false
}

// FromValue converts a Value into data goccy/go-yaml marshals with the map
// order preserved.
func FromValue(v value.Value) any {
	switch v.Kind() {
	case value.List:
		out := make([]any, v.Len())
		for i, item := range v.Items() {
			out[i] = FromValue(item)
		}

		return out
	case value.Map:
		out := make(yaml.MapSlice, 0, v.Len())
		for _, e := range v.Entries() {
			out = append(out, yaml.MapItem{Key: e.Key, Value: FromValue(e.Value)})
		}

		return out
	default:
		return v.Scalar()
	}
}

// Encode renders v as a YAML document.
func Encode(v value.Value) ([]byte, error) {
	data, err := yaml.Marshal(FromValue(v))
	if err != nil {
		return nil, fmt.Errorf("encoding value: %w", err)
	}

	return data, nil
}

// StringList accepts either a single string or a sequence of strings.
func StringList(raw any) ([]string, error) {
	switch x := raw.(type) {
	case nil:
		return nil, nil
	case string:
		return []string{x}, nil
	case []any:
		out := make([]string, len(x))
		for i, item := range x {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("%w: entry %d is %T", ErrNotString, i, item)
			}

			out[i] = s
		}

		return out, nil
	default:
		return nil, fmt.Errorf("%w: got %T", ErrNotString, raw)
	}
}
