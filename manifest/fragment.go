package manifest

import (
	"errors"
	"fmt"

	yamlcodec "github.com/0xalexb/hjarta-layers/codec/yaml"
	"github.com/0xalexb/hjarta-layers/engine"
	"github.com/0xalexb/hjarta-layers/merge"
	"github.com/0xalexb/hjarta-layers/value"

	"github.com/goccy/go-yaml"
)

// ErrInvalidFragment is returned when a fragment document has the wrong shape.
var ErrInvalidFragment = errors.New("invalid fragment")

// Fragment is one unit of configuration with its ordering constraints.
type Fragment struct {
	Name   string
	Source string

	// Before and After hold name patterns (path.Match syntax) of fragments
	// this one must precede or follow.
	Before []string
	After  []string

	Values   engine.Layer
	Suppress engine.SuppressTable
}

func (f *Fragment) String() string {
	return f.Name
}

// Decode parses every document in data as a fragment. Documents without a
// name are called "<source>#<n>", n counting documents from 1.
func Decode(source string, data []byte) ([]*Fragment, error) {
	docs, err := yamlcodec.DecodeDocuments(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", source, err)
	}

	fragments := make([]*Fragment, 0, len(docs))

	for i, doc := range docs {
		frag, err := decodeFragment(doc)
		if err != nil {
			return nil, fmt.Errorf("%s document %d: %w", source, i+1, err)
		}

		frag.Source = source
		if frag.Name == "" {
			frag.Name = fmt.Sprintf("%s#%d", source, i+1)
		}

		fragments = append(fragments, frag)
	}

	return fragments, nil
}

func decodeFragment(doc any) (*Fragment, error) {
	if _, ok := doc.(yaml.MapSlice); !ok {
		return nil, fmt.Errorf("%w: document must be a mapping", ErrInvalidFragment)
	}

	frag := &Fragment{
		Values:   engine.Layer{},
		Suppress: engine.SuppressTable{},
	}

	if raw, ok := yamlcodec.Field(doc, "name"); ok && raw != nil {
		name, isString := raw.(string)
		if !isString {
			return nil, fmt.Errorf("%w: name must be a string", ErrInvalidFragment)
		}

		frag.Name = name
	}

	var err error

	if raw, ok := yamlcodec.Field(doc, "before"); ok {
		frag.Before, err = yamlcodec.StringList(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: before: %w", ErrInvalidFragment, err)
		}
	}

	if raw, ok := yamlcodec.Field(doc, "after"); ok {
		frag.After, err = yamlcodec.StringList(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: after: %w", ErrInvalidFragment, err)
		}
	}

	if raw, ok := yamlcodec.Field(doc, "config"); ok && raw != nil {
		err = frag.decodeConfig(raw)
		if err != nil {
			return nil, err
		}
	}

	if raw, ok := yamlcodec.Field(doc, "remove"); ok && raw != nil {
		err = frag.decodeRemovals(raw)
		if err != nil {
			return nil, err
		}
	}

	return frag, nil
}

func (f *Fragment) decodeConfig(raw any) error {
	types, ok := raw.(yaml.MapSlice)
	if !ok {
		return fmt.Errorf("%w: config must map type names to properties", ErrInvalidFragment)
	}

	for _, typeItem := range types {
		typ := value.KeyString(typeItem.Key)

		props, ok := typeItem.Value.(yaml.MapSlice)
		if !ok {
			return fmt.Errorf("%w: config of %s must be a mapping", ErrInvalidFragment, typ)
		}

		for _, prop := range props {
			ref := engine.Ref{Type: typ, Name: value.KeyString(prop.Key)}
			v := yamlcodec.ToValue(prop.Value)

			existing, seen := f.Values[ref]
			if !seen {
				f.Values[ref] = v

				continue
			}

			merged, err := merge.MergeHighIntoLow(existing, v)
			if err != nil {
				return fmt.Errorf("config %s: %w", ref, err)
			}

			f.Values[ref] = merged
		}
	}

	return nil
}

func (f *Fragment) decodeRemovals(raw any) error {
	items, ok := raw.([]any)
	if !ok {
		return fmt.Errorf("%w: remove must be a list", ErrInvalidFragment)
	}

	for i, item := range items {
		ref, pair, err := decodeRemoval(item)
		if err != nil {
			return fmt.Errorf("remove entry %d: %w", i+1, err)
		}

		f.Suppress[ref] = append(f.Suppress[ref], pair)
	}

	return nil
}

// decodeRemoval reads {type, property, key?, value?}. A missing key or value
// is a wildcard.
func decodeRemoval(raw any) (engine.Ref, merge.Pair, error) {
	if _, ok := raw.(yaml.MapSlice); !ok {
		return engine.Ref{}, merge.Pair{}, fmt.Errorf("%w: removal must be a mapping", ErrInvalidFragment)
	}

	typ, err := requiredString(raw, "type")
	if err != nil {
		return engine.Ref{}, merge.Pair{}, err
	}

	prop, err := requiredString(raw, "property")
	if err != nil {
		return engine.Ref{}, merge.Pair{}, err
	}

	ref := engine.Ref{Type: typ, Name: prop}

	rawKey, hasKey := yamlcodec.Field(raw, "key")
	rawValue, hasValue := yamlcodec.Field(raw, "value")

	switch {
	case hasKey && hasValue:
		return ref, merge.MatchEntry(value.KeyString(rawKey), yamlcodec.ToValue(rawValue)), nil
	case hasKey:
		return ref, merge.MatchKey(value.KeyString(rawKey)), nil
	case hasValue:
		return ref, merge.MatchValue(yamlcodec.ToValue(rawValue)), nil
	default:
		return ref, merge.AnyPair(), nil
	}
}

func requiredString(raw any, field string) (string, error) {
	v, ok := yamlcodec.Field(raw, field)
	if !ok {
		return "", fmt.Errorf("%w: %s is required", ErrInvalidFragment, field)
	}

	s, isString := v.(string)
	if !isString || s == "" {
		return "", fmt.Errorf("%w: %s must be a non-empty string", ErrInvalidFragment, field)
	}

	return s, nil
}
