package registry

import (
	"errors"
	"fmt"

	yamlcodec "github.com/0xalexb/hjarta-layers/codec/yaml"
	"github.com/0xalexb/hjarta-layers/value"

	"github.com/goccy/go-yaml"
)

// ErrInvalidDocument is returned by Decode when the YAML does not have the
// expected shape.
var ErrInvalidDocument = errors.New("invalid registry document")

// Decode registers the types and extensions declared in a YAML document:
//
//	extensions:
//	  Versioned:
//	    statics:
//	      Fields: [Version]
//	types:
//	  Base:
//	    statics:
//	      Colors: [blue]
//	  Widget:
//	    parent: Base
//	    extensions: [Versioned]
//	    statics:
//	      Colors: [red, green]
//
// Extensions are registered before types. Declaration order is kept.
func (r *Registry) Decode(data []byte) error {
	docs, err := yamlcodec.DecodeDocuments(data)
	if err != nil {
		return err
	}

	for _, doc := range docs {
		err = r.decodeDocument(doc)
		if err != nil {
			return err
		}
	}

	return nil
}

func (r *Registry) decodeDocument(doc any) error {
	if exts, ok := yamlcodec.Field(doc, "extensions"); ok {
		items, err := mapping(exts, "extensions")
		if err != nil {
			return err
		}

		for _, item := range items {
			name := value.KeyString(item.Key)

			statics, err := decodeStatics(item.Value, name)
			if err != nil {
				return err
			}

			err = r.registerDecodedExtension(name, statics)
			if err != nil {
				return err
			}
		}
	}

	types, ok := yamlcodec.Field(doc, "types")
	if !ok {
		return nil
	}

	items, err := mapping(types, "types")
	if err != nil {
		return err
	}

	for _, item := range items {
		name := value.KeyString(item.Key)

		opts, err := decodeType(item.Value, name)
		if err != nil {
			return err
		}

		err = r.Register(name, opts...)
		if err != nil {
			return err
		}
	}

	return nil
}

func (r *Registry) registerDecodedExtension(name string, statics map[string]value.Value) error {
	err := r.RegisterExtension(name, nil)
	if err != nil {
		return err
	}

	r.extensions[name].statics = statics

	return nil
}

func decodeType(raw any, name string) ([]TypeOption, error) {
	if raw == nil {
		return nil, nil
	}

	if _, err := mapping(raw, name); err != nil {
		return nil, err
	}

	var opts []TypeOption

	if parent, ok := yamlcodec.Field(raw, "parent"); ok {
		parentName, isString := parent.(string)
		if !isString {
			return nil, fmt.Errorf("%w: parent of %s must be a string", ErrInvalidDocument, name)
		}

		opts = append(opts, WithParent(parentName))
	}

	if exts, ok := yamlcodec.Field(raw, "extensions"); ok {
		names, err := yamlcodec.StringList(exts)
		if err != nil {
			return nil, fmt.Errorf("%w: extensions of %s: %w", ErrInvalidDocument, name, err)
		}

		opts = append(opts, WithExtensions(names...))
	}

	statics, err := decodeStatics(raw, name)
	if err != nil {
		return nil, err
	}

	for prop, v := range statics {
		opts = append(opts, WithStatic(prop, v))
	}

	return opts, nil
}

func decodeStatics(raw any, name string) (map[string]value.Value, error) {
	section, ok := yamlcodec.Field(raw, "statics")
	if !ok || section == nil {
		return map[string]value.Value{}, nil
	}

	items, err := mapping(section, name+".statics")
	if err != nil {
		return nil, err
	}

	statics := make(map[string]value.Value, len(items))
	for _, item := range items {
		statics[value.KeyString(item.Key)] = yamlcodec.ToValue(item.Value)
	}

	return statics, nil
}

func mapping(raw any, what string) (yaml.MapSlice, error) {
	items, ok := raw.(yaml.MapSlice)
	if !ok {
		return nil, fmt.Errorf("%w: %s must be a mapping", ErrInvalidDocument, what)
	}

	return items, nil
}
