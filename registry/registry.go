package registry

import (
	"errors"
	"fmt"
	"slices"

	"github.com/0xalexb/hjarta-layers/engine"
	"github.com/0xalexb/hjarta-layers/graph"
	"github.com/0xalexb/hjarta-layers/value"
)

var (
	// ErrEmptyName is returned when a type or extension is registered without a name.
	ErrEmptyName = errors.New("name must not be empty")
	// ErrDuplicateType is returned when a type is registered twice.
	ErrDuplicateType = errors.New("duplicate type")
	// ErrDuplicateExtension is returned when an extension is registered twice.
	ErrDuplicateExtension = errors.New("duplicate extension")
	// ErrUnknownParent is returned by Validate for a parent that was never registered.
	ErrUnknownParent = errors.New("unknown parent type")
	// ErrUnknownExtension is returned by Validate for an extension that was never registered.
	ErrUnknownExtension = errors.New("unknown extension")
	// ErrHierarchyCycle is returned by Validate when a type inherits from itself.
	ErrHierarchyCycle = errors.New("type hierarchy cycle")
)

var _ engine.Sources = (*Registry)(nil)

type typeInfo struct {
	parent     string
	statics    map[string]value.Value
	extensions []string
}

// TypeOption configures a registered type.
type TypeOption func(*typeInfo)

// WithParent sets the type's immediate parent.
func WithParent(parent string) TypeOption {
	return func(t *typeInfo) {
		t.parent = parent
	}
}

// WithStatic declares the static value of property name. raw is converted
// with value.FromRaw.
func WithStatic(name string, raw any) TypeOption {
	return func(t *typeInfo) {
		t.statics[name] = value.FromRaw(raw)
	}
}

// WithExtensions attaches extensions by name, consulted in the given order
// after the type's own statics.
func WithExtensions(names ...string) TypeOption {
	return func(t *typeInfo) {
		t.extensions = append(t.extensions, names...)
	}
}

// Extension is a named bundle of static values attachable to several types.
type Extension struct {
	name    string
	statics map[string]value.Value
}

// Name returns the extension name.
func (x *Extension) Name() string { return x.name }

// Static implements engine.StaticSource. The owning type does not change
// what an extension declares.
func (x *Extension) Static(_, name string) value.Value {
	v, ok := x.statics[name]
	if !ok {
		return value.None()
	}

	return v
}

// Registry maps type names to their declarations.
type Registry struct {
	types      map[string]*typeInfo
	order      []string
	extensions map[string]*Extension
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{
		types:      map[string]*typeInfo{},
		extensions: map[string]*Extension{},
	}
}

// Register declares a type.
func (r *Registry) Register(name string, opts ...TypeOption) error {
	if name == "" {
		return ErrEmptyName
	}

	if _, exists := r.types[name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateType, name)
	}

	info := &typeInfo{statics: map[string]value.Value{}}
	for _, apply := range opts {
		apply(info)
	}

	r.types[name] = info
	r.order = append(r.order, name)

	return nil
}

// RegisterExtension declares an extension with its static values.
func (r *Registry) RegisterExtension(name string, statics map[string]any) error {
	if name == "" {
		return ErrEmptyName
	}

	if _, exists := r.extensions[name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateExtension, name)
	}

	ext := &Extension{name: name, statics: make(map[string]value.Value, len(statics))}
	for prop, raw := range statics {
		ext.statics[prop] = value.FromRaw(raw)
	}

	r.extensions[name] = ext

	return nil
}

// Types returns the registered type names in registration order.
func (r *Registry) Types() []string {
	return slices.Clone(r.order)
}

// Static implements engine.StaticSource.
func (r *Registry) Static(typ, name string) value.Value {
	info, ok := r.types[typ]
	if !ok {
		return value.None()
	}

	v, ok := info.statics[name]
	if !ok {
		return value.None()
	}

	return v
}

// Extras implements engine.ExtraSources. Unknown extensions are skipped;
// Validate reports them.
func (r *Registry) Extras(typ string) []engine.StaticSource {
	info, ok := r.types[typ]
	if !ok {
		return nil
	}

	sources := make([]engine.StaticSource, 0, len(info.extensions))
	for _, name := range info.extensions {
		if ext, ok := r.extensions[name]; ok {
			sources = append(sources, ext)
		}
	}

	return sources
}

// Parent implements engine.Hierarchy.
func (r *Registry) Parent(typ string) (string, bool) {
	info, ok := r.types[typ]
	if !ok || info.parent == "" {
		return "", false
	}

	return info.parent, true
}

// Validate checks that every parent and extension is registered and that the
// hierarchy has no cycle.
func (r *Registry) Validate() error {
	g := graph.New[string]()
	index := make(map[string]int, len(r.order))

	for _, name := range r.order {
		index[name] = g.AddItem(name)
	}

	var errs []error

	for _, name := range r.order {
		info := r.types[name]

		for _, ext := range info.extensions {
			if _, ok := r.extensions[ext]; !ok {
				errs = append(errs, fmt.Errorf("%w: %s on %s", ErrUnknownExtension, ext, name))
			}
		}

		if info.parent == "" {
			continue
		}

		parentIdx, ok := index[info.parent]
		if !ok {
			errs = append(errs, fmt.Errorf("%w: %s of %s", ErrUnknownParent, info.parent, name))

			continue
		}

		err := g.AddEdge(parentIdx, index[name])
		if err != nil {
			return err
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	_, err := g.Sort()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrHierarchyCycle, err)
	}

	return nil
}
