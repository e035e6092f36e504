package engine

import "github.com/0xalexb/hjarta-layers/value"

// StaticSource supplies a type's declared value for a property, or Absent.
type StaticSource interface {
	Static(typ, name string) value.Value
}

// StaticSourceFunc adapts a function to StaticSource.
type StaticSourceFunc func(typ, name string) value.Value

// Static implements StaticSource.
func (f StaticSourceFunc) Static(typ, name string) value.Value {
	return f(typ, name)
}

// ExtraSources lists the additional providers attached to a type, such as
// extensions, in the order they are consulted.
type ExtraSources interface {
	Extras(typ string) []StaticSource
}

// Hierarchy returns the immediate parent of a type, if any.
type Hierarchy interface {
	Parent(typ string) (string, bool)
}

// Sources bundles the collaborators an Engine reads from.
type Sources interface {
	StaticSource
	ExtraSources
	Hierarchy
}

type noSources struct{}

func (noSources) Static(string, string) value.Value { return value.None() }
func (noSources) Extras(string) []StaticSource      { return nil }
func (noSources) Parent(string) (string, bool)      { return "", false }
