package engine

import "github.com/0xalexb/hjarta-layers/value"

// Accessor reads and writes the properties of a single type.
type Accessor struct {
	engine *Engine
	typ    string
}

// For returns an Accessor bound to typ.
func (e *Engine) For(typ string) Accessor {
	return Accessor{engine: e, typ: typ}
}

// Type returns the bound type name.
func (a Accessor) Type() string { return a.typ }

// Get is Engine.Get for the bound type.
func (a Accessor) Get(name string, opts Resolution) (value.Value, error) {
	return a.engine.Get(a.typ, name, opts)
}

// Set is Engine.Update for the bound type.
func (a Accessor) Set(name string, v value.Value) error {
	return a.engine.Update(a.typ, name, v)
}
