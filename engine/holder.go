package engine

import "sync/atomic"

// Holder is the current Engine of an application. Readers Load it on every
// use, so a rebuilt engine can be installed with Swap while lookups continue.
type Holder struct {
	current atomic.Pointer[Engine]
}

// NewHolder returns a Holder installed with e.
func NewHolder(e *Engine) *Holder {
	h := &Holder{}
	h.current.Store(e)

	return h
}

// Load returns the current engine.
func (h *Holder) Load() *Engine {
	return h.current.Load()
}

// Swap installs e and returns the engine it replaced.
func (h *Holder) Swap(e *Engine) *Engine {
	return h.current.Swap(e)
}

// Nest installs a clone of the current engine and returns it together with a
// function restoring the previous one. Changes made to the nested engine are
// discarded on restore.
func (h *Holder) Nest() (*Engine, func()) {
	previous := h.Load()
	nested := previous.Clone()
	h.Swap(nested)

	return nested, func() {
		h.Swap(previous)
	}
}
