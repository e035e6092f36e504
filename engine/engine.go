package engine

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/0xalexb/hjarta-layers/merge"
	"github.com/0xalexb/hjarta-layers/value"
)

// ErrInheritanceLoop is returned when a type appears twice in its own parent chain.
var ErrInheritanceLoop = errors.New("inheritance loop")

// Ref addresses one property of one type.
type Ref struct {
	Type string
	Name string
}

func (r Ref) String() string {
	return r.Type + "." + r.Name
}

// Layer is a flat map of property values, one per Ref.
type Layer map[Ref]value.Value

// SuppressTable lists the suppression pairs recorded per Ref.
type SuppressTable map[Ref][]merge.Pair

type epoch struct {
	overrides Layer
	suppress  SuppressTable
}

func newEpoch() *epoch {
	return &epoch{overrides: Layer{}, suppress: SuppressTable{}}
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger used for mutation and resolution diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithCache enables memoization of Get results. The cache is dropped on
// every mutation; changes made directly to the Sources are not observed.
func WithCache() Option {
	return func(e *Engine) {
		e.cache = newCache()
	}
}

// Engine holds the layered sources and resolves values from them.
type Engine struct {
	sources Sources
	logger  *slog.Logger
	cache   *cache

	epochs []*epoch // newest first; epochs[0] receives Update and Remove
	layers []Layer  // newest pushed first
}

// New creates an Engine reading static values, extra sources and parents from
// sources. A nil sources behaves as if no type declared anything.
func New(sources Sources, opts ...Option) *Engine {
	if sources == nil {
		sources = noSources{}
	}

	eng := &Engine{
		sources: sources,
		logger:  slog.Default(),
		epochs:  []*epoch{newEpoch()},
	}

	for _, apply := range opts {
		apply(eng)
	}

	return eng
}

type state struct {
	result   value.Value
	suppress []merge.Pair
	visited  map[string]struct{}
}

// fold merges v into the result and reports whether a truthy scalar is now fixed.
func (st *state) fold(v value.Value) (bool, error) {
	err := merge.MergeLowIntoHigh(&st.result, v, st.suppress)
	if err != nil {
		return false, err
	}

	return st.result.Kind() == value.Scalar && !value.Falsy(st.result), nil
}

// Get returns the composite value of the property name on typ, or Absent when
// no source contributes anything.
func (e *Engine) Get(typ, name string, opts Resolution) (value.Value, error) {
	key := cacheKey{ref: Ref{Type: typ, Name: name}, opts: opts}

	if e.cache != nil {
		if v, ok := e.cache.load(key); ok {
			return v, nil
		}
	}

	st := &state{visited: map[string]struct{}{}}

	err := e.resolve(typ, name, opts, st)
	if err != nil {
		return value.None(), fmt.Errorf("resolving %s: %w", key.ref, err)
	}

	if e.cache != nil {
		e.cache.store(key, st.result)
	}

	return st.result, nil
}

func (e *Engine) resolve(typ, name string, opts Resolution, st *state) error {
	if _, seen := st.visited[typ]; seen {
		return fmt.Errorf("%w at %s", ErrInheritanceLoop, typ)
	}

	st.visited[typ] = struct{}{}
	ref := Ref{Type: typ, Name: name}

	for _, ep := range e.epochs {
		if v, ok := ep.overrides[ref]; ok {
			fixed, err := st.fold(v)
			if err != nil || fixed {
				return err
			}
		}

		st.suppress = append(st.suppress, ep.suppress[ref]...)
	}

	for _, layer := range e.layers {
		if v, ok := layer[ref]; ok {
			fixed, err := st.fold(v)
			if err != nil || fixed {
				return err
			}
		}
	}

	sources := []StaticSource{e.sources}
	if !opts.Has(ExcludeExtraSources) {
		sources = append(sources, e.sources.Extras(typ)...)
	}

	for _, src := range sources {
		v := src.Static(typ, name)
		if v.IsAbsent() {
			continue
		}

		fixed, err := st.fold(v)
		if err != nil || fixed {
			return err
		}
	}

	if opts.Has(Uninherited) {
		return nil
	}

	if opts.Has(FirstSet) && !st.result.IsAbsent() {
		return nil
	}

	parent, ok := e.sources.Parent(typ)
	if !ok {
		return nil
	}

	return e.resolve(parent, name, opts, st)
}

// Update sets name on typ in the live epoch. An existing override is kept
// underneath the new value with merge.MergeHighIntoLow.
func (e *Engine) Update(typ, name string, v value.Value) error {
	ref := Ref{Type: typ, Name: name}
	live := e.epochs[0]

	existing, ok := live.overrides[ref]
	if !ok {
		live.overrides[ref] = v.Clone()
	} else {
		merged, err := merge.MergeHighIntoLow(existing, v)
		if err != nil {
			return fmt.Errorf("updating %s: %w", ref, err)
		}

		live.overrides[ref] = merged
	}

	e.invalidate()
	e.logger.Debug("config updated", slog.String("ref", ref.String()))

	return nil
}

// Remove drops entries matching pair from the live override of name on typ
// and records pair so that every lower priority source is filtered the same
// way on later lookups. The suppression is never lifted.
func (e *Engine) Remove(typ, name string, pair merge.Pair) {
	ref := Ref{Type: typ, Name: name}
	live := e.epochs[0]
	pairs := []merge.Pair{pair}

	if existing, ok := live.overrides[ref]; ok {
		switch {
		case existing.IsContainer():
			live.overrides[ref] = merge.Filter(existing, pairs)
		case merge.Matches(pairs, existing):
			delete(live.overrides, ref)
		}
	}

	live.suppress[ref] = append(live.suppress[ref], pair)

	e.invalidate()
	e.logger.Debug("config removed", slog.String("ref", ref.String()), slog.String("mask", pair.String()))
}

// PushManifest adds a new priority tier on top of all existing ones: a
// fragment layer built from fragments and a fresh live epoch carrying
// suppress. Later Update and Remove calls write to the new epoch.
func (e *Engine) PushManifest(fragments Layer, suppress SuppressTable) {
	ep := newEpoch()
	for ref, pairs := range suppress {
		ep.suppress[ref] = append([]merge.Pair(nil), pairs...)
	}

	layer := make(Layer, len(fragments))
	for ref, v := range fragments {
		layer[ref] = v.Clone()
	}

	e.epochs = append([]*epoch{ep}, e.epochs...)
	e.layers = append([]Layer{layer}, e.layers...)

	e.invalidate()
	e.logger.Debug("manifest pushed",
		slog.Int("values", len(layer)),
		slog.Int("suppressions", len(ep.suppress)),
		slog.Int("tiers", len(e.layers)),
	)
}

// Clone returns an independent copy of the engine sharing the same Sources.
// Mutating the copy never affects e.
func (e *Engine) Clone() *Engine {
	out := &Engine{
		sources: e.sources,
		logger:  e.logger,
		epochs:  make([]*epoch, len(e.epochs)),
		layers:  make([]Layer, len(e.layers)),
	}

	if e.cache != nil {
		out.cache = newCache()
	}

	for i, ep := range e.epochs {
		cp := newEpoch()
		for ref, v := range ep.overrides {
			cp.overrides[ref] = v.Clone()
		}

		for ref, pairs := range ep.suppress {
			cp.suppress[ref] = append([]merge.Pair(nil), pairs...)
		}

		out.epochs[i] = cp
	}

	// Fragment layers are never mutated after PushManifest.
	copy(out.layers, e.layers)

	return out
}

func (e *Engine) invalidate() {
	if e.cache != nil {
		e.cache.reset()
	}
}
