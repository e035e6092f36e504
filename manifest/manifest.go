package manifest

import (
	"fmt"
	"log/slog"

	"github.com/0xalexb/hjarta-layers/engine"
	"github.com/0xalexb/hjarta-layers/merge"
)

// Manifest is a set of ordered fragments flattened into one priority tier.
type Manifest struct {
	Fragments []*Fragment
	Values    engine.Layer
	Suppress  engine.SuppressTable
}

// Build orders fragments and flattens them.
func Build(fragments []*Fragment) (*Manifest, error) {
	sorted, err := Order(fragments)
	if err != nil {
		return nil, err
	}

	values, suppress, err := Flatten(sorted)
	if err != nil {
		return nil, err
	}

	return &Manifest{
		Fragments: sorted,
		Values:    values,
		Suppress:  suppress,
	}, nil
}

// Flatten folds already ordered fragments into one layer. On a clash the
// later fragment is merged over the earlier one with merge.MergeHighIntoLow.
// Suppressions of all fragments are collected in order.
func Flatten(sorted []*Fragment) (engine.Layer, engine.SuppressTable, error) {
	values := engine.Layer{}
	suppress := engine.SuppressTable{}

	for _, frag := range sorted {
		for ref, v := range frag.Values {
			existing, ok := values[ref]
			if !ok {
				values[ref] = v.Clone()

				continue
			}

			merged, err := merge.MergeHighIntoLow(existing, v)
			if err != nil {
				return nil, nil, fmt.Errorf("fragment %s: %s: %w", frag.Name, ref, err)
			}

			values[ref] = merged
		}

		for ref, pairs := range frag.Suppress {
			suppress[ref] = append(suppress[ref], pairs...)
		}
	}

	return values, suppress, nil
}

// Names returns the fragment names in applied order.
func (m *Manifest) Names() []string {
	names := make([]string, len(m.Fragments))
	for i, frag := range m.Fragments {
		names[i] = frag.Name
	}

	return names
}

// Apply pushes the manifest onto e as a new highest priority tier.
func (m *Manifest) Apply(e *engine.Engine) {
	e.PushManifest(m.Values, m.Suppress)
}

// LogValue implements slog.LogValuer.
func (m *Manifest) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("fragments", len(m.Fragments)),
		slog.Int("values", len(m.Values)),
		slog.Int("suppressions", len(m.Suppress)),
	)
}
