package manifest

import (
	"errors"
	"fmt"
	"path"
	"slices"

	"github.com/0xalexb/hjarta-layers/graph"
)

// ErrDuplicateFragment is returned when two fragments share a name.
var ErrDuplicateFragment = errors.New("duplicate fragment name")

const wildcard = "*"

// Order sorts fragments so that every before/after constraint holds. Fragments
// without constraints between them keep their input order.
//
// A constraint pattern matches fragment names with path.Match. The bare "*"
// pattern matches every other fragment except those using "*" on the same
// side, so two "after: *" fragments do not depend on each other.
func Order(fragments []*Fragment) ([]*Fragment, error) {
	g := graph.New[*Fragment]()
	seen := make(map[string]struct{}, len(fragments))

	for _, frag := range fragments {
		if _, dup := seen[frag.Name]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateFragment, frag.Name)
		}

		seen[frag.Name] = struct{}{}
		g.AddItem(frag)
	}

	for i, frag := range fragments {
		for _, pattern := range frag.After {
			err := addEdges(g, fragments, i, pattern, func(f *Fragment) []string { return f.After }, false)
			if err != nil {
				return nil, fmt.Errorf("fragment %s after %q: %w", frag.Name, pattern, err)
			}
		}

		for _, pattern := range frag.Before {
			err := addEdges(g, fragments, i, pattern, func(f *Fragment) []string { return f.Before }, true)
			if err != nil {
				return nil, fmt.Errorf("fragment %s before %q: %w", frag.Name, pattern, err)
			}
		}
	}

	sorted, err := g.Sort()
	if err != nil {
		return nil, fmt.Errorf("ordering fragments: %w", err)
	}

	return sorted, nil
}

// addEdges links fragment i with every other fragment matched by pattern.
// With before set, i precedes the matches; otherwise the matches precede i.
func addEdges(
	g *graph.Graph[*Fragment],
	fragments []*Fragment,
	i int,
	pattern string,
	side func(*Fragment) []string,
	before bool,
) error {
	for j, other := range fragments {
		if j == i {
			continue
		}

		if pattern == wildcard && slices.Contains(side(other), wildcard) {
			continue
		}

		matched, err := path.Match(pattern, other.Name)
		if err != nil {
			return err
		}

		if !matched {
			continue
		}

		if before {
			err = g.AddEdge(i, j)
		} else {
			err = g.AddEdge(j, i)
		}

		if err != nil {
			return err
		}
	}

	return nil
}
