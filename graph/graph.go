package graph

import "slices"

// Graph is a set of items with "must precede" constraints between them.
// Items are addressed by the index AddItem returned; they do not need to be
// distinct by value.
type Graph[T comparable] struct {
	items []T
	preds []map[int]struct{}
}

// New returns an empty graph.
func New[T comparable]() *Graph[T] {
	return &Graph[T]{}
}

// Len returns the number of items.
func (g *Graph[T]) Len() int { return len(g.items) }

// Items returns the items in insertion order.
func (g *Graph[T]) Items() []T {
	return slices.Clone(g.items)
}

// AddItem appends item and returns its index.
func (g *Graph[T]) AddItem(item T) int {
	g.items = append(g.items, item)
	g.preds = append(g.preds, map[int]struct{}{})

	return len(g.items) - 1
}

// AddEdge records that the node at index from precedes the node at index to.
func (g *Graph[T]) AddEdge(from, to int) error {
	if from < 0 || from >= len(g.items) {
		return &ReferenceError{Ref: from}
	}

	if to < 0 || to >= len(g.items) {
		return &ReferenceError{Ref: to}
	}

	g.preds[to][from] = struct{}{}

	return nil
}

// AddEdgeItems is AddEdge with both endpoints looked up by identity. The
// first index holding an equal item is used, so pointer items compare by
// reference.
func (g *Graph[T]) AddEdgeItems(from, to T) error {
	fromIdx := slices.Index(g.items, from)
	if fromIdx < 0 {
		return &ReferenceError{Ref: from}
	}

	toIdx := slices.Index(g.items, to)
	if toIdx < 0 {
		return &ReferenceError{Ref: to}
	}

	return g.AddEdge(fromIdx, toIdx)
}

// Sort returns the items in an order that satisfies every edge.
//
// Each round emits every node with no outstanding predecessor, in ascending
// insertion index, then drops them from the remaining predecessor sets.
// Unconstrained nodes therefore keep their insertion order. If a round finds
// nothing ready, Sort returns a *CycleError holding the unresolved subgraph.
func (g *Graph[T]) Sort() ([]T, error) {
	remaining := make(map[int]map[int]struct{}, len(g.items))
	for i, preds := range g.preds {
		remaining[i] = make(map[int]struct{}, len(preds))
		for p := range preds {
			remaining[i][p] = struct{}{}
		}
	}

	out := make([]T, 0, len(g.items))

	for len(remaining) > 0 {
		var ready []int

		for i, preds := range remaining {
			if len(preds) == 0 {
				ready = append(ready, i)
			}
		}

		if len(ready) == 0 {
			return nil, g.residual(remaining)
		}

		slices.Sort(ready)

		for _, i := range ready {
			out = append(out, g.items[i])
			delete(remaining, i)
		}

		for _, preds := range remaining {
			for _, i := range ready {
				delete(preds, i)
			}
		}
	}

	return out, nil
}

func (g *Graph[T]) residual(remaining map[int]map[int]struct{}) *CycleError[T] {
	cycle := &CycleError[T]{Nodes: make(map[int]T, len(remaining))}

	for i, preds := range remaining {
		cycle.Nodes[i] = g.items[i]
		for p := range preds {
			cycle.Edges = append(cycle.Edges, Edge{From: p, To: i})
		}
	}

	slices.SortFunc(cycle.Edges, func(a, b Edge) int {
		if a.From != b.From {
			return a.From - b.From
		}

		return a.To - b.To
	})

	return cycle
}
