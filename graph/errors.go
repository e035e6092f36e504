package graph

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnknownNode is returned when an edge references a node that was never added.
	ErrUnknownNode = errors.New("unknown node")
	// ErrCycle is returned when the graph cannot be fully ordered.
	ErrCycle = errors.New("cyclic dependency")
)

// ReferenceError reports an edge endpoint that could not be resolved.
type ReferenceError struct {
	Ref any
}

func (e *ReferenceError) Error() string {
	return fmt.Sprintf("%s: %v", ErrUnknownNode, e.Ref)
}

func (e *ReferenceError) Unwrap() error { return ErrUnknownNode }

// Edge is a "From must precede To" constraint between node indices.
type Edge struct {
	From int
	To   int
}

// CycleError carries the part of the graph that could not be ordered: the
// remaining nodes keyed by original index, and the edges between them.
type CycleError[T any] struct {
	Nodes map[int]T
	Edges []Edge
}

func (e *CycleError[T]) Error() string {
	edges := make([]string, len(e.Edges))
	for i, edge := range e.Edges {
		edges[i] = fmt.Sprintf("%v -> %v", e.Nodes[edge.From], e.Nodes[edge.To])
	}

	return fmt.Sprintf("%s among %d nodes: %s", ErrCycle, len(e.Nodes), strings.Join(edges, ", "))
}

func (e *CycleError[T]) Unwrap() error { return ErrCycle }
