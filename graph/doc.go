// Package graph orders items under "must precede" constraints.
//
// It is a Kahn-style topological sort with a deterministic tie-break: nodes
// that become ready in the same round are emitted in the order they were
// added. Configuration fragments declaring before/after relations are fed
// through a Graph so they can be flattened in a stable, reproducible order.
//
//	g := graph.New[string]()
//	a, b := g.AddItem("base"), g.AddItem("site")
//	_ = g.AddEdge(a, b)
//	order, err := g.Sort() // [base site]
package graph
