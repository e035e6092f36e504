package graph

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSort_Chain(t *testing.T) {
	t.Parallel()

	g := New[string]()
	a, b, c := g.AddItem("A"), g.AddItem("B"), g.AddItem("C")

	require.NoError(t, g.AddEdge(a, b))
	require.NoError(t, g.AddEdge(b, c))

	order, err := g.Sort()
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "C"}, order)
}

func TestSort_ReversedChain(t *testing.T) {
	t.Parallel()

	g := New[string]()
	a, b, c := g.AddItem("A"), g.AddItem("B"), g.AddItem("C")

	require.NoError(t, g.AddEdge(c, b))
	require.NoError(t, g.AddEdge(b, a))

	order, err := g.Sort()
	require.NoError(t, err)
	assert.Equal(t, []string{"C", "B", "A"}, order)
}

func TestSort_NoEdgesKeepsInsertionOrder(t *testing.T) {
	t.Parallel()

	g := New[string]()
	g.AddItem("A")
	g.AddItem("B")
	g.AddItem("C")

	order, err := g.Sort()
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "C"}, order)
}

func TestSort_RoundsEmitReadyNodesByIndex(t *testing.T) {
	t.Parallel()

	g := New[string]()
	a, _, c, d := g.AddItem("A"), g.AddItem("B"), g.AddItem("C"), g.AddItem("D")

	// D is ready in the first round together with B; A waits on D, C waits on A.
	require.NoError(t, g.AddEdge(d, a))
	require.NoError(t, g.AddEdge(a, c))

	order, err := g.Sort()
	require.NoError(t, err)
	assert.Equal(t, []string{"B", "D", "A", "C"}, order)
}

func TestSort_Empty(t *testing.T) {
	t.Parallel()

	order, err := New[int]().Sort()
	require.NoError(t, err)
	assert.Empty(t, order)
}

func TestSort_Cycle(t *testing.T) {
	t.Parallel()

	g := New[string]()
	a, b := g.AddItem("A"), g.AddItem("B")

	require.NoError(t, g.AddEdge(a, b))
	require.NoError(t, g.AddEdge(b, a))

	order, err := g.Sort()
	require.Error(t, err)
	assert.Nil(t, order)
	require.ErrorIs(t, err, ErrCycle)

	var cycle *CycleError[string]
	require.True(t, errors.As(err, &cycle))
	assert.Equal(t, map[int]string{0: "A", 1: "B"}, cycle.Nodes)
	assert.Equal(t, []Edge{{From: 0, To: 1}, {From: 1, To: 0}}, cycle.Edges)
	assert.Contains(t, err.Error(), "A -> B")
}

func TestSort_CycleResidualExcludesOrderedNodes(t *testing.T) {
	t.Parallel()

	g := New[string]()
	root, x, y := g.AddItem("root"), g.AddItem("X"), g.AddItem("Y")

	require.NoError(t, g.AddEdge(root, x))
	require.NoError(t, g.AddEdge(x, y))
	require.NoError(t, g.AddEdge(y, x))

	_, err := g.Sort()

	var cycle *CycleError[string]
	require.True(t, errors.As(err, &cycle))
	assert.Equal(t, map[int]string{1: "X", 2: "Y"}, cycle.Nodes)
}

func TestSort_SelfLoopIsCycle(t *testing.T) {
	t.Parallel()

	g := New[string]()
	a := g.AddItem("A")
	require.NoError(t, g.AddEdge(a, a))

	_, err := g.Sort()
	require.ErrorIs(t, err, ErrCycle)
}

func TestSort_IsRepeatable(t *testing.T) {
	t.Parallel()

	g := New[string]()
	a, b := g.AddItem("A"), g.AddItem("B")
	require.NoError(t, g.AddEdge(b, a))

	first, err := g.Sort()
	require.NoError(t, err)

	second, err := g.Sort()
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, []string{"B", "A"}, first)
}

func TestAddEdge_UnknownIndex(t *testing.T) {
	t.Parallel()

	g := New[string]()
	g.AddItem("A")

	err := g.AddEdge(0, 3)
	require.ErrorIs(t, err, ErrUnknownNode)

	err = g.AddEdge(-1, 0)
	require.ErrorIs(t, err, ErrUnknownNode)
}

type fragment struct {
	name string
}

func TestAddEdgeItems_ReferenceIdentity(t *testing.T) {
	t.Parallel()

	// Two distinct items with equal contents.
	first, second := &fragment{name: "dup"}, &fragment{name: "dup"}

	g := New[*fragment]()
	g.AddItem(first)
	g.AddItem(second)

	require.NoError(t, g.AddEdgeItems(second, first))

	order, err := g.Sort()
	require.NoError(t, err)
	require.Len(t, order, 2)
	assert.Same(t, second, order[0])
	assert.Same(t, first, order[1])

	err = g.AddEdgeItems(first, &fragment{name: "dup"})
	require.ErrorIs(t, err, ErrUnknownNode)

	var ref *ReferenceError
	require.True(t, errors.As(err, &ref))
}

func TestItems_ReturnsCopy(t *testing.T) {
	t.Parallel()

	g := New[string]()
	g.AddItem("A")

	items := g.Items()
	items[0] = "Z"

	assert.Equal(t, []string{"A"}, g.Items())
	assert.Equal(t, 1, g.Len())
}
