package value_test

import (
	"encoding/json"
	"testing"

	"github.com/0xalexb/hjarta-layers/value"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var equalValues = cmp.Comparer(value.Equal)

func TestFalsy(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name  string
		value value.Value
		falsy bool
	}{
		{name: "absent", value: value.None(), falsy: true},
		{name: "nil scalar", value: value.Of(nil), falsy: true},
		{name: "false", value: value.Of(false), falsy: true},
		{name: "true", value: value.Of(true), falsy: false},
		{name: "empty string", value: value.Of(""), falsy: true},
		{name: "string", value: value.Of("x"), falsy: false},
		{name: "string zero is truthy", value: value.Of("0"), falsy: false},
		{name: "int zero", value: value.Of(0), falsy: true},
		{name: "uint zero", value: value.Of(uint8(0)), falsy: true},
		{name: "float zero", value: value.Of(0.0), falsy: true},
		{name: "int", value: value.Of(7), falsy: false},
		{name: "empty list", value: value.NewList(), falsy: true},
		{name: "list", value: value.NewList(value.Of("a")), falsy: false},
		{name: "empty map", value: value.NewMap(), falsy: true},
		{name: "map with falsy entry", value: value.NewMap(value.E("a", value.Of(""))), falsy: false},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, testCase.falsy, value.Falsy(testCase.value))
		})
	}
}

func TestClassify(t *testing.T) {
	t.Parallel()

	t.Run("sequential integer keys make a list", func(t *testing.T) {
		t.Parallel()

		got := value.Classify([]value.RawEntry{
			{Key: 0, Value: "a"},
			{Key: uint64(1), Value: "b"},
		})

		require.Equal(t, value.List, got.Kind())
		assert.Empty(t, cmp.Diff(value.NewList(value.Of("a"), value.Of("b")), got, equalValues))
	})

	t.Run("out of order keys make a map", func(t *testing.T) {
		t.Parallel()

		got := value.Classify([]value.RawEntry{
			{Key: 1, Value: "b"},
			{Key: 0, Value: "a"},
		})

		require.Equal(t, value.Map, got.Kind())
		assert.Equal(t, []string{"1", "0"}, got.Keys())
	})

	t.Run("gap makes a map", func(t *testing.T) {
		t.Parallel()

		got := value.Classify([]value.RawEntry{
			{Key: 0, Value: "a"},
			{Key: 2, Value: "b"},
		})

		assert.Equal(t, value.Map, got.Kind())
	})

	t.Run("string keys make a map in order", func(t *testing.T) {
		t.Parallel()

		got := value.Classify([]value.RawEntry{
			{Key: "z", Value: 1},
			{Key: "a", Value: 2},
		})

		require.Equal(t, value.Map, got.Kind())
		assert.Equal(t, []string{"z", "a"}, got.Keys())
	})

	t.Run("empty container is a list", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, value.List, value.Classify(nil).Kind())
	})
}

func TestFromRaw(t *testing.T) {
	t.Parallel()

	got := value.FromRaw(map[string]any{
		"b": []any{1, "two", map[string]any{"x": true}},
		"a": "scalar",
	})

	want := value.NewMap(
		value.E("a", value.Of("scalar")),
		value.E("b", value.NewList(
			value.Of(int64(1)),
			value.Of("two"),
			value.NewMap(value.E("x", value.Of(true))),
		)),
	)

	assert.Empty(t, cmp.Diff(want, got, equalValues))
	assert.Equal(t, []string{"a", "b"}, got.Keys())
}

func TestFromRaw_IntKeyedMap(t *testing.T) {
	t.Parallel()

	got := value.FromRaw(map[int]string{1: "b", 0: "a"})

	require.Equal(t, value.List, got.Kind())
	assert.Equal(t, "[a, b]", got.String())
}

func TestEqual_NumericNormalization(t *testing.T) {
	t.Parallel()

	assert.True(t, value.Equal(value.Of(5), value.Of(uint64(5))))
	assert.True(t, value.Equal(value.Of(int32(5)), value.Of(5.0)))
	assert.False(t, value.Equal(value.Of(5), value.Of("5")))
	assert.False(t, value.Equal(value.None(), value.Of(nil)))
}

func TestEqual_MapOrderIgnored(t *testing.T) {
	t.Parallel()

	a := value.NewMap(value.E("a", value.Of(1)), value.E("b", value.Of(2)))
	b := value.NewMap(value.E("b", value.Of(2)), value.E("a", value.Of(1)))

	assert.True(t, value.Equal(a, b))
}

func TestClone_IsDeep(t *testing.T) {
	t.Parallel()

	original := value.NewMap(value.E("list", value.NewList(value.Of("a"))))
	clone := original.Clone()

	inner, ok := clone.At("list")
	require.True(t, ok)
	inner.Append(value.Of("b"))

	got, _ := original.Get("list")
	assert.Equal(t, 1, got.Len())

	got, _ = clone.Get("list")
	assert.Equal(t, 2, got.Len())
}

func TestSet_KeepsPosition(t *testing.T) {
	t.Parallel()

	m := value.NewMap(value.E("a", value.Of(1)), value.E("b", value.Of(2)))
	m.Set("a", value.Of(3))
	m.Set("c", value.Of(4))

	assert.Equal(t, "{a: 3, b: 2, c: 4}", m.String())
}

func TestSet_CopiesDoNotShareStorage(t *testing.T) {
	t.Parallel()

	original := value.NewMap(value.E("x", value.Of(1)))
	copied := original
	copied.Set("y", value.Of(2))
	copied.Set("x", value.Of(9))

	_, ok := original.Get("y")
	assert.False(t, ok)
	assert.Equal(t, "{x: 1}", original.String())
	assert.Equal(t, "{x: 9, y: 2}", copied.String())

	original.Set("z", value.Of(3))
	assert.Equal(t, "{x: 1, z: 3}", original.String())
	assert.Equal(t, "{x: 9, y: 2}", copied.String())
}

func TestSet_OnNestedCopyLeavesParent(t *testing.T) {
	t.Parallel()

	parent := value.NewMap(value.E("a", value.NewMap(value.E("k", value.Of("v")))))

	inner, ok := parent.Get("a")
	require.True(t, ok)
	inner.Set("z", value.Of("w"))

	through, ok := parent.At("a")
	require.True(t, ok)
	through.Set("q", value.Of(1))

	assert.Equal(t, "{k: v, z: w}", inner.String())
	assert.Equal(t, "{a: {k: v, q: 1}}", parent.String())
}

func TestAppend_CopiesDoNotShareStorage(t *testing.T) {
	t.Parallel()

	original := value.NewList(value.Of("a"))
	original.Append(value.Of("b"))

	copied := original
	copied.Append(value.Of("c"))
	original.Append(value.Of("d"))

	assert.Equal(t, "[a, b, d]", original.String())
	assert.Equal(t, "[a, b, c]", copied.String())
}

func TestFilter(t *testing.T) {
	t.Parallel()

	list := value.NewList(value.Of("red"), value.Of("green"), value.Of("red"))
	got := list.Filter(func(_ string, _ bool, item value.Value) bool {
		return !value.Equal(item, value.Of("red"))
	})

	assert.Equal(t, "[green]", got.String())
	assert.Equal(t, 3, list.Len())
}

func TestMarshalJSON_PreservesOrder(t *testing.T) {
	t.Parallel()

	v := value.NewMap(
		value.E("z", value.NewList(value.Of(1), value.Of("x"))),
		value.E("a", value.Of(nil)),
	)

	data, err := json.Marshal(v)
	require.NoError(t, err)
	assert.JSONEq(t, `{"z":[1,"x"],"a":null}`, string(data))
	assert.Equal(t, `{"z":[1,"x"],"a":null}`, string(data))

	data, err = json.Marshal(value.None())
	require.NoError(t, err)
	assert.Equal(t, "null", string(data))
}

func TestInterface(t *testing.T) {
	t.Parallel()

	v := value.NewMap(value.E("a", value.NewList(value.Of("x"))))

	assert.Equal(t, map[string]any{"a": []any{"x"}}, v.Interface())
	assert.Nil(t, value.None().Interface())
}
