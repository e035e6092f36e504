package manifest_test

import (
	"testing"

	"github.com/0xalexb/hjarta-layers/engine"
	"github.com/0xalexb/hjarta-layers/manifest"
	"github.com/0xalexb/hjarta-layers/merge"
	"github.com/0xalexb/hjarta-layers/value"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	t.Parallel()

	data := []byte(`name: dark
after: [base, "theme-*"]
before: overrides
config:
  Widget:
    Colors: [black]
    Sizes:
      small: 1
  Base:
    Title: hello
remove:
  - type: Widget
    property: Colors
    value: red
  - type: Widget
    property: Sizes
    key: large
  - type: Base
    property: Title
---
config:
  Widget:
    Colors: [white]
`)

	fragments, err := manifest.Decode("conf/dark.yml", data)
	require.NoError(t, err)
	require.Len(t, fragments, 2)

	dark := fragments[0]
	assert.Equal(t, "dark", dark.Name)
	assert.Equal(t, "conf/dark.yml", dark.Source)
	assert.Equal(t, []string{"base", "theme-*"}, dark.After)
	assert.Equal(t, []string{"overrides"}, dark.Before)

	colors := engine.Ref{Type: "Widget", Name: "Colors"}
	assert.Equal(t, "[black]", dark.Values[colors].String())
	assert.Equal(t, "{small: 1}", dark.Values[engine.Ref{Type: "Widget", Name: "Sizes"}].String())
	assert.Equal(t, "hello", dark.Values[engine.Ref{Type: "Base", Name: "Title"}].String())

	assert.Equal(t, []merge.Pair{merge.MatchValue(value.Of("red"))}, dark.Suppress[colors])
	assert.Equal(t, []merge.Pair{merge.MatchKey("large")}, dark.Suppress[engine.Ref{Type: "Widget", Name: "Sizes"}])
	assert.Equal(t, []merge.Pair{merge.AnyPair()}, dark.Suppress[engine.Ref{Type: "Base", Name: "Title"}])

	unnamed := fragments[1]
	assert.Equal(t, "conf/dark.yml#2", unnamed.Name)
	assert.Empty(t, unnamed.Before)
	assert.Empty(t, unnamed.Suppress)
	assert.Equal(t, "[white]", unnamed.Values[colors].String())
}

func TestDecode_EntryRemoval(t *testing.T) {
	t.Parallel()

	fragments, err := manifest.Decode("x.yml", []byte(`remove:
  - type: Widget
    property: Sizes
    key: small
    value: 1
`))
	require.NoError(t, err)
	require.Len(t, fragments, 1)

	pairs := fragments[0].Suppress[engine.Ref{Type: "Widget", Name: "Sizes"}]
	require.Len(t, pairs, 1)
	assert.Equal(t, "(small, 1)", pairs[0].String())
}

func TestDecode_Errors(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		data string
	}{
		{name: "document is a list", data: "- a\n- b\n"},
		{name: "name is a list", data: "name: [a]\n"},
		{name: "after holds numbers", data: "after: [1, 2]\n"},
		{name: "config is a list", data: "config: [a]\n"},
		{name: "config type is a scalar", data: "config:\n  Widget: red\n"},
		{name: "remove is a mapping", data: "remove:\n  type: Widget\n"},
		{name: "removal without property", data: "remove:\n  - type: Widget\n"},
		{name: "removal with empty type", data: "remove:\n  - type: \"\"\n    property: Colors\n"},
		{name: "broken yaml", data: "config: [\n"},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			_, err := manifest.Decode("bad.yml", []byte(testCase.data))
			require.Error(t, err)
		})
	}
}

func TestDecode_InvalidFragmentSentinel(t *testing.T) {
	t.Parallel()

	_, err := manifest.Decode("bad.yml", []byte("remove:\n  - property: Colors\n"))
	require.ErrorIs(t, err, manifest.ErrInvalidFragment)
	assert.Contains(t, err.Error(), "bad.yml document 1")
}
