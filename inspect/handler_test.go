package inspect_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/0xalexb/hjarta-layers/engine"
	"github.com/0xalexb/hjarta-layers/inspect"
	"github.com/0xalexb/hjarta-layers/registry"
	"github.com/0xalexb/hjarta-layers/value"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func widgetRegistry(t *testing.T) *registry.Registry {
	t.Helper()

	reg := registry.New()
	require.NoError(t, reg.Register("Base", registry.WithStatic("Colors", []any{"blue"})))
	require.NoError(t, reg.Register("Widget",
		registry.WithParent("Base"),
		registry.WithStatic("Colors", []any{"red", "green"}),
		registry.WithStatic("Title", "widget"),
	))

	return reg
}

func serve(t *testing.T, h http.Handler, target string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	return rec, body
}

func TestHandler_Values(t *testing.T) {
	t.Parallel()

	reg := widgetRegistry(t)
	holder := engine.NewHolder(engine.New(reg))
	h := inspect.NewHandler(holder, inspect.WithTypes(reg))

	testCases := []struct {
		name    string
		target  string
		status  int
		present bool
		value   any
		mode    string
	}{
		{
			name:    "inherited list",
			target:  "/values/Widget/Colors",
			status:  http.StatusOK,
			present: true,
			value:   []any{"red", "green", "blue"},
			mode:    "inherited",
		},
		{
			name:    "uninherited list",
			target:  "/values/Widget/Colors?mode=uninherited",
			status:  http.StatusOK,
			present: true,
			value:   []any{"red", "green"},
			mode:    "uninherited",
		},
		{
			name:    "scalar",
			target:  "/values/Widget/Title",
			status:  http.StatusOK,
			present: true,
			value:   "widget",
			mode:    "inherited",
		},
		{
			name:    "absent",
			target:  "/values/Widget/Missing?mode=first_set,exclude_extra",
			status:  http.StatusOK,
			present: false,
			value:   nil,
			mode:    "first_set,exclude_extra",
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			rec, body := serve(t, h, testCase.target)
			assert.Equal(t, testCase.status, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			assert.Equal(t, testCase.present, body["present"])
			assert.Equal(t, testCase.value, body["value"])
			assert.Equal(t, testCase.mode, body["mode"])
		})
	}
}

func TestHandler_Errors(t *testing.T) {
	t.Parallel()

	eng := engine.New(widgetRegistry(t))
	require.NoError(t, eng.Update("Widget", "Title", value.NewList(value.Of("x"))))

	h := inspect.NewHandler(engine.NewHolder(eng))

	rec, body := serve(t, h, "/values/Widget/Colors?mode=sideways")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, body["error"], "unknown resolution mode")

	rec, body = serve(t, h, "/values/Widget/Title")
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, body["error"], "type mismatch")

	rec, _ = serve(t, h, "/types")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandler_TypesAndHealth(t *testing.T) {
	t.Parallel()

	reg := widgetRegistry(t)
	h := inspect.NewHandler(engine.NewHolder(engine.New(reg)), inspect.WithTypes(reg))

	rec, body := serve(t, h, "/types")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []any{"Base", "Widget"}, body["types"])

	rec, body = serve(t, h, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", body["status"])
}

func TestHandler_FollowsHolderSwap(t *testing.T) {
	t.Parallel()

	reg := widgetRegistry(t)
	holder := engine.NewHolder(engine.New(reg))
	h := inspect.NewHandler(holder)

	replacement := engine.New(reg)
	require.NoError(t, replacement.Update("Widget", "Title", value.Of("swapped")))
	holder.Swap(replacement)

	_, body := serve(t, h, "/values/Widget/Title")
	assert.Equal(t, "swapped", body["value"])
}
