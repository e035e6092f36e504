package inspect_test

import (
	"context"
	"io"
	"net/http"
	"testing"

	"github.com/0xalexb/hjarta-layers/engine"
	"github.com/0xalexb/hjarta-layers/inspect"
	"github.com/0xalexb/hjarta-layers/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"
)

func get(t *testing.T, url string) (int, string) {
	t.Helper()

	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, url, nil)
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req) //nolint:gosec // test code, URL from test server
	require.NoError(t, err)

	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp.StatusCode, string(body)
}

func TestNewServer_Validation(t *testing.T) {
	t.Parallel()

	_, err := inspect.NewServer("", http.NotFoundHandler(), nil, nil)
	require.ErrorIs(t, err, inspect.ErrEmptyAddress)

	_, err = inspect.NewServer("127.0.0.1:0", nil, nil, nil)
	require.ErrorIs(t, err, inspect.ErrNilHandler)
}

func TestServer_StartStop(t *testing.T) {
	t.Parallel()

	holder := engine.NewHolder(engine.New(widgetRegistry(t)))

	srv, err := inspect.NewServer("127.0.0.1:0", inspect.NewHandler(holder), logging.Discard(), nil)
	require.NoError(t, err)

	require.NoError(t, srv.Start(context.Background()))

	status, body := get(t, "http://"+srv.Addr()+"/values/Widget/Colors")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, `"value":["red","green","blue"]`)

	require.NoError(t, srv.Stop(context.Background()))
}

func TestServer_ListenFailure(t *testing.T) {
	t.Parallel()

	first, err := inspect.NewServer("127.0.0.1:0", http.NotFoundHandler(), logging.Discard(), nil)
	require.NoError(t, err)
	require.NoError(t, first.Start(context.Background()))
	t.Cleanup(func() { _ = first.Stop(context.Background()) })

	second, err := inspect.NewServer(first.Addr(), http.NotFoundHandler(), logging.Discard(), nil)
	require.NoError(t, err)
	require.ErrorIs(t, second.Start(context.Background()), inspect.ErrListenFailed)
}

func TestNewModule(t *testing.T) {
	t.Parallel()

	reg := widgetRegistry(t)

	var srv *inspect.Server

	app := fxtest.New(t,
		fx.Supply(engine.NewHolder(engine.New(reg))),
		fx.Supply(logging.Discard()),
		fx.Provide(func() inspect.TypeLister { return reg }),
		inspect.NewModule("127.0.0.1:0"),
		fx.Populate(&srv),
	)

	app.RequireStart()

	status, body := get(t, "http://"+srv.Addr()+"/types")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, `"Widget"`)

	app.RequireStop()
}

func TestNewModule_EmptyAddress(t *testing.T) {
	t.Parallel()

	app := fx.New(fx.NopLogger, inspect.NewModule(""))
	require.ErrorIs(t, app.Err(), inspect.ErrEmptyAddress)
}
