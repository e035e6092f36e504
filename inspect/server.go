package inspect

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"
)

// ReadHeaderTimeout bounds how long a client may take to send headers.
const ReadHeaderTimeout = 10 * time.Second

var (
	// ErrEmptyAddress is returned when the server has no listen address.
	ErrEmptyAddress = errors.New("address must not be empty")
	// ErrNilHandler is returned when the server has no handler.
	ErrNilHandler = errors.New("handler must not be nil")
	// ErrListenFailed wraps listen errors from Start.
	ErrListenFailed = errors.New("failed to listen")
	// ErrShutdownFailed wraps shutdown errors from Stop.
	ErrShutdownFailed = errors.New("shutdown failed")
)

// Server runs a Handler on a TCP listener.
type Server struct {
	server     *http.Server
	logger     *slog.Logger
	addr       net.Addr
	onServeErr func()
}

// NewServer returns a stopped Server. onServeErr, when not nil, is called if
// serving fails after Start returned.
func NewServer(address string, handler http.Handler, logger *slog.Logger, onServeErr func()) (*Server, error) {
	if address == "" {
		return nil, ErrEmptyAddress
	}

	if handler == nil {
		return nil, ErrNilHandler
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &Server{
		server: &http.Server{ //nolint:exhaustruct // only relevant fields needed
			Addr:              address,
			Handler:           handler,
			ReadHeaderTimeout: ReadHeaderTimeout,
		},
		logger:     logger,
		onServeErr: onServeErr,
	}, nil
}

// Addr returns the bound address once started, which resolves a ":0" port.
func (s *Server) Addr() string {
	if s.addr == nil {
		return s.server.Addr
	}

	return s.addr.String()
}

// Start listens and serves in a background goroutine.
func (s *Server) Start(ctx context.Context) error {
	listenCfg := net.ListenConfig{} //nolint:exhaustruct // zero-value defaults are fine

	listener, err := listenCfg.Listen(ctx, "tcp", s.server.Addr)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrListenFailed, err)
	}

	s.addr = listener.Addr()
	s.logger.Info("starting inspect listener", slog.String("address", s.Addr()))

	go func() {
		serveErr := s.server.Serve(listener)
		if serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			s.logger.Error("inspect listener error", slog.String("error", serveErr.Error()))

			if s.onServeErr != nil {
				s.onServeErr()
			}
		}
	}()

	return nil
}

// Stop shuts the server down, waiting for in-flight requests until ctx ends.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("stopping inspect listener", slog.String("address", s.Addr()))

	err := s.server.Shutdown(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrShutdownFailed, err)
	}

	return nil
}
