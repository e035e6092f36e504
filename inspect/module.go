package inspect

import (
	"log/slog"

	"github.com/0xalexb/hjarta-layers/engine"

	"go.uber.org/fx"
)

// Params are the dependencies NewModule takes from the container.
type Params struct {
	fx.In

	Lifecycle  fx.Lifecycle
	Shutdowner fx.Shutdowner
	Holder     *engine.Holder
	Logger     *slog.Logger
	Types      TypeLister `optional:"true"`
}

// NewModule returns an fx module serving the inspect Handler on address.
// A serve failure after startup shuts the application down.
//
//nolint:ireturn // fx.Option is the standard return type for Fx modules
func NewModule(address string) fx.Option {
	if address == "" {
		return fx.Error(ErrEmptyAddress)
	}

	return fx.Module("inspect",
		fx.Provide(func(p Params) (*Server, error) {
			opts := []HandlerOption{WithLogger(p.Logger)}
			if p.Types != nil {
				opts = append(opts, WithTypes(p.Types))
			}

			handler := Chain(NewHandler(p.Holder, opts...),
				Recovery(p.Logger),
				Logging(p.Logger),
				Timeout(defaultRequestTimeout),
			)

			srv, err := NewServer(address, handler, p.Logger, func() {
				shutdownErr := p.Shutdowner.Shutdown()
				if shutdownErr != nil {
					p.Logger.Error("failed to trigger shutdown", slog.String("error", shutdownErr.Error()))
				}
			})
			if err != nil {
				return nil, err
			}

			p.Lifecycle.Append(fx.Hook{
				OnStart: srv.Start,
				OnStop:  srv.Stop,
			})

			return srv, nil
		}),
		fx.Invoke(func(*Server) {}),
	)
}
