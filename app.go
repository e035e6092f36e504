package layers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/0xalexb/hjarta-layers/config"
	"github.com/0xalexb/hjarta-layers/config/fetcher/file"
	"github.com/0xalexb/hjarta-layers/engine"
	"github.com/0xalexb/hjarta-layers/inspect"
	"github.com/0xalexb/hjarta-layers/logging"
	"github.com/0xalexb/hjarta-layers/manifest"
	"github.com/0xalexb/hjarta-layers/registry"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
)

var errAppNotInitialized = errors.New("app not initialized")

// App is a layers application: a registry, the current engine and the
// manifest reload machinery, wired with Fx.
type App struct {
	app    *fx.App
	holder *engine.Holder
}

// NewApp creates a new instance of App with Fx configured.
func NewApp(opts ...Option) *App {
	var options Options

	for _, apply := range opts {
		apply(&options)
	}

	app := &App{}
	app.app = configure(&options, &app.holder)

	return app
}

func configure(options *Options, holder **engine.Holder) *fx.App {
	settings, settingsErr := resolveSettings(options)

	var w io.Writer = os.Stderr
	if options.LogOutput != nil {
		w = options.LogOutput
	}

	logConfig := logging.Config{Level: settings.Log.Level, Format: settings.Log.Format}
	logger := logging.NewLogger(logConfig, w)
	slog.SetDefault(logger)

	fxLogger := fx.WithLogger(func() fxevent.Logger {
		return &fxevent.SlogLogger{Logger: logger}
	})

	if settingsErr != nil {
		return fx.New(fxLogger, fx.Error(settingsErr))
	}

	modules := []fx.Option{
		fxLogger,
		fx.Supply(logConfig),
		fx.Supply(logger),
		fx.Supply(settings),
		fx.Provide(
			registryProvider(options.Registry),
			func(reg *registry.Registry) inspect.TypeLister { return reg },
			newHolder,
			newLoader,
			newReloader,
		),
		fx.Invoke(registerReload),
		fx.Populate(holder),
	}

	if settings.Inspect.Enabled {
		modules = append(modules, inspect.NewModule(settings.Inspect.Address))
	}

	modules = append(modules, options.Modules...)

	return fx.New(modules...)
}

// resolveSettings picks the settings source and applies option overrides.
// The returned settings are usable for logging even when err is set.
func resolveSettings(options *Options) (*config.Settings, error) {
	settings := &config.Settings{}

	switch {
	case options.Settings != nil:
		copied := *options.Settings
		settings = &copied
	case options.SettingsFile != "":
		loaded, err := config.LoadFile(options.SettingsFile, "")
		if err != nil {
			settings.SetDefaults()

			return settings, fmt.Errorf("loading settings: %w", err)
		}

		settings = loaded
	}

	if options.LogLevel != "" {
		settings.Log.Level = options.LogLevel
	}

	if len(options.ManifestDirs) > 0 {
		settings.Manifests.Dirs = options.ManifestDirs
	}

	if options.InspectAddress != "" {
		settings.Inspect.Enabled = true
		settings.Inspect.Address = options.InspectAddress
	}

	settings.SetDefaults()

	err := settings.Validate()
	if err != nil {
		settings.Log = config.LogSettings{Level: config.DefaultLogLevel, Format: config.DefaultLogFormat}

		return settings, err
	}

	return settings, nil
}

func registryProvider(given *registry.Registry) func(*config.Settings) (*registry.Registry, error) {
	return func(settings *config.Settings) (*registry.Registry, error) {
		reg := given

		if reg == nil {
			reg = registry.New()

			if settings.Registry != "" {
				data, err := file.ReadFile(settings.Registry)
				if err != nil {
					return nil, fmt.Errorf("reading registry: %w", err)
				}

				err = reg.Decode(data)
				if err != nil {
					return nil, fmt.Errorf("decoding registry %q: %w", settings.Registry, err)
				}
			}
		}

		err := reg.Validate()
		if err != nil {
			return nil, fmt.Errorf("validating registry: %w", err)
		}

		return reg, nil
	}
}

func engineOptions(settings *config.Settings, logger *slog.Logger) []engine.Option {
	opts := []engine.Option{engine.WithLogger(logger)}
	if settings.Cache {
		opts = append(opts, engine.WithCache())
	}

	return opts
}

func newHolder(reg *registry.Registry, settings *config.Settings, logger *slog.Logger) *engine.Holder {
	return engine.NewHolder(engine.New(reg, engineOptions(settings, logger)...))
}

func newLoader(settings *config.Settings, logger *slog.Logger) *manifest.Loader {
	return manifest.NewLoader(settings.Manifests.Dirs,
		manifest.WithLoaderLogger(logger),
		manifest.SkipMissingDirs(),
	)
}

func registerReload(lc fx.Lifecycle, reloader *Reloader, settings *config.Settings, logger *slog.Logger) error {
	var watcher *manifest.Watcher

	if settings.Manifests.Watch {
		debounce, err := settings.DebounceDuration()
		if err != nil {
			return err
		}

		watcher = manifest.NewWatcher(existingDirs(settings.Manifests.Dirs), func(ctx context.Context) {
			err := reloader.Reload(ctx)
			if err != nil {
				logger.Error("reload failed, keeping previous engine", slog.String("error", err.Error()))
			}
		}, manifest.WithDebounce(debounce), manifest.WithWatcherLogger(logger))
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			err := reloader.Reload(ctx)
			if err != nil {
				return err
			}

			if watcher == nil {
				return nil
			}

			return watcher.Start(ctx)
		},
		OnStop: func(context.Context) error {
			if watcher == nil {
				return nil
			}

			return watcher.Stop()
		},
	})

	return nil
}

func existingDirs(dirs []string) []string {
	var out []string

	for _, dir := range dirs {
		if stat, err := os.Stat(dir); err == nil && stat.IsDir() {
			out = append(out, dir)
		}
	}

	return out
}

// Holder returns the holder of the current engine. It is nil when the
// application failed to build.
func (app *App) Holder() *engine.Holder {
	if app == nil {
		return nil
	}

	return app.holder
}

// Err returns the error that prevented the application from being built.
func (app *App) Err() error {
	if app == nil || app.app == nil {
		return errAppNotInitialized
	}

	return app.app.Err() //nolint:wrapcheck
}

// Start starts the Fx application.
func (app *App) Start() error {
	if app != nil && app.app != nil {
		err := app.app.Start(context.Background())
		if err != nil {
			return fmt.Errorf("failed to start app: %w", err)
		}

		return nil
	}

	return errAppNotInitialized
}

// Run starts the application and blocks until an OS signal is received, then shuts down gracefully.
func (app *App) Run() {
	if app == nil || app.app == nil {
		slog.Error("attempted to run an uninitialized app")

		return
	}

	app.app.Run()
}

// Stop stops the Fx application gracefully.
func (app *App) Stop() error {
	if app != nil && app.app != nil {
		err := app.app.Stop(context.Background())
		if err != nil {
			return fmt.Errorf("failed to stop app: %w", err)
		}

		return nil
	}

	return errAppNotInitialized
}
