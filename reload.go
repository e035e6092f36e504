package layers

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/0xalexb/hjarta-layers/config"
	"github.com/0xalexb/hjarta-layers/engine"
	"github.com/0xalexb/hjarta-layers/manifest"
	"github.com/0xalexb/hjarta-layers/registry"
)

// Reloader rebuilds the engine from the manifest directories and installs it
// in the Holder. Values set at runtime on the previous engine are dropped.
type Reloader struct {
	sources    engine.Sources
	loader     *manifest.Loader
	holder     *engine.Holder
	engineOpts []engine.Option
	logger     *slog.Logger

	mu sync.Mutex
}

func newReloader(
	reg *registry.Registry,
	loader *manifest.Loader,
	holder *engine.Holder,
	settings *config.Settings,
	logger *slog.Logger,
) *Reloader {
	return &Reloader{
		sources:    reg,
		loader:     loader,
		holder:     holder,
		engineOpts: engineOptions(settings, logger),
		logger:     logger,
	}
}

// Reload loads every fragment, pushes them onto a fresh engine and swaps it
// in. On error the current engine stays installed.
func (r *Reloader) Reload(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, err := r.loader.Load(ctx)
	if err != nil {
		return fmt.Errorf("reloading manifests: %w", err)
	}

	eng := engine.New(r.sources, r.engineOpts...)
	m.Apply(eng)
	r.holder.Swap(eng)

	r.logger.Info("engine reloaded", slog.Any("manifest", m))

	return nil
}
