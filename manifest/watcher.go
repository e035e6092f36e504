package manifest

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const defaultDebounce = 250 * time.Millisecond

// Watcher calls a reload function after fragment files change. Bursts of
// events closer together than the debounce interval trigger one reload.
// Subdirectories are watched too, including ones created while running.
type Watcher struct {
	dirs     []string
	reload   func(context.Context)
	logger   *slog.Logger
	debounce time.Duration

	mu      sync.Mutex
	watcher *fsnotify.Watcher
	cancel  context.CancelFunc
	done    chan struct{}
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithDebounce sets the quiet period before a reload.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithWatcherLogger sets the logger.
func WithWatcherLogger(logger *slog.Logger) WatcherOption {
	return func(w *Watcher) {
		w.logger = logger
	}
}

// NewWatcher returns a stopped watcher over dirs.
func NewWatcher(dirs []string, reload func(context.Context), opts ...WatcherOption) *Watcher {
	w := &Watcher{
		dirs:     dirs,
		reload:   reload,
		logger:   slog.Default(),
		debounce: defaultDebounce,
	}

	for _, apply := range opts {
		apply(w)
	}

	return w
}

// Start begins watching. It returns once every directory is registered.
// Calling Start on a running watcher does nothing.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.watcher != nil {
		return nil
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}

	for _, dir := range w.dirs {
		err = addTree(fsw, dir)
		if err != nil {
			_ = fsw.Close()

			return err
		}
	}

	//nolint:contextcheck // the loop outlives the start context
	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))

	w.watcher = fsw
	w.cancel = cancel
	w.done = make(chan struct{})

	go w.run(runCtx, fsw, w.done)

	w.logger.Info("watching manifests", slog.Any("dirs", w.dirs))

	return nil
}

// Stop ends the watch loop and waits for it to exit.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.watcher == nil {
		return nil
	}

	w.cancel()
	<-w.done

	err := w.watcher.Close()
	w.watcher = nil

	if err != nil {
		return fmt.Errorf("closing watcher: %w", err)
	}

	return nil
}

func (w *Watcher) run(ctx context.Context, fsw *fsnotify.Watcher, done chan struct{}) {
	defer close(done)

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)

	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-fsw.Events:
			if !ok {
				return
			}

			if w.watchNewDir(fsw, event) {
				w.logger.Debug("watching new directory", slog.String("path", event.Name))
			} else if !relevant(event) {
				continue
			}

			w.logger.Debug("manifest change", slog.String("path", event.Name), slog.String("op", event.Op.String()))

			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}

			fire = timer.C

		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}

			w.logger.Error("watcher error", slog.String("error", err.Error()))

		case <-fire:
			fire = nil

			w.reload(ctx)
		}
	}
}

// watchNewDir adds a directory created under a watched one. A directory
// moved in with fragments inside also warrants a reload.
func (w *Watcher) watchNewDir(fsw *fsnotify.Watcher, event fsnotify.Event) bool {
	if !event.Op.Has(fsnotify.Create) {
		return false
	}

	stat, err := os.Stat(event.Name)
	if err != nil || !stat.IsDir() {
		return false
	}

	err = addTree(fsw, event.Name)
	if err != nil {
		w.logger.Error("watcher error", slog.String("error", err.Error()))
	}

	return true
}

// addTree watches dir and every directory below it. fsnotify watches are
// not recursive.
func addTree(fsw *fsnotify.Watcher, dir string) error {
	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if !d.IsDir() {
			return nil
		}

		return fsw.Add(p)
	})
	if err != nil {
		return fmt.Errorf("watching %q: %w", dir, err)
	}

	return nil
}

func relevant(event fsnotify.Event) bool {
	if !IsFragmentFile(event.Name) {
		return false
	}

	return event.Op.Has(fsnotify.Create) ||
		event.Op.Has(fsnotify.Write) ||
		event.Op.Has(fsnotify.Remove) ||
		event.Op.Has(fsnotify.Rename)
}
