package manifest

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/0xalexb/hjarta-layers/config/fetcher/file"

	"golang.org/x/sync/errgroup"
)

const defaultReadConcurrency = 8

// Loader reads fragment files from a set of directories.
type Loader struct {
	dirs        []string
	logger      *slog.Logger
	concurrency int
	skipMissing bool
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithLoaderLogger sets the logger used to report loaded files.
func WithLoaderLogger(logger *slog.Logger) LoaderOption {
	return func(l *Loader) {
		l.logger = logger
	}
}

// WithReadConcurrency limits how many files are read at once.
func WithReadConcurrency(n int) LoaderOption {
	return func(l *Loader) {
		if n > 0 {
			l.concurrency = n
		}
	}
}

// SkipMissingDirs makes directories that do not exist count as empty.
func SkipMissingDirs() LoaderOption {
	return func(l *Loader) {
		l.skipMissing = true
	}
}

// NewLoader returns a Loader for dirs. Directories are walked recursively.
func NewLoader(dirs []string, opts ...LoaderOption) *Loader {
	loader := &Loader{
		dirs:        slices.Clone(dirs),
		logger:      slog.Default(),
		concurrency: defaultReadConcurrency,
	}

	for _, apply := range opts {
		apply(loader)
	}

	return loader
}

// Dirs returns the directories the loader reads.
func (l *Loader) Dirs() []string {
	return slices.Clone(l.dirs)
}

// Files returns every .yml and .yaml file under the loader's directories,
// sorted by path.
func (l *Loader) Files() ([]string, error) {
	var files []string

	for _, dir := range l.dirs {
		if l.skipMissing {
			if _, err := os.Stat(dir); errors.Is(err, fs.ErrNotExist) {
				l.logger.Debug("manifest directory missing", slog.String("dir", dir))

				continue
			}
		}

		err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}

			if !d.IsDir() && IsFragmentFile(p) {
				files = append(files, p)
			}

			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("scanning %q: %w", dir, err)
		}
	}

	slices.Sort(files)

	return slices.Compact(files), nil
}

// Load reads, decodes and orders every fragment. Input order for Order is
// the sorted file path order, then document order within a file.
func (l *Loader) Load(ctx context.Context) (*Manifest, error) {
	files, err := l.Files()
	if err != nil {
		return nil, err
	}

	decoded := make([][]*Fragment, len(files))

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(l.concurrency)

	for i, path := range files {
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}

			fragments, err := readFragments(path)
			if err != nil {
				return err
			}

			decoded[i] = fragments

			return nil
		})
	}

	err = group.Wait()
	if err != nil {
		return nil, err
	}

	var fragments []*Fragment
	for _, batch := range decoded {
		fragments = append(fragments, batch...)
	}

	m, err := Build(fragments)
	if err != nil {
		return nil, err
	}

	l.logger.Info("manifest loaded",
		slog.Int("files", len(files)),
		slog.Any("manifest", m),
	)

	return m, nil
}

func readFragments(path string) ([]*Fragment, error) {
	data, err := file.ReadFile(path)
	if err != nil {
		return nil, err
	}

	return Decode(path, data)
}

// IsFragmentFile reports whether path has a fragment file extension.
func IsFragmentFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))

	return ext == ".yml" || ext == ".yaml"
}
