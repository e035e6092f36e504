package file

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrPathIsDirectory is returned when the fetched path is a directory.
var ErrPathIsDirectory = errors.New("path is a directory, not a file")

// Fetcher implements config.DataFetcher over one file. The file is read once,
// when the Fetcher is built; later changes on disk are picked up by building
// a new Fetcher.
type Fetcher struct {
	path string
	data []byte
}

// NewFetcher returns a constructor reading the file at fpath. Returning the
// constructor lets fx decide when the read happens.
func NewFetcher(fpath string) func() (*Fetcher, error) {
	return func() (*Fetcher, error) {
		cleanPath := filepath.Clean(fpath)

		stat, err := os.Stat(cleanPath)
		if err != nil {
			return nil, fmt.Errorf("stat file %q: %w", cleanPath, err)
		}

		if stat.IsDir() {
			return nil, fmt.Errorf("path %q: %w", cleanPath, ErrPathIsDirectory)
		}

		data, err := os.ReadFile(cleanPath) // #nosec G304 -- path is cleaned and validated
		if err != nil {
			return nil, fmt.Errorf("reading file %q: %w", cleanPath, err)
		}

		return &Fetcher{path: cleanPath, data: data}, nil
	}
}

// ReadFile builds a Fetcher for fpath and returns its data.
func ReadFile(fpath string) ([]byte, error) {
	fetcher, err := NewFetcher(fpath)()
	if err != nil {
		return nil, err
	}

	return fetcher.Fetch()
}

// Path returns the cleaned path the data was read from.
func (f *Fetcher) Path() string {
	return f.path
}

// Fetch returns a copy of the data read at construction.
func (f *Fetcher) Fetch() ([]byte, error) {
	result := make([]byte, len(f.data))
	copy(result, f.data)

	return result, nil
}
