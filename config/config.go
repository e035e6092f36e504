package config

import (
	"fmt"
	"log/slog"
)

// Parser decodes configuration data into a target structure.
//
// The path selects a section of the document using colon (:) as the separator
// for nested keys, for example "layers:inspect". An empty path means the
// whole document. See codec/yaml for the goccy/go-yaml implementation.
type Parser interface {
	Parse(data []byte, target any, path string) error
}

// DataFetcher reads raw configuration data.
type DataFetcher interface {
	Fetch() ([]byte, error)
}

// Validator is implemented by configuration that can check itself.
type Validator interface {
	Validate() error
}

// Defaulter is implemented by configuration that fills in missing values.
type Defaulter interface {
	SetDefaults() (changed bool)
}

// Provider returns a function that fetches, parses, defaults and validates
// configuration into target. The returned function fits fx.Provide.
func Provider[T any](target *T, path string) func(Parser, DataFetcher, *slog.Logger) (*T, error) {
	return func(parser Parser, fetcher DataFetcher, logger *slog.Logger) (*T, error) {
		return load(target, path, parser, fetcher, logger)
	}
}

func load[T any](target *T, path string, parser Parser, fetcher DataFetcher, logger *slog.Logger) (*T, error) {
	data, err := fetcher.Fetch()
	if err != nil {
		return nil, fmt.Errorf("reading data error: %w", err)
	}

	err = parser.Parse(data, target, path)
	if err != nil {
		return nil, fmt.Errorf("parsing error: %w", err)
	}

	if defaulter, ok := any(target).(Defaulter); ok && defaulter.SetDefaults() {
		if logger == nil {
			logger = slog.Default()
		}

		logger.Info("defaults applied", slog.String("path", path))
	}

	if validator, ok := any(target).(Validator); ok {
		err = validator.Validate()
		if err != nil {
			return nil, fmt.Errorf("validating error: %w", err)
		}
	}

	return target, nil
}
