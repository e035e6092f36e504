package layers

import (
	"io"
	"slices"

	"github.com/0xalexb/hjarta-layers/config"
	"github.com/0xalexb/hjarta-layers/registry"

	"go.uber.org/fx"
)

// Options holds configuration settings for the application.
type Options struct {
	Modules        []fx.Option
	LogLevel       string
	LogOutput      io.Writer
	Settings       *config.Settings
	SettingsFile   string
	Registry       *registry.Registry
	ManifestDirs   []string
	InspectAddress string
}

// Option defines a function type for applying configuration options.
type Option func(*Options)

// WithModules adds Fx modules to the application.
func WithModules(modules ...fx.Option) Option {
	return func(opts *Options) {
		opts.Modules = append(opts.Modules, modules...)
	}
}

// WithLogLevel overrides the log level from the settings.
// Valid levels are: "debug", "info", "warn", "error".
func WithLogLevel(level string) Option {
	return func(opts *Options) {
		opts.LogLevel = level
	}
}

// WithLogOutput sets where logs are written. The default is stderr.
func WithLogOutput(w io.Writer) Option {
	return func(opts *Options) {
		opts.LogOutput = w
	}
}

// WithSettings uses settings instead of reading a settings file.
func WithSettings(settings *config.Settings) Option {
	return func(opts *Options) {
		opts.Settings = settings
	}
}

// WithSettingsFile reads the settings from a YAML file.
func WithSettingsFile(path string) Option {
	return func(opts *Options) {
		opts.SettingsFile = path
	}
}

// WithRegistry uses reg for static values, extra sources and parents instead
// of the registry file named in the settings.
func WithRegistry(reg *registry.Registry) Option {
	return func(opts *Options) {
		opts.Registry = reg
	}
}

// WithManifestDirs overrides the manifest directories from the settings.
func WithManifestDirs(dirs ...string) Option {
	return func(opts *Options) {
		opts.ManifestDirs = slices.Clone(dirs)
	}
}

// WithInspect enables the inspect listener on address.
func WithInspect(address string) Option {
	return func(opts *Options) {
		opts.InspectAddress = address
	}
}
