package config

import (
	"errors"
	"fmt"
	"net"
	"slices"
	"strings"
	"time"

	yamlcodec "github.com/0xalexb/hjarta-layers/codec/yaml"
	"github.com/0xalexb/hjarta-layers/config/fetcher/file"
)

// ErrInvalidSettings is wrapped by every Settings.Validate failure.
var ErrInvalidSettings = errors.New("invalid settings")

var errNegativeDuration = errors.New("negative duration")

// Values applied by Settings.SetDefaults.
const (
	DefaultLogLevel       = "info"
	DefaultLogFormat      = "json"
	DefaultManifestDir    = "manifests"
	DefaultDebounce       = "250ms"
	DefaultInspectAddress = "127.0.0.1:8089"
)

//nolint:gochecknoglobals // fixed lookup tables.
var (
	logLevels  = []string{"debug", "info", "warn", "warning", "error"}
	logFormats = []string{"json", "text"}
)

// Settings configures a layers application.
type Settings struct {
	Log       LogSettings      `yaml:"log"`
	Manifests ManifestSettings `yaml:"manifests"`
	// Registry is an optional YAML file declaring types and extensions.
	Registry string          `yaml:"registry"`
	Cache    bool            `yaml:"cache"`
	Inspect  InspectSettings `yaml:"inspect"`
}

// LogSettings selects the logger level and output format.
type LogSettings struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// ManifestSettings locates fragment files and controls reloading.
type ManifestSettings struct {
	Dirs     []string `yaml:"dirs"`
	Watch    bool     `yaml:"watch"`
	Debounce string   `yaml:"debounce"`
}

// InspectSettings configures the read-only HTTP endpoint.
type InspectSettings struct {
	Enabled bool   `yaml:"enabled"`
	Address string `yaml:"address"`
}

// SetDefaults implements Defaulter.
func (s *Settings) SetDefaults() bool {
	changed := false

	setString := func(field *string, def string) {
		if *field == "" {
			*field = def
			changed = true
		}
	}

	setString(&s.Log.Level, DefaultLogLevel)
	setString(&s.Log.Format, DefaultLogFormat)
	setString(&s.Manifests.Debounce, DefaultDebounce)
	setString(&s.Inspect.Address, DefaultInspectAddress)

	if len(s.Manifests.Dirs) == 0 {
		s.Manifests.Dirs = []string{DefaultManifestDir}
		changed = true
	}

	return changed
}

// Validate implements Validator. All problems are reported together.
func (s *Settings) Validate() error {
	var errs []error

	if !slices.Contains(logLevels, strings.ToLower(s.Log.Level)) {
		errs = append(errs, fmt.Errorf("%w: unknown log level %q", ErrInvalidSettings, s.Log.Level))
	}

	if !slices.Contains(logFormats, strings.ToLower(s.Log.Format)) {
		errs = append(errs, fmt.Errorf("%w: unknown log format %q", ErrInvalidSettings, s.Log.Format))
	}

	if slices.Contains(s.Manifests.Dirs, "") {
		errs = append(errs, fmt.Errorf("%w: empty manifest directory", ErrInvalidSettings))
	}

	if _, err := s.DebounceDuration(); err != nil {
		errs = append(errs, fmt.Errorf("%w: debounce: %w", ErrInvalidSettings, err))
	}

	if s.Inspect.Enabled {
		if _, _, err := net.SplitHostPort(s.Inspect.Address); err != nil {
			errs = append(errs, fmt.Errorf("%w: inspect address: %w", ErrInvalidSettings, err))
		}
	}

	return errors.Join(errs...)
}

// DebounceDuration parses Manifests.Debounce. An empty value is zero.
func (s *Settings) DebounceDuration() (time.Duration, error) {
	if s.Manifests.Debounce == "" {
		return 0, nil
	}

	d, err := time.ParseDuration(s.Manifests.Debounce)
	if err != nil {
		return 0, fmt.Errorf("parsing %q: %w", s.Manifests.Debounce, err)
	}

	if d < 0 {
		return 0, fmt.Errorf("%w: %q", errNegativeDuration, s.Manifests.Debounce)
	}

	return d, nil
}

// Default returns Settings with every default applied.
func Default() *Settings {
	s := &Settings{}
	s.SetDefaults()

	return s
}

// LoadFile reads Settings from the YAML file at path, below section when it
// is not empty.
func LoadFile(path, section string) (*Settings, error) {
	fetcher, err := file.NewFetcher(path)()
	if err != nil {
		return nil, err
	}

	return load(&Settings{}, section, yamlcodec.NewParser(), fetcher, nil)
}
