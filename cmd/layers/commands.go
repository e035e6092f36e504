package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"

	layers "github.com/0xalexb/hjarta-layers"
	yamlcodec "github.com/0xalexb/hjarta-layers/codec/yaml"
	"github.com/0xalexb/hjarta-layers/config/fetcher/file"
	"github.com/0xalexb/hjarta-layers/engine"
	"github.com/0xalexb/hjarta-layers/logging"
	"github.com/0xalexb/hjarta-layers/manifest"
	"github.com/0xalexb/hjarta-layers/registry"
	"github.com/0xalexb/hjarta-layers/value"

	"github.com/spf13/cobra"
)

var errUnknownOutput = errors.New("unknown output format")

// sourceFlags are shared by every command that builds an engine.
type sourceFlags struct {
	dirs     []string
	registry string
	verbose  bool
}

func (f *sourceFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringSliceVarP(&f.dirs, "dir", "d", []string{"manifests"}, "manifest directory (repeatable)")
	cmd.Flags().StringVarP(&f.registry, "registry", "r", "", "registry file declaring types and extensions")
	cmd.Flags().BoolVarP(&f.verbose, "verbose", "v", false, "log loading and resolution details to stderr")
}

func (f *sourceFlags) logger(cmd *cobra.Command) *slog.Logger {
	if !f.verbose {
		return logging.Discard()
	}

	return logging.NewLogger(logging.Config{Level: "debug", Format: "text"}, cmd.ErrOrStderr())
}

func (f *sourceFlags) loadRegistry() (*registry.Registry, error) {
	reg := registry.New()

	if f.registry != "" {
		data, err := file.ReadFile(f.registry)
		if err != nil {
			return nil, err
		}

		err = reg.Decode(data)
		if err != nil {
			return nil, fmt.Errorf("decoding %q: %w", f.registry, err)
		}
	}

	err := reg.Validate()
	if err != nil {
		return nil, err
	}

	return reg, nil
}

func (f *sourceFlags) loadManifest(cmd *cobra.Command) (*manifest.Manifest, error) {
	loader := manifest.NewLoader(f.dirs, manifest.WithLoaderLogger(f.logger(cmd)))

	return loader.Load(cmd.Context())
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "layers",
		Short:         "Resolve layered configuration values",
		Version:       layers.BuildInfo(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newGetCmd(), newOrderCmd(), newDumpCmd(), newServeCmd())

	return root
}

func newGetCmd() *cobra.Command {
	var (
		src          sourceFlags
		uninherited  bool
		firstSet     bool
		excludeExtra bool
		output       string
	)

	cmd := &cobra.Command{
		Use:   "get TYPE PROPERTY",
		Short: "Print the resolved value of a property",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := src.loadRegistry()
			if err != nil {
				return err
			}

			m, err := src.loadManifest(cmd)
			if err != nil {
				return err
			}

			eng := engine.New(reg, engine.WithLogger(src.logger(cmd)))
			m.Apply(eng)

			var mode engine.Resolution
			if uninherited {
				mode |= engine.Uninherited
			}

			if firstSet {
				mode |= engine.FirstSet
			}

			if excludeExtra {
				mode |= engine.ExcludeExtraSources
			}

			v, err := eng.Get(args[0], args[1], mode)
			if err != nil {
				return err
			}

			return writeValue(cmd.OutOrStdout(), v, output)
		},
	}

	src.bind(cmd)
	cmd.Flags().BoolVar(&uninherited, "uninherited", false, "do not consult parent types")
	cmd.Flags().BoolVar(&firstSet, "first-set", false, "stop at the first type contributing a value")
	cmd.Flags().BoolVar(&excludeExtra, "exclude-extra", false, "skip extension sources")
	cmd.Flags().StringVarP(&output, "output", "o", "yaml", "output format: yaml or json")

	return cmd
}

func newOrderCmd() *cobra.Command {
	var src sourceFlags

	cmd := &cobra.Command{
		Use:   "order",
		Short: "Print fragment names in the order they are applied",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, err := src.loadManifest(cmd)
			if err != nil {
				return err
			}

			for _, frag := range m.Fragments {
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", frag.Name, frag.Source)
				if err != nil {
					return err
				}
			}

			return nil
		},
	}

	src.bind(cmd)

	return cmd
}

func newDumpCmd() *cobra.Command {
	var (
		src    sourceFlags
		output string
	)

	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Print the flattened manifest",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, err := src.loadManifest(cmd)
			if err != nil {
				return err
			}

			return writeValue(cmd.OutOrStdout(), manifestValue(m), output)
		},
	}

	src.bind(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "yaml", "output format: yaml or json")

	return cmd
}

func newServeCmd() *cobra.Command {
	var settingsFile string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the application with manifest watching and the inspect endpoint",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			var opts []layers.Option
			if settingsFile != "" {
				opts = append(opts, layers.WithSettingsFile(settingsFile))
			}

			app := layers.NewApp(opts...)

			err := app.Err()
			if err != nil {
				return err
			}

			app.Run()

			return nil
		},
	}

	cmd.Flags().StringVarP(&settingsFile, "config", "c", "", "settings file")

	return cmd
}

// manifestValue renders a manifest as
//
//	config: {Type: {property: value}}
//	remove: {Type: {property: [masks]}}
//
// with types and properties sorted.
func manifestValue(m *manifest.Manifest) value.Value {
	cfg := value.NewMap()
	for _, ref := range sortedRefs(m.Values) {
		typ, _ := cfg.At(ref.Type)
		if typ == nil {
			cfg.Set(ref.Type, value.NewMap())
			typ, _ = cfg.At(ref.Type)
		}

		typ.Set(ref.Name, m.Values[ref])
	}

	removals := value.NewMap()
	for _, ref := range sortedRefs(m.Suppress) {
		masks := make([]value.Value, len(m.Suppress[ref]))
		for i, pair := range m.Suppress[ref] {
			masks[i] = value.Of(pair.String())
		}

		typ, _ := removals.At(ref.Type)
		if typ == nil {
			removals.Set(ref.Type, value.NewMap())
			typ, _ = removals.At(ref.Type)
		}

		typ.Set(ref.Name, value.NewList(masks...))
	}

	out := value.NewMap(value.E("config", cfg))
	if removals.Len() > 0 {
		out.Set("remove", removals)
	}

	return out
}

func sortedRefs[V any](layer map[engine.Ref]V) []engine.Ref {
	refs := make([]engine.Ref, 0, len(layer))
	for ref := range layer {
		refs = append(refs, ref)
	}

	slices.SortFunc(refs, func(a, b engine.Ref) int {
		if c := strings.Compare(a.Type, b.Type); c != 0 {
			return c
		}

		return strings.Compare(a.Name, b.Name)
	})

	return refs
}

func writeValue(w io.Writer, v value.Value, output string) error {
	switch output {
	case "yaml":
		if v.IsAbsent() {
			_, err := fmt.Fprintln(w, "null")

			return err
		}

		data, err := yamlcodec.Encode(v)
		if err != nil {
			return err
		}

		_, err = w.Write(data)

		return err
	case "json":
		data, err := json.Marshal(v)
		if err != nil {
			return err
		}

		_, err = fmt.Fprintln(w, string(data))

		return err
	default:
		return fmt.Errorf("%w: %q", errUnknownOutput, output)
	}
}
