package layers

//nolint:gochecknoglobals // set via ldflags at build time.
var (
	// Version is the release of the layers module and CLI.
	Version = "dev"
	// CompiledAt is the build timestamp.
	CompiledAt = "unknown"
)

// BuildInfo describes the running binary, for example "dev (compiled unknown)".
func BuildInfo() string {
	return Version + " (compiled " + CompiledAt + ")"
}
