// Package logging builds the log/slog logger shared by the engine, the
// manifest loader and the fx container.
package logging
