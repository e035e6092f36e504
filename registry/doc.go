// Package registry holds the types known to the engine: their parent, their
// declared static values and the extensions attached to them.
//
// A Registry is populated at startup, either in code with Register and
// RegisterExtension or from YAML with Decode, and is read-only afterwards.
// It implements engine.Sources.
package registry
