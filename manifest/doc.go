// Package manifest turns independently authored configuration fragments into
// a single prioritized tier for the resolution engine.
//
// A fragment is one YAML document:
//
//	name: colors-dark
//	after: [base, "theme-*"]
//	before: overrides
//	config:
//	  Widget:
//	    Colors: [black]
//	remove:
//	  - type: Widget
//	    property: Colors
//	    value: red
//
// Fragments are ordered with their before/after constraints, folded into one
// engine.Layer in that order (later fragments win on clashes) and pushed into
// an engine.Engine with Manifest.Apply. Loader reads fragments from
// directories and Watcher reports when they change.
package manifest
