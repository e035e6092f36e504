// Package value defines the configuration value model: a tagged union of
// Absent, Scalar, List and Map.
//
// Scalars are opaque to merging; only their falsiness and equality matter.
// Maps keep insertion order. Raw data entering the system is classified once
// with Classify or FromRaw: an ordered container whose keys are exactly
// 0..n-1 becomes a List, any other container becomes a Map.
//
// Absent is distinct from every falsy value. It is what a lookup returns when
// no source contributes anything.
package value
