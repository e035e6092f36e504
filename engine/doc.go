// Package engine resolves the composite value of a (type, property) pair
// from layered sources.
//
// Sources are consulted from highest to lowest priority:
//
//  1. override epochs, newest first (values set at runtime with Update)
//  2. fragment layers, newest pushed first (flattened configuration manifests)
//  3. the type's own static value, then its extra sources in order
//  4. the parent type, resolved the same way
//
// Each contribution is folded into the result with merge.MergeLowIntoHigh.
// Resolution stops as soon as a truthy scalar is found. Suppression pairs
// recorded with Remove filter every source below the epoch that holds them.
//
// An Engine is plain mutable state with no internal locking. Mutations
// (Update, Remove, PushManifest) must be serialized by the caller; concurrent
// Get calls are safe while no mutation is in flight. Use a Holder to swap a
// whole engine atomically, for reloads or test isolation.
package engine
