// Package merge implements the layered merge algebra over value.Value.
//
// Priorities are always explicit in the function names: a "high" value was
// contributed by a more specific source than a "low" one. The rules are:
//
//   - falsy values never override anything, whatever their shape
//   - the first truthy scalar found wins
//   - list entries from lower priority sources are appended
//   - map keys present on both sides keep the higher entry, recursing when
//     both entries are containers
//   - a list meeting a map (or a container meeting a truthy scalar) is a
//     TypeMismatchError
//
// Suppression pairs remove entries contributed by lower priority sources.
package merge
