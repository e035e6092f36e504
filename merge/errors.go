package merge

import (
	"errors"
	"fmt"

	"github.com/0xalexb/hjarta-layers/value"
)

// ErrTypeMismatch is returned when two sources disagree on the shape of a value
// and neither side is falsy.
var ErrTypeMismatch = errors.New("type mismatch")

// TypeMismatchError describes a shape conflict. Path is the map key path
// below the merged value, empty at the top level.
type TypeMismatchError struct {
	Path []string
	High value.Kind
	Low  value.Kind
}

func (e *TypeMismatchError) Error() string {
	if len(e.Path) == 0 {
		return fmt.Sprintf("%s: cannot merge %s into %s", ErrTypeMismatch, e.Low, e.High)
	}

	return fmt.Sprintf("%s at %v: cannot merge %s into %s", ErrTypeMismatch, e.Path, e.Low, e.High)
}

func (e *TypeMismatchError) Unwrap() error { return ErrTypeMismatch }

func mismatch(path []string, high, low value.Value) error {
	return &TypeMismatchError{
		Path: append([]string(nil), path...),
		High: high.Kind(),
		Low:  low.Kind(),
	}
}
