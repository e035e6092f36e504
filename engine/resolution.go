package engine

import (
	"errors"
	"fmt"
	"strings"
)

// Resolution selects how Get walks the sources. Bits combine freely.
type Resolution uint8

const (
	// Inherited consults the parent chain. It is the zero value.
	Inherited Resolution = 0
	// Uninherited never consults the parent type. It dominates FirstSet.
	Uninherited Resolution = 1
	// FirstSet stops climbing at the first type contributing any value, even an empty one.
	FirstSet Resolution = 2
	// ExcludeExtraSources skips the extra sources attached to each type.
	ExcludeExtraSources Resolution = 4
)

// ErrUnknownResolution is returned by ParseResolution for an unrecognized mode name.
var ErrUnknownResolution = errors.New("unknown resolution mode")

var resolutionNames = []struct {
	bit  Resolution
	name string
}{
	{Uninherited, "uninherited"},
	{FirstSet, "first_set"},
	{ExcludeExtraSources, "exclude_extra"},
}

// Has reports whether every bit of flag is set.
func (r Resolution) Has(flag Resolution) bool {
	return r&flag == flag
}

func (r Resolution) String() string {
	if r == Inherited {
		return "inherited"
	}

	var names []string

	for _, n := range resolutionNames {
		if r.Has(n.bit) {
			names = append(names, n.name)
		}
	}

	return strings.Join(names, ",")
}

// ParseResolution parses a comma separated list of mode names as printed by
// String. An empty string or "inherited" yields Inherited.
func ParseResolution(s string) (Resolution, error) {
	var r Resolution

	for _, part := range strings.Split(s, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part == "" || part == "inherited" {
			continue
		}

		found := false

		for _, n := range resolutionNames {
			if n.name == part {
				r |= n.bit
				found = true

				break
			}
		}

		if !found {
			return Inherited, fmt.Errorf("%w: %q", ErrUnknownResolution, part)
		}
	}

	return r, nil
}
