// Package family is the registry of supported AprilTag families.
//
// The registry is pure dispatch over a closed set of names: it maps a family
// name string to static metadata about that family's encoding scheme. The
// decoding tables themselves live behind the active engine backend; this
// package is the single source of truth for which names exist at all.
package family

import (
	"errors"
	"fmt"
	"sort"
)

// ErrUnknownFamily is returned when a family name is not in the supported set.
// This is a recoverable, expected condition: callers surface it as a failed
// construction or an empty detection result, never as a crash.
var ErrUnknownFamily = errors.New("unknown tag family")

// Spec describes a tag family's encoding scheme.
type Spec struct {
	// Name is the canonical family identifier, e.g. "tag36h11".
	Name string

	// Bits is the number of payload bits in the tag's data grid.
	Bits int

	// MinHamming is the minimum Hamming distance between any two valid
	// codewords in the family's code space.
	MinHamming int
}

// specs is the closed set of supported families. Adding a family here is the
// only change needed to make it visible to the registry; engine backends key
// their own capability tables by these names.
var specs = map[string]Spec{
	"tag16h5":          {Name: "tag16h5", Bits: 16, MinHamming: 5},
	"tag25h9":          {Name: "tag25h9", Bits: 25, MinHamming: 9},
	"tag36h11":         {Name: "tag36h11", Bits: 36, MinHamming: 11},
	"tagCircle21h7":    {Name: "tagCircle21h7", Bits: 21, MinHamming: 7},
	"tagCircle49h12":   {Name: "tagCircle49h12", Bits: 49, MinHamming: 12},
	"tagCustom48h12":   {Name: "tagCustom48h12", Bits: 48, MinHamming: 12},
	"tagStandard41h12": {Name: "tagStandard41h12", Bits: 41, MinHamming: 12},
	"tagStandard52h13": {Name: "tagStandard52h13", Bits: 52, MinHamming: 13},
}

// Lookup resolves a family name to its spec.
// Unrecognized names (including the empty string) are rejected, not guessed.
func Lookup(name string) (Spec, error) {
	s, ok := specs[name]
	if !ok {
		return Spec{}, fmt.Errorf("%w: %q", ErrUnknownFamily, name)
	}
	return s, nil
}

// IsSupported reports whether name is in the supported set.
func IsSupported(name string) bool {
	_, ok := specs[name]
	return ok
}

// Names returns the supported family names in sorted order.
func Names() []string {
	names := make([]string, 0, len(specs))
	for name := range specs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
