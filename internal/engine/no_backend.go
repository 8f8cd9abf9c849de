//go:build !reference

package engine

// newDefaultBackend is the no-backend fallback for builds without the
// `reference` tag.
func newDefaultBackend() (Backend, error) { return nil, ErrNoBackend }
