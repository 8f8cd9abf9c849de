package engine

import (
	"errors"
	"sync"
)

// ErrNoBackend is returned when no detection backend is linked into the
// binary and none has been registered.
var ErrNoBackend = errors.New("engine: no detection backend linked; build with -tags=reference or register a backend")

// Config holds the tunables applied when an engine instance is opened.
type Config struct {
	// QuadDecimate scales down the working image before quad search.
	// 1.0 means no decimation; 2.0 is the conventional speed/accuracy
	// trade-off.
	QuadDecimate float32

	// Threads bounds the engine's internal parallelism. 1 forces
	// single-threaded execution for reproducible benchmarking.
	Threads int
}

// DefaultConfig returns the conventional engine tunables.
func DefaultConfig() Config {
	return Config{QuadDecimate: 2.0, Threads: 1}
}

// Point is a sub-pixel position in image coordinates.
type Point struct {
	X float64
	Y float64
}

// Detection is a single decoded tag as reported by a backend.
//
// Corners are ordered {top-left, top-right, bottom-right, bottom-left}
// relative to the tag's encoded orientation, regardless of how the physical
// marker is rotated in the image.
type Detection struct {
	ID             int
	Hamming        int
	DecisionMargin float32
	Corners        [4]Point
	Center         Point
}

// Engine is an opened detection engine instance bound to one tag family.
//
// An Engine is single-writer: it must not be used concurrently by multiple
// callers. Independent instances own disjoint resources and may run in
// parallel.
type Engine interface {
	// Detect runs detection over the image view. The image is read-only
	// and only valid for the duration of the call; implementations must
	// not retain it. Detections are returned in engine discovery order,
	// which is not significant and may vary with Threads.
	Detect(img *Image) ([]Detection, error)

	// Close releases the engine instance and the family capability it was
	// opened with, in that order. Close is required exactly once.
	Close() error
}

// Backend creates Engine instances.
type Backend interface {
	// Name identifies the backend implementation.
	Name() string

	// Open builds an engine for the named family with the given tunables.
	// The family name has already been validated against the registry;
	// backends may still reject names they have no capability pair for.
	Open(familyName string, cfg Config) (Engine, error)
}

var (
	backendMu sync.RWMutex
	backend   Backend
)

// Register installs b as the active backend, replacing any previous one.
// It is intended for tests and for embedders that bring their own engine.
func Register(b Backend) {
	backendMu.Lock()
	defer backendMu.Unlock()
	backend = b
}

// Active returns the currently installed backend, falling back to the
// build's default. It fails with ErrNoBackend when the default build has
// nothing linked.
func Active() (Backend, error) {
	backendMu.RLock()
	b := backend
	backendMu.RUnlock()
	if b != nil {
		return b, nil
	}
	return newDefaultBackend()
}
