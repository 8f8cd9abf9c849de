// Package enginetest provides an in-process engine backend with scripted
// detections and lifecycle counters, for tests that exercise handle and
// result ownership without a native library.
package enginetest

import (
	"errors"
	"fmt"
	"sync"

	"github.com/tagscan/tagscan/internal/engine"
	"github.com/tagscan/tagscan/internal/family"
)

// Backend is a scripted engine.Backend. Detections are keyed by family name
// so interleaved handles for different families never see each other's
// records.
type Backend struct {
	mu sync.Mutex

	// Script maps family name to the detections every Detect call returns.
	// Families absent from the script detect nothing.
	script map[string][]engine.Detection

	// OpenErr, when set, makes every Open fail.
	OpenErr error

	// DetectErr, when set, makes every Detect fail.
	DetectErr error

	opens          int
	closes         int
	familiesAlive  int
	detectCalls    int
	lastOpenConfig engine.Config
}

// New returns an empty-scripted backend.
func New() *Backend {
	return &Backend{script: make(map[string][]engine.Detection)}
}

// Script sets the detections returned for familyName.
func (b *Backend) Script(familyName string, dets ...engine.Detection) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.script[familyName] = dets
}

func (b *Backend) Name() string { return "enginetest" }

// Open implements engine.Backend. It mirrors the real backend's capability
// check: names outside the registry's closed set are rejected.
func (b *Backend) Open(familyName string, cfg engine.Config) (engine.Engine, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.OpenErr != nil {
		return nil, b.OpenErr
	}
	if !family.IsSupported(familyName) {
		return nil, fmt.Errorf("enginetest: no capability for family %q", familyName)
	}
	b.opens++
	b.familiesAlive++
	b.lastOpenConfig = cfg
	return &fakeEngine{backend: b, familyName: familyName}, nil
}

// Opens returns the number of successful Open calls.
func (b *Backend) Opens() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.opens
}

// Closes returns the number of Close calls on engines this backend opened.
func (b *Backend) Closes() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.closes
}

// FamiliesAlive returns the number of family capabilities constructed but
// not yet destroyed. Zero means no leaked resources.
func (b *Backend) FamiliesAlive() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.familiesAlive
}

// DetectCalls returns the total number of Detect calls across all engines.
func (b *Backend) DetectCalls() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.detectCalls
}

// LastOpenConfig returns the Config passed to the most recent Open.
func (b *Backend) LastOpenConfig() engine.Config {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lastOpenConfig
}

type fakeEngine struct {
	backend    *Backend
	familyName string
	closed     bool
}

var errEngineClosed = errors.New("enginetest: detect on closed engine")

func (e *fakeEngine) Detect(img *engine.Image) ([]engine.Detection, error) {
	e.backend.mu.Lock()
	defer e.backend.mu.Unlock()
	if e.closed {
		return nil, errEngineClosed
	}
	if e.backend.DetectErr != nil {
		return nil, e.backend.DetectErr
	}
	if err := img.Validate(); err != nil {
		return nil, err
	}
	e.backend.detectCalls++
	scripted := e.backend.script[e.familyName]
	// Copy so callers cannot alias script state through results.
	out := make([]engine.Detection, len(scripted))
	copy(out, scripted)
	return out, nil
}

func (e *fakeEngine) Close() error {
	e.backend.mu.Lock()
	defer e.backend.mu.Unlock()
	if e.closed {
		return errors.New("enginetest: double close")
	}
	e.closed = true
	e.backend.closes++
	e.backend.familiesAlive--
	return nil
}

// Install registers b as the active backend and returns a restore function
// that reinstates the previous default for subsequent tests.
func Install(b *Backend) func() {
	engine.Register(b)
	return func() { engine.Register(nil) }
}
