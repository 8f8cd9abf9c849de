// Package detector provides persistent detector handles over the opaque
// detection engine, plus the result transfer buffers both entry points
// produce. A handle amortizes engine setup across repeated detections; the
// one-shot entry point in oneshot.go trades that away for a self-contained
// call.
package detector

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/tagscan/tagscan/internal/engine"
	"github.com/tagscan/tagscan/internal/family"
)

// ErrClosed is returned when a detection is attempted on a handle that has
// already been closed. The accompanying result set is always empty.
var ErrClosed = errors.New("detector: handle is closed")

// Options are the detector tunables fixed at handle construction.
type Options struct {
	// QuadDecimate scales down the working image before quad search.
	// 1.0 disables decimation.
	QuadDecimate float32

	// Threads bounds the engine's internal parallelism. 1 makes
	// detection reproducible.
	Threads int
}

// DefaultOptions mirrors the engine's conventional tunables.
func DefaultOptions() Options {
	cfg := engine.DefaultConfig()
	return Options{QuadDecimate: cfg.QuadDecimate, Threads: cfg.Threads}
}

func validateOptions(opts Options) error {
	if opts.QuadDecimate < 1.0 {
		return fmt.Errorf("quad decimate must be >= 1.0, got %g", opts.QuadDecimate)
	}
	if opts.Threads < 1 {
		return fmt.Errorf("thread count must be >= 1, got %d", opts.Threads)
	}
	return nil
}

// Detector is a persistent handle bundling one configured engine instance
// with the single family capability it was built for. It is reusable for
// any number of detection calls without re-paying setup cost.
//
// A Detector is single-owner and not safe for concurrent use by multiple
// callers; independent handles own disjoint resources and may run in
// parallel.
type Detector struct {
	mu   sync.Mutex
	spec family.Spec
	opts Options
	eng  engine.Engine
}

// New constructs a Ready handle for the named family, or fails without
// allocating engine resources. An unrecognized family name is a recoverable
// condition reported as family.ErrUnknownFamily.
func New(familyName string, opts Options) (*Detector, error) {
	spec, err := family.Lookup(familyName)
	if err != nil {
		return nil, err
	}
	if err := validateOptions(opts); err != nil {
		return nil, err
	}

	backend, err := engine.Active()
	if err != nil {
		return nil, err
	}
	eng, err := backend.Open(spec.Name, engine.Config{
		QuadDecimate: opts.QuadDecimate,
		Threads:      opts.Threads,
	})
	if err != nil {
		return nil, fmt.Errorf("open %s engine for %s: %w", backend.Name(), spec.Name, err)
	}

	slog.Debug("detector ready",
		"family", spec.Name,
		"quad_decimate", opts.QuadDecimate,
		"threads", opts.Threads,
		"backend", backend.Name())

	return &Detector{spec: spec, opts: opts, eng: eng}, nil
}

// Family returns the capabilities of the family this handle was built for. Every
// detection through the handle implicitly uses it; there is no per-call
// override.
func (d *Detector) Family() family.Spec {
	return d.spec
}

// Options returns the tunables the handle was built with.
func (d *Detector) Options() Options {
	return d.opts
}

// Detect runs detection over the image view and returns a transfer buffer
// the caller must Release. The image is only borrowed for the duration of
// the call. The handle remains Ready afterwards.
//
// Calling Detect on a closed handle is defended: it reports ErrClosed with
// zero detections instead of touching freed resources.
func (d *Detector) Detect(img *engine.Image) (*Results, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.eng == nil {
		return Empty(), ErrClosed
	}
	if err := engine.ValidateView(img); err != nil {
		return Empty(), fmt.Errorf("invalid image view: %w", err)
	}

	dets, err := d.eng.Detect(img)
	if err != nil {
		return Empty(), fmt.Errorf("detect %s: %w", d.spec.Name, err)
	}
	return newResults(dets), nil
}

// Close releases the engine instance and its family capability, engine
// first. Close is idempotent; the handle is unusable afterwards.
func (d *Detector) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.eng == nil {
		return nil
	}
	err := d.eng.Close()
	d.eng = nil
	if err != nil {
		return fmt.Errorf("close %s engine: %w", d.spec.Name, err)
	}
	return nil
}
