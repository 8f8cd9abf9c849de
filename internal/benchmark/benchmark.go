// Package benchmark measures per-frame detection latency against a
// persistent detector handle, isolating steady-state cost from one-time
// setup.
package benchmark

import (
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/tagscan/tagscan/internal/detector"
	"github.com/tagscan/tagscan/internal/engine"
)

// Timer provides simple timing utilities for benchmarking.
type Timer struct {
	start    time.Time
	name     string
	duration time.Duration
}

// NewTimer creates a new timer with the given name.
func NewTimer(name string) *Timer {
	return &Timer{name: name, start: time.Now()}
}

// Stop stops the timer and returns the elapsed duration.
func (t *Timer) Stop() time.Duration {
	t.duration = time.Since(t.start)
	return t.duration
}

// Duration returns the recorded duration (only valid after Stop()).
func (t *Timer) Duration() time.Duration {
	return t.duration
}

// String returns a formatted string representation of the timer.
func (t *Timer) String() string {
	return fmt.Sprintf("%s: %v", t.name, t.duration)
}

// MemoryStats holds memory usage statistics.
type MemoryStats struct {
	AllocBytes      uint64
	TotalAllocBytes uint64
	SysBytes        uint64
	NumGC           uint32
}

// GetMemoryStats returns current memory statistics.
func GetMemoryStats() MemoryStats {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return MemoryStats{
		AllocBytes:      m.Alloc,
		TotalAllocBytes: m.TotalAlloc,
		SysBytes:        m.Sys,
		NumGC:           m.NumGC,
	}
}

// String returns a formatted string representation of memory stats.
func (m MemoryStats) String() string {
	return fmt.Sprintf("Alloc: %d KB, Total: %d KB, Sys: %d KB, GC: %d",
		m.AllocBytes/1024, m.TotalAllocBytes/1024, m.SysBytes/1024, m.NumGC)
}

// Result holds the outcome of one bench run.
type Result struct {
	Family       string        `json:"family"     yaml:"family"`
	Iterations   int           `json:"iterations" yaml:"iterations"`
	Warmup       int           `json:"warmup"     yaml:"warmup"`
	Detections   int           `json:"detections" yaml:"detections"`
	Total        time.Duration `json:"total_ns"   yaml:"total_ns"`
	Latency      Stats         `json:"latency"    yaml:"latency"`
	MemoryBefore MemoryStats   `json:"-"          yaml:"-"`
	MemoryAfter  MemoryStats   `json:"-"          yaml:"-"`
}

// FPS returns the steady-state frame rate.
func (r *Result) FPS() float64 {
	if r.Total <= 0 {
		return 0
	}
	return float64(r.Iterations) / r.Total.Seconds()
}

// String returns a one-line summary of the run.
func (r *Result) String() string {
	return fmt.Sprintf("%s: %d iterations, %d detections/frame, mean %v, p99 %v, %.1f fps",
		r.Family, r.Iterations, r.Detections, r.Latency.Mean, r.Latency.P99, r.FPS())
}

// Run drives iterations detection calls through the handle after warmup
// throwaway calls. Every produced result buffer is released before the next
// call, so steady-state allocation stays flat.
func Run(d *detector.Detector, img *engine.Image, warmup, iterations int) (*Result, error) {
	if iterations < 1 {
		return nil, errors.New("benchmark: iterations must be >= 1")
	}
	if warmup < 0 {
		warmup = 0
	}

	for range warmup {
		res, err := d.Detect(img)
		if err != nil {
			return nil, fmt.Errorf("warmup detect: %w", err)
		}
		res.Release()
	}

	memBefore := GetMemoryStats()
	durations := make([]time.Duration, iterations)
	detections := 0

	total := NewTimer("bench")
	for i := range iterations {
		frame := NewTimer("frame")
		res, err := d.Detect(img)
		durations[i] = frame.Stop()
		if err != nil {
			return nil, fmt.Errorf("iteration %d: %w", i, err)
		}
		detections = res.Count()
		res.Release()
	}

	return &Result{
		Family:       d.Family().Name,
		Iterations:   iterations,
		Warmup:       warmup,
		Detections:   detections,
		Total:        total.Stop(),
		Latency:      ComputeStats(durations),
		MemoryBefore: memBefore,
		MemoryAfter:  GetMemoryStats(),
	}, nil
}
