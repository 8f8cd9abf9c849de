package benchmark

import (
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"
)

// Stats summarizes a latency distribution.
type Stats struct {
	Mean   time.Duration `json:"mean_ns"   yaml:"mean_ns"`
	StdDev time.Duration `json:"stddev_ns" yaml:"stddev_ns"`
	Min    time.Duration `json:"min_ns"    yaml:"min_ns"`
	Max    time.Duration `json:"max_ns"    yaml:"max_ns"`
	P50    time.Duration `json:"p50_ns"    yaml:"p50_ns"`
	P90    time.Duration `json:"p90_ns"    yaml:"p90_ns"`
	P99    time.Duration `json:"p99_ns"    yaml:"p99_ns"`
}

// ComputeStats reduces per-frame durations to summary statistics.
func ComputeStats(durations []time.Duration) Stats {
	if len(durations) == 0 {
		return Stats{}
	}

	xs := make([]float64, len(durations))
	for i, d := range durations {
		xs[i] = float64(d)
	}
	sort.Float64s(xs)

	mean, std := stat.MeanStdDev(xs, nil)
	if len(xs) == 1 {
		std = 0
	}

	return Stats{
		Mean:   time.Duration(mean),
		StdDev: time.Duration(std),
		Min:    time.Duration(xs[0]),
		Max:    time.Duration(xs[len(xs)-1]),
		P50:    quantile(0.50, xs),
		P90:    quantile(0.90, xs),
		P99:    quantile(0.99, xs),
	}
}

// quantile assumes xs is sorted.
func quantile(p float64, xs []float64) time.Duration {
	return time.Duration(stat.Quantile(p, stat.Empirical, xs, nil))
}
