package config

import (
	"fmt"

	"github.com/tagscan/tagscan/internal/family"
)

// Config represents the complete configuration for the tagscan CLI.
// It supports loading from configuration files, environment variables, and
// command-line flags.
type Config struct {
	// Global settings
	LogLevel string `mapstructure:"log_level" yaml:"log_level" json:"log_level"`
	Verbose  bool   `mapstructure:"verbose"   yaml:"verbose"   json:"verbose"`

	// Detector settings shared by the detect and bench commands
	Detector DetectorConfig `mapstructure:"detector" yaml:"detector" json:"detector"`

	// Output settings
	Output OutputConfig `mapstructure:"output" yaml:"output" json:"output"`

	// Bench command settings
	Bench BenchConfig `mapstructure:"bench" yaml:"bench" json:"bench"`
}

// DetectorConfig contains the detector handle tunables.
type DetectorConfig struct {
	Family       string  `mapstructure:"family"        yaml:"family"        json:"family"`
	QuadDecimate float32 `mapstructure:"quad_decimate" yaml:"quad_decimate" json:"quad_decimate"`
	Threads      int     `mapstructure:"threads"       yaml:"threads"       json:"threads"`
}

// OutputConfig controls how detection results are rendered.
type OutputConfig struct {
	Format string `mapstructure:"format" yaml:"format" json:"format"`
	File   string `mapstructure:"file"   yaml:"file"   json:"file"`
}

// BenchConfig contains the bench command's run parameters and optional
// image distortions.
type BenchConfig struct {
	Iterations int     `mapstructure:"iterations"  yaml:"iterations"  json:"iterations"`
	Warmup     int     `mapstructure:"warmup"      yaml:"warmup"      json:"warmup"`
	BlurSigma  float64 `mapstructure:"blur_sigma"  yaml:"blur_sigma"  json:"blur_sigma"`
	Contrast   float64 `mapstructure:"contrast"    yaml:"contrast"    json:"contrast"`
	Brightness int     `mapstructure:"brightness"  yaml:"brightness"  json:"brightness"`
	NoiseSigma float64 `mapstructure:"noise_sigma" yaml:"noise_sigma" json:"noise_sigma"`
	NoiseSeed  int64   `mapstructure:"noise_seed"  yaml:"noise_seed"  json:"noise_seed"`
}

// Output formats accepted by OutputConfig.Format.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	return Config{
		LogLevel: "info",
		Detector: DetectorConfig{
			Family:       "tag36h11",
			QuadDecimate: 2.0,
			Threads:      1,
		},
		Output: OutputConfig{Format: FormatText},
		Bench: BenchConfig{
			Iterations: 100,
			Warmup:     5,
			Contrast:   1.0,
		},
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level %q", c.LogLevel)
	}

	if !family.IsSupported(c.Detector.Family) {
		return fmt.Errorf("%w: %q (supported: %v)", family.ErrUnknownFamily, c.Detector.Family, family.Names())
	}
	if c.Detector.QuadDecimate < 1.0 {
		return fmt.Errorf("detector.quad_decimate must be >= 1.0, got %g", c.Detector.QuadDecimate)
	}
	if c.Detector.Threads < 1 {
		return fmt.Errorf("detector.threads must be >= 1, got %d", c.Detector.Threads)
	}

	switch c.Output.Format {
	case FormatText, FormatJSON, FormatYAML:
	default:
		return fmt.Errorf("invalid output format %q (expected text, json or yaml)", c.Output.Format)
	}

	if c.Bench.Iterations < 1 {
		return fmt.Errorf("bench.iterations must be >= 1, got %d", c.Bench.Iterations)
	}
	if c.Bench.Warmup < 0 {
		return fmt.Errorf("bench.warmup must be >= 0, got %d", c.Bench.Warmup)
	}
	if c.Bench.BlurSigma < 0 {
		return fmt.Errorf("bench.blur_sigma must be >= 0, got %g", c.Bench.BlurSigma)
	}
	if c.Bench.NoiseSigma < 0 {
		return fmt.Errorf("bench.noise_sigma must be >= 0, got %g", c.Bench.NoiseSigma)
	}
	return nil
}
