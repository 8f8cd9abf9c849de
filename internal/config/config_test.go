package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tagscan/tagscan/internal/family"
)

func TestDefaultConfig_IsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "tag36h11", cfg.Detector.Family)
	assert.InDelta(t, float32(2.0), cfg.Detector.QuadDecimate, 0.0001)
	assert.Equal(t, 1, cfg.Detector.Threads)
	assert.Equal(t, FormatText, cfg.Output.Format)
	assert.Equal(t, 100, cfg.Bench.Iterations)
}

func TestValidate_LogLevel(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LogLevel = "loud"
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "log level")
}

func TestValidate_UnknownFamily(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Detector.Family = "tagNope"
	err := cfg.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, family.ErrUnknownFamily)
}

func TestValidate_Decimate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Detector.QuadDecimate = 0.25
	require.Error(t, cfg.Validate())
}

func TestValidate_Threads(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Detector.Threads = 0
	require.Error(t, cfg.Validate())
}

func TestValidate_Format(t *testing.T) {
	cfg := DefaultConfig()
	for _, f := range []string{FormatText, FormatJSON, FormatYAML} {
		cfg.Output.Format = f
		assert.NoError(t, cfg.Validate())
	}
	cfg.Output.Format = "xml"
	require.Error(t, cfg.Validate())
}

func TestValidate_Bench(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Bench.Iterations = 0
	require.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Bench.Warmup = -1
	require.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Bench.BlurSigma = -0.5
	require.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Bench.NoiseSigma = -2
	require.Error(t, cfg.Validate())
}
