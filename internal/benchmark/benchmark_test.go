package benchmark

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tagscan/tagscan/internal/detector"
	"github.com/tagscan/tagscan/internal/engine"
	"github.com/tagscan/tagscan/internal/engine/enginetest"
)

func benchImage(t *testing.T) *engine.Image {
	t.Helper()
	img, err := engine.NewImage(make([]byte, 320*240), 320, 240, 320)
	require.NoError(t, err)
	return img
}

func TestTimer(t *testing.T) {
	timer := NewTimer("test")
	time.Sleep(time.Millisecond)
	d := timer.Stop()
	assert.Positive(t, d)
	assert.Equal(t, d, timer.Duration())
	assert.Contains(t, timer.String(), "test:")
}

func TestGetMemoryStats(t *testing.T) {
	m := GetMemoryStats()
	assert.Positive(t, m.AllocBytes)
	assert.Contains(t, m.String(), "Alloc:")
}

func TestRun(t *testing.T) {
	backend := enginetest.New()
	backend.Script("tag36h11", engine.Detection{ID: 5, Center: engine.Point{X: 160, Y: 120}})
	defer enginetest.Install(backend)()

	d, err := detector.New("tag36h11", detector.DefaultOptions())
	require.NoError(t, err)
	defer func() { require.NoError(t, d.Close()) }()

	res, err := Run(d, benchImage(t), 2, 10)
	require.NoError(t, err)

	assert.Equal(t, "tag36h11", res.Family)
	assert.Equal(t, 10, res.Iterations)
	assert.Equal(t, 2, res.Warmup)
	assert.Equal(t, 1, res.Detections)
	assert.Equal(t, 12, backend.DetectCalls(), "warmup frames run through the same handle")
	assert.Positive(t, res.Total)
	assert.Positive(t, res.FPS())
	assert.LessOrEqual(t, res.Latency.Min, res.Latency.Max)
	assert.Contains(t, res.String(), "tag36h11")
}

func TestRun_InvalidIterations(t *testing.T) {
	backend := enginetest.New()
	defer enginetest.Install(backend)()

	d, err := detector.New("tag16h5", detector.DefaultOptions())
	require.NoError(t, err)
	defer func() { require.NoError(t, d.Close()) }()

	_, err = Run(d, benchImage(t), 0, 0)
	require.Error(t, err)
}

func TestRun_NegativeWarmupTreatedAsZero(t *testing.T) {
	backend := enginetest.New()
	defer enginetest.Install(backend)()

	d, err := detector.New("tag16h5", detector.DefaultOptions())
	require.NoError(t, err)
	defer func() { require.NoError(t, d.Close()) }()

	res, err := Run(d, benchImage(t), -5, 3)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Warmup)
	assert.Equal(t, 3, backend.DetectCalls())
}

func TestRun_ReleasesEveryBuffer(t *testing.T) {
	backend := enginetest.New()
	backend.Script("tag25h9", engine.Detection{ID: 1})
	defer enginetest.Install(backend)()

	d, err := detector.New("tag25h9", detector.DefaultOptions())
	require.NoError(t, err)
	defer func() { require.NoError(t, d.Close()) }()

	gets0, puts0 := detector.PoolStats()
	_, err = Run(d, benchImage(t), 1, 5)
	require.NoError(t, err)
	gets1, puts1 := detector.PoolStats()

	assert.Equal(t, gets1-gets0, puts1-puts0, "bench must not leak result buffers")
}
