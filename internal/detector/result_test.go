package detector

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tagscan/tagscan/internal/engine"
)

func sampleDetections(n int) []engine.Detection {
	dets := make([]engine.Detection, n)
	for i := range dets {
		dets[i] = engine.Detection{
			ID:             i,
			Hamming:        i % 3,
			DecisionMargin: float32(i) * 1.5,
			Corners: [4]engine.Point{
				{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10},
			},
			Center: engine.Point{X: 5, Y: 5},
		}
	}
	return dets
}

func TestNewResults_CountMatches(t *testing.T) {
	for _, n := range []int{0, 1, 2, 17, 100} {
		res := newResults(sampleDetections(n))
		assert.Equal(t, n, res.Count())
		assert.Len(t, res.Records(), n)
		res.Release()
	}
}

func TestNewResults_MarshalsAllFields(t *testing.T) {
	res := newResults(sampleDetections(3))
	defer res.Release()

	rec := res.At(2)
	assert.Equal(t, 2, rec.ID)
	assert.Equal(t, 2, rec.Hamming)
	assert.InDelta(t, float32(3.0), rec.DecisionMargin, 0.0001)
	assert.Equal(t, engine.Point{X: 10, Y: 10}, rec.Corners[2])
	assert.Equal(t, engine.Point{X: 5, Y: 5}, rec.Center)
}

func TestNewResults_EmptyIsShared(t *testing.T) {
	res := newResults(nil)
	assert.Same(t, Empty(), res)
	assert.Equal(t, 0, res.Count())
	// Releasing the shared empty set never mutates it.
	res.Release()
	assert.Equal(t, 0, Empty().Count())
}

func TestRelease_Idempotent(t *testing.T) {
	gets0, puts0 := PoolStats()

	res := newResults(sampleDetections(4))
	res.Release()
	res.Release()
	res.Release()

	gets1, puts1 := PoolStats()
	assert.Equal(t, gets0+1, gets1)
	assert.Equal(t, puts0+1, puts1, "double release must not double-free")
}

func TestRelease_AfterReleaseCountIsZero(t *testing.T) {
	res := newResults(sampleDetections(2))
	require.Equal(t, 2, res.Count())
	res.Release()
	assert.Equal(t, 0, res.Count())
	assert.Nil(t, res.Records())
}

func TestResults_NilReceiverIsZero(t *testing.T) {
	var res *Results
	assert.Equal(t, 0, res.Count())
	assert.Nil(t, res.Records())
	res.Release()
}

func TestResultsToJSON(t *testing.T) {
	res := newResults(sampleDetections(2))
	defer res.Release()

	b, err := ResultsToJSON(res, "tag36h11", 640, 480)
	require.NoError(t, err)

	var out struct {
		Family string   `json:"family"`
		Width  int      `json:"width"`
		Height int      `json:"height"`
		Count  int      `json:"count"`
		Tags   []Record `json:"tags"`
	}
	require.NoError(t, json.Unmarshal(b, &out))
	assert.Equal(t, "tag36h11", out.Family)
	assert.Equal(t, 640, out.Width)
	assert.Equal(t, 480, out.Height)
	assert.Equal(t, 2, out.Count)
	require.Len(t, out.Tags, 2)
	assert.Equal(t, 1, out.Tags[1].ID)
}

func TestResultsToJSON_Empty(t *testing.T) {
	b, err := ResultsToJSON(Empty(), "tag16h5", 10, 10)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"count": 0`)
}
