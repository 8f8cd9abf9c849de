package cmd

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tagscan/tagscan/internal/engine"
	"github.com/tagscan/tagscan/internal/engine/enginetest"
	"github.com/tagscan/tagscan/internal/testutil"
)

func scriptedBackend(t *testing.T) *enginetest.Backend {
	t.Helper()
	backend := enginetest.New()
	backend.Script("tag36h11", engine.Detection{
		ID:             5,
		Hamming:        0,
		DecisionMargin: 55.0,
		Corners: [4]engine.Point{
			{X: 270, Y: 190}, {X: 370, Y: 190}, {X: 370, Y: 290}, {X: 270, Y: 290},
		},
		Center: engine.Point{X: 320, Y: 240},
	})
	t.Cleanup(enginetest.Install(backend))
	return backend
}

func TestDetect_NoInputFiles(t *testing.T) {
	scriptedBackend(t)
	_, err := execute(t, "detect")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no input files")
}

func TestDetect_TextOutput(t *testing.T) {
	scriptedBackend(t)
	path := testutil.WriteGrayPNG(t, t.TempDir(), "frame.png", testutil.MarkerGray(testutil.MediumSize))

	out, err := execute(t, "detect", path, "--family", "tag36h11", "--format", "text")
	require.NoError(t, err)
	assert.Contains(t, out, "1 tag(s)")
	assert.Contains(t, out, "id=5")
}

func TestDetect_JSONOutput(t *testing.T) {
	scriptedBackend(t)
	path := testutil.WriteGrayPNG(t, t.TempDir(), "frame.png", testutil.MarkerGray(testutil.MediumSize))

	out, err := execute(t, "detect", path, "--format", "json")
	require.NoError(t, err)

	var docs []struct {
		File   string `json:"file"`
		Family string `json:"family"`
		Count  int    `json:"count"`
		Tags   []struct {
			ID int `json:"id"`
		} `json:"tags"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &docs))
	require.Len(t, docs, 1)
	assert.Equal(t, path, docs[0].File)
	assert.Equal(t, "tag36h11", docs[0].Family)
	assert.Equal(t, 1, docs[0].Count)
	require.Len(t, docs[0].Tags, 1)
	assert.Equal(t, 5, docs[0].Tags[0].ID)
}

func TestDetect_YAMLOutput(t *testing.T) {
	scriptedBackend(t)
	path := testutil.WriteGrayPNG(t, t.TempDir(), "frame.png", testutil.MarkerGray(testutil.SmallSize))

	out, err := execute(t, "detect", path, "--format", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "family: tag36h11")
	assert.Contains(t, out, "count: 1")
}

func TestDetect_PersistentHandleReused(t *testing.T) {
	backend := scriptedBackend(t)
	dir := t.TempDir()
	a := testutil.WriteGrayPNG(t, dir, "a.png", testutil.MarkerGray(testutil.SmallSize))
	b := testutil.WriteGrayPNG(t, dir, "b.png", testutil.MarkerGray(testutil.SmallSize))

	_, err := execute(t, "detect", a, b, "--format", "text")
	require.NoError(t, err)
	assert.Equal(t, 1, backend.Opens(), "one handle across all inputs")
	assert.Equal(t, 2, backend.DetectCalls())
	assert.Zero(t, backend.FamiliesAlive())
}

func TestDetect_OneshotRebuildsPerImage(t *testing.T) {
	backend := scriptedBackend(t)
	dir := t.TempDir()
	a := testutil.WriteGrayPNG(t, dir, "a.png", testutil.MarkerGray(testutil.SmallSize))
	b := testutil.WriteGrayPNG(t, dir, "b.png", testutil.MarkerGray(testutil.SmallSize))

	_, err := execute(t, "detect", a, b, "--oneshot")
	require.NoError(t, err)
	assert.Equal(t, 2, backend.Opens())
	assert.Equal(t, 2, backend.Closes())
	assert.Zero(t, backend.FamiliesAlive())
}

func TestDetect_MissingFile(t *testing.T) {
	scriptedBackend(t)
	_, err := execute(t, "detect", "missing.png")
	require.Error(t, err)
}
