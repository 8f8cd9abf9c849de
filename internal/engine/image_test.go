package engine

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewImage_Valid(t *testing.T) {
	pix := make([]byte, 640*480)
	img, err := NewImage(pix, 640, 480, 640)
	require.NoError(t, err)
	assert.Equal(t, 640, img.Width)
	assert.Equal(t, 480, img.Height)
	assert.Equal(t, 640, img.Stride)
}

func TestNewImage_StridePadding(t *testing.T) {
	// Stride exceeding width is legal row padding, not an error.
	pix := make([]byte, 100*64)
	img, err := NewImage(pix, 50, 100, 64)
	require.NoError(t, err)
	assert.Equal(t, 64, img.Stride)
}

func TestNewImage_LastRowUnpadded(t *testing.T) {
	// The final row only needs width bytes, not a full stride.
	pix := make([]byte, 64*9+50)
	_, err := NewImage(pix, 50, 10, 64)
	require.NoError(t, err)
}

func TestNewImage_StrideSmallerThanWidth(t *testing.T) {
	pix := make([]byte, 100*100)
	_, err := NewImage(pix, 100, 100, 50)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "stride")
}

func TestNewImage_BufferTooShort(t *testing.T) {
	pix := make([]byte, 10)
	_, err := NewImage(pix, 100, 100, 100)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "too short")
}

func TestNewImage_ZeroDimensions(t *testing.T) {
	_, err := NewImage(nil, 0, 0, 0)
	require.Error(t, err)
}

func TestFromGray(t *testing.T) {
	g := image.NewGray(image.Rect(0, 0, 8, 4))
	g.Pix[2*g.Stride+3] = 200

	img := FromGray(g)
	require.NoError(t, img.Validate())
	assert.Equal(t, 8, img.Width)
	assert.Equal(t, 4, img.Height)
	assert.Equal(t, byte(200), img.At(3, 2))

	// The view aliases, it does not copy.
	g.Pix[2*g.Stride+3] = 17
	assert.Equal(t, byte(17), img.At(3, 2))
}

func TestValidateView_Nil(t *testing.T) {
	require.Error(t, ValidateView(nil))
	pix := make([]byte, 16)
	img, err := NewImage(pix, 4, 4, 4)
	require.NoError(t, err)
	require.NoError(t, ValidateView(img))
}
