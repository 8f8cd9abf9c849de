// Package testutil provides synthetic grayscale images and file fixtures
// for detection tests.
package testutil

import (
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// ImageSize represents common image dimensions.
type ImageSize struct {
	Width  int
	Height int
}

var (
	// Common test image sizes.
	SmallSize  = ImageSize{320, 240}
	MediumSize = ImageSize{640, 480}
)

// UniformGray returns a grayscale image filled with a single value.
func UniformGray(size ImageSize, value byte) *image.Gray {
	g := image.NewGray(image.Rect(0, 0, size.Width, size.Height))
	for i := range g.Pix {
		g.Pix[i] = value
	}
	return g
}

// GradientGray returns a grayscale image with a horizontal ramp, useful
// when a test needs non-uniform pixel content.
func GradientGray(size ImageSize) *image.Gray {
	g := image.NewGray(image.Rect(0, 0, size.Width, size.Height))
	for y := range size.Height {
		row := g.Pix[y*g.Stride:]
		for x := range size.Width {
			row[x] = byte(255 * x / size.Width)
		}
	}
	return g
}

// MarkerGray returns a grayscale image with a high-contrast dark square on
// a light background, roughly where a centered tag would sit.
func MarkerGray(size ImageSize) *image.Gray {
	g := UniformGray(size, 200)
	side := size.Height / 4
	x0 := (size.Width - side) / 2
	y0 := (size.Height - side) / 2
	for y := y0; y < y0+side; y++ {
		row := g.Pix[y*g.Stride:]
		for x := x0; x < x0+side; x++ {
			row[x] = 20
		}
	}
	return g
}

// WriteGrayPNG encodes g into dir and returns the file path.
func WriteGrayPNG(t *testing.T, dir, name string, g *image.Gray) string {
	t.Helper()
	path := filepath.Join(dir, name)
	f, err := os.Create(path) //nolint:gosec // test fixture path
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, g))
	require.NoError(t, f.Close())
	return path
}
