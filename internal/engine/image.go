package engine

import (
	"errors"
	"fmt"
	"image"
)

// Image is a non-owning, read-only view of a caller-provided grayscale
// pixel buffer. Pixels are row-major, one byte per pixel; Stride is the byte
// distance between the start of consecutive rows and may exceed Width when
// rows are padded.
//
// The view never owns Pix: the caller guarantees the buffer's lifetime for
// the duration of the call it is passed to, and nothing more. Detection
// never mutates the buffer.
type Image struct {
	Pix    []byte
	Width  int
	Height int
	Stride int
}

// NewImage wraps pix in a validated view.
func NewImage(pix []byte, width, height, stride int) (*Image, error) {
	img := &Image{Pix: pix, Width: width, Height: height, Stride: stride}
	if err := img.Validate(); err != nil {
		return nil, err
	}
	return img, nil
}

// FromGray wraps a stdlib grayscale image without copying its pixels.
// The returned view aliases g.Pix and is subject to the same lifetime
// contract as any other view.
func FromGray(g *image.Gray) *Image {
	b := g.Bounds()
	return &Image{
		Pix:    g.Pix,
		Width:  b.Dx(),
		Height: b.Dy(),
		Stride: g.Stride,
	}
}

// Validate checks the view's geometry against its buffer.
func (im *Image) Validate() error {
	if im.Width <= 0 || im.Height <= 0 {
		return fmt.Errorf("invalid image dimensions %dx%d", im.Width, im.Height)
	}
	if im.Stride < im.Width {
		return fmt.Errorf("stride %d smaller than width %d", im.Stride, im.Width)
	}
	// The last row need not be padded out to the full stride.
	need := im.Stride*(im.Height-1) + im.Width
	if len(im.Pix) < need {
		return fmt.Errorf("pixel buffer too short: have %d bytes, need %d", len(im.Pix), need)
	}
	return nil
}

// At returns the pixel at (x, y). It performs no bounds checking beyond the
// slice's own.
func (im *Image) At(x, y int) byte {
	return im.Pix[y*im.Stride+x]
}

var errNilImage = errors.New("nil image view")

// ValidateView is a nil-tolerant form of Validate for boundary checks.
func ValidateView(im *Image) error {
	if im == nil {
		return errNilImage
	}
	return im.Validate()
}
