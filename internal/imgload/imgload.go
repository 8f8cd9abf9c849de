// Package imgload loads image files and prepares the grayscale buffers the
// detection boundary consumes.
package imgload

import (
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"
)

// SupportedExtensions lists the file extensions accepted for loading.
var SupportedExtensions = []string{".jpg", ".jpeg", ".png", ".bmp"}

// IsSupported reports whether the path has a supported image extension.
func IsSupported(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, s := range SupportedExtensions {
		if ext == s {
			return true
		}
	}
	return false
}

// Metadata captures lightweight file and pixel information.
type Metadata struct {
	Path      string
	Format    string
	SizeBytes int64
	Width     int
	Height    int
}

// Load opens and decodes an image file.
func Load(path string) (image.Image, Metadata, error) {
	if path == "" {
		return nil, Metadata{}, errors.New("empty image path")
	}
	if !IsSupported(path) {
		return nil, Metadata{}, fmt.Errorf("unsupported image format: %s", filepath.Ext(path))
	}

	f, err := os.Open(path) //nolint:gosec // G304: user-provided image path is expected
	if err != nil {
		return nil, Metadata{}, fmt.Errorf("open image: %w", err)
	}
	defer func() { _ = f.Close() }()

	img, format, err := image.Decode(f)
	if err != nil {
		return nil, Metadata{}, fmt.Errorf("decode image %s: %w", path, err)
	}

	info, err := f.Stat()
	if err != nil {
		return nil, Metadata{}, fmt.Errorf("stat image: %w", err)
	}

	b := img.Bounds()
	return img, Metadata{
		Path:      path,
		Format:    format,
		SizeBytes: info.Size(),
		Width:     b.Dx(),
		Height:    b.Dy(),
	}, nil
}

// ToGray converts any decoded image to a single-channel grayscale image,
// one byte per pixel. Images that are already *image.Gray pass through
// unchanged.
func ToGray(img image.Image) *image.Gray {
	if g, ok := img.(*image.Gray); ok {
		return g
	}
	// imaging.Grayscale keeps NRGBA; collapse to one channel afterwards.
	flat := imaging.Grayscale(img)
	b := flat.Bounds()
	gray := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := range b.Dy() {
		src := flat.Pix[y*flat.Stride:]
		dst := gray.Pix[y*gray.Stride:]
		for x := range b.Dx() {
			dst[x] = src[x*4]
		}
	}
	return gray
}

// LoadGray loads an image file and returns it as grayscale.
func LoadGray(path string) (*image.Gray, Metadata, error) {
	img, meta, err := Load(path)
	if err != nil {
		return nil, Metadata{}, err
	}
	return ToGray(img), meta, nil
}
