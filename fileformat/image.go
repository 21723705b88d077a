// Package fileformat moves intensity data between image files and the grids
// consumed by package core.
package fileformat

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"fastcorr/core"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
)

// Load decodes a PNG, JPEG, GIF, BMP or TIFF file.
func Load(path string) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("load: cannot open %s: %w", path, err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("load: cannot decode %s: %w", path, err)
	}
	return img, nil
}

// SampleIntensity returns the red channel at (x, y) on a 0-255 scale.
// Coordinates are relative to the image's top-left corner.
func SampleIntensity(img image.Image, x, y int) (float64, error) {
	b := img.Bounds()
	if x < 0 || y < 0 || x >= b.Dx() || y >= b.Dy() {
		return 0, core.SampleError("SampleIntensity", x, y, fmt.Sprintf("outside %dx%d image", b.Dx(), b.Dy()))
	}

	r, _, _, _ := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
	return float64(r >> 8), nil
}

// IntensityGrid samples the top-left size x size region of img, row r and
// column c taken from pixel (c, r). A size of 0 uses the whole image, which
// must then be square.
func IntensityGrid(img image.Image, size int) (core.RealGrid, error) {
	const op = "IntensityGrid"

	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	if size == 0 {
		if w != h {
			return nil, core.SizeError(op, w, fmt.Sprintf("image is %dx%d, not square", w, h))
		}
		size = w
	}
	if !core.IsPowerOfTwo(size) {
		return nil, core.SizeError(op, size, fmt.Sprintf("grid size %d is not a power of 2", size))
	}
	if w < size || h < size {
		return nil, core.SizeError(op, size, fmt.Sprintf("image is %dx%d, smaller than %dx%d", w, h, size, size))
	}

	grid := core.NewRealGrid(size)
	for r := range size {
		for c := range size {
			v, err := SampleIntensity(img, c, r)
			if err != nil {
				return nil, err
			}
			grid[r][c] = v
		}
	}
	return grid, nil
}
