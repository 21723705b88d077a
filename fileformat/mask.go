package fileformat

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"fastcorr/core"
	"fastcorr/utils"
)

var ErrUnsupportedFormat = errors.New("fileformat: unsupported output format")

// NewMask returns an n x n mask with every pixel set to the background color.
func NewMask(n int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, n, n))
	bg := core.Marker{Band: core.BandBackground}.RGB()
	draw.Draw(img, img.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)
	return img
}

// SetClassifiedSample paints the marker's color at (x, y).
func SetClassifiedSample(img draw.Image, x, y int, m core.Marker) error {
	b := img.Bounds()
	if x < 0 || y < 0 || x >= b.Dx() || y >= b.Dy() {
		return core.SampleError("SetClassifiedSample", x, y, fmt.Sprintf("outside %dx%d mask", b.Dx(), b.Dy()))
	}
	img.Set(b.Min.X+x, b.Min.Y+y, m.RGB())
	return nil
}

// MaskImage renders a classification grid; cell (r, c) becomes pixel (c, r).
func MaskImage(grid core.ClassificationGrid) (*image.RGBA, error) {
	n := len(grid)
	for i, row := range grid {
		if len(row) != n {
			return nil, core.SizeError("MaskImage", n, fmt.Sprintf("row %d has %d cells, want %d", i, len(row), n))
		}
	}

	img := NewMask(n)
	for r, row := range grid {
		for c, m := range row {
			if err := SetClassifiedSample(img, c, r, m); err != nil {
				return nil, err
			}
		}
	}
	return img, nil
}

// Save encodes img as PNG or JPEG, chosen by the path suffix. Any other
// suffix returns ErrUnsupportedFormat. Missing parent folders are created.
func Save(img image.Image, path string) error {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".png" && ext != ".jpg" && ext != ".jpeg" {
		return fmt.Errorf("save %s: %w %q", path, ErrUnsupportedFormat, ext)
	}

	if err := utils.CreateFolder(filepath.Dir(path)); err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("save: %w", err)
	}

	if ext == ".png" {
		err = png.Encode(file, img)
	} else {
		err = jpeg.Encode(file, img, &jpeg.Options{Quality: 95})
	}
	if err != nil {
		file.Close()
		return fmt.Errorf("save %s: %w", path, err)
	}
	return file.Close()
}
