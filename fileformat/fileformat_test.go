package fileformat_test

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"fastcorr/core"
	"fastcorr/fileformat"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// gradientImage sets the red channel of pixel (x, y) to 16*y + x.
func gradientImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.Set(x, y, color.RGBA{R: uint8(16*y + x), G: 7, B: 9, A: 255})
		}
	}
	return img
}

func writePNG(t *testing.T, img image.Image) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "input.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
	return path
}

func TestLoad_DecodesSupportedFormats(t *testing.T) {
	src := gradientImage(4, 4)
	dir := t.TempDir()

	encoders := map[string]func(*os.File) error{
		"a.png":  func(f *os.File) error { return png.Encode(f, src) },
		"a.bmp":  func(f *os.File) error { return bmp.Encode(f, src) },
		"a.tiff": func(f *os.File) error { return tiff.Encode(f, src, nil) },
	}

	for name, encode := range encoders {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			f, err := os.Create(path)
			require.NoError(t, err)
			require.NoError(t, encode(f))
			require.NoError(t, f.Close())

			img, err := fileformat.Load(path)
			require.NoError(t, err)
			assert.Equal(t, 4, img.Bounds().Dx())

			v, err := fileformat.SampleIntensity(img, 3, 2)
			require.NoError(t, err)
			assert.Equal(t, 35.0, v)
		})
	}
}

func TestLoad_Errors(t *testing.T) {
	_, err := fileformat.Load(filepath.Join(t.TempDir(), "missing.png"))
	assert.Error(t, err)

	garbage := filepath.Join(t.TempDir(), "garbage.png")
	require.NoError(t, os.WriteFile(garbage, []byte("not an image"), 0o600))
	_, err = fileformat.Load(garbage)
	assert.Error(t, err)
}

func TestSampleIntensity_OutOfRange(t *testing.T) {
	img := gradientImage(4, 4)

	for _, p := range []image.Point{{-1, 0}, {0, -1}, {4, 0}, {0, 4}} {
		_, err := fileformat.SampleIntensity(img, p.X, p.Y)
		require.Error(t, err, p)
		assert.True(t, errors.Is(err, core.ErrSample), p)
	}
}

func TestSampleIntensity_OffsetBounds(t *testing.T) {
	img := gradientImage(8, 8).SubImage(image.Rect(2, 3, 6, 7))

	v, err := fileformat.SampleIntensity(img, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, float64(16*3+2), v)
}

func TestIntensityGrid(t *testing.T) {
	img := gradientImage(8, 6)

	grid, err := fileformat.IntensityGrid(img, 4)
	require.NoError(t, err)
	require.Equal(t, 4, grid.Size())
	for r := range 4 {
		for c := range 4 {
			assert.Equal(t, float64(16*r+c), grid[r][c])
		}
	}
}

func TestIntensityGrid_WholeSquareImage(t *testing.T) {
	path := writePNG(t, gradientImage(8, 8))
	img, err := fileformat.Load(path)
	require.NoError(t, err)

	grid, err := fileformat.IntensityGrid(img, 0)
	require.NoError(t, err)
	assert.Equal(t, 8, grid.Size())
	assert.Equal(t, float64(16*7+7), grid[7][7])
}

func TestIntensityGrid_Rejects(t *testing.T) {
	tests := []struct {
		name string
		img  image.Image
		size int
	}{
		{"not square", gradientImage(8, 4), 0},
		{"square not power of two", gradientImage(6, 6), 0},
		{"size not power of two", gradientImage(8, 8), 3},
		{"image too small", gradientImage(4, 8), 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := fileformat.IntensityGrid(tt.img, tt.size)
			require.Error(t, err)
			assert.True(t, errors.Is(err, core.ErrSize))
		})
	}
}

func TestMaskImage(t *testing.T) {
	grid := core.ClassificationGrid{
		{{Band: core.BandPeak, Intensity: 255}, {Band: core.BandGraded, Intensity: 100}},
		{{Band: core.BandBackground}, {Band: core.BandGraded, Intensity: 10}},
	}

	img, err := fileformat.MaskImage(grid)
	require.NoError(t, err)

	assert.Equal(t, color.RGBA{R: 255, A: 255}, img.RGBAAt(0, 0))
	assert.Equal(t, color.RGBA{R: 100, G: 100, B: 100, A: 255}, img.RGBAAt(1, 0))
	assert.Equal(t, color.RGBA{A: 255}, img.RGBAAt(0, 1))
	assert.Equal(t, color.RGBA{R: 10, G: 10, B: 10, A: 255}, img.RGBAAt(1, 1))
}

func TestMaskImage_RaggedGrid(t *testing.T) {
	grid := core.ClassificationGrid{{{}, {}}, {{}}}
	_, err := fileformat.MaskImage(grid)
	assert.True(t, errors.Is(err, core.ErrSize))
}

func TestNewMask_IsBackground(t *testing.T) {
	img := fileformat.NewMask(4)
	assert.Equal(t, image.Rect(0, 0, 4, 4), img.Bounds())
	assert.Equal(t, color.RGBA{A: 255}, img.RGBAAt(3, 3))

	err := fileformat.SetClassifiedSample(img, 4, 0, core.Marker{Band: core.BandPeak, Intensity: 255})
	assert.True(t, errors.Is(err, core.ErrSample))
}

func TestSave(t *testing.T) {
	img := fileformat.NewMask(4)
	require.NoError(t, fileformat.SetClassifiedSample(img, 1, 2, core.Marker{Band: core.BandPeak, Intensity: 255}))

	dir := t.TempDir()
	for _, name := range []string{"mask.png", "nested/mask.jpg", "MASK.JPEG"} {
		path := filepath.Join(dir, name)
		require.NoError(t, fileformat.Save(img, path), name)

		loaded, err := fileformat.Load(path)
		require.NoError(t, err, name)
		assert.Equal(t, 4, loaded.Bounds().Dx())
	}

	loaded, err := fileformat.Load(filepath.Join(dir, "mask.png"))
	require.NoError(t, err)
	v, err := fileformat.SampleIntensity(loaded, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, 255.0, v)
}

func TestSave_RejectsOtherFormats(t *testing.T) {
	for _, name := range []string{"mask.gif", "mask.bmp", "mask"} {
		err := fileformat.Save(fileformat.NewMask(2), filepath.Join(t.TempDir(), name))
		assert.ErrorIs(t, err, fileformat.ErrUnsupportedFormat, name)
	}
}

func TestSurfaceToImage(t *testing.T) {
	surface := core.RealGrid{
		{-10, 0},
		{10, 30},
	}
	path := filepath.Join(t.TempDir(), "surface.png")
	require.NoError(t, fileformat.SurfaceToImage(surface, path))

	img, err := fileformat.Load(path)
	require.NoError(t, err)

	want := [][]float64{{0, 63}, {127, 255}}
	for r := range 2 {
		for c := range 2 {
			v, err := fileformat.SampleIntensity(img, c, r)
			require.NoError(t, err)
			assert.Equal(t, want[r][c], v, "(%d,%d)", r, c)
		}
	}
}

func TestSurfaceToImage_FlatAndEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flat.png")
	require.NoError(t, fileformat.SurfaceToImage(core.RealGrid{{5, 5}, {5, 5}}, path))

	assert.Error(t, fileformat.SurfaceToImage(core.RealGrid{}, path))
}

func TestPlotSurface(t *testing.T) {
	surface := core.NewRealGrid(8)
	surface[3][0] = 100
	surface[0][1] = 60

	path := filepath.Join(t.TempDir(), "plots", "surface.png")
	require.NoError(t, fileformat.PlotSurface(surface, "correlation", path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())

	flat := filepath.Join(t.TempDir(), "flat.png")
	assert.NoError(t, fileformat.PlotSurface(core.NewRealGrid(4), "flat", flat))

	single := filepath.Join(t.TempDir(), "single.png")
	require.NoError(t, fileformat.PlotSurface(core.RealGrid{{42}}, "single", single))
	_, err = os.Stat(single)
	assert.NoError(t, err)

	assert.Error(t, fileformat.PlotSurface(core.RealGrid{}, "empty", flat))
}
