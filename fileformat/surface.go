package fileformat

import (
	"errors"
	"image"
	"image/color"
	"math"

	"fastcorr/core"
)

/*
Surface image showcases:

	Horizontal axis = column offset (0 to N-1)
	Vertical axis = row offset (top to bottom)
	Brightness = correlation value, min is black and max is white
*/
func SurfaceToImage(surface core.RealGrid, outputPath string) error {
	img, err := surfaceGray(surface)
	if err != nil {
		return err
	}
	return Save(img, outputPath)
}

func surfaceGray(surface core.RealGrid) (*image.Gray, error) {
	numRows := len(surface)
	if numRows == 0 || len(surface[0]) == 0 {
		return nil, errors.New("surface image: empty surface")
	}
	numCols := len(surface[0])

	img := image.NewGray(image.Rect(0, 0, numCols, numRows))

	//finding min and max so the full 0-255 range is used
	minValue, maxValue := math.Inf(1), math.Inf(-1)
	for i := range numRows {
		for j := range numCols {
			v := surface[i][j]
			minValue = math.Min(minValue, v)
			maxValue = math.Max(maxValue, v)
		}
	}

	span := maxValue - minValue
	for i := range numRows {
		for j := range numCols {
			var intensity uint8
			if span > 0 {
				intensity = uint8(math.Floor(255 * (surface[i][j] - minValue) / span))
			}
			img.SetGray(j, i, color.Gray{Y: intensity})
		}
	}

	return img, nil
}
