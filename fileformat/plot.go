package fileformat

import (
	"errors"
	"fmt"
	"path/filepath"

	"fastcorr/core"
	"fastcorr/utils"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// surfaceXYZ adapts a RealGrid to plotter.GridXYZ. Column c maps to X and
// row r maps to Y.
type surfaceXYZ struct {
	surface core.RealGrid
}

func (s surfaceXYZ) Dims() (c, r int)   { return len(s.surface[0]), len(s.surface) }
func (s surfaceXYZ) Z(c, r int) float64 { return s.surface[r][c] }
func (s surfaceXYZ) X(c int) float64    { return float64(c) }
func (s surfaceXYZ) Y(r int) float64    { return float64(r) }

// PlotSurface renders the surface as a heat map with row 0 at the top. The
// output format follows the path suffix (png, svg, pdf, ...).
func PlotSurface(surface core.RealGrid, title, path string) error {
	if len(surface) == 0 || len(surface[0]) == 0 {
		return errors.New("plot surface: empty surface")
	}

	minValue, maxValue := floats.Min(surface[0]), floats.Max(surface[0])
	for _, row := range surface[1:] {
		minValue = min(minValue, floats.Min(row))
		maxValue = max(maxValue, floats.Max(row))
	}

	hm := plotter.NewHeatMap(surfaceXYZ{surface: surface}, palette.Heat(64, 1))
	if maxValue == minValue {
		hm.Max = minValue + 1
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "column offset"
	p.Y.Label.Text = "row offset"
	p.Y.Scale = plot.InvertedScale{Normalizer: p.Y.Scale}
	p.Add(hm)

	if err := utils.CreateFolder(filepath.Dir(path)); err != nil {
		return err
	}
	if err := p.Save(6*vg.Inch, 6*vg.Inch, path); err != nil {
		return fmt.Errorf("plot surface %s: %w", path, err)
	}
	return nil
}
