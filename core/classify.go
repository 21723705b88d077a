package core

import (
	"context"
	"image/color"
	"math"

	"gonum.org/v1/gonum/floats"
)

// DefaultPeakThreshold is the fraction of the surface maximum at or above which
// a cell belongs to the peak band.
const DefaultPeakThreshold = 0.9

// Band is the classification of one correlation-surface cell.
type Band int

const (
	BandBackground Band = iota // v <= 0
	BandGraded                 // 0 < v < threshold*max
	BandPeak                   // v >= threshold*max
)

func (b Band) String() string {
	switch b {
	case BandPeak:
		return "peak"
	case BandGraded:
		return "graded"
	default:
		return "background"
	}
}

// Marker is the classified value of one cell. Intensity is round(255*v/max)
// for graded cells, 255 for peak cells and 0 for background.
type Marker struct {
	Band      Band
	Intensity uint8
}

// RGB renders the marker: red for peak, gray for graded, black for background.
func (m Marker) RGB() color.RGBA {
	switch m.Band {
	case BandPeak:
		return color.RGBA{R: 255, A: 255}
	case BandGraded:
		return color.RGBA{R: m.Intensity, G: m.Intensity, B: m.Intensity, A: 255}
	default:
		return color.RGBA{A: 255}
	}
}

// ClassificationGrid holds one Marker per surface cell, row-major.
type ClassificationGrid [][]Marker

// BandCounts is the number of cells in each band.
type BandCounts struct {
	Peak       int
	Graded     int
	Background int
}

func (g ClassificationGrid) Counts() BandCounts {
	var c BandCounts
	for _, row := range g {
		for _, m := range row {
			switch m.Band {
			case BandPeak:
				c.Peak++
			case BandGraded:
				c.Graded++
			default:
				c.Background++
			}
		}
	}
	return c
}

// Peak is a cell attaining the surface maximum.
type Peak struct {
	Row   int
	Col   int
	Value float64
}

// FindPeak returns the first cell, in row-major order, holding the maximum.
func FindPeak(surface RealGrid) (Peak, error) {
	return defaultCorrelator.FindPeak(context.Background(), surface)
}

// Classify bands every cell against DefaultPeakThreshold.
func Classify(surface RealGrid) (ClassificationGrid, error) {
	return ClassifyWithThreshold(surface, DefaultPeakThreshold)
}

// ClassifyWithThreshold bands every cell of surface relative to its maximum.
// threshold must lie in (0, 1].
func ClassifyWithThreshold(surface RealGrid, threshold float64) (ClassificationGrid, error) {
	return defaultCorrelator.Classify(context.Background(), surface, threshold)
}

// FindPeak reduces per-row maxima computed in parallel into the global maximum.
func (c *Correlator) FindPeak(ctx context.Context, surface RealGrid) (Peak, error) {
	n, err := squareSize("FindPeak", surface)
	if err != nil {
		return Peak{}, err
	}

	rowPeaks := make([]Peak, n)
	err = c.each(ctx, n, func(i int) error {
		j := floats.MaxIdx(surface[i])
		rowPeaks[i] = Peak{Row: i, Col: j, Value: surface[i][j]}
		return nil
	})
	if err != nil {
		return Peak{}, err
	}

	best := rowPeaks[0]
	for _, p := range rowPeaks[1:] {
		if p.Value > best.Value {
			best = p
		}
	}
	return best, nil
}

func (c *Correlator) Classify(ctx context.Context, surface RealGrid, threshold float64) (ClassificationGrid, error) {
	classes, _, err := c.ClassifyWithPeak(ctx, surface, threshold)
	return classes, err
}

// ClassifyWithPeak classifies the surface and also returns the peak the bands
// were measured against.
func (c *Correlator) ClassifyWithPeak(ctx context.Context, surface RealGrid, threshold float64) (ClassificationGrid, Peak, error) {
	if err := ValidateThreshold(threshold); err != nil {
		return nil, Peak{}, err
	}

	peak, err := c.FindPeak(ctx, surface)
	if err != nil {
		return nil, Peak{}, err
	}

	n := len(surface)
	out := make(ClassificationGrid, n)
	err = c.each(ctx, n, func(i int) error {
		row := make([]Marker, n)
		for j, v := range surface[i] {
			row[j] = classifyCell(v, peak.Value, threshold)
		}
		out[i] = row
		return nil
	})
	if err != nil {
		return nil, Peak{}, err
	}
	return out, peak, nil
}

// ValidateThreshold rejects peak thresholds outside (0, 1].
func ValidateThreshold(threshold float64) error {
	if math.IsNaN(threshold) || threshold <= 0 || threshold > 1 {
		return parameterError("Classify", "peak threshold %v outside (0, 1]", threshold)
	}
	return nil
}

// classifyCell assumes max is the surface maximum. An all-zero surface is
// all peak; a negative maximum leaves every cell in the background.
func classifyCell(v, max, threshold float64) Marker {
	switch {
	case v >= threshold*max:
		return Marker{Band: BandPeak, Intensity: 255}
	case v > 0 && max > 0:
		return Marker{Band: BandGraded, Intensity: uint8(math.Round(255 * v / max))}
	default:
		return Marker{Band: BandBackground}
	}
}
