package models

import "time"

// Run is one recorded correlation of two images.
type Run struct {
	ID        string
	ImageA    string
	ImageB    string
	GridSize  int
	Threshold float64

	PeakRow   int
	PeakCol   int
	PeakValue float64

	PeakCells       int
	GradedCells     int
	BackgroundCells int

	DurationMs int64
	CreatedAt  time.Time
}
