// Package pipeline runs a full image correlation: load, sample, correlate,
// classify, write the mask and optionally plot and record the run.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"fastcorr/core"
	"fastcorr/fileformat"
	"fastcorr/models"
	"fastcorr/utils"
)

// RunStore persists finished runs. db.PostgresClient satisfies it.
type RunStore interface {
	StoreRun(run models.Run) error
}

type Request struct {
	ImageA string
	ImageB string
	// GridSize crops both images to their top-left GridSize x GridSize
	// region; 0 uses the whole (square) image.
	GridSize int
	// Threshold is the peak fraction of the maximum; 0 means core.DefaultPeakThreshold.
	Threshold float64
	Workers   int
	Output    string
	// PlotPath, when set, receives a heat map of the correlation surface.
	PlotPath string
	// Store, when set, records the run.
	Store  RunStore
	Logger *slog.Logger
}

type Result struct {
	RunID    string
	GridSize int
	Peak     core.Peak
	Counts   core.BandCounts
	Surface  core.RealGrid
	Mask     core.ClassificationGrid
	Elapsed  time.Duration
}

func Run(ctx context.Context, req Request) (*Result, error) {
	startTime := time.Now()

	logger := req.Logger
	if logger == nil {
		logger = utils.GetLogger()
	}
	threshold := req.Threshold
	if threshold == 0 {
		threshold = core.DefaultPeakThreshold
	}
	if err := core.ValidateThreshold(threshold); err != nil {
		return nil, err
	}

	runID := utils.GenerateRunID()
	logger = logger.With(slog.String("run", runID))

	gridA, gridB, err := loadGrids(req.ImageA, req.ImageB, req.GridSize)
	if err != nil {
		return nil, err
	}
	n := gridA.Size()
	logger.InfoContext(ctx, "sampled intensity grids", slog.Int("size", n))

	correlator := core.NewCorrelator(core.WithWorkers(req.Workers), core.WithLogger(logger))

	surface, err := correlator.CrossCorrelate(ctx, gridA, gridB)
	if err != nil {
		return nil, fmt.Errorf("correlating %s and %s: %w", req.ImageA, req.ImageB, err)
	}

	mask, peak, err := correlator.ClassifyWithPeak(ctx, surface, threshold)
	if err != nil {
		return nil, err
	}
	counts := mask.Counts()

	img, err := fileformat.MaskImage(mask)
	if err != nil {
		return nil, err
	}
	if err := fileformat.Save(img, req.Output); err != nil {
		return nil, err
	}
	logger.InfoContext(ctx, "wrote mask", slog.String("path", req.Output))

	if req.PlotPath != "" {
		title := fmt.Sprintf("correlation peak %.6g at (%d, %d)", peak.Value, peak.Row, peak.Col)
		if err := fileformat.PlotSurface(surface, title, req.PlotPath); err != nil {
			return nil, err
		}
		logger.InfoContext(ctx, "wrote surface plot", slog.String("path", req.PlotPath))
	}

	res := &Result{
		RunID:    runID,
		GridSize: n,
		Peak:     peak,
		Counts:   counts,
		Surface:  surface,
		Mask:     mask,
		Elapsed:  time.Since(startTime),
	}

	if req.Store != nil {
		run := models.Run{
			ID:              runID,
			ImageA:          req.ImageA,
			ImageB:          req.ImageB,
			GridSize:        n,
			Threshold:       threshold,
			PeakRow:         peak.Row,
			PeakCol:         peak.Col,
			PeakValue:       peak.Value,
			PeakCells:       counts.Peak,
			GradedCells:     counts.Graded,
			BackgroundCells: counts.Background,
			DurationMs:      res.Elapsed.Milliseconds(),
			CreatedAt:       startTime.UTC(),
		}
		if err := req.Store.StoreRun(run); err != nil {
			return nil, fmt.Errorf("recording run %s: %w", runID, err)
		}
	}

	logger.InfoContext(ctx, "correlation finished",
		slog.Float64("max", peak.Value),
		slog.Int("peak_row", peak.Row),
		slog.Int("peak_col", peak.Col),
		slog.Int("peak_cells", counts.Peak),
		slog.Int("graded_cells", counts.Graded),
		slog.Duration("elapsed", res.Elapsed),
	)
	return res, nil
}

func loadGrids(pathA, pathB string, size int) (core.RealGrid, core.RealGrid, error) {
	imgA, err := fileformat.Load(pathA)
	if err != nil {
		return nil, nil, err
	}
	imgB, err := fileformat.Load(pathB)
	if err != nil {
		return nil, nil, err
	}

	if sa, sb := imgA.Bounds().Size(), imgB.Bounds().Size(); sa != sb {
		return nil, nil, core.SizeError("pipeline", sa.X, fmt.Sprintf("image dimensions differ: %dx%d vs %dx%d", sa.X, sa.Y, sb.X, sb.Y))
	}

	gridA, err := fileformat.IntensityGrid(imgA, size)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", pathA, err)
	}
	gridB, err := fileformat.IntensityGrid(imgB, size)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", pathB, err)
	}
	return gridA, gridB, nil
}
