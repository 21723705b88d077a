package core

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"
)

// Correlator runs the 2-D transforms and the correlation pipeline. Rows (and
// later columns) are spread over at most `workers` goroutines; the column
// phase never starts before every row of the row phase is done.
//
// A Correlator holds no mutable state and is safe for concurrent use.
type Correlator struct {
	workers int
	logger  *slog.Logger
}

// Option configures a Correlator.
type Option func(*Correlator)

// WithWorkers bounds the number of goroutines per phase. n <= 0 selects
// runtime.GOMAXPROCS(0).
func WithWorkers(n int) Option {
	return func(c *Correlator) {
		if n <= 0 {
			n = runtime.GOMAXPROCS(0)
		}
		c.workers = n
	}
}

// WithLogger sets the logger used for stage timings (debug level).
func WithLogger(l *slog.Logger) Option {
	return func(c *Correlator) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewCorrelator returns a single-worker Correlator unless options say otherwise.
func NewCorrelator(opts ...Option) *Correlator {
	c := &Correlator{
		workers: 1,
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Workers reports the per-phase goroutine bound.
func (c *Correlator) Workers() int { return c.workers }

var defaultCorrelator = NewCorrelator()

// Forward2D applies ForwardFFT to every row, then to every column.
func Forward2D(g ComplexGrid) (ComplexGrid, error) {
	return defaultCorrelator.Forward2D(context.Background(), g)
}

// Inverse2D mirrors Forward2D with InverseFFT, so Inverse2D(Forward2D(g)) ≈ g.
func Inverse2D(g ComplexGrid) (ComplexGrid, error) {
	return defaultCorrelator.Inverse2D(context.Background(), g)
}

// CrossCorrelate returns the circular cross-correlation surface of a and b
// using a single worker.
func CrossCorrelate(a, b RealGrid) (RealGrid, error) {
	return defaultCorrelator.CrossCorrelate(context.Background(), a, b)
}

func (c *Correlator) Forward2D(ctx context.Context, g ComplexGrid) (ComplexGrid, error) {
	return c.transform2D(ctx, "Forward2D", g, ForwardFFT)
}

func (c *Correlator) Inverse2D(ctx context.Context, g ComplexGrid) (ComplexGrid, error) {
	return c.transform2D(ctx, "Inverse2D", g, InverseFFT)
}

// transform2D runs fn over rows, then over the columns of the row result.
// Power-of-two validation is left to fn.
func (c *Correlator) transform2D(ctx context.Context, op string, g ComplexGrid, fn func([]Complex) ([]Complex, error)) (ComplexGrid, error) {
	n, err := squareSize(op, g)
	if err != nil {
		return nil, err
	}

	rows := make(ComplexGrid, n)
	err = c.each(ctx, n, func(i int) error {
		y, err := fn(g[i])
		if err != nil {
			return fmt.Errorf("%s: row %d: %w", op, i, err)
		}
		rows[i] = y
		return nil
	})
	if err != nil {
		return nil, err
	}

	out := NewComplexGrid(n)
	err = c.each(ctx, n, func(j int) error {
		col := make([]Complex, n)
		for i := 0; i < n; i++ {
			col[i] = rows[i][j]
		}
		y, err := fn(col)
		if err != nil {
			return fmt.Errorf("%s: column %d: %w", op, j, err)
		}
		for i := 0; i < n; i++ {
			out[i][j] = y[i]
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}

// CrossCorrelate transforms both grids, multiplies the spectrum of a by the
// conjugate of the spectrum of b, transforms back and keeps the real part.
func (c *Correlator) CrossCorrelate(ctx context.Context, a, b RealGrid) (RealGrid, error) {
	const op = "CrossCorrelate"

	na, err := squareSize(op, a)
	if err != nil {
		return nil, fmt.Errorf("first grid: %w", err)
	}
	nb, err := squareSize(op, b)
	if err != nil {
		return nil, fmt.Errorf("second grid: %w", err)
	}
	if na != nb {
		return nil, sizeError(op, na, "grid dimensions differ: %dx%d vs %dx%d", na, na, nb, nb)
	}
	if err := checkLength(op, na); err != nil {
		return nil, err
	}
	n := na

	start := time.Now()
	specA, err := c.Forward2D(ctx, ToComplex(a))
	if err != nil {
		return nil, err
	}
	specB, err := c.Forward2D(ctx, ToComplex(b))
	if err != nil {
		return nil, err
	}
	c.logger.DebugContext(ctx, "forward transforms done", slog.Int("size", n), slog.Duration("elapsed", time.Since(start)))

	product := make(ComplexGrid, n)
	err = c.each(ctx, n, func(i int) error {
		row := make([]Complex, n)
		for j := range row {
			row[j] = specA[i][j].Mul(specB[i][j].Conjugate())
		}
		product[i] = row
		return nil
	})
	if err != nil {
		return nil, err
	}

	surface, err := c.Inverse2D(ctx, product)
	if err != nil {
		return nil, err
	}
	c.logger.DebugContext(ctx, "correlation surface ready", slog.Int("size", n), slog.Duration("elapsed", time.Since(start)))

	return RealPart(surface), nil
}

// each calls fn(0..n-1) on at most c.workers goroutines and waits for all of
// them. No new index is scheduled once ctx is done or an fn has failed.
func (c *Correlator) each(ctx context.Context, n int, fn func(i int) error) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.workers)
	for i := 0; i < n; i++ {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			return fn(i)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}
