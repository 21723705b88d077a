package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"text/tabwriter"

	"fastcorr/config"
	"fastcorr/core"
	"fastcorr/db"
	"fastcorr/pipeline"
	"fastcorr/utils"

	"github.com/mdobak/go-xerrors"
)

const usage = `usage:
  fastcorr correlate [flags] <imageA> <imageB>
  fastcorr runs [-limit N] [-env FILE]
  fastcorr fft <v1> <v2> ...
`

var errUsage = errors.New("invalid arguments")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, errUsage) || errors.Is(err, flag.ErrHelp) {
			fmt.Fprint(os.Stderr, usage)
		}
		if !errors.Is(err, flag.ErrHelp) {
			logger := utils.GetLogger()
			err := xerrors.New(err)
			logger.ErrorContext(ctx, "fastcorr failed.", slog.Any("error", err))
		}
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}

	switch args[0] {
	case "correlate":
		return correlateCmd(ctx, args[1:], out)
	case "runs":
		return runsCmd(args[1:], out)
	case "fft":
		return fftCmd(args[1:], out)
	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, args[0])
	}
}

func correlateCmd(ctx context.Context, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("correlate", flag.ContinueOnError)
	var (
		size      = fs.Int("size", 0, "grid size N (power of 2); 0 uses the whole square image")
		threshold = fs.Float64("threshold", core.DefaultPeakThreshold, "peak fraction of the maximum, in (0, 1]")
		workers   = fs.Int("workers", 0, "goroutines per transform phase; 0 uses GOMAXPROCS")
		output    = fs.String("out", "mask.png", "classification mask output (.png, .jpg, .jpeg)")
		plotPath  = fs.String("plot", "", "optional heat map of the correlation surface")
		record    = fs.Bool("record", false, "record the run in postgres")
		envFile   = fs.String("env", config.DefaultEnvFile, "dotenv file with defaults")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 2 {
		return fmt.Errorf("%w: correlate needs exactly two images", errUsage)
	}

	cfg, err := config.Load(*envFile)
	if err != nil {
		return err
	}

	// explicit flags win over the environment
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "size":
			cfg.GridSize = *size
		case "threshold":
			cfg.Threshold = *threshold
		case "workers":
			cfg.Workers = *workers
		case "out":
			cfg.Output = *output
		case "plot":
			cfg.PlotPath = *plotPath
		case "record":
			cfg.Record = *record
		}
	})
	if err := cfg.Validate(); err != nil {
		return err
	}

	req := pipeline.Request{
		ImageA:    fs.Arg(0),
		ImageB:    fs.Arg(1),
		GridSize:  cfg.GridSize,
		Threshold: cfg.Threshold,
		Workers:   cfg.Workers,
		Output:    cfg.Output,
		PlotPath:  cfg.PlotPath,
		Logger:    cfg.Logger(os.Stderr),
	}

	if cfg.Record {
		client, err := db.NewDBClient(cfg.DB)
		if err != nil {
			return err
		}
		defer client.Close()
		req.Store = client
	}

	res, err := pipeline.Run(ctx, req)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "max = %v\n", res.Peak.Value)
	fmt.Fprintf(out, "peak at row %d, col %d\n", res.Peak.Row, res.Peak.Col)
	fmt.Fprintf(out, "cells: %d peak, %d graded, %d background\n",
		res.Counts.Peak, res.Counts.Graded, res.Counts.Background)
	fmt.Fprintf(out, "mask written to %s (run %s, %v)\n", cfg.Output, res.RunID, res.Elapsed)
	return nil
}

func runsCmd(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("runs", flag.ContinueOnError)
	limit := fs.Int("limit", 10, "number of runs to list")
	envFile := fs.String("env", config.DefaultEnvFile, "dotenv file with defaults")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(*envFile)
	if err != nil {
		return err
	}
	if !cfg.DB.Enabled() {
		return errors.New("runs: DB_HOST is not set")
	}

	client, err := db.NewDBClient(cfg.DB)
	if err != nil {
		return err
	}
	defer client.Close()

	runs, err := client.RecentRuns(*limit)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCREATED\tSIZE\tPEAK\tMAX\tCELLS (P/G/B)\tIMAGES")
	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%s\t%d\t(%d,%d)\t%.6g\t%d/%d/%d\t%s, %s\n",
			r.ID, r.CreatedAt.Format("2006-01-02 15:04:05"), r.GridSize,
			r.PeakRow, r.PeakCol, r.PeakValue,
			r.PeakCells, r.GradedCells, r.BackgroundCells,
			r.ImageA, r.ImageB)
	}
	return w.Flush()
}

func fftCmd(args []string, out io.Writer) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: fft needs at least one value", errUsage)
	}

	values := make([]float64, len(args))
	for i, a := range args {
		v, err := strconv.ParseFloat(a, 64)
		if err != nil {
			return fmt.Errorf("fft: value %d: %w", i, err)
		}
		values[i] = v
	}

	spectrum, err := core.FFT(values)
	if err != nil {
		return err
	}
	for k, c := range spectrum {
		fmt.Fprintf(out, "%d: %v\n", k, c)
	}
	return nil
}
