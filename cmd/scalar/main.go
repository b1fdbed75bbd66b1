// Command scalar reads integers and runs the parallel scalar reductions over them,
// once with per-call goroutines and once on a shared worker pool.
//
// Usage:
//
//	scalar [-threads N] [-workers W] [-file path] [-ci] [-v]
//
// Integers are read from -file, or from stdin when -file is empty.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"go.uber.org/zap"
)

var (
	bold = color.New(color.Bold)
	red  = color.New(color.FgRed)
)

func main() {
	var (
		threads = flag.Int("threads", 4, "partitions per reduction")
		workers = flag.Int("workers", 4, "worker pool size")
		file    = flag.String("file", "", "input file (default stdin)")
		ciMode  = flag.Bool("ci", false, "disable the progress bar")
		verbose = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	logger := zap.NewNop()
	if *verbose {
		l, err := zap.NewDevelopment()
		if err == nil {
			logger = l
		}
	}
	defer func() { _ = logger.Sync() }()

	if err := run(context.Background(), *file, *threads, *workers, *ciMode, logger); err != nil {
		_, _ = red.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, file string, threads, workers int, ciMode bool, logger *zap.Logger) error {
	var in io.Reader = os.Stdin
	if file != "" {
		f, err := os.Open(file)
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}

	values, err := readInts(in)
	if err != nil {
		return err
	}

	_, _ = bold.Printf("Reducing %d values with %d threads (pool of %d workers)\n\n", len(values), threads, workers)
	rows, err := evaluate(ctx, values, threads, workers, !ciMode, logger)
	if err != nil {
		return err
	}
	fmt.Println()
	render(os.Stdout, rows)
	return nil
}
