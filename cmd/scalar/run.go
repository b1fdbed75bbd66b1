package main

import (
	"bufio"
	"cmp"
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"

	"github.com/ygrebnov/mapper"
	"github.com/ygrebnov/mapper/scalar"
)

// row is one line of the result table.
type row struct {
	Op       string
	Mode     string
	Result   string
	Duration time.Duration
}

type operation struct {
	name string
	run  func(ctx context.Context, r *scalar.Reducer, threads int, values []int) (string, error)
}

var operations = []operation{
	{"maximum", func(ctx context.Context, r *scalar.Reducer, k int, v []int) (string, error) {
		m, err := scalar.Maximum(ctx, r, k, v, cmp.Compare[int])
		return strconv.Itoa(m), err
	}},
	{"minimum", func(ctx context.Context, r *scalar.Reducer, k int, v []int) (string, error) {
		m, err := scalar.Minimum(ctx, r, k, v, cmp.Compare[int])
		return strconv.Itoa(m), err
	}},
	{"any even", func(ctx context.Context, r *scalar.Reducer, k int, v []int) (string, error) {
		ok, err := scalar.Any(ctx, r, k, v, isEven)
		return strconv.FormatBool(ok), err
	}},
	{"all positive", func(ctx context.Context, r *scalar.Reducer, k int, v []int) (string, error) {
		ok, err := scalar.All(ctx, r, k, v, func(x int) bool { return x > 0 })
		return strconv.FormatBool(ok), err
	}},
	{"count even", func(ctx context.Context, r *scalar.Reducer, k int, v []int) (string, error) {
		n, err := scalar.Count(ctx, r, k, v, isEven)
		return strconv.Itoa(n), err
	}},
}

func isEven(x int) bool { return x%2 == 0 }

// readInts parses whitespace-separated integers.
func readInts(r io.Reader) ([]int, error) {
	sc := bufio.NewScanner(r)
	sc.Split(bufio.ScanWords)

	var values []int
	for sc.Scan() {
		v, err := strconv.Atoi(sc.Text())
		if err != nil {
			return nil, fmt.Errorf("parse %q: %w", sc.Text(), err)
		}
		values = append(values, v)
	}
	return values, sc.Err()
}

// evaluate runs every operation with an unbound reducer and with a pooled one.
// A failing operation is reported in its row; only setup errors are returned.
func evaluate(ctx context.Context, values []int, threads, workers int, showProgress bool, logger *zap.Logger) ([]row, error) {
	pool, err := mapper.New(workers, mapper.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	defer pool.Close()

	modes := []struct {
		name string
		r    *scalar.Reducer
	}{
		{"goroutines", scalar.New(scalar.WithLogger(logger))},
		{"pool", scalar.New(scalar.WithPool(pool), scalar.WithLogger(logger))},
	}

	var bar *progressbar.ProgressBar
	if showProgress {
		bar = progressbar.NewOptions(len(modes)*len(operations),
			progressbar.OptionSetDescription("Reducing"),
			progressbar.OptionSetWidth(40),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
	}

	rows := make([]row, 0, len(modes)*len(operations))
	for _, m := range modes {
		for _, op := range operations {
			start := time.Now()
			res, err := op.run(ctx, m.r, threads, values)
			if err != nil {
				res = "error: " + err.Error()
			}
			rows = append(rows, row{Op: op.name, Mode: m.name, Result: res, Duration: time.Since(start)})
			if bar != nil {
				_ = bar.Add(1)
			}
		}
	}
	if bar != nil {
		_ = bar.Finish()
	}
	return rows, nil
}

func render(w io.Writer, rows []row) {
	table := tablewriter.NewWriter(w)
	table.Header("Operation", "Mode", "Result", "Time")
	for _, r := range rows {
		_ = table.Append(r.Op, r.Mode, r.Result, r.Duration.Round(time.Microsecond).String())
	}
	_ = table.Render()
}
