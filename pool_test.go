package mapper

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ygrebnov/mapper/metrics"
)

func newTestPool(t *testing.T, workers int, opts ...Option) *Pool {
	t.Helper()
	p, err := New(workers, opts...)
	if err != nil {
		t.Fatalf("New(%d) error: %v", workers, err)
	}
	t.Cleanup(p.Close)
	return p
}

func TestMap_ResultsIndexAligned(t *testing.T) {
	for _, opts := range [][]Option{nil, {WithLIFO()}} {
		p := newTestPool(t, 4, opts...)
		in := []int{0, 1, 2, 3, 4, 5, 6, 7}

		// Earlier inputs sleep longer, so completion order is roughly reversed.
		res, err := Map(context.Background(), p, in, func(_ context.Context, x int) (string, error) {
			time.Sleep(time.Duration(len(in)-x) * 2 * time.Millisecond)
			return fmt.Sprint(x * x), nil
		})
		if err != nil {
			t.Fatalf("Map error: %v", err)
		}
		for i, x := range in {
			if res[i] != fmt.Sprint(x*x) {
				t.Fatalf("res[%d] = %q; want %q", i, res[i], fmt.Sprint(x*x))
			}
		}
	}
}

func TestMap_EmptyInputs(t *testing.T) {
	p := newTestPool(t, 1)
	called := false
	res, err := Map(context.Background(), p, nil, func(context.Context, int) (int, error) {
		called = true
		return 0, nil
	})
	if err != nil || res == nil || len(res) != 0 || called {
		t.Fatalf("Map(empty) = (%v, %v), called=%v; want ([], nil), false", res, err, called)
	}
}

func TestMap_InvalidArguments(t *testing.T) {
	if _, err := Map(context.Background(), nil, []int{1}, func(context.Context, int) (int, error) { return 0, nil }); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("Map(nil pool) = %v; want ErrInvalidArgument", err)
	}
	p := newTestPool(t, 1)
	if _, err := Map[int, int](context.Background(), p, []int{1}, nil); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("Map(nil fn) = %v; want ErrInvalidArgument", err)
	}
}

func TestMap_FailuresAggregatedAndSiblingsRun(t *testing.T) {
	p := newTestPool(t, 3)
	var ran atomic.Int32

	in := make([]int, 20)
	for i := range in {
		in[i] = i
	}
	res, err := Map(context.Background(), p, in, func(_ context.Context, x int) (int, error) {
		ran.Add(1)
		switch {
		case x%7 == 0:
			return 0, fmt.Errorf("fail %d", x)
		case x == 10:
			panic("ten")
		}
		return x, nil
	})

	if res != nil {
		t.Fatalf("results must be discarded on failure, got %v", res)
	}
	if ran.Load() != int32(len(in)) {
		t.Fatalf("ran %d tasks; want %d", ran.Load(), len(in))
	}
	var ae *AggregateError
	if !errors.As(err, &ae) {
		t.Fatalf("error = %T %v; want *AggregateError", err, err)
	}
	// 0, 7, 14 fail and 10 panics.
	if ae.Len() != 4 || len(ae.Secondary) != 3 {
		t.Fatalf("failures = %d (secondary %d); want 4 (3)", ae.Len(), len(ae.Secondary))
	}
	if !errors.Is(err, ErrTaskPanicked) {
		t.Fatalf("aggregate must include the recovered panic")
	}
}

func TestMap_ErrorTagging(t *testing.T) {
	p := newTestPool(t, 2, WithErrorTagging())
	_, err := Map(context.Background(), p, []int{1, 2, 3}, func(_ context.Context, x int) (int, error) {
		if x == 3 {
			return 0, errors.New("three")
		}
		return x, nil
	})
	idx, ok := ExtractTaskIndex(err)
	if !ok || idx != 2 {
		t.Fatalf("ExtractTaskIndex = (%d, %v); want (2, true)", idx, ok)
	}

	_, err = Map(context.Background(), p, []int{0, 1, 2}, func(_ context.Context, x int) (int, error) {
		if x == 1 {
			panic("boom")
		}
		return x, nil
	})
	if !errors.Is(err, ErrTaskPanicked) {
		t.Fatalf("Map = %v; want ErrTaskPanicked", err)
	}
	idx, ok = ExtractTaskIndex(err)
	if !ok || idx != 1 {
		t.Fatalf("ExtractTaskIndex(panic) = (%d, %v); want (1, true)", idx, ok)
	}
}

func TestMap_InterruptedWait(t *testing.T) {
	p := newTestPool(t, 1)
	release := make(chan struct{})

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	_, err := Map(ctx, p, []int{1, 2}, func(_ context.Context, x int) (int, error) {
		<-release
		return x, nil
	})
	close(release)

	if !errors.Is(err, ErrInterruptedWait) || !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Map = %v; want ErrInterruptedWait wrapping DeadlineExceeded", err)
	}

	// The pool stays usable afterwards.
	res, err := Map(context.Background(), p, []int{5}, func(_ context.Context, x int) (int, error) { return x, nil })
	if err != nil || res[0] != 5 {
		t.Fatalf("Map after interruption = (%v, %v)", res, err)
	}
}

func TestPool_CloseAbandonsQueuedTasks(t *testing.T) {
	p, err := New(1)
	if err != nil {
		t.Fatal(err)
	}

	started := make(chan struct{}, 1)
	release := make(chan struct{})
	const n = 5

	errCh := make(chan error, 1)
	go func() {
		_, err := Map(context.Background(), p, make([]int, n), func(_ context.Context, x int) (int, error) {
			started <- struct{}{}
			<-release
			return x, nil
		})
		errCh <- err
	}()

	<-started
	closed := make(chan struct{})
	go func() { p.Close(); close(closed) }()

	select {
	case <-closed:
		t.Fatalf("Close returned while a task was still running")
	case <-time.After(30 * time.Millisecond):
	}
	close(release)

	select {
	case <-closed:
	case <-time.After(time.Second):
		t.Fatalf("Close did not return after the running task finished")
	}

	err = <-errCh
	var ae *AggregateError
	if !errors.As(err, &ae) || ae.Len() != n-1 || !errors.Is(err, ErrClosed) {
		t.Fatalf("Map = %v; want %d ErrClosed failures", err, n-1)
	}

	if _, err := Map(context.Background(), p, []int{1}, func(_ context.Context, x int) (int, error) { return x, nil }); !errors.Is(err, ErrClosed) {
		t.Fatalf("Map after Close = %v; want ErrClosed", err)
	}
	p.Close() // idempotent
}

func TestPool_CloseIdle(t *testing.T) {
	p, err := New(8)
	if err != nil {
		t.Fatal(err)
	}
	done := make(chan struct{})
	go func() { p.Close(); close(done) }()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("Close on an idle pool did not return")
	}
}

func TestPool_Metrics(t *testing.T) {
	mp := metrics.NewBasicProvider()
	p := newTestPool(t, 3, WithMetrics(mp))

	_, err := Map(context.Background(), p, []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, func(_ context.Context, x int) (int, error) {
		if x%5 == 0 {
			return 0, errors.New("five")
		}
		return x, nil
	})
	if err == nil {
		t.Fatalf("expected aggregate error")
	}

	if got := mp.CounterValue(metrics.TasksSubmitted); got != 10 {
		t.Fatalf("submitted = %d; want 10", got)
	}
	if got := mp.CounterValue(metrics.TasksCompleted); got != 10 {
		t.Fatalf("completed = %d; want 10", got)
	}
	if got := mp.CounterValue(metrics.TasksFailed); got != 2 {
		t.Fatalf("failed = %d; want 2", got)
	}
	if got := mp.UpDownValue(metrics.QueueDepth); got != 0 {
		t.Fatalf("queue depth = %d; want 0", got)
	}
	if s, ok := mp.HistogramSnapshot(metrics.MapDuration); !ok || s.Count != 1 {
		t.Fatalf("map duration snapshot = %+v, %v; want one record", s, ok)
	}
}

func TestPool_RateLimit(t *testing.T) {
	// 50 tasks/s with burst 1: five tasks need at least ~80ms.
	p := newTestPool(t, 4, WithRateLimit(50, 1))
	start := time.Now()
	if _, err := Map(context.Background(), p, make([]int, 5), func(_ context.Context, x int) (int, error) { return x, nil }); err != nil {
		t.Fatalf("Map error: %v", err)
	}
	if elapsed := time.Since(start); elapsed < 60*time.Millisecond {
		t.Fatalf("rate-limited Map took %v; want >= 60ms", elapsed)
	}
}

func TestForEach(t *testing.T) {
	p := newTestPool(t, 2)
	var sum atomic.Int64
	err := ForEach(context.Background(), p, []int{1, 2, 3, 4}, func(_ context.Context, x int) error {
		sum.Add(int64(x))
		if x == 4 {
			return errors.New("four")
		}
		return nil
	})
	if sum.Load() != 10 {
		t.Fatalf("sum = %d; want 10", sum.Load())
	}
	var ae *AggregateError
	if !errors.As(err, &ae) || ae.Len() != 1 {
		t.Fatalf("ForEach = %v; want one failure", err)
	}
	if err := ForEach[int](context.Background(), p, []int{1}, nil); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("ForEach(nil fn) = %v; want ErrInvalidArgument", err)
	}
}
