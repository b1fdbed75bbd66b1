package scalar

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/ygrebnov/errorc"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ygrebnov/mapper"
	"github.com/ygrebnov/mapper/metrics"
)

const Namespace = "scalar"

// ErrEmptyCollection is returned by reductions with no identity value, such as
// Maximum, when called on an empty slice.
var ErrEmptyCollection = errors.New(Namespace + ": empty collection")

// Reducer runs partitioned reductions, optionally on a shared mapper.Pool.
// Reducer does not own the pool: closing it is up to the caller.
type Reducer struct {
	pool   *mapper.Pool
	logger *zap.Logger
	inst   metrics.ReducerInstruments
}

// Option configures a Reducer.
type Option func(*Reducer)

// WithPool computes partials on the workers of p instead of per-call goroutines.
func WithPool(p *mapper.Pool) Option {
	return func(r *Reducer) { r.pool = p }
}

// WithLogger sets the structured logger. A nil logger keeps the no-op default.
func WithLogger(l *zap.Logger) Option {
	return func(r *Reducer) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithMetrics sets the metrics provider. A nil provider keeps the no-op default.
func WithMetrics(p metrics.Provider) Option {
	return func(r *Reducer) {
		if p != nil {
			r.inst = metrics.NewReducerInstruments(p)
		}
	}
}

// New creates a Reducer. Without WithPool it spawns goroutines per call.
func New(opts ...Option) *Reducer {
	r := &Reducer{
		logger: zap.NewNop(),
		inst:   metrics.NewReducerInstruments(metrics.NewNoopProvider()),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	r.logger = r.logger.With(zap.String("component", Namespace))
	return r
}

var unbound = New()

// orDefault lets a nil *Reducer act as an unbound one.
func (r *Reducer) orDefault() *Reducer {
	if r == nil {
		return unbound
	}
	return r
}

// Pooled reports whether partials are computed on a mapper.Pool.
func (r *Reducer) Pooled() bool { return r.orDefault().pool != nil }

// Reduce is the engine behind every reduction.
//
// Semantics:
// - threads < 1 fails with mapper.ErrInvalidArgument before any partitioning.
// - values is split with Partitions(len(values), threads); finder runs once per partition.
// - Failing or panicking finders do not stop the others; failures are returned as
//   *mapper.AggregateError after all partitions are done.
// - combiner receives the partials in partition order (left to right). For empty
//   values it receives an empty slice.
func Reduce[T, P any](
	ctx context.Context,
	r *Reducer,
	threads int,
	values []T,
	finder func([]T) (P, error),
	combiner func([]P) (P, error),
) (P, error) {
	var zero P
	if threads < 1 {
		return zero, errorc.With(mapper.ErrInvalidArgument, errorc.String("threads", strconv.Itoa(threads)))
	}
	r = r.orDefault()

	start := time.Now()
	spans := Partitions(len(values), threads)
	r.inst.Partitions.Add(int64(len(spans)))

	var (
		partials []P
		err      error
	)
	if r.pool != nil {
		partials, err = mapper.Map(ctx, r.pool, spans, func(_ context.Context, s Span) (P, error) {
			return finder(values[s.Low:s.High])
		})
	} else {
		partials, err = computeEphemeral(ctx, values, spans, finder)
	}
	if err != nil {
		r.logger.Debug("reduce failed", zap.Int("partitions", len(spans)), zap.Error(err))
		return zero, err
	}

	res, err := combiner(partials)
	elapsed := time.Since(start)
	r.inst.ReduceDuration.Record(elapsed.Seconds())
	r.logger.Debug("reduce completed",
		zap.Int("values", len(values)),
		zap.Int("partitions", len(spans)),
		zap.Bool("pooled", r.pool != nil),
		zap.Duration("duration", elapsed),
	)
	return res, err
}

// computeEphemeral runs finder in one goroutine per span and joins them all.
// Failures are collected in completion order, like the pool's completion gate does.
// If ctx ends first it returns mapper.ErrInterruptedWait; the goroutines still run to completion.
func computeEphemeral[T, P any](ctx context.Context, values []T, spans []Span, finder func([]T) (P, error)) ([]P, error) {
	partials := make([]P, len(spans))
	if len(spans) == 0 {
		return partials, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", mapper.ErrInterruptedWait, err)
	}

	var (
		g        errgroup.Group
		mu       sync.Mutex
		failures []error
	)
	for i, s := range spans {
		g.Go(func() error {
			p, err := callFinder(finder, values[s.Low:s.High])
			if err != nil {
				mu.Lock()
				failures = append(failures, err)
				mu.Unlock()
				return nil
			}
			partials[i] = p
			return nil
		})
	}

	// Failures travel through failures, so every goroutine returns nil.
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = g.Wait()
	}()
	select {
	case <-done:
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %w", mapper.ErrInterruptedWait, ctx.Err())
	}

	if len(failures) > 0 {
		return nil, &mapper.AggregateError{Primary: failures[0], Secondary: failures[1:]}
	}
	return partials, nil
}

func callFinder[T, P any](finder func([]T) (P, error), part []T) (p P, err error) {
	defer func() {
		if ePanic := recover(); ePanic != nil {
			err = fmt.Errorf("%w: %v", mapper.ErrTaskPanicked, ePanic)
		}
	}()
	return finder(part)
}
