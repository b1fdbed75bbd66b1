package mapper

import (
	"context"
	"time"

	"github.com/ygrebnov/errorc"
	"go.uber.org/zap"
)

// Map applies fn to every element of inputs using the pool's workers and returns
// the results in input order.
//
// Semantics:
// - One task per input; all tasks of the call share one completion gate.
// - Blocks until every task has finished. A failing or panicking fn does not stop
//   sibling tasks; once all are done the failures are returned as *AggregateError
//   (first recorded failure as Primary, the rest as Secondary) and results are discarded.
// - An empty inputs slice yields an empty result without touching the workers.
// - If ctx is done before the tasks finish, Map returns ErrInterruptedWait wrapping ctx.Err().
//   Tasks already submitted still run; their results are dropped.
// - fn receives ctx unchanged; the pool never cancels a running fn.
func Map[T, R any](ctx context.Context, p *Pool, inputs []T, fn func(context.Context, T) (R, error)) ([]R, error) {
	switch {
	case p == nil:
		return nil, errorc.With(ErrInvalidArgument, errorc.String("pool", "nil"))
	case fn == nil:
		return nil, errorc.With(ErrInvalidArgument, errorc.String("fn", "nil"))
	case p.closed.Load():
		return nil, ErrClosed
	}

	results := make([]R, len(inputs))
	if len(inputs) == 0 {
		return results, nil
	}

	start := time.Now()
	g := newGate(len(inputs))
	tasks := make([]*task, 0, len(inputs))
	for i := range inputs {
		idx, item := i, inputs[i] // capture
		tasks = append(tasks, newTask(idx, g, p.config.ErrorTagging, func() error {
			r, err := fn(ctx, item)
			if err != nil {
				return err
			}
			results[idx] = r
			return nil
		}))
	}
	p.submit(tasks)

	if err := g.wait(ctx); err != nil {
		p.logger.Debug("map interrupted", zap.Int("tasks", len(tasks)), zap.Error(err))
		return nil, err
	}

	elapsed := time.Since(start)
	p.inst.MapDuration.Record(elapsed.Seconds())

	if err := g.err(); err != nil {
		if ae, ok := err.(*AggregateError); ok {
			p.logger.Debug("map failed",
				zap.Int("tasks", len(tasks)),
				zap.Int("failures", ae.Len()),
				zap.Duration("duration", elapsed),
			)
		}
		return nil, err
	}
	p.logger.Debug("map completed", zap.Int("tasks", len(tasks)), zap.Duration("duration", elapsed))
	return results, nil
}
