package mapper

import (
	"context"
	"fmt"
	"slices"
	"sync"
)

// gate counts completions of a fixed set of tasks belonging to one Map call
// and collects their failures.
//
// completed never decreases and never exceeds total. done is closed under mu
// right after the last completion, which makes every result slot written by a
// task before its completion visible to the goroutine returning from wait.
type gate struct {
	mu        sync.Mutex
	completed int
	total     int
	primary   error
	secondary []error
	done      chan struct{}
}

func newGate(total int) *gate {
	g := &gate{total: total, done: make(chan struct{})}
	if total == 0 {
		close(g.done)
	}
	return g
}

// complete accounts one finished task and records its failure, if any.
// Completions past total are ignored.
func (g *gate) complete(err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.completed == g.total {
		return
	}
	if err != nil {
		if g.primary == nil {
			g.primary = err
		} else {
			g.secondary = append(g.secondary, err)
		}
	}
	g.completed++
	if g.completed == g.total {
		close(g.done)
	}
}

// ready reports whether all tasks have completed.
func (g *gate) ready() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.completed == g.total
}

// wait blocks until the gate is ready or ctx is done.
func (g *gate) wait(ctx context.Context) error {
	select {
	case <-g.done:
		return nil
	default:
	}
	select {
	case <-g.done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("%w: %w", ErrInterruptedWait, ctx.Err())
	}
}

// err returns the aggregated failure, or nil when every task succeeded.
func (g *gate) err() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.primary == nil {
		return nil
	}
	return &AggregateError{Primary: g.primary, Secondary: slices.Clone(g.secondary)}
}
