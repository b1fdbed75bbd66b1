package mapper

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/ygrebnov/mapper/metrics"
	"github.com/ygrebnov/mapper/queue"
)

// worker is one persistent pool goroutine. It takes tasks until the pool
// context is cancelled or the queue is closed.
type worker struct {
	id      int
	tasks   queue.Queue[*task]
	limiter *rate.Limiter
	inst    metrics.PoolInstruments
	logger  *zap.Logger
}

func newWorker(
	id int, tasks queue.Queue[*task], limiter *rate.Limiter, inst metrics.PoolInstruments, logger *zap.Logger,
) *worker {
	return &worker{id: id, tasks: tasks, limiter: limiter, inst: inst, logger: logger}
}

func (w *worker) run(ctx context.Context) {
	w.logger.Debug("worker started", zap.Int("worker", w.id))
	executed := 0
	defer func() {
		w.logger.Debug("worker stopped", zap.Int("worker", w.id), zap.Int("executed", executed))
	}()

	for {
		t, err := w.tasks.Take(ctx)
		if err != nil {
			// queue.ErrClosed or an interrupted wait: both mean the pool is closing.
			return
		}
		w.inst.QueueDepth.Add(-1)

		if w.limiter != nil {
			if err := w.limiter.Wait(ctx); err != nil {
				t.abandon(errors.Join(ErrClosed, err))
				w.inst.Abandoned.Add(1)
				return
			}
		}

		w.execute(t)
		executed++
	}
}

func (w *worker) execute(t *task) {
	w.inst.WorkersBusy.Add(1)
	err := t.execute()
	w.inst.WorkersBusy.Add(-1)

	w.inst.Completed.Add(1)
	if err != nil {
		w.inst.Failed.Add(1)
	}
}
