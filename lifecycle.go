package mapper

import (
	"sync"
)

// lifecycleCoordinator encapsulates the shutdown sequence for Pool.
// It is a wiring helper: it doesn't own the queue or the workers; it orchestrates
// rejection, interruption, abandonment and waiting in a deterministic order.
//
// Close() is safe for concurrent calls; the sequence executes exactly once.
type lifecycleCoordinator struct {
	reject     func()
	cancel     func()
	drainQueue func() int
	workersWG  *sync.WaitGroup
	report     func(abandoned int)

	once sync.Once
}

func newLifecycleCoordinator(
	reject func(),
	cancel func(),
	drainQueue func() int,
	workersWG *sync.WaitGroup,
	report func(abandoned int),
) *lifecycleCoordinator {
	return &lifecycleCoordinator{
		reject:     reject,
		cancel:     cancel,
		drainQueue: drainQueue,
		workersWG:  workersWG,
		report:     report,
	}
}

// Close executes the shutdown sequence exactly once:
// 1) reject new Map calls
// 2) cancel the pool context, interrupting idle workers
// 3) close the queue and fail the tasks left in it
// 4) wait for every worker to exit (in-flight tasks run to completion)
// 5) report
func (lc *lifecycleCoordinator) Close() {
	lc.once.Do(func() {
		if lc.reject != nil {
			lc.reject()
		}
		if lc.cancel != nil {
			lc.cancel()
		}
		abandoned := 0
		if lc.drainQueue != nil {
			abandoned = lc.drainQueue()
		}
		if lc.workersWG != nil {
			lc.workersWG.Wait()
		}
		if lc.report != nil {
			lc.report(abandoned)
		}
	})
}
