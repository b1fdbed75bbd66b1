package mapper

import (
	"context"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/ygrebnov/errorc"
	"go.uber.org/zap"

	"github.com/ygrebnov/mapper/metrics"
	"github.com/ygrebnov/mapper/queue"
)

// Pool owns a fixed number of persistent workers sharing one task queue.
// Pool is a concrete struct; methods and the package-level Map/ForEach helpers
// are safe for concurrent use. A Pool serves any number of Map calls until Close.
type Pool struct {
	// noCopy prevents accidental copying of the pool.
	//go:nocopy
	nc noCopy

	config *config

	tasks queue.Queue[*task]

	// internal lifecycle control
	ctx    context.Context
	cancel context.CancelFunc
	closed atomic.Bool

	workers   int
	workersWG sync.WaitGroup
	lc        *lifecycleCoordinator

	inst   metrics.PoolInstruments
	logger *zap.Logger
}

// noCopy is a vet-recognized marker to discourage copying types with this field embedded.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// New creates a Pool with the given number of workers and starts them immediately.
// It returns ErrInvalidArgument if workers < 1 and ErrInvalidConfig for rejected options.
func New(workers int, opts ...Option) (*Pool, error) {
	if workers < 1 {
		return nil, errorc.With(ErrInvalidArgument, errorc.String("workers", strconv.Itoa(workers)))
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}
	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}

	p := &Pool{}
	p.initialize(workers, &cfg)
	return p, nil
}

// initialize wires the queue, instruments and lifecycle, then starts the workers.
func (p *Pool) initialize(workers int, cfg *config) {
	switch cfg.Discipline {
	case LIFO:
		p.tasks = queue.NewLIFO[*task]()
	default:
		p.tasks = queue.NewFIFO[*task]()
	}

	p.config = cfg
	p.workers = workers
	p.logger = cfg.Logger.With(zap.String("component", Namespace))
	p.inst = metrics.NewPoolInstruments(cfg.Metrics)
	p.ctx, p.cancel = context.WithCancel(context.Background())
	p.lc = newLifecycleCoordinator(
		func() { p.closed.Store(true) },
		p.cancel,
		p.abandonQueued,
		&p.workersWG,
		func(abandoned int) {
			if abandoned > 0 {
				p.logger.Warn("pool closed with queued tasks", zap.Int("abandoned", abandoned))
			}
			p.logger.Debug("pool closed", zap.Int("workers", p.workers))
		},
	)

	limiter := cfg.limiter()
	p.workersWG.Add(workers)
	for i := 0; i < workers; i++ {
		w := newWorker(i, p.tasks, limiter, p.inst, p.logger)
		go func() {
			defer p.workersWG.Done()
			w.run(p.ctx)
		}()
	}

	p.logger.Debug("pool started",
		zap.Int("workers", workers),
		zap.Stringer("discipline", cfg.Discipline),
		zap.Bool("rateLimited", limiter != nil),
	)
}

// Workers returns the number of workers the pool was created with.
func (p *Pool) Workers() int { return p.workers }

// Close stops the workers and waits until all of them have exited.
//
// Semantics:
// - Idempotent and safe for concurrent use.
// - Map calls started after Close return ErrClosed.
// - Tasks already executing run to completion; tasks still queued are failed with ErrClosed,
//   so pending Map calls return an *AggregateError instead of blocking forever.
func (p *Pool) Close() {
	p.lc.Close()
}

// abandonQueued closes the queue and fails every task left in it.
func (p *Pool) abandonQueued() int {
	left := p.tasks.Close()
	for _, t := range left {
		t.abandon(ErrClosed)
	}
	n := int64(len(left))
	p.inst.QueueDepth.Add(-n)
	p.inst.Abandoned.Add(n)
	return len(left)
}

// submit offers tasks to the queue. Tasks that cannot be offered because the
// pool is closing are abandoned so their gate still reaches its total.
func (p *Pool) submit(tasks []*task) {
	for i, t := range tasks {
		p.inst.QueueDepth.Add(1)
		if err := p.tasks.Offer(t); err != nil {
			p.inst.QueueDepth.Add(-1)
			for _, rest := range tasks[i:] {
				rest.abandon(ErrClosed)
			}
			p.inst.Abandoned.Add(int64(len(tasks) - i))
			return
		}
		p.inst.Submitted.Add(1)
	}
}
