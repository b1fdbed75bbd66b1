package metrics

// Instrument names reported by the mapper pool.
const (
	TasksSubmitted = "mapper_tasks_submitted_total"
	TasksCompleted = "mapper_tasks_completed_total"
	TasksFailed    = "mapper_tasks_failed_total"
	TasksAbandoned = "mapper_tasks_abandoned_total"
	QueueDepth     = "mapper_queue_depth"
	WorkersBusy    = "mapper_workers_busy"
	MapDuration    = "mapper_map_duration_seconds"
)

// Instrument names reported by the scalar reducer.
const (
	Partitions     = "scalar_partitions_total"
	ReduceDuration = "scalar_reduce_duration_seconds"
)

// PoolInstruments bundles the instruments a mapper pool records into.
type PoolInstruments struct {
	Submitted   Counter
	Completed   Counter
	Failed      Counter
	Abandoned   Counter
	QueueDepth  UpDownCounter
	WorkersBusy UpDownCounter
	MapDuration Histogram
}

// NewPoolInstruments resolves the pool instruments from p.
func NewPoolInstruments(p Provider) PoolInstruments {
	return PoolInstruments{
		Submitted:   p.Counter(TasksSubmitted, WithUnit("1"), WithDescription("tasks offered to the queue")),
		Completed:   p.Counter(TasksCompleted, WithUnit("1"), WithDescription("tasks finished, failed or not")),
		Failed:      p.Counter(TasksFailed, WithUnit("1"), WithDescription("tasks that returned an error or panicked")),
		Abandoned:   p.Counter(TasksAbandoned, WithUnit("1"), WithDescription("queued tasks dropped by Close")),
		QueueDepth:  p.UpDownCounter(QueueDepth, WithUnit("1")),
		WorkersBusy: p.UpDownCounter(WorkersBusy, WithUnit("1")),
		MapDuration: p.Histogram(MapDuration, WithUnit("seconds")),
	}
}

// ReducerInstruments bundles the instruments a scalar reducer records into.
type ReducerInstruments struct {
	Partitions     Counter
	ReduceDuration Histogram
}

// NewReducerInstruments resolves the reducer instruments from p.
func NewReducerInstruments(p Provider) ReducerInstruments {
	return ReducerInstruments{
		Partitions:     p.Counter(Partitions, WithUnit("1"), WithDescription("partitions computed")),
		ReduceDuration: p.Histogram(ReduceDuration, WithUnit("seconds")),
	}
}
