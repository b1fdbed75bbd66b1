// Package mapper provides a bounded pool of persistent workers performing
// ordered scatter/gather mapping of a function over a slice.
//
// Constructors
//   - New(workers, opts ...Option): starts exactly `workers` goroutines immediately.
//     workers < 1 is rejected with ErrInvalidArgument.
//
// Operations
//   - Map(ctx, pool, inputs, fn): one task per input, all sharing one completion gate.
//     The call blocks until every task has finished and returns results index-aligned
//     with inputs. Failures never stop sibling tasks; they are reported together as an
//     *AggregateError once all tasks are done.
//   - ForEach(ctx, pool, inputs, fn): Map for functions without a result.
//   - Close(): stops the workers and waits for them to exit. Queued tasks that no worker
//     picked up are failed with ErrClosed so no Map caller is left waiting.
//
// Defaults
// Unless overridden, the following defaults apply to a newly created pool:
//   - queue discipline: FIFO (WithLIFO restores last-in-first-out consumption)
//   - logger: zap.NewNop()
//   - metrics: metrics.NewNoopProvider()
//   - rate limit: none
//   - error tagging: disabled
//
// Ordering
// Execution order across workers is unspecified. Only the result slice order is
// guaranteed: results[i] is always fn(inputs[i]).
package mapper
