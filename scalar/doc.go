// Package scalar computes scalar reductions (maximum, minimum, any, all, count)
// over a slice in parallel.
//
// A reduction splits the input into at most `threads` contiguous partitions of
// near-equal size, computes one partial result per partition and folds the
// partials left to right. Partials are computed either by the workers of a
// mapper.Pool bound with WithPool, or, for an unbound Reducer, by exactly one
// short-lived goroutine per partition that lives for a single call.
//
// A nil *Reducer is valid and behaves like New().
package scalar
