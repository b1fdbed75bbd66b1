package scalar

import (
	"context"
	"slices"
)

// Maximum returns the greatest element of values under cmp, the left-most one on ties.
// cmp follows the cmp.Compare convention. Empty values fail with ErrEmptyCollection.
func Maximum[T any](ctx context.Context, r *Reducer, threads int, values []T, cmp func(a, b T) int) (T, error) {
	pick := func(part []T) (T, error) { return maxOf(part, cmp) }
	return Reduce(ctx, r, threads, values, pick, pick)
}

// Minimum returns the least element of values under cmp.
// It is Maximum with the comparator reversed.
func Minimum[T any](ctx context.Context, r *Reducer, threads int, values []T, cmp func(a, b T) int) (T, error) {
	return Maximum(ctx, r, threads, values, func(a, b T) int { return cmp(b, a) })
}

// Any reports whether some element satisfies pred. It is false for empty values.
func Any[T any](ctx context.Context, r *Reducer, threads int, values []T, pred func(T) bool) (bool, error) {
	return Reduce(ctx, r, threads, values,
		func(part []T) (bool, error) { return slices.ContainsFunc(part, pred), nil },
		func(partials []bool) (bool, error) { return slices.Contains(partials, true), nil },
	)
}

// All reports whether every element satisfies pred. It is true for empty values.
func All[T any](ctx context.Context, r *Reducer, threads int, values []T, pred func(T) bool) (bool, error) {
	found, err := Any(ctx, r, threads, values, func(v T) bool { return !pred(v) })
	if err != nil {
		return false, err
	}
	return !found, nil
}

// Count returns the number of elements satisfying pred.
// Empty values yield 0 immediately, without validating threads or dispatching work.
func Count[T any](ctx context.Context, r *Reducer, threads int, values []T, pred func(T) bool) (int, error) {
	if len(values) == 0 {
		return 0, nil
	}
	return Reduce(ctx, r, threads, values,
		func(part []T) (int, error) {
			n := 0
			for _, v := range part {
				if pred(v) {
					n++
				}
			}
			return n, nil
		},
		func(partials []int) (int, error) {
			sum := 0
			for _, n := range partials {
				sum += n
			}
			return sum, nil
		},
	)
}

func maxOf[T any](values []T, cmp func(a, b T) int) (T, error) {
	if len(values) == 0 {
		var zero T
		return zero, ErrEmptyCollection
	}
	best := values[0]
	for _, v := range values[1:] {
		if cmp(v, best) > 0 {
			best = v
		}
	}
	return best, nil
}
