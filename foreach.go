package mapper

import "context"

// ForEach applies fn to each item concurrently using the pool's workers.
// It delegates to Map with an empty result type and returns the aggregated error
// (*AggregateError) or nil when all calls succeed.
func ForEach[T any](ctx context.Context, p *Pool, items []T, fn func(context.Context, T) error) error {
	if fn == nil {
		_, err := Map[T, struct{}](ctx, p, items, nil)
		return err
	}
	_, err := Map(ctx, p, items, func(c context.Context, item T) (struct{}, error) {
		return struct{}{}, fn(c, item)
	})
	return err
}
