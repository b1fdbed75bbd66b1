package queue

// NewLIFO returns a Queue taking items from the end they were inserted into,
// so the most recently offered item is taken first.
func NewLIFO[T any]() Queue[T] {
	return newLocked[T](func(items []T) (T, []T) {
		var zero T
		last := len(items) - 1
		v := items[last]
		items[last] = zero
		return v, items[:last]
	})
}
