package queue

// NewFIFO returns a Queue taking items in insertion order.
func NewFIFO[T any]() Queue[T] {
	return newLocked[T](func(items []T) (T, []T) {
		var zero T
		v := items[0]
		items[0] = zero // release the reference held by the backing array
		return v, items[1:]
	})
}
