package scalar

// Span is the half-open index range [Low, High) of one partition.
type Span struct {
	Low  int
	High int
}

// Len returns the number of elements covered by s.
func (s Span) Len() int { return s.High - s.Low }

// Partitions splits n elements into min(k, n) contiguous spans ordered left to right.
// Sizes differ by at most one and the larger spans come first: with base = n / k and
// rem = n % k, the first rem spans hold base+1 elements and the others base.
// It returns nil when n == 0 or k < 1.
func Partitions(n, k int) []Span {
	if n <= 0 || k < 1 {
		return nil
	}
	k = min(k, n)
	base, rem := n/k, n%k

	spans := make([]Span, k)
	low := 0
	for i := range spans {
		size := base
		if i < rem {
			size++
		}
		spans[i] = Span{Low: low, High: low + size}
		low += size
	}
	return spans
}
