package tests

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ygrebnov/mapper"
)

// newPool creates a pool closed at the end of the test.
func newPool(t testing.TB, workers int, opts ...mapper.Option) *mapper.Pool {
	t.Helper()
	p, err := mapper.New(workers, opts...)
	require.NoError(t, err)
	t.Cleanup(p.Close)
	return p
}

func identity[T any](x T) T { return x }

func isEven(x int) bool { return x%2 == 0 }
