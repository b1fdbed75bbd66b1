package scalar

import (
	"reflect"
	"testing"
)

func TestPartitions_TableDriven(t *testing.T) {
	tests := []struct {
		name string
		n, k int
		want []Span
	}{
		{name: "empty", n: 0, k: 3, want: nil},
		{name: "invalid k", n: 5, k: 0, want: nil},
		{name: "even split", n: 4, k: 2, want: []Span{{0, 2}, {2, 4}}},
		{name: "remainder goes left", n: 7, k: 3, want: []Span{{0, 3}, {3, 5}, {5, 7}}},
		{name: "k larger than n", n: 3, k: 10, want: []Span{{0, 1}, {1, 2}, {2, 3}}},
		{name: "single partition", n: 5, k: 1, want: []Span{{0, 5}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Partitions(tt.n, tt.k); !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("Partitions(%d, %d) = %v; want %v", tt.n, tt.k, got, tt.want)
			}
		})
	}
}

func TestSpan_Len(t *testing.T) {
	if (Span{Low: 2, High: 7}).Len() != 5 {
		t.Fatalf("Span{2,7}.Len() != 5")
	}
}
