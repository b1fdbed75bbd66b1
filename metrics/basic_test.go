package metrics

import (
	"reflect"
	"runtime"
	"sync"
	"testing"
)

func TestBasicProvider_Counter_ReusedAndAccumulates(t *testing.T) {
	p := NewBasicProvider()

	c1 := p.Counter(TasksSubmitted)
	c2 := p.Counter(TasksSubmitted)
	if reflect.ValueOf(c1).Pointer() != reflect.ValueOf(c2).Pointer() {
		t.Fatalf("expected same counter instance for same name")
	}

	c1.Add(3)
	c2.Add(2)
	if got := p.CounterValue(TasksSubmitted); got != 5 {
		t.Fatalf("counter value = %d; want 5", got)
	}
	if got := p.CounterValue("never_created"); got != 0 {
		t.Fatalf("missing counter value = %d; want 0", got)
	}

	if reflect.ValueOf(p.Counter(TasksFailed)).Pointer() == reflect.ValueOf(c1).Pointer() {
		t.Fatalf("expected different counter instance for different name")
	}
}

func TestBasicProvider_UpDownCounter_Moves(t *testing.T) {
	p := NewBasicProvider()
	u := p.UpDownCounter(QueueDepth)
	u.Add(+3)
	u.Add(-1)
	p.UpDownCounter(QueueDepth).Add(+10)
	if got := p.UpDownValue(QueueDepth); got != 12 {
		t.Fatalf("updown value = %d; want 12", got)
	}
}

func TestBasicProvider_Histogram_RecordsStats(t *testing.T) {
	p := NewBasicProvider()
	h := p.Histogram(MapDuration, WithUnit("seconds"))

	if _, ok := p.HistogramSnapshot("other"); ok {
		t.Fatalf("expected no snapshot for unknown histogram")
	}

	h.Record(0.1)
	h.Record(0.3)
	h.Record(0.2)
	s, ok := p.HistogramSnapshot(MapDuration)
	if !ok {
		t.Fatalf("expected snapshot for %s", MapDuration)
	}
	if s.Count != 3 {
		t.Fatalf("count = %d; want 3", s.Count)
	}
	if s.Min != 0.1 || s.Max != 0.3 {
		t.Fatalf("min/max = (%v,%v); want (0.1,0.3)", s.Min, s.Max)
	}
	if s.Mean < 0.19 || s.Mean > 0.21 {
		t.Fatalf("mean = %v; want ~0.2", s.Mean)
	}

	cfg, ok := p.Config(MapDuration)
	if !ok || cfg.Unit != "seconds" {
		t.Fatalf("config = %+v, %v; want unit seconds", cfg, ok)
	}
}

func TestBasicProvider_Concurrent_CounterAdd(t *testing.T) {
	p := NewBasicProvider()

	workers := runtime.NumCPU() * 2
	iters := 1000
	wg := sync.WaitGroup{}
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			c := p.Counter(TasksCompleted)
			for i := 0; i < iters; i++ {
				c.Add(1)
			}
		}()
	}
	wg.Wait()
	if got, want := p.CounterValue(TasksCompleted), int64(workers*iters); got != want {
		t.Fatalf("counter = %d; want %d", got, want)
	}
}

func TestNewPoolInstruments_RegistersNames(t *testing.T) {
	p := NewBasicProvider()
	in := NewPoolInstruments(p)
	in.Submitted.Add(2)
	in.Failed.Add(1)
	in.QueueDepth.Add(4)

	if p.CounterValue(TasksSubmitted) != 2 || p.CounterValue(TasksFailed) != 1 {
		t.Fatalf("unexpected counter values")
	}
	if p.UpDownValue(QueueDepth) != 4 {
		t.Fatalf("queue depth = %d; want 4", p.UpDownValue(QueueDepth))
	}
	if _, ok := p.Config(TasksAbandoned); !ok {
		t.Fatalf("expected %s to be registered", TasksAbandoned)
	}
}

func TestNoopProvider_Discards(t *testing.T) {
	in := NewReducerInstruments(NewNoopProvider())
	in.Partitions.Add(1)
	in.ReduceDuration.Record(1)
}
