package input

import (
	"fmt"
	"sync"
	"testing"
)

func TestQueuePreservesArrivalOrder(t *testing.T) {
	q := NewQueue()
	q.Push("forward")
	q.Push("jump")
	q.Push("wave")

	got := q.Drain()
	want := []string{"forward", "jump", "wave"}
	if len(got) != len(want) {
		t.Fatalf("drained %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestQueueDrainEmptiesQueue(t *testing.T) {
	q := NewQueue()
	q.Push("jump")

	if got := q.Drain(); len(got) != 1 {
		t.Fatalf("first drain = %v, want one token", got)
	}
	if got := q.Drain(); got != nil {
		t.Errorf("second drain = %v, want nil", got)
	}
	if q.Len() != 0 {
		t.Errorf("len after drain = %d, want 0", q.Len())
	}
}

func TestQueueConcurrentProducers(t *testing.T) {
	q := NewQueue()

	const producers = 4
	const perProducer = 100

	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func(p int) {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				q.Push(fmt.Sprintf("p%d-%d", p, i))
			}
		}(p)
	}
	wg.Wait()

	got := q.Drain()
	if len(got) != producers*perProducer {
		t.Fatalf("drained %d tokens, want %d", len(got), producers*perProducer)
	}

	// Each producer's own tokens must still be in its push order.
	next := make(map[string]int)
	for _, token := range got {
		var p, i int
		if _, err := fmt.Sscanf(token, "p%d-%d", &p, &i); err != nil {
			t.Fatalf("unexpected token %q", token)
		}
		key := fmt.Sprintf("p%d", p)
		if i != next[key] {
			t.Fatalf("producer %d: token %d arrived before %d", p, i, next[key])
		}
		next[key]++
	}
}
