package containers

import (
	"errors"
	"testing"
)

func TestRingQueueOrder(t *testing.T) {
	rq := NewRingQueue[int](3)
	for i := 1; i <= 3; i++ {
		if err := rq.Enqueue(i); err != nil {
			t.Fatalf("enqueue %d: %v", i, err)
		}
	}
	if err := rq.Enqueue(4); !errors.Is(err, ErrQueueFull) {
		t.Fatalf("expected ErrQueueFull, got %v", err)
	}

	if v, _ := rq.Dequeue(); v != 1 {
		t.Fatalf("dequeue = %d, want 1", v)
	}

	// wraps around the end of the buffer
	if err := rq.Enqueue(4); err != nil {
		t.Fatal(err)
	}
	for _, want := range []int{2, 3, 4} {
		v, err := rq.Dequeue()
		if err != nil || v != want {
			t.Fatalf("dequeue = %d, %v; want %d", v, err, want)
		}
	}
	if _, err := rq.Dequeue(); !errors.Is(err, ErrQueueEmpty) {
		t.Fatalf("expected ErrQueueEmpty, got %v", err)
	}
}

func TestRingQueueLen(t *testing.T) {
	rq := NewRingQueue[string](2)
	if !rq.IsEmpty() || rq.Len() != 0 {
		t.Fatal("new queue should be empty")
	}
	_ = rq.Enqueue("a")
	_ = rq.Enqueue("b")
	if !rq.IsFull() || rq.Len() != 2 {
		t.Fatalf("len = %d, full = %v", rq.Len(), rq.IsFull())
	}
}
