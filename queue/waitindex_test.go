package queue

import (
	"context"
	"sync"
	"testing"
)

type fakeQueue struct {
	index     int
	completed uint64
}

func (q *fakeQueue) Index() int                  { return q.index }
func (q *fakeQueue) LastCompletedCommand() uint64 { return q.completed }
func (q *fakeQueue) WaitForCommandCompletion(ctx context.Context, index uint64) error {
	q.completed = index
	return nil
}

func TestWaitIndicesMonotonicUnderConcurrency(t *testing.T) {
	var w WaitIndices

	var wg sync.WaitGroup
	values := []uint64{3, 5, 1, 4, 2}
	for _, v := range values {
		wg.Add(1)
		go func(v uint64) {
			defer wg.Done()
			w.SetWait(1, AccessWrite, v)
		}(v)
	}
	wg.Wait()

	if got := w.GetWait(1, AccessWrite); got != 5 {
		t.Errorf("GetWait(1, write) = %d, want 5", got)
	}
}

func TestWaitIndicesReadWriteSeparate(t *testing.T) {
	var w WaitIndices
	w.SetWait(0, AccessRead, 10)
	w.SetWait(0, AccessWrite, 4)

	if got := w.GetWait(0, AccessRead); got != 10 {
		t.Errorf("GetWait(read) = %d, want 10", got)
	}
	if got := w.GetWait(0, AccessWrite); got != 4 {
		t.Errorf("GetWait(write) = %d, want 4", got)
	}
	if got := w.GetWait(0, AccessReadWrite); got != 10 {
		t.Errorf("GetWait(read-write) = %d, want max(10,4)=10", got)
	}
}

func TestIsAvailableForCPU(t *testing.T) {
	reg := NewRegistry()
	q0 := &fakeQueue{index: 0, completed: 10}
	reg.Register(q0)

	var w WaitIndices
	w.SetWait(0, AccessWrite, 5)
	if !w.IsAvailableForCPU(reg, AccessWrite) {
		t.Error("IsAvailableForCPU = false, want true (5 <= 10)")
	}

	w.SetWait(0, AccessWrite, 20)
	if w.IsAvailableForCPU(reg, AccessWrite) {
		t.Error("IsAvailableForCPU = true, want false (20 > 10)")
	}
}

func TestWaitForCPUAccessAdvancesQueue(t *testing.T) {
	reg := NewRegistry()
	q0 := &fakeQueue{index: 0, completed: 0}
	reg.Register(q0)

	var w WaitIndices
	w.SetWait(0, AccessRead, 42)

	if err := w.WaitForCPUAccess(context.Background(), reg, AccessRead); err != nil {
		t.Fatalf("WaitForCPUAccess returned error: %v", err)
	}
	if q0.completed != 42 {
		t.Errorf("queue completed = %d, want 42", q0.completed)
	}
}

func TestIsKnownInUse(t *testing.T) {
	reg := NewRegistry()
	q0 := &fakeQueue{index: 0, completed: 3}
	reg.Register(q0)

	var w WaitIndices
	if w.IsKnownInUse(reg) {
		t.Error("IsKnownInUse = true on a fresh tracker, want false")
	}
	w.SetWait(0, AccessWrite, 4)
	if !w.IsKnownInUse(reg) {
		t.Error("IsKnownInUse = false, want true (wait index 4 > completed 3)")
	}
}
