package queue

import "testing"

func TestRegistryRegisterAndGet(t *testing.T) {
	reg := NewRegistry()
	q := &fakeQueue{index: 2, completed: 7}
	reg.Register(q)

	if got := reg.Get(2); got != q {
		t.Errorf("Get(2) = %v, want %v", got, q)
	}
	if got := reg.Get(3); got != nil {
		t.Errorf("Get(3) = %v, want nil", got)
	}
	if all := reg.All(); len(all) != 1 {
		t.Errorf("All() returned %d queues, want 1", len(all))
	}
}

func TestRegistryRegisterOutOfRangePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Register with out-of-range index did not panic")
		}
	}()
	reg := NewRegistry()
	reg.Register(&fakeQueue{index: MaxQueues})
}

func TestRegistryDuplicateRegisterPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Register of an already-occupied index did not panic")
		}
	}()
	reg := NewRegistry()
	reg.Register(&fakeQueue{index: 0})
	reg.Register(&fakeQueue{index: 0})
}
