package rescore

import "testing"

func TestTransientRegistryManagerAllocateFree(t *testing.T) {
	m := NewTransientRegistryManager()

	a := m.Allocate()
	b := m.Allocate()
	if a == b {
		t.Fatalf("Allocate() returned the same slot twice: %d", a)
	}
	if !m.InUse(a) || !m.InUse(b) {
		t.Error("freshly allocated slots report InUse() == false")
	}

	m.Free(a)
	if m.InUse(a) {
		t.Error("slot still InUse() after Free()")
	}

	c := m.Allocate()
	if c != a {
		t.Errorf("Allocate() after Free() = %d, want the freed slot %d", c, a)
	}
}

func TestTransientRegistryManagerExhaustionFatal(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Allocate() past the 8-slot limit did not panic")
		}
	}()
	m := NewTransientRegistryManager()
	for i := 0; i < maxTransientArenas; i++ {
		m.Allocate()
	}
	m.Allocate()
}

func TestTransientRegistryManagerFreeIsIdempotent(t *testing.T) {
	m := NewTransientRegistryManager()
	a := m.Allocate()
	m.Free(a)
	m.Free(a) // must not panic or double-count the slot
	if m.InUse(a) {
		t.Error("slot reports InUse() after idempotent double Free()")
	}
}
