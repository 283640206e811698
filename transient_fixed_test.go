package rescore

import "testing"

func TestTransientFixedSizeRegistryAllocateAndClear(t *testing.T) {
	r := NewTransientFixedSizeRegistry(KindBuffer, 8)

	h1 := r.AllocateHandle(0, 0)
	r.Initialize(h1, NewSharedProperties("a", &BufferDescriptor{Length: 1024}), TransientProperties{})

	if !r.IsValid(h1) {
		t.Fatal("freshly allocated handle is not valid")
	}

	r.Clear()
	if r.IsValid(h1) {
		t.Error("handle from before Clear() is still valid")
	}

	h2 := r.AllocateHandle(0, 0)
	r.Initialize(h2, NewSharedProperties("a", &BufferDescriptor{Length: 1024}), TransientProperties{})
	if h2 == h1 {
		t.Error("handle reused after Clear() has the same packed value as before")
	}
	if h2.Generation() == h1.Generation() {
		t.Error("generation did not change across Clear()")
	}
}

func TestTransientFixedSizeRegistryCapacityFatal(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("AllocateHandle past capacity did not panic")
		}
	}()
	r := NewTransientFixedSizeRegistry(KindTexture, 2)
	r.AllocateHandle(0, 0)
	r.AllocateHandle(0, 0)
	r.AllocateHandle(0, 0)
}

func TestTransientFixedSizeRegistryWrongKindInvalid(t *testing.T) {
	r := NewTransientFixedSizeRegistry(KindBuffer, 4)
	h := r.AllocateHandle(0, 0)
	other := Pack(KindTexture, h.HandleFlags(), h.Generation(), h.Arena(), h.Index())
	if r.IsValid(other) {
		t.Error("IsValid accepted a handle of the wrong kind")
	}
}
