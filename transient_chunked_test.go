package rescore

import "testing"

func TestTransientChunkRegistryGrowsAcrossChunkBoundary(t *testing.T) {
	r := NewTransientChunkRegistry(KindArgumentBuffer, 4, 16)

	var handles []Handle
	for i := 0; i < 10; i++ {
		h := r.AllocateHandle(0, 0)
		r.Initialize(h, NewSharedProperties("ab", &ArgumentBufferDescriptor{}), TransientProperties{})
		handles = append(handles, h)
	}
	for i, h := range handles {
		if !r.IsValid(h) {
			t.Errorf("handle %d is not valid after allocation", i)
		}
	}
}

func TestTransientChunkRegistryClearInvalidatesAndBumpsGeneration(t *testing.T) {
	r := NewTransientChunkRegistry(KindArgumentBufferArray, 4, 8)

	h1 := r.AllocateHandle(2, 0)
	r.Initialize(h1, NewSharedProperties("arr", &ArgumentBufferArrayDescriptor{Length: 4}), TransientProperties{})

	r.Clear()
	if r.IsValid(h1) {
		t.Error("handle from before Clear() is still valid")
	}

	h2 := r.AllocateHandle(2, 0)
	if h2.Generation() == h1.Generation() {
		t.Error("generation unchanged across Clear()")
	}
	if h2.Index() != 0 {
		t.Errorf("index after Clear() = %d, want 0 (count reset)", h2.Index())
	}
}

func TestTransientChunkRegistryClearIsIdempotent(t *testing.T) {
	r := NewTransientChunkRegistry(KindArgumentBuffer, 4, 8)
	r.Clear()
	r.Clear()
	h := r.AllocateHandle(0, 0)
	if h.Index() != 0 {
		t.Errorf("Index() = %d, want 0 after idempotent clears on an empty registry", h.Index())
	}
}
