package rescore

import "testing"

func TestPersistentRegistryDisposeAndReallocate(t *testing.T) {
	r := NewPersistentRegistry(KindBuffer, NoopBackend{}, 4, 8)

	h := r.AllocateHandle(0)
	r.Initialize(h, NewSharedProperties("buf", &BufferDescriptor{Length: 64}), InvalidHandle)
	if !r.IsValid(h) {
		t.Fatal("freshly allocated handle is not valid")
	}

	r.Dispose(h)
	if r.IsValid(h) {
		t.Error("handle still valid after Dispose")
	}

	h2 := r.AllocateHandle(0)
	if h2.Index() != h.Index() {
		t.Fatalf("expected the freed index to be recycled, got index %d want %d", h2.Index(), h.Index())
	}
	if h2.Generation() == h.Generation() {
		t.Error("generation did not change across dispose+reallocate")
	}
	if h2 == h {
		t.Error("reallocated handle equals the disposed one")
	}
}

func TestPersistentRegistryDisposeIsIdempotent(t *testing.T) {
	r := NewPersistentRegistry(KindBuffer, NoopBackend{}, 4, 8)
	h := r.AllocateHandle(0)
	r.Initialize(h, NewSharedProperties("buf", &BufferDescriptor{Length: 64}), InvalidHandle)

	r.Dispose(h)
	r.Dispose(h) // must be a no-op, not a double free
}

func TestPersistentRegistryDisposeDeferredUntilRenderGraphClears(t *testing.T) {
	// S2: Persistent dispose-while-in-use deferral.
	r := NewPersistentRegistry(KindTexture, NoopBackend{}, 4, 8)

	h := r.AllocateHandle(0)
	r.Initialize(h, NewSharedProperties("tex", &TextureDescriptor{Width: 1, Height: 1, Depth: 1, MipLevels: 1, ArrayLength: 1, SampleCount: 1}), InvalidHandle)

	r.PersistentProperties(int(h.Index())).MarkUsedByRenderGraph(3)

	r.Dispose(h)
	if !r.IsValid(h) {
		t.Fatal("resource was disposed immediately despite a pending render graph")
	}

	r.ClearAfterRenderGraph(3)
	if r.IsValid(h) {
		t.Error("resource is still valid after its render graph cleared")
	}

	h2 := r.AllocateHandle(0)
	if h2.Index() != h.Index() {
		t.Errorf("slot was not recycled on next allocate: got index %d, want %d", h2.Index(), h.Index())
	}
}

func TestPersistentRegistryGenerationWraparound(t *testing.T) {
	r := NewPersistentRegistry(KindBuffer, NoopBackend{}, 4, 8)

	last := r.AllocateHandle(0)
	r.Initialize(last, NewSharedProperties("buf", &BufferDescriptor{Length: 1}), InvalidHandle)
	first := last

	// Generation 0 is reserved (never issued, see generationZero), so an
	// 8-bit generation counter that starts at 1 has a period of 255, not
	// 256. 254 further cycles stay short of a full wrap; at each point
	// the disposed handle must read invalid and the freshly allocated
	// one must differ from the very first handle.
	for i := 0; i < 254; i++ {
		r.Dispose(last)
		if r.IsValid(last) {
			t.Fatalf("stale handle from cycle %d still valid", i)
		}

		last = r.AllocateHandle(0)
		r.Initialize(last, NewSharedProperties("buf", &BufferDescriptor{Length: 1}), InvalidHandle)
		if !r.IsValid(last) {
			t.Fatalf("freshly allocated handle at cycle %d is not valid", i)
		}
		if last == first {
			t.Fatalf("handle at cycle %d collides with the original handle before a full generation wrap", i)
		}
	}

	// One more cycle (the 255th) completes the wrap: the new handle's
	// packed value is numerically identical to the very first one (same
	// index, same wrapped-back-to-1 generation) — the known ABA boundary
	// an 8-bit counter with a reserved zero value accepts at exactly 255
	// cycles (§8 property 7 only promises distinctness short of a full
	// wrap, which is what the preceding 254 iterations checked).
	r.Dispose(last)
	wrapped := r.AllocateHandle(0)
	r.Initialize(wrapped, NewSharedProperties("buf", &BufferDescriptor{Length: 1}), InvalidHandle)
	if !r.IsValid(wrapped) {
		t.Fatal("handle after a full generation wrap is not valid")
	}
	if wrapped != first {
		t.Fatalf("expected the wrapped handle to alias the original after exactly 255 cycles: got %v, want %v", wrapped, first)
	}
}
