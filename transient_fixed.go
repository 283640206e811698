package rescore

import "sync/atomic"

// TransientFixedSizeRegistry holds, within one transient arena slot,
// up to a fixed, known-in-advance per-frame capacity of one resource
// kind (§4.C) — the shape used for buffers and textures, where the
// caller can size the property buffer once at render-graph setup and
// never grow it. AllocateHandle is a single atomic increment; Clear
// is a single atomic exchange. Both are lock-free, unlike
// TransientChunkRegistry's spinlock-guarded count.
type TransientFixedSizeRegistry struct {
	kind     Kind
	capacity int

	count      atomic.Int64
	generation atomic.Uint32

	shared    []SharedProperties
	transient []TransientProperties
	inUse     []atomic.Bool
}

// NewTransientFixedSizeRegistry creates a registry for kind with room
// for exactly capacity concurrently-live slots. The arena generation
// starts at 1, not 0: 0 is reserved (see generationZero in
// persistent.go) so that Pack can never produce the all-zero
// InvalidHandle sentinel for a genuinely live resource — index 0 of
// KindBuffer (the zero Kind) with no flags set would otherwise collide
// with it on the very first allocation from a fresh arena.
func NewTransientFixedSizeRegistry(kind Kind, capacity int) *TransientFixedSizeRegistry {
	r := &TransientFixedSizeRegistry{
		kind:      kind,
		capacity:  capacity,
		shared:    make([]SharedProperties, capacity),
		transient: make([]TransientProperties, capacity),
		inUse:     make([]atomic.Bool, capacity),
	}
	r.generation.Store(1)
	return r
}

func (r *TransientFixedSizeRegistry) currentGeneration() uint8 {
	return uint8(r.generation.Load())
}

// AllocateHandle atomically reserves the next index, asserting
// capacity has not been exceeded (§4.C, §7: capacity exhaustion is
// fatal, not recoverable).
func (r *TransientFixedSizeRegistry) AllocateHandle(arena uint8, flags Flags) Handle {
	idx := r.count.Add(1) - 1
	if idx >= int64(r.capacity) {
		fatal("rescore: transient fixed-size registry for %s exceeded capacity %d", r.kind, r.capacity)
	}
	return Pack(r.kind, flags, r.currentGeneration(), arena, uint32(idx))
}

// Initialize populates the shared and transient property slots for a
// handle just returned by AllocateHandle.
func (r *TransientFixedSizeRegistry) Initialize(h Handle, shared SharedProperties, transient TransientProperties) {
	idx := h.Index()
	r.shared[idx] = shared
	r.transient[idx] = transient
	r.inUse[idx].Store(true)
}

// Clear atomically exchanges the live count with zero, deinitializes
// every previously-live slot, and bumps the generation (§4.C).
func (r *TransientFixedSizeRegistry) Clear() {
	n := r.count.Swap(0)
	for i := int64(0); i < n; i++ {
		if r.inUse[i].Swap(false) {
			r.shared[i] = SharedProperties{}
			r.transient[i] = TransientProperties{}
		}
	}
	r.generation.Store(uint32(nextGeneration(uint8(r.generation.Load()))))
}

// IsValid reports whether h still refers to a live slot.
func (r *TransientFixedSizeRegistry) IsValid(h Handle) bool {
	if h.Type() != r.kind {
		return false
	}
	idx := int64(h.Index())
	if idx < 0 || idx >= int64(r.capacity) {
		return false
	}
	if idx >= r.count.Load() {
		return false
	}
	if h.Generation() != r.currentGeneration() {
		return false
	}
	return r.inUse[idx].Load()
}

// SharedProperties returns a pointer to index's shared property slot.
func (r *TransientFixedSizeRegistry) SharedProperties(index int) *SharedProperties {
	return &r.shared[index]
}

// TransientProperties returns a pointer to index's transient property slot.
func (r *TransientFixedSizeRegistry) TransientProperties(index int) *TransientProperties {
	return &r.transient[index]
}

// Label returns the debug label for index, or "" if unset.
func (r *TransientFixedSizeRegistry) Label(index int) string {
	return r.shared[index].Label
}
