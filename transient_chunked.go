package rescore

import (
	"sync"
	"sync/atomic"
)

// TransientChunkRegistry holds, within one transient arena slot, a
// variable per-frame count of one resource kind (§4.C) — the shape
// used for argument buffers, whose count per render graph can swing
// wildly. It grows by allocating whole chunks of ChunkedArena as the
// count crosses a chunk boundary, and resets to empty in one Clear
// call at the end of the render graph, bumping a generation counter
// so stale handles from before the clear fail validation.
type TransientChunkRegistry struct {
	kind Kind

	mu    sync.Mutex // the registry "spinlock" (§5): allocate_handle, clear
	count int

	generation atomic.Uint32 // low 8 bits are the live uint8 generation

	shared    *ChunkedArena[SharedProperties]
	transient *ChunkedArena[TransientProperties]
	inUse     *ChunkedArena[bool]
}

// NewTransientChunkRegistry creates an empty registry for kind, with
// the given per-chunk size and chunk-count ceiling (§4.C tuning: chunk
// size 256, up to 256 chunks for argument buffers). The arena
// generation starts at 1, not 0: 0 is reserved (see generationZero in
// persistent.go) so that Pack can never produce the all-zero
// InvalidHandle sentinel for a genuinely live resource.
func NewTransientChunkRegistry(kind Kind, chunkSize, maxChunks int) *TransientChunkRegistry {
	r := &TransientChunkRegistry{
		kind:      kind,
		shared:    NewChunkedArena[SharedProperties](chunkSize, maxChunks),
		transient: NewChunkedArena[TransientProperties](chunkSize, maxChunks),
		inUse:     NewChunkedArena[bool](chunkSize, maxChunks),
	}
	r.generation.Store(1)
	return r
}

// currentGeneration returns the arena's live generation.
func (r *TransientChunkRegistry) currentGeneration() uint8 {
	return uint8(r.generation.Load())
}

// AllocateHandle reserves the next sequential index under the
// registry's spinlock, allocating a new chunk if this index begins
// one, and packs it with the arena's current generation (§4.C).
func (r *TransientChunkRegistry) AllocateHandle(arena uint8, flags Flags) Handle {
	r.mu.Lock()
	idx := r.count
	r.count++
	r.mu.Unlock()

	r.shared.EnsureChunkFor(idx)
	r.transient.EnsureChunkFor(idx)
	r.inUse.EnsureChunkFor(idx)

	return Pack(r.kind, flags, r.currentGeneration(), arena, uint32(idx))
}

// Initialize populates the shared and transient property slots for a
// handle just returned by AllocateHandle (§4.C: "all property slots
// are fully initialized before the handle escapes the allocator").
func (r *TransientChunkRegistry) Initialize(h Handle, shared SharedProperties, transient TransientProperties) {
	idx := int(h.Index())
	*r.shared.At(idx) = shared
	*r.transient.At(idx) = transient
	*r.inUse.At(idx) = true
}

// Clear deinitializes every in-use slot, resets the live count to
// zero, and bumps the arena generation (wrapping), invalidating every
// handle issued before this call (§4.C, S1).
func (r *TransientChunkRegistry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := 0; i < r.count; i++ {
		if r.inUse.Allocated(i) {
			*r.inUse.At(i) = false
			*r.shared.At(i) = SharedProperties{}
			*r.transient.At(i) = TransientProperties{}
		}
	}
	r.count = 0
	r.generation.Store(uint32(nextGeneration(uint8(r.generation.Load()))))
}

// IsValid reports whether h still refers to a live slot in this
// registry: its kind matches, its index is within the current live
// count, its generation matches the arena's current generation, and
// the slot has not itself been deinitialized.
func (r *TransientChunkRegistry) IsValid(h Handle) bool {
	if h.Type() != r.kind {
		return false
	}
	idx := int(h.Index())

	r.mu.Lock()
	count := r.count
	r.mu.Unlock()

	if idx < 0 || idx >= count {
		return false
	}
	if h.Generation() != r.currentGeneration() {
		return false
	}
	return r.inUse.Allocated(idx) && *r.inUse.At(idx)
}

// SharedProperties returns a pointer to index's shared property slot.
// Lock-free: valid as long as the caller already knows index refers
// to a live slot (§4.C: "access ... requires only knowing the index;
// no locks on read").
func (r *TransientChunkRegistry) SharedProperties(index int) *SharedProperties {
	return r.shared.At(index)
}

// TransientProperties returns a pointer to index's transient property slot.
func (r *TransientChunkRegistry) TransientProperties(index int) *TransientProperties {
	return r.transient.At(index)
}

// Label returns the debug label for index, or "" if unset.
func (r *TransientChunkRegistry) Label(index int) string {
	return r.shared.At(index).Label
}
