package rescore

import (
	"sync"
	"sync/atomic"

	"github.com/gogpu/rescore/queue"
)

// PersistentRegistry holds one resource kind's long-lived allocations
// (§4.C, §4.E), generalizing the teacher's IdentityManager free-list
// and epoch-bump to also own the property storage it identifies.
// Unlike a transient registry, individual slots are recycled
// independently of one another: disposing one resource never
// invalidates any other.
type PersistentRegistry struct {
	kind    Kind
	backend Backend

	mu            sync.Mutex // the registry "spinlock" (§5)
	freeIndices   []uint32
	nextFreeIndex uint32
	enqueued      []uint32 // indices awaiting a render graph to finish before disposal

	generations *ChunkedArena[atomic.Uint32] // live uint8 generation per slot
	shared      *ChunkedArena[SharedProperties]
	persistent  *ChunkedArena[PersistentProperties]
}

// NewPersistentRegistry creates an empty registry for kind, backed by
// backend for dispose calls. chunkSize/maxChunks follow §4.C tuning
// (256/2048 for most kinds, smaller ceilings for rarer kinds like
// hazard-tracking groups).
func NewPersistentRegistry(kind Kind, backend Backend, chunkSize, maxChunks int) *PersistentRegistry {
	if backend == nil {
		backend = NoopBackend{}
	}
	return &PersistentRegistry{
		kind:        kind,
		backend:     backend,
		generations: NewChunkedArena[atomic.Uint32](chunkSize, maxChunks),
		shared:      NewChunkedArena[SharedProperties](chunkSize, maxChunks),
		persistent:  NewChunkedArena[PersistentProperties](chunkSize, maxChunks),
	}
}

// generationZero is never a live generation: a slot's generation array
// entry defaults to the zero value until first allocated, and 0 is
// also what an all-zero Handle decodes to. Reserving 0 (mirroring the
// teacher's core/identity.go starting its epoch at 1 "so that zero IDs
// are always invalid") guarantees Pack can never be asked to produce
// the all-zero sentinel Handle for a genuinely live resource — index 0
// of KindBuffer (the zero Kind) with no flags set would otherwise
// collide with InvalidHandle.
const generationZero uint8 = 0

// nextGeneration advances cur by one, wrapping 255 back to 1 instead
// of 0 (§8 property 7: generation-wraparound safety), since 0 must
// never be a live generation value.
func nextGeneration(cur uint8) uint8 {
	next := cur + 1
	if next == generationZero {
		next = 1
	}
	return next
}

// currentGeneration reads the live generation for idx.
func (p *PersistentRegistry) currentGeneration(idx int) uint8 {
	return uint8(p.generations.At(idx).Load())
}

// bumpGeneration advances idx's generation by one, wrapping 255 back
// to 1 rather than 0 (§4.C, §8 property 7: generation-wraparound
// safety; 0 is reserved, see generationZero).
func (p *PersistentRegistry) bumpGeneration(idx int) {
	g := p.generations.At(idx)
	for {
		cur := g.Load()
		next := uint32(nextGeneration(uint8(cur)))
		if g.CompareAndSwap(cur, next) {
			return
		}
	}
}

// AllocateHandle pops a freed index or bumps the next-free pointer
// (allocating the owning chunk if this index begins one), and packs
// the handle with that slot's current generation (§4.C).
func (p *PersistentRegistry) AllocateHandle(flags Flags) Handle {
	p.mu.Lock()
	var idx uint32
	if n := len(p.freeIndices); n > 0 {
		idx = p.freeIndices[n-1]
		p.freeIndices = p.freeIndices[:n-1]
	} else {
		idx = p.nextFreeIndex
		p.nextFreeIndex++
		p.shared.EnsureChunkFor(int(idx))
		p.persistent.EnsureChunkFor(int(idx))
		p.generations.EnsureChunkFor(int(idx))
		// This index has never been allocated before, so its generation
		// slot still holds the zero value. Stamp it to 1: generation 0
		// is reserved (see generationZero) and must never be live.
		p.generations.At(int(idx)).Store(1)
	}
	gen := p.currentGeneration(int(idx))
	p.mu.Unlock()

	return Pack(p.kind, flags|FlagPersistent, gen, 0, idx)
}

// Initialize populates the shared and persistent property slots for a
// handle just returned by AllocateHandle, and, if heap is not
// InvalidHandle, records it as this resource's owning heap (§4.C).
func (p *PersistentRegistry) Initialize(h Handle, shared SharedProperties, heap Handle) {
	idx := int(h.Index())
	*p.shared.At(idx) = shared
	props := p.persistent.At(idx)
	*props = PersistentProperties{Heap: heap}
}

// SharedProperties returns a pointer to index's shared property slot.
func (p *PersistentRegistry) SharedProperties(index int) *SharedProperties {
	return p.shared.At(index)
}

// PersistentProperties returns a pointer to index's persistent property slot.
func (p *PersistentRegistry) PersistentProperties(index int) *PersistentProperties {
	return p.persistent.At(index)
}

// Label returns the debug label for index, or "" if unset.
func (p *PersistentRegistry) Label(index int) string {
	return p.shared.At(index).Label
}

// IsValid reports whether h still refers to a live slot in this
// registry (§8 property 1): its kind matches, its slot's chunk has
// been allocated, and its generation matches the slot's current one.
func (p *PersistentRegistry) IsValid(h Handle) bool {
	if h.Type() != p.kind {
		return false
	}
	idx := int(h.Index())
	if !p.shared.Allocated(idx) {
		return false
	}
	return h.Generation() == p.currentGeneration(idx)
}

// Dispose releases h, or defers release until its owning render
// graph(s) finish if any are still outstanding (§4.C). Disposing an
// already-invalid handle is a no-op (§8 idempotence property).
func (p *PersistentRegistry) Dispose(h Handle) {
	if !p.IsValid(h) {
		return
	}
	idx := int(h.Index())
	if p.persistent.At(idx).HasPendingRenderGraph() {
		p.mu.Lock()
		p.enqueued = append(p.enqueued, uint32(idx))
		p.mu.Unlock()
		return
	}
	p.disposeImmediately(idx)
}

// disposeImmediately invokes the backend's dispose hook, deinitializes
// the slot's property storage, bumps its generation, and returns the
// index to the free list (§4.C).
func (p *PersistentRegistry) disposeImmediately(idx int) {
	gen := p.currentGeneration(idx)
	handle := Pack(p.kind, FlagPersistent, gen, 0, uint32(idx))
	p.backend.DisposeBackend(Resource{Handle: handle})

	*p.shared.At(idx) = SharedProperties{}
	*p.persistent.At(idx) = PersistentProperties{}
	p.bumpGeneration(idx)

	p.mu.Lock()
	p.freeIndices = append(p.freeIndices, uint32(idx))
	p.mu.Unlock()
}

// ClearAfterRenderGraph clears render-graph slot q's bit from every
// live resource's active-render-graph mask, resets per-render-graph
// usage recording, and processes any disposals that were waiting on
// this render graph (§4.C, §4.D).
func (p *PersistentRegistry) ClearAfterRenderGraph(q int) {
	p.mu.Lock()
	n := p.nextFreeIndex
	p.mu.Unlock()

	for i := uint32(0); i < n; i++ {
		if !p.persistent.Allocated(int(i)) {
			continue
		}
		p.persistent.At(int(i)).ClearRenderGraph(q)
		if shared := p.shared.At(int(i)); shared.Usages != nil {
			shared.Usages.Reset()
		}
	}
	p.processEnqueuedDisposals()
}

// processEnqueuedDisposals disposes every enqueued index whose render
// graph references have since cleared, leaving the rest queued
// (§4.C: "order is not preserved").
func (p *PersistentRegistry) processEnqueuedDisposals() {
	p.mu.Lock()
	pending := p.enqueued
	p.enqueued = nil
	p.mu.Unlock()

	var stillPending []uint32
	for _, idx := range pending {
		if p.persistent.At(int(idx)).HasPendingRenderGraph() {
			stillPending = append(stillPending, idx)
			continue
		}
		p.disposeImmediately(int(idx))
	}

	if len(stillPending) > 0 {
		p.mu.Lock()
		p.enqueued = append(p.enqueued, stillPending...)
		p.mu.Unlock()
	}
}

// WaitIndices returns the per-queue wait-index tracker for index.
func (p *PersistentRegistry) WaitIndices(index int) *queue.WaitIndices {
	return p.persistent.At(index).WaitIndices()
}
