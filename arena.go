package rescore

import (
	"sync"
	"sync/atomic"
)

// DefaultChunkSize is the number of slots in one chunk of a ChunkedArena,
// matching §4.C's registry tuning guidance ("chunk size 256").
const DefaultChunkSize = 256

// ChunkedArena is a growable container of fixed-size chunks (§4.B). Once
// a chunk is allocated its backing array is never resized, moved, or
// freed: a pointer obtained from At(i) remains valid for the arena's
// entire life, even while other goroutines concurrently allocate new
// chunks. This is the core guarantee the teacher's own Storage[T,M]
// cannot provide (it reallocates a slice on growth — see DESIGN.md) and
// is instead grounded on the fixed-segment-table pattern from the OPA
// arena-storage reference file (`other_examples/.../opa-storage-arena`):
// a fixed-size table of chunk pointers guarded by an atomic chunk count.
//
// ChunkedArena itself only hands out storage; it does not track which
// slots are "in use" — that is the job of the registries built on top
// of it (§4.C).
type ChunkedArena[T any] struct {
	chunkSize int
	maxChunks int

	mu      sync.Mutex
	chunks  []*[]T // chunks[i] has len == chunkSize once allocated; nil until then
	nChunks atomic.Int64
}

// NewChunkedArena creates an arena with the given per-chunk slot count
// and maximum chunk count (§4.B: "must support a bounded maximum, e.g.
// 2048 chunks -> 512k slots").
func NewChunkedArena[T any](chunkSize, maxChunks int) *ChunkedArena[T] {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	return &ChunkedArena[T]{
		chunkSize: chunkSize,
		maxChunks: maxChunks,
		chunks:    make([]*[]T, maxChunks),
	}
}

// ChunkSize returns the number of slots per chunk.
func (a *ChunkedArena[T]) ChunkSize() int { return a.chunkSize }

// Capacity returns the total number of slots currently backed by
// allocated chunks.
func (a *ChunkedArena[T]) Capacity() int {
	return int(a.nChunks.Load()) * a.chunkSize
}

// EnsureChunkFor allocates whatever chunk covers index, if it does not
// exist yet. It is safe to call concurrently; only one caller actually
// allocates a given chunk, the rest observe it once allocated.
func (a *ChunkedArena[T]) EnsureChunkFor(index int) {
	chunkIndex := index / a.chunkSize
	a.ensureChunk(chunkIndex)
}

// ensureChunk allocates chunks[chunkIndex] if it has not been allocated.
func (a *ChunkedArena[T]) ensureChunk(chunkIndex int) {
	if chunkIndex < len(a.chunks) && a.chunks[chunkIndex] != nil {
		return // fast path, no lock: chunk pointers are never cleared once set
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if chunkIndex >= a.maxChunks {
		fatalErr(&LimitError{Limit: "chunk", Actual: uint64(chunkIndex), Maximum: uint64(a.maxChunks)})
	}
	if a.chunks[chunkIndex] != nil {
		return // lost the race to another allocator
	}

	slab := make([]T, a.chunkSize)
	a.chunks[chunkIndex] = &slab
	a.nChunks.Add(1)
}

// At returns a pointer to the slot at index, allocating the owning
// chunk first if necessary. The returned pointer is address-stable:
// later calls to At for other indices never invalidate it (§4.B, §5
// "chunk memory is immortal").
func (a *ChunkedArena[T]) At(index int) *T {
	a.EnsureChunkFor(index)
	chunkIndex := index / a.chunkSize
	offset := index % a.chunkSize
	chunk := a.chunks[chunkIndex]
	return &(*chunk)[offset]
}

// Allocated reports whether the chunk covering index has been allocated
// without allocating it.
func (a *ChunkedArena[T]) Allocated(index int) bool {
	chunkIndex := index / a.chunkSize
	return chunkIndex < len(a.chunks) && a.chunks[chunkIndex] != nil
}
