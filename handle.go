// Package rescore implements the resource registry and lifetime-tracking
// core of a low-level GPU rendering runtime: compact handle encoding,
// chunked address-stable arenas, transient and persistent resource
// registries, per-queue wait-index tracking, and hazard-tracking groups.
//
// The package is deliberately narrow. It does not talk to a GPU driver,
// encode commands, or schedule render graphs — those are the jobs of a
// backend (see Backend) and a render-graph scheduler built on top of
// this package.
package rescore

import "fmt"

// Kind identifies the type of GPU-visible resource a Handle refers to.
// It occupies the top 8 bits of a Handle (§3.1).
type Kind uint8

const (
	// KindBuffer identifies a GPU buffer.
	KindBuffer Kind = iota
	// KindTexture identifies a GPU texture (including texture views).
	KindTexture
	// KindHeap identifies a heap owning child resources.
	KindHeap
	// KindArgumentBuffer identifies an argument buffer.
	KindArgumentBuffer
	// KindArgumentBufferArray identifies an array of argument buffer bindings.
	KindArgumentBufferArray
	// KindVisibleFunctionTable identifies a visible function table.
	KindVisibleFunctionTable
	// KindIntersectionFunctionTable identifies an intersection function table.
	KindIntersectionFunctionTable
	// KindAccelerationStructure identifies a ray tracing acceleration structure.
	KindAccelerationStructure
	// KindHazardTrackingGroup identifies a hazard-tracking group.
	KindHazardTrackingGroup
)

// String returns a human-readable name for the resource kind.
func (k Kind) String() string {
	switch k {
	case KindBuffer:
		return "Buffer"
	case KindTexture:
		return "Texture"
	case KindHeap:
		return "Heap"
	case KindArgumentBuffer:
		return "ArgumentBuffer"
	case KindArgumentBufferArray:
		return "ArgumentBufferArray"
	case KindVisibleFunctionTable:
		return "VisibleFunctionTable"
	case KindIntersectionFunctionTable:
		return "IntersectionFunctionTable"
	case KindAccelerationStructure:
		return "AccelerationStructure"
	case KindHazardTrackingGroup:
		return "HazardTrackingGroup"
	default:
		return "Unknown"
	}
}

// Flags records persistence and provenance bits for a resource, packed
// into bits 55..40 of a Handle (§3.1).
type Flags uint16

const (
	// FlagPersistent routes allocation to a PersistentRegistry instead of
	// a render-graph's TransientRegistry.
	FlagPersistent Flags = 1 << iota
	// FlagWindowHandle marks a swapchain-backed texture.
	FlagWindowHandle
	// FlagHistoryBuffer implies persistent-like lifetime across frames.
	FlagHistoryBuffer
	// FlagExternalOwnership marks backing memory allocated outside the
	// registry; the backend is never asked to free it.
	FlagExternalOwnership
	// FlagImmutableOnceInitialised marks a resource whose contents may not
	// change after its first write.
	FlagImmutableOnceInitialised
	// FlagResourceView marks a resource that aliases another resource's
	// storage under a reinterpretation descriptor.
	FlagResourceView
)

// Has reports whether all bits in other are set in f.
func (f Flags) Has(other Flags) bool {
	return f&other == other
}

const (
	// indexBits is the width of the dense slot index field.
	indexBits = 28
	// indexMask selects the low 28 bits of a packed handle.
	indexMask = 1<<indexBits - 1
	// maxIndex is the largest index a registry can hand out (§4.A).
	maxIndex = 1 << indexBits

	arenaBits  = 4
	arenaShift = indexBits
	arenaMask  = 1<<arenaBits - 1

	generationBits  = 8
	generationShift = arenaShift + arenaBits
	generationMask  = 1<<generationBits - 1

	flagsBits  = 16
	flagsShift = generationShift + generationBits
	flagsMask  = 1<<flagsBits - 1

	kindShift = flagsShift + flagsBits
)

// Handle is the 64-bit packed resource identity described in §3.1:
//
//	bits 63..56  type
//	bits 55..40  flags
//	bits 39..32  generation
//	bits 31..28  transient_registry_index
//	bits 27..0   index
//
// The all-zero value is reserved as the invalid handle. Pack itself
// returns it for (KindBuffer, 0, 0, 0, 0), but no registry ever passes
// generation 0 to Pack (see generationZero), so no allocation returns
// it. IsValid additionally checks the index against its owning
// registry's current generation.
type Handle uint64

// InvalidHandle is the zero value, never returned by a successful
// allocation from any registry in this package.
const InvalidHandle Handle = 0

// Pack encodes type, flags, generation, transient-arena index and dense
// index into a single Handle. It is branchless bitwise work, per §4.A.
//
// In debug builds (see SetDebugMode), Pack asserts that index fits in
// 28 bits and arena fits in 4 bits; both are programmer-error invariant
// violations per §7, not recoverable conditions.
func Pack(kind Kind, flags Flags, generation uint8, arena uint8, index uint32) Handle {
	invariant(index < maxIndex, "rescore: handle index %d exceeds maximum %d", index, maxIndex)
	invariant(arena <= arenaMask, "rescore: transient arena index %d exceeds maximum %d", arena, arenaMask)

	h := uint64(index & indexMask)
	h |= uint64(arena&arenaMask) << arenaShift
	h |= uint64(generation) << generationShift
	h |= uint64(flags) << flagsShift
	h |= uint64(kind) << kindShift
	return Handle(h)
}

// Type returns the resource kind encoded in h.
func (h Handle) Type() Kind {
	return Kind(uint64(h) >> kindShift)
}

// HandleFlags returns the flags encoded in h.
func (h Handle) HandleFlags() Flags {
	return Flags((uint64(h) >> flagsShift) & flagsMask)
}

// Generation returns the 8-bit generation counter encoded in h.
func (h Handle) Generation() uint8 {
	return uint8((uint64(h) >> generationShift) & generationMask)
}

// Arena returns the transient-registry-index field encoded in h. It is
// meaningless (and ignored) when h.HandleFlags().Has(FlagPersistent).
func (h Handle) Arena() uint8 {
	return uint8((uint64(h) >> arenaShift) & arenaMask)
}

// Index returns the dense slot index encoded in h.
func (h Handle) Index() uint32 {
	return uint32(h) & indexMask
}

// IsZero reports whether h is the all-zero invalid handle.
func (h Handle) IsZero() bool {
	return h == InvalidHandle
}

// String renders h for debugging/logging.
func (h Handle) String() string {
	return fmt.Sprintf("Handle(type=%s, flags=%#x, gen=%d, arena=%d, index=%d)",
		h.Type(), h.HandleFlags(), h.Generation(), h.Arena(), h.Index())
}
