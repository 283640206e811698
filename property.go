package rescore

import (
	"sync/atomic"

	"github.com/gogpu/rescore/queue"
	"github.com/gogpu/rescore/track"
)

// StateFlags records resource-level state bits orthogonal to usage
// (§3.3, §4.D). It is distinct from track.Usage, which records what a
// render graph pass is doing with a resource right now; StateFlags
// records durable facts about the resource itself.
type StateFlags uint32

const (
	// StateInitialised marks a resource whose contents have been
	// written at least once. A destructive purgeable-state transition
	// (§6, Backend.UpdatePurgeableState) clears this bit back to zero.
	StateInitialised StateFlags = 1 << iota
)

// SharedProperties holds the fields every resource carries regardless
// of which registry allocated it (§3.3: "properties common to
// transient and persistent resources"). A registry stores one of
// these per slot in its own ChunkedArena, addressed by the same dense
// index as the resource's Handle.
type SharedProperties struct {
	// Label is the caller-supplied debug name, or "" (trackAllocation
	// synthesizes one for leak reports).
	Label string
	// Descriptor is the kind-specific creation descriptor (a
	// *BufferDescriptor, *TextureDescriptor, etc. — see descriptor.go).
	Descriptor any
	// HazardGroup is the hazard-tracking group this resource belongs
	// to, or InvalidHandle if it tracks its own usage independently
	// (§4.E).
	HazardGroup Handle
	// Usages records in-flight render-graph-pass usage for this
	// resource. Once HazardGroup is set, it points at the group's own
	// scope, shared by every member.
	Usages *track.Scope
}

// NewSharedProperties returns a SharedProperties with its usage scope
// initialized.
func NewSharedProperties(label string, descriptor any) SharedProperties {
	return SharedProperties{
		Label:      label,
		Descriptor: descriptor,
		Usages:     track.NewScope(),
	}
}

// TransientProperties holds fields meaningful only to resources
// allocated from a render graph's per-frame transient arena (§3.3,
// §4.B). It carries no synchronization of its own: transient
// resources never outlive the render graph that allocated them, so
// nothing can race with their lifetime beyond the arena generation
// bump itself.
type TransientProperties struct {
	// ViewOf is the transient resource this one is a reinterpretation
	// view of, or InvalidHandle if this slot is not a view.
	ViewOf Handle
	// ViewDescriptor is the TextureViewDescriptor for view slots, or
	// nil otherwise.
	ViewDescriptor *TextureViewDescriptor
	// BackingOffset is a byte offset into ViewOf's storage, for
	// argument-buffer-array element views (§6, S6).
	BackingOffset uint64
}

// PersistentProperties holds fields meaningful only to resources
// allocated from the long-lived PersistentRegistry (§3.3, §4.C, §4.D).
// Unlike transient resources, a persistent resource can be in flight
// on any subset of queues and any subset of concurrently executing
// render graphs at once, so every field here is safe for concurrent
// access without an external lock.
type PersistentProperties struct {
	state              atomic.Uint32
	wait               queue.WaitIndices
	activeRenderGraphs atomic.Uint32 // bit i set => render-graph slot i has an outstanding reference
	// Heap is the heap this resource was placed in, or InvalidHandle
	// for a standalone allocation.
	Heap Handle
}

// Initialised reports whether StateInitialised is set.
func (p *PersistentProperties) Initialised() bool {
	return StateFlags(p.state.Load())&StateInitialised != 0
}

// SetInitialised sets or clears StateInitialised.
func (p *PersistentProperties) SetInitialised(v bool) {
	for {
		cur := p.state.Load()
		var next uint32
		if v {
			next = cur | uint32(StateInitialised)
		} else {
			next = cur &^ uint32(StateInitialised)
		}
		if p.state.CompareAndSwap(cur, next) {
			return
		}
	}
}

// WaitIndices returns the per-queue wait-index tracker for this
// resource (§4.D).
func (p *PersistentProperties) WaitIndices() *queue.WaitIndices {
	return &p.wait
}

// MarkUsedByRenderGraph sets the bit for render graph slot i in the
// active-render-graph bitmask (§4.D: up to 8 concurrently executing
// render graphs, matching TransientRegistryManager's 8 slots).
func (p *PersistentProperties) MarkUsedByRenderGraph(slot int) {
	invariant(slot >= 0 && slot < 8, "rescore: render graph slot %d out of range", slot)
	for {
		cur := p.activeRenderGraphs.Load()
		next := cur | (1 << uint(slot))
		if cur == next || p.activeRenderGraphs.CompareAndSwap(cur, next) {
			return
		}
	}
}

// ClearRenderGraph unsets the bit for render graph slot i, called
// once that render graph has fully retired (§4.D).
func (p *PersistentProperties) ClearRenderGraph(slot int) {
	invariant(slot >= 0 && slot < 8, "rescore: render graph slot %d out of range", slot)
	for {
		cur := p.activeRenderGraphs.Load()
		next := cur &^ (1 << uint(slot))
		if cur == next || p.activeRenderGraphs.CompareAndSwap(cur, next) {
			return
		}
	}
}

// HasPendingRenderGraph reports whether any render graph slot's bit
// is still set.
func (p *PersistentProperties) HasPendingRenderGraph() bool {
	return p.activeRenderGraphs.Load() != 0
}

// IsKnownInUse reports whether this resource has a pending render
// graph reference, or a wait index beyond the last completed command
// of its queue in reg. Dispose does not use it: deferral there depends
// on HasPendingRenderGraph alone.
func (p *PersistentProperties) IsKnownInUse(reg *queue.Registry) bool {
	return p.HasPendingRenderGraph() || p.wait.IsKnownInUse(reg)
}
