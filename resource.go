package rescore

import (
	"context"

	"github.com/gogpu/rescore/queue"
	"github.com/gogpu/rescore/track"
)

// Resource is the type-erased handle facade described in §4.F: it
// carries only a Handle and a reference to the Core that owns the
// backing registry, and dispatches every read/write by inspecting the
// handle's Kind. Per §9's Open Question decision, rescore uses this
// simpler Handle-field form rather than embedding a raw pointer to
// the property slot.
type Resource struct {
	Handle Handle
	core   *Core
}

// From wraps h as a Resource bound to core, copying the handle value
// (§4.F: "Resource::from<R>(r) copies the handle").
func From(core *Core, h Handle) Resource {
	return Resource{Handle: h, core: core}
}

// TryKind narrows r to kind k: it returns (r, true) if r's handle
// already has that kind, or (Resource{}, false) otherwise (§4.F:
// "R::try_from(resource) succeeds iff types match").
func (r Resource) TryKind(k Kind) (Resource, bool) {
	if r.Handle.Type() != k {
		return Resource{}, false
	}
	return r, true
}

// IsValid reports whether r's handle still refers to a live resource.
func (r Resource) IsValid() bool {
	if r.core == nil || r.Handle.IsZero() {
		return false
	}
	return r.core.isValid(r.Handle)
}

// Label returns r's debug label, or "" if unset or r is invalid.
func (r Resource) Label() string {
	if !r.IsValid() {
		return ""
	}
	return r.core.label(r.Handle)
}

// Descriptor returns r's creation descriptor (a *BufferDescriptor,
// *TextureDescriptor, etc.), or nil if r is invalid.
func (r Resource) Descriptor() any {
	if !r.IsValid() {
		return nil
	}
	return r.core.sharedProperties(r.Handle).Descriptor
}

// Usages returns the usage-recording scope r's usage should be merged
// into — its own scope, or its hazard-tracking group's scope if it
// has been assigned one (§4.E forwarding rule).
func (r Resource) Usages() *track.Scope {
	if !r.IsValid() {
		return nil
	}
	return r.core.sharedProperties(r.Handle).Usages
}

// BaseResource returns the resource r is a view of, or the zero
// Resource if r is not a view (§4.F, §6 S5).
func (r Resource) BaseResource() Resource {
	if !r.IsValid() || !r.Handle.HandleFlags().Has(FlagResourceView) {
		return Resource{}
	}
	tp := r.core.transientProperties(r.Handle)
	if tp == nil {
		return Resource{}
	}
	return From(r.core, tp.ViewOf)
}

// ResourceForUsageTracking returns the resource whose usage scope r's
// own usage is actually recorded against: its hazard-tracking group if
// assigned, else its base resource if it is a view, else r itself
// (§4.E, §6 S5).
func (r Resource) ResourceForUsageTracking() Resource {
	if !r.IsValid() {
		return r
	}
	shared := r.core.sharedProperties(r.Handle)
	if !shared.HazardGroup.IsZero() {
		return From(r.core, shared.HazardGroup)
	}
	if base := r.BaseResource(); base.core != nil {
		return base
	}
	return r
}

// WaitIndices returns r's per-queue wait-index tracker, or nil for a
// transient (non-persistent) resource, which has none (§4.D: "non-
// persistent resources are always available").
func (r Resource) WaitIndices() *queue.WaitIndices {
	if !r.IsValid() || !r.Handle.HandleFlags().Has(FlagPersistent) {
		return nil
	}
	return r.core.waitIndices(r.Handle)
}

// Initialised reports StateInitialised for a persistent resource; a
// transient resource is always reported initialised.
func (r Resource) Initialised() bool {
	if !r.IsValid() {
		return false
	}
	if !r.Handle.HandleFlags().Has(FlagPersistent) {
		return true
	}
	return r.core.persistentProperties(r.Handle).Initialised()
}

// IsAvailableForCPU reports whether the CPU may safely touch r right
// now without racing in-flight GPU work (§4.D). Always true for a
// transient resource, and for a persistent resource that has never
// been marked initialised — a resource the backend hasn't finished
// materializing has no outstanding GPU work to wait on.
func (r Resource) IsAvailableForCPU(access queue.Access) bool {
	if !r.IsValid() || !r.Handle.HandleFlags().Has(FlagPersistent) {
		return true
	}
	props := r.core.persistentProperties(r.Handle)
	if !props.Initialised() {
		return true
	}
	return props.WaitIndices().IsAvailableForCPU(r.core.Queues, access)
}

// WaitForCPUAccess blocks until the CPU may safely touch r for access,
// or ctx is done. A no-op for a transient resource, or a persistent
// resource that has never been marked initialised (§4.D).
func (r Resource) WaitForCPUAccess(ctx context.Context, access queue.Access) error {
	if !r.IsValid() || !r.Handle.HandleFlags().Has(FlagPersistent) {
		return nil
	}
	props := r.core.persistentProperties(r.Handle)
	if !props.Initialised() {
		return nil
	}
	return props.WaitIndices().WaitForCPUAccess(ctx, r.core.Queues, access)
}

// CheckCPUAccess asserts r is currently available for access, panicking
// in debug mode if GPU work still owes it (§7: "CPU access attempted
// while GPU still owes work ... Fatal in debug; caller is expected to
// use async wait path").
func (r Resource) CheckCPUAccess(access queue.Access) {
	invariant(r.IsAvailableForCPU(access), "rescore: CPU access to %s attempted while the GPU still owes work; use WaitForCPUAccess instead", r.Handle)
}

// Dispose releases r. For a persistent resource this defers to the
// owning PersistentRegistry's deferred-disposal rules (§4.C); for a
// transient resource it is a no-op (transient slots are reclaimed in
// bulk by the arena's Clear, never individually).
func (r Resource) Dispose() {
	if r.core == nil {
		return
	}
	r.core.dispose(r.Handle)
}
