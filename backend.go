package rescore

// PurgeableState controls whether a persistent resource's backing
// memory may be discarded by the system under memory pressure (§6).
type PurgeableState uint8

const (
	// PurgeableNonDiscardable means the backend must never reclaim this
	// resource's storage behind the caller's back.
	PurgeableNonDiscardable PurgeableState = iota
	// PurgeableDiscardable means the backend may reclaim storage if
	// needed, but hasn't yet.
	PurgeableDiscardable
	// PurgeableDiscarded means the backend has already reclaimed the
	// storage; its contents are undefined until rewritten.
	PurgeableDiscarded
)

// Backend is the small set of hooks a GPU driver implements so the
// registry core can allocate, release and query the real memory a
// Resource represents (§4.G, §6). rescore never talks to a driver
// directly; every Core is constructed with one of these, and the
// NoopBackend below is a safe default for tests and headless use —
// mirroring the teacher's hal/noop stub backend.
type Backend interface {
	// MaterializePersistent allocates GPU memory for r, which has just
	// been initialized in a PersistentRegistry. Returning false tells
	// the registry to dispose the handle it just created.
	MaterializePersistent(r Resource) bool

	// DisposeBackend releases the GPU memory backing r. Invoked from
	// PersistentRegistry.disposeImmediately; never called twice for the
	// same (index, generation) pair.
	DisposeBackend(r Resource)

	// RegisterExternal adopts memory the caller allocated outside the
	// registry (backingPtr) for r, which carries FlagExternalOwnership;
	// the backend must never free backingPtr itself.
	RegisterExternal(r Resource, backingPtr uintptr)

	// UpdatePurgeableState transitions r to state `to` (or only queries
	// current state, when the registry core is not also asked to write
	// one — callers wanting a query-only path should pass the result of
	// r's current known state back in). It returns the state r was in
	// immediately before the call.
	UpdatePurgeableState(r Resource, to PurgeableState) PurgeableState
}

// NoopBackend is a Backend that performs no real allocation: every
// materialize call succeeds trivially, dispose is a no-op, and
// purgeable-state transitions are not recorded at all. Useful for
// tests and for running the registry core ahead of a driver being
// wired in, mirroring the teacher's hal/noop package.
type NoopBackend struct{}

// MaterializePersistent always succeeds.
func (NoopBackend) MaterializePersistent(Resource) bool { return true }

// DisposeBackend does nothing.
func (NoopBackend) DisposeBackend(Resource) {}

// RegisterExternal does nothing.
func (NoopBackend) RegisterExternal(Resource, uintptr) {}

// UpdatePurgeableState always reports the resource was previously
// non-discardable, since NoopBackend keeps no real state.
func (NoopBackend) UpdatePurgeableState(Resource, PurgeableState) PurgeableState {
	return PurgeableNonDiscardable
}
