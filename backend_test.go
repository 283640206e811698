package rescore

import "testing"

// trackingBackend records every RegisterExternal/UpdatePurgeableState
// call it receives, so Core's wiring to those hooks can be exercised
// directly instead of only through NoopBackend's no-op implementations.
type trackingBackend struct {
	NoopBackend
	registeredExternal   []uintptr
	purgeableTransitions []PurgeableState
	purgeableReturn      PurgeableState
}

func (b *trackingBackend) RegisterExternal(_ Resource, backingPtr uintptr) {
	b.registeredExternal = append(b.registeredExternal, backingPtr)
}

func (b *trackingBackend) UpdatePurgeableState(_ Resource, to PurgeableState) PurgeableState {
	b.purgeableTransitions = append(b.purgeableTransitions, to)
	prev := b.purgeableReturn
	b.purgeableReturn = to
	return prev
}

func TestCreatePersistentWithExternalOwnershipCallsRegisterExternal(t *testing.T) {
	b := &trackingBackend{}
	c := NewCore(b)

	res, err := c.CreateBuffer(&BufferDescriptor{Length: 64}, CreateOptions{
		Persistent:         true,
		ExternalOwnership:  true,
		ExternalBackingPtr: 0xdeadbeef,
	})
	if err != nil {
		t.Fatalf("CreateBuffer with ExternalOwnership: %v", err)
	}
	if !res.IsValid() {
		t.Fatal("externally-owned resource reports invalid")
	}
	if !res.Handle.HandleFlags().Has(FlagExternalOwnership) {
		t.Error("FlagExternalOwnership not set on an externally-owned resource")
	}
	if len(b.registeredExternal) != 1 || b.registeredExternal[0] != 0xdeadbeef {
		t.Errorf("RegisterExternal calls = %v, want exactly [0xdeadbeef]", b.registeredExternal)
	}
	if !res.Initialised() {
		t.Error("externally-owned resource should be marked initialised")
	}
}

func TestCoreUpdatePurgeableStateClearsInitialisedOnDiscard(t *testing.T) {
	b := &trackingBackend{}
	c := NewCore(b)

	res, err := c.CreateBuffer(&BufferDescriptor{Length: 64}, CreateOptions{Persistent: true})
	if err != nil {
		t.Fatalf("CreateBuffer: %v", err)
	}
	if !res.Initialised() {
		t.Fatal("freshly created persistent resource should be initialised")
	}

	prev := c.UpdatePurgeableState(res.Handle, PurgeableDiscarded)
	if prev != PurgeableNonDiscardable {
		t.Errorf("UpdatePurgeableState returned %v, want the backend's previous state", prev)
	}
	if len(b.purgeableTransitions) != 1 || b.purgeableTransitions[0] != PurgeableDiscarded {
		t.Errorf("backend saw transitions %v, want exactly [PurgeableDiscarded]", b.purgeableTransitions)
	}
	if res.Initialised() {
		t.Error("resource should no longer be initialised after being discarded")
	}
}

func TestNoopBackendMaterializeAlwaysSucceeds(t *testing.T) {
	var b NoopBackend
	if !b.MaterializePersistent(Resource{}) {
		t.Error("NoopBackend.MaterializePersistent() = false, want true")
	}
}

func TestNoopBackendUpdatePurgeableState(t *testing.T) {
	var b NoopBackend
	if got := b.UpdatePurgeableState(Resource{}, PurgeableDiscarded); got != PurgeableNonDiscardable {
		t.Errorf("UpdatePurgeableState() = %v, want PurgeableNonDiscardable", got)
	}
}

// failingBackend rejects every materialize call, to exercise the
// dispose-on-materialization-failure path in Core.createPersistent.
type failingBackend struct{ NoopBackend }

func (failingBackend) MaterializePersistent(Resource) bool { return false }

func TestCreatePersistentDisposesOnMaterializationFailure(t *testing.T) {
	c := NewCore(failingBackend{})
	res, err := c.CreateBuffer(&BufferDescriptor{Length: 64}, CreateOptions{Persistent: true})
	if err == nil {
		t.Fatal("expected an error from a failing backend, got nil")
	}
	if res.IsValid() {
		t.Error("resource reports valid despite a failed materialization")
	}

	counts := c.ResourceCounts()
	if n := counts[KindBuffer]; n != 0 {
		t.Errorf("ResourceCounts()[KindBuffer] = %d, want 0 after the failed allocation was disposed", n)
	}
}
