package rescore

import (
	"fmt"
	"sync"

	"github.com/gogpu/rescore/queue"
)

// validatable is satisfied by every descriptor type in descriptor.go.
type validatable interface {
	Validate() error
}

// transientRegistry is the shape TransientChunkRegistry and
// TransientFixedSizeRegistry share, letting createTransient work with
// either (§4.C: both are "registries", differing only in how they
// grow).
type transientRegistry interface {
	AllocateHandle(arena uint8, flags Flags) Handle
	Initialize(h Handle, shared SharedProperties, transient TransientProperties)
}

// CreateOptions carries the per-call knobs every resource factory
// accepts (§6): whether to route to a render graph's transient arena
// or the long-lived persistent registry, and the provenance flags
// that travel with the handle.
type CreateOptions struct {
	Label         string
	Persistent    bool
	HistoryBuffer bool
	WindowHandle  bool
	Heap          Handle
	// ArenaSlot selects which of the 8 concurrent transient arenas to
	// allocate from; ignored when Persistent or HistoryBuffer is set.
	// Obtain one from TransientRegistryManager.Allocate().
	ArenaSlot uint8

	// ExternalOwnership routes creation through Backend.RegisterExternal
	// instead of Backend.MaterializePersistent, and sets
	// FlagExternalOwnership on the resulting handle (§4.G). Only
	// meaningful alongside Persistent or HistoryBuffer.
	ExternalOwnership bool
	// ExternalBackingPtr is the caller-owned memory RegisterExternal
	// adopts when ExternalOwnership is set; ignored otherwise.
	ExternalBackingPtr uintptr
}

func (o CreateOptions) flags() Flags {
	var f Flags
	if o.Persistent || o.HistoryBuffer {
		f |= FlagPersistent
	}
	if o.HistoryBuffer {
		f |= FlagHistoryBuffer
	}
	if o.WindowHandle {
		f |= FlagWindowHandle
	}
	if o.ExternalOwnership {
		f |= FlagExternalOwnership
	}
	return f
}

// Core bundles the transient and persistent registries for every
// resource kind, the queue registry, and the transient-arena slot
// allocator, generalizing the teacher's Hub (one registry bundle per
// kind, here exposed through Create*/Dispose* methods) to this spec's
// dual transient+persistent shape per kind (§4).
type Core struct {
	Queues  *queue.Registry
	Manager *TransientRegistryManager
	backend Backend

	bufferTransient         [maxTransientArenas]*TransientFixedSizeRegistry
	textureTransient        [maxTransientArenas]*TransientFixedSizeRegistry
	argBufferTransient      [maxTransientArenas]*TransientChunkRegistry
	argBufferArrayTransient [maxTransientArenas]*TransientChunkRegistry

	bufferPersistent    *PersistentRegistry
	texturePersistent   *PersistentRegistry
	heapPersistent      *PersistentRegistry
	argBufPersistent    *PersistentRegistry
	argBufArrPersistent *PersistentRegistry
	accelStructReg      *PersistentRegistry
	vftPersistent       *PersistentRegistry
	iftPersistent       *PersistentRegistry
	hazardGroupReg      *PersistentRegistry

	hazardMu     sync.Mutex
	hazardGroups map[Handle]*HazardGroup

	heapMu   sync.Mutex
	heaps    map[Handle]*heapState
	arrMu    sync.Mutex
	arrState map[Handle]*argumentBufferArrayState
}

// Tuning constants for registry construction (§4.C: "chunk size 256,
// maxChunks varies per kind up to 2048 for large registries, 256 for
// argument buffers"). Transient fixed-size registries additionally
// need a hard per-frame capacity ceiling.
const (
	largeChunkCount   = 2048
	smallChunkCount   = 64
	argChunkCount     = 256
	fixedTransientCap = 8192
)

// NewCore constructs a Core with empty registries for every kind,
// backed by backend (NoopBackend if nil).
func NewCore(backend Backend) *Core {
	if backend == nil {
		backend = NoopBackend{}
	}
	c := &Core{
		Queues:       queue.NewRegistry(),
		Manager:      NewTransientRegistryManager(),
		backend:      backend,
		hazardGroups: make(map[Handle]*HazardGroup),
		heaps:        make(map[Handle]*heapState),
		arrState:     make(map[Handle]*argumentBufferArrayState),

		bufferPersistent:    NewPersistentRegistry(KindBuffer, backend, DefaultChunkSize, largeChunkCount),
		texturePersistent:   NewPersistentRegistry(KindTexture, backend, DefaultChunkSize, largeChunkCount),
		heapPersistent:      NewPersistentRegistry(KindHeap, backend, DefaultChunkSize, smallChunkCount),
		argBufPersistent:    NewPersistentRegistry(KindArgumentBuffer, backend, DefaultChunkSize, argChunkCount),
		argBufArrPersistent: NewPersistentRegistry(KindArgumentBufferArray, backend, DefaultChunkSize, argChunkCount),
		accelStructReg:      NewPersistentRegistry(KindAccelerationStructure, backend, DefaultChunkSize, smallChunkCount),
		vftPersistent:       NewPersistentRegistry(KindVisibleFunctionTable, backend, DefaultChunkSize, smallChunkCount),
		iftPersistent:       NewPersistentRegistry(KindIntersectionFunctionTable, backend, DefaultChunkSize, smallChunkCount),
		hazardGroupReg:      NewPersistentRegistry(KindHazardTrackingGroup, backend, DefaultChunkSize, smallChunkCount),
	}
	for i := range c.bufferTransient {
		c.bufferTransient[i] = NewTransientFixedSizeRegistry(KindBuffer, fixedTransientCap)
		c.textureTransient[i] = NewTransientFixedSizeRegistry(KindTexture, fixedTransientCap)
		c.argBufferTransient[i] = NewTransientChunkRegistry(KindArgumentBuffer, DefaultChunkSize, argChunkCount)
		c.argBufferArrayTransient[i] = NewTransientChunkRegistry(KindArgumentBufferArray, DefaultChunkSize, argChunkCount)
	}
	return c
}

// createTransient is the shared allocate+initialize path for any kind
// eligible for transient allocation (§4.C).
func createTransient(reg transientRegistry, arena uint8, flags Flags, label string, desc any, tp TransientProperties) Handle {
	h := reg.AllocateHandle(arena, flags)
	reg.Initialize(h, NewSharedProperties(label, desc), tp)
	trackAllocation(h, label)
	return h
}

// createPersistent is the shared allocate+initialize+materialize path
// for any resource kind, persistent or persistent-only (§4.C, §4.G).
func (c *Core) createPersistent(reg *PersistentRegistry, desc validatable, flags Flags, opts CreateOptions) (Resource, error) {
	if err := desc.Validate(); err != nil {
		return Resource{}, err
	}
	h := reg.AllocateHandle(flags)
	reg.Initialize(h, NewSharedProperties(opts.Label, desc), opts.Heap)
	res := From(c, h)

	if opts.ExternalOwnership {
		c.backend.RegisterExternal(res, opts.ExternalBackingPtr)
	} else if !c.backend.MaterializePersistent(res) {
		reg.Dispose(h)
		return Resource{}, &ValidationError{Resource: h.Type().String(), Message: "backend materialization failed"}
	}
	reg.PersistentProperties(int(h.Index())).SetInitialised(true)
	if !opts.Heap.IsZero() {
		c.addHeapChild(opts.Heap, h)
	}
	trackAllocation(h, opts.Label)
	return res, nil
}

// CreateBuffer allocates a Buffer, transient or persistent per opts
// (§3.2, §6).
func (c *Core) CreateBuffer(desc *BufferDescriptor, opts CreateOptions) (Resource, error) {
	if err := desc.Validate(); err != nil {
		return Resource{}, err
	}
	if opts.Persistent || opts.HistoryBuffer {
		return c.createPersistent(c.bufferPersistent, desc, opts.flags(), opts)
	}
	h := createTransient(c.bufferTransient[opts.ArenaSlot], opts.ArenaSlot, opts.flags(), opts.Label, desc, TransientProperties{})
	return From(c, h), nil
}

// CreateTexture allocates a Texture, transient or persistent per opts
// (§3.2, §6).
func (c *Core) CreateTexture(desc *TextureDescriptor, opts CreateOptions) (Resource, error) {
	if err := desc.Validate(); err != nil {
		return Resource{}, err
	}
	if opts.Persistent || opts.HistoryBuffer {
		if desc.StorageMode == StorageModeMemoryless {
			return Resource{}, &ValidationError{Resource: "Texture", Field: "StorageMode", Message: "memoryless storage may only back a transient attachment, never a persistent resource"}
		}
		return c.createPersistent(c.texturePersistent, desc, opts.flags(), opts)
	}
	h := createTransient(c.textureTransient[opts.ArenaSlot], opts.ArenaSlot, opts.flags(), opts.Label, desc, TransientProperties{})
	return From(c, h), nil
}

// CreateTextureView creates a transient reinterpretation view over an
// existing resource's storage (§6, S5). base may be a Buffer or a
// Texture; the view itself is always allocated from the texture
// transient registry, since a view's shape is always texture-like.
func (c *Core) CreateTextureView(base Handle, desc *TextureViewDescriptor, opts CreateOptions) (Resource, error) {
	if base.IsZero() {
		return Resource{}, ErrInvalidHandle
	}
	baseShared := c.sharedProperties(base)
	if baseShared == nil {
		return Resource{}, ErrInvalidHandle
	}

	flags := opts.flags() | FlagResourceView
	tp := TransientProperties{ViewOf: base, ViewDescriptor: desc}
	h := createTransient(c.textureTransient[opts.ArenaSlot], opts.ArenaSlot, flags, opts.Label, desc, tp)

	hint := UsageHintTextureView
	if viewFormatDiffers(baseShared.Descriptor, desc.Format) {
		hint |= UsageHintPixelFormatView
	}
	addUsageHint(baseShared.Descriptor, hint)

	return From(c, h), nil
}

// viewFormatDiffers reports whether desc's format differs from base's
// own format (always true for a buffer base, which has no format of
// its own to match).
func viewFormatDiffers(baseDescriptor any, format PixelFormat) bool {
	if t, ok := baseDescriptor.(*TextureDescriptor); ok {
		return t.Format != format
	}
	return true
}

// addUsageHint ORs hint into desc's UsageHint field, if desc is a
// kind that carries one.
func addUsageHint(desc any, hint UsageHint) {
	switch d := desc.(type) {
	case *BufferDescriptor:
		d.UsageHint |= hint
	case *TextureDescriptor:
		d.UsageHint |= hint
	}
}

// CreateArgumentBuffer allocates an ArgumentBuffer, transient or
// persistent per opts (§3.2, §6).
func (c *Core) CreateArgumentBuffer(desc *ArgumentBufferDescriptor, opts CreateOptions) (Resource, error) {
	if err := desc.Validate(); err != nil {
		return Resource{}, err
	}
	desc.Layout()
	if opts.Persistent || opts.HistoryBuffer {
		return c.createPersistent(c.argBufPersistent, desc, opts.flags(), opts)
	}
	h := createTransient(c.argBufferTransient[opts.ArenaSlot], opts.ArenaSlot, opts.flags(), opts.Label, desc, TransientProperties{})
	return From(c, h), nil
}

// CreateArgumentBufferArray allocates an ArgumentBufferArray,
// transient or persistent per opts (§3.2, §6).
func (c *Core) CreateArgumentBufferArray(desc *ArgumentBufferArrayDescriptor, opts CreateOptions) (Resource, error) {
	if err := desc.Validate(); err != nil {
		return Resource{}, err
	}
	var h Handle
	if opts.Persistent || opts.HistoryBuffer {
		res, err := c.createPersistent(c.argBufArrPersistent, desc, opts.flags(), opts)
		if err != nil {
			return Resource{}, err
		}
		h = res.Handle
	} else {
		h = createTransient(c.argBufferArrayTransient[opts.ArenaSlot], opts.ArenaSlot, opts.flags(), opts.Label, desc, TransientProperties{})
	}

	c.arrMu.Lock()
	c.arrState[h] = newArgumentBufferArrayState(int(desc.Length))
	c.arrMu.Unlock()
	return From(c, h), nil
}

// CreateHeap allocates a persistent Heap (§3.2; heaps are always
// persistent per the Open Question decision in DESIGN.md).
func (c *Core) CreateHeap(desc *HeapDescriptor, opts CreateOptions) (Resource, error) {
	opts.Persistent = true
	return c.createPersistent(c.heapPersistent, desc, opts.flags(), opts)
}

// CreateAccelerationStructure allocates a persistent acceleration
// structure (§3.2).
func (c *Core) CreateAccelerationStructure(desc *AccelerationStructureDescriptor, opts CreateOptions) (Resource, error) {
	opts.Persistent = true
	return c.createPersistent(c.accelStructReg, desc, opts.flags(), opts)
}

// CreateVisibleFunctionTable allocates a persistent visible function
// table (§3.2).
func (c *Core) CreateVisibleFunctionTable(desc *VisibleFunctionTableDescriptor, opts CreateOptions) (Resource, error) {
	opts.Persistent = true
	return c.createPersistent(c.vftPersistent, desc, opts.flags(), opts)
}

// CreateIntersectionFunctionTable allocates a persistent intersection
// function table (§3.2).
func (c *Core) CreateIntersectionFunctionTable(desc *IntersectionFunctionTableDescriptor, opts CreateOptions) (Resource, error) {
	opts.Persistent = true
	return c.createPersistent(c.iftPersistent, desc, opts.flags(), opts)
}

// CreateHazardTrackingGroup allocates a persistent hazard-tracking
// group (§3.2, §4.E).
func (c *Core) CreateHazardTrackingGroup(desc *HazardTrackingGroupDescriptor, opts CreateOptions) (Resource, error) {
	opts.Persistent = true
	res, err := c.createPersistent(c.hazardGroupReg, desc, opts.flags(), opts)
	if err != nil {
		return Resource{}, err
	}
	c.hazardMu.Lock()
	c.hazardGroups[res.Handle] = NewHazardGroup(desc.MemberKind)
	c.hazardMu.Unlock()
	return res, nil
}

// AssignHazardGroup assigns member to the hazard-tracking group
// identified by group (§4.E).
func (c *Core) AssignHazardGroup(group, member Handle) {
	c.hazardMu.Lock()
	g := c.hazardGroups[group]
	c.hazardMu.Unlock()
	if g == nil {
		fatalErr(fmt.Errorf("%w: unknown hazard-tracking group %s", ErrResourceNotFound, group))
	}
	shared := c.sharedProperties(member)
	if shared == nil {
		fatalErr(fmt.Errorf("%w: unknown hazard-tracking group member %s", ErrResourceNotFound, member))
	}
	g.Assign(shared, group, member)
}

// HazardGroupMembers returns a snapshot of group's current membership.
func (c *Core) HazardGroupMembers(group Handle) []Handle {
	c.hazardMu.Lock()
	g := c.hazardGroups[group]
	c.hazardMu.Unlock()
	if g == nil {
		return nil
	}
	return g.Members()
}

// heapState tracks the child resources owned by one heap, torn down
// exactly once regardless of how many goroutines call DisposeHeap
// concurrently.
type heapState struct {
	mu       sync.Mutex
	children []Handle
	disposed bool
}

func (c *Core) addHeapChild(heap, child Handle) {
	c.heapMu.Lock()
	hs, ok := c.heaps[heap]
	if !ok {
		hs = &heapState{}
		c.heaps[heap] = hs
	}
	c.heapMu.Unlock()

	hs.mu.Lock()
	if !hs.disposed {
		hs.children = append(hs.children, child)
	}
	hs.mu.Unlock()
}

// DisposeHeap disposes every child resource of heap, then heap itself.
func (c *Core) DisposeHeap(heap Handle) {
	c.heapMu.Lock()
	hs, ok := c.heaps[heap]
	c.heapMu.Unlock()

	if ok {
		hs.mu.Lock()
		children := hs.children
		hs.children = nil
		hs.disposed = true
		hs.mu.Unlock()

		for _, child := range children {
			From(c, child).Dispose()
		}
	}
	c.dispose(heap)
}

// argumentBufferArrayState tracks one ArgumentBufferArray's per-slot
// element bindings, mutated in place (Replace) up until the array is
// disposed (Snatch), per §4.E's snatch pattern reuse.
type argumentBufferArrayState struct {
	lock     *SnatchLock
	bindings *Snatchable[[]Handle]
}

func newArgumentBufferArrayState(length int) *argumentBufferArrayState {
	return &argumentBufferArrayState{
		lock:     NewSnatchLock(),
		bindings: NewSnatchable(make([]Handle, length)),
	}
}

// SetArrayBinding updates element index of array's bindings to h,
// without rebuilding the rest of the array (§3.2).
func (c *Core) SetArrayBinding(array Handle, index int, h Handle) {
	c.arrMu.Lock()
	st := c.arrState[array]
	c.arrMu.Unlock()
	if st == nil {
		return
	}

	guard := st.lock.Write()
	defer guard.Release()
	cur := st.bindings.Get(guard)
	if cur == nil {
		return // already disposed
	}
	next := append([]Handle(nil), *cur...)
	next[index] = h
	st.bindings.Replace(guard, next)
}

// ArrayBindings returns a snapshot of array's current element
// bindings, or nil if array has been disposed.
func (c *Core) ArrayBindings(array Handle) []Handle {
	c.arrMu.Lock()
	st := c.arrState[array]
	c.arrMu.Unlock()
	if st == nil {
		return nil
	}
	guard := st.lock.Read()
	defer guard.Release()
	cur := st.bindings.Get(guard)
	if cur == nil {
		return nil
	}
	out := append([]Handle(nil), *cur...)
	return out
}

// DisposeArray tears down array's bindings (a one-time Snatch,
// §4.E) and disposes the array handle itself. Bindings owned by the
// array are exclusive and torn down with it (§9 Open Question
// decision: conservative binding-exclusivity contract).
func (c *Core) DisposeArray(array Handle) {
	c.arrMu.Lock()
	st := c.arrState[array]
	delete(c.arrState, array)
	c.arrMu.Unlock()

	if st != nil {
		guard := st.lock.Write()
		bindings := st.bindings.Snatch(guard)
		guard.Release()
		if bindings != nil {
			for _, b := range *bindings {
				if !b.IsZero() {
					From(c, b).Dispose()
				}
			}
		}
	}

	c.dispose(array)
}

// --- dispatch helpers backing the Resource facade (resource.go) ---

func (c *Core) isValid(h Handle) bool {
	return c.dispatchValid(h)
}

func (c *Core) dispatchValid(h Handle) bool {
	if t, ok := c.transientRegistryFor(h); ok {
		return t.isValid(h)
	}
	if p := c.persistentRegistryFor(h.Type()); p != nil {
		return p.IsValid(h)
	}
	return false
}

func (c *Core) label(h Handle) string {
	if t, ok := c.transientRegistryFor(h); ok {
		return t.label(h)
	}
	if p := c.persistentRegistryFor(h.Type()); p != nil {
		return p.Label(int(h.Index()))
	}
	return ""
}

func (c *Core) sharedProperties(h Handle) *SharedProperties {
	if t, ok := c.transientRegistryFor(h); ok {
		return t.sharedProperties(h)
	}
	if p := c.persistentRegistryFor(h.Type()); p != nil {
		return p.SharedProperties(int(h.Index()))
	}
	return nil
}

func (c *Core) transientProperties(h Handle) *TransientProperties {
	t, ok := c.transientRegistryFor(h)
	if !ok {
		return nil
	}
	return t.transientProperties(h)
}

func (c *Core) persistentProperties(h Handle) *PersistentProperties {
	if !h.HandleFlags().Has(FlagPersistent) {
		return nil
	}
	p := c.persistentRegistryFor(h.Type())
	if p == nil {
		return nil
	}
	return p.PersistentProperties(int(h.Index()))
}

func (c *Core) waitIndices(h Handle) *queue.WaitIndices {
	p := c.persistentRegistryFor(h.Type())
	if p == nil {
		return nil
	}
	return p.WaitIndices(int(h.Index()))
}

func (c *Core) dispose(h Handle) {
	if !h.HandleFlags().Has(FlagPersistent) {
		return
	}
	if p := c.persistentRegistryFor(h.Type()); p != nil {
		untrackAllocation(h)
		p.Dispose(h)
	}
	// Transient resources are reclaimed in bulk by Clear; nothing to do.
}

// UpdatePurgeableState transitions h's backing memory's purgeable
// state and returns the state it was in immediately before the call
// (§4.G, §6). A transition into PurgeableDiscarded, or out of it,
// clears StateInitialised: the resource's contents are no longer
// assumed valid until the caller re-initializes it, mirroring the
// destructive-transition rule for update_purgeable_state.
func (c *Core) UpdatePurgeableState(h Handle, to PurgeableState) PurgeableState {
	props := c.persistentProperties(h)
	if props == nil || !c.isValid(h) {
		fatal("rescore: UpdatePurgeableState on a non-persistent or invalid resource %s", h)
	}
	prev := c.backend.UpdatePurgeableState(From(c, h), to)
	if to == PurgeableDiscarded || prev == PurgeableDiscarded {
		props.SetInitialised(false)
	}
	return prev
}

// MarkUsedByRenderGraph records that render graph slot is using h,
// recursing into h's base resource (if h is a view) and owning heap
// (if any), per §4.D: "mark_as_used(graph_mask) ... recursively marks
// the base resource (for views) and owning heap."
func (c *Core) MarkUsedByRenderGraph(h Handle, slot int) {
	if h.IsZero() {
		return
	}
	if props := c.persistentProperties(h); props != nil {
		props.MarkUsedByRenderGraph(slot)
		if !props.Heap.IsZero() {
			c.MarkUsedByRenderGraph(props.Heap, slot)
		}
	}
	if tp := c.transientProperties(h); tp != nil && !tp.ViewOf.IsZero() {
		c.MarkUsedByRenderGraph(tp.ViewOf, slot)
	}
}

// ClearAfterRenderGraph runs every persistent registry's
// clear-after-render-graph step for render graph slot q (§4.C, §4.G:
// "Scheduler calls clear_after_render_graph(queue) when a render
// graph on queue finishes").
func (c *Core) ClearAfterRenderGraph(q int) {
	for _, reg := range c.allPersistentRegistries() {
		reg.ClearAfterRenderGraph(q)
	}
}

// ClearTransientArena resets every transient-eligible kind's registry
// in arena slot i, for use when a render graph using that slot
// finishes (§4.B, §4.C).
func (c *Core) ClearTransientArena(i uint8) {
	c.bufferTransient[i].Clear()
	c.textureTransient[i].Clear()
	c.argBufferTransient[i].Clear()
	c.argBufferArrayTransient[i].Clear()

	if debugMode.Load() {
		leakTracker.mu.Lock()
		for h := range leakTracker.resources {
			if !h.HandleFlags().Has(FlagPersistent) && h.Arena() == i {
				delete(leakTracker.resources, h)
			}
		}
		leakTracker.mu.Unlock()
	}
}

func (c *Core) allPersistentRegistries() []*PersistentRegistry {
	return []*PersistentRegistry{
		c.bufferPersistent, c.texturePersistent, c.heapPersistent,
		c.argBufPersistent, c.argBufArrPersistent, c.accelStructReg,
		c.vftPersistent, c.iftPersistent, c.hazardGroupReg,
	}
}

// transientView adapts both transient registry shapes to the small
// set of read accessors the facade dispatch needs.
type transientView interface {
	isValid(Handle) bool
	label(Handle) string
	sharedProperties(Handle) *SharedProperties
	transientProperties(Handle) *TransientProperties
}

type fixedTransientView struct{ r *TransientFixedSizeRegistry }

func (v fixedTransientView) isValid(h Handle) bool         { return v.r.IsValid(h) }
func (v fixedTransientView) label(h Handle) string         { return v.r.Label(int(h.Index())) }
func (v fixedTransientView) sharedProperties(h Handle) *SharedProperties {
	return v.r.SharedProperties(int(h.Index()))
}
func (v fixedTransientView) transientProperties(h Handle) *TransientProperties {
	return v.r.TransientProperties(int(h.Index()))
}

type chunkedTransientView struct{ r *TransientChunkRegistry }

func (v chunkedTransientView) isValid(h Handle) bool { return v.r.IsValid(h) }
func (v chunkedTransientView) label(h Handle) string { return v.r.Label(int(h.Index())) }
func (v chunkedTransientView) sharedProperties(h Handle) *SharedProperties {
	return v.r.SharedProperties(int(h.Index()))
}
func (v chunkedTransientView) transientProperties(h Handle) *TransientProperties {
	return v.r.TransientProperties(int(h.Index()))
}

func (c *Core) transientRegistryFor(h Handle) (transientView, bool) {
	if h.HandleFlags().Has(FlagPersistent) {
		return nil, false
	}
	arena := h.Arena()
	switch h.Type() {
	case KindBuffer:
		return fixedTransientView{c.bufferTransient[arena]}, true
	case KindTexture:
		return fixedTransientView{c.textureTransient[arena]}, true
	case KindArgumentBuffer:
		return chunkedTransientView{c.argBufferTransient[arena]}, true
	case KindArgumentBufferArray:
		return chunkedTransientView{c.argBufferArrayTransient[arena]}, true
	default:
		return nil, false
	}
}

func (c *Core) persistentRegistryFor(k Kind) *PersistentRegistry {
	switch k {
	case KindBuffer:
		return c.bufferPersistent
	case KindTexture:
		return c.texturePersistent
	case KindHeap:
		return c.heapPersistent
	case KindArgumentBuffer:
		return c.argBufPersistent
	case KindArgumentBufferArray:
		return c.argBufArrPersistent
	case KindAccelerationStructure:
		return c.accelStructReg
	case KindVisibleFunctionTable:
		return c.vftPersistent
	case KindIntersectionFunctionTable:
		return c.iftPersistent
	case KindHazardTrackingGroup:
		return c.hazardGroupReg
	default:
		return nil
	}
}

// ResourceCounts reports the number of live persistent resources per
// kind, mirroring the teacher's Hub.ResourceCounts() diagnostic.
func (c *Core) ResourceCounts() map[Kind]int {
	counts := make(map[Kind]int)
	for _, reg := range c.allPersistentRegistries() {
		reg.mu.Lock()
		live := int(reg.nextFreeIndex) - len(reg.freeIndices)
		reg.mu.Unlock()
		counts[reg.kind] = live
	}
	return counts
}
