package rescore

// StorageMode selects where a resource's backing memory lives and how
// the CPU may access it (§3.2).
type StorageMode uint8

const (
	// StorageModePrivate is GPU-only memory; the CPU cannot map it.
	StorageModePrivate StorageMode = iota
	// StorageModeShared is CPU- and GPU-visible memory.
	StorageModeShared
	// StorageModeManaged is a CPU/GPU-synchronized pair (unified memory
	// architectures may treat this the same as Shared).
	StorageModeManaged
	// StorageModeMemoryless is transient tile/on-chip memory valid only
	// for the duration of a single render pass. Core.CreateTexture
	// rejects it for a persistent texture; buffers are not checked.
	StorageModeMemoryless
)

// CacheMode hints at CPU cache behavior for shared/managed storage.
type CacheMode uint8

const (
	// CacheModeDefaultCache is the normal write-back CPU cache mode.
	CacheModeDefaultCache CacheMode = iota
	// CacheModeWriteCombined favors CPU-write-only access patterns.
	CacheModeWriteCombined
)

// maxTextureDimension bounds Width/Height/Depth/ArrayLength (§3.2 edge
// case: dimensions must be validated, not trusted from the caller).
const maxTextureDimension = 16384

// UsageHint records additional ways a resource's storage is known to
// be referenced, beyond its own descriptor (§6, S5). A view created
// over a buffer or texture retroactively sets bits here on the base
// resource's descriptor so later validation can see that the base
// storage backs at least one view.
type UsageHint uint8

const (
	// UsageHintTextureView marks that some transient texture view has
	// been created over this resource's storage.
	UsageHintTextureView UsageHint = 1 << iota
	// UsageHintPixelFormatView marks that a view was created with a
	// PixelFormat value not equal to the base texture's own format, or
	// over a buffer base. Formats are compared by value only; channel
	// count and bytes per pixel are not consulted.
	UsageHintPixelFormatView
)

// BufferDescriptor describes the creation parameters of a Buffer
// (§3.2). Eligible for transient allocation (§4.B).
type BufferDescriptor struct {
	Length      uint64
	StorageMode StorageMode
	CacheMode   CacheMode
	UsageHint   UsageHint
}

// Validate reports a ValidationError if the descriptor is malformed.
func (d *BufferDescriptor) Validate() error {
	if d.Length == 0 {
		return &ValidationError{Resource: "Buffer", Field: "Length", Message: "must be non-zero"}
	}
	return nil
}

// TextureType names the dimensionality and array-ness of a texture.
type TextureType uint8

const (
	TextureType1D TextureType = iota
	TextureType2D
	TextureType2DArray
	TextureType3D
	TextureTypeCube
	TextureTypeCubeArray
)

// PixelFormat identifies a texel layout. rescore does not enumerate a
// full pixel-format table (that belongs to the backend's capability
// surface, out of scope here per spec.md Non-goals); it only needs an
// opaque, comparable identifier a backend can interpret. A handful of
// values are named here only so tests and example code have something
// concrete to pass; a real backend is expected to define its own.
type PixelFormat uint32

const (
	PixelFormatUnspecified PixelFormat = iota
	PixelFormatRGBA8Unorm
	PixelFormatBGRA8Unorm
	PixelFormatDepth32Float
)

// TextureDescriptor describes the creation parameters of a Texture
// (§3.2). Eligible for transient allocation (§4.B).
type TextureDescriptor struct {
	Type        TextureType
	Format      PixelFormat
	Width       uint32
	Height      uint32
	Depth       uint32 // 1 for non-3D textures
	MipLevels   uint32 // >= 1
	ArrayLength uint32 // 1 for non-array textures
	SampleCount uint32 // 1 for non-multisampled textures
	StorageMode StorageMode
	CacheMode   CacheMode
	UsageHint   UsageHint
}

// Validate reports a ValidationError if any dimension is zero or
// exceeds maxTextureDimension (§3.2 edge case).
func (d *TextureDescriptor) Validate() error {
	check := func(field string, v uint32) error {
		if v == 0 {
			return &ValidationError{Resource: "Texture", Field: field, Message: "must be at least 1"}
		}
		if v > maxTextureDimension {
			return &ValidationError{Resource: "Texture", Field: field, Message: "exceeds maximum texture dimension"}
		}
		return nil
	}
	if err := check("Width", d.Width); err != nil {
		return err
	}
	if err := check("Height", d.Height); err != nil {
		return err
	}
	if err := check("Depth", d.Depth); err != nil {
		return err
	}
	if err := check("MipLevels", d.MipLevels); err != nil {
		return err
	}
	if err := check("ArrayLength", d.ArrayLength); err != nil {
		return err
	}
	if err := check("SampleCount", d.SampleCount); err != nil {
		return err
	}
	return nil
}

// TextureViewDescriptor describes a reinterpretation of an existing
// texture's storage under a different format, type, mip range or
// array-slice range (§3.2, §4.B transient views).
type TextureViewDescriptor struct {
	Format     PixelFormat
	ViewType   TextureType
	MipRange   [2]uint32 // [first, count]
	SliceRange [2]uint32 // [first, count]
}

// HeapType selects the allocation strategy a Heap uses for its child
// resources.
type HeapType uint8

const (
	// HeapTypeAutomatic lets the backend place resources as it sees fit.
	HeapTypeAutomatic HeapType = iota
	// HeapTypePlacement requires the caller to supply explicit offsets.
	HeapTypePlacement
)

// HeapDescriptor describes the creation parameters of a Heap (§3.2).
// Persistent-only (§4.C expansion: heaps are never transient).
type HeapDescriptor struct {
	Size        uint64
	Type        HeapType
	StorageMode StorageMode
	CacheMode   CacheMode
}

// Validate reports a ValidationError if the descriptor is malformed.
func (d *HeapDescriptor) Validate() error {
	if d.Size == 0 {
		return &ValidationError{Resource: "Heap", Field: "Size", Message: "must be non-zero"}
	}
	return nil
}

// ArgumentAccess describes how a shader will access one argument
// slot within an argument buffer.
type ArgumentAccess uint8

const (
	ArgumentAccessReadOnly ArgumentAccess = iota
	ArgumentAccessReadWrite
)

// ArgumentVariant names what kind of thing is bound at an argument
// slot (§3.2: "resource_kind variant"). This is a separate enumeration
// from Kind: an argument buffer can reference a sampler, which is
// never a registry resource in its own right, and can also embed raw
// bytes (ArgumentVariantInlineData) with no backing resource at all.
type ArgumentVariant uint8

const (
	ArgumentVariantBuffer ArgumentVariant = iota
	ArgumentVariantTexture
	ArgumentVariantSampler
	ArgumentVariantAccelerationStructure
	// ArgumentVariantInlineData embeds InlineSize bytes directly in the
	// argument buffer rather than referencing another resource.
	ArgumentVariantInlineData
)

// argumentReferenceSize is the encoded size of a GPU resource
// reference (an address or descriptor index) bound at a non-inline
// argument slot, regardless of which variant it references.
const argumentReferenceSize = 8

// ArgumentDescriptor describes one bound resource within an
// ArgumentBufferDescriptor (§3.2, §6, S6).
type ArgumentDescriptor struct {
	Variant ArgumentVariant
	Access  ArgumentAccess

	// ArrayLength is 1 for a scalar binding, >1 for an array-of-resources binding.
	// Zero is treated the same as 1.
	ArrayLength uint32

	// InlineSize is the byte size of an ArgumentVariantInlineData slot.
	// Ignored for every other variant.
	InlineSize uint64

	// Align overrides this slot's encoded_offset alignment (e.g. a
	// constant buffer aligned to 256 bytes). Zero means "use the
	// variant's default": argumentReferenceSize for a resource
	// reference, InlineSize for inline data.
	Align uint64

	// SlotIndex is the shader-visible binding index. Left zero and
	// ExplicitIndex false, Layout auto-assigns it in declaration order,
	// accounting for the array length each preceding argument consumed
	// (S6: indices {0, 1, 2..9} for a scalar, scalar, then length-8
	// array). Set both SlotIndex and ExplicitIndex to pin an index
	// instead; explicit indices across one descriptor must still come
	// out strictly ascending once auto-assigned ones are interleaved.
	SlotIndex     uint32
	ExplicitIndex bool

	// EncodedOffset and EncodedStride are filled in by
	// (*ArgumentBufferDescriptor).Layout and are not set by the caller.
	EncodedOffset uint64
	EncodedStride uint64
}

// alignment returns the byte boundary this argument's encoded_offset
// must land on.
func (a *ArgumentDescriptor) alignment() uint64 {
	if a.Align != 0 {
		return a.Align
	}
	if a.Variant == ArgumentVariantInlineData {
		return a.InlineSize
	}
	return argumentReferenceSize
}

// elementStride returns the per-array-element encoded size: InlineSize
// for inline data, otherwise a GPU resource reference, widened to
// Align if the caller asked for a larger one.
func (a *ArgumentDescriptor) elementStride() uint64 {
	if a.Variant == ArgumentVariantInlineData {
		return a.InlineSize
	}
	stride := uint64(argumentReferenceSize)
	if a.Align > stride {
		stride = a.Align
	}
	return stride
}

// ArgumentBufferDescriptor describes the layout of an argument buffer
// (§3.2, §6). Eligible for transient allocation (§4.B).
type ArgumentBufferDescriptor struct {
	Arguments   []ArgumentDescriptor
	StorageMode StorageMode
}

// Layout computes each argument's SlotIndex (where not pinned by
// ExplicitIndex), EncodedOffset and EncodedStride in declaration
// order, and returns the total encoded buffer length: the final
// argument's offset plus its stride times its array length (S6).
// Each argument's offset is aligned to that argument's own stride,
// not a single buffer-wide boundary — a length-4 inline payload packs
// at offset 0, a 256-byte-aligned constant buffer at the next
// 256-byte boundary, and so on.
func (d *ArgumentBufferDescriptor) Layout() uint64 {
	var offset uint64
	var nextIndex uint32
	for i := range d.Arguments {
		arg := &d.Arguments[i]
		arrayLen := arg.ArrayLength
		if arrayLen == 0 {
			arrayLen = 1
		}

		start := nextIndex
		if arg.ExplicitIndex {
			start = arg.SlotIndex
		}
		arg.SlotIndex = start
		nextIndex = start + arrayLen

		align := arg.alignment()
		stride := arg.elementStride()
		arg.EncodedOffset = alignUp(offset, align)
		arg.EncodedStride = stride
		offset = arg.EncodedOffset + stride*uint64(arrayLen)
	}
	return offset
}

func alignUp(v, align uint64) uint64 {
	if align == 0 {
		return v
	}
	return (v + align - 1) / align * align
}

// Validate reports a ValidationError if the descriptor is malformed:
// it must declare at least one argument, every ArgumentVariantInlineData
// slot must carry a non-zero InlineSize, and explicit slot indices must
// come out strictly ascending in declaration order (§3.2: "indices
// must be strictly ascending").
func (d *ArgumentBufferDescriptor) Validate() error {
	if len(d.Arguments) == 0 {
		return &ValidationError{Resource: "ArgumentBuffer", Field: "Arguments", Message: "must declare at least one argument"}
	}
	var lastIndex uint32
	haveLast := false
	for i := range d.Arguments {
		arg := &d.Arguments[i]
		if arg.Variant == ArgumentVariantInlineData && arg.InlineSize == 0 {
			return &ValidationError{Resource: "ArgumentBuffer", Field: "Arguments[*].InlineSize", Message: "inline-data arguments must declare a non-zero size"}
		}
		if !arg.ExplicitIndex {
			continue
		}
		if haveLast && arg.SlotIndex <= lastIndex {
			return &ValidationError{Resource: "ArgumentBuffer", Field: "Arguments[*].SlotIndex", Message: "explicit slot indices must be strictly ascending"}
		}
		lastIndex = arg.SlotIndex
		haveLast = true
	}
	return nil
}

// ArgumentBufferArrayDescriptor describes an array of argument-buffer
// bindings that can be updated per-element without rebuilding the
// whole array (§3.2, §6).
type ArgumentBufferArrayDescriptor struct {
	Length uint32
}

// Validate reports a ValidationError if the descriptor is malformed.
func (d *ArgumentBufferArrayDescriptor) Validate() error {
	if d.Length == 0 {
		return &ValidationError{Resource: "ArgumentBufferArray", Field: "Length", Message: "must be non-zero"}
	}
	return nil
}

// AccelerationStructureDescriptor describes the creation parameters of
// a ray tracing acceleration structure (§3.2). Persistent-only.
type AccelerationStructureDescriptor struct {
	ByteSize uint64
}

// Validate reports a ValidationError if the descriptor is malformed.
func (d *AccelerationStructureDescriptor) Validate() error {
	if d.ByteSize == 0 {
		return &ValidationError{Resource: "AccelerationStructure", Field: "ByteSize", Message: "must be non-zero"}
	}
	return nil
}

// FunctionDescriptor identifies one shader entry point a function
// table may reference.
type FunctionDescriptor struct {
	Name string
}

// VisibleFunctionTableDescriptor describes the creation parameters of
// a visible function table (§3.2). Persistent-only. Functions may
// contain nil entries for unbound slots.
type VisibleFunctionTableDescriptor struct {
	Functions []*FunctionDescriptor
}

// IntersectionFunctionTableDescriptor describes the creation
// parameters of an intersection function table (§3.2). Persistent-only.
type IntersectionFunctionTableDescriptor struct {
	Functions []*FunctionDescriptor
}

// HazardTrackingGroupDescriptor describes the creation of a hazard
// tracking group (§3.2, §4.E). MemberKind constrains which resource
// kind may join the group; a group never mixes kinds.
type HazardTrackingGroupDescriptor struct {
	MemberKind Kind
}

// Validate reports a ValidationError if the descriptor is malformed.
func (d *HazardTrackingGroupDescriptor) Validate() error {
	return nil
}

// Validate reports a ValidationError if the descriptor is malformed.
func (d *VisibleFunctionTableDescriptor) Validate() error {
	return nil
}

// Validate reports a ValidationError if the descriptor is malformed.
func (d *IntersectionFunctionTableDescriptor) Validate() error {
	return nil
}
