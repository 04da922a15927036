package wire

// PointerKind is the 2-bit tag that identifies what a WirePointer refers
// to.
type PointerKind uint8

const (
	KindStruct   PointerKind = 0
	KindList     PointerKind = 1
	KindFar      PointerKind = 2
	KindReserved PointerKind = 3
)

func (k PointerKind) String() string {
	switch k {
	case KindStruct:
		return "STRUCT"
	case KindList:
		return "LIST"
	case KindFar:
		return "FAR"
	case KindReserved:
		return "RESERVED"
	default:
		return "UNKNOWN"
	}
}

// ElementSize identifies the element stride of a LIST pointer. It occupies
// 3 bits of the pointer's upper word.
type ElementSize uint8

const (
	SizeVoid ElementSize = iota
	SizeBit
	SizeByte
	SizeTwoBytes
	SizeFourBytes
	SizeEightBytes
	SizePointer
	SizeInlineComposite
)

// BitsPerElement returns the encoded element width in bits for every
// ElementSize except SizeInlineComposite, whose stride is determined by
// the tag word rather than the pointer itself.
func (e ElementSize) BitsPerElement() int {
	switch e {
	case SizeVoid:
		return 0
	case SizeBit:
		return 1
	case SizeByte:
		return 8
	case SizeTwoBytes:
		return 16
	case SizeFourBytes:
		return 32
	case SizeEightBytes:
		return 64
	case SizePointer:
		return BitsPerPointer
	default:
		return -1
	}
}

func (e ElementSize) String() string {
	switch e {
	case SizeVoid:
		return "VOID"
	case SizeBit:
		return "BIT"
	case SizeByte:
		return "BYTE"
	case SizeTwoBytes:
		return "TWO_BYTES"
	case SizeFourBytes:
		return "FOUR_BYTES"
	case SizeEightBytes:
		return "EIGHT_BYTES"
	case SizePointer:
		return "POINTER"
	case SizeInlineComposite:
		return "INLINE_COMPOSITE"
	default:
		return "UNKNOWN"
	}
}

const (
	kindMask       = 0x3
	offsetBits     = 30
	offsetSignBit  = 1 << (offsetBits - 1)
	offsetMask     = uint64(1)<<offsetBits - 1
	isDoubleFarBit = 1 << 2
	farPosShift    = 3
	farPosMask     = uint64(1)<<29 - 1
	listSizeShift  = 3
	listSizeMask   = 0x7
	listCountMask  = uint64(1)<<29 - 1
)

// Pointer is a single 8-byte WirePointer, held in memory in its natural
// (already byte-order-resolved) uint64 form. Reading and writing it to a
// segment's bytes is the job of arena.Segment; Pointer itself only knows
// how to pack and unpack bit fields.
type Pointer uint64

// Null is the zero pointer: both 32-bit halves zero.
const Null Pointer = 0

// IsNull reports whether p is the null pointer.
func (p Pointer) IsNull() bool {
	return p == Null
}

// Kind returns the pointer's tag bits.
func (p Pointer) Kind() PointerKind {
	return PointerKind(p & kindMask)
}

// offset returns the raw signed 30-bit offset field shared by STRUCT and
// LIST pointers.
func (p Pointer) offset() int32 {
	raw := (uint64(p) >> 2) & offsetMask
	if raw&offsetSignBit != 0 {
		return int32(raw) - (1 << offsetBits)
	}

	return int32(raw)
}

// StructOffset returns the signed word offset of a STRUCT pointer, biased
// so that 0 means "immediately follows this pointer's word."
func (p Pointer) StructOffset() int32 {
	return p.offset()
}

// StructSize returns the data and pointer section sizes of a STRUCT
// pointer.
func (p Pointer) StructSize() ObjectSize {
	upper := uint64(p) >> 32

	return ObjectSize{
		DataWords:    uint16(upper & 0xFFFF),
		PointerCount: uint16((upper >> 16) & 0xFFFF),
	}
}

// NewStructPointer builds a STRUCT pointer with the given offset and
// section sizes.
func NewStructPointer(offset int32, sz ObjectSize) Pointer {
	return Pointer(encodeOffset(offset)) | Pointer(uint64(KindStruct)) |
		Pointer(uint64(sz.DataWords))<<32 | Pointer(uint64(sz.PointerCount))<<48
}

// ListOffset returns the signed word offset of a LIST pointer.
func (p Pointer) ListOffset() int32 {
	return p.offset()
}

// ListElementSize returns the element stride tag of a LIST pointer.
func (p Pointer) ListElementSize() ElementSize {
	upper := uint64(p) >> 32

	return ElementSize(upper & listSizeMask)
}

// ListElementCount returns the element count field of a LIST pointer. For
// an INLINE_COMPOSITE list this is instead the word count of the list
// body, excluding the tag word — callers must read the tag to recover the
// true element count (see layout.readListPointer).
func (p Pointer) ListElementCount() uint32 {
	upper := uint64(p) >> 32

	return uint32((upper >> listSizeShift) & listCountMask)
}

// NewListPointer builds a LIST pointer with the given offset, element
// size tag, and count (or, for SizeInlineComposite, body word count).
func NewListPointer(offset int32, size ElementSize, count uint32) Pointer {
	upper := uint64(size&listSizeMask) | (uint64(count)&listCountMask)<<listSizeShift

	return Pointer(encodeOffset(offset)) | Pointer(uint64(KindList)) | Pointer(upper)<<32
}

// IsDoubleFar reports whether a FAR pointer's landing pad is a double-far
// pad (two words) rather than a single-far pad (one word).
func (p Pointer) IsDoubleFar() bool {
	return uint64(p)&isDoubleFarBit != 0
}

// FarPosition returns the unsigned word position of a FAR pointer's
// landing pad within its target segment.
func (p Pointer) FarPosition() uint32 {
	return uint32((uint64(p) >> farPosShift) & farPosMask)
}

// FarSegmentID returns the target segment id of a FAR pointer.
func (p Pointer) FarSegmentID() SegmentID {
	return SegmentID(uint64(p) >> 32)
}

// NewFarPointer builds a FAR pointer to the given landing-pad position
// and segment.
func NewFarPointer(isDoubleFar bool, position uint32, segID SegmentID) Pointer {
	var flag uint64
	if isDoubleFar {
		flag = isDoubleFarBit
	}

	return Pointer(uint64(KindFar) | flag | (uint64(position)&farPosMask)<<farPosShift | uint64(segID)<<32)
}

func encodeOffset(offset int32) uint64 {
	return (uint64(uint32(offset)) << 2) & (offsetMask << 2)
}

// WithOffset returns a copy of p with its offset field replaced, leaving
// the kind bits and upper 32 bits untouched. Used when relocating a near
// pointer reconstructed from a double-far landing pad's tag word, whose
// logical offset is always zero relative to the far-pointer target.
func (p Pointer) WithOffset(offset int32) Pointer {
	return Pointer(uint64(p)&^(offsetMask<<2)) | Pointer(encodeOffset(offset))
}

// InlineCompositeCount reads the element count carried in an inline
// composite list tag word's offset field.
func (p Pointer) InlineCompositeCount() uint32 {
	return uint32(p.offset())
}

// NewInlineCompositeTag builds the tag word that precedes an
// INLINE_COMPOSITE list body: a STRUCT-kind pointer whose offset field
// carries the element count instead of a real offset.
func NewInlineCompositeTag(count uint32, elemSize ObjectSize) Pointer {
	return NewStructPointer(int32(count), elemSize)
}
