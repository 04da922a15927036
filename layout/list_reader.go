package layout

import (
	"github.com/stratumkit/capwire/arena"
	"github.com/stratumkit/capwire/wire"
)

// ListReader is a non-owning, zero-copy view over a list's element storage.
// The zero value is a valid empty-list reader (Len() == 0).
type ListReader struct {
	src *arena.ReaderArena
	seg *arena.Segment

	addr uint32 // byte offset of element 0
	step uint32 // bits per element (== struct total stride for composite/pointer lists)

	length int

	// Populated only for lists whose elements are themselves struct-shaped
	// (SizeInlineComposite, or a POINTER list reinterpreted as a struct
	// list of pointer-count 1 by GetStructElement's caller).
	structDataSize     uint32 // bits
	structPointerCount uint16
	isComposite        bool

	limiter      *arena.ReadLimiter
	nestingLimit int
	report       arena.ReportFunc
}

// Len returns the element count.
func (l ListReader) Len() int { return l.length }

// IsValid reports whether l names real backing storage, as opposed to
// being the zero value substituted for a null or invalid list pointer.
func (l ListReader) IsValid() bool { return l.seg != nil }

func (l ListReader) reportf(format string, args ...any) {
	if l.report != nil {
		l.report(format, args...)
	}
}

func (l ListReader) checkIndex(i int) bool {
	return l.seg != nil && i >= 0 && i < l.length
}

// elementBitOffset returns the bit offset of element i from the start of
// the list's storage.
func (l ListReader) elementBitOffset(i int) uint64 {
	return uint64(i) * uint64(l.step)
}

func (l ListReader) GetUint64(i int, defaultValue uint64) uint64 {
	if !l.checkIndex(i) {
		return defaultValue
	}
	byteOff := l.addr + uint32(l.elementBitOffset(i)/8)

	return l.seg.ReadUint64(byteOff) ^ defaultValue
}

func (l ListReader) GetUint32(i int, defaultValue uint32) uint32 {
	if !l.checkIndex(i) {
		return defaultValue
	}
	byteOff := l.addr + uint32(l.elementBitOffset(i)/8)

	return l.seg.ReadUint32(byteOff) ^ defaultValue
}

func (l ListReader) GetUint16(i int, defaultValue uint16) uint16 {
	if !l.checkIndex(i) {
		return defaultValue
	}
	byteOff := l.addr + uint32(l.elementBitOffset(i)/8)

	return l.seg.ReadUint16(byteOff) ^ defaultValue
}

func (l ListReader) GetUint8(i int, defaultValue uint8) uint8 {
	if !l.checkIndex(i) {
		return defaultValue
	}
	byteOff := l.addr + uint32(l.elementBitOffset(i)/8)

	return l.seg.ReadUint8(byteOff) ^ defaultValue
}

// GetBool reads element i of a BIT list.
func (l ListReader) GetBool(i int, defaultValue bool) bool {
	if !l.checkIndex(i) {
		return defaultValue
	}
	bitOff := l.elementBitOffset(i)
	byteOff := l.addr + uint32(bitOff/8)
	bit := uint(bitOff % 8)
	raw := (l.seg.ReadUint8(byteOff) >> bit) & 1

	db := uint8(0)
	if defaultValue {
		db = 1
	}

	return (raw^db)&1 != 0
}

// GetStructElement returns element i reinterpreted as a struct, valid for
// any list produced by readListPointer regardless of whether it is an
// INLINE_COMPOSITE list, a POINTER list (each element read as a
// zero-data/one-pointer struct), or a primitive list (each element read as
// an N-bit/zero-pointer struct) — mirroring go-capnp's uniform
// "list of structs" abstraction so callers never special-case element
// shape.
func (l ListReader) GetStructElement(i int) StructReader {
	if !l.checkIndex(i) {
		return StructReader{}
	}

	if l.isComposite {
		elemByteOff := l.addr + uint32(i)*(l.step/8)
		dataWords := l.structDataSize / wire.BitsPerWord

		return StructReader{
			src:          l.src,
			seg:          l.seg,
			dataAddr:     elemByteOff,
			ptrAddr:      (elemByteOff / wire.BytesPerWord) + dataWords,
			dataSize:     l.structDataSize,
			pointerCount: l.structPointerCount,
			limiter:      l.limiter,
			nestingLimit: l.nestingLimit,
			report:       l.report,
		}
	}

	if l.structPointerCount == 1 {
		// POINTER list: element i IS the pointer word, so the struct's
		// data section is empty and its pointer section is exactly that
		// one word.
		elemAddr := l.addr/wire.BytesPerWord + uint32(i)

		return StructReader{
			src:          l.src,
			seg:          l.seg,
			dataAddr:     l.addr + uint32(i)*wire.BytesPerWord,
			ptrAddr:      elemAddr,
			dataSize:     0,
			pointerCount: 1,
			limiter:      l.limiter,
			nestingLimit: l.nestingLimit,
			report:       l.report,
		}
	}

	// Primitive/bit list: a struct with a single data field of the list's
	// element width and no pointers. bit0Offset lets GetBool on a BIT list
	// address the specific bit within its containing byte.
	bitOff := l.elementBitOffset(i)

	return StructReader{
		src:          l.src,
		seg:          l.seg,
		dataAddr:     l.addr + uint32(bitOff/8),
		dataSize:     l.structDataSize,
		bit0Offset:   uint8(bitOff % 8),
		limiter:      l.limiter,
		nestingLimit: l.nestingLimit,
		report:       l.report,
	}
}

// PointerStructElement dereferences element i of a POINTER list as a struct,
// following far pointers exactly as StructReader.StructField does.
func (l ListReader) PointerStructElement(i int, defaultValue StructReader) StructReader {
	return l.GetStructElement(i).StructField(0, defaultValue)
}

// PointerListElement dereferences element i of a POINTER list as a list.
func (l ListReader) PointerListElement(i int, defaultValue ListReader) ListReader {
	return l.GetStructElement(i).ListField(0, defaultValue)
}
