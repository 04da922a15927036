package layout

import (
	"math"

	"github.com/stratumkit/capwire/arena"
	"github.com/stratumkit/capwire/errs"
	"github.com/stratumkit/capwire/wire"
)

// StructReader is a non-owning, zero-copy view over a struct's data and
// pointer sections. The zero value is a valid "empty struct" reader:
// every primitive getter returns its default and every pointer getter
// returns its default reader.
type StructReader struct {
	src *arena.ReaderArena
	seg *arena.Segment

	dataAddr     uint32 // byte offset of the data section
	ptrAddr      uint32 // word offset of the pointer section
	dataSize     uint32 // bits
	pointerCount uint16
	bit0Offset   uint8 // additional bit offset into the data section

	limiter      *arena.ReadLimiter
	nestingLimit int
	report       arena.ReportFunc
}

// DataSize reports the struct's encoded data-section size in bits.
func (s StructReader) DataSize() uint32 { return s.dataSize }

// PointerCount reports the struct's encoded pointer-section size.
func (s StructReader) PointerCount() int { return int(s.pointerCount) }

func (s StructReader) hasBits(bitOffset, width uint32) bool {
	return s.seg != nil && uint64(bitOffset)+uint64(width) <= uint64(s.dataSize)
}

func (s StructReader) reportf(format string, args ...any) {
	if s.report != nil {
		s.report(format, args...)
	}
}

// GetUint64 reads a 64-bit field at the given bit offset, XORed against
// defaultValue, or returns defaultValue unchanged if the field lies
// beyond the struct's encoded data section (the schema evolution rule:
// an old message read under a newer, wider schema yields defaults for
// fields it never encoded).
func (s StructReader) GetUint64(bitOffset uint32, defaultValue uint64) uint64 {
	if !s.hasBits(bitOffset, 64) {
		return defaultValue
	}

	return s.seg.ReadUint64(s.dataAddr+bitOffset/8) ^ defaultValue
}

func (s StructReader) GetUint32(bitOffset uint32, defaultValue uint32) uint32 {
	if !s.hasBits(bitOffset, 32) {
		return defaultValue
	}

	return s.seg.ReadUint32(s.dataAddr+bitOffset/8) ^ defaultValue
}

func (s StructReader) GetUint16(bitOffset uint32, defaultValue uint16) uint16 {
	if !s.hasBits(bitOffset, 16) {
		return defaultValue
	}

	return s.seg.ReadUint16(s.dataAddr+bitOffset/8) ^ defaultValue
}

func (s StructReader) GetUint8(bitOffset uint32, defaultValue uint8) uint8 {
	if !s.hasBits(bitOffset, 8) {
		return defaultValue
	}

	return s.seg.ReadUint8(s.dataAddr+bitOffset/8) ^ defaultValue
}

func (s StructReader) GetInt64(bitOffset uint32, defaultValue int64) int64 {
	return int64(s.GetUint64(bitOffset, uint64(defaultValue)))
}

func (s StructReader) GetInt32(bitOffset uint32, defaultValue int32) int32 {
	return int32(s.GetUint32(bitOffset, uint32(defaultValue)))
}

func (s StructReader) GetInt16(bitOffset uint32, defaultValue int16) int16 {
	return int16(s.GetUint16(bitOffset, uint16(defaultValue)))
}

func (s StructReader) GetInt8(bitOffset uint32, defaultValue int8) int8 {
	return int8(s.GetUint8(bitOffset, uint8(defaultValue)))
}

func (s StructReader) GetFloat64(bitOffset uint32, defaultValue float64) float64 {
	return math.Float64frombits(s.GetUint64(bitOffset, math.Float64bits(defaultValue)))
}

func (s StructReader) GetFloat32(bitOffset uint32, defaultValue float32) float32 {
	return math.Float32frombits(s.GetUint32(bitOffset, math.Float32bits(defaultValue)))
}

// GetBool reads a single bit field, honoring bit0Offset (used when this
// reader is a boolean list element reinterpreted as a 1-bit struct).
func (s StructReader) GetBool(bitOffset uint32, defaultValue bool) bool {
	// The bounds check uses the field's own offset: a BIT list element has
	// a 1-bit data section, and bit0Offset only locates that bit within
	// the byte at dataAddr.
	if !s.hasBits(bitOffset, 1) {
		return defaultValue
	}
	abs := bitOffset + uint32(s.bit0Offset)
	byteOff := s.dataAddr + abs/8
	bit := abs % 8
	raw := (s.seg.ReadUint8(byteOff) >> bit) & 1

	db := uint8(0)
	if defaultValue {
		db = 1
	}

	return (raw^db)&1 != 0
}

func (s StructReader) hasPointer(index int) bool {
	return s.seg != nil && index >= 0 && index < int(s.pointerCount)
}

// pointerAddr returns the word address of pointer slot index within the
// struct's pointer section.
func (s StructReader) pointerAddr(index int) uint32 {
	return s.ptrAddr + uint32(index)
}

// StructField dereferences pointer slot index as a struct, following far
// pointers and enforcing bounds, the read limit, and the nesting limit.
// On any validation failure, or if the slot is out of range or null, it
// returns defaultValue.
func (s StructReader) StructField(index int, defaultValue StructReader) StructReader {
	if !s.hasPointer(index) || s.src == nil {
		return defaultValue
	}
	if s.nestingLimit <= 0 {
		s.reportf("layout: %v reading struct field %d", errs.ErrNestingLimit, index)

		return defaultValue
	}

	seg, base, val, ok := followFarsRead(s.src, s.seg, s.pointerAddr(index))
	if !ok {
		s.reportf("layout: %v reading struct field %d", errs.ErrBadLandingPad, index)

		return defaultValue
	}
	if val.IsNull() {
		return defaultValue
	}
	if val.Kind() == wire.KindReserved {
		s.reportf("layout: %v reading struct field %d", errs.ErrReservedPointer, index)

		return defaultValue
	}
	if val.Kind() != wire.KindStruct {
		s.reportf("layout: %v reading struct field %d", errs.ErrKindMismatch, index)

		return defaultValue
	}

	addr, ok := addOffset(base, val.StructOffset())
	sz := val.StructSize()
	if !ok || !seg.RegionInBoundsBytes(addr*wire.BytesPerWord, sz.TotalWords()*wire.BytesPerWord) {
		s.reportf("layout: %v reading struct field %d", errs.ErrOutOfBounds, index)

		return defaultValue
	}
	if !s.limiter.CanRead(uint64(sz.TotalWords())) {
		s.src.ReportReadLimitReached("layout: %v reading struct field %d", errs.ErrTraversalLimit, index)

		return defaultValue
	}

	return StructReader{
		src:          s.src,
		seg:          seg,
		dataAddr:     addr * wire.BytesPerWord,
		ptrAddr:      addr + uint32(sz.DataWords),
		dataSize:     uint32(sz.DataWords) * wire.BitsPerWord,
		pointerCount: sz.PointerCount,
		limiter:      s.limiter,
		nestingLimit: s.nestingLimit - 1,
		report:       s.report,
	}
}

// ListField dereferences pointer slot index as a list, mirroring
// StructField's validation and default-substitution behavior.
func (s StructReader) ListField(index int, defaultValue ListReader) ListReader {
	if !s.hasPointer(index) || s.src == nil {
		return defaultValue
	}
	if s.nestingLimit <= 0 {
		s.reportf("layout: %v reading list field %d", errs.ErrNestingLimit, index)

		return defaultValue
	}

	lr, ok := readListPointer(s.src, s.seg, s.pointerAddr(index), s.limiter, s.nestingLimit, s.report)
	if !ok {
		return defaultValue
	}

	return lr
}

// TextField dereferences pointer slot index as text (§4.7). It returns
// defaultValue if the slot is null, out of range, or malformed (missing
// NUL terminator).
func (s StructReader) TextField(index int, defaultValue string) string {
	lr := s.ListField(index, ListReader{})
	if lr.seg == nil {
		return defaultValue
	}
	text, ok := readText(lr)
	if !ok {
		s.reportf("layout: %v reading text field %d", errs.ErrMalformedText, index)

		return defaultValue
	}

	return text
}

// DataField dereferences pointer slot index as an opaque byte blob
// (§4.7). It returns defaultValue if the slot is null or out of range.
func (s StructReader) DataField(index int, defaultValue []byte) []byte {
	lr := s.ListField(index, ListReader{})
	if lr.seg == nil {
		return defaultValue
	}

	return readData(lr)
}

// ObjectField dereferences pointer slot index without assuming its kind
// (§4.8), for callers such as the dynamic façade that do not know ahead
// of time whether a field names a struct or a list.
func (s StructReader) ObjectField(index int) Object {
	if !s.hasPointer(index) || s.src == nil {
		return Object{}
	}

	seg, base, val, ok := followFarsRead(s.src, s.seg, s.pointerAddr(index))
	if !ok || val.IsNull() {
		return Object{}
	}

	switch val.Kind() {
	case wire.KindStruct:
		sr := s.StructField(index, StructReader{})

		return Object{Kind: ObjectStruct, Struct: sr}
	case wire.KindList:
		lr := s.ListField(index, ListReader{})

		return Object{Kind: ObjectList, List: lr}
	default:
		_ = seg
		_ = base

		return Object{}
	}
}
