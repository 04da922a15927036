package layout

import (
	"fmt"
	"math"

	"github.com/stratumkit/capwire/arena"
	"github.com/stratumkit/capwire/internal/checkedmath"
	"github.com/stratumkit/capwire/wire"
)

// StructBuilder is a non-owning, mutable view over a struct's data and
// pointer sections, freshly allocated by NewRootStruct or one of the
// NewXxxField methods. Every section word starts zeroed, so writers only
// ever need to XOR in a non-default value (§4.5's schema-evolution
// invariant applies symmetrically on the write path).
type StructBuilder struct {
	b   *arena.BuilderArena
	seg *arena.Segment

	dataAddr     uint32 // byte offset of the data section
	ptrAddr      uint32 // word offset of the pointer section
	dataSize     uint32 // bits
	pointerCount uint16
}

// NewRootStruct allocates a fresh struct of size sz in a's first segment
// (creating it if necessary) with no referencing pointer, for use as a
// message's root object.
func NewRootStruct(b *arena.BuilderArena, sz wire.ObjectSize) StructBuilder {
	seg, _ := b.SegmentWithAvailable(sz.TotalWords())
	waddr, _ := seg.Allocate(sz.TotalWords())

	return StructBuilder{
		b:            b,
		seg:          seg,
		dataAddr:     waddr * wire.BytesPerWord,
		ptrAddr:      waddr + uint32(sz.DataWords),
		dataSize:     uint32(sz.DataWords) * wire.BitsPerWord,
		pointerCount: sz.PointerCount,
	}
}

// DataSize reports the struct's encoded data-section size in bits.
func (s StructBuilder) DataSize() uint32 { return s.dataSize }

// PointerCount reports the struct's encoded pointer-section size.
func (s StructBuilder) PointerCount() int { return int(s.pointerCount) }

// AsReader returns a read-only, primitive-field-only view of the struct.
// The returned StructReader supports every Get* scalar accessor but not
// further pointer traversal (StructField/ListField/ObjectField all report
// their default): builders read back their own pointer fields through the
// dedicated builder accessors below, which return live builders rather
// than frozen readers.
func (s StructBuilder) AsReader() StructReader {
	return StructReader{
		seg:          s.seg,
		dataAddr:     s.dataAddr,
		ptrAddr:      s.ptrAddr,
		dataSize:     s.dataSize,
		pointerCount: s.pointerCount,
	}
}

func (s StructBuilder) hasBits(bitOffset, width uint32) bool {
	return uint64(bitOffset)+uint64(width) <= uint64(s.dataSize)
}

// mustBits panics if the field does not fit the struct's allocated data
// section: callers only ever pass offsets derived from the schema this
// struct was allocated for, so a mismatch is a caller bug (§7).
func (s StructBuilder) mustBits(bitOffset, width uint32) {
	if !s.hasBits(bitOffset, width) {
		panic("layout: field offset outside struct data section")
	}
}

func (s StructBuilder) SetUint64(bitOffset uint32, value, defaultValue uint64) {
	s.mustBits(bitOffset, 64)
	s.seg.WriteUint64(s.dataAddr+bitOffset/8, value^defaultValue)
}

func (s StructBuilder) SetUint32(bitOffset uint32, value, defaultValue uint32) {
	s.mustBits(bitOffset, 32)
	s.seg.WriteUint32(s.dataAddr+bitOffset/8, value^defaultValue)
}

func (s StructBuilder) SetUint16(bitOffset uint32, value, defaultValue uint16) {
	s.mustBits(bitOffset, 16)
	s.seg.WriteUint16(s.dataAddr+bitOffset/8, value^defaultValue)
}

func (s StructBuilder) SetUint8(bitOffset uint32, value, defaultValue uint8) {
	s.mustBits(bitOffset, 8)
	s.seg.WriteUint8(s.dataAddr+bitOffset/8, value^defaultValue)
}

func (s StructBuilder) SetInt64(bitOffset uint32, value, defaultValue int64) {
	s.SetUint64(bitOffset, uint64(value), uint64(defaultValue))
}

func (s StructBuilder) SetInt32(bitOffset uint32, value, defaultValue int32) {
	s.SetUint32(bitOffset, uint32(value), uint32(defaultValue))
}

func (s StructBuilder) SetInt16(bitOffset uint32, value, defaultValue int16) {
	s.SetUint16(bitOffset, uint16(value), uint16(defaultValue))
}

func (s StructBuilder) SetInt8(bitOffset uint32, value, defaultValue int8) {
	s.SetUint8(bitOffset, uint8(value), uint8(defaultValue))
}

func (s StructBuilder) SetFloat64(bitOffset uint32, value, defaultValue float64) {
	s.SetUint64(bitOffset, math.Float64bits(value), math.Float64bits(defaultValue))
}

func (s StructBuilder) SetFloat32(bitOffset uint32, value, defaultValue float32) {
	s.SetUint32(bitOffset, math.Float32bits(value), math.Float32bits(defaultValue))
}

func (s StructBuilder) SetBool(bitOffset uint32, value, defaultValue bool) {
	s.mustBits(bitOffset, 1)
	byteOff := s.dataAddr + bitOffset/8
	bit := bitOffset % 8

	cur := s.seg.ReadUint8(byteOff)
	bv, db := uint8(0), uint8(0)
	if value {
		bv = 1
	}
	if defaultValue {
		db = 1
	}
	out := bv ^ db
	cur = (cur &^ (1 << bit)) | (out << bit)
	s.seg.WriteUint8(byteOff, cur)
}

func (s StructBuilder) pointerAddr(index int) uint32 {
	if index < 0 || index >= int(s.pointerCount) {
		panic("layout: pointer index outside struct pointer section")
	}

	return s.ptrAddr + uint32(index)
}

// NewStructField allocates a fresh struct of size sz, zeroing whatever
// object pointer slot index previously named, and installs it as that
// slot's value.
func (s StructBuilder) NewStructField(index int, sz wire.ObjectSize) StructBuilder {
	addr := s.pointerAddr(index)
	zeroObject(s.b, s.seg, addr)

	dstSeg, dstAddr := allocate(s.b, s.seg, sz.TotalWords())
	setPointer(s.b, s.seg, addr, dstSeg, dstAddr, func(offset int32) wire.Pointer { return wire.NewStructPointer(offset, sz) })

	return StructBuilder{
		b:            s.b,
		seg:          dstSeg,
		dataAddr:     dstAddr * wire.BytesPerWord,
		ptrAddr:      dstAddr + uint32(sz.DataWords),
		dataSize:     uint32(sz.DataWords) * wire.BitsPerWord,
		pointerCount: sz.PointerCount,
	}
}

// NewListField allocates a fresh primitive or pointer list (any
// ElementSize other than SizeInlineComposite) of length count.
func (s StructBuilder) NewListField(index int, elemSize wire.ElementSize, count int) ListBuilder {
	if err := wire.CheckListCount(count); err != nil {
		panic(fmt.Sprintf("layout: %v", err))
	}

	addr := s.pointerAddr(index)
	zeroObject(s.b, s.seg, addr)

	bits := elemSize.BitsPerElement()
	words, ok := checkedmath.MulElementStride(uint64(count), bits)
	if !ok {
		panic("layout: list size overflows a 32-bit word count")
	}
	dstSeg, dstAddr := allocate(s.b, s.seg, words)
	setPointer(s.b, s.seg, addr, dstSeg, dstAddr, func(offset int32) wire.Pointer { return wire.NewListPointer(offset, elemSize, uint32(count)) })

	lb := ListBuilder{b: s.b, seg: dstSeg, addr: dstAddr * wire.BytesPerWord, length: count, step: uint32(bits)}
	if elemSize == wire.SizePointer {
		lb.structPointerCount = 1
	}

	return lb
}

// NewStructListField allocates a fresh INLINE_COMPOSITE list of count
// elements, each sized elemSz.
func (s StructBuilder) NewStructListField(index int, count int, elemSz wire.ObjectSize) ListBuilder {
	if err := wire.CheckListCount(count); err != nil {
		panic(fmt.Sprintf("layout: %v", err))
	}

	addr := s.pointerAddr(index)
	zeroObject(s.b, s.seg, addr)

	stepWords := elemSz.TotalWords()
	body, ok := checkedmath.MulUint32(stepWords, uint32(count))
	if !ok {
		panic("layout: struct list size overflows a 32-bit word count")
	}
	total, ok := checkedmath.AddUint32(1, body)
	if !ok {
		panic("layout: struct list size overflows a 32-bit word count")
	}
	dstSeg, dstAddr := allocate(s.b, s.seg, total)
	dstSeg.WritePointer(dstAddr, wire.NewInlineCompositeTag(uint32(count), elemSz))
	setPointer(s.b, s.seg, addr, dstSeg, dstAddr, func(offset int32) wire.Pointer { return wire.NewListPointer(offset, wire.SizeInlineComposite, total-1) })

	return ListBuilder{
		b:                  s.b,
		seg:                dstSeg,
		addr:               (dstAddr + 1) * wire.BytesPerWord,
		length:             count,
		step:               stepWords * wire.BitsPerWord,
		structDataSize:     uint32(elemSz.DataWords) * wire.BitsPerWord,
		structPointerCount: elemSz.PointerCount,
		isComposite:        true,
	}
}

// NewTextField allocates a Text blob (§4.7): a BYTE list of len(text)+1
// elements holding text's bytes followed by a NUL terminator.
func (s StructBuilder) NewTextField(index int, text string) {
	lb := s.NewListField(index, wire.SizeByte, len(text)+1)
	for i := 0; i < len(text); i++ {
		lb.SetUint8(i, text[i])
	}
}

// NewDataField allocates a Data blob (§4.7): a raw BYTE list.
func (s StructBuilder) NewDataField(index int, data []byte) {
	lb := s.NewListField(index, wire.SizeByte, len(data))
	for i, v := range data {
		lb.SetUint8(i, v)
	}
}

// SetStructField deep-copies src into a fresh struct and installs it at
// pointer slot index.
func (s StructBuilder) SetStructField(index int, src StructReader) {
	addr := s.pointerAddr(index)
	zeroObject(s.b, s.seg, addr)
	writeObjectField(s.b, s.seg, addr, Object{Kind: ObjectStruct, Struct: src})
}

// SetListField deep-copies src into a fresh list and installs it at
// pointer slot index.
func (s StructBuilder) SetListField(index int, src ListReader) {
	addr := s.pointerAddr(index)
	zeroObject(s.b, s.seg, addr)
	writeObjectField(s.b, s.seg, addr, Object{Kind: ObjectList, List: src})
}

// ClearField zeroes pointer slot index, discarding whatever object it
// named.
func (s StructBuilder) ClearField(index int) {
	zeroObject(s.b, s.seg, s.pointerAddr(index))
}
