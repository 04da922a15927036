package layout

import (
	"github.com/stratumkit/capwire/arena"
	"github.com/stratumkit/capwire/wire"
)

// ListBuilder is a non-owning, mutable view over a list's element storage,
// freshly allocated by one of StructBuilder's NewXxxListField methods.
type ListBuilder struct {
	b   *arena.BuilderArena
	seg *arena.Segment

	addr uint32 // byte offset of element 0
	step uint32 // bits per element

	length int

	structDataSize     uint32
	structPointerCount uint16
	isComposite        bool
}

// Len returns the element count fixed at allocation time; lists cannot be
// resized in place (§4.5's struct-list upgrade keeps the element count and
// widens the elements by allocating a new list and copying).
func (l ListBuilder) Len() int { return l.length }

func (l ListBuilder) elementByteOffset(i int) uint32 {
	return l.addr + uint32(uint64(i)*uint64(l.step)/8)
}

func (l ListBuilder) SetUint64(i int, value uint64) {
	l.seg.WriteUint64(l.elementByteOffset(i), value)
}

func (l ListBuilder) SetUint32(i int, value uint32) {
	l.seg.WriteUint32(l.elementByteOffset(i), value)
}

func (l ListBuilder) SetUint16(i int, value uint16) {
	l.seg.WriteUint16(l.elementByteOffset(i), value)
}

func (l ListBuilder) SetUint8(i int, value uint8) {
	l.seg.WriteUint8(l.elementByteOffset(i), value)
}

func (l ListBuilder) SetBool(i int, value bool) {
	bitOff := uint64(i) * uint64(l.step)
	byteOff := l.addr + uint32(bitOff/8)
	bit := uint(bitOff % 8)

	cur := l.seg.ReadUint8(byteOff)
	if value {
		cur |= 1 << bit
	} else {
		cur &^= 1 << bit
	}
	l.seg.WriteUint8(byteOff, cur)
}

// GetStructElement returns element i reinterpreted as a struct builder,
// mirroring ListReader.GetStructElement's uniform treatment of
// INLINE_COMPOSITE, POINTER, and primitive lists.
func (l ListBuilder) GetStructElement(i int) StructBuilder {
	if l.isComposite {
		elemByteOff := l.addr + uint32(i)*(l.step/8)
		dataWords := l.structDataSize / wire.BitsPerWord

		return StructBuilder{
			b:            l.b,
			seg:          l.seg,
			dataAddr:     elemByteOff,
			ptrAddr:      (elemByteOff / wire.BytesPerWord) + dataWords,
			dataSize:     l.structDataSize,
			pointerCount: l.structPointerCount,
		}
	}

	if l.structPointerCount == 1 {
		elemAddr := l.addr/wire.BytesPerWord + uint32(i)

		return StructBuilder{
			b:            l.b,
			seg:          l.seg,
			dataAddr:     l.addr + uint32(i)*wire.BytesPerWord,
			ptrAddr:      elemAddr,
			pointerCount: 1,
		}
	}

	bitOff := uint64(i) * uint64(l.step)

	return StructBuilder{
		b:        l.b,
		seg:      l.seg,
		dataAddr: l.addr + uint32(bitOff/8),
		dataSize: l.structDataSize,
	}
}

// SetStructElement deep-copies src's fields (data section and any pointer
// fields) into element i, which must already be a struct-shaped element
// (INLINE_COMPOSITE or POINTER list).
func (l ListBuilder) SetStructElement(i int, src StructReader) {
	dst := l.GetStructElement(i)
	for w := uint32(0); w < src.dataSize; w += wire.BitsPerWord {
		if src.seg != nil {
			dst.seg.WriteUint64(dst.dataAddr+w/8, src.seg.ReadUint64(src.dataAddr+w/8))
		}
	}
	for p := 0; p < src.PointerCount() && p < int(dst.pointerCount); p++ {
		writeObjectField(l.b, dst.seg, dst.ptrAddr+uint32(p), src.ObjectField(p))
	}
}

// AsReader returns a read-only view of the list's elements for the same
// primitive-only caveat as StructBuilder.AsReader.
func (l ListBuilder) AsReader() ListReader {
	return ListReader{
		seg:                l.seg,
		addr:               l.addr,
		step:               l.step,
		length:             l.length,
		structDataSize:     l.structDataSize,
		structPointerCount: l.structPointerCount,
		isComposite:        l.isComposite,
	}
}
