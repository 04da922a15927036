package layout

import (
	"github.com/stratumkit/capwire/arena"
	"github.com/stratumkit/capwire/internal/checkedmath"
	"github.com/stratumkit/capwire/wire"
)

// StructField returns the struct currently at pointer slot index, sized
// to at least minSz. If the slot is null, a fresh struct of exactly minSz
// is allocated (NewStructField). If the existing struct is already at
// least as large as minSz in both sections, it is returned as-is. Only
// when existing storage is too small does this perform the §4.5
// mutation-time upgrade: a new struct sized old.Max(minSz) is allocated,
// the old data words are copied, the old pointer fields are moved (not
// deep-copied — see transferPointer) into the new pointer section, and
// the old storage is zeroed.
//
// This is the accessor a generated (or dynamic-façade) getter uses: it
// lets code compiled against a newer, wider schema safely mutate a struct
// that was originally built to an older, narrower one.
func (s StructBuilder) StructField(index int, minSz wire.ObjectSize) StructBuilder {
	addr := s.pointerAddr(index)
	seg, base, val := followFarsWrite(s.b, s.seg, addr)

	if val.IsNull() {
		return s.NewStructField(index, minSz)
	}
	if val.Kind() != wire.KindStruct {
		panic("layout: pointer field is not a struct")
	}

	oldAddr := uint32(int32(base) + val.StructOffset())
	oldSz := val.StructSize()

	if oldSz.DataWords >= minSz.DataWords && oldSz.PointerCount >= minSz.PointerCount {
		return StructBuilder{
			b:            s.b,
			seg:          seg,
			dataAddr:     oldAddr * wire.BytesPerWord,
			ptrAddr:      oldAddr + uint32(oldSz.DataWords),
			dataSize:     uint32(oldSz.DataWords) * wire.BitsPerWord,
			pointerCount: oldSz.PointerCount,
		}
	}

	newSz := oldSz.Max(minSz)
	dstSeg, dstAddr := allocate(s.b, seg, newSz.TotalWords())

	for w := uint32(0); w < uint32(oldSz.DataWords); w++ {
		dstSeg.WriteUint64(dstAddr*wire.BytesPerWord+w*8, seg.ReadUint64(oldAddr*wire.BytesPerWord+w*8))
	}

	oldPtrBase := oldAddr + uint32(oldSz.DataWords)
	newPtrBase := dstAddr + uint32(newSz.DataWords)
	for p := uint32(0); p < uint32(oldSz.PointerCount); p++ {
		transferPointer(s.b, dstSeg, newPtrBase+p, seg, oldPtrBase+p)
	}

	zeroStructAt(s.b, seg, oldAddr, oldSz)
	setPointer(s.b, s.seg, addr, dstSeg, dstAddr, func(offset int32) wire.Pointer { return wire.NewStructPointer(offset, newSz) })

	return StructBuilder{
		b:            s.b,
		seg:          dstSeg,
		dataAddr:     dstAddr * wire.BytesPerWord,
		ptrAddr:      newPtrBase,
		dataSize:     uint32(newSz.DataWords) * wire.BitsPerWord,
		pointerCount: newSz.PointerCount,
	}
}

// StructListField is StructField's list counterpart (§4.5's other named
// case): it returns the INLINE_COMPOSITE list at pointer slot index,
// upgrading its element size to at least minElemSz first if necessary.
// count is used only when the slot is null, to size the freshly allocated
// list.
//
// A list already stored as INLINE_COMPOSITE is returned as is when its
// elements are at least minElemSz; otherwise it is copied into a newly
// allocated list with wider elements (below).
// A list stored as anything else — a primitive or pointer list, or a
// VOID list — is a struct list that was originally written against an
// older schema with a narrower (or empty) element type; §4.5 requires
// this to expand into a fresh INLINE_COMPOSITE whose first data word (or
// first pointer slot, for a POINTER substrate) holds each old element's
// value, handled by expandPrimitiveListField. Anything that isn't a list
// at all is a genuine caller/schema mismatch and panics like any other
// precondition violation (§7).
func (s StructBuilder) StructListField(index int, count int, minElemSz wire.ObjectSize) ListBuilder {
	addr := s.pointerAddr(index)
	seg, base, val := followFarsWrite(s.b, s.seg, addr)

	if val.IsNull() {
		return s.NewStructListField(index, count, minElemSz)
	}
	if val.Kind() != wire.KindList {
		panic("layout: pointer field is not a struct list")
	}
	if val.ListElementSize() != wire.SizeInlineComposite {
		return s.expandPrimitiveListField(addr, seg, base, val, minElemSz)
	}

	oldAddr := uint32(int32(base) + val.ListOffset())
	tag := seg.ReadPointer(oldAddr)
	oldCount := tag.InlineCompositeCount()
	oldElemSz := tag.StructSize()

	if oldElemSz.DataWords >= minElemSz.DataWords && oldElemSz.PointerCount >= minElemSz.PointerCount {
		stepWords := oldElemSz.TotalWords()

		return ListBuilder{
			b:                  s.b,
			seg:                seg,
			addr:               (oldAddr + 1) * wire.BytesPerWord,
			length:             int(oldCount),
			step:               stepWords * wire.BitsPerWord,
			structDataSize:     uint32(oldElemSz.DataWords) * wire.BitsPerWord,
			structPointerCount: oldElemSz.PointerCount,
			isComposite:        true,
		}
	}

	newElemSz := oldElemSz.Max(minElemSz)
	oldStep := oldElemSz.TotalWords()
	newStep := newElemSz.TotalWords()
	total := 1 + newStep*oldCount

	dstSeg, dstAddr := allocate(s.b, seg, total)
	dstSeg.WritePointer(dstAddr, wire.NewInlineCompositeTag(oldCount, newElemSz))

	for i := uint32(0); i < oldCount; i++ {
		oldElemAddr := oldAddr + 1 + i*oldStep
		newElemAddr := dstAddr + 1 + i*newStep

		for w := uint32(0); w < uint32(oldElemSz.DataWords); w++ {
			dstSeg.WriteUint64(newElemAddr*wire.BytesPerWord+w*8, seg.ReadUint64(oldElemAddr*wire.BytesPerWord+w*8))
		}

		oldPtrBase := oldElemAddr + uint32(oldElemSz.DataWords)
		newPtrBase := newElemAddr + uint32(newElemSz.DataWords)
		for p := uint32(0); p < uint32(oldElemSz.PointerCount); p++ {
			transferPointer(s.b, dstSeg, newPtrBase+p, seg, oldPtrBase+p)
		}
	}

	seg.ZeroRange(oldAddr, 1+oldStep*oldCount)
	setPointer(s.b, s.seg, addr, dstSeg, dstAddr, func(offset int32) wire.Pointer {
		return wire.NewListPointer(offset, wire.SizeInlineComposite, total-1)
	})

	return ListBuilder{
		b:                  s.b,
		seg:                dstSeg,
		addr:               (dstAddr + 1) * wire.BytesPerWord,
		length:             int(oldCount),
		step:               newStep * wire.BitsPerWord,
		structDataSize:     uint32(newElemSz.DataWords) * wire.BitsPerWord,
		structPointerCount: newElemSz.PointerCount,
		isComposite:        true,
	}
}

// expandPrimitiveListField upgrades the non-composite list named by val
// (already resolved to seg/base by the caller) into a fresh
// INLINE_COMPOSITE list sized to at least minElemSz. Per §4.5, each old
// element's value becomes the first word of the new struct's data
// section, or the new struct's first pointer slot for a POINTER
// substrate; a VOID substrate carries no value and is treated as an
// empty placeholder for any upgrade.
func (s StructBuilder) expandPrimitiveListField(addr uint32, seg *arena.Segment, base uint32, val wire.Pointer, minElemSz wire.ObjectSize) ListBuilder {
	oldElemSize := val.ListElementSize()
	oldAddr := uint32(int32(base) + val.ListOffset())
	oldCount := val.ListElementCount()

	newElemSz := minElemSz
	switch oldElemSize {
	case wire.SizePointer:
		if newElemSz.PointerCount < 1 {
			newElemSz.PointerCount = 1
		}
	case wire.SizeVoid:
		// No substrate value to preserve; minElemSz is used as-is.
	default:
		if newElemSz.DataWords < 1 {
			newElemSz.DataWords = 1
		}
	}

	newStep := newElemSz.TotalWords()
	body, ok := checkedmath.MulUint32(newStep, oldCount)
	if !ok {
		panic("layout: struct list size overflows a 32-bit word count")
	}
	total, ok := checkedmath.AddUint32(1, body)
	if !ok {
		panic("layout: struct list size overflows a 32-bit word count")
	}

	dstSeg, dstAddr := allocate(s.b, seg, total)
	dstSeg.WritePointer(dstAddr, wire.NewInlineCompositeTag(oldCount, newElemSz))

	switch oldElemSize {
	case wire.SizeVoid:
		// Nothing to copy.

	case wire.SizePointer:
		for i := uint32(0); i < oldCount; i++ {
			newElemAddr := dstAddr + 1 + i*newStep
			newPtrAddr := newElemAddr + uint32(newElemSz.DataWords)
			transferPointer(s.b, dstSeg, newPtrAddr, seg, oldAddr+i)
		}

	case wire.SizeBit:
		oldByteBase := oldAddr * wire.BytesPerWord
		for i := uint32(0); i < oldCount; i++ {
			byteOff := oldByteBase + i/8
			bit := uint(i % 8)
			v := (seg.ReadUint8(byteOff) >> bit) & 1
			newElemAddr := dstAddr + 1 + i*newStep
			dstSeg.WriteUint8(newElemAddr*wire.BytesPerWord, v)
		}

	default:
		oldStepBytes := uint32(oldElemSize.BitsPerElement() / 8)
		oldByteBase := oldAddr * wire.BytesPerWord
		for i := uint32(0); i < oldCount; i++ {
			newElemAddr := dstAddr + 1 + i*newStep
			for b := uint32(0); b < oldStepBytes; b++ {
				v := seg.ReadUint8(oldByteBase + i*oldStepBytes + b)
				dstSeg.WriteUint8(newElemAddr*wire.BytesPerWord+b, v)
			}
		}
	}

	oldWords, _ := checkedmath.MulElementStride(uint64(oldCount), oldElemSize.BitsPerElement())
	seg.ZeroRange(oldAddr, oldWords)
	setPointer(s.b, s.seg, addr, dstSeg, dstAddr, func(offset int32) wire.Pointer {
		return wire.NewListPointer(offset, wire.SizeInlineComposite, total-1)
	})

	return ListBuilder{
		b:                  s.b,
		seg:                dstSeg,
		addr:               (dstAddr + 1) * wire.BytesPerWord,
		length:             int(oldCount),
		step:               newStep * wire.BitsPerWord,
		structDataSize:     uint32(newElemSz.DataWords) * wire.BitsPerWord,
		structPointerCount: newElemSz.PointerCount,
		isComposite:        true,
	}
}
