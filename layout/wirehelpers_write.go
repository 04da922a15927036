package layout

import (
	"github.com/stratumkit/capwire/arena"
	"github.com/stratumkit/capwire/wire"
)

// allocate reserves sizeWords of storage for a new object, preferring the
// referencing segment (so the pointer to it can be encoded as a cheap near
// pointer). When refSeg has no room and the object must land in a
// different segment, allocate also reserves the word immediately
// preceding it as a far pointer's landing pad (§4.2 step 4: "reserve a
// landing pad (1 word) followed by amount words"), so the pad always
// leads the object it names instead of trailing it. setPointer relies on
// that reserved word being there whenever refSeg and dstSeg differ.
func allocate(b *arena.BuilderArena, refSeg *arena.Segment, sizeWords uint32) (*arena.Segment, uint32) {
	if addr, ok := refSeg.Allocate(sizeWords); ok {
		return refSeg, addr
	}

	seg, _ := b.SegmentWithAvailable(sizeWords + 1)
	base, _ := seg.Allocate(sizeWords + 1)

	return seg, base + 1
}

// setPointer writes the pointer word at (refSeg, refAddr) so that it names
// the freshly allocated object at (dstSeg, dstAddr), using mk to build the
// near-pointer bits (offset filled in by setPointer itself). dstAddr must
// come from allocate: when refSeg and dstSeg differ, allocate has already
// reserved the word at dstAddr-1 in dstSeg as the far pointer's landing
// pad, immediately preceding the object (§4.2 step 4, E2E scenario 2), so
// the landing pad's near pointer always has offset 0.
func setPointer(b *arena.BuilderArena, refSeg *arena.Segment, refAddr uint32, dstSeg *arena.Segment, dstAddr uint32, mk func(offset int32) wire.Pointer) {
	if refSeg == dstSeg {
		refSeg.WritePointer(refAddr, mk(int32(dstAddr)-int32(refAddr+1)))

		return
	}

	padAddr := dstAddr - 1
	dstSeg.WritePointer(padAddr, mk(0))
	refSeg.WritePointer(refAddr, wire.NewFarPointer(false, padAddr, dstSeg.ID()))
}

// setMovedPointer is setPointer's counterpart for an object that already
// exists at a fixed address rather than one allocate just reserved: dstAddr
// has no landing pad reserved before it, since the object isn't moving,
// only the pointer referencing it is. It bump-allocates a trailing pad
// word in dstSeg instead, falling back to a double-far landing pad
// elsewhere if dstSeg has no room left. Used by transferPointer.
func setMovedPointer(b *arena.BuilderArena, refSeg *arena.Segment, refAddr uint32, dstSeg *arena.Segment, dstAddr uint32, mk func(offset int32) wire.Pointer) {
	if refSeg == dstSeg {
		refSeg.WritePointer(refAddr, mk(int32(dstAddr)-int32(refAddr+1)))

		return
	}

	if padAddr, ok := dstSeg.Allocate(1); ok {
		dstSeg.WritePointer(padAddr, mk(int32(dstAddr)-int32(padAddr+1)))
		refSeg.WritePointer(refAddr, wire.NewFarPointer(false, padAddr, dstSeg.ID()))

		return
	}

	padSeg, _ := b.SegmentWithAvailable(2)
	padAddr, _ := padSeg.Allocate(2)
	padSeg.WritePointer(padAddr, wire.NewFarPointer(false, dstAddr, dstSeg.ID()))
	padSeg.WritePointer(padAddr+1, mk(0))
	refSeg.WritePointer(refAddr, wire.NewFarPointer(true, padAddr, padSeg.ID()))
}

// followFarsWrite is followFarsRead's builder-side counterpart. Builder
// memory is always internally consistent (it was produced by this
// package), so it trusts segment ids and bounds rather than re-validating
// them.
func followFarsWrite(b *arena.BuilderArena, seg *arena.Segment, addr uint32) (*arena.Segment, uint32, wire.Pointer) {
	raw := seg.ReadPointer(addr)
	if raw.Kind() != wire.KindFar {
		return seg, addr + 1, raw
	}

	padSeg := b.Segment(raw.FarSegmentID())
	padAddr := raw.FarPosition()

	if raw.IsDoubleFar() {
		far := padSeg.ReadPointer(padAddr)
		tag := padSeg.ReadPointer(padAddr + 1)
		dstSeg := b.Segment(far.FarSegmentID())

		return dstSeg, far.FarPosition(), tag.WithOffset(0)
	}

	near := padSeg.ReadPointer(padAddr)

	return padSeg, padAddr + 1, near
}

// zeroObject resolves the object (if any) that the pointer at (seg, addr)
// currently names, clears the pointer word, then recursively clears the
// object and, for a far pointer, its landing pad (two words for a
// double-far). It is called before every overwrite of a pointer field so
// that replacing a field's value never leaves a live but unreferenced copy
// of the old value's data behind in the segment.
func zeroObject(b *arena.BuilderArena, seg *arena.Segment, addr uint32) {
	if !seg.RegionInBounds(addr, 1) {
		return
	}

	raw := seg.ReadPointer(addr)
	if raw.IsNull() {
		return
	}

	dstSeg, base, val := followFarsWrite(b, seg, addr)
	seg.WritePointer(addr, wire.Null)
	if raw.Kind() == wire.KindFar {
		padWords := uint32(1)
		if raw.IsDoubleFar() {
			padWords = 2
		}
		b.Segment(raw.FarSegmentID()).ZeroRange(raw.FarPosition(), padWords)
	}
	if val.IsNull() {
		return
	}

	switch val.Kind() {
	case wire.KindStruct:
		target := uint32(int32(base) + val.StructOffset())
		zeroStructAt(b, dstSeg, target, val.StructSize())
	case wire.KindList:
		zeroListAt(b, dstSeg, base, val)
	}
}

func zeroStructAt(b *arena.BuilderArena, seg *arena.Segment, addr uint32, sz wire.ObjectSize) {
	ptrBase := addr + uint32(sz.DataWords)
	for i := uint16(0); i < sz.PointerCount; i++ {
		zeroObject(b, seg, ptrBase+uint32(i))
	}
	seg.ZeroRange(addr, sz.TotalWords())
}

func zeroListAt(b *arena.BuilderArena, seg *arena.Segment, base uint32, val wire.Pointer) {
	addr := uint32(int32(base) + val.ListOffset())

	switch val.ListElementSize() {
	case wire.SizeInlineComposite:
		tag := seg.ReadPointer(addr)
		count := tag.InlineCompositeCount()
		sz := tag.StructSize()
		stepWords := sz.TotalWords()
		bodyAddr := addr + 1

		for i := uint32(0); i < count; i++ {
			elemAddr := bodyAddr + i*stepWords
			ptrBase := elemAddr + uint32(sz.DataWords)
			for j := uint16(0); j < sz.PointerCount; j++ {
				zeroObject(b, seg, ptrBase+uint32(j))
			}
		}
		seg.ZeroRange(addr, 1+count*stepWords)

	case wire.SizePointer:
		count := val.ListElementCount()
		for i := uint32(0); i < count; i++ {
			zeroObject(b, seg, addr+i)
		}
		seg.ZeroRange(addr, count)

	default:
		bits := val.ListElementSize().BitsPerElement()
		count := val.ListElementCount()
		words := uint32((uint64(count)*uint64(bits) + 63) / 64)
		seg.ZeroRange(addr, words)
	}
}

// transferPointer moves the object currently referenced by the pointer
// word at (srcSeg, srcAddr) so that (dstSeg, dstAddr) refers to it
// instead, without copying the referent itself (§4.2). The source pointer
// is left null. Used by the schema-upgrade path (see StructField and
// StructListField in upgrade.go) to move a struct's existing pointer
// fields into newly allocated, wider storage.
func transferPointer(b *arena.BuilderArena, dstSeg *arena.Segment, dstAddr uint32, srcSeg *arena.Segment, srcAddr uint32) {
	raw := srcSeg.ReadPointer(srcAddr)
	if raw.IsNull() {
		dstSeg.WritePointer(dstAddr, wire.Null)

		return
	}

	targetSeg, base, val := followFarsWrite(b, srcSeg, srcAddr)
	srcSeg.WritePointer(srcAddr, wire.Null)

	switch val.Kind() {
	case wire.KindStruct:
		addr := uint32(int32(base) + val.StructOffset())
		sz := val.StructSize()
		setMovedPointer(b, dstSeg, dstAddr, targetSeg, addr, func(offset int32) wire.Pointer { return wire.NewStructPointer(offset, sz) })
	case wire.KindList:
		addr := uint32(int32(base) + val.ListOffset())
		elemSize := val.ListElementSize()
		count := val.ListElementCount()
		setMovedPointer(b, dstSeg, dstAddr, targetSeg, addr, func(offset int32) wire.Pointer { return wire.NewListPointer(offset, elemSize, count) })
	default:
		dstSeg.WritePointer(dstAddr, wire.Null)
	}
}

// copyStructInto deep-copies src into a freshly allocated struct in dstSeg
// sized to at least src's own section sizes, returning the destination
// segment and address. It is used both to materialize a builder's
// SetStructField(value) and, via copyListInto, to materialize struct list
// elements.
func copyStructInto(b *arena.BuilderArena, dstSeg *arena.Segment, src StructReader) (*arena.Segment, uint32) {
	sz := wire.ObjectSize{DataWords: uint16(src.dataSize / wire.BitsPerWord), PointerCount: uint16(src.pointerCount)}
	seg, addr := allocate(b, dstSeg, sz.TotalWords())

	for i := uint32(0); i < src.dataSize; i += wire.BitsPerWord {
		if src.seg != nil {
			seg.WriteUint64(addr*wire.BytesPerWord+i/8, src.seg.ReadUint64(src.dataAddr+i/8))
		}
	}
	for i := 0; i < src.PointerCount(); i++ {
		child := src.ObjectField(i)
		writeObjectField(b, seg, addr+uint32(sz.DataWords)+uint32(i), child)
	}

	return seg, addr
}

// writeObjectField writes obj as the pointer at (seg, ptrAddr), copying its
// contents into fresh storage in seg's arena. A null Object writes the
// null pointer.
func writeObjectField(b *arena.BuilderArena, seg *arena.Segment, ptrAddr uint32, obj Object) {
	switch obj.Kind {
	case ObjectStruct:
		dstSeg, dstAddr := copyStructInto(b, seg, obj.Struct)
		sz := wire.ObjectSize{DataWords: uint16(obj.Struct.dataSize / wire.BitsPerWord), PointerCount: uint16(obj.Struct.pointerCount)}
		setPointer(b, seg, ptrAddr, dstSeg, dstAddr, func(offset int32) wire.Pointer { return wire.NewStructPointer(offset, sz) })
	case ObjectList:
		dstSeg, dstAddr, mk := copyListInto(b, seg, obj.List)
		setPointer(b, seg, ptrAddr, dstSeg, dstAddr, mk)
	default:
		seg.WritePointer(ptrAddr, wire.Null)
	}
}

// copyListInto deep-copies src into freshly allocated storage in dstSeg,
// returning the destination segment, address, and a pointer-encoding
// function suitable for setPointer.
func copyListInto(b *arena.BuilderArena, dstSeg *arena.Segment, src ListReader) (*arena.Segment, uint32, func(int32) wire.Pointer) {
	if !src.IsValid() {
		return dstSeg, 0, func(int32) wire.Pointer { return wire.Null }
	}

	if src.isComposite {
		elemSz := wire.ObjectSize{DataWords: uint16(src.structDataSize / wire.BitsPerWord), PointerCount: src.structPointerCount}
		stepWords := elemSz.TotalWords()
		total := 1 + stepWords*uint32(src.length)
		seg, addr := allocate(b, dstSeg, total)
		seg.WritePointer(addr, wire.NewInlineCompositeTag(uint32(src.length), elemSz))

		for i := 0; i < src.length; i++ {
			elem := src.GetStructElement(i)
			elemAddr := addr + 1 + uint32(i)*stepWords
			for w := uint32(0); w < uint32(elemSz.DataWords); w++ {
				if elem.seg != nil {
					seg.WriteUint64(elemAddr*wire.BytesPerWord+w*8, elem.seg.ReadUint64(elem.dataAddr+w*8))
				}
			}
			for p := 0; p < elem.PointerCount(); p++ {
				child := elem.ObjectField(p)
				writeObjectField(b, seg, elemAddr+uint32(elemSz.DataWords)+uint32(p), child)
			}
		}

		mk := func(offset int32) wire.Pointer { return wire.NewListPointer(offset, wire.SizeInlineComposite, total-1) }

		return seg, addr, mk
	}

	if src.structPointerCount == 1 && src.structDataSize == 0 {
		seg, addr := allocate(b, dstSeg, uint32(src.length))
		for i := 0; i < src.length; i++ {
			child := src.GetStructElement(i).ObjectField(0)
			writeObjectField(b, seg, addr+uint32(i), child)
		}
		mk := func(offset int32) wire.Pointer { return wire.NewListPointer(offset, wire.SizePointer, uint32(src.length)) }

		return seg, addr, mk
	}

	bits := src.step
	words := uint32((uint64(bits)*uint64(src.length) + 63) / 64)
	seg, addr := allocate(b, dstSeg, words)
	byteBase := addr * wire.BytesPerWord

	for i := 0; i < src.length; i++ {
		bitOff := uint64(i) * uint64(bits)
		byteOff := byteBase + uint32(bitOff/8)
		switch bits {
		case 1:
			if src.GetBool(i, false) {
				cur := seg.ReadUint8(byteOff)
				seg.WriteUint8(byteOff, cur|(1<<(bitOff%8)))
			}
		case 8:
			seg.WriteUint8(byteOff, src.GetUint8(i, 0))
		case 16:
			seg.WriteUint16(byteOff, src.GetUint16(i, 0))
		case 32:
			seg.WriteUint32(byteOff, src.GetUint32(i, 0))
		case 64:
			seg.WriteUint64(byteOff, src.GetUint64(i, 0))
		}
	}

	elemSize := elementSizeForBits(bits)
	mk := func(offset int32) wire.Pointer { return wire.NewListPointer(offset, elemSize, uint32(src.length)) }

	return seg, addr, mk
}

func elementSizeForBits(bits uint32) wire.ElementSize {
	switch bits {
	case 1:
		return wire.SizeBit
	case 8:
		return wire.SizeByte
	case 16:
		return wire.SizeTwoBytes
	case 32:
		return wire.SizeFourBytes
	case 64:
		return wire.SizeEightBytes
	default:
		return wire.SizeVoid
	}
}
