package layout

import (
	"github.com/stratumkit/capwire/arena"
	"github.com/stratumkit/capwire/errs"
	"github.com/stratumkit/capwire/wire"
)

// NewRootStructAt (re)builds the root object of a message under
// construction. rootSeg/rootAddr name the single reserved pointer word a
// message.Builder allocates at segment-0 word-0 (§4.10); calling this more
// than once discards whatever the previous call built, exactly like any
// other pointer-field overwrite.
func NewRootStructAt(b *arena.BuilderArena, rootSeg *arena.Segment, rootAddr uint32, sz wire.ObjectSize) StructBuilder {
	zeroObject(b, rootSeg, rootAddr)

	dstSeg, dstAddr := allocate(b, rootSeg, sz.TotalWords())
	setPointer(b, rootSeg, rootAddr, dstSeg, dstAddr, func(offset int32) wire.Pointer { return wire.NewStructPointer(offset, sz) })

	return StructBuilder{
		b:            b,
		seg:          dstSeg,
		dataAddr:     dstAddr * wire.BytesPerWord,
		ptrAddr:      dstAddr + uint32(sz.DataWords),
		dataSize:     uint32(sz.DataWords) * wire.BitsPerWord,
		pointerCount: sz.PointerCount,
	}
}

// RootStructBuilder returns the struct builder currently installed at
// rootSeg/rootAddr, or an empty (zero-size) StructBuilder if the root has
// not been built yet or was cleared.
func RootStructBuilder(b *arena.BuilderArena, rootSeg *arena.Segment, rootAddr uint32) StructBuilder {
	dstSeg, base, val := followFarsWrite(b, rootSeg, rootAddr)
	if val.IsNull() || val.Kind() != wire.KindStruct {
		return StructBuilder{}
	}

	addr := uint32(int32(base) + val.StructOffset())
	sz := val.StructSize()

	return StructBuilder{
		b:            b,
		seg:          dstSeg,
		dataAddr:     addr * wire.BytesPerWord,
		ptrAddr:      addr + uint32(sz.DataWords),
		dataSize:     uint32(sz.DataWords) * wire.BitsPerWord,
		pointerCount: sz.PointerCount,
	}
}

// ReadRootStruct reads the root pointer at word 0 of a ReaderArena's
// segment 0 (§4.10): unlike every other struct pointer dereference, its
// referencing address is defined as "outside any segment" and so is not
// itself bounds-checked, though the object it names still is.
func ReadRootStruct(src *arena.ReaderArena, limiter *arena.ReadLimiter, nestingLimit int, report arena.ReportFunc) StructReader {
	seg, ok := src.TryGetSegment(0)
	if !ok {
		reportf(report, "layout: %v (message has no segment 0)", errs.ErrUnknownSegment)

		return StructReader{}
	}
	if !seg.RegionInBounds(0, 1) {
		reportf(report, "layout: %v (segment 0 has no root pointer word)", errs.ErrOutOfBounds)

		return StructReader{}
	}

	root := StructReader{
		src:          src,
		seg:          seg,
		ptrAddr:      0,
		pointerCount: 1,
		limiter:      limiter,
		nestingLimit: nestingLimit,
		report:       report,
	}

	return root.StructField(0, StructReader{})
}
