package layout

import (
	"github.com/stratumkit/capwire/arena"
	"github.com/stratumkit/capwire/errs"
	"github.com/stratumkit/capwire/internal/checkedmath"
	"github.com/stratumkit/capwire/wire"
)

// addOffset applies a WirePointer's signed word offset to a base word
// address, reporting overflow/underflow rather than wrapping.
func addOffset(base uint32, offset int32) (uint32, bool) {
	return checkedmath.AddOffset(base, offset)
}

// followFarsRead resolves the pointer word at (seg, paddr), transparently
// following at most one far-pointer landing pad (single or double), and
// returns the segment and base address against which the resolved near
// pointer's own offset field should be interpreted, along with the near
// pointer's value itself.
//
// ok is false only on a structural validation failure (unknown segment,
// out-of-bounds landing pad, malformed double-far tag) — a null or
// otherwise-empty pointer is reported as val.IsNull() with ok true, since
// null is not itself a failure.
func followFarsRead(src *arena.ReaderArena, seg *arena.Segment, paddr uint32) (*arena.Segment, uint32, wire.Pointer, bool) {
	if !seg.RegionInBounds(paddr, 1) {
		return nil, 0, 0, false
	}

	raw := seg.ReadPointer(paddr)
	if raw.IsNull() {
		return seg, paddr + 1, raw, true
	}

	switch raw.Kind() {
	case wire.KindFar:
		padSeg, found := src.TryGetSegment(raw.FarSegmentID())
		if !found {
			return nil, 0, 0, false
		}
		padAddr := raw.FarPosition()

		if raw.IsDoubleFar() {
			if !padSeg.RegionInBounds(padAddr, 2) {
				return nil, 0, 0, false
			}
			far := padSeg.ReadPointer(padAddr)
			if far.Kind() != wire.KindFar {
				return nil, 0, 0, false
			}
			tag := padSeg.ReadPointer(padAddr + 1)
			if tag.Kind() != wire.KindStruct && tag.Kind() != wire.KindList {
				return nil, 0, 0, false
			}
			dstSeg, found := src.TryGetSegment(far.FarSegmentID())
			if !found {
				return nil, 0, 0, false
			}

			return dstSeg, far.FarPosition(), tag.WithOffset(0), true
		}

		if !padSeg.RegionInBounds(padAddr, 1) {
			return nil, 0, 0, false
		}
		near := padSeg.ReadPointer(padAddr)
		if near.Kind() == wire.KindFar {
			return nil, 0, 0, false
		}

		return padSeg, padAddr + 1, near, true
	default:
		return seg, paddr + 1, raw, true
	}
}

// readListPointer dereferences the pointer at (seg, paddr) as a list,
// handling every ElementSize including INLINE_COMPOSITE, and returns
// (ListReader{}, false) on any validation failure (the caller substitutes
// its own default in that case).
func readListPointer(src *arena.ReaderArena, seg *arena.Segment, paddr uint32, limiter *arena.ReadLimiter, nestingLimit int, report arena.ReportFunc) (ListReader, bool) {
	dstSeg, base, val, ok := followFarsRead(src, seg, paddr)
	if !ok {
		reportf(report, "layout: %v reading list", errs.ErrBadLandingPad)

		return ListReader{}, false
	}
	if val.IsNull() {
		return ListReader{}, false
	}
	if val.Kind() != wire.KindList {
		reportf(report, "layout: %v reading list (got %v)", errs.ErrKindMismatch, val.Kind())

		return ListReader{}, false
	}

	addr, ok := addOffset(base, val.ListOffset())
	if !ok {
		reportf(report, "layout: %v (list pointer offset overflow)", errs.ErrOutOfBounds)

		return ListReader{}, false
	}

	elemSize := val.ListElementSize()
	base_ := ListReader{src: src, seg: dstSeg, limiter: limiter, nestingLimit: nestingLimit - 1, report: report}

	switch elemSize {
	case wire.SizeInlineComposite:
		if !dstSeg.RegionInBounds(addr, 1) {
			reportf(report, "layout: %v (inline composite tag)", errs.ErrOutOfBounds)

			return ListReader{}, false
		}
		tag := dstSeg.ReadPointer(addr)
		if tag.Kind() != wire.KindStruct {
			reportf(report, "layout: %v (inline composite tag)", errs.ErrMalformedListTag)

			return ListReader{}, false
		}
		count := tag.InlineCompositeCount()
		elemObjSize := tag.StructSize()
		stepWords := elemObjSize.TotalWords()
		bodyWords := val.ListElementCount()
		if uint64(stepWords)*uint64(count) != uint64(bodyWords) {
			reportf(report, "layout: %v (inline composite tag size mismatch)", errs.ErrMalformedListTag)

			return ListReader{}, false
		}
		if !dstSeg.RegionInBounds(addr+1, bodyWords) {
			reportf(report, "layout: %v (inline composite body)", errs.ErrOutOfBounds)

			return ListReader{}, false
		}
		if !limiter.CanRead(uint64(bodyWords) + 1) {
			src.ReportReadLimitReached("layout: %v reading inline composite list", errs.ErrTraversalLimit)

			return ListReader{}, false
		}

		base_.addr = (addr + 1) * wire.BytesPerWord
		base_.length = int(count)
		base_.step = stepWords * wire.BitsPerWord
		base_.structDataSize = uint32(elemObjSize.DataWords) * wire.BitsPerWord
		base_.structPointerCount = elemObjSize.PointerCount
		base_.isComposite = true

		return base_, true

	case wire.SizePointer:
		count := val.ListElementCount()
		if !dstSeg.RegionInBounds(addr, count) {
			reportf(report, "layout: %v (pointer list)", errs.ErrOutOfBounds)

			return ListReader{}, false
		}
		if !limiter.CanRead(uint64(count)) {
			src.ReportReadLimitReached("layout: %v reading pointer list", errs.ErrTraversalLimit)

			return ListReader{}, false
		}
		base_.addr = addr * wire.BytesPerWord
		base_.length = int(count)
		base_.step = wire.BitsPerPointer
		base_.structPointerCount = 1

		return base_, true

	case wire.SizeBit:
		count := val.ListElementCount()
		words, ok := checkedmath.MulElementStride(uint64(count), 1)
		if !ok {
			reportf(report, "layout: %v (bit list element count overflow)", errs.ErrOutOfBounds)

			return ListReader{}, false
		}
		if !dstSeg.RegionInBounds(addr, words) {
			reportf(report, "layout: %v (bit list)", errs.ErrOutOfBounds)

			return ListReader{}, false
		}
		if !limiter.CanRead(uint64(words)) {
			src.ReportReadLimitReached("layout: %v reading bit list", errs.ErrTraversalLimit)

			return ListReader{}, false
		}
		base_.addr = addr * wire.BytesPerWord
		base_.length = int(count)
		base_.step = 1
		base_.structDataSize = 1

		return base_, true

	default:
		bits := elemSize.BitsPerElement()
		count := val.ListElementCount()
		words, ok := checkedmath.MulElementStride(uint64(count), bits)
		if !ok {
			reportf(report, "layout: %v (list element count overflow)", errs.ErrOutOfBounds)

			return ListReader{}, false
		}
		if !dstSeg.RegionInBounds(addr, words) {
			reportf(report, "layout: %v (list)", errs.ErrOutOfBounds)

			return ListReader{}, false
		}
		if !limiter.CanRead(uint64(words)) {
			src.ReportReadLimitReached("layout: %v reading list", errs.ErrTraversalLimit)

			return ListReader{}, false
		}
		base_.addr = addr * wire.BytesPerWord
		base_.length = int(count)
		base_.step = uint32(bits)
		base_.structDataSize = uint32(bits)

		return base_, true
	}
}

func reportf(report arena.ReportFunc, format string, args ...any) {
	if report != nil {
		report(format, args...)
	}
}
