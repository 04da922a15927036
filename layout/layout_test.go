package layout_test

import (
	"testing"

	"github.com/stratumkit/capwire/arena"
	"github.com/stratumkit/capwire/layout"
	"github.com/stratumkit/capwire/wire"
	"github.com/stretchr/testify/require"
)

func newBuilderArena() *arena.BuilderArena {
	return arena.NewBuilderArena(nil)
}

// readBack round-trips a builder arena's output through a ReaderArena,
// mirroring what message.Reader does internally, without depending on
// the message package (kept independent to isolate layout-level defects).
func readBack(t *testing.T, b *arena.BuilderArena) layout.StructReader {
	t.Helper()

	segs := b.SegmentsForOutput()
	raw := make([][]byte, len(segs))
	for i, s := range segs {
		cp := make([]byte, len(s))
		copy(cp, s)
		raw[i] = cp
	}

	ra := arena.NewReaderArena(raw, arena.NewReadLimiter(arena.DefaultTraversalLimitWords), nil)

	return layout.ReadRootStruct(ra, ra.ReadLimiter(), layout.DefaultNestingLimit, nil)
}

func TestStructFieldUpgradeGrowsAndPreservesData(t *testing.T) {
	b := newBuilderArena()
	root := layout.NewRootStructAt(b, mustSegment(b), 0, wire.ObjectSize{DataWords: 0, PointerCount: 1})

	narrow := root.NewStructField(0, wire.ObjectSize{DataWords: 1, PointerCount: 0})
	narrow.SetUint64(0, 7, 0)

	wide := root.StructField(0, wire.ObjectSize{DataWords: 2, PointerCount: 1})
	require.Equal(t, uint32(2*wire.BitsPerWord), wide.DataSize())
	require.Equal(t, 1, wide.PointerCount())
	require.Equal(t, uint64(7), wide.AsReader().GetUint64(0, 0))

	wide.SetUint64(64, 99, 0)

	got := readBack(t, b)
	inner := got.StructField(0, layout.StructReader{})
	require.Equal(t, uint64(7), inner.GetUint64(0, 0))
	require.Equal(t, uint64(99), inner.GetUint64(64, 0))
}

func TestStructListUpgradePreservesElements(t *testing.T) {
	b := newBuilderArena()
	root := layout.NewRootStructAt(b, mustSegment(b), 0, wire.ObjectSize{DataWords: 0, PointerCount: 1})

	oldSz := wire.ObjectSize{DataWords: 1, PointerCount: 0}
	list := root.NewStructListField(0, 4, oldSz)
	for i := 0; i < 4; i++ {
		list.GetStructElement(i).SetUint64(0, uint64(i+1), 0)
	}

	newSz := wire.ObjectSize{DataWords: 2, PointerCount: 1}
	upgraded := root.StructListField(0, 4, newSz)
	require.Equal(t, 4, upgraded.Len())

	for i := 0; i < 4; i++ {
		elem := upgraded.GetStructElement(i)
		require.Equal(t, uint64(i+1), elem.AsReader().GetUint64(0, 0))
	}

	got := readBack(t, b)
	lr := got.ListField(0, layout.ListReader{})
	require.Equal(t, 4, lr.Len())
	for i := 0; i < 4; i++ {
		elem := lr.GetStructElement(i)
		require.Equal(t, uint64(i+1), elem.GetUint64(0, 0))
		require.True(t, elem.ObjectField(0).IsNull())
	}
}

func TestTextAndDataFields(t *testing.T) {
	b := newBuilderArena()
	root := layout.NewRootStructAt(b, mustSegment(b), 0, wire.ObjectSize{DataWords: 0, PointerCount: 2})
	root.NewTextField(0, "hello")
	root.NewDataField(1, []byte{1, 2, 3, 4})

	got := readBack(t, b)
	require.Equal(t, "hello", got.TextField(0, ""))
	require.Equal(t, []byte{1, 2, 3, 4}, got.DataField(1, nil))
}

func TestClearFieldZeroesSubtree(t *testing.T) {
	b := newBuilderArena()
	root := layout.NewRootStructAt(b, mustSegment(b), 0, wire.ObjectSize{DataWords: 0, PointerCount: 1})
	root.NewTextField(0, "gone")
	root.ClearField(0)

	got := readBack(t, b)
	require.Equal(t, "", got.TextField(0, ""))
}

// TestClearFieldZeroesSubtreeBytes checks the §8 property that
// TestClearFieldZeroesSubtree's name promises but never verifies: not just
// that the field reads back empty, but that every byte of the text
// object's former storage is actually zero in the segment, so no stale
// content survives to leak through SegmentsForOutput or defeat the
// packing codec's zero-elision. Word 0 of the segment is the root pointer,
// which still names the root struct after the clear, so the check covers
// every byte from word 1 on: the cleared pointer slot and the text body.
func TestClearFieldZeroesSubtreeBytes(t *testing.T) {
	b := newBuilderArena()
	root := layout.NewRootStructAt(b, mustSegment(b), 0, wire.ObjectSize{DataWords: 0, PointerCount: 1})
	root.NewTextField(0, "gone")

	before := b.SegmentsForOutput()[0]
	sawNonZero := false
	for _, v := range before[wire.BytesPerWord:] {
		if v != 0 {
			sawNonZero = true

			break
		}
	}
	require.True(t, sawNonZero, "test setup did not actually write non-zero bytes")

	root.ClearField(0)

	after := b.SegmentsForOutput()[0]
	for i, v := range after[wire.BytesPerWord:] {
		require.Zerof(t, v, "byte %d of segment still non-zero after ClearField", i+wire.BytesPerWord)
	}
}

func mustSegment(b *arena.BuilderArena) *arena.Segment {
	seg, _ := b.SegmentWithAvailable(1)
	seg.Allocate(1)

	return seg
}
