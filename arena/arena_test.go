package arena

import (
	"testing"

	"github.com/stratumkit/capwire/wire"
)

func TestSegmentAllocate(t *testing.T) {
	seg := &Segment{data: make([]byte, 80)}
	addr, ok := seg.Allocate(3)
	if !ok {
		t.Fatal("Allocate(3) failed with 80 bytes free")
	}
	if addr != 0 {
		t.Errorf("first allocation addr = %d, want 0", addr)
	}
	if seg.Words() != 3 {
		t.Errorf("Words() = %d, want 3", seg.Words())
	}

	addr2, ok := seg.Allocate(5)
	if !ok || addr2 != 3 {
		t.Fatalf("Allocate(5) = (%d, %v), want (3, true)", addr2, ok)
	}

	if _, ok := seg.Allocate(3); ok {
		t.Error("Allocate(3) should fail: only 2 words left")
	}
	if _, ok := seg.Allocate(2); !ok {
		t.Error("Allocate(2) should succeed: exactly 2 words left")
	}
}

func TestSegmentAllocateZeroes(t *testing.T) {
	seg := &Segment{data: make([]byte, 16)}
	addr, _ := seg.Allocate(2)
	seg.WriteUint64(addr*8, 0xDEADBEEF)
	seg.Reset()
	addr2, _ := seg.Allocate(2)
	if addr2 != 0 {
		t.Fatalf("addr2 = %d, want 0", addr2)
	}
	if v := seg.ReadUint64(0); v != 0 {
		t.Errorf("ReadUint64(0) after Reset+Allocate = %#x, want 0", v)
	}
}

func TestSegmentPointerRoundTrip(t *testing.T) {
	seg := &Segment{data: make([]byte, 16)}
	addr, _ := seg.Allocate(2)
	p := wire.NewStructPointer(1, wire.ObjectSize{DataWords: 2, PointerCount: 1})
	seg.WritePointer(addr, p)
	if got := seg.ReadPointer(addr); got != p {
		t.Errorf("ReadPointer() = %#x, want %#x", uint64(got), uint64(p))
	}
}

func TestReadLimiterCanReadUnread(t *testing.T) {
	l := NewReadLimiter(10)
	if !l.CanRead(6) {
		t.Fatal("CanRead(6) should succeed with budget 10")
	}
	if l.Remaining() != 4 {
		t.Errorf("Remaining() = %d, want 4", l.Remaining())
	}
	if l.CanRead(5) {
		t.Fatal("CanRead(5) should fail with budget 4")
	}
	if l.Remaining() != 4 {
		t.Errorf("Remaining() after failed CanRead = %d, want 4 (unchanged)", l.Remaining())
	}
	l.Unread(6)
	if l.Remaining() != 10 {
		t.Errorf("Remaining() after Unread(6) = %d, want 10", l.Remaining())
	}
}

func TestReadLimiterUnreadSaturates(t *testing.T) {
	l := NewReadLimiter(10)
	l.Unread(^uint64(0))
	if l.Remaining() != ^uint64(0) {
		t.Errorf("Remaining() after overflow Unread = %d, want max uint64", l.Remaining())
	}
}

func TestReadLimiterNilIsUnlimited(t *testing.T) {
	var l *ReadLimiter
	if !l.CanRead(1 << 40) {
		t.Error("nil ReadLimiter should permit any read")
	}
}

func TestBuilderArenaSingleSegmentFastPath(t *testing.T) {
	a := NewBuilderArena(nil)
	seg, err := a.SegmentWithAvailable(4)
	if err != nil {
		t.Fatal(err)
	}
	if seg.ID() != 0 {
		t.Fatalf("first segment id = %d, want 0", seg.ID())
	}
	seg2, err := a.SegmentWithAvailable(4)
	if err != nil {
		t.Fatal(err)
	}
	if seg2 != seg {
		t.Error("second SegmentWithAvailable call should reuse segment 0")
	}
	if a.NumSegments() != 1 {
		t.Errorf("NumSegments() = %d, want 1", a.NumSegments())
	}
}

func TestBuilderArenaOverflowsToNewSegment(t *testing.T) {
	a := NewBuilderArena(&DefaultAllocator{FirstSegmentWords: 4, GrowthCeilingWords: 4})
	seg0, _ := a.SegmentWithAvailable(4)
	seg0.Allocate(4)

	seg1, err := a.SegmentWithAvailable(2)
	if err != nil {
		t.Fatal(err)
	}
	if seg1.ID() == seg0.ID() {
		t.Fatal("expected a new segment once segment 0 is exhausted")
	}
	if a.NumSegments() != 2 {
		t.Errorf("NumSegments() = %d, want 2", a.NumSegments())
	}
}

func TestBuilderArenaSegmentPanicsOutOfRange(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("Segment(99) on empty arena should panic")
		}
	}()
	a := NewBuilderArena(nil)
	a.Segment(99)
}

func TestReaderArenaLazyMaterialization(t *testing.T) {
	raw := [][]byte{make([]byte, 8), make([]byte, 16)}
	a := NewReaderArena(raw, NewReadLimiter(1000), nil)

	if a.NumSegments() != 2 {
		t.Fatalf("NumSegments() = %d, want 2", a.NumSegments())
	}

	seg, ok := a.TryGetSegment(1)
	if !ok {
		t.Fatal("TryGetSegment(1) should succeed")
	}
	if seg.Words() != 2 {
		t.Errorf("segment 1 Words() = %d, want 2", seg.Words())
	}

	seg2, _ := a.TryGetSegment(1)
	if seg2 != seg {
		t.Error("TryGetSegment should return the same materialized view on repeat calls")
	}

	if _, ok := a.TryGetSegment(2); ok {
		t.Error("TryGetSegment(2) should fail: only 2 segments exist")
	}
}

func TestReaderArenaReportsToHook(t *testing.T) {
	var got string
	a := NewReaderArena([][]byte{make([]byte, 8)}, NewReadLimiter(10), func(format string, args ...any) {
		got = format
	})
	a.ReportReadLimitReached("traversal limit exceeded at segment %d", 0)
	if got == "" {
		t.Error("report hook was not invoked")
	}
}
