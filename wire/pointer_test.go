package wire

import "testing"

func TestNullPointer(t *testing.T) {
	if !Null.IsNull() {
		t.Fatal("Null.IsNull() = false")
	}
	if !Pointer(0).IsNull() {
		t.Fatal("zero value pointer should be null")
	}
}

func TestStructPointerRoundTrip(t *testing.T) {
	cases := []struct {
		offset int32
		sz     ObjectSize
	}{
		{0, ObjectSize{DataWords: 1, PointerCount: 1}},
		{-1, ObjectSize{DataWords: 0, PointerCount: 0}},
		{5, ObjectSize{DataWords: 0xFFFF, PointerCount: 0xFFFF}},
		{-5, ObjectSize{DataWords: 3, PointerCount: 2}},
	}

	for _, c := range cases {
		p := NewStructPointer(c.offset, c.sz)
		if p.Kind() != KindStruct {
			t.Fatalf("Kind() = %v, want STRUCT", p.Kind())
		}
		if got := p.StructOffset(); got != c.offset {
			t.Errorf("offset %d: StructOffset() = %d", c.offset, got)
		}
		if got := p.StructSize(); got != c.sz {
			t.Errorf("offset %d: StructSize() = %+v, want %+v", c.offset, got, c.sz)
		}
	}
}

func TestListPointerRoundTrip(t *testing.T) {
	cases := []struct {
		offset int32
		size   ElementSize
		count  uint32
	}{
		{0, SizeByte, 3},
		{-1, SizeVoid, 0},
		{100, SizeInlineComposite, MaxListElements},
		{-100, SizePointer, 1},
	}

	for _, c := range cases {
		p := NewListPointer(c.offset, c.size, c.count)
		if p.Kind() != KindList {
			t.Fatalf("Kind() = %v, want LIST", p.Kind())
		}
		if got := p.ListOffset(); got != c.offset {
			t.Errorf("offset %d: ListOffset() = %d", c.offset, got)
		}
		if got := p.ListElementSize(); got != c.size {
			t.Errorf("size %v: ListElementSize() = %v", c.size, got)
		}
		if got := p.ListElementCount(); got != c.count {
			t.Errorf("count %d: ListElementCount() = %d", c.count, got)
		}
	}
}

func TestFarPointerRoundTrip(t *testing.T) {
	cases := []struct {
		double   bool
		position uint32
		segID    SegmentID
	}{
		{false, 0, 0},
		{true, 1<<29 - 1, 0xFFFFFFFF},
		{false, 1234, 7},
	}

	for _, c := range cases {
		p := NewFarPointer(c.double, c.position, c.segID)
		if p.Kind() != KindFar {
			t.Fatalf("Kind() = %v, want FAR", p.Kind())
		}
		if got := p.IsDoubleFar(); got != c.double {
			t.Errorf("IsDoubleFar() = %v, want %v", got, c.double)
		}
		if got := p.FarPosition(); got != c.position {
			t.Errorf("FarPosition() = %d, want %d", got, c.position)
		}
		if got := p.FarSegmentID(); got != c.segID {
			t.Errorf("FarSegmentID() = %d, want %d", got, c.segID)
		}
	}
}

func TestElementSizeBitsPerElement(t *testing.T) {
	cases := map[ElementSize]int{
		SizeVoid:       0,
		SizeBit:        1,
		SizeByte:       8,
		SizeTwoBytes:   16,
		SizeFourBytes:  32,
		SizeEightBytes: 64,
		SizePointer:    64,
	}
	for size, want := range cases {
		if got := size.BitsPerElement(); got != want {
			t.Errorf("%v.BitsPerElement() = %d, want %d", size, got, want)
		}
	}
	if got := SizeInlineComposite.BitsPerElement(); got != -1 {
		t.Errorf("SizeInlineComposite.BitsPerElement() = %d, want -1", got)
	}
}

func TestObjectSizeMax(t *testing.T) {
	a := ObjectSize{DataWords: 1, PointerCount: 3}
	b := ObjectSize{DataWords: 2, PointerCount: 1}
	got := a.Max(b)
	want := ObjectSize{DataWords: 2, PointerCount: 3}
	if got != want {
		t.Errorf("Max() = %+v, want %+v", got, want)
	}
}
