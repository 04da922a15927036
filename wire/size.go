package wire

import "github.com/stratumkit/capwire/errs"

// SegmentID identifies a segment within a single message's arena.
// Segment ids are dense from 0 upward; segment 0 is the root segment.
type SegmentID uint32

// Fundamental unit constants. These are load-bearing for every offset
// calculation in arena and layout; see the package-level docs there.
const (
	BytesPerWord    = 8
	BitsPerWord     = BytesPerWord * 8
	WordsPerPointer = 1
	BitsPerPointer  = WordsPerPointer * BitsPerWord
)

// Maximum sizes permitted by the wire format.
const (
	MaxListElements         = 1<<29 - 1 // 29-bit element count field
	MaxInlineCompositeWords = 1<<29 - 1
	MaxStructSectionWords   = 1<<16 - 1 // 16-bit data-section word count
	MaxStructPointerCount   = 1<<16 - 1 // 16-bit pointer-section count
)

// ObjectSize is the size of a struct's data and pointer sections, in
// whole words each. It is also used, with PointerCount forced to zero, to
// describe the element stride of a non-pointer, non-composite list.
type ObjectSize struct {
	DataWords    uint16
	PointerCount uint16
}

// TotalWords returns the combined size of the data and pointer sections.
func (sz ObjectSize) TotalWords() uint32 {
	return uint32(sz.DataWords) + uint32(sz.PointerCount)
}

// IsZero reports whether the object occupies no storage at all.
func (sz ObjectSize) IsZero() bool {
	return sz.DataWords == 0 && sz.PointerCount == 0
}

// Max returns the element-wise maximum of sz and other, used when
// upgrading a struct or struct list to a larger schema (§4.5).
func (sz ObjectSize) Max(other ObjectSize) ObjectSize {
	out := sz
	if other.DataWords > out.DataWords {
		out.DataWords = other.DataWords
	}
	if other.PointerCount > out.PointerCount {
		out.PointerCount = other.PointerCount
	}

	return out
}

// CheckListCount validates an element count against the wire format's
// 29-bit list count field.
func CheckListCount(count int) error {
	if count < 0 || count > MaxListElements {
		return errs.ErrListTooLarge
	}

	return nil
}
