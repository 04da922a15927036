// Package checkedmath provides overflow-checked arithmetic over word and
// byte addresses.
//
// Every bounds check in arena and layout ultimately reduces to adding an
// offset to a base address or multiplying an element count by a stride,
// both of which can overflow a 32-bit address space on hostile or
// corrupted input. Centralizing the checked variants here keeps that
// arithmetic auditable in one place instead of scattered across bounds
// checks.
package checkedmath

import "math"

// AddUint32 returns a+b and reports whether the addition overflowed
// uint32.
func AddUint32(a, b uint32) (uint32, bool) {
	sum := a + b
	if sum < a {
		return 0, false
	}

	return sum, true
}

// MulUint32 returns a*b and reports whether the multiplication overflowed
// uint32.
func MulUint32(a, b uint32) (uint32, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	product := a * b
	if product/a != b {
		return 0, false
	}

	return product, true
}

// WordsToBytes converts a word count to a byte count, reporting overflow
// if the result would not fit in a uint32.
func WordsToBytes(words uint32) (uint32, bool) {
	if words > math.MaxUint32/8 {
		return 0, false
	}

	return words * 8, true
}

// AddOffset applies a WirePointer's signed word offset to a base word
// address, reporting overflow/underflow rather than wrapping. This is the
// arithmetic every near-pointer dereference in layout performs.
func AddOffset(base uint32, offset int32) (uint32, bool) {
	target := int64(base) + int64(offset)
	if target < 0 || target > int64(math.MaxUint32) {
		return 0, false
	}

	return uint32(target), true
}

// MulElementStride multiplies an element count by a per-element bit width
// and rounds up to a whole word count, reporting overflow. Used wherever a
// list's declared element count and stride, both attacker-controlled on
// the read path, combine into a body size.
func MulElementStride(count uint64, bitsPerElement int) (words uint32, ok bool) {
	totalBits := count * uint64(bitsPerElement)
	wordCount := (totalBits + 63) / 64
	if wordCount > math.MaxUint32 {
		return 0, false
	}

	return uint32(wordCount), true
}
