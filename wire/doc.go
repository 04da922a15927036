// Package wire defines the low-level binary structures and constants of the
// capwire message format: the 8-byte tagged WirePointer, struct and list
// object sizes, and the bit-level layout every other package builds on.
//
// This package provides the foundational types that define the physical
// layout of a capwire message. It has no notion of a segment, an arena, or
// a reader/builder lifetime — it only knows how to pack and unpack the
// 64-bit words that make up a pointer. Those higher-level concerns live in
// arena and layout.
//
// # Pointer Layout
//
// A WirePointer is one little-endian word (8 bytes):
//
//	┌─────────────────────────────────────────────────────────┐
//	│ Bits 0-1: kind (STRUCT=0, LIST=1, FAR=2, RESERVED=3)     │
//	├─────────────────────────────────────────────────────────┤
//	│ STRUCT / LIST (non-far):                                 │
//	│   Bits 2-31  : signed word offset (bias -1)              │
//	│   Bits 32-63 : STRUCT: data words (16) | ptr count (16)  │
//	│                LIST:   elementSize (3) | count (29)      │
//	├─────────────────────────────────────────────────────────┤
//	│ FAR:                                                      │
//	│   Bit 2      : isDoubleFar                                │
//	│   Bits 3-31  : unsigned word position in target segment   │
//	│   Bits 32-63 : target SegmentID                           │
//	└─────────────────────────────────────────────────────────┘
//
// The offset field is biased by -1: it counts words from the word
// immediately following the pointer itself, so that the common case of a
// pointer immediately followed by its referent encodes as offset 0.
//
// A pointer is null iff both 32-bit halves of the word are zero — this is
// indistinguishable from (and deliberately reused as) a pointer to a
// zero-sized struct.
//
// # Inline Composite Lists
//
// A LIST pointer whose elementSize is INLINE_COMPOSITE does not point
// directly at element 0. Instead it points at one extra tag word, itself a
// WirePointer-shaped value with kind STRUCT, whose "offset" field carries
// the element count and whose upper 32 bits carry the per-element data
// word count and pointer count. The actual elements begin in the word
// immediately following the tag.
//
// # Far Pointers
//
// A FAR pointer never refers to data directly; it always refers to a
// landing pad. A single-far landing pad is one ordinary (STRUCT or LIST)
// pointer living at the given word position in the given segment. A
// double-far landing pad is two consecutive words: the first is itself a
// FAR pointer at the true target, the second carries the kind and upper
// 32 bits that the logical pointer would have carried had it pointed
// there directly (its offset field is always zero, since it is placed
// immediately before its referent by construction).
package wire
