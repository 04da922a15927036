package arena

import (
	"encoding/binary"

	"github.com/stratumkit/capwire/wire"
)

// Segment is an 8-byte-word-addressed buffer belonging to one message.
// Builder segments track an allocation cursor; reader segments treat the
// entire buffer as in-use.
type Segment struct {
	id       wire.SegmentID
	data     []byte // capacity for builders, exact content for readers
	pos      int    // bytes in use; builders only
	readOnly bool
}

// ID returns the segment's id within its arena.
func (s *Segment) ID() wire.SegmentID {
	return s.id
}

// Data returns the in-use prefix of the segment's bytes: [0, pos) for a
// builder segment, the entire buffer for a reader segment.
func (s *Segment) Data() []byte {
	if s.readOnly {
		return s.data
	}

	return s.data[:s.pos]
}

// Words returns the number of whole words currently in use.
func (s *Segment) Words() uint32 {
	return uint32(len(s.Data()) / wire.BytesPerWord)
}

// RegionInBounds reports whether the word range [addr, addr+sizeWords)
// lies entirely within the segment's in-use extent.
func (s *Segment) RegionInBounds(addr uint32, sizeWords uint32) bool {
	end := uint64(addr) + uint64(sizeWords)

	return end <= uint64(s.Words())
}

// RegionInBoundsBytes is the byte-granular counterpart to RegionInBounds,
// used for struct data sections and list element storage which need not
// be struct/list-pointer-aligned to a full word boundary at every access.
func (s *Segment) RegionInBoundsBytes(byteAddr uint32, sizeBytes uint32) bool {
	end := uint64(byteAddr) + uint64(sizeBytes)

	return end <= uint64(len(s.Data()))
}

// ReadPointer reads the WirePointer at word address addr. The caller must
// have already validated bounds via RegionInBounds.
func (s *Segment) ReadPointer(addr uint32) wire.Pointer {
	off := int(addr) * wire.BytesPerWord

	return wire.Pointer(binary.LittleEndian.Uint64(s.Data()[off : off+8]))
}

// WritePointer writes p at word address addr.
func (s *Segment) WritePointer(addr uint32, p wire.Pointer) {
	off := int(addr) * wire.BytesPerWord
	binary.LittleEndian.PutUint64(s.dataMut()[off:off+8], uint64(p))
}

// dataMut returns the full backing buffer for mutation, including the
// currently-unused capacity beyond pos (never valid to call on a reader
// segment).
func (s *Segment) dataMut() []byte {
	return s.data
}

// ReadUint64 / ReadUint32 / ReadUint16 / ReadUint8 read a little-endian
// scalar at the given byte offset within the segment's data section.
func (s *Segment) ReadUint64(byteOffset uint32) uint64 {
	return binary.LittleEndian.Uint64(s.Data()[byteOffset : byteOffset+8])
}

func (s *Segment) ReadUint32(byteOffset uint32) uint32 {
	return binary.LittleEndian.Uint32(s.Data()[byteOffset : byteOffset+4])
}

func (s *Segment) ReadUint16(byteOffset uint32) uint16 {
	return binary.LittleEndian.Uint16(s.Data()[byteOffset : byteOffset+2])
}

func (s *Segment) ReadUint8(byteOffset uint32) uint8 {
	return s.Data()[byteOffset]
}

func (s *Segment) WriteUint64(byteOffset uint32, v uint64) {
	binary.LittleEndian.PutUint64(s.dataMut()[byteOffset:byteOffset+8], v)
}

func (s *Segment) WriteUint32(byteOffset uint32, v uint32) {
	binary.LittleEndian.PutUint32(s.dataMut()[byteOffset:byteOffset+4], v)
}

func (s *Segment) WriteUint16(byteOffset uint32, v uint16) {
	binary.LittleEndian.PutUint16(s.dataMut()[byteOffset:byteOffset+2], v)
}

func (s *Segment) WriteUint8(byteOffset uint32, v uint8) {
	s.dataMut()[byteOffset] = v
}

// Available returns the number of free words remaining in a builder
// segment. Always zero for a reader segment.
func (s *Segment) Available() uint32 {
	if s.readOnly {
		return 0
	}

	return uint32((len(s.data) - s.pos) / wire.BytesPerWord)
}

// Allocate reserves n words at the current cursor, zeroing them and
// advancing pos. It returns the word address of the allocation and false
// if the segment does not have n words free.
func (s *Segment) Allocate(n uint32) (uint32, bool) {
	if s.readOnly {
		return 0, false
	}
	need := int(n) * wire.BytesPerWord
	if len(s.data)-s.pos < need {
		return 0, false
	}
	addr := uint32(s.pos / wire.BytesPerWord)
	clear(s.data[s.pos : s.pos+need])
	s.pos += need

	return addr, true
}

// Reset zeroes the in-use prefix and rewinds the allocation cursor to
// zero, allowing the same backing storage to be reused for a fresh
// build.
func (s *Segment) Reset() {
	if s.readOnly {
		return
	}
	clear(s.data[:s.pos])
	s.pos = 0
}

// ZeroRange zeroes sizeWords words starting at word address addr. Used by
// the recursive zero-out that follows overwriting a builder pointer.
func (s *Segment) ZeroRange(addr uint32, sizeWords uint32) {
	off := int(addr) * wire.BytesPerWord
	n := int(sizeWords) * wire.BytesPerWord
	clear(s.data[off : off+n])
}
