// Package pool provides sync.Pool-backed reuse of scratch byte buffers.
//
// Packing/unpacking staging space (pack) and compressed-frame staging
// space (message.WriteCompressed) are both short-lived, written once and drained before
// the next Get, and sized differently on every call. Pooling them avoids a
// fresh allocation on every message built or decoded. Buffers that end up
// owned by the caller past a single call — a segment's backing array, a
// codec's decompressed output — are never pooled here, since a caller can
// retain those indefinitely and a reused buffer would corrupt them.
package pool

import (
	"io"
	"sync"
)

// Default and threshold sizes for the package's two staging pools.
const (
	PackStagingBufferDefaultSize   = 1024 * 16       // 16KiB, sized for a typical single-segment message
	PackStagingBufferMaxThreshold  = 1024 * 128      // 128KiB
	FrameStagingBufferDefaultSize  = 1024 * 64       // 64KiB, sized for a packed stream awaiting compression
	FrameStagingBufferMaxThreshold = 1024 * 1024 * 8 // 8MiB
)

// ByteBuffer is a growable []byte wrapper sized for reuse through
// ByteBufferPool: staging space that is written to once and drained (via
// Bytes or WriteTo) before the next Get, never retained by the caller
// past that point.
type ByteBuffer struct {
	B []byte
}

// NewByteBuffer creates a new ByteBuffer with the specified default size.
func NewByteBuffer(defaultSize int) *ByteBuffer {
	return &ByteBuffer{
		B: make([]byte, 0, defaultSize),
	}
}

// Bytes returns the underlying byte slice.
func (bb *ByteBuffer) Bytes() []byte {
	return bb.B
}

// Reset resets the buffer to be empty, but retains the allocated memory for reuse.
func (bb *ByteBuffer) Reset() {
	bb.B = bb.B[:0]
}

// Len returns the length of the buffer.
func (bb *ByteBuffer) Len() int {
	return len(bb.B)
}

// MustWrite writes data to the buffer, growing it if necessary.
func (bb *ByteBuffer) MustWrite(data []byte) {
	bb.B = append(bb.B, data...)
}

// Grow ensures the buffer can hold requiredBytes more bytes without
// reallocating. Small buffers grow by a fixed increment; larger ones grow
// by a quarter of their current capacity, to bound reallocation count on
// the streaming write paths (pack.Writer, message.WriteCompressed) that
// call it incrementally.
func (bb *ByteBuffer) Grow(requiredBytes int) {
	available := cap(bb.B) - len(bb.B)
	if available >= requiredBytes {
		return
	}

	growBy := PackStagingBufferDefaultSize
	if cap(bb.B) > 4*PackStagingBufferDefaultSize {
		growBy = cap(bb.B) / 4
	}
	if growBy < requiredBytes {
		growBy = requiredBytes
	}

	newBuf := make([]byte, len(bb.B), len(bb.B)+growBy)
	copy(newBuf, bb.B)
	bb.B = newBuf
}

// Write appends the contents of data to the buffer, growing it as needed.
func (bb *ByteBuffer) Write(data []byte) (int, error) {
	bb.Grow(len(data))
	bb.B = append(bb.B, data...)

	return len(data), nil
}

// WriteTo writes the contents of the buffer to w.
func (bb *ByteBuffer) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(bb.B)

	return int64(n), err
}

// ByteBufferPool pools ByteBuffers of a given default size, discarding
// (rather than retaining) any buffer that has grown past maxThreshold, so
// one oversized message can't permanently bloat the pool.
type ByteBufferPool struct {
	pool         sync.Pool
	maxThreshold int
}

// NewByteBufferPool creates a new ByteBufferPool with buffers of the
// specified default size.
func NewByteBufferPool(defaultSize int, maxThreshold int) *ByteBufferPool {
	return &ByteBufferPool{
		pool: sync.Pool{
			New: func() any { return NewByteBuffer(defaultSize) },
		},
		maxThreshold: maxThreshold,
	}
}

// Get retrieves a ByteBuffer from the pool.
func (bbp *ByteBufferPool) Get() *ByteBuffer {
	bb, _ := bbp.pool.Get().(*ByteBuffer)

	return bb
}

// Put returns a ByteBuffer to the pool for reuse.
func (bbp *ByteBufferPool) Put(bb *ByteBuffer) {
	if bb == nil {
		return
	}
	if bbp.maxThreshold > 0 && cap(bb.B) > bbp.maxThreshold {
		return
	}

	bb.Reset()
	bbp.pool.Put(bb)
}

var (
	packStagingPool  = NewByteBufferPool(PackStagingBufferDefaultSize, PackStagingBufferMaxThreshold)
	frameStagingPool = NewByteBufferPool(FrameStagingBufferDefaultSize, FrameStagingBufferMaxThreshold)
)

// GetPackStagingBuffer retrieves a staging buffer sized for pack.Writer's
// accumulated-but-not-yet-packed byte window.
func GetPackStagingBuffer() *ByteBuffer {
	return packStagingPool.Get()
}

// PutPackStagingBuffer returns a buffer obtained from GetPackStagingBuffer.
func PutPackStagingBuffer(bb *ByteBuffer) {
	packStagingPool.Put(bb)
}

// GetFrameStagingBuffer retrieves a staging buffer sized for holding a
// packed message stream ahead of a transport.Codec compression pass (see
// message.WriteCompressed).
func GetFrameStagingBuffer() *ByteBuffer {
	return frameStagingPool.Get()
}

// PutFrameStagingBuffer returns a buffer obtained from GetFrameStagingBuffer.
func PutFrameStagingBuffer(bb *ByteBuffer) {
	frameStagingPool.Put(bb)
}
