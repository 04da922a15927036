// Package arena implements the segment and arena layer of capwire: the
// owned, 8-byte-word-addressed buffers that struct and list layouts (see
// layout) are read from and allocated into, plus the per-message
// traversal budget that bounds adversarial input.
//
// # Segments
//
// A Segment is a contiguous byte buffer whose length is always a multiple
// of 8. A builder segment additionally tracks an allocation cursor: bytes
// [0, pos) are in use, [pos, len(data)) is free capacity available to the
// next Allocate call. A reader segment has no cursor — the entire buffer
// is considered in use, since it arrived as a complete, already-written
// message.
//
// # Arenas
//
// A BuilderArena owns the segments of a message under construction. It
// tries to satisfy every allocation from segment 0 first (the common
// single-segment case), then the most recently added segment, and only
// allocates a new segment when neither has room, sizing it via a
// pluggable SegmentAllocator.
//
// A ReaderArena wraps the segment byte buffers of a received message. It
// lazily wraps each buffer in a *Segment reader view on first access,
// guarded by a mutex so concurrent readers can safely race to populate
// the same slot (see the package's thread-safety notes below), and owns
// the ReadLimiter that every pointer dereference charges against.
//
// # Thread Safety
//
// A ReaderArena's lazy segment materialization is guarded by an internal
// lock, so a single ReaderArena may be shared across goroutines for
// read-only traversal once that first-access population has quiesced.
// A BuilderArena must not be mutated concurrently.
package arena
