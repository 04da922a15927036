package arena

import (
	"fmt"
	"sync"

	"github.com/stratumkit/capwire/errs"
	"github.com/stratumkit/capwire/wire"
)

// SegmentAllocator decides how large a freshly allocated segment should
// be, given the segments a BuilderArena already holds and the minimum
// word count the caller needs satisfied.
type SegmentAllocator interface {
	// NextSize returns the number of words to allocate for a new
	// segment. It must return at least minWords.
	NextSize(existingSegments int, minWords uint32) uint32
}

// DefaultAllocator doubles a fixed first-segment size on every additional
// segment, subject to a ceiling, matching the growth policy commonly used
// for arena-style allocators.
type DefaultAllocator struct {
	FirstSegmentWords uint32
	GrowthCeilingWords uint32
}

// NewDefaultAllocator returns a DefaultAllocator with reasonable defaults:
// a 1024-word (8 KiB) first segment doubling up to a 128K-word (1 MiB)
// ceiling.
func NewDefaultAllocator() *DefaultAllocator {
	return &DefaultAllocator{FirstSegmentWords: 1024, GrowthCeilingWords: 128 * 1024}
}

func (a *DefaultAllocator) NextSize(existingSegments int, minWords uint32) uint32 {
	size := a.FirstSegmentWords
	for i := 0; i < existingSegments && size < a.GrowthCeilingWords; i++ {
		size *= 2
	}
	if size > a.GrowthCeilingWords {
		size = a.GrowthCeilingWords
	}
	if size < minWords {
		size = minWords
	}

	return size
}

// BuilderArena owns the segments of a message under construction.
type BuilderArena struct {
	segments  []*Segment
	allocator SegmentAllocator
	limiter   *ReadLimiter
}

// NewBuilderArena creates an empty BuilderArena using the given
// allocator, or NewDefaultAllocator() if alloc is nil.
func NewBuilderArena(alloc SegmentAllocator) *BuilderArena {
	if alloc == nil {
		alloc = NewDefaultAllocator()
	}

	return &BuilderArena{allocator: alloc, limiter: NewUnlimitedReadLimiter()}
}

// ReadLimiter returns the arena's (unlimited) read limiter, so builder
// code can share the same layout traversal helpers readers use.
func (a *BuilderArena) ReadLimiter() *ReadLimiter { return a.limiter }

// NumSegments reports how many segments the arena currently holds.
func (a *BuilderArena) NumSegments() int { return len(a.segments) }

// Segment returns the segment with the given id. It panics if id is out
// of range: valid ids in builder code are always produced by the arena
// itself, so an out-of-range id is a programmer error (§7, precondition
// violation).
func (a *BuilderArena) Segment(id wire.SegmentID) *Segment {
	if int(id) >= len(a.segments) {
		panic(fmt.Errorf("arena: segment %d: %w", id, errs.ErrSegmentNotFound))
	}

	return a.segments[id]
}

// SegmentWithAvailable returns a segment with at least n words free,
// allocating a new one if neither segment 0 nor the most recently added
// segment has room.
func (a *BuilderArena) SegmentWithAvailable(n uint32) (*Segment, error) {
	if len(a.segments) == 0 {
		return a.addSegment(n), nil
	}
	if s := a.segments[0]; s.Available() >= n {
		return s, nil
	}
	if last := a.segments[len(a.segments)-1]; last.Available() >= n {
		return last, nil
	}

	return a.addSegment(n), nil
}

func (a *BuilderArena) addSegment(minWords uint32) *Segment {
	size := a.allocator.NextSize(len(a.segments), minWords+wire.WordsPerPointer)
	seg := &Segment{
		id:   wire.SegmentID(len(a.segments)),
		data: make([]byte, int(size)*wire.BytesPerWord),
	}
	a.segments = append(a.segments, seg)

	return seg
}

// SegmentsForOutput returns the in-use prefix of every segment, in id
// order, ready for framing (see message.WriteStream).
func (a *BuilderArena) SegmentsForOutput() [][]byte {
	out := make([][]byte, len(a.segments))
	for i, seg := range a.segments {
		out[i] = seg.Data()
	}

	return out
}

// ReportFunc is a diagnostics hook invoked when a ReaderArena encounters
// a recoverable validation failure. It defaults to a no-op; message.Reader
// wires it to an injectable Logger.
type ReportFunc func(format string, args ...any)

// ReaderArena wraps the segment byte buffers of a received message,
// lazily materializing Segment reader views on first access.
type ReaderArena struct {
	mu       sync.Mutex
	raw      [][]byte
	segments []*Segment
	limiter  *ReadLimiter
	report   ReportFunc
}

// NewReaderArena wraps raw segment buffers for traversal. limiter must be
// non-nil; use NewReadLimiter(DefaultTraversalLimitWords) for the
// specification's default budget. report may be nil, in which case
// validation failures are reported nowhere.
func NewReaderArena(raw [][]byte, limiter *ReadLimiter, report ReportFunc) *ReaderArena {
	if report == nil {
		report = func(string, ...any) {}
	}

	return &ReaderArena{
		raw:      raw,
		segments: make([]*Segment, len(raw)),
		limiter:  limiter,
		report:   report,
	}
}

// ReadLimiter returns the arena's traversal budget.
func (a *ReaderArena) ReadLimiter() *ReadLimiter { return a.limiter }

// NumSegments reports how many segments the message contains.
func (a *ReaderArena) NumSegments() int { return len(a.raw) }

// TryGetSegment returns the reader view for id, materializing it on first
// access. The second return value is false if id names no segment in
// this message.
func (a *ReaderArena) TryGetSegment(id wire.SegmentID) (*Segment, bool) {
	if int(id) >= len(a.raw) {
		return nil, false
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.segments[id] == nil {
		a.segments[id] = &Segment{id: id, data: a.raw[id], readOnly: true}
	}

	return a.segments[id], true
}

// ReportReadLimitReached records a recoverable validation failure via the
// arena's diagnostics hook.
func (a *ReaderArena) ReportReadLimitReached(format string, args ...any) {
	a.report(format, args...)
}
