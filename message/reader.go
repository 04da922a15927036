package message

import (
	"github.com/stratumkit/capwire/arena"
	"github.com/stratumkit/capwire/internal/options"
	"github.com/stratumkit/capwire/layout"
)

// Reader wraps a received message's segment buffers, decoded from a
// stream by ReadStream or ReadPackedStream (or constructed directly from
// application-supplied segment slices), and exposes its root struct.
//
// A Reader shares its ReadLimiter across every access, so the traversal
// budget WithTraversalLimit configures is spent across the whole message,
// not per field (§5).
type Reader struct {
	arena  *arena.ReaderArena
	cfg    *readerConfig
	loggerAdapter arena.ReportFunc
}

// NewReader wraps segments (one []byte per segment, in id order) for
// traversal.
func NewReader(segments [][]byte, opts ...ReaderOption) (*Reader, error) {
	cfg := defaultReaderConfig()
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	report := func(format string, args ...any) { cfg.logger.Printf(format, args...) }
	a := arena.NewReaderArena(segments, arena.NewReadLimiter(cfg.traversalLimitWords), report)

	return &Reader{arena: a, cfg: cfg, loggerAdapter: report}, nil
}

// Root returns the message's root struct (§4.10).
func (r *Reader) Root() layout.StructReader {
	return layout.ReadRootStruct(r.arena, r.arena.ReadLimiter(), r.cfg.nestingLimit, r.loggerAdapter)
}

// NumSegments reports how many segments the message contains.
func (r *Reader) NumSegments() int { return r.arena.NumSegments() }

// RemainingTraversalBudget reports the words left in the shared
// ReadLimiter, primarily for diagnostics and tests.
func (r *Reader) RemainingTraversalBudget() uint64 { return r.arena.ReadLimiter().Remaining() }
