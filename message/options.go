package message

import (
	"github.com/stratumkit/capwire/arena"
	"github.com/stratumkit/capwire/internal/options"
	"github.com/stratumkit/capwire/layout"
)

// readerConfig collects the tunables a Reader is built from. It is
// unexported: callers configure a Reader exclusively through ReaderOption
// values passed to NewReader, matching the pattern internal/options
// establishes for the rest of this module's configurable types.
type readerConfig struct {
	traversalLimitWords uint64
	nestingLimit        int
	logger              Logger
	allocator           arena.SegmentAllocator
}

func defaultReaderConfig() *readerConfig {
	return &readerConfig{
		traversalLimitWords: arena.DefaultTraversalLimitWords,
		nestingLimit:        layout.DefaultNestingLimit,
		logger:              DefaultLogger,
	}
}

// ReaderOption configures a Reader constructed by NewReader.
type ReaderOption = options.Option[*readerConfig]

// WithTraversalLimit overrides the default per-message traversal budget
// (in words) a Reader enforces via its arena.ReadLimiter.
func WithTraversalLimit(words uint64) ReaderOption {
	return options.NoError(func(c *readerConfig) { c.traversalLimitWords = words })
}

// WithNestingLimit overrides the default maximum pointer-dereference
// depth a Reader will follow before substituting defaults.
func WithNestingLimit(depth int) ReaderOption {
	return options.NoError(func(c *readerConfig) { c.nestingLimit = depth })
}

// WithLogger routes a Reader's validation-failure diagnostics to logger
// instead of the default no-op.
func WithLogger(logger Logger) ReaderOption {
	return options.NoError(func(c *readerConfig) {
		if logger != nil {
			c.logger = logger
		}
	})
}

// builderConfig collects the tunables a Builder is built from.
type builderConfig struct {
	allocator arena.SegmentAllocator
}

func defaultBuilderConfig() *builderConfig {
	return &builderConfig{}
}

// BuilderOption configures a Builder constructed by NewBuilder.
type BuilderOption = options.Option[*builderConfig]

// WithAllocator overrides a Builder's segment growth policy, which
// otherwise defaults to arena.NewDefaultAllocator().
func WithAllocator(alloc arena.SegmentAllocator) BuilderOption {
	return options.NoError(func(c *builderConfig) { c.allocator = alloc })
}
