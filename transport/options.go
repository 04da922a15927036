package transport

import "github.com/stratumkit/capwire/internal/options"

// config holds a codec selection for callers that want to thread one
// through the functional-options pattern (message.WriteCompressed instead
// takes a Codec directly, since it always needs exactly one).
type config struct {
	codec Codec
}

func defaultConfig() *config {
	return &config{codec: NoopCodec{}}
}

// Option configures a transport-level pipeline.
type Option = options.Option[*config]

// WithCodec selects the compressor a pipeline applies. The default is
// NoopCodec.
func WithCodec(codec Codec) Option {
	return options.NoError(func(c *config) { c.codec = codec })
}

// Resolve applies opts over the default configuration and returns the
// selected codec, letting higher-level packages accept transport.Option
// values without depending on transport's internal config type.
func Resolve(opts ...Option) (Codec, error) {
	cfg := defaultConfig()
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	return cfg.codec, nil
}

// TagFor identifies which Tag a codec corresponds to, for encoding into a
// WriteCompressed frame header. Unrecognized codecs report TagNoop's
// value paired with an ok=false so callers can decide how to handle
// custom Codec implementations.
func TagFor(codec Codec) (Tag, bool) {
	switch codec.(type) {
	case NoopCodec:
		return TagNoop, true
	case ZstdCodec:
		return TagZstd, true
	case S2Codec:
		return TagS2, true
	case LZ4Codec:
		return TagLZ4, true
	default:
		return TagNoop, false
	}
}

// CodecForTag is TagFor's inverse, used by ReadCompressed to reconstruct
// the codec that produced a frame from its tag byte.
func CodecForTag(tag Tag) (Codec, bool) {
	switch tag {
	case TagNoop:
		return NoopCodec{}, true
	case TagZstd:
		return ZstdCodec{}, true
	case TagS2:
		return S2Codec{}, true
	case TagLZ4:
		return LZ4Codec{}, true
	default:
		return nil, false
	}
}
