package transport

// NoopCodec bypasses compression entirely, returning its input as-is. It
// is the default codec: a caller opts into an actual compressor with
// WithCodec only once payload sizes justify the CPU cost.
type NoopCodec struct{}

var _ Codec = NoopCodec{}

func (NoopCodec) Compress(data []byte) ([]byte, error) { return data, nil }

func (NoopCodec) Decompress(data []byte) ([]byte, error) { return data, nil }
