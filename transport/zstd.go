package transport

// ZstdCodec applies Zstandard compression, favoring ratio over speed —
// suited to archival storage of packed messages or wide-area links where
// bandwidth costs more than CPU. Its Compress/Decompress methods live in
// zstd_pure.go (pure-Go, klauspost/compress/zstd, the default) and
// zstd_cgo.go (cgo, valyala/gozstd, opt-in via the "gozstd" build tag for
// deployments that can pay the cgo cost for a faster codec).
type ZstdCodec struct{}

var _ Codec = ZstdCodec{}
