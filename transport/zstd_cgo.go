//go:build gozstd

package transport

import "github.com/valyala/gozstd"

// gozstdLevel favors ratio over speed, matching ZstdCodec's stated
// tradeoff versus S2/LZ4.
const gozstdLevel = 3

func (ZstdCodec) Compress(data []byte) ([]byte, error) {
	return gozstd.CompressLevel(nil, data, gozstdLevel), nil
}

func (ZstdCodec) Decompress(data []byte) ([]byte, error) {
	return gozstd.Decompress(nil, data)
}
