package transport

import "github.com/klauspost/compress/s2"

// S2Codec applies klauspost/compress's S2 format: a Snappy-compatible
// codec tuned for throughput over ratio, well suited to compressing
// packed message frames on the hot path of a request/response server.
type S2Codec struct{}

var _ Codec = S2Codec{}

func (S2Codec) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	return s2.Encode(nil, data), nil
}

func (S2Codec) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	return s2.Decode(nil, data)
}
