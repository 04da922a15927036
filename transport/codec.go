// Package transport wires a secondary, general-purpose compression layer
// on top of the wire format's own packing codec (§4.9, see the pack
// package). Packing exploits the specific zero/nonzero byte structure of
// segment words; it does not chase the general redundancy a real corpus
// of messages exhibits across repeated schema names, string fields, and
// structurally similar records. transport.Codec lets a caller layer any
// of the standard byte-oriented compressors over an already-packed
// message stream (§6's "Packed framing") for that additional win, at the
// caller's discretion.
package transport

// Compressor compresses an arbitrary byte payload — in this module's use,
// the output of message.WriteStream or message.WritePackedStream.
type Compressor interface {
	Compress(data []byte) ([]byte, error)
}

// Decompressor reverses a Compressor's transform.
type Decompressor interface {
	Decompress(data []byte) ([]byte, error)
}

// Codec combines both directions. Every concrete codec in this package
// implements it.
type Codec interface {
	Compressor
	Decompressor
}

// Tag identifies which Codec produced a compressed frame (see
// message.WriteCompressed), so a receiver configured with several supported codecs can
// dispatch without out-of-band negotiation.
type Tag uint8

const (
	TagNoop Tag = iota
	TagZstd
	TagS2
	TagLZ4
)

func (t Tag) String() string {
	switch t {
	case TagNoop:
		return "noop"
	case TagZstd:
		return "zstd"
	case TagS2:
		return "s2"
	case TagLZ4:
		return "lz4"
	default:
		return "unknown"
	}
}
