package message

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/stratumkit/capwire/errs"
	"github.com/stratumkit/capwire/internal/pool"
	"github.com/stratumkit/capwire/transport"
)

// WriteCompressed frames b's segments as: a 1-byte transport.Tag, a
// uint32 compressed length, and the compressed bytes. The compressed
// bytes themselves decode (after Decompress) to the packed stream
// framing of §6, so pack + WriteCompressed compose freely with any
// transport.Codec.
func WriteCompressed(w io.Writer, b *Builder, codec transport.Codec) error {
	tag, ok := transport.TagFor(codec)
	if !ok {
		return fmt.Errorf("capwire: %w for %T", errs.ErrUnknownCodec, codec)
	}

	buf := pool.GetFrameStagingBuffer()
	defer pool.PutFrameStagingBuffer(buf)

	if err := WritePackedStream(buf, b.SegmentsForOutput()); err != nil {
		return err
	}

	compressed, err := codec.Compress(buf.Bytes())
	if err != nil {
		return err
	}

	var header [5]byte
	header[0] = byte(tag)
	binary.LittleEndian.PutUint32(header[1:], uint32(len(compressed)))

	if _, err := w.Write(header[:]); err != nil {
		return err
	}
	_, err = w.Write(compressed)

	return err
}

// ReadCompressed reverses WriteCompressed, dispatching to the codec named
// by the frame's tag byte.
func ReadCompressed(r io.Reader) ([][]byte, error) {
	var header [5]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, err
	}

	codec, ok := transport.CodecForTag(transport.Tag(header[0]))
	if !ok {
		return nil, fmt.Errorf("capwire: %w %d", errs.ErrUnknownCodec, header[0])
	}

	length := binary.LittleEndian.Uint32(header[1:])
	compressed := make([]byte, length)
	if _, err := io.ReadFull(r, compressed); err != nil {
		return nil, err
	}

	raw, err := codec.Decompress(compressed)
	if err != nil {
		return nil, err
	}

	return ReadPackedStream(&bytesReader{raw})
}

// bytesReader adapts a byte slice to io.Reader without pulling in
// bytes.Reader's seeking API, which this package never needs.
type bytesReader struct {
	data []byte
}

func (r *bytesReader) Read(p []byte) (int, error) {
	if len(r.data) == 0 {
		return 0, io.EOF
	}
	n := copy(p, r.data)
	r.data = r.data[n:]

	return n, nil
}
