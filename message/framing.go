package message

import (
	"encoding/binary"
	"io"

	"github.com/stratumkit/capwire/errs"
	"github.com/stratumkit/capwire/internal/checkedmath"
	"github.com/stratumkit/capwire/pack"
	"github.com/stratumkit/capwire/wire"
)

// WriteStream writes segments to w using the unpacked stream framing
// (§6): a uint32 segmentCount-1, followed by segmentCount uint32 segment
// sizes in words, padded with a single zero uint32 when segmentCount is
// even so the header ends on a word boundary, followed by the segment
// bodies concatenated in id order.
func WriteStream(w io.Writer, segments [][]byte) error {
	header := streamHeader(segments)
	if _, err := w.Write(header); err != nil {
		return err
	}
	for _, seg := range segments {
		if _, err := w.Write(seg); err != nil {
			return err
		}
	}

	return nil
}

func streamHeader(segments [][]byte) []byte {
	n := len(segments)
	words := 1 + n
	if n%2 == 0 {
		words++
	}
	buf := make([]byte, words*4)
	binary.LittleEndian.PutUint32(buf[0:4], uint32(n-1))
	for i, seg := range segments {
		binary.LittleEndian.PutUint32(buf[4+i*4:8+i*4], uint32(len(seg)/wire.BytesPerWord))
	}

	return buf
}

// MaxStreamSegments bounds the segment count a ReadStream header may
// declare, guarding against a hostile header claiming an enormous
// segment table before any body bytes have been validated.
const MaxStreamSegments = 1 << 20

// ReadStream reads a message previously written by WriteStream, returning
// its segments in id order. It bounds the declared segment count against
// MaxStreamSegments before allocating anything sized from it.
func ReadStream(r io.Reader) ([][]byte, error) {
	var countBuf [4]byte
	if _, err := io.ReadFull(r, countBuf[:]); err != nil {
		return nil, err
	}
	n := binary.LittleEndian.Uint32(countBuf[:])
	if n >= MaxStreamSegments {
		return nil, errs.ErrTooManySegments
	}
	count := n + 1

	sizeTable := make([]byte, count*4)
	if _, err := io.ReadFull(r, sizeTable); err != nil {
		return nil, err
	}
	if count%2 == 0 {
		var pad [4]byte
		if _, err := io.ReadFull(r, pad[:]); err != nil {
			return nil, err
		}
	}

	segments := make([][]byte, count)
	for i := uint32(0); i < count; i++ {
		words := binary.LittleEndian.Uint32(sizeTable[i*4 : i*4+4])
		size, ok := checkedmath.WordsToBytes(words)
		if !ok {
			return nil, errs.ErrSegmentTooLarge
		}
		buf := make([]byte, size)
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, err
		}
		segments[i] = buf
	}

	return segments, nil
}

// WritePackedStream writes segments using the same framing as WriteStream,
// but with the entire header-plus-body byte sequence further transformed
// by the packing codec (§4.9, §6 "Packed framing").
func WritePackedStream(w io.Writer, segments [][]byte) error {
	pw := pack.NewWriter(w)
	if err := WriteStream(pw, segments); err != nil {
		return err
	}

	return pw.Close()
}

// ReadPackedStream is ReadStream's packed-framing counterpart: it decodes
// the packing codec on the fly, so segment sizes are known (and bounds
// enforced) before any segment body is materialized.
func ReadPackedStream(r io.Reader) ([][]byte, error) {
	return ReadStream(pack.NewReader(r))
}
