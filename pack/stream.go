package pack

import (
	"io"

	"github.com/stratumkit/capwire/errs"
	"github.com/stratumkit/capwire/internal/pool"
	"github.com/stratumkit/capwire/wire"
)

// Writer packs whole words as they accumulate and forwards the packed
// bytes to the underlying io.Writer, so a caller streaming a large
// message's segments never has to hold the entire unpacked message in
// memory to pack it. Its accumulation buffer is pooled (see
// internal/pool) since it is pure staging space, fully drained into the
// underlying writer before Close returns.
type Writer struct {
	w   io.Writer
	buf *pool.ByteBuffer // unpacked bytes not yet forming a whole number of words
}

// NewWriter wraps w, packing complete words as Write accumulates them.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w, buf: pool.GetPackStagingBuffer()}
}

func (pw *Writer) Write(p []byte) (int, error) {
	pw.buf.MustWrite(p)

	whole := pw.buf.Len() - pw.buf.Len()%wire.BytesPerWord
	if whole == 0 {
		return len(p), nil
	}

	packed, err := Pack(pw.buf.Bytes()[:whole])
	if err != nil {
		return 0, err
	}
	if _, err := pw.w.Write(packed); err != nil {
		return 0, err
	}

	remainder := pw.buf.Bytes()[whole:]
	leftover := append([]byte(nil), remainder...)
	pw.buf.Reset()
	pw.buf.MustWrite(leftover)

	return len(p), nil
}

// Close flushes any remaining buffered bytes and returns the staging
// buffer to the pool. The total number of bytes ever written must be a
// whole number of words; a partial trailing word is a caller error, not a
// truncation the codec can repair.
func (pw *Writer) Close() error {
	defer pool.PutPackStagingBuffer(pw.buf)

	if pw.buf.Len() == 0 {
		return nil
	}
	if pw.buf.Len()%wire.BytesPerWord != 0 {
		return errs.ErrNotWordAligned
	}

	packed, err := Pack(pw.buf.Bytes())
	if err != nil {
		return err
	}

	_, err = pw.w.Write(packed)

	return err
}

// Reader unpacks bytes from the underlying io.Reader on demand, so a
// caller can decode a packed stream without first buffering the whole
// message.
type Reader struct {
	r       io.Reader
	pending []byte // decoded bytes not yet delivered to a Read call
	err     error
}

// NewReader wraps r, unpacking one tag group at a time as Read needs more
// data.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: r}
}

func (pr *Reader) Read(p []byte) (int, error) {
	if len(pr.pending) == 0 {
		if pr.err != nil {
			return 0, pr.err
		}
		if err := pr.fill(); err != nil {
			pr.err = err
			if len(pr.pending) == 0 {
				return 0, err
			}
		}
	}

	n := copy(p, pr.pending)
	pr.pending = pr.pending[n:]

	return n, nil
}

// fill decodes exactly one tag group (a word, a zero-run, or a literal
// run) into pr.pending.
func (pr *Reader) fill() error {
	var tagBuf [1]byte
	if _, err := io.ReadFull(pr.r, tagBuf[:]); err != nil {
		return err
	}
	tag := tagBuf[0]

	switch tag {
	case 0x00:
		var countBuf [1]byte
		if _, err := io.ReadFull(pr.r, countBuf[:]); err != nil {
			return errs.ErrTruncatedPacked
		}
		count := int(countBuf[0])
		pr.pending = make([]byte, 8*(1+count))

	case 0xFF:
		word := make([]byte, 8)
		if _, err := io.ReadFull(pr.r, word); err != nil {
			return errs.ErrTruncatedPacked
		}

		var countBuf [1]byte
		if _, err := io.ReadFull(pr.r, countBuf[:]); err != nil {
			return errs.ErrTruncatedPacked
		}
		count := int(countBuf[0])

		literal := make([]byte, 8*count)
		if count > 0 {
			if _, err := io.ReadFull(pr.r, literal); err != nil {
				return errs.ErrTruncatedPacked
			}
		}

		pr.pending = append(word, literal...)

	default:
		word := make([]byte, 8)
		for b := 0; b < 8; b++ {
			if tag&(1<<uint(b)) != 0 {
				var one [1]byte
				if _, err := io.ReadFull(pr.r, one[:]); err != nil {
					return errs.ErrTruncatedPacked
				}
				word[b] = one[0]
			}
		}
		pr.pending = word
	}

	return nil
}
