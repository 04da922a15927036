// Package pack implements the deterministic byte-level RLE codec applied
// to a message's stream framing (§4.9): a zero-run tag collapses runs of
// all-zero words to two bytes, an all-nonzero tag collapses runs of
// "mostly nonzero" words to a single length-prefixed literal run, and
// every other word is stored as a tag byte plus its nonzero bytes only.
package pack

import (
	"github.com/stratumkit/capwire/errs"
	"github.com/stratumkit/capwire/wire"
)

const maxRun = 255

// Pack encodes src, whose length must be a multiple of 8, into the packed
// byte codec.
func Pack(src []byte) ([]byte, error) {
	if len(src)%wire.BytesPerWord != 0 {
		return nil, errs.ErrNotWordAligned
	}

	out := make([]byte, 0, len(src))
	n := len(src)

	for i := 0; i < n; {
		word := src[i : i+8]
		tag := byte(0)
		for b := 0; b < 8; b++ {
			if word[b] != 0 {
				tag |= 1 << uint(b)
			}
		}
		out = append(out, tag)

		switch tag {
		case 0x00:
			j := i + 8
			count := 0
			for count < maxRun && j+8 <= n && isZeroWord(src[j:j+8]) {
				count++
				j += 8
			}
			out = append(out, byte(count))
			i = j

		case 0xFF:
			out = append(out, word...)
			j := i + 8
			count := 0
			for count < maxRun && j+8 <= n && atMostOneZeroByte(src[j:j+8]) {
				count++
				j += 8
			}
			out = append(out, byte(count))
			out = append(out, src[i+8:j]...)
			i = j

		default:
			for b := 0; b < 8; b++ {
				if word[b] != 0 {
					out = append(out, word[b])
				}
			}
			i += 8
		}
	}

	return out, nil
}

// Unpack decodes src back into its original word-aligned byte sequence.
// It returns errs.ErrTruncatedPacked if src ends mid-word, mid-count-byte,
// or mid-literal-run.
func Unpack(src []byte) ([]byte, error) {
	out := make([]byte, 0, len(src)*3)
	n := len(src)

	for i := 0; i < n; {
		tag := src[i]
		i++

		switch tag {
		case 0x00:
			if i >= n {
				return nil, errs.ErrTruncatedPacked
			}
			count := int(src[i])
			i++
			out = append(out, make([]byte, 8*(1+count))...)

		case 0xFF:
			if i+8 > n {
				return nil, errs.ErrTruncatedPacked
			}
			out = append(out, src[i:i+8]...)
			i += 8

			if i >= n {
				return nil, errs.ErrTruncatedPacked
			}
			count := int(src[i])
			i++

			need := 8 * count
			if i+need > n {
				return nil, errs.ErrTruncatedPacked
			}
			out = append(out, src[i:i+need]...)
			i += need

		default:
			var word [8]byte
			for b := 0; b < 8; b++ {
				if tag&(1<<uint(b)) != 0 {
					if i >= n {
						return nil, errs.ErrTruncatedPacked
					}
					word[b] = src[i]
					i++
				}
			}
			out = append(out, word[:]...)
		}
	}

	return out, nil
}

func isZeroWord(w []byte) bool {
	for _, b := range w {
		if b != 0 {
			return false
		}
	}

	return true
}

func atMostOneZeroByte(w []byte) bool {
	zeros := 0
	for _, b := range w {
		if b == 0 {
			zeros++
			if zeros > 1 {
				return false
			}
		}
	}

	return true
}
