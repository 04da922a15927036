package pack_test

import (
	"bytes"
	"testing"

	"github.com/stratumkit/capwire/pack"
	"github.com/stretchr/testify/require"
)

func TestPack_ZeroWord(t *testing.T) {
	src := make([]byte, 8)
	out, err := pack.Pack(src)
	require.NoError(t, err)
	require.Equal(t, []byte{0x00, 0x00}, out)

	back, err := pack.Unpack(out)
	require.NoError(t, err)
	require.Equal(t, src, back)
}

func TestPack_AllNonzeroWord(t *testing.T) {
	src := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	out, err := pack.Pack(src)
	require.NoError(t, err)
	require.Equal(t, append([]byte{0xFF}, append(src, 0x00)...), out)

	back, err := pack.Unpack(out)
	require.NoError(t, err)
	require.Equal(t, src, back)
}

func TestPack_SparseWord(t *testing.T) {
	src := []byte{0, 5, 0, 0, 9, 0, 0, 0}
	out, err := pack.Pack(src)
	require.NoError(t, err)
	require.Equal(t, []byte{0b00010010, 5, 9}, out)

	back, err := pack.Unpack(out)
	require.NoError(t, err)
	require.Equal(t, src, back)
}

func TestPack_ZeroRunCollapses(t *testing.T) {
	src := make([]byte, 8*4)
	out, err := pack.Pack(src)
	require.NoError(t, err)
	require.Equal(t, []byte{0x00, 0x03}, out)

	back, err := pack.Unpack(out)
	require.NoError(t, err)
	require.Equal(t, src, back)
}

func TestPack_AlternatingPattern(t *testing.T) {
	// Scenario 5: 512 words alternating all-zero / all-nonzero.
	src := make([]byte, 8*512)
	nonzero := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	for i := 0; i < 512; i += 2 {
		copy(src[(i+1)*8:(i+2)*8], nonzero)
	}

	out, err := pack.Pack(src)
	require.NoError(t, err)

	back, err := pack.Unpack(out)
	require.NoError(t, err)
	require.True(t, bytes.Equal(src, back))
}

func TestUnpack_TruncatedInput(t *testing.T) {
	_, err := pack.Unpack([]byte{0xFF, 1, 2, 3})
	require.Error(t, err)

	_, err = pack.Unpack([]byte{0x01})
	require.Error(t, err)

	_, err = pack.Unpack([]byte{0x00})
	require.Error(t, err)
}

func TestPack_NotWordAligned(t *testing.T) {
	_, err := pack.Pack([]byte{1, 2, 3})
	require.Error(t, err)
}

func TestStreamRoundTrip(t *testing.T) {
	src := make([]byte, 0, 8*64)
	for i := 0; i < 64; i++ {
		word := make([]byte, 8)
		if i%3 == 0 {
			word[0] = byte(i)
		}
		src = append(src, word...)
	}

	var buf bytes.Buffer
	w := pack.NewWriter(&buf)
	_, err := w.Write(src)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	r := pack.NewReader(&buf)
	got := make([]byte, len(src))
	n := 0
	for n < len(got) {
		m, err := r.Read(got[n:])
		n += m
		if err != nil {
			require.Fail(t, "unexpected read error", err)
		}
		if m == 0 {
			break
		}
	}

	require.Equal(t, src, got)
}
