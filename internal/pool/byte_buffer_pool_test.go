package pool

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestByteBufferBasics(t *testing.T) {
	bb := NewByteBuffer(64)
	require.Equal(t, 0, bb.Len())

	bb.MustWrite([]byte("hello"))
	require.Equal(t, []byte("hello"), bb.Bytes())

	bb.Reset()
	require.Equal(t, 0, bb.Len())
}

func TestByteBufferGrowPreservesData(t *testing.T) {
	bb := NewByteBuffer(8)
	data := []byte("data that forces a reallocation past initial capacity")
	bb.MustWrite(data)

	require.Equal(t, data, bb.Bytes())
	require.GreaterOrEqual(t, cap(bb.B), len(data))
}

func TestByteBufferWriteTo(t *testing.T) {
	bb := NewByteBuffer(16)
	bb.MustWrite([]byte("staged"))

	var out bytes.Buffer
	n, err := bb.WriteTo(&out)
	require.NoError(t, err)
	require.Equal(t, int64(6), n)
	require.Equal(t, "staged", out.String())
}

func TestByteBufferPoolReuseAndReset(t *testing.T) {
	pool := NewByteBufferPool(32, 128)

	bb := pool.Get()
	bb.MustWrite([]byte("payload"))
	pool.Put(bb)

	bb2 := pool.Get()
	require.Equal(t, 0, bb2.Len())
}

func TestByteBufferPoolDiscardsOversized(t *testing.T) {
	pool := NewByteBufferPool(32, 64)

	bb := pool.Get()
	bb.Grow(1000)
	require.Greater(t, cap(bb.B), 64)

	pool.Put(bb) // discarded, over threshold
	bb2 := pool.Get()
	require.LessOrEqual(t, cap(bb2.B), 128)
}

func TestPackAndFrameStagingPoolsAreIndependent(t *testing.T) {
	packBuf := GetPackStagingBuffer()
	frameBuf := GetFrameStagingBuffer()
	defer PutPackStagingBuffer(packBuf)
	defer PutFrameStagingBuffer(frameBuf)

	require.GreaterOrEqual(t, cap(packBuf.B), PackStagingBufferDefaultSize)
	require.GreaterOrEqual(t, cap(frameBuf.B), FrameStagingBufferDefaultSize)
}
