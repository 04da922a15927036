package message_test

import (
	"bytes"
	"testing"

	"github.com/stratumkit/capwire/layout"
	"github.com/stratumkit/capwire/message"
	"github.com/stratumkit/capwire/transport"
	"github.com/stratumkit/capwire/wire"
	"github.com/stretchr/testify/require"
)

func buildGreeting(t *testing.T) *message.Builder {
	t.Helper()

	b, err := message.NewBuilder()
	require.NoError(t, err)

	root := b.NewRootStruct(wire.ObjectSize{DataWords: 1, PointerCount: 1})
	root.SetInt32(0, 0x01020304, 0)
	root.NewTextField(0, "hi")

	return b
}

func TestSingleSegmentRoundTrip(t *testing.T) {
	b := buildGreeting(t)
	segs := b.SegmentsForOutput()
	require.Len(t, segs, 1)

	r, err := message.NewReader(segs)
	require.NoError(t, err)

	root := r.Root()
	require.Equal(t, int32(0x01020304), root.GetInt32(0, 0))
	require.Equal(t, "hi", root.TextField(0, ""))
}

func TestForcedFarPointer(t *testing.T) {
	b, err := message.NewBuilder(message.WithAllocator(fixedSizeAllocator{words: 2}))
	require.NoError(t, err)

	root := b.NewRootStruct(wire.ObjectSize{DataWords: 3, PointerCount: 0})
	root.SetUint64(0, 0xAAAAAAAAAAAAAAAA, 0)

	segs := b.SegmentsForOutput()
	require.Len(t, segs, 2)

	r, err := message.NewReader(segs)
	require.NoError(t, err)
	got := r.Root()
	require.Equal(t, uint64(0xAAAAAAAAAAAAAAAA), got.GetUint64(0, 0))
}

// fixedSizeAllocator always allocates exactly `words` words per segment,
// forcing every struct larger than one segment's remaining room to land
// behind a far pointer.
type fixedSizeAllocator struct{ words uint32 }

func (a fixedSizeAllocator) NextSize(existingSegments int, minWords uint32) uint32 {
	if minWords > a.words {
		return minWords
	}

	return a.words
}

func TestListFieldAndNestedStruct(t *testing.T) {
	b, err := message.NewBuilder()
	require.NoError(t, err)

	root := b.NewRootStruct(wire.ObjectSize{DataWords: 0, PointerCount: 2})
	nums := root.NewListField(0, wire.SizeFourBytes, 3)
	nums.SetUint32(0, 10)
	nums.SetUint32(1, 20)
	nums.SetUint32(2, 30)

	inner := root.NewStructField(1, wire.ObjectSize{DataWords: 1, PointerCount: 0})
	inner.SetUint64(0, 42, 0)

	segs := b.SegmentsForOutput()
	r, err := message.NewReader(segs)
	require.NoError(t, err)

	got := r.Root()
	lr := got.ListField(0, layout.ListReader{})
	require.Equal(t, 3, lr.Len())
	require.Equal(t, uint32(10), lr.GetUint32(0, 0))
	require.Equal(t, uint32(20), lr.GetUint32(1, 0))
	require.Equal(t, uint32(30), lr.GetUint32(2, 0))

	nested := got.StructField(1, layout.StructReader{})
	require.Equal(t, uint64(42), nested.GetUint64(0, 0))
}

func TestStreamFraming(t *testing.T) {
	b := buildGreeting(t)
	segs := b.SegmentsForOutput()

	var buf bytes.Buffer
	require.NoError(t, message.WriteStream(&buf, segs))

	decoded, err := message.ReadStream(&buf)
	require.NoError(t, err)
	require.Equal(t, segs, decoded)
}

func TestPackedStreamFraming(t *testing.T) {
	b := buildGreeting(t)
	segs := b.SegmentsForOutput()

	var buf bytes.Buffer
	require.NoError(t, message.WritePackedStream(&buf, segs))

	decoded, err := message.ReadPackedStream(&buf)
	require.NoError(t, err)
	require.Equal(t, segs, decoded)
}

func TestMaliciousTraversalCurtailedByReadLimit(t *testing.T) {
	// root pointer at word 0: STRUCT, offset=0 (targets word 1), 1 data word.
	raw := make([]byte, 16)
	raw[4] = 1
	segs := [][]byte{raw}

	r, err := message.NewReader(segs, message.WithTraversalLimit(1))
	require.NoError(t, err)

	root := r.Root()
	require.Equal(t, uint32(64), root.DataSize()) // first dereference succeeds within budget

	for i := 0; i < 100; i++ {
		again := r.Root()
		_ = again.GetUint64(0, 0)
	}

	require.Equal(t, uint64(0), r.RemainingTraversalBudget())
}

func TestWriteReadCompressedRoundTrip(t *testing.T) {
	for _, codec := range []transport.Codec{
		transport.NoopCodec{}, transport.S2Codec{}, transport.LZ4Codec{}, transport.ZstdCodec{},
	} {
		b := buildGreeting(t)

		var buf bytes.Buffer
		require.NoError(t, message.WriteCompressed(&buf, b, codec))

		segs, err := message.ReadCompressed(&buf)
		require.NoError(t, err)

		r, err := message.NewReader(segs)
		require.NoError(t, err)

		root := r.Root()
		require.Equal(t, int32(0x01020304), root.GetInt32(0, 0))
		require.Equal(t, "hi", root.TextField(0, ""))
	}
}
