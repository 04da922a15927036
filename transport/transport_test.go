package transport_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/stratumkit/capwire/transport"
)

func payload() []byte {
	return []byte(strings.Repeat("the quick brown fox jumps over the lazy dog ", 200))
}

func TestNoopCodecRoundTrip(t *testing.T) {
	codec := transport.NoopCodec{}
	data := payload()

	compressed, err := codec.Compress(data)
	require.NoError(t, err)
	require.Equal(t, data, compressed)

	decompressed, err := codec.Decompress(compressed)
	require.NoError(t, err)
	require.Equal(t, data, decompressed)
}

func TestS2CodecRoundTrip(t *testing.T) {
	codec := transport.S2Codec{}
	data := payload()

	compressed, err := codec.Compress(data)
	require.NoError(t, err)
	require.Less(t, len(compressed), len(data))

	decompressed, err := codec.Decompress(compressed)
	require.NoError(t, err)
	require.Equal(t, data, decompressed)
}

func TestLZ4CodecRoundTrip(t *testing.T) {
	codec := transport.LZ4Codec{}
	data := payload()

	compressed, err := codec.Compress(data)
	require.NoError(t, err)
	require.Less(t, len(compressed), len(data))

	decompressed, err := codec.Decompress(compressed)
	require.NoError(t, err)
	require.Equal(t, data, decompressed)
}

func TestLZ4CodecIncompressible(t *testing.T) {
	codec := transport.LZ4Codec{}
	data := []byte{0x01, 0x02, 0x03}

	compressed, err := codec.Compress(data)
	require.NoError(t, err)

	decompressed, err := codec.Decompress(compressed)
	require.NoError(t, err)
	require.Equal(t, data, decompressed)
}

func TestZstdCodecRoundTrip(t *testing.T) {
	codec := transport.ZstdCodec{}
	data := payload()

	compressed, err := codec.Compress(data)
	require.NoError(t, err)
	require.Less(t, len(compressed), len(data))

	decompressed, err := codec.Decompress(compressed)
	require.NoError(t, err)
	require.Equal(t, data, decompressed)
}

func TestResolveDefaultsToNoop(t *testing.T) {
	codec, err := transport.Resolve()
	require.NoError(t, err)
	require.IsType(t, transport.NoopCodec{}, codec)
}

func TestResolveWithCodec(t *testing.T) {
	codec, err := transport.Resolve(transport.WithCodec(transport.S2Codec{}))
	require.NoError(t, err)
	require.IsType(t, transport.S2Codec{}, codec)
}

func TestTagRoundTrip(t *testing.T) {
	for _, codec := range []transport.Codec{
		transport.NoopCodec{}, transport.ZstdCodec{}, transport.S2Codec{}, transport.LZ4Codec{},
	} {
		tag, ok := transport.TagFor(codec)
		require.True(t, ok)

		back, ok := transport.CodecForTag(tag)
		require.True(t, ok)
		require.IsType(t, codec, back)
	}
}
