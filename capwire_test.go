package capwire_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/stratumkit/capwire"
	"github.com/stratumkit/capwire/message"
	"github.com/stratumkit/capwire/transport"
	"github.com/stratumkit/capwire/wire"
)

func buildMessage(t *testing.T) *message.Builder {
	t.Helper()

	b, err := capwire.NewRootStruct(wire.ObjectSize{DataWords: 1, PointerCount: 1})
	require.NoError(t, err)

	root := b.RootStruct()
	root.SetInt32(0, 42, 0)
	root.NewTextField(0, "hello")

	return b
}

func TestMarshalUnmarshalRoundTrip(t *testing.T) {
	b := buildMessage(t)

	data, err := capwire.Marshal(b)
	require.NoError(t, err)

	r, err := capwire.Unmarshal(data)
	require.NoError(t, err)

	root := r.Root()
	require.Equal(t, int32(42), root.GetInt32(0, 0))
	require.Equal(t, "hello", root.TextField(0, ""))
}

func TestMarshalUnmarshalCompressedRoundTrip(t *testing.T) {
	b := buildMessage(t)

	data, err := capwire.MarshalCompressed(b, transport.S2Codec{})
	require.NoError(t, err)

	r, err := capwire.UnmarshalCompressed(data)
	require.NoError(t, err)

	root := r.Root()
	require.Equal(t, int32(42), root.GetInt32(0, 0))
	require.Equal(t, "hello", root.TextField(0, ""))
}

func TestWriteToReadFromRoundTrip(t *testing.T) {
	b := buildMessage(t)

	var buf bytes.Buffer
	require.NoError(t, capwire.WriteTo(&buf, b))

	r, err := capwire.ReadFrom(&buf)
	require.NoError(t, err)

	root := r.Root()
	require.Equal(t, int32(42), root.GetInt32(0, 0))
	require.Equal(t, "hello", root.TextField(0, ""))
}
