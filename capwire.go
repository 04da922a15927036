// Package capwire provides a zero-copy, word-aligned binary message format
// in the Cap'n Proto tradition: messages are graphs of structs, lists,
// text, and data blobs laid out directly as their wire bytes, so reading a
// received message never requires a decode pass.
//
// # Core Features
//
//   - Zero-copy struct and list traversal directly over received bytes
//   - Forward/backward schema compatibility: readers default fields a
//     writer never encoded, and mutation-time upgrades move a struct
//     too small for the current schema into new, wider storage and zero
//     the old copy
//   - Far-pointer indirection across multiple segments for messages that
//     outgrow a single contiguous allocation
//   - A deterministic packing codec (see the pack package) for messages
//     with large stretches of unused (zero) bits
//   - Pluggable secondary compression (see the transport package) layered
//     over a packed message stream
//   - A schema-keyed dynamic façade (see the dynamic package) for callers
//     without generated accessor code
//
// # Basic Usage
//
// Building and reading a message:
//
//	import (
//	    "github.com/stratumkit/capwire/message"
//	    "github.com/stratumkit/capwire/wire"
//	)
//
//	b, _ := message.NewBuilder()
//	root := b.NewRootStruct(wire.ObjectSize{DataWords: 1, PointerCount: 1})
//	root.SetInt32(0, 42, 0)
//	root.NewTextField(0, "hello")
//
//	r, _ := message.NewReader(b.SegmentsForOutput())
//	fmt.Println(r.Root().GetInt32(0, 0))     // 42
//	fmt.Println(r.Root().TextField(0, ""))   // hello
//
// Framing a message for transmission or storage (§6):
//
//	var buf bytes.Buffer
//	message.WritePackedStream(&buf, b.SegmentsForOutput())
//	segs, _ := message.ReadPackedStream(&buf)
//
// # Package Structure
//
// This package provides convenient top-level wrappers around message,
// wire, and pack for the most common construction and framing paths. For
// direct struct/list mutation and traversal, use the layout package; for
// schema-keyed access without generated code, use the dynamic package.
package capwire

import (
	"bytes"
	"io"

	"github.com/stratumkit/capwire/message"
	"github.com/stratumkit/capwire/transport"
	"github.com/stratumkit/capwire/wire"
)

// NewMessage creates a message builder with default settings (a growth
// allocator sized per arena.DefaultAllocator's defaults, no injected
// allocator override).
//
// Pass message.WithAllocator in opts for a custom allocator.
func NewMessage(opts ...message.BuilderOption) (*message.Builder, error) {
	return message.NewBuilder(opts...)
}

// NewRootStruct is a convenience wrapper allocating a message builder and
// its root struct in one call.
func NewRootStruct(sz wire.ObjectSize, opts ...message.BuilderOption) (*message.Builder, error) {
	b, err := message.NewBuilder(opts...)
	if err != nil {
		return nil, err
	}
	b.NewRootStruct(sz)

	return b, nil
}

// OpenMessage wraps received segments for reading, with default
// traversal-limit and nesting-limit guards (see message.WithTraversalLimit
// and message.WithNestingLimit to override them).
func OpenMessage(segments [][]byte, opts ...message.ReaderOption) (*message.Reader, error) {
	return message.NewReader(segments, opts...)
}

// Marshal serializes b's segments using the packed stream framing (§6)
// and returns the resulting bytes. It is a convenience over
// message.WritePackedStream for callers that just want a []byte.
func Marshal(b *message.Builder) ([]byte, error) {
	var buf bytes.Buffer
	if err := message.WritePackedStream(&buf, b.SegmentsForOutput()); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// Unmarshal is Marshal's counterpart: it decodes a packed stream and
// opens a Reader over the resulting segments.
func Unmarshal(data []byte, opts ...message.ReaderOption) (*message.Reader, error) {
	segs, err := message.ReadPackedStream(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	return message.NewReader(segs, opts...)
}

// MarshalCompressed is Marshal's counterpart for callers that also want a
// secondary transport.Codec layered over the packed stream (see
// message.WriteCompressed for the frame layout).
func MarshalCompressed(b *message.Builder, codec transport.Codec) ([]byte, error) {
	var buf bytes.Buffer
	if err := message.WriteCompressed(&buf, b, codec); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// UnmarshalCompressed is MarshalCompressed's counterpart. The codec used
// to compress the payload is recovered from the frame's own tag byte, so
// the caller does not need to know it ahead of time.
func UnmarshalCompressed(data []byte, opts ...message.ReaderOption) (*message.Reader, error) {
	segs, err := message.ReadCompressed(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	return message.NewReader(segs, opts...)
}

// WriteTo writes b's segments to w using the unpacked stream framing
// (§6), for callers that want to stream a message directly rather than
// buffering it into a []byte first.
func WriteTo(w io.Writer, b *message.Builder) error {
	return message.WriteStream(w, b.SegmentsForOutput())
}

// ReadFrom is WriteTo's counterpart.
func ReadFrom(r io.Reader, opts ...message.ReaderOption) (*message.Reader, error) {
	segs, err := message.ReadStream(r)
	if err != nil {
		return nil, err
	}

	return message.NewReader(segs, opts...)
}
