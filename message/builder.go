package message

import (
	"github.com/stratumkit/capwire/arena"
	"github.com/stratumkit/capwire/internal/options"
	"github.com/stratumkit/capwire/layout"
	"github.com/stratumkit/capwire/wire"
)

// Builder accumulates a message under construction. It lazily allocates
// segment 0 on first root access and reserves that segment's word 0 as
// the root pointer slot (§4.10); every call to NewRootStruct overwrites
// that slot exactly like any other pointer field.
type Builder struct {
	arena       *arena.BuilderArena
	rootSeg     *arena.Segment
	rootReserved bool
}

// NewBuilder creates an empty message builder.
func NewBuilder(opts ...BuilderOption) (*Builder, error) {
	cfg := defaultBuilderConfig()
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	return &Builder{arena: arena.NewBuilderArena(cfg.allocator)}, nil
}

func (b *Builder) ensureRootSlot() {
	if b.rootReserved {
		return
	}

	seg, _ := b.arena.SegmentWithAvailable(1)
	seg.Allocate(1)
	b.rootSeg = seg
	b.rootReserved = true
}

// NewRootStruct allocates a fresh struct of size sz and installs it as
// the message's root, discarding whatever root object (if any) was
// previously built.
func (b *Builder) NewRootStruct(sz wire.ObjectSize) layout.StructBuilder {
	b.ensureRootSlot()

	return layout.NewRootStructAt(b.arena, b.rootSeg, 0, sz)
}

// RootStruct returns the currently installed root struct builder, or a
// zero-size StructBuilder if NewRootStruct has not yet been called.
func (b *Builder) RootStruct() layout.StructBuilder {
	if !b.rootReserved {
		return layout.StructBuilder{}
	}

	return layout.RootStructBuilder(b.arena, b.rootSeg, 0)
}

// SegmentsForOutput returns the in-use prefix of every segment, in id
// order, ready for framing (see WriteStream/WritePackedStream).
func (b *Builder) SegmentsForOutput() [][]byte {
	return b.arena.SegmentsForOutput()
}
