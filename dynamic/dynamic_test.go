package dynamic_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/stratumkit/capwire/dynamic"
	"github.com/stratumkit/capwire/layout"
	"github.com/stratumkit/capwire/message"
	"github.com/stratumkit/capwire/wire"
)

var personSchema = &dynamic.Schema{
	Name: "example.Person",
	Fields: map[dynamic.FieldName]dynamic.FieldDescriptor{
		"age":    {Name: "age", Kind: dynamic.KindInt32, Offset: 0},
		"active": {Name: "active", Kind: dynamic.KindBool, Offset: 32},
		"name":   {Name: "name", Kind: dynamic.KindText, Offset: 0},
	},
}

func TestDynamicGetSetRoundTrip(t *testing.T) {
	b, err := message.NewBuilder()
	require.NoError(t, err)

	root := b.NewRootStruct(wire.ObjectSize{DataWords: 1, PointerCount: 1})
	ms := dynamic.NewMutableStruct(personSchema, root)

	require.NoError(t, ms.Set("age", dynamic.Value{Kind: dynamic.KindInt32, Int: 30}))
	require.NoError(t, ms.Set("active", dynamic.Value{Kind: dynamic.KindBool, Bool: true}))
	require.NoError(t, ms.Set("name", dynamic.Value{Kind: dynamic.KindText, Text: "ada"}))

	r, err := message.NewReader(b.SegmentsForOutput())
	require.NoError(t, err)

	s := dynamic.NewStruct(personSchema, r.Root())

	age, err := s.Get("age")
	require.NoError(t, err)
	require.Equal(t, int64(30), age.Int)

	active, err := s.Get("active")
	require.NoError(t, err)
	require.True(t, active.Bool)

	name, err := s.Get("name")
	require.NoError(t, err)
	require.Equal(t, "ada", name.Text)
}

func TestDynamicUnknownFieldErrors(t *testing.T) {
	s := dynamic.NewStruct(personSchema, layout.StructReader{})
	_, err := s.Get("nonexistent")
	require.Error(t, err)
}

func TestDynamicSetKindMismatchErrors(t *testing.T) {
	b, err := message.NewBuilder()
	require.NoError(t, err)

	root := b.NewRootStruct(wire.ObjectSize{DataWords: 1, PointerCount: 1})
	ms := dynamic.NewMutableStruct(personSchema, root)

	err = ms.Set("age", dynamic.Value{Kind: dynamic.KindText, Text: "wrong kind"})
	require.Error(t, err)
}

func TestRegistryLookup(t *testing.T) {
	dynamic.Register(personSchema)

	got, ok := dynamic.Lookup("example.Person")
	require.True(t, ok)
	require.Same(t, personSchema, got)

	_, ok = dynamic.Lookup("example.Nonexistent")
	require.False(t, ok)
}
