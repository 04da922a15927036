// Package dynamic re-projects the layout package's struct/list/object
// accessors by field name instead of by generated accessor method, for
// callers that describe their message shape at runtime rather than
// through code generation. Every operation here is a thin dispatch over
// the same layout primitives a generated accessor would call directly;
// this package adds no encoding logic of its own.
package dynamic

import "github.com/stratumkit/capwire/wire"

// FieldKind identifies how a FieldDescriptor's Offset should be
// interpreted and which layout accessor Get/Set dispatches to.
type FieldKind uint8

const (
	KindBool FieldKind = iota
	KindInt8
	KindInt16
	KindInt32
	KindInt64
	KindUint8
	KindUint16
	KindUint32
	KindUint64
	KindFloat32
	KindFloat64
	KindText
	KindData
	KindStruct
	KindList
)

// FieldDescriptor is the runtime analogue of what a schema compiler bakes
// into a generated accessor: a field's name, kind, its slot within the
// struct's data or pointer section, and (for scalar kinds) the default
// value XORed against the wire representation.
type FieldDescriptor struct {
	Name FieldName

	Kind FieldKind

	// Offset is a bit offset into the data section for scalar kinds, or a
	// pointer-section slot index for KindText/KindData/KindStruct/KindList.
	Offset uint32

	// Default is reinterpreted according to Kind for scalar fields (e.g.
	// math.Float64frombits for KindFloat64). Ignored for pointer kinds.
	Default uint64

	// StructSize is the allocation size MutableStruct.NewStruct uses for
	// KindStruct fields.
	StructSize wire.ObjectSize

	// ElementSize is used by NewList for KindList fields holding a
	// primitive or pointer element type rather than a struct type.
	ElementSize wire.ElementSize

	// Nested names the schema a KindStruct field's value should be
	// wrapped with, so Struct.Get can return a further name-addressable
	// Struct rather than a bare StructReader. Nil for scalar/blob/list
	// fields, or for a KindStruct field the caller only ever traverses
	// positionally.
	Nested *Schema
}

// FieldName is a schema field name. It is a distinct type (rather than a
// bare string) so a Schema's Fields map key and a caller's Get/Set
// argument can't be silently confused with an unrelated string parameter.
type FieldName string

// Schema describes a struct type for the dynamic façade: its fully
// qualified name (used as the façade's per-type cache key, see
// internal/hash) and its fields by name.
type Schema struct {
	Name   string
	Fields map[FieldName]FieldDescriptor
}

// Field looks up a field descriptor by name.
func (s *Schema) Field(name FieldName) (FieldDescriptor, bool) {
	fd, ok := s.Fields[name]

	return fd, ok
}
