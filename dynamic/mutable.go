package dynamic

import (
	"fmt"
	"math"

	"github.com/stratumkit/capwire/errs"
	"github.com/stratumkit/capwire/layout"
)

// MutableStruct is Struct's builder-backed counterpart: Set resolves a
// field name against the schema and writes through to the matching
// StructBuilder primitive.
type MutableStruct struct {
	schema  *Schema
	builder layout.StructBuilder
}

// NewMutableStruct wraps b for schema-keyed field mutation.
func NewMutableStruct(schema *Schema, b layout.StructBuilder) MutableStruct {
	return MutableStruct{schema: schema, builder: b}
}

// Schema returns the schema this struct was constructed against.
func (s MutableStruct) Schema() *Schema { return s.schema }

// AsStruct returns a read-only Struct view for Get, sharing the
// underlying storage.
func (s MutableStruct) AsStruct() Struct {
	return NewStruct(s.schema, s.builder.AsReader())
}

// Set resolves name against the schema and writes value into the
// corresponding field. It returns an error wrapping errs.ErrWrongFieldKind
// if name does not resolve or value's Kind does not match the field's
// kind; nothing is written in that case.
func (s MutableStruct) Set(name FieldName, value Value) error {
	fd, ok := s.schema.Field(name)
	if !ok {
		return fmt.Errorf("dynamic: field %q: %w", name, errs.ErrWrongFieldKind)
	}
	if value.Kind != fd.Kind {
		return fmt.Errorf("dynamic: field %q expects kind %d, got %d: %w", name, fd.Kind, value.Kind, errs.ErrWrongFieldKind)
	}

	switch fd.Kind {
	case KindBool:
		s.builder.SetBool(fd.Offset, value.Bool, fd.Default != 0)
	case KindInt8:
		s.builder.SetInt8(fd.Offset, int8(value.Int), int8(fd.Default))
	case KindInt16:
		s.builder.SetInt16(fd.Offset, int16(value.Int), int16(fd.Default))
	case KindInt32:
		s.builder.SetInt32(fd.Offset, int32(value.Int), int32(fd.Default))
	case KindInt64:
		s.builder.SetInt64(fd.Offset, value.Int, int64(fd.Default))
	case KindUint8:
		s.builder.SetUint8(fd.Offset, uint8(value.Uint), uint8(fd.Default))
	case KindUint16:
		s.builder.SetUint16(fd.Offset, uint16(value.Uint), uint16(fd.Default))
	case KindUint32:
		s.builder.SetUint32(fd.Offset, uint32(value.Uint), uint32(fd.Default))
	case KindUint64:
		s.builder.SetUint64(fd.Offset, value.Uint, fd.Default)
	case KindFloat32:
		def := math.Float32frombits(uint32(fd.Default))
		s.builder.SetFloat32(fd.Offset, float32(value.Float), def)
	case KindFloat64:
		def := math.Float64frombits(fd.Default)
		s.builder.SetFloat64(fd.Offset, value.Float, def)
	case KindText:
		s.builder.NewTextField(int(fd.Offset), value.Text)
	case KindData:
		s.builder.NewDataField(int(fd.Offset), value.Data)
	case KindStruct:
		s.builder.SetStructField(int(fd.Offset), value.Struct.reader)
	case KindList:
		s.builder.SetListField(int(fd.Offset), value.List)
	default:
		return fmt.Errorf("dynamic: field %q: %w", name, errs.ErrWrongFieldKind)
	}

	return nil
}

// NewStruct allocates a fresh nested struct at a KindStruct field named
// name, sized from the field descriptor's StructSize, and returns it as a
// MutableStruct for further writes. It panics if name does not resolve or
// is not a KindStruct field, matching the layout package's
// precondition-violation convention.
func (s MutableStruct) NewStruct(name FieldName) MutableStruct {
	fd, ok := s.schema.Field(name)
	if !ok || fd.Kind != KindStruct {
		panic(fmt.Sprintf("dynamic: field %q is not a struct field", name))
	}

	return NewMutableStruct(fd.Nested, s.builder.NewStructField(int(fd.Offset), fd.StructSize))
}

// NewList allocates a fresh list at a KindList field named name, sized
// from the field descriptor's ElementSize, and returns it for direct
// layout.ListBuilder access (the dynamic façade does not name individual
// list elements, since a schema field descriptor has nothing to key
// element-level names by).
func (s MutableStruct) NewList(name FieldName, count int) layout.ListBuilder {
	fd, ok := s.schema.Field(name)
	if !ok || fd.Kind != KindList {
		panic(fmt.Sprintf("dynamic: field %q is not a list field", name))
	}

	return s.builder.NewListField(int(fd.Offset), fd.ElementSize, count)
}
