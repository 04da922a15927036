package dynamic

import (
	"fmt"
	"math"

	"github.com/stratumkit/capwire/errs"
	"github.com/stratumkit/capwire/layout"
)

// Value is a schema-typed field value returned by Struct.Get. Exactly one
// field is meaningful, selected by Kind.
type Value struct {
	Kind FieldKind

	Bool   bool
	Int    int64
	Uint   uint64
	Float  float64
	Text   string
	Data   []byte
	Struct Struct
	List   layout.ListReader
}

// Struct wraps a layout.StructReader together with the Schema describing
// its field layout, resolving Get by name instead of by generated
// accessor. It is read-only; see MutableStruct for the builder-backed
// counterpart used to Set fields.
type Struct struct {
	schema *Schema
	reader layout.StructReader
}

// NewStruct wraps r for schema-keyed field access.
func NewStruct(schema *Schema, r layout.StructReader) Struct {
	return Struct{schema: schema, reader: r}
}

// Schema returns the schema this struct was constructed against.
func (s Struct) Schema() *Schema { return s.schema }

// Get resolves name against the schema and reads the corresponding field
// out of the wrapped StructReader. An unknown name reports
// errs.ErrWrongFieldKind.
func (s Struct) Get(name FieldName) (Value, error) {
	fd, ok := s.schema.Field(name)
	if !ok {
		return Value{}, fmt.Errorf("dynamic: field %q: %w", name, errs.ErrWrongFieldKind)
	}

	switch fd.Kind {
	case KindBool:
		return Value{Kind: fd.Kind, Bool: s.reader.GetBool(fd.Offset, fd.Default != 0)}, nil
	case KindInt8:
		return Value{Kind: fd.Kind, Int: int64(s.reader.GetInt8(fd.Offset, int8(fd.Default)))}, nil
	case KindInt16:
		return Value{Kind: fd.Kind, Int: int64(s.reader.GetInt16(fd.Offset, int16(fd.Default)))}, nil
	case KindInt32:
		return Value{Kind: fd.Kind, Int: int64(s.reader.GetInt32(fd.Offset, int32(fd.Default)))}, nil
	case KindInt64:
		return Value{Kind: fd.Kind, Int: s.reader.GetInt64(fd.Offset, int64(fd.Default))}, nil
	case KindUint8:
		return Value{Kind: fd.Kind, Uint: uint64(s.reader.GetUint8(fd.Offset, uint8(fd.Default)))}, nil
	case KindUint16:
		return Value{Kind: fd.Kind, Uint: uint64(s.reader.GetUint16(fd.Offset, uint16(fd.Default)))}, nil
	case KindUint32:
		return Value{Kind: fd.Kind, Uint: uint64(s.reader.GetUint32(fd.Offset, uint32(fd.Default)))}, nil
	case KindUint64:
		return Value{Kind: fd.Kind, Uint: s.reader.GetUint64(fd.Offset, fd.Default)}, nil
	case KindFloat32:
		def := math.Float32frombits(uint32(fd.Default))

		return Value{Kind: fd.Kind, Float: float64(s.reader.GetFloat32(fd.Offset, def))}, nil
	case KindFloat64:
		def := math.Float64frombits(fd.Default)

		return Value{Kind: fd.Kind, Float: s.reader.GetFloat64(fd.Offset, def)}, nil
	case KindText:
		return Value{Kind: fd.Kind, Text: s.reader.TextField(int(fd.Offset), "")}, nil
	case KindData:
		return Value{Kind: fd.Kind, Data: s.reader.DataField(int(fd.Offset), nil)}, nil
	case KindStruct:
		nested := s.reader.StructField(int(fd.Offset), layout.StructReader{})

		return Value{Kind: fd.Kind, Struct: NewStruct(fd.Nested, nested)}, nil
	case KindList:
		return Value{Kind: fd.Kind, List: s.reader.ListField(int(fd.Offset), layout.ListReader{})}, nil
	default:
		return Value{}, fmt.Errorf("dynamic: field %q: %w", name, errs.ErrWrongFieldKind)
	}
}
