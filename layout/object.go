package layout

// ObjectKind tags the concrete shape held by an Object.
type ObjectKind uint8

const (
	ObjectNull ObjectKind = iota
	ObjectStruct
	ObjectList
)

// Object is the tagged variant returned by a generic (schema-less)
// pointer read. It is how the dynamic façade (see the dynamic package)
// re-projects an opaque field without knowing ahead of time whether it
// names a struct or a list.
//
// Object never wraps a FAR or RESERVED pointer: those are resolved or
// rejected by WireHelpers before an Object is constructed.
type Object struct {
	Kind   ObjectKind
	Struct StructReader
	List   ListReader
}

// IsNull reports whether the object is the null variant.
func (o Object) IsNull() bool {
	return o.Kind == ObjectNull
}
