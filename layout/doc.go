// Package layout implements the zero-copy struct and list views over a
// capwire message: StructReader/StructBuilder, ListReader/ListBuilder,
// and the WireHelpers traversal, allocation, copying, and schema-upgrade
// primitives every one of those types is built from.
//
// # Reading
//
// A StructReader or ListReader is a small, non-owning value that
// remembers a segment, a word address within it, and a shape (data
// section size and pointer count, or element stride and count). Every
// pointer-typed field access re-derives a fresh reader by dereferencing
// through WireHelpers, which validates bounds, charges the read limiter,
// and enforces the nesting limit before handing back a typed view. No
// getter ever returns an error: on any validation failure it substitutes
// the caller-supplied (or zero-valued) default and traversal continues,
// per this module's two-tier error model (see the errs package).
//
// # Building
//
// A StructBuilder or ListBuilder additionally holds a reference to the
// owning arena.BuilderArena, and every pointer-typed field accessor may
// allocate: init fields always allocate fresh storage (overwriting and
// zeroing whatever was there before), while get fields allocate only on
// first access to a null pointer slot and otherwise return a writable
// view over the existing allocation. When an existing pointer's encoded
// size is smaller than what the caller's current schema requests,
// WireHelpers transparently upgrades it (§4.5 of the specification this
// module implements) by copying it into new, wider storage, repointing the
// field, and zeroing the old copy, before handing back the writable
// view, and the caller never observes the difference between the
// first-access and re-access cases.
package layout
