// Package errs centralizes the sentinel errors shared by every layer of
// capwire: wire pointer validation, arena/segment bounds, struct and list
// traversal, packing, and the dynamic façade all report failures through
// these values rather than declaring ad hoc errors.New calls locally.
//
// Validation failures (see layout and message) are always recoverable: the
// caller gets a well-formed default value back, and the error is reported
// to an injectable diagnostics hook rather than propagated. Precondition
// violations (wrong accessor called against a field's actual kind)
// indicate a caller bug rather than a malformed message: the layout and
// arena packages panic on them, and the dynamic façade returns them as
// errors.
package errs

import "errors"

// Validation failures. Every one of these is recoverable: the failing
// accessor substitutes a default value and traversal continues.
var (
	ErrOutOfBounds      = errors.New("capwire: pointer target out of segment bounds")
	ErrUnknownSegment   = errors.New("capwire: unknown segment id")
	ErrTraversalLimit   = errors.New("capwire: traversal limit exceeded")
	ErrNestingLimit     = errors.New("capwire: nesting limit exceeded")
	ErrKindMismatch     = errors.New("capwire: pointer kind mismatch")
	ErrMalformedText    = errors.New("capwire: text missing NUL terminator")
	ErrMalformedListTag = errors.New("capwire: malformed inline composite list tag")
	ErrTruncatedPacked  = errors.New("capwire: packed stream ended mid-word")
	ErrTooManySegments  = errors.New("capwire: segment count exceeds stream limit")
	ErrSegmentTooLarge  = errors.New("capwire: segment word count exceeds a 32-bit byte size")
	ErrBadLandingPad    = errors.New("capwire: far pointer landing pad is not a near pointer")
	ErrReservedPointer  = errors.New("capwire: RESERVED pointer kind is not interpretable")
	ErrListTooLarge     = errors.New("capwire: list element count exceeds 2^29-1")
)

// Precondition violations. These indicate a programmer error: a caller
// asked for an accessor that does not match how a pointer or list was
// actually encoded. Exported so callers using the dynamic façade can
// recognize them via errors.Is: MutableStruct.Set returns errors wrapping
// ErrWrongFieldKind, and BuilderArena.Segment panics with an error
// wrapping ErrSegmentNotFound.
var (
	ErrWrongFieldKind  = errors.New("capwire: accessor does not match field's schema kind")
	ErrSegmentNotFound = errors.New("capwire: builder referenced a segment id outside its arena")
)

// Packing and transport errors.
var (
	ErrNotWordAligned = errors.New("capwire: buffer length is not a multiple of the word size")
	ErrUnknownCodec   = errors.New("capwire: unrecognized transport codec tag")
)
