package view

import "fmt"

// ErrorCode identifies the category of a validation failure. The set is
// deliberately non-exhaustive: new wire-format checks can add new codes
// without breaking callers that switch on known ones and fall through to a
// default case for the rest.
type ErrorCode int

const (
	ErrTruncatedBuffer ErrorCode = iota
	ErrBadMagic
	ErrUnsupportedVersion
	ErrReservedFlagsSet
	ErrSectionOutOfBounds
	ErrSectionsOverlap
	ErrEmptyNodeTable
	ErrArgRangeOutOfBounds
	ErrUnknownArgKind
	ErrBlobRangeOutOfBounds
	ErrInvalidUTF8
	ErrBadChildRange
	ErrDuplicateChildReference
)

func (c ErrorCode) String() string {
	switch c {
	case ErrTruncatedBuffer:
		return "truncated buffer"
	case ErrBadMagic:
		return "bad magic"
	case ErrUnsupportedVersion:
		return "unsupported version"
	case ErrReservedFlagsSet:
		return "reserved flags set"
	case ErrSectionOutOfBounds:
		return "section out of bounds"
	case ErrSectionsOverlap:
		return "sections overlap"
	case ErrEmptyNodeTable:
		return "empty node table"
	case ErrArgRangeOutOfBounds:
		return "argument range out of bounds"
	case ErrUnknownArgKind:
		return "unknown argument kind"
	case ErrBlobRangeOutOfBounds:
		return "blob range out of bounds"
	case ErrInvalidUTF8:
		return "invalid UTF-8"
	case ErrBadChildRange:
		return "bad child range"
	case ErrDuplicateChildReference:
		return "child subtree range escapes its parent's range"
	default:
		return "unknown validation error"
	}
}

// ValidationError reports why Validate rejected a buffer. Offset locates
// the offending data, for diagnostics: a byte offset into the buffer for
// header and section errors, a byte offset into the blob section for blob
// range and UTF-8 errors, and the index of the offending record in the
// node or argument table for per-record range, kind and tree-shape errors.
// It is not part of the error's identity (use Code, or errors.Is against
// the sentinel section errors this package wraps).
type ValidationError struct {
	Code   ErrorCode
	Offset int
	Msg    string
	err    error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("zdoc: validation failed at offset %d: %s (%s)", e.Offset, e.Msg, e.Code)
}

// Unwrap exposes the underlying section-level sentinel error, if any, so
// callers can use errors.Is against section.ErrBadMagic and friends.
func (e *ValidationError) Unwrap() error { return e.err }

func newErr(code ErrorCode, offset int, msg string) *ValidationError {
	return &ValidationError{Code: code, Offset: offset, Msg: msg}
}

func wrapErr(code ErrorCode, offset int, msg string, cause error) *ValidationError {
	return &ValidationError{Code: code, Offset: offset, Msg: msg, err: cause}
}
