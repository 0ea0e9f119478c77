package builder

import (
	"errors"
	"fmt"
)

// ErrSelfValidationFailed wraps a validation failure Finish produced from
// its own output. It should never surface in practice — Finish's emission
// logic is responsible for only ever producing well-formed documents — but
// Finish checks anyway and reports this rather than silently returning a
// document a caller's own Validate call would reject.
var ErrSelfValidationFailed = errors.New("builder: Finish produced a document that failed its own validation")

// ErrInvalidUTF8Input is returned by AppendString/AppendNamedString when
// the string value is not valid UTF-8, and by Finish (wrapped in a
// BuilderError) when a type tag, node name or argument name is not valid
// UTF-8; zdoc requires every string range in the document to be valid
// UTF-8, so the builder rejects the input rather than emitting a document
// Validate would reject later.
var ErrInvalidUTF8Input = errors.New("builder: string argument is not valid UTF-8")

// ErrLimitExceeded is returned by Finish when the tree being built would
// require a node count, argument count, or blob length that does not fit
// in the format's 32-bit index/offset width. There is no way to encode
// such a document; the caller must split the tree instead.
var ErrLimitExceeded = errors.New("builder: document exceeds the 32-bit index width limit")

// BuilderError annotates an error with the builder operation that produced
// it.
type BuilderError struct {
	Op  string
	Err error
}

func (e *BuilderError) Error() string {
	return fmt.Sprintf("builder: %s: %v", e.Op, e.Err)
}

func (e *BuilderError) Unwrap() error { return e.Err }
