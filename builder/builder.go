// Package builder assembles a zdoc document in memory and emits it as a
// validated byte slice. Callers grow a tree with PushChild and attach
// arguments with the Append* family, then call Finish once; there is no
// incremental/streaming emission, matching spec.md's accumulate-then-finish
// builder model.
package builder

import (
	"encoding/binary"
	"math"
	"unicode/utf8"

	"github.com/zdocfmt/zdoc/format"
	"github.com/zdocfmt/zdoc/internal/options"
)

type buildArg struct {
	name    *string
	kind    format.ValueKind
	payload [16]byte
	// data holds the raw bytes of a String/Binary argument pending
	// interning; nil for every inline scalar kind.
	data []byte
}

type buildNode struct {
	typeTag  *string
	name     *string
	args     []buildArg
	children []*buildNode
}

// Builder accumulates a document tree before emitting it with Finish.
// A Builder is not safe for concurrent use.
type Builder struct {
	root *buildNode
	// blobCapacityHint presizes Finish's interning scratch buffer, set via
	// WithBlobCapacityHint; zero means use the pool's default size.
	blobCapacityHint int
}

// Option configures a Builder at construction time.
type Option = options.Option[*Builder]

// WithBlobCapacityHint presizes the scratch buffer Finish uses to
// assemble the document's interned string/binary blob. Supplying a close
// estimate of the final blob size avoids the reallocations that would
// otherwise happen while interning a large document's strings and binary
// arguments; it has no effect on the emitted document's bytes.
func WithBlobCapacityHint(bytes int) Option {
	return options.NoError(func(b *Builder) {
		b.blobCapacityHint = bytes
	})
}

// NewBuilder creates a Builder with an empty root node.
func NewBuilder(opts ...Option) (*Builder, error) {
	b := &Builder{root: &buildNode{}}
	if err := options.Apply(b, opts...); err != nil {
		return nil, err
	}

	return b, nil
}

// NodeHandle references a node being built. It is a thin, copyable handle;
// holding on to one after Finish has no defined behavior.
type NodeHandle struct {
	node *buildNode
}

// Root returns a handle to the document's root node.
func (b *Builder) Root() NodeHandle { return NodeHandle{node: b.root} }

// PushChild appends a new child node to parent and returns a handle to it.
// Children are recorded in append order; that order becomes each node's
// position within its sibling list in the emitted document.
func (b *Builder) PushChild(parent NodeHandle) NodeHandle {
	child := &buildNode{}
	parent.node.children = append(parent.node.children, child)

	return NodeHandle{node: child}
}

// SetType sets the node's type tag.
func (h NodeHandle) SetType(tag string) { h.node.typeTag = &tag }

// SetName sets the node's name.
func (h NodeHandle) SetName(name string) { h.node.name = &name }

func (h NodeHandle) appendScalar(name *string, kind format.ValueKind, payload [16]byte) {
	h.node.args = append(h.node.args, buildArg{name: name, kind: kind, payload: payload})
}

func (h NodeHandle) appendBytes(name *string, kind format.ValueKind, data []byte) {
	h.node.args = append(h.node.args, buildArg{name: name, kind: kind, data: data})
}

func encodeBool(v bool) [16]byte {
	var p [16]byte
	if v {
		p[0] = 1
	}

	return p
}

func encodeI8(v int8) [16]byte {
	var p [16]byte
	p[0] = byte(v)

	return p
}

func encodeI16(v int16) [16]byte {
	var p [16]byte
	binary.LittleEndian.PutUint16(p[0:2], uint16(v))

	return p
}

func encodeI32(v int32) [16]byte {
	var p [16]byte
	binary.LittleEndian.PutUint32(p[0:4], uint32(v))

	return p
}

func encodeI64(v int64) [16]byte {
	var p [16]byte
	binary.LittleEndian.PutUint64(p[0:8], uint64(v))

	return p
}

func encodeU8(v uint8) [16]byte {
	var p [16]byte
	p[0] = v

	return p
}

func encodeU16(v uint16) [16]byte {
	var p [16]byte
	binary.LittleEndian.PutUint16(p[0:2], v)

	return p
}

func encodeU32(v uint32) [16]byte {
	var p [16]byte
	binary.LittleEndian.PutUint32(p[0:4], v)

	return p
}

func encodeU64(v uint64) [16]byte {
	var p [16]byte
	binary.LittleEndian.PutUint64(p[0:8], v)

	return p
}

func encodeF32(v float32) [16]byte {
	var p [16]byte
	binary.LittleEndian.PutUint32(p[0:4], math.Float32bits(v))

	return p
}

func encodeF64(v float64) [16]byte {
	var p [16]byte
	binary.LittleEndian.PutUint64(p[0:8], math.Float64bits(v))

	return p
}

// AppendNull appends a positional Null argument.
func (h NodeHandle) AppendNull() { h.appendScalar(nil, format.KindNull, [16]byte{}) }

// AppendNamedNull appends a named Null argument.
func (h NodeHandle) AppendNamedNull(name string) {
	h.appendScalar(&name, format.KindNull, [16]byte{})
}

// AppendBool appends a positional Bool argument.
func (h NodeHandle) AppendBool(v bool) { h.appendScalar(nil, format.KindBool, encodeBool(v)) }

// AppendNamedBool appends a named Bool argument.
func (h NodeHandle) AppendNamedBool(name string, v bool) {
	h.appendScalar(&name, format.KindBool, encodeBool(v))
}

// AppendI8 appends a positional I8 argument.
func (h NodeHandle) AppendI8(v int8) { h.appendScalar(nil, format.KindI8, encodeI8(v)) }

// AppendNamedI8 appends a named I8 argument.
func (h NodeHandle) AppendNamedI8(name string, v int8) {
	h.appendScalar(&name, format.KindI8, encodeI8(v))
}

// AppendI16 appends a positional I16 argument.
func (h NodeHandle) AppendI16(v int16) { h.appendScalar(nil, format.KindI16, encodeI16(v)) }

// AppendNamedI16 appends a named I16 argument.
func (h NodeHandle) AppendNamedI16(name string, v int16) {
	h.appendScalar(&name, format.KindI16, encodeI16(v))
}

// AppendI32 appends a positional I32 argument.
func (h NodeHandle) AppendI32(v int32) { h.appendScalar(nil, format.KindI32, encodeI32(v)) }

// AppendNamedI32 appends a named I32 argument.
func (h NodeHandle) AppendNamedI32(name string, v int32) {
	h.appendScalar(&name, format.KindI32, encodeI32(v))
}

// AppendI64 appends a positional I64 argument.
func (h NodeHandle) AppendI64(v int64) { h.appendScalar(nil, format.KindI64, encodeI64(v)) }

// AppendNamedI64 appends a named I64 argument.
func (h NodeHandle) AppendNamedI64(name string, v int64) {
	h.appendScalar(&name, format.KindI64, encodeI64(v))
}

// AppendU8 appends a positional U8 argument.
func (h NodeHandle) AppendU8(v uint8) { h.appendScalar(nil, format.KindU8, encodeU8(v)) }

// AppendNamedU8 appends a named U8 argument.
func (h NodeHandle) AppendNamedU8(name string, v uint8) {
	h.appendScalar(&name, format.KindU8, encodeU8(v))
}

// AppendU16 appends a positional U16 argument.
func (h NodeHandle) AppendU16(v uint16) { h.appendScalar(nil, format.KindU16, encodeU16(v)) }

// AppendNamedU16 appends a named U16 argument.
func (h NodeHandle) AppendNamedU16(name string, v uint16) {
	h.appendScalar(&name, format.KindU16, encodeU16(v))
}

// AppendU32 appends a positional U32 argument.
func (h NodeHandle) AppendU32(v uint32) { h.appendScalar(nil, format.KindU32, encodeU32(v)) }

// AppendNamedU32 appends a named U32 argument.
func (h NodeHandle) AppendNamedU32(name string, v uint32) {
	h.appendScalar(&name, format.KindU32, encodeU32(v))
}

// AppendU64 appends a positional U64 argument.
func (h NodeHandle) AppendU64(v uint64) { h.appendScalar(nil, format.KindU64, encodeU64(v)) }

// AppendNamedU64 appends a named U64 argument.
func (h NodeHandle) AppendNamedU64(name string, v uint64) {
	h.appendScalar(&name, format.KindU64, encodeU64(v))
}

// AppendF32 appends a positional F32 argument.
func (h NodeHandle) AppendF32(v float32) { h.appendScalar(nil, format.KindF32, encodeF32(v)) }

// AppendNamedF32 appends a named F32 argument.
func (h NodeHandle) AppendNamedF32(name string, v float32) {
	h.appendScalar(&name, format.KindF32, encodeF32(v))
}

// AppendF64 appends a positional F64 argument.
func (h NodeHandle) AppendF64(v float64) { h.appendScalar(nil, format.KindF64, encodeF64(v)) }

// AppendNamedF64 appends a named F64 argument.
func (h NodeHandle) AppendNamedF64(name string, v float64) {
	h.appendScalar(&name, format.KindF64, encodeF64(v))
}

// AppendString appends a positional String argument. v must be valid
// UTF-8; Finish has already rejected anything else by the time a document
// reaches a reader, so the builder rejects it here instead.
func (h NodeHandle) AppendString(v string) error {
	if !utf8.ValidString(v) {
		return ErrInvalidUTF8Input
	}
	h.appendBytes(nil, format.KindString, []byte(v))

	return nil
}

// AppendNamedString appends a named String argument. See AppendString for
// the UTF-8 requirement.
func (h NodeHandle) AppendNamedString(name, v string) error {
	if !utf8.ValidString(v) {
		return ErrInvalidUTF8Input
	}
	h.appendBytes(&name, format.KindString, []byte(v))

	return nil
}

// AppendBinary appends a positional Binary argument. v is copied.
func (h NodeHandle) AppendBinary(v []byte) {
	h.appendBytes(nil, format.KindBinary, append([]byte(nil), v...))
}

// AppendNamedBinary appends a named Binary argument. v is copied.
func (h NodeHandle) AppendNamedBinary(name string, v []byte) {
	h.appendBytes(&name, format.KindBinary, append([]byte(nil), v...))
}
