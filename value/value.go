// Package value decodes the 16-byte tagged payload carried by every
// argument record into Go-native types, applying the fixed widening rules
// that let a caller read a stored value as any compatible width without
// silently losing information.
package value

import (
	"encoding/binary"
	"math"
	"unsafe"

	"github.com/zdocfmt/zdoc/format"
)

// Value is a decoded, zero-copy view of one argument's payload. It is
// cheap to copy (a kind byte, a 16-byte array and a slice header) and never
// allocates on construction; string and binary payloads borrow directly
// from the document's blob section.
type Value struct {
	kind    format.ValueKind
	payload [16]byte
	blob    []byte
}

// FromRaw builds a Value from a decoded ArgView's kind and payload. blob is
// the document's blob section, shared and never copied; it is only read
// when kind is KindString or KindBinary.
func FromRaw(kind format.ValueKind, payload [16]byte, blob []byte) Value {
	return Value{kind: kind, payload: payload, blob: blob}
}

// Kind returns the value's wire discriminant.
func (v Value) Kind() format.ValueKind { return v.kind }

// IsNull reports whether the value is the Null kind.
func (v Value) IsNull() bool { return v.kind == format.KindNull }

// AsBool returns the value as a bool. ok is false unless Kind() is KindBool.
func (v Value) AsBool() (result bool, ok bool) {
	if v.kind != format.KindBool {
		return false, false
	}

	return v.payload[0] != 0, true
}

func decodeSigned(kind format.ValueKind, p [16]byte) (int64, bool) {
	switch kind {
	case format.KindI8:
		return int64(int8(p[0])), true
	case format.KindI16:
		return int64(int16(binary.LittleEndian.Uint16(p[0:2]))), true
	case format.KindI32:
		return int64(int32(binary.LittleEndian.Uint32(p[0:4]))), true
	case format.KindI64:
		return int64(binary.LittleEndian.Uint64(p[0:8])), true
	default:
		return 0, false
	}
}

func decodeUnsigned(kind format.ValueKind, p [16]byte) (uint64, bool) {
	switch kind {
	case format.KindU8:
		return uint64(p[0]), true
	case format.KindU16:
		return uint64(binary.LittleEndian.Uint16(p[0:2])), true
	case format.KindU32:
		return uint64(binary.LittleEndian.Uint32(p[0:4])), true
	case format.KindU64:
		return binary.LittleEndian.Uint64(p[0:8]), true
	default:
		return 0, false
	}
}

// AsI64 returns the value widened to int64. Any signed kind widens freely;
// an unsigned kind converts only if its value fits in int64. Floats never
// convert.
func (v Value) AsI64() (int64, bool) {
	if i, ok := decodeSigned(v.kind, v.payload); ok {
		return i, true
	}
	if u, ok := decodeUnsigned(v.kind, v.payload); ok {
		if u > math.MaxInt64 {
			return 0, false
		}

		return int64(u), true
	}

	return 0, false
}

// AsU64 returns the value widened to uint64. Any unsigned kind widens
// freely; a signed kind converts only if its value is non-negative. Floats
// never convert.
func (v Value) AsU64() (uint64, bool) {
	if u, ok := decodeUnsigned(v.kind, v.payload); ok {
		return u, true
	}
	if i, ok := decodeSigned(v.kind, v.payload); ok {
		if i < 0 {
			return 0, false
		}

		return uint64(i), true
	}

	return 0, false
}

// AsI32 returns the value as int32, if it fits.
func (v Value) AsI32() (int32, bool) {
	i, ok := v.AsI64()
	if !ok || i < math.MinInt32 || i > math.MaxInt32 {
		return 0, false
	}

	return int32(i), true
}

// AsI16 returns the value as int16, if it fits.
func (v Value) AsI16() (int16, bool) {
	i, ok := v.AsI64()
	if !ok || i < math.MinInt16 || i > math.MaxInt16 {
		return 0, false
	}

	return int16(i), true
}

// AsI8 returns the value as int8, if it fits.
func (v Value) AsI8() (int8, bool) {
	i, ok := v.AsI64()
	if !ok || i < math.MinInt8 || i > math.MaxInt8 {
		return 0, false
	}

	return int8(i), true
}

// AsU32 returns the value as uint32, if it fits.
func (v Value) AsU32() (uint32, bool) {
	u, ok := v.AsU64()
	if !ok || u > math.MaxUint32 {
		return 0, false
	}

	return uint32(u), true
}

// AsU16 returns the value as uint16, if it fits.
func (v Value) AsU16() (uint16, bool) {
	u, ok := v.AsU64()
	if !ok || u > math.MaxUint16 {
		return 0, false
	}

	return uint16(u), true
}

// AsU8 returns the value as uint8, if it fits.
func (v Value) AsU8() (uint8, bool) {
	u, ok := v.AsU64()
	if !ok || u > math.MaxUint8 {
		return 0, false
	}

	return uint8(u), true
}

// AsF64 returns the value widened to float64. KindF32 widens freely;
// KindF64 returns as-is. No integer kind converts.
func (v Value) AsF64() (float64, bool) {
	switch v.kind {
	case format.KindF32:
		bits := binary.LittleEndian.Uint32(v.payload[0:4])

		return float64(math.Float32frombits(bits)), true
	case format.KindF64:
		bits := binary.LittleEndian.Uint64(v.payload[0:8])

		return math.Float64frombits(bits), true
	default:
		return 0, false
	}
}

// AsF32 returns the value as float32. Only KindF32 qualifies; narrowing
// KindF64 down to float32 would be a silent, lossy conversion, which the
// value model forbids.
func (v Value) AsF32() (float32, bool) {
	if v.kind != format.KindF32 {
		return 0, false
	}
	bits := binary.LittleEndian.Uint32(v.payload[0:4])

	return math.Float32frombits(bits), true
}

func (v Value) blobRange() format.Range {
	return format.Range{
		Offset: binary.LittleEndian.Uint32(v.payload[0:4]),
		Length: binary.LittleEndian.Uint32(v.payload[4:8]),
	}
}

// AsString returns the value as a string sliced directly from the
// document's blob section, without copying.
func (v Value) AsString() (string, bool) {
	if v.kind != format.KindString {
		return "", false
	}
	r := v.blobRange()
	if r.Length == 0 {
		return "", true
	}
	b := v.blob[r.Offset : r.Offset+r.Length]

	return unsafe.String(&b[0], len(b)), true
}

// AsBinary returns the value as a []byte sliced directly from the
// document's blob section, without copying. Callers must not mutate the
// returned slice.
func (v Value) AsBinary() ([]byte, bool) {
	if v.kind != format.KindBinary {
		return nil, false
	}
	r := v.blobRange()

	return v.blob[r.Offset : r.Offset+r.Length], true
}
