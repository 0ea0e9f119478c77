// Package section deals in fixed-size on-wire records: the document header,
// node table entries and argument table entries. Every function here reads
// or writes directly against a byte slice at known offsets — no
// intermediate parse tree, no allocation beyond the small value structs
// returned to the caller.
package section

import (
	"errors"

	"github.com/zdocfmt/zdoc/endian"
	"github.com/zdocfmt/zdoc/format"
)

// Sentinel errors returned by Header.Parse. Callers that need a structured,
// offset-annotated error (the validator) wrap these; callers that just need
// a basic parse (none, currently) can check them directly with errors.Is.
var (
	ErrTruncatedHeader    = errors.New("section: buffer shorter than header size")
	ErrBadMagic           = errors.New("section: magic bytes do not match \"ZDOC\"")
	ErrUnsupportedVersion = errors.New("section: unsupported version")
	ErrReservedFlagsSet   = errors.New("section: reserved header flags must be zero")
)

// Header is the fixed 32-byte document header.
type Header struct {
	Version        uint16
	Flags          uint16
	NodeTableOff   uint32
	NodeTableCount uint32
	ArgTableOff    uint32
	ArgTableCount  uint32
	BlobOff        uint32
	BlobLen        uint32
}

// NewHeader returns a Header pre-populated with the current wire version.
func NewHeader() Header {
	return Header{Version: format.Version}
}

// Parse decodes a Header from the first format.HeaderSize bytes of data.
// It checks the magic, version and reserved-flags constraints but does not
// validate offsets against the rest of the buffer; that is the validator's
// job once the full header is known.
func (h *Header) Parse(data []byte) error {
	if len(data) < format.HeaderSize {
		return ErrTruncatedHeader
	}
	if string(data[0:4]) != format.Magic {
		return ErrBadMagic
	}

	engine := endian.GetLittleEndianEngine()

	h.Version = engine.Uint16(data[4:6])
	if h.Version != format.Version {
		return ErrUnsupportedVersion
	}

	h.Flags = engine.Uint16(data[6:8])
	if h.Flags != 0 {
		return ErrReservedFlagsSet
	}

	h.NodeTableOff = engine.Uint32(data[8:12])
	h.NodeTableCount = engine.Uint32(data[12:16])
	h.ArgTableOff = engine.Uint32(data[16:20])
	h.ArgTableCount = engine.Uint32(data[20:24])
	h.BlobOff = engine.Uint32(data[24:28])
	h.BlobLen = engine.Uint32(data[28:32])

	return nil
}

// Bytes serializes the header into a freshly allocated format.HeaderSize
// byte slice.
func (h *Header) Bytes() []byte {
	b := make([]byte, format.HeaderSize)
	engine := endian.GetLittleEndianEngine()

	copy(b[0:4], format.Magic)
	engine.PutUint16(b[4:6], h.Version)
	engine.PutUint16(b[6:8], h.Flags)
	engine.PutUint32(b[8:12], h.NodeTableOff)
	engine.PutUint32(b[12:16], h.NodeTableCount)
	engine.PutUint32(b[16:20], h.ArgTableOff)
	engine.PutUint32(b[20:24], h.ArgTableCount)
	engine.PutUint32(b[24:28], h.BlobOff)
	engine.PutUint32(b[28:32], h.BlobLen)

	return b
}
