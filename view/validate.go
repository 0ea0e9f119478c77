// Package view implements the single-pass validator that promotes an
// untrusted byte slice into a View — zdoc's proof token that every offset,
// range and tree-shape invariant in the buffer has already been checked
// exactly once. Every accessor reachable from a View is then allocation-free
// and panic-free by construction: it never re-validates.
package view

import (
	"encoding/binary"
	"sort"
	"unicode/utf8"

	"github.com/zdocfmt/zdoc/format"
	"github.com/zdocfmt/zdoc/section"
)

// Validate checks data against every invariant zdoc's wire format defines
// and, on success, returns a View backed directly by data (no copy). On
// failure it returns a *ValidationError describing the first violation
// found; validation short-circuits rather than accumulating every defect,
// matching the fail-fast style of the rest of this codebase's parsers.
func Validate(data []byte) (*View, error) {
	var hdr section.Header
	if err := hdr.Parse(data); err != nil {
		return nil, classifyHeaderError(err)
	}

	if hdr.NodeTableCount == 0 {
		return nil, newErr(ErrEmptyNodeTable, format.HeaderSize, "document must have at least a root node")
	}

	nodeTableLen := uint64(hdr.NodeTableCount) * format.NodeRecordSize
	argTableLen := uint64(hdr.ArgTableCount) * format.ArgRecordSize

	sections := []extent{
		{name: "node table", off: uint64(hdr.NodeTableOff), len: nodeTableLen},
		{name: "argument table", off: uint64(hdr.ArgTableOff), len: argTableLen},
		{name: "blob", off: uint64(hdr.BlobOff), len: uint64(hdr.BlobLen)},
	}

	if err := checkSectionBounds(sections, uint64(len(data))); err != nil {
		return nil, err
	}
	if err := checkSectionsDisjoint(sections); err != nil {
		return nil, err
	}

	nodeTable := data[hdr.NodeTableOff : hdr.NodeTableOff+uint32(nodeTableLen)]
	argTable := data[hdr.ArgTableOff : hdr.ArgTableOff+uint32(argTableLen)]
	blob := data[hdr.BlobOff : hdr.BlobOff+hdr.BlobLen]

	nodeCount := int(hdr.NodeTableCount)
	argCount := int(hdr.ArgTableCount)

	if err := checkNodes(nodeTable, nodeCount, argCount, blob); err != nil {
		return nil, err
	}
	if err := checkArgs(argTable, argCount, blob); err != nil {
		return nil, err
	}
	if err := checkTreeShape(nodeTable, nodeCount); err != nil {
		return nil, err
	}

	return &View{
		data:      data,
		header:    hdr,
		nodeTable: nodeTable,
		argTable:  argTable,
		blob:      blob,
	}, nil
}

type extent struct {
	name string
	off  uint64
	len  uint64
}

func (e extent) end() uint64 { return e.off + e.len }

func classifyHeaderError(err error) *ValidationError {
	switch err {
	case section.ErrTruncatedHeader:
		return wrapErr(ErrTruncatedBuffer, 0, "buffer shorter than the fixed header", err)
	case section.ErrBadMagic:
		return wrapErr(ErrBadMagic, 0, "magic bytes do not match \"ZDOC\"", err)
	case section.ErrUnsupportedVersion:
		return wrapErr(ErrUnsupportedVersion, 4, "unsupported version", err)
	case section.ErrReservedFlagsSet:
		return wrapErr(ErrReservedFlagsSet, 6, "reserved header flags must be zero", err)
	default:
		return wrapErr(ErrTruncatedBuffer, 0, "malformed header", err)
	}
}

func checkSectionBounds(sections []extent, bufLen uint64) error {
	for _, s := range sections {
		if s.end() > bufLen {
			return newErr(ErrSectionOutOfBounds, int(s.off), s.name+" extends past end of buffer")
		}
	}

	return nil
}

func checkSectionsDisjoint(sections []extent) error {
	sorted := make([]extent, len(sections))
	copy(sorted, sections)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].off < sorted[j].off })

	for i := 1; i < len(sorted); i++ {
		if sorted[i].off < sorted[i-1].end() {
			return newErr(ErrSectionsOverlap, int(sorted[i].off), sorted[i-1].name+" and "+sorted[i].name+" overlap")
		}
	}

	return nil
}

func checkBlobRange(r format.Range, blobLen int) error {
	if r.Length == 0 {
		return nil
	}
	if uint64(r.Offset)+uint64(r.Length) > uint64(blobLen) {
		return newErr(ErrBlobRangeOutOfBounds, int(r.Offset), "range extends past end of blob")
	}

	return nil
}

func checkUTF8(r format.Range, blob []byte) error {
	if r.Length == 0 {
		return nil
	}
	if !utf8.Valid(blob[r.Offset : r.Offset+r.Length]) {
		return newErr(ErrInvalidUTF8, int(r.Offset), "string range is not valid UTF-8")
	}

	return nil
}

func checkNodes(nodeTable []byte, nodeCount, argCount int, blob []byte) error {
	blobLen := len(blob)

	for i := 0; i < nodeCount; i++ {
		n := section.ReadNode(nodeTable, i)

		if int(n.ArgsStart)+int(n.ArgsCount) > argCount {
			return newErr(ErrArgRangeOutOfBounds, i, "node argument range exceeds argument table")
		}

		if n.HasType() {
			if err := checkBlobRange(n.TypeRange, blobLen); err != nil {
				return err
			}
			if err := checkUTF8(n.TypeRange, blob); err != nil {
				return err
			}
		}
		if n.HasName() {
			if err := checkBlobRange(n.NameRange, blobLen); err != nil {
				return err
			}
			if err := checkUTF8(n.NameRange, blob); err != nil {
				return err
			}
		}
	}

	return nil
}

func checkArgs(argTable []byte, argCount int, blob []byte) error {
	blobLen := len(blob)

	for i := 0; i < argCount; i++ {
		a := section.ReadArg(argTable, i)

		if !a.Kind.Valid() {
			return newErr(ErrUnknownArgKind, i, "argument kind outside the closed discriminant set")
		}

		if a.HasName() {
			if err := checkBlobRange(a.NameRange, blobLen); err != nil {
				return err
			}
			if err := checkUTF8(a.NameRange, blob); err != nil {
				return err
			}
		}

		switch a.Kind {
		case format.KindString:
			r := payloadRange(a)
			if err := checkBlobRange(r, blobLen); err != nil {
				return err
			}
			if err := checkUTF8(r, blob); err != nil {
				return err
			}
		case format.KindBinary:
			r := payloadRange(a)
			if err := checkBlobRange(r, blobLen); err != nil {
				return err
			}
		}
	}

	return nil
}

func payloadRange(a section.ArgView) format.Range {
	return format.Range{
		Offset: binary.LittleEndian.Uint32(a.Payload[0:4]),
		Length: binary.LittleEndian.Uint32(a.Payload[4:8]),
	}
}
