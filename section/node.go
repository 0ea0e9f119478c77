package section

import (
	"unsafe"

	"github.com/zdocfmt/zdoc/endian"
	"github.com/zdocfmt/zdoc/format"
)

// rawNodeRecord mirrors the on-wire NodeRecord layout as a flat sequence of
// same-size fields in declared order, so it carries no implicit padding and
// can be reinterpreted in place over a little-endian host without copying.
// Field order must stay exactly as written; it encodes byte offsets 0-35.
type rawNodeRecord struct {
	TypeOffset    uint32
	TypeLength    uint32
	NameOffset    uint32
	NameLength    uint32
	ArgsStart     uint32
	ArgsCount     uint32
	ChildrenStart uint32
	ChildrenCount uint32
	Flags         uint32
}

// NodeView is the decoded view of one node table entry.
//
// ChildrenStart/ChildrenCount describe the node's entire subtree, not just
// its direct children: [ChildrenStart, ChildrenStart+ChildrenCount) is the
// contiguous range of every descendant (spec.md's pre-order-contiguous
// layout). ChildrenStart is always one past the node's own index whenever
// ChildrenCount is non-zero. A direct child's own ChildrenCount tells a
// reader how far to skip over that child's descendants to reach the next
// sibling; see view.NodeList.
type NodeView struct {
	TypeRange     format.Range
	NameRange     format.Range
	ArgsStart     uint32
	ArgsCount     uint32
	ChildrenStart uint32
	ChildrenCount uint32
	Flags         uint32
}

// HasType reports whether the node carries a type tag.
func (n NodeView) HasType() bool { return n.Flags&format.NodeFlagTypePresent != 0 }

// HasName reports whether the node carries a name.
func (n NodeView) HasName() bool { return n.Flags&format.NodeFlagNamePresent != 0 }

// castNodeTable reinterprets table as a slice of rawNodeRecord without
// copying. Only valid when the host is little-endian, since rawNodeRecord's
// in-memory layout is then identical to the wire layout. table's length
// must already be a multiple of format.NodeRecordSize; callers (the
// validator) guarantee this before any NodeView is read.
func castNodeTable(table []byte) []rawNodeRecord {
	count := len(table) / format.NodeRecordSize
	if count == 0 {
		return nil
	}

	return unsafe.Slice((*rawNodeRecord)(unsafe.Pointer(&table[0])), count)
}

// ReadNode decodes the node record at index from table, the node table
// slice of a validated buffer. On little-endian hosts (the common case)
// this reinterprets the backing bytes directly instead of decoding
// field-by-field.
func ReadNode(table []byte, index int) NodeView {
	if endian.IsNativeLittleEndian() {
		r := castNodeTable(table)[index]
		return NodeView{
			TypeRange:     format.Range{Offset: r.TypeOffset, Length: r.TypeLength},
			NameRange:     format.Range{Offset: r.NameOffset, Length: r.NameLength},
			ArgsStart:     r.ArgsStart,
			ArgsCount:     r.ArgsCount,
			ChildrenStart: r.ChildrenStart,
			ChildrenCount: r.ChildrenCount,
			Flags:         r.Flags,
		}
	}

	return readNodeSafe(table, index)
}

// readNodeSafe decodes a node record field-by-field via an endian engine.
// It is the portable fallback for big-endian hosts.
func readNodeSafe(table []byte, index int) NodeView {
	off := index * format.NodeRecordSize
	rec := table[off : off+format.NodeRecordSize]
	engine := endian.GetLittleEndianEngine()

	return NodeView{
		TypeRange: format.Range{
			Offset: engine.Uint32(rec[0:4]),
			Length: engine.Uint32(rec[4:8]),
		},
		NameRange: format.Range{
			Offset: engine.Uint32(rec[8:12]),
			Length: engine.Uint32(rec[12:16]),
		},
		ArgsStart:     engine.Uint32(rec[16:20]),
		ArgsCount:     engine.Uint32(rec[20:24]),
		ChildrenStart: engine.Uint32(rec[24:28]),
		ChildrenCount: engine.Uint32(rec[28:32]),
		Flags:         engine.Uint32(rec[32:36]),
	}
}

// WriteNode encodes a NodeView into table at index. Used only by the
// builder during Finish.
func WriteNode(table []byte, index int, n NodeView) {
	off := index * format.NodeRecordSize
	rec := table[off : off+format.NodeRecordSize]
	engine := endian.GetLittleEndianEngine()

	engine.PutUint32(rec[0:4], n.TypeRange.Offset)
	engine.PutUint32(rec[4:8], n.TypeRange.Length)
	engine.PutUint32(rec[8:12], n.NameRange.Offset)
	engine.PutUint32(rec[12:16], n.NameRange.Length)
	engine.PutUint32(rec[16:20], n.ArgsStart)
	engine.PutUint32(rec[20:24], n.ArgsCount)
	engine.PutUint32(rec[24:28], n.ChildrenStart)
	engine.PutUint32(rec[28:32], n.ChildrenCount)
	engine.PutUint32(rec[32:36], n.Flags)
}
