// Package format defines the on-wire constants and small value types shared
// by every layer of zdoc: the fixed byte sizes and flag bits of the
// header, node and argument records, the Range addressing primitive used
// throughout the blob section, and the closed ValueKind discriminant set.
//
// Nothing in this package touches a byte slice; section owns parsing and
// serialization. format is the vocabulary both section and view agree on.
package format

// Magic is the four-byte signature at the start of every zdoc document.
const Magic = "ZDOC"

// Version is the only wire format version this package understands.
const Version uint16 = 1

// Fixed record sizes, in bytes.
const (
	// HeaderSize is the size of the fixed document header:
	// magic(4) + version(2) + flags(2) + 6 * (offset/count uint32, 4 each).
	HeaderSize = 32

	// NodeRecordSize is the size of a single node table entry:
	// type_range(8) + name_range(8) + args_start/count(8) + children_start/count(8) + flags(4).
	NodeRecordSize = 36

	// ArgRecordSize is the size of a single argument table entry:
	// name_range(8) + kind(1) + padding(7) + payload(16) + flags(4).
	ArgRecordSize = 36
)

// Node record flag bits.
const (
	// NodeFlagTypePresent marks that a node's type_range is meaningful;
	// when unset, the node has no type tag.
	NodeFlagTypePresent uint32 = 1 << 0
	// NodeFlagNamePresent marks that a node's name_range is meaningful.
	NodeFlagNamePresent uint32 = 1 << 1
)

// Argument record flag bits.
const (
	// ArgFlagNamePresent marks that an argument's name_range is meaningful;
	// when unset, the argument is positional.
	ArgFlagNamePresent uint32 = 1 << 0
)

// Range addresses a contiguous byte span inside the blob section. It never
// carries presence on its own: a zero Range is indistinguishable from an
// empty one, which is why every place that stores an optional Range also
// carries a dedicated presence flag bit alongside it.
type Range struct {
	Offset uint32
	Length uint32
}

// End returns the exclusive end offset of the range.
func (r Range) End() uint32 {
	return r.Offset + r.Length
}

// Empty reports whether the range spans zero bytes.
func (r Range) Empty() bool {
	return r.Length == 0
}
