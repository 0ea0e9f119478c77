package section

import (
	"unsafe"

	"github.com/zdocfmt/zdoc/endian"
	"github.com/zdocfmt/zdoc/format"
)

// rawArgRecord mirrors the on-wire ArgRecord layout: name_range(8) +
// kind(1) + explicit padding(7) + payload(16) + flags(4) = 36 bytes, with
// no implicit struct padding since every field boundary already lands on
// a 1-byte-aligned offset and Flags starts at offset 32 (4-aligned).
type rawArgRecord struct {
	NameOffset uint32
	NameLength uint32
	Kind       uint8
	_          [7]byte
	Payload    [16]byte
	Flags      uint32
}

// ArgView is the decoded view of one argument table entry. Payload holds
// the raw 16-byte union; the value package interprets it according to Kind.
type ArgView struct {
	NameRange format.Range
	Kind      format.ValueKind
	Payload   [16]byte
	Flags     uint32
}

// HasName reports whether the argument carries a name.
func (a ArgView) HasName() bool { return a.Flags&format.ArgFlagNamePresent != 0 }

func castArgTable(table []byte) []rawArgRecord {
	count := len(table) / format.ArgRecordSize
	if count == 0 {
		return nil
	}

	return unsafe.Slice((*rawArgRecord)(unsafe.Pointer(&table[0])), count)
}

// ReadArg decodes the argument record at index from table, the argument
// table slice of a validated buffer.
func ReadArg(table []byte, index int) ArgView {
	if endian.IsNativeLittleEndian() {
		r := castArgTable(table)[index]
		return ArgView{
			NameRange: format.Range{Offset: r.NameOffset, Length: r.NameLength},
			Kind:      format.ValueKind(r.Kind),
			Payload:   r.Payload,
			Flags:     r.Flags,
		}
	}

	return readArgSafe(table, index)
}

func readArgSafe(table []byte, index int) ArgView {
	off := index * format.ArgRecordSize
	rec := table[off : off+format.ArgRecordSize]
	engine := endian.GetLittleEndianEngine()

	v := ArgView{
		NameRange: format.Range{
			Offset: engine.Uint32(rec[0:4]),
			Length: engine.Uint32(rec[4:8]),
		},
		Kind:  format.ValueKind(rec[8]),
		Flags: engine.Uint32(rec[32:36]),
	}
	copy(v.Payload[:], rec[16:32])

	return v
}

// WriteArg encodes an ArgView into table at index. Used only by the
// builder during Finish.
func WriteArg(table []byte, index int, a ArgView) {
	off := index * format.ArgRecordSize
	rec := table[off : off+format.ArgRecordSize]
	engine := endian.GetLittleEndianEngine()

	engine.PutUint32(rec[0:4], a.NameRange.Offset)
	engine.PutUint32(rec[4:8], a.NameRange.Length)
	rec[8] = byte(a.Kind)
	for i := 9; i < 16; i++ {
		rec[i] = 0
	}
	copy(rec[16:32], a.Payload[:])
	engine.PutUint32(rec[32:36], a.Flags)
}
