package section

import (
	"testing"

	"github.com/zdocfmt/zdoc/format"
)

func TestNodeWriteReadRoundTrip(t *testing.T) {
	table := make([]byte, format.NodeRecordSize*2)

	n0 := NodeView{
		TypeRange:     format.Range{Offset: 0, Length: 4},
		NameRange:     format.Range{Offset: 4, Length: 6},
		ArgsStart:     0,
		ArgsCount:     2,
		ChildrenStart: 1,
		ChildrenCount: 1,
		Flags:         format.NodeFlagTypePresent | format.NodeFlagNamePresent,
	}
	n1 := NodeView{ArgsStart: 2, ArgsCount: 0, ChildrenStart: 2, ChildrenCount: 0}

	WriteNode(table, 0, n0)
	WriteNode(table, 1, n1)

	got0 := ReadNode(table, 0)
	got1 := ReadNode(table, 1)

	if got0 != n0 {
		t.Errorf("node 0 = %+v, want %+v", got0, n0)
	}
	if got1 != n1 {
		t.Errorf("node 1 = %+v, want %+v", got1, n1)
	}
	if !got0.HasType() || !got0.HasName() {
		t.Error("node 0 should have type and name present")
	}
	if got1.HasType() || got1.HasName() {
		t.Error("node 1 should have neither type nor name present")
	}
}

func TestReadNodeSafeMatchesFastPath(t *testing.T) {
	table := make([]byte, format.NodeRecordSize)
	n := NodeView{
		TypeRange:     format.Range{Offset: 7, Length: 9},
		NameRange:     format.Range{Offset: 16, Length: 3},
		ArgsStart:     11,
		ArgsCount:     4,
		ChildrenStart: 22,
		ChildrenCount: 6,
		Flags:         format.NodeFlagNamePresent,
	}
	WriteNode(table, 0, n)

	if got := readNodeSafe(table, 0); got != n {
		t.Errorf("readNodeSafe = %+v, want %+v", got, n)
	}
}
