package view

import (
	"testing"

	"github.com/zdocfmt/zdoc/format"
	"github.com/zdocfmt/zdoc/section"
)

// buildRaw hand-assembles a minimal two-node, one-argument document without
// going through the builder package (which depends on view), so these
// internal tests stay free of an import cycle.
func buildRaw(t *testing.T) []byte {
	t.Helper()

	hdr := section.NewHeader()
	hdr.NodeTableOff = format.HeaderSize
	hdr.NodeTableCount = 2
	hdr.ArgTableOff = hdr.NodeTableOff + 2*format.NodeRecordSize
	hdr.ArgTableCount = 1
	hdr.BlobOff = hdr.ArgTableOff + format.ArgRecordSize
	hdr.BlobLen = 0

	out := make([]byte, hdr.BlobOff+hdr.BlobLen)
	copy(out, hdr.Bytes())

	nodeTable := out[hdr.NodeTableOff:hdr.ArgTableOff]
	section.WriteNode(nodeTable, 0, section.NodeView{ChildrenStart: 1, ChildrenCount: 1})
	section.WriteNode(nodeTable, 1, section.NodeView{ArgsStart: 0, ArgsCount: 1})

	argTable := out[hdr.ArgTableOff:hdr.BlobOff]
	var payload [16]byte
	payload[0] = 1
	section.WriteArg(argTable, 0, section.ArgView{Kind: format.KindBool, Payload: payload})

	return out
}

func TestViewNavigationBasics(t *testing.T) {
	data := buildRaw(t)
	v, err := Validate(data)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	if v.NodeCount() != 2 {
		t.Errorf("NodeCount() = %d, want 2", v.NodeCount())
	}
	root := v.Root()
	children := root.Children()
	if children.Len() != 1 {
		t.Fatalf("Children().Len() = %d, want 1", children.Len())
	}

	child := children.At(0)
	args := child.Arguments()
	if args.Len() != 1 {
		t.Fatalf("Arguments().Len() = %d, want 1", args.Len())
	}
	b, ok := args.At(0).Value().AsBool()
	if !ok || !b {
		t.Errorf("AsBool() = %v, %v, want true, true", b, ok)
	}
}

func TestNodeListAtPanicsOutOfRange(t *testing.T) {
	data := buildRaw(t)
	v, err := Validate(data)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	defer func() {
		if recover() == nil {
			t.Error("expected NodeList.At to panic out of range")
		}
	}()
	v.Root().Children().At(5)
}

func TestNodeListAllIterates(t *testing.T) {
	data := buildRaw(t)
	v, err := Validate(data)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	count := 0
	for i, n := range v.Root().Children().All() {
		if i != 0 || n.Index() != 1 {
			t.Errorf("unexpected iteration values i=%d idx=%d", i, n.Index())
		}
		count++
	}
	if count != 1 {
		t.Errorf("iterated %d children, want 1", count)
	}
}

func TestByNameMissReturnsFalse(t *testing.T) {
	data := buildRaw(t)
	v, err := Validate(data)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	if _, ok := v.Root().ChildByName("nope"); ok {
		t.Error("ChildByName should miss on a child with no name")
	}
}
