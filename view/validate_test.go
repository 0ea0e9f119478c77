package view_test

import (
	"sync"
	"testing"

	"github.com/zdocfmt/zdoc/builder"
	"github.com/zdocfmt/zdoc/format"
	"github.com/zdocfmt/zdoc/view"
)

func buildSample(t *testing.T) []byte {
	t.Helper()

	b, err := builder.NewBuilder()
	if err != nil {
		t.Fatalf("NewBuilder() error = %v", err)
	}
	root := b.Root()
	root.SetType("document")
	root.SetName("root")
	if err := root.AppendNamedString("title", "hello"); err != nil {
		t.Fatalf("AppendNamedString() error = %v", err)
	}

	child := b.PushChild(root)
	child.SetName("child")
	child.AppendI32(7)

	data, err := b.Finish()
	if err != nil {
		t.Fatalf("Finish() error = %v", err)
	}

	return data
}

func TestValidateAcceptsWellFormedDocument(t *testing.T) {
	data := buildSample(t)

	v, err := view.Validate(data)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if v.NodeCount() != 2 {
		t.Errorf("NodeCount() = %d, want 2", v.NodeCount())
	}
	if v.ArgCount() != 2 {
		t.Errorf("ArgCount() = %d, want 2", v.ArgCount())
	}
}

func TestValidateIsIdempotent(t *testing.T) {
	data := buildSample(t)

	v1, err1 := view.Validate(data)
	v2, err2 := view.Validate(data)
	if err1 != nil || err2 != nil {
		t.Fatalf("Validate() errors = %v, %v", err1, err2)
	}
	if v1.NodeCount() != v2.NodeCount() || v1.ArgCount() != v2.ArgCount() {
		t.Error("two validations of the same buffer disagree")
	}
}

func TestValidateRejectsTruncatedBuffer(t *testing.T) {
	data := buildSample(t)
	_, err := view.Validate(data[:len(data)-1])
	if err == nil {
		t.Fatal("expected Validate() to reject a truncated buffer")
	}
	ve, ok := err.(*view.ValidationError)
	if !ok {
		t.Fatalf("err type = %T, want *view.ValidationError", err)
	}
	if ve.Code != view.ErrSectionOutOfBounds && ve.Code != view.ErrBlobRangeOutOfBounds {
		t.Errorf("Code = %v, want a bounds-related error", ve.Code)
	}
}

func TestValidateRejectsTooShortForHeader(t *testing.T) {
	_, err := view.Validate(make([]byte, format.HeaderSize-1))
	ve, ok := err.(*view.ValidationError)
	if !ok || ve.Code != view.ErrTruncatedBuffer {
		t.Errorf("err = %v, want ErrTruncatedBuffer", err)
	}
}

func TestValidateRejectsTamperedChildRange(t *testing.T) {
	data := buildSample(t)

	// Corrupt the root node's children_count field. Root is node index 0,
	// its record starts right after the header; children_count sits at
	// byte offset 28 within the 36-byte node record.
	nodeRecordOff := format.HeaderSize
	childrenCountOff := nodeRecordOff + 28
	data[childrenCountOff] = 0xFF
	data[childrenCountOff+1] = 0xFF
	data[childrenCountOff+2] = 0xFF
	data[childrenCountOff+3] = 0xFF

	_, err := view.Validate(data)
	if err == nil {
		t.Fatal("expected Validate() to reject a tampered child range")
	}
}

func TestValidateRejectsUnknownArgKind(t *testing.T) {
	data := buildSample(t)
	// Overwrite the kind byte of the first argument record with a value
	// outside the closed discriminant set. Node table ends at
	// HeaderSize + NodeTableCount*NodeRecordSize.
	argTableOff := format.HeaderSize + 2*format.NodeRecordSize
	kindOff := argTableOff + 8
	data[kindOff] = 200

	_, err := view.Validate(data)
	ve, ok := err.(*view.ValidationError)
	if !ok || ve.Code != view.ErrUnknownArgKind {
		t.Errorf("err = %v, want ErrUnknownArgKind", err)
	}
}

func TestNavigationLastWinsLookup(t *testing.T) {
	b, _ := builder.NewBuilder()
	root := b.Root()
	first := b.PushChild(root)
	first.SetName("dup")
	first.AppendI32(1)
	second := b.PushChild(root)
	second.SetName("dup")
	second.AppendI32(2)

	data, err := b.Finish()
	if err != nil {
		t.Fatalf("Finish() error = %v", err)
	}
	v, err := view.Validate(data)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	got, ok := v.Root().ChildByName("dup")
	if !ok {
		t.Fatal("ChildByName(\"dup\") not found")
	}
	i, ok := got.Arguments().At(0).Value().AsI32()
	if !ok || i != 2 {
		t.Errorf("last-wins lookup returned arg %v, %v, want 2, true", i, ok)
	}
}

func TestConcurrentReadersShareOneView(t *testing.T) {
	data := buildSample(t)
	v, err := view.Validate(data)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	const readers = 32
	var wg sync.WaitGroup
	wg.Add(readers)
	for i := 0; i < readers; i++ {
		go func() {
			defer wg.Done()
			if title, ok := v.Root().Arguments().At(0).Value().AsString(); !ok || title != "hello" {
				t.Errorf("AsString() = %q, %v, want %q, true", title, ok, "hello")
			}
			if v.Root().Children().Len() != 1 {
				t.Error("unexpected child count from a concurrent reader")
			}
		}()
	}
	wg.Wait()
}

func TestMemcpyStability(t *testing.T) {
	data := buildSample(t)
	moved := make([]byte, len(data))
	copy(moved, data)

	v, err := view.Validate(moved)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if title, ok := v.Root().Arguments().At(0).Value().AsString(); !ok || title != "hello" {
		t.Errorf("AsString() after memcpy = %q, %v, want %q, true", title, ok, "hello")
	}
}
