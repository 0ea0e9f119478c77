// Package zdoc implements a binary document format for tree-shaped data
// that favors zero-copy random access over streaming or compactness. A
// zdoc document is a single contiguous byte buffer: a fixed header, a node
// table, an argument table and a blob section holding every string and
// binary payload. Once a buffer passes validation, every accessor reads
// directly out of that buffer — no secondary parse tree, no per-access
// re-validation, no allocation: strings and binary values are returned as
// slices that borrow from that buffer.
//
// # Building a document
//
//	b, err := builder.NewBuilder()
//	root := b.Root()
//	root.SetType("config")
//	root.AppendNamedString("env", "production")
//	child := b.PushChild(root)
//	child.SetName("database")
//	child.AppendNamedI32("port", 5432)
//	data, err := b.Finish()
//
// Finish validates its own output before returning it, so a []byte coming
// out of a Builder is always acceptable to Validate.
//
// # Reading a document
//
//	v, err := zdoc.Open(data)
//	if err != nil {
//	    // data is untrusted or corrupt; v is nil
//	}
//	root := v.Root()
//	if db, ok := root.ChildByName("database"); ok {
//	    if port, ok := db.Arguments().ByName("port"); ok {
//	        n, _ := port.Value().AsI64()
//	    }
//	}
//
// Open is the only entry point a reader needs; section, value and the
// lower half of view are building blocks for Open and Builder and are not
// normally called directly.
//
// # Concurrency
//
// A *view.View returned by Open is immutable. It, and every NodeRef,
// NodeList, ArgRef and ArgList derived from it, are safe to share across
// goroutines without further synchronization, the same way a read-only
// []byte is. A *builder.Builder is not safe for concurrent use; build a
// document on one goroutine, then share the finished bytes.
package zdoc

import (
	"github.com/zdocfmt/zdoc/builder"
	"github.com/zdocfmt/zdoc/view"
)

// Open validates data as a zdoc document and returns a zero-copy View over
// it. On failure it returns a *view.ValidationError describing the first
// invariant violated; err is safe to inspect with errors.As.
//
// Open performs a single validation pass: every section offset, every blob
// range, every argument kind and the whole tree shape are checked exactly
// once. There is no second validation pass hiding behind any View method.
func Open(data []byte) (*view.View, error) {
	return view.Validate(data)
}

// NewBuilder returns an empty Builder, ready to grow a document tree from
// its root. It is a convenience re-export of builder.NewBuilder so that a
// caller that only needs to build and read documents can depend on the
// zdoc package alone.
func NewBuilder(opts ...builder.Option) (*builder.Builder, error) {
	return builder.NewBuilder(opts...)
}
