package view

import (
	"iter"
	"unsafe"

	"github.com/zdocfmt/zdoc/format"
	"github.com/zdocfmt/zdoc/section"
	"github.com/zdocfmt/zdoc/value"
)

// View is a validated zdoc document. Every accessor reachable from a View
// is allocation-free: it slices directly into the original buffer rather
// than copying or re-parsing. A View is immutable and safe for concurrent
// use by multiple goroutines, the same way a read-only []byte is.
type View struct {
	data      []byte
	header    section.Header
	nodeTable []byte
	argTable  []byte
	blob      []byte
}

// Bytes returns the exact byte slice the View was validated from.
func (v *View) Bytes() []byte { return v.data }

// NodeCount returns the total number of nodes in the document, including
// the root.
func (v *View) NodeCount() int { return int(v.header.NodeTableCount) }

// ArgCount returns the total number of arguments in the document, across
// all nodes.
func (v *View) ArgCount() int { return int(v.header.ArgTableCount) }

// Root returns a reference to the document's root node, always node 0.
func (v *View) Root() NodeRef { return NodeRef{v: v, idx: 0} }

func (v *View) sliceBytes(r format.Range) []byte {
	return v.blob[r.Offset : r.Offset+r.Length]
}

// sliceString borrows a string directly from the blob without copying.
func (v *View) sliceString(r format.Range) string {
	if r.Length == 0 {
		return ""
	}
	b := v.sliceBytes(r)

	return unsafe.String(&b[0], len(b))
}

// NodeRef references one node in a validated View by index.
type NodeRef struct {
	v   *View
	idx int
}

// Index returns the node's position in the document's node table.
func (n NodeRef) Index() int { return n.idx }

func (n NodeRef) node() section.NodeView {
	return section.ReadNode(n.v.nodeTable, n.idx)
}

// Type returns the node's type tag, if present.
func (n NodeRef) Type() (string, bool) {
	nd := n.node()
	if !nd.HasType() {
		return "", false
	}

	return n.v.sliceString(nd.TypeRange), true
}

// Name returns the node's name, if present.
func (n NodeRef) Name() (string, bool) {
	nd := n.node()
	if !nd.HasName() {
		return "", false
	}

	return n.v.sliceString(nd.NameRange), true
}

// Arguments returns the node's ordered argument list.
func (n NodeRef) Arguments() ArgList {
	nd := n.node()

	return ArgList{v: n.v, start: int(nd.ArgsStart), count: int(nd.ArgsCount)}
}

// Children returns the node's ordered immediate child list.
func (n NodeRef) Children() NodeList {
	nd := n.node()

	return NodeList{v: n.v, start: int(nd.ChildrenStart), subtreeLen: int(nd.ChildrenCount)}
}

// ChildByName returns the last child with the given name, per zdoc's
// last-wins lookup semantics.
func (n NodeRef) ChildByName(name string) (NodeRef, bool) {
	return n.Children().ByName(name)
}

// subtreeEnd returns the index immediately following the entire subtree
// rooted at idx, using idx's own declared descendant count to skip over
// it in one step instead of recursing into it.
func (v *View) subtreeEnd(idx int) int {
	n := section.ReadNode(v.nodeTable, idx)
	return idx + 1 + int(n.ChildrenCount)
}

// NodeList is an ordered, indexable list of a node's direct children.
//
// Because zdoc lays out the node table in pre-order (every subtree, not
// just every direct-children list, is a contiguous range), a node's direct
// children are not themselves a contiguous slice once any of them has
// descendants of its own. NodeList instead walks the owning node's
// subtree range, treating the node at the current position as the next
// direct child and skipping over that child's own descendant range (via
// subtreeEnd) to reach the next one — the same skip a pre-order reader
// performs to step over a subtree it isn't interested in.
type NodeList struct {
	v *View
	// start is the first index of the owning node's subtree range, and
	// subtreeLen is that range's length; direct children are discovered
	// by walking [start, start+subtreeLen) and skipping each one's own
	// descendants.
	start      int
	subtreeLen int
}

// Len returns the number of direct children in the list.
func (l NodeList) Len() int {
	n := 0
	for pos, end := l.start, l.start+l.subtreeLen; pos < end; n++ {
		pos = l.v.subtreeEnd(pos)
	}

	return n
}

// At returns the i-th direct child in the list. At panics if i is out of
// range, the same as slice indexing.
func (l NodeList) At(i int) NodeRef {
	if i < 0 {
		panic("view: NodeList index out of range")
	}

	idx := 0
	for pos, end := l.start, l.start+l.subtreeLen; pos < end; idx++ {
		if idx == i {
			return NodeRef{v: l.v, idx: pos}
		}
		pos = l.v.subtreeEnd(pos)
	}

	panic("view: NodeList index out of range")
}

// ByName returns the last direct child in the list whose name matches
// name (last-wins). zdoc has no on-wire name index, so this is a linear
// scan; the skip-based layout only walks forward, so unlike ArgList this
// scans from the start and keeps the most recent match rather than
// scanning from the end.
func (l NodeList) ByName(name string) (NodeRef, bool) {
	var last NodeRef
	found := false

	for pos, end := l.start, l.start+l.subtreeLen; pos < end; {
		nr := NodeRef{v: l.v, idx: pos}
		if nm, ok := nr.Name(); ok && nm == name {
			last, found = nr, true
		}
		pos = l.v.subtreeEnd(pos)
	}

	return last, found
}

// All iterates the list in order.
func (l NodeList) All() iter.Seq2[int, NodeRef] {
	return func(yield func(int, NodeRef) bool) {
		idx := 0
		for pos, end := l.start, l.start+l.subtreeLen; pos < end; idx++ {
			if !yield(idx, NodeRef{v: l.v, idx: pos}) {
				return
			}
			pos = l.v.subtreeEnd(pos)
		}
	}
}

// ArgRef references one argument in a validated View by index.
type ArgRef struct {
	v   *View
	idx int
}

func (a ArgRef) arg() section.ArgView {
	return section.ReadArg(a.v.argTable, a.idx)
}

// Index returns the argument's position in the document's argument table.
func (a ArgRef) Index() int { return a.idx }

// Name returns the argument's name, if present.
func (a ArgRef) Name() (string, bool) {
	av := a.arg()
	if !av.HasName() {
		return "", false
	}

	return a.v.sliceString(av.NameRange), true
}

// Value returns the argument's decoded, zero-copy value.
func (a ArgRef) Value() value.Value {
	av := a.arg()

	return value.FromRaw(av.Kind, av.Payload, a.v.blob)
}

// ArgList is an ordered, indexable list of a node's arguments.
type ArgList struct {
	v     *View
	start int
	count int
}

// Len returns the number of arguments in the list.
func (l ArgList) Len() int { return l.count }

// At returns the i-th argument in the list. At panics if i is out of
// range, the same as slice indexing.
func (l ArgList) At(i int) ArgRef {
	if i < 0 || i >= l.count {
		panic("view: ArgList index out of range")
	}

	return ArgRef{v: l.v, idx: l.start + i}
}

// ByName returns the last argument in the list whose name matches name
// (last-wins).
func (l ArgList) ByName(name string) (ArgRef, bool) {
	for i := l.count - 1; i >= 0; i-- {
		ar := l.At(i)
		if nm, ok := ar.Name(); ok && nm == name {
			return ar, true
		}
	}

	return ArgRef{}, false
}

// All iterates the list in order.
func (l ArgList) All() iter.Seq2[int, ArgRef] {
	return func(yield func(int, ArgRef) bool) {
		for i := 0; i < l.count; i++ {
			if !yield(i, l.At(i)) {
				return
			}
		}
	}
}
