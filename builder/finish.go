package builder

import (
	"encoding/binary"
	"fmt"
	"math"
	"unicode/utf8"

	"github.com/zdocfmt/zdoc/format"
	"github.com/zdocfmt/zdoc/section"
	"github.com/zdocfmt/zdoc/view"
)

// maxIndexWidth is the largest value format's 32-bit index/offset fields
// can hold. A node count, argument count, or blob length above this
// would wrap when written into a uint32 table field, so Finish rejects it
// up front instead.
const maxIndexWidth = math.MaxUint32

// flattenPreOrder assigns a wire index to every node in pre-order: node 0
// is the root, and each node is immediately followed by its entire
// subtree — first child and all of that child's descendants, then second
// child and all of its descendants, and so on — before the next sibling
// is ever assigned an index. This is spec.md §4.4's "pre-order
// flattening": parent before children, whole subtrees contiguous.
//
// childStart/childCount describe each node's descendant range rather than
// just its direct children: for a node with children, childStart is one
// past the node's own index (a leaf records 0), and childCount is the total number of descendants (not just
// direct children) the node owns, so that [childStart, childStart+childCount)
// is exactly the node's subtree. A direct child's own descendant range
// tells a reader how far to skip to reach its next sibling; see
// view.NodeList for that walk.
func flattenPreOrder(root *buildNode) (order []*buildNode, childStart, childCount []uint32) {
	var visit func(n *buildNode) uint32 // returns n's descendant count

	visit = func(n *buildNode) uint32 {
		idx := len(order)
		order = append(order, n)
		childStart = append(childStart, 0)
		childCount = append(childCount, 0)

		if len(n.children) > 0 {
			childStart[idx] = uint32(idx + 1)
		}

		var descendants uint32
		for _, c := range n.children {
			descendants += 1 + visit(c)
		}
		childCount[idx] = descendants

		return descendants
	}
	visit(root)

	return order, childStart, childCount
}

// Finish flattens the built tree, interns every string and binary
// argument, and emits the document as a byte slice. Per spec.md's builder
// component, Finish always validates its own output before returning it:
// a bug in this emission logic surfaces as ErrSelfValidationFailed instead
// of a document that corrupts a caller's reader.
func (b *Builder) Finish() ([]byte, error) {
	order, childStart, childCount := flattenPreOrder(b.root)
	nodeCount := len(order)

	in := newInterner(b.blobCapacityHint)
	defer in.release()

	nodeViews := make([]section.NodeView, nodeCount)
	var argViews []section.ArgView

	for i, n := range order {
		nv := section.NodeView{
			ChildrenStart: childStart[i],
			ChildrenCount: childCount[i],
		}
		if n.typeTag != nil {
			if !utf8.ValidString(*n.typeTag) {
				return nil, &BuilderError{Op: "Finish", Err: ErrInvalidUTF8Input}
			}
			nv.TypeRange = in.intern([]byte(*n.typeTag))
			nv.Flags |= format.NodeFlagTypePresent
		}
		if n.name != nil {
			if !utf8.ValidString(*n.name) {
				return nil, &BuilderError{Op: "Finish", Err: ErrInvalidUTF8Input}
			}
			nv.NameRange = in.intern([]byte(*n.name))
			nv.Flags |= format.NodeFlagNamePresent
		}

		nv.ArgsStart = uint32(len(argViews))
		nv.ArgsCount = uint32(len(n.args))

		for _, a := range n.args {
			av := section.ArgView{Kind: a.kind}
			if a.name != nil {
				if !utf8.ValidString(*a.name) {
					return nil, &BuilderError{Op: "Finish", Err: ErrInvalidUTF8Input}
				}
				av.NameRange = in.intern([]byte(*a.name))
				av.Flags |= format.ArgFlagNamePresent
			}

			if a.data != nil {
				r := in.intern(a.data)
				av.Payload = encodeU32Pair(r.Offset, r.Length)
			} else {
				av.Payload = a.payload
			}

			argViews = append(argViews, av)
		}

		nodeViews[i] = nv
	}

	blobLen := len(in.bytes())
	if err := checkWithinIndexWidth(nodeCount, len(argViews), blobLen); err != nil {
		return nil, &BuilderError{Op: "Finish", Err: err}
	}

	hdr := section.NewHeader()
	hdr.NodeTableOff = format.HeaderSize
	hdr.NodeTableCount = uint32(nodeCount)
	hdr.ArgTableOff = hdr.NodeTableOff + hdr.NodeTableCount*format.NodeRecordSize
	hdr.ArgTableCount = uint32(len(argViews))
	hdr.BlobOff = hdr.ArgTableOff + hdr.ArgTableCount*format.ArgRecordSize
	hdr.BlobLen = uint32(blobLen)

	out := make([]byte, hdr.BlobOff+hdr.BlobLen)
	copy(out, hdr.Bytes())

	nodeTable := out[hdr.NodeTableOff:hdr.ArgTableOff]
	for i, nv := range nodeViews {
		section.WriteNode(nodeTable, i, nv)
	}

	argTable := out[hdr.ArgTableOff:hdr.BlobOff]
	for i, av := range argViews {
		section.WriteArg(argTable, i, av)
	}

	copy(out[hdr.BlobOff:], in.bytes())

	if _, err := view.Validate(out); err != nil {
		return nil, &BuilderError{Op: "Finish", Err: fmt.Errorf("%w: %v", ErrSelfValidationFailed, err)}
	}

	return out, nil
}

// checkWithinIndexWidth reports ErrLimitExceeded if any table would need
// more entries, or the blob more bytes, than a uint32 offset/count field
// can address, or if the resulting section offsets themselves would
// overflow uint32 once laid out back-to-back.
func checkWithinIndexWidth(nodeCount, argCount, blobLen int) error {
	if nodeCount > maxIndexWidth || argCount > maxIndexWidth || blobLen > maxIndexWidth {
		return ErrLimitExceeded
	}

	nodeTableOff := uint64(format.HeaderSize)
	argTableOff := nodeTableOff + uint64(nodeCount)*format.NodeRecordSize
	blobOff := argTableOff + uint64(argCount)*format.ArgRecordSize
	end := blobOff + uint64(blobLen)

	if end > maxIndexWidth {
		return ErrLimitExceeded
	}

	return nil
}

func encodeU32Pair(a, b uint32) [16]byte {
	var p [16]byte
	binary.LittleEndian.PutUint32(p[0:4], a)
	binary.LittleEndian.PutUint32(p[4:8], b)

	return p
}
