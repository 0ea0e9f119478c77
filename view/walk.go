package view

import "github.com/zdocfmt/zdoc/section"

// checkTreeShape verifies zdoc's pre-order-contiguous layout (spec.md §4.2
// step 5, §3, glossary "Pre-order contiguous"): every node's descendant
// range [children_start, children_start+children_count) must begin
// immediately after the node itself, and these ranges must nest exactly —
// a child's range entirely inside its parent's, in increasing order, with
// no gaps and no overlap — so that the root's range alone exactly covers
// [1, node_count).
//
// This is the bitmap-free realization of spec.md's "running next expected
// child-range start cursor" check: an explicit stack holds, for each
// currently open ancestor, the index at which its declared range ends.
// Walking the table once in index order and closing frames as their end
// is reached is equivalent to a pre-order traversal, but needs no
// recursion, so a pathologically deep document cannot blow the
// validator's call stack. It is a single O(n) pass with O(depth)
// auxiliary space.
func checkTreeShape(nodeTable []byte, nodeCount int) error {
	root := section.ReadNode(nodeTable, 0)

	rootEnd := 1 + int(root.ChildrenCount)
	if rootEnd != nodeCount {
		return newErr(ErrBadChildRange, 0, "root's descendant range must cover every other node exactly")
	}
	if root.ChildrenCount > 0 && int(root.ChildrenStart) != 1 {
		return newErr(ErrBadChildRange, 0, "root's subtree must begin immediately after the root")
	}

	// ends holds the exclusive end index of every currently open ancestor
	// frame, outermost first.
	var ends []int
	if root.ChildrenCount > 0 {
		ends = append(ends, rootEnd)
	}

	for i := 1; i < nodeCount; i++ {
		for len(ends) > 0 && ends[len(ends)-1] == i {
			ends = ends[:len(ends)-1]
		}
		if len(ends) == 0 {
			return newErr(ErrBadChildRange, i, "node index does not lie within any declared subtree")
		}

		n := section.ReadNode(nodeTable, i)
		if n.ChildrenCount == 0 {
			continue
		}

		start := i + 1
		if int(n.ChildrenStart) != start {
			return newErr(ErrBadChildRange, i, "node's subtree must begin immediately after the node itself")
		}

		end := start + int(n.ChildrenCount)
		if end > ends[len(ends)-1] {
			return newErr(ErrDuplicateChildReference, i, "node's subtree range escapes its parent's declared range")
		}

		ends = append(ends, end)
	}

	for len(ends) > 0 && ends[len(ends)-1] == nodeCount {
		ends = ends[:len(ends)-1]
	}
	if len(ends) != 0 {
		return newErr(ErrBadChildRange, 0, "declared subtree ranges do not close exactly")
	}

	return nil
}
