package rbforest

// bounds is the per-tree metadata carried alongside a shared arena: which
// slot is the root, the in-order endpoints (for O(1) min/max and as
// anchors for full-range iteration), the node count, and the tree's
// black-height — the number of black nodes on any root-to-nil path,
// maintained so Join and Split can run in time proportional to the
// difference in height between the two trees involved rather than
// re-walking either tree from scratch.
//
// black_height has no counterpart in the captured reference
// implementation, which never implemented join/split; it is added here
// because join/split cannot hit their time bound without it.
type bounds struct {
	root        ref
	rangeLo     ref
	rangeHi     ref
	len         int
	blackHeight int
}

func emptyBounds() bounds {
	return bounds{root: nilRef, rangeLo: nilRef, rangeHi: nilRef, len: 0, blackHeight: 0}
}

func (b *bounds) isEmpty() bool { return b.len == 0 }
