package rbforest

import (
	"cmp"
	"math/bits"

	"github.com/hmarui66/rbforest/arena"
)

// pair is a transient (key, value) tuple used only while building a
// subtree from a sorted slice.
type pair[K any, V any] struct {
	key   K
	value V
}

// buildBalanced constructs a balanced red-black subtree from a sorted
// slice of items via recursive median partition, alternating colors by
// depth so a red node's two children are always equal-height black
// trees. A direct translation of
// original_source/tree/iter.rs's from_sorted_iter_unchecked inner
// build_tree recursion, additionally calling updateCumulant on the way
// back up for augmented trees (absent from the captured original, which
// never carried a cumulant).
func buildBalanced[K cmp.Ordered, V any, C any](g *arena.AllocGuard[node[K, V, C], bounds], cml Cumulant[V, C], items []pair[K, V], parent ref, color Color) (min, root, max ref) {
	if len(items) == 0 {
		return nilRef, nilRef, nilRef
	}
	mid := len(items) / 2
	lower, this, upper := items[:mid], items[mid], items[mid+1:]

	n := newNode[K, V, C](this.key, this.value, color)
	n.parent = parent
	at := g.Insert(n)

	childColor := color.Not()
	lmin, leftChild, prev := buildBalanced[K, V, C](g, cml, lower, at, childColor)
	next, rightChild, rmax := buildBalanced[K, V, C](g, cml, upper, at, childColor)

	out := g.Get(at)
	out.children[left], out.children[right] = leftChild, rightChild
	out.order[left], out.order[right] = prev, next
	updateCumulant[K, V, C](g, cml, at)

	if lmin == nilRef {
		lmin = at
	}
	if rmax == nilRef {
		rmax = at
	}
	return lmin, at, rmax
}

// bulkBuild populates a freshly-allocated tree from a sorted slice of
// items in one O(n) pass and returns its bounds, for Forest's
// InsertSorted/InsertSortedUnchecked to install as a new port's metadata.
// items must already be sorted in strictly ascending key order — a
// documented precondition, not a checked one, matching spec.md §7's
// "slice is sorted" programming-bug class of failure.
func bulkBuild[K cmp.Ordered, V any, C any](g *arena.AllocGuard[node[K, V, C], bounds], cml Cumulant[V, C], items []pair[K, V]) bounds {
	if len(items) == 0 {
		return emptyBounds()
	}
	height := bits.Len(uint(len(items)+1)) - 1
	levels := height + 1
	// The leaf at depth `height` must come out red (every shallower leaf
	// black), and color alternates strictly by depth from the root down,
	// so the root's own color is the same as the leaf-depth color when
	// height is even, and the opposite of it when height is odd: Red for
	// an even height, Black for an odd one.
	color := Red
	if height%2 != 0 {
		color = Black
	}
	blackLevels := levels / 2

	min, root, max := buildBalanced[K, V, C](g, cml, items, nilRef, color)

	// The root must always be black (I6). When the depth-parity coloring
	// above hands back a red root, recolor it and account for the extra
	// black level on every root-to-leaf path.
	rootNode := g.Get(root)
	if rootNode.isRed() {
		rootNode.color = Black
		blackLevels++
	}

	return bounds{root: root, rangeLo: min, rangeHi: max, len: len(items), blackHeight: blackLevels}
}
