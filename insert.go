package rbforest

import "cmp"

// insertAt links a freshly-allocated red node ptr as child `side` of
// parent, threads it into the in-order linked list, and runs insert-fixup
// if parent is not the root. Mirrors original_source/tree/mod.rs's
// insert_at/fix_insert, translated from the Rust const-generic direction
// parameter to an explicit side int (Go generics have no const-generic
// equivalent).
func insertAt[K cmp.Ordered, V any, C any](g guard[K, V, C], cml Cumulant[V, C], ptr ref, parent ref, side int) {
	opposite := 1 - side

	parentNode := g.Get(parent)
	far := parentNode.order[side]

	n := g.Get(ptr)
	n.parent = parent
	n.order[side] = far
	n.order[opposite] = parent

	if far != nilRef {
		g.Get(far).order[opposite] = ptr
	} else {
		setRangeEnd(g.Meta(), side, ptr)
	}

	parentNode = g.Get(parent)
	parentNode.children[side] = ptr
	parentNode.order[side] = ptr

	if parentNode.parent != nilRef {
		fixInsert[K, V, C](g, cml, ptr)
	}
}

func setRangeEnd(b *bounds, side int, at ref) {
	if side == left {
		b.rangeLo = at
	} else {
		b.rangeHi = at
	}
}

// fixInsert restores the red-black invariants after a red leaf has been
// attached below a non-root parent, by the standard CLRS case analysis
// (spec.md §4.3.3): red uncle recolors and moves the focus up two levels;
// black uncle either rotates once (outer grandchild) or twice (inner
// grandchild, via a pre-rotation at the parent that turns it into the
// outer case).
func fixInsert[K cmp.Ordered, V any, C any](g guard[K, V, C], cml Cumulant[V, C], ptr ref) {
	for {
		n := g.Get(ptr)
		parent := n.parent
		parentNode := g.Get(parent)
		if parentNode.isBlack() {
			break // Case 2: parent is black, invariants already hold.
		}

		grandparent := parentNode.parent
		grandparentNode := g.Get(grandparent)

		side := left
		if grandparentNode.children[right] == parent {
			side = right
		}
		other := 1 - side

		uncle := grandparentNode.children[other]
		if uncle != nilRef && g.Get(uncle).isRed() {
			// Case 3.1: red uncle.
			g.Get(uncle).color = Black
			g.Get(parent).color = Black
			g.Get(grandparent).color = Red
			ptr = grandparent
		} else {
			if g.Get(parent).children[other] == ptr {
				// Case 3.2.2: inner grandchild — rotate parent toward
				// the grandparent side first so this falls through to
				// the outer case below.
				ptr = parent
				rotate[K, V, C](g, ptr, side)
				updateCumulant[K, V, C](g, cml, ptr)
				updateCumulant[K, V, C](g, cml, g.Get(ptr).parent)
			}
			// Case 3.2.1: outer grandchild.
			fixedParent := g.Get(ptr).parent
			g.Get(fixedParent).color = Black
			fixedGrandparent := g.Get(fixedParent).parent
			g.Get(fixedGrandparent).color = Red
			rotate[K, V, C](g, fixedGrandparent, other)
			updateCumulant[K, V, C](g, cml, fixedGrandparent)
			updateCumulant[K, V, C](g, cml, g.Get(fixedGrandparent).parent)
		}

		if ptr == g.Meta().root {
			break
		}
	}

	root := g.Meta().root
	rootNode := g.Get(root)
	if rootNode.isRed() {
		rootNode.color = Black
		g.Meta().blackHeight++
	}
}
