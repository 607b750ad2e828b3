package rbforest

import "cmp"

// removeAt detaches the node at ptr from the tree structure (parent/child
// pointers and the order thread) and repairs the red-black invariants,
// leaving ptr's own slot untouched — the caller (guard.go's Remove) is
// responsible for freeing it from the arena afterward. It returns the
// node from which cumulant propagation should resume, which may be
// nilRef if the tree is now empty.
//
// Unlike original_source/tree/mod.rs's remove_at (which only invokes
// fix_remove when the replacement child is non-nil, a known gap spec.md's
// design notes call out as a defect to not carry over), this follows the
// textbook CLRS case analysis directly: the double-black fixup runs by
// tracking (parent, side) rather than a node reference, since the fixup's
// starting point is frequently a nil child.
func removeAt[K cmp.Ordered, V any, C any](g guard[K, V, C], cml Cumulant[V, C], ptr ref) (propagateFrom ref) {
	n := g.Get(ptr)
	prev, next := n.order[left], n.order[right]

	var fix, fixParent ref
	var fixSide int
	var removedColor Color

	switch {
	case n.children[left] == nilRef:
		fix = n.children[right]
		fixParent = n.parent
		fixSide = sideOf[K, V, C](g, fixParent, ptr)
		removedColor = n.color
		transplant[K, V, C](g, ptr, fix)
		propagateFrom = fixParent

	case n.children[right] == nilRef:
		fix = n.children[left]
		fixParent = n.parent
		fixSide = sideOf[K, V, C](g, fixParent, ptr)
		removedColor = n.color
		transplant[K, V, C](g, ptr, fix)
		propagateFrom = fixParent

	default:
		// Two children: the in-order successor (the minimum of the
		// right subtree, reached via the order thread in O(1)) moves
		// into ptr's position; ptr's own slot is what gets freed.
		min := n.order[right]
		minNode := g.Get(min)
		removedColor = minNode.color
		fix = minNode.children[right]

		if minNode.parent == ptr {
			fixParent = min
			fixSide = right
			if fix != nilRef {
				g.Get(fix).parent = min
			}
		} else {
			fixParent = minNode.parent
			fixSide = left
			transplant[K, V, C](g, min, fix)
			rightChild := g.Get(ptr).children[right]
			g.Get(min).children[right] = rightChild
			g.Get(rightChild).parent = min
		}

		transplant[K, V, C](g, ptr, min)
		leftChild := g.Get(ptr).children[left]
		minNode = g.Get(min)
		minNode.children[left] = leftChild
		minNode.color = g.Get(ptr).color
		g.Get(leftChild).parent = min
		propagateFrom = min
	}

	if prev != nilRef {
		g.Get(prev).order[right] = next
	} else {
		g.Meta().rangeLo = next
	}
	if next != nilRef {
		g.Get(next).order[left] = prev
	} else {
		g.Meta().rangeHi = prev
	}

	if removedColor == Black {
		fixRemove[K, V, C](g, cml, fix, fixParent, fixSide)
	}

	return propagateFrom
}

// sideOf reports which child slot of parent holds ptr. Only meaningful
// when parent != nilRef; fixRemove never reads the side when parent is
// nilRef (the loop's termination condition short-circuits first).
func sideOf[K cmp.Ordered, V any, C any](g guard[K, V, C], parent, ptr ref) int {
	if parent == nilRef {
		return left
	}
	if g.Get(parent).children[left] == ptr {
		return left
	}
	return right
}

// transplant replaces ptr with child in ptr's parent, matching
// original_source/tree/mod.rs's transplant. child may be nilRef.
func transplant[K cmp.Ordered, V any, C any](g guard[K, V, C], ptr, child ref) {
	parent := g.Get(ptr).parent
	if child != nilRef {
		g.Get(child).parent = parent
	}
	if parent == nilRef {
		g.Meta().root = child
		return
	}
	parentNode := g.Get(parent)
	if parentNode.children[left] == ptr {
		parentNode.children[left] = child
	} else {
		parentNode.children[right] = child
	}
}

// fixRemove restores the red-black invariants after a black node has been
// spliced out of the tree. node is the (possibly nil) replacement that
// took its place; parent/side locate that position even when node is
// nilRef, following the standard CLRS RB-Delete-Fixup case analysis
// (spec.md §4.3.5): a red sibling is rotated out of the way first; two
// black nephews push the double-black up to the parent; a red near
// nephew (far black) is rotated into the far position; a red far nephew
// finishes the fixup with one more rotation.
func fixRemove[K cmp.Ordered, V any, C any](g guard[K, V, C], cml Cumulant[V, C], node ref, parent ref, side int) {
	isBlack := func(r ref) bool { return r == nilRef || g.Get(r).isBlack() }

	// pushedToRoot becomes true once the double-black has propagated all
	// the way up via Case 3.2 with no red stop and no parent left to
	// climb to — the one situation (spec.md §4.3.5's last line) where the
	// tree's overall black-height drops by one. Every other exit (a red
	// node absorbs the extra black, or Case 3.4 resolves it with a
	// rotation) leaves black-height unchanged.
	pushedToRoot := false

	for parent != nilRef && isBlack(node) {
		other := 1 - side
		parentNode := g.Get(parent)
		sibling := parentNode.children[other]

		if g.Get(sibling).isRed() {
			// Case 3.1: red sibling.
			g.Get(sibling).color = Black
			g.Get(parent).color = Red
			rotate[K, V, C](g, parent, side)
			updateCumulant[K, V, C](g, cml, parent)
			updateCumulant[K, V, C](g, cml, g.Get(parent).parent)
			sibling = g.Get(parent).children[other]
		}

		nephews := g.Get(sibling).children
		nearRed := nephews[side] != nilRef && g.Get(nephews[side]).isRed()
		farRed := nephews[other] != nilRef && g.Get(nephews[other]).isRed()

		if !nearRed && !farRed {
			// Case 3.2: both nephews black (or absent) — push the
			// double-black up to the parent and keep going.
			g.Get(sibling).color = Red
			node = parent
			parent = g.Get(parent).parent
			if parent == nilRef {
				pushedToRoot = true
			} else {
				side = sideOf[K, V, C](g, parent, node)
			}
			continue
		}

		if !farRed {
			// Case 3.3: far nephew black, near nephew red — rotate the
			// sibling away so the red nephew becomes the far one.
			if nephews[side] != nilRef {
				g.Get(nephews[side]).color = Black
			}
			g.Get(sibling).color = Red
			rotate[K, V, C](g, sibling, other)
			updateCumulant[K, V, C](g, cml, sibling)
			updateCumulant[K, V, C](g, cml, g.Get(sibling).parent)
			sibling = parentNode.children[other]
		}

		// Case 3.4: far nephew red — fully resolves the double-black
		// with one rotation; no black-height change and nothing left to
		// do afterward.
		siblingNode, parentNode2 := mustGetPair[K, V, C](g, sibling, parent)
		siblingNode.color = parentNode2.color
		parentNode2.color = Black
		if farNephew := g.Get(sibling).children[other]; farNephew != nilRef {
			g.Get(farNephew).color = Black
		}
		rotate[K, V, C](g, parent, side)
		updateCumulant[K, V, C](g, cml, parent)
		updateCumulant[K, V, C](g, cml, g.Get(parent).parent)
		return
	}

	if node != nilRef {
		g.Get(node).color = Black
	}
	if pushedToRoot {
		g.Meta().blackHeight--
	}
}

func mustGetPair[K cmp.Ordered, V any, C any](g guard[K, V, C], a, b ref) (*node[K, V, C], *node[K, V, C]) {
	na, nb, err := g.GetPair(a, b)
	if err != nil {
		panic("rbforest: fixRemove sibling/parent alias: " + err.Error())
	}
	return na, nb
}
