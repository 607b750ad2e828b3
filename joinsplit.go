package rbforest

import "cmp"

// splitAtRoot detaches t's root, producing two independent trees (sharing
// t's arena via fresh per-port metadata) from its left and right
// subtrees, plus the now-fully-detached root itself (no parent, no
// children, no order-thread links) left allocated in the arena for the
// caller to read its key and value out of and then free (split and
// unionMerge both do; join always allocates a fresh node for its pivot).
// Reports ok=false for an empty tree.
//
// Grounded on spec.md §4.3.8's description of split_at_root; no
// join/split file survives in original_source (neither operation was
// ever implemented there), so this and the rest of joinsplit.go follow
// the textbook algorithm spec.md lays out, in the same detach-pivot-
// reattach shape the teacher's own splitPage/splitRoot/deletePage family
// uses one level up, at page granularity instead of node granularity.
func splitAtRoot[K cmp.Ordered, V any, C any](t *Tree[K, V, C]) (left, right *Tree[K, V, C], pivot ref, ok bool) {
	w := t.port.Write()
	defer w.Release()

	meta := w.Meta()
	root := meta.root
	if root == nilRef {
		return nil, nil, nilRef, false
	}
	debugf("rbforest: split_at_root detaching root=%v", root)
	rootNode := w.Get(root)
	leftRoot, rightRoot := rootNode.children[left], rootNode.children[right]
	prev, next := rootNode.order[left], rootNode.order[right]

	subtreeBH := meta.blackHeight
	if rootNode.isBlack() {
		subtreeBH--
	}

	finalize := func(r ref) (ref, int) {
		if r == nilRef {
			return nilRef, 0
		}
		n := w.Get(r)
		n.parent = nilRef
		bh := subtreeBH
		if n.isRed() {
			n.color = Black
			bh++
		}
		return r, bh
	}

	if prev != nilRef {
		w.Get(prev).order[right] = nilRef
	}
	if next != nilRef {
		w.Get(next).order[left] = nilRef
	}

	leftRootFinal, leftBH := finalize(leftRoot)
	rightRootFinal, rightBH := finalize(rightRoot)

	leftMeta := emptyBounds()
	leftMeta.root, leftMeta.blackHeight = leftRootFinal, leftBH
	if leftRootFinal != nilRef {
		leftMeta.rangeLo, leftMeta.rangeHi = meta.rangeLo, prev
		leftMeta.len = countNodes[K, V, C](w, leftRootFinal)
	}

	rightMeta := emptyBounds()
	rightMeta.root, rightMeta.blackHeight = rightRootFinal, rightBH
	if rightRootFinal != nilRef {
		rightMeta.rangeLo, rightMeta.rangeHi = next, meta.rangeHi
		rightMeta.len = countNodes[K, V, C](w, rightRootFinal)
	}

	pivotNode := w.Get(root)
	pivotNode.children[left], pivotNode.children[right] = nilRef, nilRef
	pivotNode.order[left], pivotNode.order[right] = nilRef, nilRef
	pivotNode.parent = nilRef
	pivotNode.color = Black
	updateCumulant[K, V, C](w, t.cml, root)

	left = newTreeFromPort[K, V, C](t.port.Clone(leftMeta), t.cml)
	right = newTreeFromPort[K, V, C](t.port.Clone(rightMeta), t.cml)
	return left, right, root, true
}

func countNodes[K cmp.Ordered, V any, C any](g reader[K, V, C], at ref) int {
	if at == nilRef {
		return 0
	}
	n := g.Get(at)
	return 1 + countNodes[K, V, C](g, n.children[left]) + countNodes[K, V, C](g, n.children[right])
}

func isTreeEmpty[K cmp.Ordered, V any, C any](t *Tree[K, V, C]) bool {
	rg := t.port.Read()
	defer rg.Release()
	return rg.Meta().root == nilRef
}

func treeRange[K cmp.Ordered, V any, C any](t *Tree[K, V, C]) (lo, hi K) {
	rg := t.port.Read()
	defer rg.Release()
	lo, hi, _ = doRange[K, V, C](rg)
	return lo, hi
}

// join concatenates l, the pivot pair, and r into one tree, requiring l's
// maximum key < pivotKey < r's minimum key. The pivot is spliced in at
// the first black node (or nil) on the taller side's inner spine whose
// black-height matches the shorter side's —
// exactly the insert path, starting partway down the taller tree instead
// of at its root — then fixInsert restores the invariants (spec.md
// §4.3.8). l's port is reused for the result; r's port is left aliasing
// now-shared structure and must not be used again (the "consumed by
// move" discipline spec.md's Tree API documents as a precondition, not
// something Go's type system can enforce).
func join[K cmp.Ordered, V any, C any](l *Tree[K, V, C], pivotKey K, pivotValue V, r *Tree[K, V, C]) (*Tree[K, V, C], error) {
	la := l.port.Alloc()
	defer la.Release()
	lMeta := la.Meta()

	if lMeta.root != nilRef && !(la.Get(lMeta.rangeHi).key < pivotKey) {
		return nil, ErrOverlapping
	}

	pivot := la.Insert(newNode[K, V, C](pivotKey, pivotValue, Red))

	rw := r.port.Write()
	defer rw.Release()
	rMeta := rw.Meta()

	if rMeta.root != nilRef && !(pivotKey < rw.Get(rMeta.rangeLo).key) {
		la.Remove(pivot)
		return nil, ErrOverlapping
	}

	oldLMax, oldRMin := lMeta.rangeHi, rMeta.rangeLo
	lbh, rbh := lMeta.blackHeight, rMeta.blackHeight
	debugf("rbforest: join pivot=%v pivotKey=%v lbh=%d rbh=%d", pivot, pivotKey, lbh, rbh)
	pivotNode := la.Get(pivot)

	if lbh >= rbh {
		cur, curBH, parent := lMeta.root, lbh, ref(nilRef)
		for cur != nilRef && (curBH > rbh || la.Get(cur).isRed()) {
			n := la.Get(cur)
			if n.isBlack() {
				curBH--
			}
			parent = cur
			cur = n.children[right]
		}
		pivotNode.children[left] = cur
		pivotNode.children[right] = rMeta.root
		if cur != nilRef {
			la.Get(cur).parent = pivot
		}
		if rMeta.root != nilRef {
			rw.Get(rMeta.root).parent = pivot
		}
		if parent == nilRef {
			pivotNode.color, pivotNode.parent = Black, nilRef
			lMeta.root, lMeta.blackHeight = pivot, lbh+1
		} else {
			la.Get(parent).children[right] = pivot
			pivotNode.parent = parent
			fixInsert[K, V, C](la, l.cml, pivot)
		}
	} else {
		cur, curBH, parent := rMeta.root, rbh, ref(nilRef)
		for cur != nilRef && (curBH > lbh || rw.Get(cur).isRed()) {
			n := rw.Get(cur)
			if n.isBlack() {
				curBH--
			}
			parent = cur
			cur = n.children[left]
		}
		pivotNode.children[right] = cur
		pivotNode.children[left] = lMeta.root
		if cur != nilRef {
			rw.Get(cur).parent = pivot
		}
		if lMeta.root != nilRef {
			la.Get(lMeta.root).parent = pivot
		}
		if parent == nilRef {
			pivotNode.color, pivotNode.parent = Black, nilRef
			rMeta.root, rMeta.blackHeight = pivot, rbh+1
		} else {
			rw.Get(parent).children[left] = pivot
			pivotNode.parent = parent
			fixInsert[K, V, C](rw, l.cml, pivot)
		}
		lMeta.root, lMeta.blackHeight = rMeta.root, rMeta.blackHeight
	}

	if oldLMax != nilRef {
		la.Get(oldLMax).order[right] = pivot
	}
	pivotNode.order[left], pivotNode.order[right] = oldLMax, oldRMin
	if oldRMin != nilRef {
		rw.Get(oldRMin).order[left] = pivot
	}

	if lMeta.rangeLo == nilRef {
		lMeta.rangeLo = pivot
	}
	lMeta.rangeHi = rMeta.rangeHi
	if lMeta.rangeHi == nilRef {
		lMeta.rangeHi = pivot
	}
	lMeta.len = lMeta.len + rMeta.len + 1

	propagateCumulant[K, V, C](la, l.cml, pivot)
	return l, nil
}

// split partitions t into (left, right) around key: left holds every key
// less than key, right every key greater, and hasPivot reports whether
// key itself was present (with pivotValue its value). Recurses by
// splitting at the root and rejoining the non-containing side, per
// spec.md §4.3.8.
func split[K cmp.Ordered, V any, C any](t *Tree[K, V, C], key K) (left, right *Tree[K, V, C], pivotValue V, hasPivot bool) {
	l, r, root, ok := splitAtRoot[K, V, C](t)
	if !ok {
		return newTreeFromPort[K, V, C](t.port.Clone(emptyBounds()), t.cml),
			newTreeFromPort[K, V, C](t.port.Clone(emptyBounds()), t.cml),
			pivotValue, false
	}

	rg := l.port.Read()
	rootKey := rg.Get(root).key
	rootValue := rg.Get(root).value
	rg.Release()

	// The detached root's slot is freed in every case: join allocates a
	// fresh node for the pivot rather than reusing this one.
	la := l.port.Alloc()
	la.Remove(root)
	la.Release()

	switch {
	case rootKey == key:
		return l, r, rootValue, true

	case key < rootKey:
		ll, lr, pv, has := split[K, V, C](l, key)
		merged, err := join[K, V, C](lr, rootKey, rootValue, r)
		if err != nil {
			panic("rbforest: split rejoin invariant violated: " + err.Error())
		}
		return ll, merged, pv, has

	default:
		rl, rr, pv, has := split[K, V, C](r, key)
		merged, err := join[K, V, C](l, rootKey, rootValue, rl)
		if err != nil {
			panic("rbforest: split rejoin invariant violated: " + err.Error())
		}
		return merged, rr, pv, has
	}
}

// unionDisjoint concatenates a and b, which must have non-intersecting
// key ranges, by removing the boundary key from whichever side sorts
// first and joining the remainder with the pivot against the other side
// (spec.md §4.3.8).
func unionDisjoint[K cmp.Ordered, V any, C any](a, b *Tree[K, V, C]) (*Tree[K, V, C], error) {
	if isTreeEmpty[K, V, C](a) {
		return b, nil
	}
	if isTreeEmpty[K, V, C](b) {
		return a, nil
	}
	aMin, aMax := treeRange[K, V, C](a)
	bMin, bMax := treeRange[K, V, C](b)
	switch {
	case aMax < bMin:
		return removeMaxAndJoin[K, V, C](a, b)
	case bMax < aMin:
		return removeMaxAndJoin[K, V, C](b, a)
	default:
		return nil, ErrOverlapping
	}
}

func removeMaxAndJoin[K cmp.Ordered, V any, C any](left, right *Tree[K, V, C]) (*Tree[K, V, C], error) {
	la := left.port.Alloc()
	maxRef := la.Meta().rangeHi
	key, value := la.Get(maxRef).key, la.Get(maxRef).value
	doRemoveNode[K, V, C](la, left.cml, maxRef)
	la.Remove(maxRef)
	la.Release()
	return join[K, V, C](left, key, value, right)
}

// unionMerge combines a and b, allowing overlapping key ranges: where
// both sides carry the same key, f is called to fold the incoming value
// into the existing one. Proceeds by splitting b at its root, splitting a
// at that pivot key, recursing on the matching halves, and rejoining
// (spec.md §4.3.8).
func unionMerge[K cmp.Ordered, V any, C any](a, b *Tree[K, V, C], f func(existing *V, incoming V)) *Tree[K, V, C] {
	if isTreeEmpty[K, V, C](b) {
		return a
	}
	if isTreeEmpty[K, V, C](a) {
		return b
	}

	bl, br, pivot, _ := splitAtRoot[K, V, C](b)
	brg := bl.port.Read()
	pivotKey, pivotValue := brg.Get(pivot).key, brg.Get(pivot).value
	brg.Release()
	fa := bl.port.Alloc()
	fa.Remove(pivot)
	fa.Release()

	al, ar, existingValue, hasExisting := split[K, V, C](a, pivotKey)
	if hasExisting {
		f(&existingValue, pivotValue)
		pivotValue = existingValue
	}

	leftMerged := unionMerge[K, V, C](al, bl, f)
	rightMerged := unionMerge[K, V, C](ar, br, f)
	result, err := join[K, V, C](leftMerged, pivotKey, pivotValue, rightMerged)
	if err != nil {
		panic("rbforest: unionMerge invariant violated: " + err.Error())
	}
	return result
}

// Split partitions t around key. See split.
func (t *Tree[K, V, C]) Split(key K) (left, right *Tree[K, V, C], pivotValue V, hasPivot bool) {
	return split[K, V, C](t, key)
}

// UnionDisjoint concatenates t and other, which must not share any key
// range.
func (t *Tree[K, V, C]) UnionDisjoint(other *Tree[K, V, C]) (*Tree[K, V, C], error) {
	return unionDisjoint[K, V, C](t, other)
}

// UnionMerge combines t and other, folding f into any keys both share.
func (t *Tree[K, V, C]) UnionMerge(other *Tree[K, V, C], f func(existing *V, incoming V)) *Tree[K, V, C] {
	return unionMerge[K, V, C](t, other, f)
}

// Join concatenates l, a pivot key/value pair, and r into one tree.
// Requires l's maximum key < pivotKey < r's minimum key; returns
// ErrOverlapping (leaving l and r unchanged) otherwise.
func Join[K cmp.Ordered, V any, C any](l *Tree[K, V, C], pivotKey K, pivotValue V, r *Tree[K, V, C]) (*Tree[K, V, C], error) {
	return join[K, V, C](l, pivotKey, pivotValue, r)
}

// MoveNode relocates the node at key from t to dst, which must share t's
// underlying arena (the two must have come from the same Forest, directly
// or via an earlier Split/Join/UnionDisjoint/UnionMerge): the node's slot
// is detached from t's structure and reattached into dst's without a fresh
// allocation, exactly the {remove_node, insert_node} pair spec.md §3
// documents as the only legal way to move a node across trees. Reports
// false if key is not present in t; returns ErrDuplicateKey, leaving t
// unchanged, if dst already holds key.
//
// Both sides only need Write access: neither removeNode nor insertNode
// touches the arena's free list, so this never contends with Alloc's
// single-upgradeable-holder restriction the way holding two Alloc guards
// at once would.
func (t *Tree[K, V, C]) MoveNode(dst *Tree[K, V, C], key K) (bool, error) {
	sw := t.port.Write()
	defer sw.Release()

	res := search[K, V, C](sw, key)
	if res.kind != srHere {
		return false, nil
	}

	dw := dst.port.Write()
	defer dw.Release()

	// Check for a clash before mutating anything, so a failed move leaves
	// both t and dst untouched.
	if r := search[K, V, C](dw, key); r.kind == srHere {
		return false, ErrDuplicateKey
	}

	doRemoveNode[K, V, C](sw, t.cml, res.at)
	// removeAt's two-children case relocates the in-order successor into
	// ptr's old structural position rather than clearing ptr itself (it
	// expects the caller to free ptr's slot right after, as Remove does);
	// reset it here so insertAt doesn't inherit stale children/order links.
	moved := sw.Get(res.at)
	moved.children[left], moved.children[right] = nilRef, nilRef
	moved.order[left], moved.order[right] = nilRef, nilRef
	moved.parent = nilRef

	if err := doInsertNode[K, V, C](dw, dst.cml, res.at); err != nil {
		// Unreachable: the clash check above already ruled this out.
		return false, err
	}
	propagateCumulant[K, V, C](dw, dst.cml, res.at)
	return true, nil
}
