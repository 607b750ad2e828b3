package rbforest

import "cmp"

func childCumulant[K cmp.Ordered, V any, C any](g reader[K, V, C], cml Cumulant[V, C], child ref) C {
	if child == nilRef {
		return cml.Zero
	}
	return g.Get(child).cumulant
}

// updateCumulant recomputes the cumulant stored at n from its own value and
// its two children's already-up-to-date cumulants. O(1): it never recurses
// into the children.
func updateCumulant[K cmp.Ordered, V any, C any](g reader[K, V, C], cml Cumulant[V, C], at ref) {
	if !cml.has() {
		return
	}
	n := g.Get(at)
	l := childCumulant[K, V, C](g, cml, n.children[left])
	r := childCumulant[K, V, C](g, cml, n.children[right])
	n.cumulant = cml.combine(n.value, l, r)
}

// propagateCumulant recomputes the cumulant at `at` and walks up to the
// root recomputing each ancestor in turn. Used after any local mutation
// (insert, remove, rotation, or a direct value edit through ValueMut) to
// restore the aggregate invariant in O(log n).
func propagateCumulant[K cmp.Ordered, V any, C any](g reader[K, V, C], cml Cumulant[V, C], at ref) {
	if !cml.has() {
		return
	}
	current := at
	for current != nilRef {
		updateCumulant[K, V, C](g, cml, current)
		current = g.Get(current).parent
	}
}

// updateCumulants recomputes the cumulant for every node in the subtree
// rooted at `at`, bottom-up. Used by Filter and IterMut.Close after a walk
// that may have mutated any number of values, where recomputing one path
// at a time would be more expensive than a single bottom-up sweep.
func updateCumulants[K cmp.Ordered, V any, C any](g reader[K, V, C], cml Cumulant[V, C], at ref) {
	if !cml.has() || at == nilRef {
		return
	}
	n := g.Get(at)
	updateCumulants[K, V, C](g, cml, n.children[left])
	updateCumulants[K, V, C](g, cml, n.children[right])
	updateCumulant[K, V, C](g, cml, at)
}
