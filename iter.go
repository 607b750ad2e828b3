package rbforest

import (
	"cmp"
	"iter"
)

// SearchResultKind is the outcome of a key or comparator search, exposed
// to callers of SearchBy (keyed search results never escape the package,
// since Get/Contains already answer the keyed question directly).
type SearchResultKind int

const (
	// Empty means the tree holds no nodes at all.
	Empty SearchResultKind = iota
	// Here means the sought value was found at Key.
	Here
	// LeftOf means the sought value was not found; it would sort to the
	// left of Key, the nearest node visited during the descent.
	LeftOf
	// RightOf means the sought value was not found; it would sort to the
	// right of Key.
	RightOf
)

// SearchResult is the public outcome of SearchBy.
type SearchResult[K any] struct {
	Kind SearchResultKind
	Key  K
}

// publicSearchBy walks the tree using a caller-supplied comparator instead
// of the key's own Ordered comparison, for trees whose effective sort
// order is carried by something other than the key type directly (spec.md
// §4.3.1, scenario 6 of §8). cmp receives each visited node's key and
// value and must return their ordering relative to the sought value, from
// the node's perspective: positive when the node sorts after the sought
// value (so the search continues left), negative when it sorts before
// (search continues right), zero on a match.
func publicSearchBy[K cmp.Ordered, V any, C any](g reader[K, V, C], cmp func(key K, value V) int) SearchResult[K] {
	current := g.Meta().root
	if current == nilRef {
		return SearchResult[K]{Kind: Empty}
	}
	for {
		n := g.Get(current)
		switch c := cmp(n.key, n.value); {
		case c == 0:
			return SearchResult[K]{Kind: Here, Key: n.key}
		case c > 0:
			if n.children[left] == nilRef {
				return SearchResult[K]{Kind: LeftOf, Key: n.key}
			}
			current = n.children[left]
		default:
			if n.children[right] == nilRef {
				return SearchResult[K]{Kind: RightOf, Key: n.key}
			}
			current = n.children[right]
		}
	}
}

// Iter walks the order thread from lo to hi inclusive, grounded on
// original_source/tree/iter.rs's Iter (the plain, read-only iterator
// built directly off the doubly-linked order thread rather than a tree
// walk).
type Iter[K cmp.Ordered, V any, C any] struct {
	g        reader[K, V, C]
	cur, end ref
	done     bool
}

func newIter[K cmp.Ordered, V any, C any](g reader[K, V, C], lo, hi ref) *Iter[K, V, C] {
	return &Iter[K, V, C]{g: g, cur: lo, end: hi, done: lo == nilRef}
}

// newIterRange builds an Iter bounded by [lo, hi] with the given
// inclusivity at each end, the Go rendering of spec.md's
// iter_range<LI,RI> boolean type-level flags.
func newIterRange[K cmp.Ordered, V any, C any](g reader[K, V, C], lo, hi K, loInclusive, hiInclusive bool) *Iter[K, V, C] {
	start := boundStart[K, V, C](g, lo, loInclusive)
	end := boundEnd[K, V, C](g, hi, hiInclusive)
	if start == nilRef || end == nilRef {
		return &Iter[K, V, C]{g: g, done: true}
	}
	// An empty range (start strictly after end in order) yields nothing;
	// detect it by comparing the two endpoints' keys.
	if g.Get(start).key > g.Get(end).key {
		return &Iter[K, V, C]{g: g, done: true}
	}
	return &Iter[K, V, C]{g: g, cur: start, end: end}
}

func boundStart[K cmp.Ordered, V any, C any](g reader[K, V, C], lo K, inclusive bool) ref {
	res := search[K, V, C](g, lo)
	switch res.kind {
	case srEmpty:
		return nilRef
	case srHere:
		if inclusive {
			return res.at
		}
		return g.Get(res.at).order[right]
	case srLeftOf:
		return res.at
	default: // srRightOf: lo falls strictly between res.at and its successor
		return g.Get(res.at).order[right]
	}
}

func boundEnd[K cmp.Ordered, V any, C any](g reader[K, V, C], hi K, inclusive bool) ref {
	res := search[K, V, C](g, hi)
	switch res.kind {
	case srEmpty:
		return nilRef
	case srHere:
		if inclusive {
			return res.at
		}
		return g.Get(res.at).order[left]
	case srRightOf:
		return res.at
	default: // srLeftOf: hi falls strictly between res.at's predecessor and res.at
		return g.Get(res.at).order[left]
	}
}

// Next reports the next (key, value) pair in ascending order, or ok=false
// once the range is exhausted.
func (it *Iter[K, V, C]) Next() (key K, value V, ok bool) {
	if it.done {
		return key, value, false
	}
	n := it.g.Get(it.cur)
	key, value = n.key, n.value
	if it.cur == it.end {
		it.done = true
	} else {
		it.cur = n.order[right]
		if it.cur == nilRef {
			it.done = true
		}
	}
	return key, value, true
}

// All adapts Iter to a standard range-over-func sequence, the same shape
// other_examples/06ca407e_thebagchi-arena-go__skiplist.go.go uses for its
// own ordered walk.
func (it *Iter[K, V, C]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for {
			k, v, ok := it.Next()
			if !ok || !yield(k, v) {
				return
			}
		}
	}
}

// IterMut is Iter's mutable counterpart: each step yields a pointer into
// the node's value directly. Cumulants touched by those mutations are
// restored in one bottom-up sweep when Close is called, mirroring how
// Filter repropagates after a mutating walk (spec.md §4.4.2) rather than
// paying an O(log n) repropagation after every single step.
type IterMut[K cmp.Ordered, V any, C any] struct {
	g        guard[K, V, C]
	cml      Cumulant[V, C]
	root     ref
	cur, end ref
	done     bool
	closed   bool
}

func newIterMut[K cmp.Ordered, V any, C any](g guard[K, V, C], cml Cumulant[V, C], lo, hi ref) *IterMut[K, V, C] {
	return &IterMut[K, V, C]{g: g, cml: cml, root: g.Meta().root, cur: lo, end: hi, done: lo == nilRef}
}

func (it *IterMut[K, V, C]) Next() (key K, value *V, ok bool) {
	if it.done {
		return key, nil, false
	}
	n := it.g.Get(it.cur)
	key, value = n.key, &n.value
	if it.cur == it.end {
		it.done = true
	} else {
		it.cur = n.order[right]
		if it.cur == nilRef {
			it.done = true
		}
	}
	return key, value, true
}

// Close repropagates cumulants across the whole tree. Safe to call more
// than once.
func (it *IterMut[K, V, C]) Close() {
	if it.closed {
		return
	}
	it.closed = true
	updateCumulants[K, V, C](it.g, it.cml, it.root)
}

// SearchAction is the three-way decision filter's predicate returns for
// each visited node: whether to descend into each child and whether to
// emit this node to the visitor (spec.md §4.3.10). Represented as a
// struct of bools rather than a bitmask — there is no bitflag idiom
// elsewhere in the retrieval pack to follow, and page.go's own slot
// metadata uses plain bool fields throughout.
type SearchAction struct {
	DescendLeft  bool
	DescendRight bool
	Emit         bool
}

func doFilterMut[K cmp.Ordered, V any, C any](g guard[K, V, C], pred func(key K, value V) SearchAction, visit func(key K, value *V)) {
	var walk func(at ref)
	walk = func(at ref) {
		if at == nilRef {
			return
		}
		n := g.Get(at)
		action := pred(n.key, n.value)
		if action.DescendLeft {
			walk(n.children[left])
		}
		if action.Emit {
			visit(n.key, &g.Get(at).value)
		}
		if action.DescendRight {
			walk(n.children[right])
		}
	}
	walk(g.Meta().root)
}
