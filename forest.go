package rbforest

import (
	"cmp"

	"github.com/hmarui66/rbforest/arena"
)

// Forest owns one allocation-capable port over an empty-bounds arena and
// hands out independent Trees that all share its backing storage. It does
// not track which trees it has handed out: nothing stops a caller from
// keeping a Tree alive past the point the Forest itself is no longer
// referenced (the shared *arena.Port keeps the underlying slice alive via
// ordinary GC reachability), and nothing stops a caller from mixing node
// indices across two different forests, which is a programming error
// spec.md §4.5 documents rather than guards against at runtime.
//
// Grounded on spec.md §4.5's WeakForest description directly — the
// original has no forest/multi-tree-per-arena concept of its own to
// translate from.
type Forest[K cmp.Ordered, V any, C any] struct {
	port *arena.Port[node[K, V, C], bounds]
	cml  Cumulant[V, C]
}

// NewForest creates an empty forest with the given cumulant capability
// (Plain[V]() for no augmentation).
func NewForest[K cmp.Ordered, V any, C any](cml Cumulant[V, C]) *Forest[K, V, C] {
	return &Forest[K, V, C]{port: arena.NewPort[node[K, V, C], bounds](emptyBounds()), cml: cml}
}

// NewForestWithCapacity is like NewForest but preallocates arena capacity
// for n nodes.
func NewForestWithCapacity[K cmp.Ordered, V any, C any](n int, cml Cumulant[V, C]) *Forest[K, V, C] {
	return &Forest[K, V, C]{port: arena.NewPortWithCapacity[node[K, V, C], bounds](n, emptyBounds()), cml: cml}
}

// NewTree hands out a fresh, empty Tree sharing this forest's arena.
// Mirrors WeakForest::insert's signature; named NewTree rather than
// Insert in Go to avoid reading like Tree's own key/value Insert.
func (f *Forest[K, V, C]) NewTree() *Tree[K, V, C] {
	return newTreeFromPort[K, V, C](f.port.Clone(emptyBounds()), f.cml)
}

// InsertSortedUnchecked builds a new tree directly from keys/values,
// which must already be in strictly ascending key order, in one O(n)
// pass via recursive median partition (spec.md §4.3.9) rather than n
// sequential inserts. Violating the sortedness precondition is a
// programming error, not a recoverable failure — mirrors
// from_sorted_iter_unchecked's own unsafe/unchecked contract.
func (f *Forest[K, V, C]) InsertSortedUnchecked(keys []K, values []V) *Tree[K, V, C] {
	items := make([]pair[K, V], len(keys))
	for i := range keys {
		items[i] = pair[K, V]{key: keys[i], value: values[i]}
	}
	port := f.port.Clone(emptyBounds())
	ag := port.Alloc()
	*ag.Meta() = bulkBuild[K, V, C](ag, f.cml, items)
	ag.Release()
	return newTreeFromPort[K, V, C](port, f.cml)
}

// SortedSeq marks a (keys, values) pair as already verified sorted by the
// caller — the Go rendering of spec.md's "already sorted capability
// marker", since Go has no trait bound to attach that claim to directly.
type SortedSeq[K cmp.Ordered, V any] struct {
	keys   []K
	values []V
}

// AssertSorted packages keys/values as a SortedSeq. It does not check the
// ordering — exactly as the original's own sorted-iter feature gate
// trusts its SortedByKey bound without a runtime check — but spelling the
// assertion as an explicit marker value makes call sites read as a
// deliberate claim rather than an incidental convenience call.
func AssertSorted[K cmp.Ordered, V any](keys []K, values []V) SortedSeq[K, V] {
	return SortedSeq[K, V]{keys: keys, values: values}
}

// InsertSorted is InsertSortedUnchecked's safe-looking counterpart,
// gated on having packaged the input through AssertSorted first.
func (f *Forest[K, V, C]) InsertSorted(seq SortedSeq[K, V]) *Tree[K, V, C] {
	return f.InsertSortedUnchecked(seq.keys, seq.values)
}
