package rbforest

import (
	"cmp"

	"github.com/hmarui66/rbforest/arena"
)

// Tree is a handle onto one tree living inside a shared arena. Many Trees
// may share one arena (one per key set a Forest hands out); each carries
// its own bounds metadata and its own metadata lock, so operations on one
// tree never block operations on another sharing the same backing slots.
// Grounded on original_source/tree/interface.rs's Tree::read/write/alloc.
type Tree[K cmp.Ordered, V any, C any] struct {
	port *arena.Port[node[K, V, C], bounds]
	cml  Cumulant[V, C]
}

func newTreeFromPort[K cmp.Ordered, V any, C any](port *arena.Port[node[K, V, C], bounds], cml Cumulant[V, C]) *Tree[K, V, C] {
	return &Tree[K, V, C]{port: port, cml: cml}
}

// Read acquires a read guard: shared access to the arena, shared access
// to this tree's metadata. The caller must call Release when done.
func (t *Tree[K, V, C]) Read() *ReadGuard[K, V, C] {
	return &ReadGuard[K, V, C]{ag: t.port.Read(), tree: t}
}

// Write acquires a write guard: shared access to the arena (node-local
// mutation only, no insert/remove), exclusive access to this tree's
// metadata.
func (t *Tree[K, V, C]) Write() *WriteGuard[K, V, C] {
	return &WriteGuard[K, V, C]{ag: t.port.Write(), tree: t}
}

// Alloc acquires an alloc guard: upgradeable access to the arena (insert
// and remove are allowed), exclusive access to this tree's metadata.
func (t *Tree[K, V, C]) Alloc() *AllocGuard[K, V, C] {
	return &AllocGuard[K, V, C]{ag: t.port.Alloc(), tree: t}
}

// ReadGuard grants read-only access to one tree.
type ReadGuard[K cmp.Ordered, V any, C any] struct {
	ag   *arena.ReadGuard[node[K, V, C], bounds]
	tree *Tree[K, V, C]
}

func (g *ReadGuard[K, V, C]) Release() { g.ag.Release() }

func (g *ReadGuard[K, V, C]) Get(key K) (V, bool) {
	return doGet[K, V, C](g.ag, key)
}

func (g *ReadGuard[K, V, C]) Contains(key K) bool {
	return doContains[K, V, C](g.ag, key)
}

func (g *ReadGuard[K, V, C]) Len() int      { return g.ag.Meta().len }
func (g *ReadGuard[K, V, C]) IsEmpty() bool { return g.ag.Meta().len == 0 }

func (g *ReadGuard[K, V, C]) Min() (K, bool) { return doMin[K, V, C](g.ag) }
func (g *ReadGuard[K, V, C]) Max() (K, bool) { return doMax[K, V, C](g.ag) }
func (g *ReadGuard[K, V, C]) Range() (lo, hi K, ok bool) {
	return doRange[K, V, C](g.ag)
}

// Cumulant returns the root's cumulant, or the zero cumulant for an empty
// tree.
func (g *ReadGuard[K, V, C]) Cumulant() C {
	root := g.ag.Meta().root
	if root == nilRef {
		return g.tree.cml.Zero
	}
	return g.ag.Get(root).cumulant
}

func (g *ReadGuard[K, V, C]) Iter() *Iter[K, V, C] {
	return newIter[K, V, C](g.ag, g.ag.Meta().rangeLo, g.ag.Meta().rangeHi)
}

func (g *ReadGuard[K, V, C]) IterRange(lo, hi K, loInclusive, hiInclusive bool) *Iter[K, V, C] {
	return newIterRange[K, V, C](g.ag, lo, hi, loInclusive, hiInclusive)
}

func (g *ReadGuard[K, V, C]) SearchBy(cmp func(key K, value V) int) SearchResult[K] {
	return publicSearchBy[K, V, C](g.ag, cmp)
}

func (g *ReadGuard[K, V, C]) Cursor() *Cursor[K, V, C] {
	return newCursor[K, V, C](g.ag, g.ag.Meta().root)
}

func (g *ReadGuard[K, V, C]) CursorAt(key K) *Cursor[K, V, C] {
	return newCursor[K, V, C](g.ag, cursorStart[K, V, C](g.ag, key))
}

// WriteGuard grants node-local mutation of an existing tree: no insert or
// remove, but GetMut/GetPairMut/IterMut/Filter are all available.
type WriteGuard[K cmp.Ordered, V any, C any] struct {
	ag   *arena.WriteGuard[node[K, V, C], bounds]
	tree *Tree[K, V, C]
}

func (g *WriteGuard[K, V, C]) Release() { g.ag.Release() }

func (g *WriteGuard[K, V, C]) Get(key K) (V, bool)      { return doGet[K, V, C](g.ag, key) }
func (g *WriteGuard[K, V, C]) Contains(key K) bool      { return doContains[K, V, C](g.ag, key) }
func (g *WriteGuard[K, V, C]) Len() int                 { return g.ag.Meta().len }
func (g *WriteGuard[K, V, C]) IsEmpty() bool            { return g.ag.Meta().len == 0 }
func (g *WriteGuard[K, V, C]) Min() (K, bool)           { return doMin[K, V, C](g.ag) }
func (g *WriteGuard[K, V, C]) Max() (K, bool)           { return doMax[K, V, C](g.ag) }
func (g *WriteGuard[K, V, C]) Range() (lo, hi K, ok bool) {
	return doRange[K, V, C](g.ag)
}

func (g *WriteGuard[K, V, C]) Cumulant() C {
	root := g.ag.Meta().root
	if root == nilRef {
		return g.tree.cml.Zero
	}
	return g.ag.Get(root).cumulant
}

func (g *WriteGuard[K, V, C]) Iter() *Iter[K, V, C] {
	return newIter[K, V, C](g.ag, g.ag.Meta().rangeLo, g.ag.Meta().rangeHi)
}

func (g *WriteGuard[K, V, C]) IterRange(lo, hi K, loInclusive, hiInclusive bool) *Iter[K, V, C] {
	return newIterRange[K, V, C](g.ag, lo, hi, loInclusive, hiInclusive)
}

func (g *WriteGuard[K, V, C]) IterMut() *IterMut[K, V, C] {
	return newIterMut[K, V, C](g.ag, g.tree.cml, g.ag.Meta().rangeLo, g.ag.Meta().rangeHi)
}

func (g *WriteGuard[K, V, C]) SearchBy(cmp func(key K, value V) int) SearchResult[K] {
	return publicSearchBy[K, V, C](g.ag, cmp)
}

// GetMut returns a scoped mutable reference to the value at key. The
// caller must call Close (typically via defer) when done, to restore the
// cumulant invariant (spec.md §4.4.1).
func (g *WriteGuard[K, V, C]) GetMut(key K) (*ValueMut[K, V, C], bool) {
	res := search[K, V, C](g.ag, key)
	if res.kind != srHere {
		return nil, false
	}
	return newValueMut[K, V, C](g.ag, g.tree.cml, res.at), true
}

// GetPairMut returns scoped mutable references to two distinct keys. It
// fails with ErrKeyAlias if k1 == k2; a key that is not present yields a
// nil *ValueMut for that slot with no error.
func (g *WriteGuard[K, V, C]) GetPairMut(k1, k2 K) (*ValueMut[K, V, C], *ValueMut[K, V, C], error) {
	return doGetPairMut[K, V, C](g.ag, g.tree.cml, k1, k2)
}

// GetMutWith returns a scoped mutable reference to key plus a point-in-time
// copy of each of others' current values. Fails with ErrKeyAlias if key
// equals any entry of others.
func (g *WriteGuard[K, V, C]) GetMutWith(key K, others ...K) (*ValueMut[K, V, C], []V, error) {
	return doGetMutWith[K, V, C](g.ag, g.tree.cml, key, others)
}

// Filter performs a depth-first walk guided by pred, mutating any node it
// emits, and repropagates cumulants across the whole tree on return
// (spec.md §4.3.10/§4.4.2).
func (g *WriteGuard[K, V, C]) Filter(pred func(key K, value V) SearchAction, visit func(key K, value *V)) {
	doFilterMut[K, V, C](g.ag, pred, visit)
	updateCumulants[K, V, C](g.ag, g.tree.cml, g.ag.Meta().root)
}

func (g *WriteGuard[K, V, C]) Cursor() *Cursor[K, V, C] {
	return newCursor[K, V, C](g.ag, g.ag.Meta().root)
}

func (g *WriteGuard[K, V, C]) CursorAt(key K) *Cursor[K, V, C] {
	return newCursor[K, V, C](g.ag, cursorStart[K, V, C](g.ag, key))
}

func (g *WriteGuard[K, V, C]) CursorMut() *CursorMut[K, V, C] {
	return newCursorMut[K, V, C](g.ag, g.tree.cml, g.ag.Meta().root)
}

func (g *WriteGuard[K, V, C]) CursorMutAt(key K) *CursorMut[K, V, C] {
	return newCursorMut[K, V, C](g.ag, g.tree.cml, cursorStart[K, V, C](g.ag, key))
}

// AllocGuard grants everything WriteGuard does, plus insert/remove/clear
// and allocator-backed cursors.
type AllocGuard[K cmp.Ordered, V any, C any] struct {
	ag   *arena.AllocGuard[node[K, V, C], bounds]
	tree *Tree[K, V, C]
}

func (g *AllocGuard[K, V, C]) Release() { g.ag.Release() }

func (g *AllocGuard[K, V, C]) Get(key K) (V, bool)        { return doGet[K, V, C](g.ag, key) }
func (g *AllocGuard[K, V, C]) Contains(key K) bool        { return doContains[K, V, C](g.ag, key) }
func (g *AllocGuard[K, V, C]) Len() int                   { return g.ag.Meta().len }
func (g *AllocGuard[K, V, C]) IsEmpty() bool              { return g.ag.Meta().len == 0 }
func (g *AllocGuard[K, V, C]) Min() (K, bool)             { return doMin[K, V, C](g.ag) }
func (g *AllocGuard[K, V, C]) Max() (K, bool)             { return doMax[K, V, C](g.ag) }
func (g *AllocGuard[K, V, C]) Range() (lo, hi K, ok bool) { return doRange[K, V, C](g.ag) }

func (g *AllocGuard[K, V, C]) Cumulant() C {
	root := g.ag.Meta().root
	if root == nilRef {
		return g.tree.cml.Zero
	}
	return g.ag.Get(root).cumulant
}

func (g *AllocGuard[K, V, C]) Iter() *Iter[K, V, C] {
	return newIter[K, V, C](g.ag, g.ag.Meta().rangeLo, g.ag.Meta().rangeHi)
}

func (g *AllocGuard[K, V, C]) IterRange(lo, hi K, loInclusive, hiInclusive bool) *Iter[K, V, C] {
	return newIterRange[K, V, C](g.ag, lo, hi, loInclusive, hiInclusive)
}

func (g *AllocGuard[K, V, C]) IterMut() *IterMut[K, V, C] {
	return newIterMut[K, V, C](g.ag, g.tree.cml, g.ag.Meta().rangeLo, g.ag.Meta().rangeHi)
}

func (g *AllocGuard[K, V, C]) SearchBy(cmp func(key K, value V) int) SearchResult[K] {
	return publicSearchBy[K, V, C](g.ag, cmp)
}

func (g *AllocGuard[K, V, C]) GetMut(key K) (*ValueMut[K, V, C], bool) {
	res := search[K, V, C](g.ag, key)
	if res.kind != srHere {
		return nil, false
	}
	return newValueMut[K, V, C](g.ag, g.tree.cml, res.at), true
}

func (g *AllocGuard[K, V, C]) GetPairMut(k1, k2 K) (*ValueMut[K, V, C], *ValueMut[K, V, C], error) {
	return doGetPairMut[K, V, C](g.ag, g.tree.cml, k1, k2)
}

func (g *AllocGuard[K, V, C]) GetMutWith(key K, others ...K) (*ValueMut[K, V, C], []V, error) {
	return doGetMutWith[K, V, C](g.ag, g.tree.cml, key, others)
}

func (g *AllocGuard[K, V, C]) Filter(pred func(key K, value V) SearchAction, visit func(key K, value *V)) {
	doFilterMut[K, V, C](g.ag, pred, visit)
	updateCumulants[K, V, C](g.ag, g.tree.cml, g.ag.Meta().root)
}

func (g *AllocGuard[K, V, C]) Cursor() *Cursor[K, V, C] {
	return newCursor[K, V, C](g.ag, g.ag.Meta().root)
}
func (g *AllocGuard[K, V, C]) CursorAt(key K) *Cursor[K, V, C] {
	return newCursor[K, V, C](g.ag, cursorStart[K, V, C](g.ag, key))
}
func (g *AllocGuard[K, V, C]) CursorMut() *CursorMut[K, V, C] {
	return newCursorMut[K, V, C](g.ag, g.tree.cml, g.ag.Meta().root)
}
func (g *AllocGuard[K, V, C]) CursorMutAt(key K) *CursorMut[K, V, C] {
	return newCursorMut[K, V, C](g.ag, g.tree.cml, cursorStart[K, V, C](g.ag, key))
}
func (g *AllocGuard[K, V, C]) CursorAlloc() *CursorAlloc[K, V, C] {
	return newCursorAlloc[K, V, C](g.ag, g.tree.cml, g.ag.Meta().root)
}
func (g *AllocGuard[K, V, C]) CursorAllocAt(key K) *CursorAlloc[K, V, C] {
	return newCursorAlloc[K, V, C](g.ag, g.tree.cml, cursorStart[K, V, C](g.ag, key))
}

// Insert installs value at key, replacing any existing value and
// reporting false, or attaching a new red leaf (or a black root, for an
// empty tree) and reporting true. Mirrors
// original_source/tree/interface.rs's TreeAllocGuard::insert.
func (g *AllocGuard[K, V, C]) Insert(key K, value V) bool {
	meta := g.ag.Meta()
	switch res := search[K, V, C](g.ag, key); res.kind {
	case srHere:
		g.ag.Get(res.at).value = value
		propagateCumulant[K, V, C](g.ag, g.tree.cml, res.at)
		return false
	case srEmpty:
		idx := g.ag.Insert(newNode[K, V, C](key, value, Black))
		meta.root, meta.rangeLo, meta.rangeHi = idx, idx, idx
		meta.blackHeight = 1
		meta.len = 1
		updateCumulant[K, V, C](g.ag, g.tree.cml, idx)
		return true
	case srLeftOf:
		idx := g.ag.Insert(newNode[K, V, C](key, value, Red))
		insertAt[K, V, C](g.ag, g.tree.cml, idx, res.at, left)
		meta.len++
		propagateCumulant[K, V, C](g.ag, g.tree.cml, idx)
		return true
	default: // srRightOf
		idx := g.ag.Insert(newNode[K, V, C](key, value, Red))
		insertAt[K, V, C](g.ag, g.tree.cml, idx, res.at, right)
		meta.len++
		propagateCumulant[K, V, C](g.ag, g.tree.cml, idx)
		return true
	}
}

// doInsertNode attaches an already-allocated, structurally-detached node
// into a tree, failing with ErrDuplicateKey if the key already exists.
// Used by MoveNode. Attaching an already-resident node needs no
// arena-level Insert, so only Get/Meta access is required and any guard
// kind provides that. Forces the usual red-leaf-or-black-root coloring
// regardless of the color the node happened to carry in its previous
// tree, exactly as a fresh Insert would.
func doInsertNode[K cmp.Ordered, V any, C any](g guard[K, V, C], cml Cumulant[V, C], idx ref) error {
	meta := g.Meta()
	n := g.Get(idx)
	key := n.key
	switch res := search[K, V, C](g, key); res.kind {
	case srHere:
		return ErrDuplicateKey
	case srEmpty:
		n.color = Black
		meta.root, meta.rangeLo, meta.rangeHi = idx, idx, idx
		meta.blackHeight = 1
	case srLeftOf:
		n.color = Red
		insertAt[K, V, C](g, cml, idx, res.at, left)
	default:
		n.color = Red
		insertAt[K, V, C](g, cml, idx, res.at, right)
	}
	meta.len++
	return nil
}

// Remove deletes key from the tree, returning its value and true, or the
// zero value and false if key was not present.
func (g *AllocGuard[K, V, C]) Remove(key K) (V, bool) {
	res := search[K, V, C](g.ag, key)
	if res.kind != srHere {
		var zero V
		return zero, false
	}
	value := g.ag.Get(res.at).value
	doRemoveNode[K, V, C](g.ag, g.tree.cml, res.at)
	g.ag.Remove(res.at)
	return value, true
}

// doRemoveNode detaches the node at idx from its tree's structure (rotating
// the order thread and metadata bounds around the hole) without freeing its
// arena slot. Shared by Remove (which frees the slot right after), by
// MoveNode (which hands the still-allocated slot to another tree), and by
// CursorAlloc's RemoveNext/Prev/Parent/Left/Right. Needs only Get/Meta
// access, so a WriteGuard suffices as well as an AllocGuard.
func doRemoveNode[K cmp.Ordered, V any, C any](g guard[K, V, C], cml Cumulant[V, C], at ref) {
	propagateFrom := removeAt[K, V, C](g, cml, at)
	meta := g.Meta()
	meta.len--
	if meta.root == nilRef {
		meta.blackHeight = 0
	}
	propagateCumulant[K, V, C](g, cml, propagateFrom)
}

// Clear empties the tree, freeing every node's slot.
func (g *AllocGuard[K, V, C]) Clear() {
	meta := g.ag.Meta()
	ptr := meta.rangeLo
	for ptr != nilRef {
		next := g.ag.Get(ptr).order[right]
		g.ag.Remove(ptr)
		ptr = next
	}
	*meta = emptyBounds()
}

// --- shared read-only helpers, used by all three guard kinds ---

func doGet[K cmp.Ordered, V any, C any](g reader[K, V, C], key K) (V, bool) {
	res := search[K, V, C](g, key)
	if res.kind != srHere {
		var zero V
		return zero, false
	}
	return g.Get(res.at).value, true
}

func doContains[K cmp.Ordered, V any, C any](g reader[K, V, C], key K) bool {
	return search[K, V, C](g, key).kind == srHere
}

func doMin[K cmp.Ordered, V any, C any](g reader[K, V, C]) (K, bool) {
	idx := g.Meta().rangeLo
	if idx == nilRef {
		var zero K
		return zero, false
	}
	return g.Get(idx).key, true
}

func doMax[K cmp.Ordered, V any, C any](g reader[K, V, C]) (K, bool) {
	idx := g.Meta().rangeHi
	if idx == nilRef {
		var zero K
		return zero, false
	}
	return g.Get(idx).key, true
}

func doRange[K cmp.Ordered, V any, C any](g reader[K, V, C]) (lo, hi K, ok bool) {
	m := g.Meta()
	if m.rangeLo == nilRef {
		var zero K
		return zero, zero, false
	}
	return g.Get(m.rangeLo).key, g.Get(m.rangeHi).key, true
}

// doGetPairMut resolves k1/k2 to nodes and, when both are present, takes
// them through the arena's own disjoint-pair accessor rather than two
// independent Gets — the same ErrIndexAlias/ErrNotOccupied-checked path
// arena.Port.GetPair uses, so a violation of the "two distinct keys name
// two distinct slots" invariant surfaces as the tree-level Arena(_)
// variant (spec.md §6/§7) instead of silently reading past it.
func doGetPairMut[K cmp.Ordered, V any, C any](g guard[K, V, C], cml Cumulant[V, C], k1, k2 K) (*ValueMut[K, V, C], *ValueMut[K, V, C], error) {
	if k1 == k2 {
		return nil, nil, ErrKeyAlias
	}
	r1 := search[K, V, C](g, k1)
	r2 := search[K, V, C](g, k2)
	if r1.kind == srHere && r2.kind == srHere {
		if _, _, err := g.GetPair(r1.at, r2.at); err != nil {
			return nil, nil, wrapArena(err)
		}
	}
	var v1, v2 *ValueMut[K, V, C]
	if r1.kind == srHere {
		v1 = newValueMut[K, V, C](g, cml, r1.at)
	}
	if r2.kind == srHere {
		v2 = newValueMut[K, V, C](g, cml, r2.at)
	}
	return v1, v2, nil
}

// doGetMutWith checks key against each of others the same way doGetPairMut
// checks a pair, wrapping any arena-level error in the Arena(_) variant.
func doGetMutWith[K cmp.Ordered, V any, C any](g guard[K, V, C], cml Cumulant[V, C], key K, others []K) (*ValueMut[K, V, C], []V, error) {
	for _, o := range others {
		if o == key {
			return nil, nil, ErrKeyAlias
		}
	}
	res := search[K, V, C](g, key)
	out := make([]V, len(others))
	for i, o := range others {
		r := search[K, V, C](g, o)
		if r.kind != srHere {
			continue
		}
		if res.kind == srHere {
			if _, _, err := g.GetPair(res.at, r.at); err != nil {
				return nil, nil, wrapArena(err)
			}
		}
		out[i] = g.Get(r.at).value
	}
	var vm *ValueMut[K, V, C]
	if res.kind == srHere {
		vm = newValueMut[K, V, C](g, cml, res.at)
	}
	return vm, out, nil
}
