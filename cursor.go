package rbforest

import (
	"cmp"

	"github.com/hmarui66/rbforest/arena"
)

// Cursor holds a (tree, current-node) pair. Next/Prev step along the order
// thread, as Iter does; Parent/Left/Right step through the tree structure
// directly. Grounded on original_source/tree/cursor.rs's Cursor and its
// CursorMove/CursorPeek traits; Rust's trait-object capability tiers
// become three concrete Go structs (Cursor/CursorMut/CursorAlloc), since
// Go has no trait objects over associated capabilities.
//
// Moving past an endpoint (no next/prev/parent/child in that direction)
// sets the cursor to the empty position; moving again from the empty
// position snaps to that direction's anchor (rangeLo for next, rangeHi
// for prev, root for parent/left/right), making Next/Prev cyclic across
// the whole tree the way spec.md §4.3.11 describes.
type Cursor[K cmp.Ordered, V any, C any] struct {
	g       reader[K, V, C]
	current ref
}

func newCursor[K cmp.Ordered, V any, C any](g reader[K, V, C], start ref) *Cursor[K, V, C] {
	return &Cursor[K, V, C]{g: g, current: start}
}

func cursorStart[K cmp.Ordered, V any, C any](g reader[K, V, C], key K) ref {
	if res := search[K, V, C](g, key); res.kind == srHere {
		return res.at
	}
	return nilRef
}

func refKV[K cmp.Ordered, V any, C any](g reader[K, V, C], at ref) (key K, value V, ok bool) {
	if at == nilRef {
		return key, value, false
	}
	n := g.Get(at)
	return n.key, n.value, true
}

// Current reports the key and value at the cursor's position, or
// ok=false if the cursor is at the empty position.
func (c *Cursor[K, V, C]) Current() (key K, value V, ok bool) {
	return refKV[K, V, C](c.g, c.current)
}

func (c *Cursor[K, V, C]) nextOf(at ref) ref {
	if at == nilRef {
		return c.g.Meta().rangeLo
	}
	return c.g.Get(at).order[right]
}

func (c *Cursor[K, V, C]) prevOf(at ref) ref {
	if at == nilRef {
		return c.g.Meta().rangeHi
	}
	return c.g.Get(at).order[left]
}

func (c *Cursor[K, V, C]) parentOf(at ref) ref {
	if at == nilRef {
		return c.g.Meta().root
	}
	return c.g.Get(at).parent
}

func (c *Cursor[K, V, C]) leftOf(at ref) ref {
	if at == nilRef {
		return c.g.Meta().root
	}
	return c.g.Get(at).children[left]
}

func (c *Cursor[K, V, C]) rightOf(at ref) ref {
	if at == nilRef {
		return c.g.Meta().root
	}
	return c.g.Get(at).children[right]
}

func (c *Cursor[K, V, C]) MoveNext()   { c.current = c.nextOf(c.current) }
func (c *Cursor[K, V, C]) MovePrev()   { c.current = c.prevOf(c.current) }
func (c *Cursor[K, V, C]) MoveParent() { c.current = c.parentOf(c.current) }
func (c *Cursor[K, V, C]) MoveLeft()   { c.current = c.leftOf(c.current) }
func (c *Cursor[K, V, C]) MoveRight()  { c.current = c.rightOf(c.current) }

func (c *Cursor[K, V, C]) PeekNext() (K, V, bool)   { return refKV[K, V, C](c.g, c.nextOf(c.current)) }
func (c *Cursor[K, V, C]) PeekPrev() (K, V, bool)   { return refKV[K, V, C](c.g, c.prevOf(c.current)) }
func (c *Cursor[K, V, C]) PeekParent() (K, V, bool) { return refKV[K, V, C](c.g, c.parentOf(c.current)) }
func (c *Cursor[K, V, C]) PeekLeft() (K, V, bool)   { return refKV[K, V, C](c.g, c.leftOf(c.current)) }
func (c *Cursor[K, V, C]) PeekRight() (K, V, bool)  { return refKV[K, V, C](c.g, c.rightOf(c.current)) }

// CursorMut is a Cursor that additionally allows mutating the value at
// the current position.
type CursorMut[K cmp.Ordered, V any, C any] struct {
	*Cursor[K, V, C]
	cml Cumulant[V, C]
}

func newCursorMut[K cmp.Ordered, V any, C any](g reader[K, V, C], cml Cumulant[V, C], start ref) *CursorMut[K, V, C] {
	return &CursorMut[K, V, C]{Cursor: newCursor[K, V, C](g, start), cml: cml}
}

// GetMut returns a scoped mutable reference to the value at the cursor's
// current position. The caller must call Close when done, exactly as
// with WriteGuard.GetMut.
func (c *CursorMut[K, V, C]) GetMut() (*ValueMut[K, V, C], bool) {
	if c.current == nilRef {
		return nil, false
	}
	return newValueMut[K, V, C](c.g, c.cml, c.current), true
}

// CursorAlloc is a CursorMut that can additionally remove the node
// adjacent to its current position in any of the five directions.
type CursorAlloc[K cmp.Ordered, V any, C any] struct {
	*CursorMut[K, V, C]
	ag *arena.AllocGuard[node[K, V, C], bounds]
}

func newCursorAlloc[K cmp.Ordered, V any, C any](ag *arena.AllocGuard[node[K, V, C], bounds], cml Cumulant[V, C], start ref) *CursorAlloc[K, V, C] {
	return &CursorAlloc[K, V, C]{CursorMut: newCursorMut[K, V, C](ag, cml, start), ag: ag}
}

func (c *CursorAlloc[K, V, C]) removeTarget(target ref) (key K, value V, ok bool) {
	if target == nilRef {
		return key, value, false
	}
	n := c.ag.Get(target)
	key, value = n.key, n.value
	doRemoveNode[K, V, C](c.ag, c.cml, target)
	c.ag.Remove(target)
	if c.current == target {
		c.current = nilRef
	}
	return key, value, true
}

func (c *CursorAlloc[K, V, C]) RemoveNext() (K, V, bool) {
	return c.removeTarget(c.nextOf(c.current))
}

func (c *CursorAlloc[K, V, C]) RemovePrev() (K, V, bool) {
	return c.removeTarget(c.prevOf(c.current))
}

func (c *CursorAlloc[K, V, C]) RemoveParent() (K, V, bool) {
	return c.removeTarget(c.parentOf(c.current))
}

func (c *CursorAlloc[K, V, C]) RemoveLeft() (K, V, bool) {
	return c.removeTarget(c.leftOf(c.current))
}

func (c *CursorAlloc[K, V, C]) RemoveRight() (K, V, bool) {
	return c.removeTarget(c.rightOf(c.current))
}
