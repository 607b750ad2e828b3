package rbforest

import (
	"cmp"

	"github.com/hmarui66/rbforest/arena"
)

// reader is satisfied by every guard kind (Read/Write/Alloc) over this
// tree's node/bounds types. Read-only algorithms (search, limit, cumulant
// propagation) are written once against this interface instead of being
// duplicated per guard kind.
type reader[K any, V any, C any] interface {
	Get(arena.Index) *node[K, V, C]
	Meta() *bounds
}

// guard is satisfied by *arena.WriteGuard and *arena.AllocGuard: it adds
// GetPair, needed by remove-fixup's case 3.4 (color swap between sibling
// and parent) and by the public GetPairMut API. ReadGuard does not satisfy
// this — nothing mutates through a read-only guard.
type guard[K any, V any, C any] interface {
	reader[K, V, C]
	GetPair(i, j arena.Index) (*node[K, V, C], *node[K, V, C], error)
}

// searchResult mirrors the reference implementation's SearchResult: the
// outcome of walking down from the root looking for a key.
type searchResultKind int

const (
	srEmpty    searchResultKind = iota // tree has no root at all
	srHere                             // key found, at the returned node
	srLeftOf                           // key not found; would be the left child of the returned node
	srRightOf                          // key not found; would be the right child of the returned node
)

type searchResult struct {
	kind searchResultKind
	at   ref
}

// search walks down from the root comparing key against each node visited,
// returning where the key would be inserted (or where it already is).
func search[K cmp.Ordered, V any, C any](g reader[K, V, C], key K) searchResult {
	current := g.Meta().root
	if current == nilRef {
		return searchResult{kind: srEmpty}
	}
	for {
		n := g.Get(current)
		switch {
		case key == n.key:
			return searchResult{kind: srHere, at: current}
		case key < n.key:
			if n.children[left] == nilRef {
				return searchResult{kind: srLeftOf, at: current}
			}
			current = n.children[left]
		default:
			if n.children[right] == nilRef {
				return searchResult{kind: srRightOf, at: current}
			}
			current = n.children[right]
		}
	}
}

// rotate performs a single tree rotation around pivot in direction dir
// (left=0 rotates left, right=1 rotates right), relinking parent/children
// pointers. It does not touch the order-thread (rotation never changes
// in-order sequence) and does not touch colors or cumulants — callers are
// responsible for those.
func rotate[K cmp.Ordered, V any, C any](g guard[K, V, C], pivot ref, dir int) ref {
	debugf("rbforest: rotate pivot=%v dir=%d", pivot, dir)
	other := 1 - dir
	pivotNode := g.Get(pivot)
	child := pivotNode.children[other]
	childNode := g.Get(child)

	moved := childNode.children[dir]
	pivotNode.children[other] = moved
	if moved != nilRef {
		g.Get(moved).parent = pivot
	}

	parent := pivotNode.parent
	childNode.parent = parent
	if parent == nilRef {
		g.Meta().root = child
	} else {
		parentNode := g.Get(parent)
		if parentNode.children[left] == pivot {
			parentNode.children[left] = child
		} else {
			parentNode.children[right] = child
		}
	}

	childNode.children[dir] = pivot
	pivotNode.parent = child

	return child
}

func rotateLeft[K cmp.Ordered, V any, C any](g guard[K, V, C], pivot ref) ref {
	return rotate[K, V, C](g, pivot, left)
}

func rotateRight[K cmp.Ordered, V any, C any](g guard[K, V, C], pivot ref) ref {
	return rotate[K, V, C](g, pivot, right)
}

// limit walks to the minimum (dir=0) or maximum (dir=1) key in the subtree
// rooted at start.
func limit[K cmp.Ordered, V any, C any](g reader[K, V, C], start ref, dir int) ref {
	current := start
	for {
		n := g.Get(current)
		if n.children[dir] == nilRef {
			return current
		}
		current = n.children[dir]
	}
}
