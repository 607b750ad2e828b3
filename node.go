package rbforest

import "github.com/hmarui66/rbforest/arena"

// Color is a red-black tree node color.
type Color int8

const (
	Black Color = iota
	Red
)

// Not flips a color, used when walking down the tree assigning alternating
// colors during bulk construction.
func (c Color) Not() Color {
	if c == Black {
		return Red
	}
	return Black
}

func (c Color) String() string {
	if c == Black {
		return "black"
	}
	return "red"
}

// ref is a node reference. arena.NilIndex stands in for "no node", the
// same sentinel the arena package itself uses.
type ref = arena.Index

const nilRef = arena.NilIndex

const (
	left  = 0
	right = 1
)

// node is the arena-resident tree node. Besides the usual key/value/color/
// parent/children quartet it carries an order-thread pair: order[0] is the
// in-order predecessor, order[1] the in-order successor, maintained
// alongside the tree shape so a cursor can step to the next or previous key
// in O(1) without a tree walk.
type node[K any, V any, C any] struct {
	key      K
	value    V
	cumulant C
	color    Color
	parent   ref
	children [2]ref
	order    [2]ref
}

func newNode[K any, V any, C any](key K, value V, color Color) node[K, V, C] {
	return node[K, V, C]{
		key:      key,
		value:    value,
		color:    color,
		parent:   nilRef,
		children: [2]ref{nilRef, nilRef},
		order:    [2]ref{nilRef, nilRef},
	}
}

func (n *node[K, V, C]) isBlack() bool { return n.color == Black }
func (n *node[K, V, C]) isRed() bool   { return n.color == Red }
