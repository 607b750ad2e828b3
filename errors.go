package rbforest

import (
	"github.com/pkg/errors"
)

// ErrDuplicateKey is returned by MoveNode when the destination tree already
// holds the key being moved. (AllocGuard.Insert instead replaces the value
// of an existing key and reports false.)
var ErrDuplicateKey = errors.New("rbforest: duplicate key")

// ErrKeyAlias is returned by operations that take two keys and require
// them to be distinct (notably GetPair-style dual mutable access).
var ErrKeyAlias = errors.New("rbforest: key alias")

// ErrOverlapping is returned by Join and UnionDisjoint when the two trees'
// key ranges overlap, which those operations require not to happen (Join
// additionally requires every key in the left tree to sort before every
// key in the right tree and the pivot to fall strictly between them).
var ErrOverlapping = errors.New("rbforest: overlapping key ranges")

// ArenaError is the tree-level "Arena(_)" error variant spec.md §6/§7
// describe: an arena.ErrIndexAlias or arena.ErrNotOccupied surfaced up
// through a tree operation rather than swallowed or panicked on, with the
// original arena-level error preserved underneath. errors.Cause (and the
// standard library's errors.Unwrap/errors.Is/errors.As) recover it.
type ArenaError struct {
	cause error
}

func (e *ArenaError) Error() string { return "rbforest: arena: " + e.cause.Error() }

// Unwrap exposes the wrapped arena-level error to errors.Is/errors.As.
func (e *ArenaError) Unwrap() error { return e.cause }

// Cause exposes the wrapped arena-level error to github.com/pkg/errors'
// errors.Cause, matching DESIGN.md's documented wrapping mechanism.
func (e *ArenaError) Cause() error { return e.cause }

// wrapArena turns a non-nil arena-level error into the tree-level Arena(_)
// variant; a nil error passes through unchanged.
func wrapArena(err error) error {
	if err == nil {
		return nil
	}
	return &ArenaError{cause: err}
}
