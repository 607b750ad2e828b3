// Package arena implements a slot arena: a growable slice of slots, each
// either occupied by a value or threaded onto an intrusive free list. It is
// the allocation substrate the tree package builds its nodes on top of.
//
// The free-list discipline mirrors the page-zero allocation chain in a
// disk-backed buffer manager: releasing a slot pushes it onto the head of a
// singly linked free chain, and the next insert pops that same head before
// ever growing the backing slice. There is no generation counter on an
// Index; reusing a stale Index after its slot has been recycled is a
// programming error the arena does not attempt to catch, mirroring that
// same buffer manager's unchecked page-id reuse.
package arena

import "fmt"

// Index addresses a slot in an Arena. The zero value is NOT a valid
// "no index" marker (zero is a legitimate first allocation); NilIndex is
// the dedicated sentinel, chosen as the all-ones bit pattern so that code
// wrapping Index in a pointer-sized "optional index" representation has a
// single forbidden pattern to test against.
type Index uint32

// NilIndex is the forbidden index pattern, standing in for Rust's niche
// optimization of Option<Index>: code that needs an optional index can
// store Index directly and compare against NilIndex instead of carrying an
// extra bool.
const NilIndex Index = ^Index(0)

// Valid reports whether idx is an addressable slot reference.
func (idx Index) Valid() bool { return idx != NilIndex }

func (idx Index) String() string {
	if idx == NilIndex {
		return "<nil>"
	}
	return fmt.Sprintf("#%d", uint32(idx))
}

type slotState uint8

const (
	stateOccupied slotState = iota
	stateFree
)

type slot[T any] struct {
	state slotState
	value T
	next  Index // valid only when state == stateFree
}

// Arena is a vector of slots with O(1) insert/remove and LIFO slot reuse.
// It carries no lock of its own; Port is responsible for serializing
// concurrent access.
type Arena[T any] struct {
	slots []slot[T]
	free  Index
	len   int
}

// New returns an empty arena.
func New[T any]() *Arena[T] {
	return &Arena[T]{free: NilIndex}
}

// WithCapacity returns an empty arena with its backing slice preallocated
// to n slots.
func WithCapacity[T any](n int) *Arena[T] {
	return &Arena[T]{slots: make([]slot[T], 0, n), free: NilIndex}
}

// Len reports the number of occupied slots.
func (a *Arena[T]) Len() int { return a.len }

// IsFull reports whether the next Insert would need to grow the backing
// slice (i.e. the free list is empty and the slice is at capacity).
func (a *Arena[T]) IsFull() bool {
	return a.free == NilIndex && len(a.slots) == cap(a.slots)
}

// InsertWithinCapacity attempts to insert value without growing the
// backing slice. It returns NilIndex, false if the arena is full.
func (a *Arena[T]) InsertWithinCapacity(value T) (Index, bool) {
	if a.free != NilIndex {
		idx := a.free
		debugf("arena: reusing freed slot %s", idx)
		s := &a.slots[idx]
		a.free = s.next
		s.state = stateOccupied
		s.value = value
		s.next = NilIndex
		a.len++
		return idx, true
	}
	if len(a.slots) == cap(a.slots) {
		return NilIndex, false
	}
	a.slots = append(a.slots, slot[T]{state: stateOccupied, value: value, next: NilIndex})
	a.len++
	return Index(len(a.slots) - 1), true
}

// Insert inserts value, growing the backing slice if necessary.
func (a *Arena[T]) Insert(value T) Index {
	if idx, ok := a.InsertWithinCapacity(value); ok {
		return idx
	}
	a.Reserve(len(a.slots) + 1)
	idx, ok := a.InsertWithinCapacity(value)
	if !ok {
		panic("arena: insert failed after reserve")
	}
	return idx
}

// Reserve grows the backing slice so at least n total slots are available,
// doubling capacity the way a typical Go slice grows when the requested
// amount exceeds the current headroom.
func (a *Arena[T]) Reserve(n int) {
	if cap(a.slots) >= n {
		return
	}
	if doubled := 2 * cap(a.slots); doubled > n {
		n = doubled
	}
	debugf("arena: growing backing slice from %d to %d slots", cap(a.slots), n)
	grown := make([]slot[T], len(a.slots), n)
	copy(grown, a.slots)
	a.slots = grown
}

// Remove evicts the value at idx, returning it and threading idx onto the
// free list. It reports ok=false — rather than panicking — when idx does
// not address an occupied slot, including an idx that is out of range or
// was never returned by Insert: matching spec.md §4.1 ("remove(i) →
// Option<T>: returns None if the slot is not occupied") and
// original_source/arena/mod.rs's Option-returning remove, a stale or
// never-allocated index is a recoverable condition at this layer, not a
// panic — callers above that need "this index must be occupied" as a
// proven invariant (arena.Port's AllocGuard.Remove) enforce that
// themselves.
func (a *Arena[T]) Remove(idx Index) (T, bool) {
	var zero T
	if int(idx) >= len(a.slots) {
		return zero, false
	}
	s := &a.slots[idx]
	if s.state != stateOccupied {
		return zero, false
	}
	value := s.value
	s.value = zero
	s.state = stateFree
	s.next = a.free
	a.free = idx
	a.len--
	return value, true
}

// Get returns a pointer to the value at idx, or nil if idx does not
// address an occupied slot.
func (a *Arena[T]) Get(idx Index) *T {
	if int(idx) >= len(a.slots) {
		return nil
	}
	s := &a.slots[idx]
	if s.state != stateOccupied {
		return nil
	}
	return &s.value
}

// Contains reports whether idx addresses an occupied slot.
func (a *Arena[T]) Contains(idx Index) bool {
	return a.Get(idx) != nil
}

// GetPair returns pointers to the values at i and j. It returns
// ErrIndexAlias if i == j, matching the arena-level error spec.md
// reserves for attempts to take two mutable references into the same
// slot.
func (a *Arena[T]) GetPair(i, j Index) (*T, *T, error) {
	if i == j {
		return nil, nil, ErrIndexAlias
	}
	pi := a.Get(i)
	pj := a.Get(j)
	if pi == nil || pj == nil {
		return nil, nil, ErrNotOccupied
	}
	return pi, pj, nil
}
