package rbforest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// checkOrderThread walks order[1] starting at rangeLo and asserts it visits
// every occupied key in strictly increasing order exactly once (P3), and
// that rangeLo/rangeHi agree with the extremes of that walk (P4).
func checkOrderThread(t *testing.T, rg *ReadGuard[int, string, struct{}]) {
	t.Helper()
	m := rg.ag.Meta()
	if m.root == nilRef {
		assert.Equal(t, nilRef, m.rangeLo)
		assert.Equal(t, nilRef, m.rangeHi)
		return
	}

	var forward []int
	at := m.rangeLo
	require.Equal(t, nilRef, rg.ag.Get(at).order[left], "rangeLo has no predecessor")
	for at != nilRef {
		forward = append(forward, rg.ag.Get(at).key)
		at = rg.ag.Get(at).order[right]
	}
	require.Equal(t, nilRef, rg.ag.Get(m.rangeHi).order[right], "rangeHi has no successor")

	for i := 1; i < len(forward); i++ {
		assert.Less(t, forward[i-1], forward[i], "order thread not strictly increasing at %d", i)
	}
	assert.Equal(t, rg.ag.Get(m.rangeLo).key, forward[0])
	assert.Equal(t, rg.ag.Get(m.rangeHi).key, forward[len(forward)-1])
	assert.Equal(t, m.len, len(forward), "order thread length disagrees with bounds.len")
}

// TestInsertRemoveSequence walks spec.md §8 scenario 1 literally: insert
// [1,7,8,9,10,6,5,2,3,4,0,11] into an empty tree, then remove the same
// keys in the same order, checking P1 (red-black invariants), P3 (order
// thread), and P4 (bounds) after every single mutation.
func TestInsertRemoveSequence(t *testing.T) {
	tr := newIntTree()
	seq := []int{1, 7, 8, 9, 10, 6, 5, 2, 3, 4, 0, 11}

	for _, k := range seq {
		ag := tr.Alloc()
		ag.Insert(k, "")
		ag.Release()

		rg := tr.Read()
		checkRBInvariants[int, string, struct{}](t, rg.ag)
		checkOrderThread(t, rg)
		rg.Release()
	}

	for _, k := range seq {
		ag := tr.Alloc()
		_, ok := ag.Remove(k)
		require.True(t, ok)
		ag.Release()

		rg := tr.Read()
		checkRBInvariants[int, string, struct{}](t, rg.ag)
		checkOrderThread(t, rg)
		rg.Release()
	}

	rg := tr.Read()
	defer rg.Release()
	assert.Equal(t, 0, rg.Len())
	assert.True(t, rg.IsEmpty())
	_, ok := rg.Min()
	assert.False(t, ok)
}

// TestArena_ReuseAfterInsertRemove churns n inserts followed by n removes
// through the shared arena around an untouched sentinel key, and checks
// that the tree's node count returns to its pre-churn value and that the
// sentinel survives.
func TestArena_ReuseAfterInsertRemove(t *testing.T) {
	tr := newIntTree()

	ag := tr.Alloc()
	ag.Insert(-1, "sentinel")
	ag.Release()

	preOccupied := func() int {
		rg := tr.Read()
		defer rg.Release()
		return rg.Len()
	}()

	keys := []int{1, 7, 8, 9, 10, 6, 5, 2, 3, 4, 0, 11}
	ag = tr.Alloc()
	for _, k := range keys {
		ag.Insert(k, "")
	}
	ag.Release()

	ag = tr.Alloc()
	for _, k := range keys {
		_, ok := ag.Remove(k)
		require.True(t, ok)
	}
	ag.Release()

	rg := tr.Read()
	defer rg.Release()
	assert.Equal(t, preOccupied, rg.Len(), "node count must return to its pre-insert state")
	v, ok := rg.Get(-1)
	assert.True(t, ok)
	assert.Equal(t, "sentinel", v, "the untouched sentinel key must survive the churn")
}
