package rbforest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildCursorTree(t *testing.T) *Tree[int, string, struct{}] {
	t.Helper()
	f := NewForest[int, string](Plain[string]())
	tr := f.NewTree()
	ag := tr.Alloc()
	for _, k := range []int{3, 1, 4, 1, 5, 9, 2, 6} {
		ag.Insert(k, "")
	}
	ag.Release()
	return tr
}

func TestCursor_NextPrevCycle(t *testing.T) {
	tr := buildCursorTree(t)
	rg := tr.Read()
	defer rg.Release()

	c := rg.Cursor()
	_, _, ok := c.Current()
	assert.True(t, ok, "a fresh cursor over a root start is not the empty position unless root is nil")

	min, _ := rg.Min()
	max, _ := rg.Max()

	c.MoveParent() // the root has no parent: the cursor is now at the empty position
	c.MoveNext()
	k, _, ok := c.Current()
	require.True(t, ok)
	assert.Equal(t, min, k, "Next from empty snaps to the low anchor")

	prevKey, _, ok := c.PeekPrev()
	_ = prevKey
	_ = ok // prev of the minimum is the empty position; peeking doesn't move

	c2 := rg.Cursor()
	c2.MoveParent() // root -> empty position
	c2.MovePrev()
	k, _, ok = c2.Current()
	require.True(t, ok)
	assert.Equal(t, max, k, "Prev from empty snaps to the high anchor")
}

func TestCursor_ParentLeftRightFromRoot(t *testing.T) {
	tr := buildCursorTree(t)
	rg := tr.Read()
	defer rg.Release()

	c := rg.Cursor()
	c.MoveParent() // root -> empty position
	c.MoveParent()
	_, _, ok := c.Current()
	require.True(t, ok, "Parent from empty snaps to root")

	root, _, _ := c.Current()
	c.MoveParent()
	_, _, ok = c.Current()
	assert.False(t, ok, "root has no parent, cursor returns to empty")

	c = rg.CursorAt(root)
	c.MoveLeft()
	leftKey, _, leftOk := c.Current()
	if leftOk {
		assert.Less(t, leftKey, root)
	}
}

func TestCursorAlloc_RemoveNext(t *testing.T) {
	tr := buildCursorTree(t)
	ag := tr.Alloc()
	defer ag.Release()

	min, _ := ag.Min()
	c := ag.CursorAlloc()
	c.MoveParent() // root -> empty position
	k, v, ok := c.RemoveNext()
	require.True(t, ok)
	_ = v
	assert.Equal(t, min, k, "RemoveNext from empty removes the minimum")
}

func TestCursorMut_GetMut(t *testing.T) {
	f := NewForest[int, int](Plain[int]())
	tr := f.NewTree()
	ag := tr.Alloc()
	ag.Insert(1, 10)
	ag.Release()

	wg := tr.Write()
	defer wg.Release()

	cm := wg.CursorMutAt(1)
	vm, ok := cm.GetMut()
	require.True(t, ok)
	*vm.Get() = 99
	vm.Close()

	v, _ := wg.Get(1)
	assert.Equal(t, 99, v)
}
