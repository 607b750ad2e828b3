package rbforest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newIntTree() *Tree[int, string, struct{}] {
	f := NewForest[int, string](Plain[string]())
	return f.NewTree()
}

func TestTree_InsertGetRemove(t *testing.T) {
	tr := newIntTree()

	ag := tr.Alloc()
	assert.True(t, ag.Insert(5, "five"))
	assert.True(t, ag.Insert(2, "two"))
	assert.True(t, ag.Insert(8, "eight"))
	assert.False(t, ag.Insert(5, "FIVE"), "re-inserting an existing key reports false")
	ag.Release()

	rg := tr.Read()
	v, ok := rg.Get(5)
	require.True(t, ok)
	assert.Equal(t, "FIVE", v, "re-insert replaces the value")
	assert.Equal(t, 3, rg.Len())
	lo, hi, ok := rg.Range()
	require.True(t, ok)
	assert.Equal(t, 2, lo)
	assert.Equal(t, 8, hi)
	rg.Release()

	ag = tr.Alloc()
	v, ok = ag.Remove(2)
	assert.True(t, ok)
	assert.Equal(t, "two", v)
	_, ok = ag.Remove(2)
	assert.False(t, ok, "removing an absent key reports false")
	ag.Release()

	rg = tr.Read()
	defer rg.Release()
	assert.Equal(t, 2, rg.Len())
	assert.False(t, rg.Contains(2))
}

func TestTree_InsertMaintainsOrder(t *testing.T) {
	tr := newIntTree()
	keys := []int{50, 30, 70, 20, 40, 60, 80, 10, 90, 5}

	ag := tr.Alloc()
	for _, k := range keys {
		ag.Insert(k, "")
	}
	ag.Release()

	rg := tr.Read()
	defer rg.Release()

	var got []int
	it := rg.Iter()
	for {
		k, _, ok := it.Next()
		if !ok {
			break
		}
		got = append(got, k)
	}

	want := append([]int(nil), keys...)
	sortInts(want)
	assert.Equal(t, want, got)
}

func sortInts(xs []int) {
	for i := 1; i < len(xs); i++ {
		for j := i; j > 0 && xs[j-1] > xs[j]; j-- {
			xs[j-1], xs[j] = xs[j], xs[j-1]
		}
	}
}

func TestTree_RangeIteration(t *testing.T) {
	tr := newIntTree()
	ag := tr.Alloc()
	for _, k := range []int{1, 2, 3, 4, 5, 6, 7} {
		ag.Insert(k, "")
	}
	ag.Release()

	rg := tr.Read()
	defer rg.Release()

	it := rg.IterRange(2, 5, true, false)
	var got []int
	for {
		k, _, ok := it.Next()
		if !ok {
			break
		}
		got = append(got, k)
	}
	assert.Equal(t, []int{2, 3, 4}, got)
}

func TestTree_GetMutRepropagatesCumulant(t *testing.T) {
	f := NewForest[int, int](WithCumulant(0, func(v int, l, r int) int { return v + l + r }))
	tr := f.NewTree()

	ag := tr.Alloc()
	ag.Insert(1, 10)
	ag.Insert(2, 20)
	ag.Insert(3, 30)
	ag.Release()

	rg := tr.Read()
	assert.Equal(t, 60, rg.Cumulant())
	rg.Release()

	wg := tr.Write()
	vm, ok := wg.GetMut(2)
	require.True(t, ok)
	*vm.Get() = 200
	vm.Close()
	wg.Release()

	rg = tr.Read()
	defer rg.Release()
	assert.Equal(t, 240, rg.Cumulant())
}

func TestTree_GetPairMutRejectsAlias(t *testing.T) {
	tr := newIntTree()
	ag := tr.Alloc()
	ag.Insert(1, "a")
	ag.Insert(2, "b")
	ag.Release()

	wg := tr.Write()
	defer wg.Release()

	_, _, err := wg.GetPairMut(1, 1)
	assert.ErrorIs(t, err, ErrKeyAlias)

	v1, v2, err := wg.GetPairMut(1, 2)
	require.NoError(t, err)
	require.NotNil(t, v1)
	require.NotNil(t, v2)
	*v1.Get() = "A"
	*v2.Get() = "B"
	v1.Close()
	v2.Close()
}

func TestTree_SearchBy(t *testing.T) {
	tr := newIntTree()
	ag := tr.Alloc()
	for _, k := range []int{2, 4, 6, 8, 10, 12, 14} {
		ag.Insert(k, "")
	}
	ag.Release()

	rg := tr.Read()
	defer rg.Release()

	res := rg.SearchBy(func(key int, _ string) int { return key - 14 })
	assert.Equal(t, Here, res.Kind)
	assert.Equal(t, 14, res.Key)

	res = rg.SearchBy(func(key int, _ string) int { return key - 8 })
	assert.Equal(t, Here, res.Kind)
	assert.Equal(t, 8, res.Key)

	res = rg.SearchBy(func(key int, _ string) int { return key - 9 })
	assert.Contains(t, []SearchResultKind{LeftOf, RightOf}, res.Kind)
}

func TestTree_Filter(t *testing.T) {
	f := NewForest[int, int](Plain[int]())
	tr := f.NewTree()
	ag := tr.Alloc()
	for i := 1; i <= 10; i++ {
		ag.Insert(i, i)
	}
	ag.Release()

	wg := tr.Write()
	var visited []int
	wg.Filter(func(key int, value int) SearchAction {
		return SearchAction{DescendLeft: true, DescendRight: true, Emit: value%2 == 0}
	}, func(key int, value *int) {
		visited = append(visited, key)
		*value *= 10
	})
	wg.Release()

	sortInts(visited)
	assert.Equal(t, []int{2, 4, 6, 8, 10}, visited)

	rg := tr.Read()
	defer rg.Release()
	v, _ := rg.Get(4)
	assert.Equal(t, 40, v)
	v, _ = rg.Get(5)
	assert.Equal(t, 5, v, "odd keys left untouched")
}

func TestTree_Clear(t *testing.T) {
	tr := newIntTree()
	ag := tr.Alloc()
	ag.Insert(1, "a")
	ag.Insert(2, "b")
	ag.Clear()
	assert.Equal(t, 0, ag.Len())
	assert.True(t, ag.IsEmpty())
	ag.Release()

	rg := tr.Read()
	defer rg.Release()
	_, ok := rg.Min()
	assert.False(t, ok)
}
