package arena

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArena_InsertRemoveReusesFreeSlot(t *testing.T) {
	a := New[string]()

	i1 := a.Insert("a")
	i2 := a.Insert("b")
	require.Equal(t, 2, a.Len())

	removed, ok := a.Remove(i1)
	require.True(t, ok)
	assert.Equal(t, "a", removed)
	assert.Equal(t, 1, a.Len())

	i3 := a.Insert("c")
	assert.Equal(t, i1, i3, "freed slot should be reused before growing")
	assert.True(t, a.Contains(i2))
	assert.True(t, a.Contains(i3))
}

func TestArena_RemoveUnoccupiedReturnsFalse(t *testing.T) {
	a := New[int]()
	idx := a.Insert(1)

	_, ok := a.Remove(idx)
	require.True(t, ok)

	_, ok = a.Remove(idx)
	assert.False(t, ok, "removing an already-freed index reports ok=false, not a panic")

	_, ok = a.Remove(Index(99))
	assert.False(t, ok, "removing a never-allocated, out-of-range index reports ok=false")
}

func TestArena_GetMissingReturnsNil(t *testing.T) {
	a := New[int]()
	assert.Nil(t, a.Get(Index(42)))
	assert.False(t, a.Contains(NilIndex))
}

func TestArena_GetPair(t *testing.T) {
	a := New[int]()
	i1 := a.Insert(10)
	i2 := a.Insert(20)

	t.Run("alias", func(t *testing.T) {
		_, _, err := a.GetPair(i1, i1)
		assert.ErrorIs(t, err, ErrIndexAlias)
	})
	t.Run("distinct", func(t *testing.T) {
		p1, p2, err := a.GetPair(i1, i2)
		require.NoError(t, err)
		assert.Equal(t, 10, *p1)
		assert.Equal(t, 20, *p2)
	})
}

func TestArena_WithCapacityAvoidsGrowthUnderBudget(t *testing.T) {
	a := WithCapacity[int](4)
	assert.False(t, a.IsFull())
	for i := 0; i < 4; i++ {
		_, ok := a.InsertWithinCapacity(i)
		require.True(t, ok)
	}
	assert.True(t, a.IsFull())
	_, ok := a.InsertWithinCapacity(99)
	assert.False(t, ok, "fifth insert should need growth")
}
