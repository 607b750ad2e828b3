package arena

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

type testMeta struct {
	count int
}

func TestPort_AllocInsertVisibleToRead(t *testing.T) {
	p := NewPort[string, testMeta](testMeta{})

	ag := p.Alloc()
	idx := ag.Insert("hello")
	ag.Meta().count++
	ag.Release()

	rg := p.Read()
	defer rg.Release()
	require.NotNil(t, rg.Get(idx))
	assert.Equal(t, "hello", *rg.Get(idx))
	assert.Equal(t, 1, rg.Meta().count)
}

func TestPort_ClonedPortsShareArena(t *testing.T) {
	p1 := NewPort[int, testMeta](testMeta{})
	ag := p1.Alloc()
	idx := ag.Insert(7)
	ag.Release()

	p2 := p1.Clone(testMeta{count: -1})
	rg := p2.Read()
	defer rg.Release()
	require.NotNil(t, rg.Get(idx))
	assert.Equal(t, 7, *rg.Get(idx))
	assert.Equal(t, -1, rg.Meta().count, "cloned port keeps its own metadata")
}

// Exercises concurrent readers across several ports sharing one arena,
// each reading the slot inserted for it, matching the forest's model of
// many trees touching one backing arena at once.
func TestPort_ConcurrentReadersAcrossClonedPorts(t *testing.T) {
	root := NewPort[int, testMeta](testMeta{})
	ag := root.Alloc()
	indices := make([]Index, 8)
	for i := range indices {
		indices[i] = ag.Insert(i)
	}
	ag.Release()

	var g errgroup.Group
	var wg sync.WaitGroup
	wg.Add(len(indices))
	for i, idx := range indices {
		i, idx := i, idx
		g.Go(func() error {
			defer wg.Done()
			port := root.Clone(testMeta{count: i})
			rg := port.Read()
			defer rg.Release()
			if got := *rg.Get(idx); got != i {
				t.Errorf("expected %d got %d", i, got)
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())
}
