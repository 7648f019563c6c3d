package canopy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sizes(m map[int]int) func(int) (int, bool) {
	return func(p int) (int, bool) {
		n, ok := m[p]
		return n, ok
	}
}

func TestGroupCacheRebuild(t *testing.T) {
	var c groupCache
	assert.False(t, c.clean())

	// A B(2) C D(0) E(3)
	c.rebuild(5, sizes(map[int]int{1: 2, 3: 0, 4: 3}))
	require.True(t, c.clean())
	assert.Equal(t, 10, c.total)

	starts := make([]int, len(c.groups))
	for i, g := range c.groups {
		starts[i] = g.outerStart
		assert.Equal(t, i, g.rootPosition)
		assert.Equal(t, i, g.outerStart-g.rootStart)
	}
	assert.Equal(t, []int{0, 1, 4, 5, 6}, starts)
	assert.True(t, c.groups[3].expanded)
	assert.Equal(t, 1, c.groups[3].size)
	assert.Equal(t, 9, c.groups[4].entryToOuter(2))
	assert.Equal(t, 1, c.groups[1].outerToEntry(3))

	c.invalidate()
	assert.False(t, c.clean())
}

func TestGroupCacheFloor(t *testing.T) {
	var c groupCache
	c.rebuild(3, sizes(map[int]int{0: 2, 2: 3}))
	// A a a B C c c c

	want := []int{0, 0, 0, 1, 2, 2, 2, 2}
	for p, root := range want {
		assert.Equal(t, root, c.floor(p).rootPosition, "outer %d", p)
	}
}

func TestGroupCacheReusesGroups(t *testing.T) {
	var c groupCache
	c.rebuild(4, sizes(nil))
	first := make(map[*group]bool)
	for _, g := range c.groups {
		first[g] = true
	}

	c.rebuild(3, sizes(nil))
	for _, g := range c.groups {
		assert.True(t, first[g], "group not taken from the pool")
	}
	assert.Len(t, c.pool.free, 1)

	c.rebuild(0, sizes(nil))
	assert.Empty(t, c.groups)
	assert.Equal(t, 0, c.total)
	assert.Len(t, c.pool.free, 4)
}

func TestGroupCacheHeaderRuns(t *testing.T) {
	var c groupCache
	// A B(2) C D E(1) F
	c.rebuild(6, sizes(map[int]int{1: 2, 4: 1}))

	assert.Equal(t, [][2]int{{0, 2}, {4, 3}, {8, 1}}, c.headerRuns(0, 6))
	assert.Equal(t, [][2]int{{4, 2}}, c.headerRuns(2, 2))
	assert.Equal(t, [][2]int{{1, 1}}, c.headerRuns(1, 1))
	assert.Nil(t, c.headerRuns(6, 2))
}
