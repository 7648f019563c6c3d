package canopy

import "sort"

// cacheState is shared by every call site that needs fresh groups.
type cacheState int

const (
	// cacheDirty means groups must be rebuilt before the next position query.
	cacheDirty cacheState = iota

	// cacheClean means groups reflect the current root and entries.
	cacheClean
)

// group maps one root row, plus its expanded span, into outer space.
type group struct {
	// rootPosition is the root row this group belongs to. It is also the key
	// of the group's entry, when the row is expanded.
	rootPosition int

	// outerStart is the outer position of the root row itself.
	outerStart int

	// rootStart is the number of child rows preceding this group, so that
	// outerStart - rootStart == rootPosition.
	rootStart int

	// size is 1 plus the entry's item count, captured at rebuild time.
	size int

	expanded bool
}

func (g *group) set(rootPosition, outerStart, rootStart, size int, expanded bool) {
	g.rootPosition = rootPosition
	g.outerStart = outerStart
	g.rootStart = rootStart
	g.size = size
	g.expanded = expanded
}

// entryStart is the outer position of the first child row.
func (g *group) entryStart() int {
	return g.outerStart + 1
}

func (g *group) entryToOuter(entryPosition int) int {
	return g.entryStart() + entryPosition
}

func (g *group) outerToEntry(outerPosition int) int {
	return outerPosition - g.entryStart()
}

// end is one past the last outer position owned by the group.
func (g *group) end() int {
	return g.outerStart + g.size
}

// groupPool is a free list of group records reused across rebuilds.
type groupPool struct {
	free []*group
}

func (p *groupPool) obtain() *group {
	n := len(p.free)
	if n == 0 {
		return &group{}
	}
	g := p.free[n-1]
	p.free[n-1] = nil
	p.free = p.free[:n-1]
	return g
}

func (p *groupPool) release(g *group) {
	p.free = append(p.free, g)
}

// groupCache holds one group per root row, ordered by root position and
// therefore by outer start.
type groupCache struct {
	state  cacheState
	groups []*group
	pool   groupPool
	total  int
}

func (c *groupCache) invalidate() {
	c.state = cacheDirty
}

func (c *groupCache) clean() bool {
	return c.state == cacheClean
}

// rebuild re-walks the root rows. entrySize returns the item count of the
// entry at a root position and whether one exists.
func (c *groupCache) rebuild(rootCount int, entrySize func(rootPosition int) (int, bool)) {
	for i, g := range c.groups {
		c.pool.release(g)
		c.groups[i] = nil
	}
	c.groups = c.groups[:0]

	outerStart := 0
	rootStart := 0
	for i := 0; i < rootCount; i++ {
		size := 1
		n, expanded := entrySize(i)
		if expanded {
			size += n
		}
		g := c.pool.obtain()
		g.set(i, outerStart, rootStart, size, expanded)
		c.groups = append(c.groups, g)
		outerStart += size
		rootStart += size - 1
	}
	c.total = outerStart
	c.state = cacheClean
}

// floor returns the group with the greatest outerStart <= outerPosition.
// The caller has checked the position against total.
func (c *groupCache) floor(outerPosition int) *group {
	i := sort.Search(len(c.groups), func(i int) bool {
		return c.groups[i].outerStart > outerPosition
	})
	return c.groups[i-1]
}

// headerRuns splits the root range [start, start+count) into runs of root
// rows that are adjacent in outer space.
func (c *groupCache) headerRuns(start, count int) [][2]int {
	var runs [][2]int
	for i := start; i < start+count && i < len(c.groups); i++ {
		g := c.groups[i]
		if n := len(runs); n > 0 && runs[n-1][0]+runs[n-1][1] == g.outerStart {
			runs[n-1][1]++
			continue
		}
		runs = append(runs, [2]int{g.outerStart, 1})
	}
	return runs
}
