package canopy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootInsertIsIdentityWhenNothingExpanded(t *testing.T) {
	f := newFixture(t, rows("A", "B", "C", "D", "E"), nil)

	require.NoError(t, f.root.Insert(3, row{ID: 10, Name: "P"}, row{ID: 11, Name: "Q"}))
	assertEvents(t, f.rec, inserted(3, 2))
	assert.Equal(t, 7, f.tree.ItemCount())
}

func TestRootInsertShiftsExpansion(t *testing.T) {
	f := abcFixture(t)
	require.NoError(t, f.tree.SetExpanded(1, true))
	f.rec.take()

	require.NoError(t, f.root.Insert(0, row{ID: 9, Name: "Z"}))
	assertEvents(t, f.rec, inserted(0, 1))
	assert.True(t, f.tree.IsExpanded(2))
	assert.False(t, f.tree.IsExpanded(1))
	assert.Equal(t, []string{"Z", "A", "B", "X", "Y", "C"}, names(t, f.tree))
}

func TestRootInsertAfterExpandedRow(t *testing.T) {
	f := abcFixture(t)
	require.NoError(t, f.tree.SetExpanded(1, true))
	f.rec.take()

	require.NoError(t, f.root.Insert(2, row{ID: 9, Name: "Z"}))
	assertEvents(t, f.rec, inserted(4, 1))
	assert.Equal(t, []string{"A", "B", "X", "Y", "Z", "C"}, names(t, f.tree))
}

func TestRootRemoveTakesChildrenAlong(t *testing.T) {
	f := abcFixture(t)
	require.NoError(t, f.tree.SetExpanded(1, true))
	require.NoError(t, f.tree.SetExpanded(2, true))
	f.rec.take()
	child := f.created["B"]

	require.NoError(t, f.root.Remove(1, 1))
	assertEvents(t, f.rec, removed(1, 3))
	assert.Equal(t, 0, child.ObserverCount())
	assert.Equal(t, []int{1}, f.tree.ExpandedPositions())
	assert.Equal(t, []string{"A", "C", "c1", "c2", "c3"}, names(t, f.tree))
}

func TestRootRemoveBeforeExpandedRow(t *testing.T) {
	f := abcFixture(t)
	require.NoError(t, f.tree.SetExpanded(2, true))
	f.rec.take()

	require.NoError(t, f.root.Remove(0, 1))
	assertEvents(t, f.rec, removed(0, 1))
	assert.True(t, f.tree.IsExpanded(1))
	assert.Equal(t, []string{"B", "C", "c1", "c2", "c3"}, names(t, f.tree))
}

func TestRootRemoveKeepsIDForReturningRow(t *testing.T) {
	f := abcFixture(t)
	require.NoError(t, f.tree.SetExpanded(1, true))
	b, err := f.root.Item(1)
	require.NoError(t, err)

	require.NoError(t, f.root.Remove(1, 1))
	assert.Empty(t, f.tree.ExpandedPositions())
	f.rec.take()

	f.root.Append(b)
	assert.True(t, f.tree.IsExpanded(2))
	assertEvents(t, f.rec, inserted(2, 1), inserted(3, 2))
}

func TestRootMoveCarriesExpansion(t *testing.T) {
	f := newFixture(t, rows("A", "B", "C", "D"), map[string][]string{
		"B": {"X", "Y"},
	})
	require.NoError(t, f.tree.SetExpanded(1, true))
	f.rec.take()

	require.NoError(t, f.root.Move(1, 3, 1))
	assertEvents(t, f.rec, moved(1, 3, 3))
	assert.True(t, f.tree.IsExpanded(3))
	assert.False(t, f.tree.IsExpanded(1))
	assert.Equal(t, []string{"A", "C", "D", "B", "X", "Y"}, names(t, f.tree))
}

func TestRootRangeChangedSkipsChildren(t *testing.T) {
	f := abcFixture(t)
	require.NoError(t, f.tree.SetExpanded(1, true))
	f.rec.take()

	require.NoError(t, f.root.Set(1, row{ID: 2, Name: "B2"}))
	assertEvents(t, f.rec, rangeChanged(1, 1))
	assert.True(t, f.tree.IsExpanded(1))

	// A change covering all three roots touches headers only.
	f.tree.rootRelay.OnRangeChanged(0, 3)
	assertEvents(t, f.rec, rangeChanged(0, 2), rangeChanged(4, 1))
}

func TestRootRangeChangedWithNewIDReappliesState(t *testing.T) {
	f := abcFixture(t)
	require.NoError(t, f.tree.SetExpanded(1, true))
	f.rec.take()

	require.NoError(t, f.root.Set(1, row{ID: 20, Name: "N"}))
	assert.False(t, f.tree.IsExpanded(1))
	assertEvents(t, f.rec, rangeChanged(1, 1), removed(2, 2))
}

func TestRootResetFollowsStableIDs(t *testing.T) {
	f := abcFixture(t)
	require.NoError(t, f.tree.SetExpanded(1, true))
	f.rec.take()

	f.root.Replace(row{ID: 2, Name: "B"}, row{ID: 1, Name: "A"}, row{ID: 3, Name: "C"})
	assertEvents(t, f.rec, changed())
	assert.Equal(t, []int{0}, f.tree.ExpandedPositions())
	assert.Equal(t, []string{"B", "X", "Y", "A", "C"}, names(t, f.tree))
}

func TestRootResetWithoutStableIDsKeepsPositions(t *testing.T) {
	opts := rowOptions("root")
	opts.ID = nil
	root := NewListAdapter(opts, rows("A", "B", "C")...)
	tree := NewTree(root, func(int) Adapter {
		return NewListAdapter(rowOptions("child"), rows("X")...)
	}, Options{})
	rec := &recorder{}
	tree.RegisterObserver(rec)
	require.NoError(t, tree.SetExpanded(0, true))
	require.NoError(t, tree.SetExpanded(2, true))
	rec.take()

	root.Replace(rows("D", "E")...)
	assertEvents(t, rec, changed())
	assert.Equal(t, []int{0}, tree.ExpandedPositions())
	assert.Equal(t, 3, tree.ItemCount())
}

func TestChildNotificationsAreOffset(t *testing.T) {
	f := abcFixture(t)
	require.NoError(t, f.tree.SetExpanded(0, true))
	require.NoError(t, f.tree.SetExpanded(1, true))
	f.rec.take()
	// A a1 a2 B X Y C
	child := f.created["B"]

	require.NoError(t, child.Insert(1, row{ID: 900, Name: "W"}))
	assertEvents(t, f.rec, inserted(5, 1))
	assert.Equal(t, []string{"A", "a1", "a2", "B", "X", "W", "Y", "C"}, names(t, f.tree))

	require.NoError(t, child.Set(0, row{ID: 901, Name: "X2"}))
	assertEvents(t, f.rec, rangeChanged(4, 1))

	require.NoError(t, child.Move(0, 2, 1))
	assertEvents(t, f.rec, moved(4, 6, 1))
	assert.Equal(t, []string{"A", "a1", "a2", "B", "W", "Y", "X2", "C"}, names(t, f.tree))

	require.NoError(t, child.Remove(0, 2))
	assertEvents(t, f.rec, removed(4, 2))
	assert.Equal(t, 6, f.tree.ItemCount())

	child.Replace(rows("M", "N", "O")...)
	assertEvents(t, f.rec, changed())
	assert.Equal(t, []string{"A", "a1", "a2", "B", "M", "N", "O", "C"}, names(t, f.tree))
}

func TestCollapsedChildIsNotRelayed(t *testing.T) {
	f := abcFixture(t)
	require.NoError(t, f.tree.SetExpanded(1, true))
	child := f.created["B"]
	require.NoError(t, f.tree.SetExpanded(1, false))
	f.rec.take()

	child.Append(row{ID: 5, Name: "late"})
	assertEvents(t, f.rec)
	assert.Equal(t, 3, f.tree.ItemCount())
}
