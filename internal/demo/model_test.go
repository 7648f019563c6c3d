package demo

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/phroun/canopy"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func texts(views []*View) []string {
	out := make([]string, len(views))
	for i, v := range views {
		out[i] = v.Text
	}
	return out
}

func newTestModel(t *testing.T, options Options) (*Model, *Host) {
	t.Helper()
	m := NewModel(SampleCatalog(), options)
	h := NewHost(m.Tree(), 50)
	t.Cleanup(h.Close)
	return m, h
}

func TestModelShowsSections(t *testing.T) {
	_, h := newTestModel(t, Options{})
	assert.Equal(t, []string{
		"World (3)", "Technology (2)", "Science (4)", "Culture (0)", "Sports (1)",
	}, texts(h.Layout()))
}

func TestModelToggleSection(t *testing.T) {
	m, h := newTestModel(t, Options{})

	require.NoError(t, m.Toggle(1))
	views := h.Layout()
	assert.Equal(t, []string{
		"World (3)",
		"Technology (2)",
		"Chipmaker doubles fab capacity  [Bytes Weekly]",
		"Open source maintainers form foundation  [Commit Log]",
		"Science (4)", "Culture (0)", "Sports (1)",
	}, texts(views))
	assert.True(t, views[1].Expanded)
	assert.Equal(t, HeadlineView, views[2].Type)
	assert.Equal(t, 1, views[3].Position)
	assert.Equal(t, 1, views[3].Depth)

	// Toggling a headline collapses its section.
	require.NoError(t, m.Toggle(3))
	assert.Equal(t, 5, m.Tree().ItemCount())
	assert.False(t, h.Layout()[1].Expanded)
}

func TestModelEmptySectionShowsPlaceholder(t *testing.T) {
	m, h := newTestModel(t, Options{})

	require.NoError(t, m.Toggle(3))
	views := h.Layout()
	require.Len(t, views, 6)
	assert.Equal(t, EmptyView, views[4].Type)
	assert.Equal(t, "(no headlines)", views[4].Text)
	assert.False(t, m.Tree().IsEnabled(4))
}

func TestModelDeferredLoading(t *testing.T) {
	m, h := newTestModel(t, Options{Deferred: true})
	var got []string
	m.Tree().RegisterObserver(&canopy.ObserverFuncs{
		Inserted: func(start, count int) { got = append(got, "+", strconv.Itoa(start), strconv.Itoa(count)) },
		Removed:  func(start, count int) { got = append(got, "-", strconv.Itoa(start), strconv.Itoa(count)) },
	})

	require.NoError(t, m.Toggle(2))
	views := h.Layout()
	assert.Equal(t, LoadingView, views[3].Type)
	assert.Equal(t, "loading...", views[3].Text)
	assert.Equal(t, []int64{3}, m.Pending())

	assert.Equal(t, 1, m.LoadPending())
	assert.Empty(t, m.Pending())
	assert.Equal(t, []string{"+", "3", "1", "+", "3", "4", "-", "7", "1"}, got)

	views = h.Layout()
	require.Len(t, views, 9)
	assert.Equal(t, "Probe returns samples from near-earth asteroid  [Orbit]", views[3].Text)
	assert.Equal(t, "Culture (0)", views[7].Text)
	assert.Equal(t, 0, m.LoadPending())
}

func TestModelDeferredEmptySection(t *testing.T) {
	m, h := newTestModel(t, Options{Deferred: true})

	require.NoError(t, m.Toggle(3))
	assert.Equal(t, LoadingView, h.Layout()[4].Type)

	m.LoadPending()
	views := h.Layout()
	require.Len(t, views, 6)
	assert.Equal(t, EmptyView, views[4].Type)
}

func TestModelMoveKeepsExpansion(t *testing.T) {
	m, h := newTestModel(t, Options{})
	require.NoError(t, m.Toggle(0))

	require.NoError(t, m.MoveSection(0, 4))
	assert.True(t, m.Tree().IsExpanded(4))
	views := h.Layout()
	require.Len(t, views, 8)
	assert.Equal(t, "World (3)", views[4].Text)
	assert.Equal(t, "Coastal cities adopt shared flood plan  [Wire]", views[5].Text)
}

func TestModelEditSections(t *testing.T) {
	m, h := newTestModel(t, Options{})
	require.NoError(t, m.Toggle(4))

	pos := m.AddSection("Local")
	assert.Equal(t, 5, pos)
	require.NoError(t, m.RenameSection(pos, "Metro"))
	require.NoError(t, m.AddHeadline(4, "Derby postponed", "Stadium"))

	views := h.Layout()
	assert.Equal(t, []string{
		"World (3)", "Technology (2)", "Science (4)", "Culture (0)",
		"Sports (2)",
		"Underdogs take the cup in extra time  [Stadium]",
		"Derby postponed  [Stadium]",
		"Metro (0)",
	}, texts(views))

	require.NoError(t, m.RemoveSection(4))
	assert.Equal(t, 5, m.Tree().ItemCount())
	assert.Empty(t, m.Tree().ExpandedPositions())

	assert.ErrorIs(t, m.RemoveSection(9), canopy.ErrIndexOutOfRange)
	assert.ErrorIs(t, m.RenameSection(-1, "x"), canopy.ErrIndexOutOfRange)
	assert.ErrorIs(t, m.Toggle(99), canopy.ErrIndexOutOfRange)
}

func TestModelAddHeadlineWhileLoading(t *testing.T) {
	m, h := newTestModel(t, Options{Deferred: true})
	require.NoError(t, m.Toggle(4))
	require.NoError(t, m.AddHeadline(4, "Derby postponed", "Stadium"))
	assert.Equal(t, 6, m.Tree().ItemCount())

	m.LoadPending()
	assert.Equal(t, []string{
		"Underdogs take the cup in extra time  [Stadium]",
		"Derby postponed  [Stadium]",
	}, texts(h.Layout()[5:]))
}
