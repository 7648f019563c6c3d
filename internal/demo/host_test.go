package demo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phroun/canopy"
)

func TestHostRecyclesViewsByType(t *testing.T) {
	m, h := newTestModel(t, Options{})
	require.NoError(t, m.Toggle(0))

	h.Layout()
	first := h.Stats()
	assert.Equal(t, 8, first.Created)
	assert.Equal(t, 0, first.Recycled)

	h.Layout()
	second := h.Stats()
	assert.Equal(t, 8, second.Created)
	assert.Equal(t, 8, second.Recycled)
	assert.Equal(t, 16, second.Bound)

	// Collapsing leaves headline views in the pool; sections are reused.
	require.NoError(t, m.Toggle(0))
	h.Layout()
	assert.Equal(t, 8, h.Stats().Created)
	assert.Len(t, h.pool[HeadlineView], 3)
}

func TestHostWindowFollowsCursor(t *testing.T) {
	m := NewModel(SampleCatalog(), Options{})
	h := NewHost(m.Tree(), 3)
	defer h.Close()

	h.MoveCursor(4)
	views := h.Layout()
	assert.Equal(t, 4, h.Cursor())
	assert.Equal(t, 2, h.Offset())
	assert.Equal(t, []string{"Science (4)", "Culture (0)", "Sports (1)"}, texts(views))

	h.MoveCursor(10)
	assert.Equal(t, 4, h.Cursor())
	h.SetCursor(-3)
	h.Layout()
	assert.Equal(t, 0, h.Cursor())
	assert.Equal(t, 0, h.Offset())
}

func TestHostCursorFollowsNotifications(t *testing.T) {
	m, h := newTestModel(t, Options{})
	h.SetCursor(2) // Science

	require.NoError(t, m.Toggle(0))
	assert.Equal(t, 5, h.Cursor())

	require.NoError(t, m.MoveSection(2, 0))
	assert.Equal(t, 0, h.Cursor())

	// Removing the row under the cursor leaves it on the next row.
	require.NoError(t, m.RemoveSection(0))
	assert.Equal(t, 0, h.Cursor())
	assert.Equal(t, "World (3)", h.Layout()[0].Text)
}

func TestHostSlotsTrackLivePositions(t *testing.T) {
	m, h := newTestModel(t, Options{})
	h.Layout()
	science := h.slots[2]
	require.Equal(t, 2, science.Position())

	require.NoError(t, m.Toggle(0))
	assert.Equal(t, 5, science.Position())

	require.NoError(t, m.RemoveSection(2))
	assert.Equal(t, canopy.NoPosition, science.Position())

	m.Sections().Replace(SampleCatalog()...)
	for _, s := range h.slots {
		assert.Equal(t, canopy.NoPosition, s.Position())
	}
}

func TestMovePosition(t *testing.T) {
	// 0 1 [2 3] 4 5 -> moved to 4: 0 1 4 5 2 3
	want := map[int]int{0: 0, 1: 1, 2: 4, 3: 5, 4: 2, 5: 3}
	for p, w := range want {
		assert.Equal(t, w, movePosition(p, 2, 4, 2), "position %d", p)
	}
	// Backwards: [4] to 1 in 0 1 2 3 4 -> 0 4 1 2 3
	want = map[int]int{0: 0, 1: 2, 2: 3, 3: 4, 4: 1}
	for p, w := range want {
		assert.Equal(t, w, movePosition(p, 4, 1, 1), "position %d", p)
	}
}
