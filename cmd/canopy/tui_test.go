package main

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phroun/canopy/internal/demo"
	"github.com/phroun/canopy/internal/session"
)

func newTestTUI(t *testing.T, deferred bool) *tuiModel {
	t.Helper()
	store := session.NewStore(t.TempDir(), session.Options{})
	m := newTUIModel(store, demo.Options{Deferred: deferred}, time.Millisecond)
	t.Cleanup(m.close)
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 12})
	return m
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestTUIToggleWithEnter(t *testing.T) {
	m := newTestTUI(t, false)

	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.True(t, m.model.Tree().IsExpanded(1))

	view := m.View()
	assert.Contains(t, view, "Chipmaker doubles fab capacity")
	assert.Contains(t, view, "2/7")
}

func TestTUIDeferredLoadingSchedulesTick(t *testing.T) {
	m := newTestTUI(t, true)

	_, cmd := m.Update(runes("e"))
	require.NotNil(t, cmd)
	assert.Contains(t, m.View(), "loading...")

	m.Update(loadMsg{})
	assert.Empty(t, m.model.Pending())
	assert.NotContains(t, m.View(), "loading...")
}

func TestTUIScrollsWithCursor(t *testing.T) {
	m := newTestTUI(t, false)
	m.Update(runes("e"))

	m.Update(runes("G"))
	assert.Equal(t, 15, m.host.Cursor())
	m.View()
	assert.Equal(t, 6, m.host.Offset())

	m.Update(runes("g"))
	m.View()
	assert.Equal(t, 0, m.host.Offset())
}

func TestTUISaveAndRestore(t *testing.T) {
	m := newTestTUI(t, false)

	m.Update(runes("r"))
	assert.Contains(t, m.status, "snapshot not found")

	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m.Update(runes("s"))
	assert.Equal(t, "saved 1 expanded", m.status)

	m.Update(runes("c"))
	assert.Empty(t, m.model.Tree().ExpandedPositions())
	m.Update(runes("r"))
	assert.Equal(t, "restored", m.status)
	assert.Equal(t, []int{0}, m.model.Tree().ExpandedPositions())
}

func TestTUIQuit(t *testing.T) {
	m := newTestTUI(t, false)
	_, cmd := m.Update(runes("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}
