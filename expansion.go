package canopy

import (
	"slices"

	"go.uber.org/zap"
)

// expansionChange is one queued expand or collapse of a root row. Its count
// is captured before anything is mutated.
type expansionChange struct {
	rootPosition int
	count        int
	expand       bool
}

// IsExpanded reports whether the root row at rootPosition is expanded.
func (t *Tree) IsExpanded(rootPosition int) bool {
	t.pruneEntries()
	_, ok := t.entries[rootPosition]
	return ok
}

// ExpandedPositions returns the expanded root positions in ascending order.
func (t *Tree) ExpandedPositions() []int {
	t.pruneEntries()
	positions := make([]int, 0, len(t.entries))
	for p := range t.entries {
		positions = append(positions, p)
	}
	slices.Sort(positions)
	return positions
}

// SetExpanded expands or collapses the root row at rootPosition. Setting the
// current value again does nothing.
func (t *Tree) SetExpanded(rootPosition int, expanded bool) error {
	if err := t.checkMutable(); err != nil {
		return err
	}
	if err := checkIndex(RootSpace, rootPosition, t.root.ItemCount()); err != nil {
		return err
	}
	t.setExpanded(rootPosition, expanded)
	return nil
}

// ToggleExpanded flips the root row at rootPosition and returns the new value.
func (t *Tree) ToggleExpanded(rootPosition int) (bool, error) {
	expanded := !t.IsExpanded(rootPosition)
	if err := t.SetExpanded(rootPosition, expanded); err != nil {
		return !expanded, err
	}
	return expanded, nil
}

// SetAllExpanded expands or collapses every root row as one batch: all
// positions and counts are captured first, then everything is mutated, the
// cache is invalidated once, and only then are the notifications delivered.
// Collapsing everything also forgets expanded ids not currently present.
func (t *Tree) SetAllExpanded(expanded bool) error {
	if err := t.checkMutable(); err != nil {
		return err
	}
	var positions []int
	if expanded {
		for i, n := 0, t.root.ItemCount(); i < n; i++ {
			if !t.IsExpanded(i) {
				positions = append(positions, i)
			}
		}
	} else {
		positions = t.ExpandedPositions()
	}
	t.applyChanges(positions, func(int) bool { return expanded }, true)
	if !expanded {
		t.state.clear()
	}
	t.logger.Debug("set all expanded",
		zap.Bool("expanded", expanded),
		zap.Int("changed", len(positions)),
	)
	return nil
}

func (t *Tree) setExpanded(rootPosition int, expanded bool) {
	if t.IsExpanded(rootPosition) == expanded {
		return
	}
	t.applyChanges([]int{rootPosition}, func(int) bool { return expanded }, true)
	t.logger.Debug("set expanded",
		zap.Int("root_position", rootPosition),
		zap.Bool("expanded", expanded),
	)
}

// applyChanges moves every listed root position (ascending) to the state
// returned by want. With notify set the outer notifications are replayed in
// ascending order against the final mapping, which is what an observer
// applying them one by one expects: rows before each change are already
// final, rows after it are not yet touched.
func (t *Tree) applyChanges(positions []int, want func(rootPosition int) bool, notify bool) {
	changes := make([]expansionChange, 0, len(positions))
	for _, p := range positions {
		e, expanded := t.entries[p]
		switch {
		case want(p) && !expanded:
			e = newEntry(t, p, t.factory(p))
			changes = append(changes, expansionChange{rootPosition: p, count: e.itemCount(), expand: true})
			t.entries[p] = e
			t.state.set(t.root.ItemID(p), true)
		case !want(p) && expanded:
			// The count may be unreadable once the entry is disposed.
			changes = append(changes, expansionChange{rootPosition: p, count: e.itemCount()})
			delete(t.entries, p)
			t.disposeEntry(e)
			t.state.set(t.root.ItemID(p), false)
		}
	}
	if len(changes) == 0 {
		return
	}

	t.updateEntryObservers()
	t.invalidate()
	if !notify {
		return
	}
	for _, c := range changes {
		start := t.rootToOuter(c.rootPosition) + 1
		if c.expand {
			t.emitRangeInserted(start, c.count)
		} else {
			t.emitRangeRemoved(start, c.count)
		}
	}
}

// disposeEntry unsubscribes from the entry's child and, unless another
// live entry shows the same adapter, drops it as an owner of view types.
// A token still produced by another adapter stays routed there. e must
// already be removed from t.entries.
func (t *Tree) disposeEntry(e *entry) {
	e.dispose()
	for _, other := range t.entries {
		if other.adapter == e.adapter {
			return
		}
	}
	for vt, owners := range t.owners {
		owners = slices.DeleteFunc(owners, func(a Adapter) bool { return a == e.adapter })
		if len(owners) == 0 {
			delete(t.owners, vt)
		} else {
			t.owners[vt] = owners
		}
	}
}

// applyExpansionState re-applies the persisted ids to every current root
// row. It only runs when the root has stable ids and something is recorded.
func (t *Tree) applyExpansionState(notify bool) {
	if !t.root.HasStableIDs() || t.state.Len() == 0 {
		return
	}
	var positions []int
	wanted := make(map[int]bool)
	for i, n := 0, t.root.ItemCount(); i < n; i++ {
		id := t.root.ItemID(i)
		if id == NoID {
			continue
		}
		want := t.state.Contains(id)
		if want != t.IsExpanded(i) {
			positions = append(positions, i)
			wanted[i] = want
		}
	}
	if len(positions) == 0 {
		return
	}
	t.applyChanges(positions, func(p int) bool { return wanted[p] }, notify)
	t.logger.Debug("applied expansion state",
		zap.Int("changed", len(positions)),
		zap.Bool("notify", notify),
	)
}

// SaveState returns a copy of the expanded ids, suitable for RestoreState on
// this or a later Tree over the same data.
func (t *Tree) SaveState() *ExpansionState {
	return t.state.Clone()
}

// RestoreState replaces the expanded ids and re-applies them to the current
// root rows. It accepts an *ExpansionState, an ExpansionState or the JSON
// produced by ExpansionState.MarshalJSON. Nil is ignored. Re-application only
// happens when the root has stable ids; ids not present in the root stay
// recorded and expand when their row appears.
func (t *Tree) RestoreState(v interface{}) error {
	if err := t.checkMutable(); err != nil {
		return err
	}
	var state *ExpansionState
	switch s := v.(type) {
	case nil:
		return nil
	case *ExpansionState:
		if s == nil {
			return nil
		}
		state = s.Clone()
	case ExpansionState:
		state = s.Clone()
	case []byte:
		state = NewExpansionState()
		if err := state.UnmarshalJSON(s); err != nil {
			return err
		}
	default:
		return withStackf(ErrTypeMismatch, "restore state from %T", v)
	}
	t.state = state
	t.applyExpansionState(true)
	t.logger.Debug("restored expansion state", zap.Int("ids", state.Len()))
	return nil
}
