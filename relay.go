package canopy

import "go.uber.org/zap"

// rootRelay rewrites root-space notifications into outer space.
//
// Counts are corrected to outer space: a removed or moved root row takes its
// expanded children with it, and a changed range is split around expanded
// children, which are not affected by a change to their parent row.
//
// The order of invalidation and translation differs per operation. Removals
// and the source of moves are translated with the mapping from before the
// root mutation; insertions and the destination of moves with the mapping
// after it.
type rootRelay struct {
	tree *Tree
}

func (r *rootRelay) OnChanged() {
	t := r.tree
	t.resetEntries()
	t.invalidate()
	t.applyExpansionState(false)
	t.logger.Debug("root reset", zap.Int("expanded", len(t.entries)))
	t.emitChanged()
}

func (r *rootRelay) OnRangeChanged(start, count int) {
	t := r.tree
	t.ensureClean()
	for _, run := range t.cache.headerRuns(start, count) {
		t.emitRangeChanged(run[0], run[1])
	}
	// A changed row may carry a different id now.
	t.applyExpansionState(true)
}

func (r *rootRelay) OnRangeRemoved(start, count int) {
	t := r.tree
	outerStart, span := t.preMutationSpan(start, count)
	t.rekeyEntries(func(p int) (int, bool) {
		switch {
		case p < start:
			return p, true
		case p < start+count:
			return 0, false
		default:
			return p - count, true
		}
	})
	t.invalidate()
	t.emitRangeRemoved(outerStart, span)
}

func (r *rootRelay) OnRangeInserted(start, count int) {
	t := r.tree
	t.rekeyEntries(func(p int) (int, bool) {
		if p < start {
			return p, true
		}
		return p + count, true
	})
	t.invalidate()
	t.emitRangeInserted(t.rootToOuter(start), count)
	// Inserted rows may carry ids recorded as expanded.
	t.applyExpansionState(true)
}

func (r *rootRelay) OnRangeMoved(from, to, count int) {
	t := r.tree
	outerFrom, span := t.preMutationSpan(from, count)
	t.rekeyEntries(func(p int) (int, bool) {
		if p >= from && p < from+count {
			return to + p - from, true
		}
		rest := p
		if p >= from+count {
			rest -= count
		}
		if rest >= to {
			rest += count
		}
		return rest, true
	})
	t.invalidate()
	t.emitRangeMoved(outerFrom, t.rootToOuter(to), span)
}

// preMutationSpan returns the outer start and outer size of the root range
// [start, start+count) as it was before the root mutated. A clean cache is
// exactly that mapping; otherwise it is derived from the entries, which have
// not been rekeyed yet.
func (t *Tree) preMutationSpan(start, count int) (int, int) {
	if t.rootObserved && t.cache.clean() && start+count <= len(t.cache.groups) && count > 0 {
		first := t.cache.groups[start]
		last := t.cache.groups[start+count-1]
		return first.outerStart, last.end() - first.outerStart
	}
	outerStart, span := start, count
	for p, e := range t.entries {
		n := e.itemCount()
		switch {
		case p < start:
			outerStart += n
		case p < start+count:
			span += n
		}
	}
	return outerStart, span
}

// rekeyEntries moves every entry to the root position returned by remap, or
// disposes it when remap reports false. Disposed rows keep their ids in the
// expansion state so that they expand again if they come back.
func (t *Tree) rekeyEntries(remap func(rootPosition int) (int, bool)) {
	if len(t.entries) == 0 {
		return
	}
	entries := make(map[int]*entry, len(t.entries))
	var dropped []*entry
	for p, e := range t.entries {
		q, keep := remap(p)
		if !keep {
			dropped = append(dropped, e)
			continue
		}
		e.rootPosition = q
		entries[q] = e
	}
	t.entries = entries
	for _, e := range dropped {
		t.disposeEntry(e)
	}
}

// resetEntries handles a full root reset. With stable ids every entry is
// dropped and later re-derived from the expansion state; without them,
// entries stay on their positions while those still exist.
func (t *Tree) resetEntries() {
	n := t.root.ItemCount()
	stable := t.root.HasStableIDs()
	t.rekeyEntries(func(p int) (int, bool) {
		if stable || p >= n {
			return 0, false
		}
		return p, true
	})
}
