package canopy

// entry is the materialized expansion of one root row. It does not own its
// adapter; the factory decides the adapter's lifetime.
type entry struct {
	tree *Tree

	// rootPosition is updated whenever root mutations shift the row.
	rootPosition int

	adapter    Adapter
	relay      *entryRelay
	subscribed bool
}

func newEntry(t *Tree, rootPosition int, adapter Adapter) *entry {
	e := &entry{
		tree:         t,
		rootPosition: rootPosition,
		adapter:      adapter,
	}
	e.relay = &entryRelay{entry: e}
	return e
}

func (e *entry) itemCount() int {
	return e.adapter.ItemCount()
}

// updateObserver subscribes to the child only while the Tree is observed.
func (e *entry) updateObserver() {
	if e.tree.ObserverCount() > 0 {
		e.subscribe()
	} else {
		e.unsubscribe()
	}
}

func (e *entry) subscribe() {
	if e.subscribed {
		return
	}
	e.subscribed = true
	e.adapter.RegisterObserver(e.relay)
}

func (e *entry) unsubscribe() {
	if !e.subscribed {
		return
	}
	e.subscribed = false
	e.adapter.UnregisterObserver(e.relay)
}

func (e *entry) dispose() {
	e.unsubscribe()
}

// entryRelay rewrites the child's entry-local notifications into outer space.
// Each translation reads the group before invalidating: a child's own size
// change never moves its group's start.
type entryRelay struct {
	entry *entry
}

func (r *entryRelay) entryToOuter(entryPosition int) int {
	t := r.entry.tree
	t.ensureClean()
	return t.cache.groups[r.entry.rootPosition].entryToOuter(entryPosition)
}

func (r *entryRelay) OnChanged() {
	t := r.entry.tree
	t.invalidate()
	t.emitChanged()
}

func (r *entryRelay) OnRangeChanged(start, count int) {
	t := r.entry.tree
	outer := r.entryToOuter(start)
	t.emitRangeChanged(outer, count)
}

func (r *entryRelay) OnRangeInserted(start, count int) {
	t := r.entry.tree
	outer := r.entryToOuter(start)
	t.invalidate()
	t.emitRangeInserted(outer, count)
}

func (r *entryRelay) OnRangeRemoved(start, count int) {
	t := r.entry.tree
	outer := r.entryToOuter(start)
	t.invalidate()
	t.emitRangeRemoved(outer, count)
}

func (r *entryRelay) OnRangeMoved(from, to, count int) {
	t := r.entry.tree
	outerFrom := r.entryToOuter(from)
	outerTo := r.entryToOuter(to)
	t.invalidate()
	t.emitRangeMoved(outerFrom, outerTo, count)
}
