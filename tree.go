package canopy

import (
	"go.uber.org/zap"
)

// Options configures a Tree.
type Options struct {
	// Logger receives debug events for cache rebuilds, expansion changes and
	// state restoration. Nil disables logging.
	Logger *zap.Logger
}

// Tree is an Adapter that flattens a root collection and the child
// collections of its expanded rows into one outer sequence:
//
//	root:   A B C            (B expanded, child X Y)
//	outer:  A B X Y C
//
// Tree is not safe for concurrent use. Every method must be called from the
// goroutine that owns the display loop, and no method that changes expansion
// may be called from inside a change notification delivered by the same Tree
// (those calls return ErrReentrantMutation).
//
// A Tree only follows its root and children while it has at least one
// observer of its own. Unobserved, it reads current counts on every query but
// cannot track which rows moved, so expansions stay attached to positions and
// are dropped once their position is past the end of the root.
type Tree struct {
	Observable

	root    Adapter
	factory ChildFactory
	logger  *zap.Logger

	cache   groupCache
	entries map[int]*entry
	state   *ExpansionState

	// owners maps view type tokens to the live adapters that produced them,
	// most recent last.
	owners map[ViewType][]Adapter

	rootRelay    *rootRelay
	rootObserved bool

	// dispatching is non-zero while the Tree notifies its own observers.
	dispatching int
}

// NewTree creates a Tree over root. factory supplies the child collection of
// a root row each time that row is expanded.
func NewTree(root Adapter, factory ChildFactory, options Options) *Tree {
	logger := options.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	t := &Tree{
		root:    root,
		factory: factory,
		logger:  logger,
		entries: make(map[int]*entry),
		state:   NewExpansionState(),
		owners:  make(map[ViewType][]Adapter),
	}
	t.rootRelay = &rootRelay{tree: t}
	t.SetObserverHooks(t.onFirstObserverRegistered, t.onLastObserverUnregistered)
	return t
}

// Root returns the root collection.
func (t *Tree) Root() Adapter {
	return t.root
}

func (t *Tree) onFirstObserverRegistered() {
	t.pruneEntries()
	t.root.RegisterObserver(t.rootRelay)
	t.rootObserved = true
	t.updateEntryObservers()
	t.invalidate()
	// The new observer has not read anything yet, so re-applied expansions
	// need no notifications.
	t.applyExpansionState(false)
}

func (t *Tree) onLastObserverUnregistered() {
	t.root.UnregisterObserver(t.rootRelay)
	t.rootObserved = false
	t.updateEntryObservers()
}

func (t *Tree) updateEntryObservers() {
	for _, e := range t.entries {
		e.updateObserver()
	}
}

// invalidate marks the group cache dirty. The next position query rebuilds.
func (t *Tree) invalidate() {
	t.cache.invalidate()
}

// pruneEntries drops entries whose root row no longer exists, without
// notifications. Only an unobserved Tree can hold them, since it does not
// see root removals.
func (t *Tree) pruneEntries() {
	if t.rootObserved || len(t.entries) == 0 {
		return
	}
	n := t.root.ItemCount()
	var dropped []*entry
	for p, e := range t.entries {
		if p >= n {
			delete(t.entries, p)
			dropped = append(dropped, e)
		}
	}
	for _, e := range dropped {
		t.disposeEntry(e)
	}
	if len(dropped) > 0 {
		t.logger.Debug("pruned entries", zap.Int("dropped", len(dropped)), zap.Int("root_count", n))
	}
}

// ensureClean rebuilds the group cache if it may be stale.
func (t *Tree) ensureClean() {
	if !t.rootObserved {
		t.pruneEntries()
		t.cache.invalidate()
	}
	if t.cache.clean() {
		return
	}
	t.cache.rebuild(t.root.ItemCount(), t.entrySize)
	if ce := t.logger.Check(zap.DebugLevel, "rebuilt group cache"); ce != nil {
		ce.Write(
			zap.Int("groups", len(t.cache.groups)),
			zap.Int("expanded", len(t.entries)),
			zap.Int("total", t.cache.total),
		)
	}
}

func (t *Tree) entrySize(rootPosition int) (int, bool) {
	e, ok := t.entries[rootPosition]
	if !ok {
		return 0, false
	}
	return e.itemCount(), true
}

// groupFor returns the group owning an outer position.
func (t *Tree) groupFor(outerPosition int) (*group, error) {
	t.ensureClean()
	if err := checkIndex(OuterSpace, outerPosition, t.cache.total); err != nil {
		return nil, err
	}
	return t.cache.floor(outerPosition), nil
}

func (t *Tree) mustGroupFor(outerPosition int) *group {
	g, err := t.groupFor(outerPosition)
	if err != nil {
		panic(err)
	}
	return g
}

// rootToOuter maps a root position to the outer position of its row. A
// position equal to the root count maps to the outer item count.
func (t *Tree) rootToOuter(rootPosition int) int {
	t.ensureClean()
	if rootPosition >= len(t.cache.groups) {
		return t.cache.total + rootPosition - len(t.cache.groups)
	}
	return t.cache.groups[rootPosition].outerStart
}

// resolve returns the adapter owning an outer position and the position in
// that adapter's space.
func (t *Tree) resolve(outerPosition int) (Adapter, int) {
	g := t.mustGroupFor(outerPosition)
	if outerPosition == g.outerStart {
		return t.root, outerPosition - g.rootStart
	}
	return t.entries[g.rootPosition].adapter, g.outerToEntry(outerPosition)
}

// RootToOuter maps a root position to the outer position of its row.
func (t *Tree) RootToOuter(rootPosition int) (int, error) {
	if err := checkIndex(RootSpace, rootPosition, t.root.ItemCount()); err != nil {
		return 0, err
	}
	return t.rootToOuter(rootPosition), nil
}

// OuterToRoot maps the outer position of a root row back to its root
// position. Positions of child rows fail with ErrNotRootRow.
func (t *Tree) OuterToRoot(outerPosition int) (int, error) {
	g, err := t.groupFor(outerPosition)
	if err != nil {
		return 0, err
	}
	if outerPosition != g.outerStart {
		return 0, withStackf(ErrNotRootRow, "outer position %d", outerPosition)
	}
	return outerPosition - g.rootStart, nil
}

// EntryToOuter maps a position in the expanded child of rootPosition to outer space.
func (t *Tree) EntryToOuter(rootPosition, entryPosition int) (int, error) {
	if err := checkIndex(RootSpace, rootPosition, t.root.ItemCount()); err != nil {
		return 0, err
	}
	e, ok := t.entries[rootPosition]
	if !ok {
		return 0, withStackf(ErrNotExpanded, "root position %d", rootPosition)
	}
	if err := checkIndex(EntrySpace, entryPosition, e.itemCount()); err != nil {
		return 0, err
	}
	t.ensureClean()
	return t.cache.groups[rootPosition].entryToOuter(entryPosition), nil
}

// OuterToEntry maps the outer position of a child row to its owning root
// position and its entry-local position. Root rows fail with ErrNotExpanded.
func (t *Tree) OuterToEntry(outerPosition int) (rootPosition, entryPosition int, err error) {
	loc, err := t.Locate(outerPosition)
	if err != nil {
		return 0, 0, err
	}
	if loc.IsRoot() {
		return 0, 0, withStackf(ErrNotExpanded, "outer position %d is a root row", outerPosition)
	}
	return loc.RootPosition, loc.Local, nil
}

// Locate resolves an outer position to its coordinate space and owner.
func (t *Tree) Locate(outerPosition int) (Location, error) {
	g, err := t.groupFor(outerPosition)
	if err != nil {
		return Location{}, err
	}
	if outerPosition == g.outerStart {
		return Location{Space: RootSpace, RootPosition: g.rootPosition, Local: g.rootPosition}, nil
	}
	return Location{Space: EntrySpace, RootPosition: g.rootPosition, Local: g.outerToEntry(outerPosition)}, nil
}

// ItemCount returns the number of outer rows: every root row plus the rows
// of every expanded child.
func (t *Tree) ItemCount() int {
	t.ensureClean()
	return t.cache.total
}

// ItemID delegates to the owner of the row. It panics with an
// *IndexOutOfRangeError for positions outside [0, ItemCount()).
func (t *Tree) ItemID(position int) int64 {
	a, local := t.resolve(position)
	return a.ItemID(local)
}

// IsEnabled delegates to the owner of the row.
func (t *Tree) IsEnabled(position int) bool {
	a, local := t.resolve(position)
	return a.IsEnabled(local)
}

// HasStableIDs is always false: the set of child collections is open-ended,
// so ids from different owners may collide.
func (t *Tree) HasStableIDs() bool {
	return false
}

// emit* notify the Tree's observers, marking the dispatch window.

func (t *Tree) emitChanged() {
	t.dispatching++
	defer func() { t.dispatching-- }()
	t.NotifyChanged()
}

func (t *Tree) emitRangeChanged(start, count int) {
	t.dispatching++
	defer func() { t.dispatching-- }()
	t.NotifyRangeChanged(start, count)
}

func (t *Tree) emitRangeInserted(start, count int) {
	t.dispatching++
	defer func() { t.dispatching-- }()
	t.NotifyRangeInserted(start, count)
}

func (t *Tree) emitRangeRemoved(start, count int) {
	t.dispatching++
	defer func() { t.dispatching-- }()
	t.NotifyRangeRemoved(start, count)
}

func (t *Tree) emitRangeMoved(from, to, count int) {
	t.dispatching++
	defer func() { t.dispatching-- }()
	t.NotifyRangeMoved(from, to, count)
}

func (t *Tree) checkMutable() error {
	if t.dispatching > 0 {
		return withStack(ErrReentrantMutation)
	}
	return nil
}
