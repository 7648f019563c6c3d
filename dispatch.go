package canopy

import "slices"

// ItemViewType asks the owner of the row for its view type and remembers
// which adapter produced the token, so that NewView can be routed without a
// position.
func (t *Tree) ItemViewType(position int) ViewType {
	a, local := t.resolve(position)
	vt := a.ItemViewType(local)
	t.recordOwner(vt, a)
	return vt
}

func (t *Tree) recordOwner(vt ViewType, a Adapter) {
	owners := t.owners[vt]
	if i := slices.Index(owners, a); i >= 0 {
		if i == len(owners)-1 {
			return
		}
		owners = slices.Delete(owners, i, i+1)
	}
	t.owners[vt] = append(owners, a)
}

// NewView creates a view through the adapter that most recently produced
// viewType. A token shared by several children stays routed to a live one
// when others collapse. Tokens never returned by ItemViewType, or whose
// owners have all been collapsed, go to the root.
func (t *Tree) NewView(parent Container, viewType ViewType) View {
	if owners := t.owners[viewType]; len(owners) > 0 {
		return owners[len(owners)-1].NewView(parent, viewType)
	}
	return t.root.NewView(parent, viewType)
}

// BindView binds the row at holder.Position() through its owner. The owner
// sees a holder reporting positions in its own space.
func (t *Tree) BindView(view View, holder Holder) {
	position := holder.Position()
	g := t.mustGroupFor(position)
	if position == g.outerStart {
		t.root.BindView(view, &offsetHolder{Holder: holder, tree: t})
		return
	}
	e := t.entries[g.rootPosition]
	e.adapter.BindView(view, &offsetHolder{Holder: holder, tree: t, entry: e})
}

// offsetHolder translates the host holder's live outer position into the
// space of the adapter it was bound through. A fresh one is made per bind,
// so nothing keyed by holder identity outlives the bind.
type offsetHolder struct {
	Holder
	tree *Tree

	// entry is nil for holders bound through the root.
	entry *entry
}

// Position returns NoPosition once the holder no longer points at a row of
// the adapter it was bound through.
func (h *offsetHolder) Position() int {
	outer := h.Holder.Position()
	if outer == NoPosition {
		return NoPosition
	}
	loc, err := h.tree.Locate(outer)
	if err != nil {
		return NoPosition
	}
	if h.entry == nil {
		if !loc.IsRoot() {
			return NoPosition
		}
		return loc.Local
	}
	if loc.IsRoot() || h.tree.entries[loc.RootPosition] != h.entry {
		return NoPosition
	}
	return loc.Local
}
