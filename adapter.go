package canopy

// NoID is the item id reported for items without a stable identity.
const NoID int64 = -1

// NoPosition is reported by a Holder that is not attached to any row.
const NoPosition = -1

// View is an opaque view handle created by an Adapter and owned by the host.
type View interface{}

// Container is an opaque parent handle passed through to NewView.
type Container interface{}

// viewTypeToken is never compared by value; only its address matters.
type viewTypeToken struct {
	name string
}

// ViewType is an opaque token describing a kind of row view. Tokens compare
// by identity: two tokens created by separate NewViewType calls are distinct
// even when their names are equal.
type ViewType struct {
	token *viewTypeToken
}

// NewViewType creates a new, unique view type token. The name is only used
// for diagnostics.
func NewViewType(name string) ViewType {
	return ViewType{token: &viewTypeToken{name: name}}
}

// Name returns the diagnostic name given to NewViewType.
func (v ViewType) Name() string {
	if v.token == nil {
		return ""
	}
	return v.token.name
}

// IsZero reports whether v was never created by NewViewType.
func (v ViewType) IsZero() bool {
	return v.token == nil
}

// String returns the diagnostic name.
func (v ViewType) String() string {
	return v.Name()
}

// Holder is the host's handle to a bound view. Position reports the row the
// holder is currently bound to, in the space of the adapter it was given to.
type Holder interface {
	Position() int
}

// Adapter is the collection contract implemented by every root collection,
// every child collection and by Tree itself.
//
// Position arguments are expected to be in [0, ItemCount()). Implementations
// in this package panic with an *IndexOutOfRangeError otherwise.
type Adapter interface {
	// ItemCount returns the number of rows.
	ItemCount() int

	// ItemID returns the stable id of the row, or NoID.
	ItemID(position int) int64

	// IsEnabled reports whether the row can be selected.
	IsEnabled(position int) bool

	// ItemViewType returns the view type token for the row.
	ItemViewType(position int) ViewType

	// NewView creates a view for the given view type.
	NewView(parent Container, viewType ViewType) View

	// BindView binds the row at holder.Position() to the view.
	BindView(view View, holder Holder)

	// HasStableIDs reports whether ItemID values survive data set mutations.
	HasStableIDs() bool

	// RegisterObserver subscribes o to change notifications.
	RegisterObserver(o Observer)

	// UnregisterObserver removes a subscription made by RegisterObserver.
	UnregisterObserver(o Observer)
}

// ChildFactory returns the child collection shown when the root row at
// rootPosition is expanded. It is invoked exactly once per transition to
// expanded and must not return nil.
type ChildFactory func(rootPosition int) Adapter
