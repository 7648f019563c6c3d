package canopy

// Space identifies the coordinate space a position is expressed in.
type Space int

const (
	// OuterSpace is the flattened space exposed to the host, interleaving root
	// rows with the rows of any expanded children.
	OuterSpace Space = iota

	// RootSpace is the index space of the root collection alone.
	RootSpace

	// EntrySpace is the index space internal to one expanded child collection.
	EntrySpace
)

// String returns a human-readable name for the space.
func (s Space) String() string {
	switch s {
	case OuterSpace:
		return "outer"
	case RootSpace:
		return "root"
	case EntrySpace:
		return "entry"
	default:
		return "unknown"
	}
}

// Location is the result of resolving an outer position.
type Location struct {
	// Space is RootSpace when the row is a root row, EntrySpace when it
	// belongs to the expanded child of RootPosition.
	Space Space

	// RootPosition is the root row owning this position (the row itself when
	// Space is RootSpace).
	RootPosition int

	// Local is the position within the owning adapter: equal to RootPosition
	// for root rows, the entry-local index for child rows.
	Local int
}

// IsRoot reports whether the location is a root row.
func (l Location) IsRoot() bool {
	return l.Space == RootSpace
}
