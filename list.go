package canopy

// ListOptions configures a ListAdapter.
type ListOptions[T any] struct {
	// ID returns the stable id of an item. When nil every item reports NoID
	// and HasStableIDs is false.
	ID func(item T) int64

	// ViewType is the view type shared by all items. A zero value gets a
	// fresh token named "list".
	ViewType ViewType

	// ViewTypeOf overrides ViewType per item.
	ViewTypeOf func(item T) ViewType

	// Enabled reports whether an item is selectable. Nil means always.
	Enabled func(item T) bool

	// NewView creates a view for a view type.
	NewView func(parent Container, viewType ViewType) View

	// Bind binds an item to a view. The holder reports positions in this
	// adapter's space even when the list is embedded in a Tree.
	Bind func(view View, item T, holder Holder)
}

// ListAdapter is a slice-backed Adapter. Every mutation notifies observers.
type ListAdapter[T any] struct {
	Observable

	items   []T
	options ListOptions[T]
}

// NewListAdapter creates a ListAdapter holding a copy of items.
func NewListAdapter[T any](options ListOptions[T], items ...T) *ListAdapter[T] {
	if options.ViewType.IsZero() && options.ViewTypeOf == nil {
		options.ViewType = NewViewType("list")
	}
	return &ListAdapter[T]{
		items:   append([]T(nil), items...),
		options: options,
	}
}

// Items returns a copy of the current items.
func (l *ListAdapter[T]) Items() []T {
	return append([]T(nil), l.items...)
}

// Item returns the item at position.
func (l *ListAdapter[T]) Item(position int) (T, error) {
	if err := checkIndex(RootSpace, position, len(l.items)); err != nil {
		var zero T
		return zero, err
	}
	return l.items[position], nil
}

// Append adds items at the end.
func (l *ListAdapter[T]) Append(items ...T) {
	start := len(l.items)
	l.items = append(l.items, items...)
	l.NotifyRangeInserted(start, len(items))
}

// Insert adds items before position. position may equal the item count.
func (l *ListAdapter[T]) Insert(position int, items ...T) error {
	if position < 0 || position > len(l.items) {
		return outOfRange(RootSpace, position, len(l.items))
	}
	tail := append([]T(nil), l.items[position:]...)
	l.items = append(append(l.items[:position], items...), tail...)
	l.NotifyRangeInserted(position, len(items))
	return nil
}

// Remove deletes count items starting at position.
func (l *ListAdapter[T]) Remove(position, count int) error {
	if err := checkRange(position, count, len(l.items)); err != nil {
		return err
	}
	l.items = append(l.items[:position], l.items[position+count:]...)
	l.NotifyRangeRemoved(position, count)
	return nil
}

// Move relocates count items starting at from so that they start at to once
// the move is complete.
func (l *ListAdapter[T]) Move(from, to, count int) error {
	n := len(l.items)
	if err := checkRange(from, count, n); err != nil {
		return err
	}
	if err := checkRange(to, count, n); err != nil {
		return err
	}
	moved := append([]T(nil), l.items[from:from+count]...)
	rest := append(append([]T(nil), l.items[:from]...), l.items[from+count:]...)
	items := make([]T, 0, n)
	items = append(items, rest[:to]...)
	items = append(items, moved...)
	l.items = append(items, rest[to:]...)
	l.NotifyRangeMoved(from, to, count)
	return nil
}

// Set replaces the item at position.
func (l *ListAdapter[T]) Set(position int, item T) error {
	if err := checkIndex(RootSpace, position, len(l.items)); err != nil {
		return err
	}
	l.items[position] = item
	l.NotifyRangeChanged(position, 1)
	return nil
}

// Replace swaps the whole content and reports a full reset.
func (l *ListAdapter[T]) Replace(items ...T) {
	l.items = append([]T(nil), items...)
	l.NotifyChanged()
}

func (l *ListAdapter[T]) ItemCount() int {
	return len(l.items)
}

func (l *ListAdapter[T]) item(position int) T {
	if err := checkIndex(RootSpace, position, len(l.items)); err != nil {
		panic(err)
	}
	return l.items[position]
}

func (l *ListAdapter[T]) ItemID(position int) int64 {
	item := l.item(position)
	if l.options.ID == nil {
		return NoID
	}
	return l.options.ID(item)
}

func (l *ListAdapter[T]) IsEnabled(position int) bool {
	item := l.item(position)
	if l.options.Enabled == nil {
		return true
	}
	return l.options.Enabled(item)
}

func (l *ListAdapter[T]) ItemViewType(position int) ViewType {
	item := l.item(position)
	if l.options.ViewTypeOf != nil {
		return l.options.ViewTypeOf(item)
	}
	return l.options.ViewType
}

func (l *ListAdapter[T]) NewView(parent Container, viewType ViewType) View {
	if l.options.NewView == nil {
		return nil
	}
	return l.options.NewView(parent, viewType)
}

func (l *ListAdapter[T]) BindView(view View, holder Holder) {
	item := l.item(holder.Position())
	if l.options.Bind != nil {
		l.options.Bind(view, item, holder)
	}
}

func (l *ListAdapter[T]) HasStableIDs() bool {
	return l.options.ID != nil
}

// checkRange validates the span [start, start+count) against n items.
func checkRange(start, count, n int) error {
	if start < 0 || start > n {
		return outOfRange(RootSpace, start, n)
	}
	if count < 0 || start+count > n {
		return outOfRange(RootSpace, start+count, n)
	}
	return nil
}
