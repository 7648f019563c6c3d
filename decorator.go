package canopy

// RowDecorator appends one synthetic row to an inner adapter while a
// visibility predicate holds. Inner notifications pass through unchanged,
// since the synthetic row always sits after every inner row.
//
// Call Refresh whenever state the predicate reads changes outside of the
// inner adapter's own notifications.
type RowDecorator struct {
	Observable

	inner   Adapter
	visible func() bool

	viewType ViewType
	newView  func(parent Container) View
	enabled  bool

	relay   *decoratorRelay
	showing bool
}

// RowOptions configures the synthetic row of a RowDecorator.
type RowOptions struct {
	// Name labels the synthetic row's view type.
	Name string

	// ViewType, when set, is used instead of a fresh token named Name, so
	// that several decorators can share recycled views.
	ViewType ViewType

	// NewView creates the synthetic row's view.
	NewView func(parent Container) View

	// Enabled reports the synthetic row as selectable.
	Enabled bool
}

// NewRowDecorator wraps inner, showing the synthetic row while visible returns true.
func NewRowDecorator(inner Adapter, visible func() bool, options RowOptions) *RowDecorator {
	viewType := options.ViewType
	if viewType.IsZero() {
		viewType = NewViewType(options.Name)
	}
	d := &RowDecorator{
		inner:    inner,
		visible:  visible,
		viewType: viewType,
		newView:  options.NewView,
		enabled:  options.Enabled,
	}
	d.relay = &decoratorRelay{decorator: d}
	d.showing = visible()
	d.SetObserverHooks(d.onFirstObserverRegistered, d.onLastObserverUnregistered)
	return d
}

func (d *RowDecorator) onFirstObserverRegistered() {
	d.inner.RegisterObserver(d.relay)
	d.showing = d.visible()
}

func (d *RowDecorator) onLastObserverUnregistered() {
	d.inner.UnregisterObserver(d.relay)
}

// Inner returns the wrapped adapter.
func (d *RowDecorator) Inner() Adapter {
	return d.inner
}

// RowViewType returns the view type of the synthetic row.
func (d *RowDecorator) RowViewType() ViewType {
	return d.viewType
}

// Showing reports whether the synthetic row is currently part of the adapter.
func (d *RowDecorator) Showing() bool {
	return d.isShowing()
}

// Refresh re-evaluates visibility and reports the synthetic row's insertion
// or removal.
func (d *RowDecorator) Refresh() {
	show := d.visible()
	if show == d.showing {
		return
	}
	d.showing = show
	position := d.inner.ItemCount()
	if show {
		d.NotifyRangeInserted(position, 1)
	} else {
		d.NotifyRangeRemoved(position, 1)
	}
}

func (d *RowDecorator) isRow(position int) bool {
	n := d.inner.ItemCount()
	if d.isShowing() && position == n {
		return true
	}
	if err := checkIndex(OuterSpace, position, d.ItemCount()); err != nil {
		panic(err)
	}
	return false
}

// isShowing re-evaluates visibility while unobserved, since no inner
// notification would have updated it.
func (d *RowDecorator) isShowing() bool {
	if d.ObserverCount() == 0 {
		d.showing = d.visible()
	}
	return d.showing
}

func (d *RowDecorator) ItemCount() int {
	if d.isShowing() {
		return d.inner.ItemCount() + 1
	}
	return d.inner.ItemCount()
}

func (d *RowDecorator) ItemID(position int) int64 {
	if d.isRow(position) {
		return NoID
	}
	return d.inner.ItemID(position)
}

func (d *RowDecorator) IsEnabled(position int) bool {
	if d.isRow(position) {
		return d.enabled
	}
	return d.inner.IsEnabled(position)
}

func (d *RowDecorator) ItemViewType(position int) ViewType {
	if d.isRow(position) {
		return d.viewType
	}
	return d.inner.ItemViewType(position)
}

func (d *RowDecorator) NewView(parent Container, viewType ViewType) View {
	if viewType == d.viewType {
		if d.newView == nil {
			return nil
		}
		return d.newView(parent)
	}
	return d.inner.NewView(parent, viewType)
}

func (d *RowDecorator) BindView(view View, holder Holder) {
	if d.isRow(holder.Position()) {
		return
	}
	d.inner.BindView(view, holder)
}

func (d *RowDecorator) HasStableIDs() bool {
	return d.inner.HasStableIDs()
}

// decoratorRelay forwards inner notifications, then re-evaluates visibility.
// While the synthetic row is showing, an inner reset also covers it.
type decoratorRelay struct {
	decorator *RowDecorator
}

func (r *decoratorRelay) OnChanged() {
	d := r.decorator
	d.showing = d.visible()
	d.NotifyChanged()
}

func (r *decoratorRelay) OnRangeChanged(start, count int) {
	r.decorator.NotifyRangeChanged(start, count)
	r.decorator.Refresh()
}

func (r *decoratorRelay) OnRangeInserted(start, count int) {
	r.decorator.NotifyRangeInserted(start, count)
	r.decorator.Refresh()
}

func (r *decoratorRelay) OnRangeRemoved(start, count int) {
	r.decorator.NotifyRangeRemoved(start, count)
	r.decorator.Refresh()
}

func (r *decoratorRelay) OnRangeMoved(from, to, count int) {
	r.decorator.NotifyRangeMoved(from, to, count)
	r.decorator.Refresh()
}

// EmptyPolicy decides when a loading row is shown relative to the emptiness
// of the data. The row is never shown while not loading.
type EmptyPolicy int

const (
	// ShowAlways shows the loading row regardless of emptiness.
	ShowAlways EmptyPolicy = iota

	// ShowOnlyIfEmpty shows the loading row only while the data is empty.
	ShowOnlyIfEmpty

	// ShowOnlyIfNonEmpty shows the loading row only while the data is not empty.
	ShowOnlyIfNonEmpty
)

func (p EmptyPolicy) shouldShow(empty bool) bool {
	switch p {
	case ShowOnlyIfEmpty:
		return empty
	case ShowOnlyIfNonEmpty:
		return !empty
	default:
		return true
	}
}

// String returns the policy name.
func (p EmptyPolicy) String() string {
	switch p {
	case ShowAlways:
		return "always"
	case ShowOnlyIfEmpty:
		return "only-if-empty"
	case ShowOnlyIfNonEmpty:
		return "only-if-non-empty"
	default:
		return "unknown"
	}
}

// DataState reports the loading state of the data behind an adapter.
type DataState interface {
	IsLoading() bool
	IsEmpty() bool
}

// LoadingOptions configures NewLoadingAdapter.
type LoadingOptions struct {
	RowOptions
	EmptyPolicy EmptyPolicy
}

// NewLoadingAdapter appends a loading indicator row to inner while data is
// loading and the empty policy allows it.
func NewLoadingAdapter(inner Adapter, data DataState, options LoadingOptions) *RowDecorator {
	if options.Name == "" {
		options.Name = "loading"
	}
	policy := options.EmptyPolicy
	return NewRowDecorator(inner, func() bool {
		return data.IsLoading() && policy.shouldShow(data.IsEmpty())
	}, options.RowOptions)
}

// NewEmptyAdapter appends an empty-state placeholder row to inner while data
// is not loading and empty.
func NewEmptyAdapter(inner Adapter, data DataState, options RowOptions) *RowDecorator {
	if options.Name == "" {
		options.Name = "empty"
	}
	return NewRowDecorator(inner, func() bool {
		return !data.IsLoading() && data.IsEmpty()
	}, options)
}
