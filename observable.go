package canopy

// Observer receives structural change notifications from an Adapter.
// Positions are in the space of the adapter the observer is registered with.
type Observer interface {
	// OnChanged reports that anything may have changed.
	OnChanged()

	// OnRangeChanged reports that count rows starting at start changed in place.
	OnRangeChanged(start, count int)

	// OnRangeInserted reports that count rows were inserted at start.
	OnRangeInserted(start, count int)

	// OnRangeRemoved reports that count rows starting at start were removed.
	OnRangeRemoved(start, count int)

	// OnRangeMoved reports that count rows moved from from to to.
	OnRangeMoved(from, to, count int)
}

// ObserverFuncs adapts optional callbacks to the Observer interface.
// Register it by pointer so that it can be unregistered again.
type ObserverFuncs struct {
	Changed  func()
	Changes  func(start, count int)
	Inserted func(start, count int)
	Removed  func(start, count int)
	Moved    func(from, to, count int)
}

func (f *ObserverFuncs) OnChanged() {
	if f.Changed != nil {
		f.Changed()
	}
}

func (f *ObserverFuncs) OnRangeChanged(start, count int) {
	if f.Changes != nil {
		f.Changes(start, count)
	}
}

func (f *ObserverFuncs) OnRangeInserted(start, count int) {
	if f.Inserted != nil {
		f.Inserted(start, count)
	}
}

func (f *ObserverFuncs) OnRangeRemoved(start, count int) {
	if f.Removed != nil {
		f.Removed(start, count)
	}
}

func (f *ObserverFuncs) OnRangeMoved(from, to, count int) {
	if f.Moved != nil {
		f.Moved(from, to, count)
	}
}

// Observable keeps the observer list of an Adapter and fans notifications
// out to it. It is meant to be embedded.
//
// Observers must be comparable; register pointers.
type Observable struct {
	observers []Observer

	onFirst func()
	onLast  func()
}

// SetObserverHooks installs callbacks run when the first observer registers
// and when the last one unregisters. Adapters that wrap other adapters use
// them to subscribe to their sources only while they are observed.
func (o *Observable) SetObserverHooks(first, last func()) {
	o.onFirst = first
	o.onLast = last
}

// RegisterObserver adds obs. Registering the same observer twice is a no-op.
func (o *Observable) RegisterObserver(obs Observer) {
	for _, existing := range o.observers {
		if existing == obs {
			return
		}
	}
	o.observers = append(o.observers, obs)
	if len(o.observers) == 1 && o.onFirst != nil {
		o.onFirst()
	}
}

// UnregisterObserver removes obs. Unknown observers are ignored.
func (o *Observable) UnregisterObserver(obs Observer) {
	for i, existing := range o.observers {
		if existing == obs {
			o.observers = append(o.observers[:i], o.observers[i+1:]...)
			if len(o.observers) == 0 && o.onLast != nil {
				o.onLast()
			}
			return
		}
	}
}

// ObserverCount returns the number of registered observers.
func (o *Observable) ObserverCount() int {
	return len(o.observers)
}

// Observers are notified last-registered first, walking backwards so that an
// observer may unregister itself from inside its callback.

// NotifyChanged reports a full reset to every observer.
func (o *Observable) NotifyChanged() {
	for i := len(o.observers) - 1; i >= 0; i-- {
		if i < len(o.observers) {
			o.observers[i].OnChanged()
		}
	}
}

// NotifyRangeChanged reports count changed rows at start. Empty ranges are dropped.
func (o *Observable) NotifyRangeChanged(start, count int) {
	if count <= 0 {
		return
	}
	for i := len(o.observers) - 1; i >= 0; i-- {
		if i < len(o.observers) {
			o.observers[i].OnRangeChanged(start, count)
		}
	}
}

// NotifyRangeInserted reports count inserted rows at start. Empty ranges are dropped.
func (o *Observable) NotifyRangeInserted(start, count int) {
	if count <= 0 {
		return
	}
	for i := len(o.observers) - 1; i >= 0; i-- {
		if i < len(o.observers) {
			o.observers[i].OnRangeInserted(start, count)
		}
	}
}

// NotifyRangeRemoved reports count removed rows at start. Empty ranges are dropped.
func (o *Observable) NotifyRangeRemoved(start, count int) {
	if count <= 0 {
		return
	}
	for i := len(o.observers) - 1; i >= 0; i-- {
		if i < len(o.observers) {
			o.observers[i].OnRangeRemoved(start, count)
		}
	}
}

// NotifyRangeMoved reports count rows moved from from to to. Empty ranges
// and moves onto themselves are dropped.
func (o *Observable) NotifyRangeMoved(from, to, count int) {
	if count <= 0 || from == to {
		return
	}
	for i := len(o.observers) - 1; i >= 0; i-- {
		if i < len(o.observers) {
			o.observers[i].OnRangeMoved(from, to, count)
		}
	}
}
