package demo

import (
	"github.com/phroun/canopy"
)

// slot is the host side holder of one bound view. Its position follows the
// adapter's notifications until the next layout.
type slot struct {
	position int
	view     *View
}

func (s *slot) Position() int {
	return s.position
}

// Stats counts view creation and reuse.
type Stats struct {
	Created  int
	Recycled int
	Bound    int
}

// Host is a minimal virtualization host: it shows a window of height rows
// around a cursor, asks the adapter only for the rows in that window and
// recycles views by view type.
type Host struct {
	adapter canopy.Adapter
	height  int
	cursor  int
	offset  int

	// count is the item count as last reported, tracked through
	// notifications so that batches are applied one step at a time.
	count int

	slots []*slot
	pool  map[canopy.ViewType][]*View
	stats Stats
}

// NewHost creates a Host over adapter and subscribes to its notifications.
func NewHost(adapter canopy.Adapter, height int) *Host {
	h := &Host{
		adapter: adapter,
		height:  height,
		pool:    make(map[canopy.ViewType][]*View),
	}
	adapter.RegisterObserver(h)
	h.count = adapter.ItemCount()
	return h
}

// Close unsubscribes from the adapter.
func (h *Host) Close() {
	h.adapter.UnregisterObserver(h)
}

func (h *Host) Cursor() int { return h.cursor }
func (h *Host) Offset() int { return h.offset }
func (h *Host) Stats() Stats { return h.stats }

// SetHeight changes the number of visible rows.
func (h *Host) SetHeight(height int) {
	if height < 1 {
		height = 1
	}
	h.height = height
}

// SetCursor moves the cursor to position, clamped to the rows present.
func (h *Host) SetCursor(position int) {
	h.cursor = position
	h.clamp()
}

// MoveCursor moves the cursor by delta rows.
func (h *Host) MoveCursor(delta int) {
	h.SetCursor(h.cursor + delta)
}

func (h *Host) clamp() {
	n := h.adapter.ItemCount()
	h.count = n
	if h.cursor >= n {
		h.cursor = n - 1
	}
	if h.cursor < 0 {
		h.cursor = 0
	}
}

// scroll keeps the cursor inside the window.
func (h *Host) scroll() {
	if h.cursor < h.offset {
		h.offset = h.cursor
	}
	if h.cursor >= h.offset+h.height {
		h.offset = h.cursor - h.height + 1
	}
	if last := h.adapter.ItemCount() - h.height; h.offset > last {
		h.offset = last
	}
	if h.offset < 0 {
		h.offset = 0
	}
}

// Layout binds the rows of the current window and returns their views in
// order. Views bound by the previous layout are recycled first.
func (h *Host) Layout() []*View {
	h.clamp()
	h.scroll()

	for _, s := range h.slots {
		h.pool[s.view.Type] = append(h.pool[s.view.Type], s.view)
	}
	h.slots = h.slots[:0]

	end := h.offset + h.height
	if n := h.adapter.ItemCount(); end > n {
		end = n
	}
	views := make([]*View, 0, end-h.offset)
	for p := h.offset; p < end; p++ {
		vt := h.adapter.ItemViewType(p)
		v := h.obtain(vt)
		s := &slot{position: p, view: v}
		h.adapter.BindView(v, s)
		h.stats.Bound++
		h.slots = append(h.slots, s)
		views = append(views, v)
	}
	return views
}

func (h *Host) obtain(vt canopy.ViewType) *View {
	if free := h.pool[vt]; len(free) > 0 {
		v := free[len(free)-1]
		h.pool[vt] = free[:len(free)-1]
		h.stats.Recycled++
		return v
	}
	v := h.adapter.NewView(nil, vt).(*View)
	v.Type = vt
	h.stats.Created++
	return v
}

// movePosition maps a position across a moved range.
func movePosition(p, from, to, count int) int {
	if p >= from && p < from+count {
		return to + p - from
	}
	if p >= from+count {
		p -= count
	}
	if p >= to {
		p += count
	}
	return p
}

func (h *Host) OnChanged() {
	for _, s := range h.slots {
		s.position = canopy.NoPosition
	}
	h.clamp()
}

func (h *Host) OnRangeChanged(start, count int) {}

func (h *Host) OnRangeInserted(start, count int) {
	before := h.count
	h.count += count
	if before > 0 && h.cursor >= start {
		h.cursor += count
	}
	for _, s := range h.slots {
		if s.position >= start {
			s.position += count
		}
	}
}

func (h *Host) OnRangeRemoved(start, count int) {
	h.count -= count
	switch {
	case h.cursor >= start+count:
		h.cursor -= count
	case h.cursor >= start:
		h.cursor = start
	}
	for _, s := range h.slots {
		switch {
		case s.position >= start+count:
			s.position -= count
		case s.position >= start:
			s.position = canopy.NoPosition
		}
	}
	if h.cursor >= h.count {
		h.cursor = h.count - 1
	}
	if h.cursor < 0 {
		h.cursor = 0
	}
}

func (h *Host) OnRangeMoved(from, to, count int) {
	h.cursor = movePosition(h.cursor, from, to, count)
	for _, s := range h.slots {
		if s.position != canopy.NoPosition {
			s.position = movePosition(s.position, from, to, count)
		}
	}
}
