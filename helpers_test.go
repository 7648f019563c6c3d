package canopy

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// row is the item type used by most tests.
type row struct {
	ID   int64
	Name string
}

// textView is the view handle produced by test adapters.
type textView struct {
	kind     string
	text     string
	position int
}

// event is one recorded notification.
type event struct {
	Kind string
	A, B int
	C    int
}

func changed() event { return event{Kind: "changed"} }
func rangeChanged(s, n int) event { return event{Kind: "range-changed", A: s, B: n} }
func inserted(s, n int) event { return event{Kind: "inserted", A: s, B: n} }
func removed(s, n int) event { return event{Kind: "removed", A: s, B: n} }
func moved(from, to, n int) event { return event{Kind: "moved", A: from, B: to, C: n} }
func (e event) String() string { return fmt.Sprintf("%s(%d,%d,%d)", e.Kind, e.A, e.B, e.C) }

// recorder is an Observer that keeps every notification it receives.
type recorder struct {
	events []event
}

func (r *recorder) OnChanged() { r.events = append(r.events, changed()) }
func (r *recorder) OnRangeChanged(s, n int) { r.events = append(r.events, rangeChanged(s, n)) }
func (r *recorder) OnRangeInserted(s, n int) { r.events = append(r.events, inserted(s, n)) }
func (r *recorder) OnRangeRemoved(s, n int) { r.events = append(r.events, removed(s, n)) }
func (r *recorder) OnRangeMoved(f, to, n int) { r.events = append(r.events, moved(f, to, n)) }

func (r *recorder) take() []event {
	events := r.events
	r.events = nil
	return events
}

func assertEvents(t *testing.T, r *recorder, want ...event) {
	t.Helper()
	got := r.take()
	if len(want) == 0 {
		want = nil
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}
}

// fixedHolder is a host holder pinned to one outer position.
type fixedHolder struct {
	position int
}

func (h *fixedHolder) Position() int {
	return h.position
}

func rowOptions(kind string) ListOptions[row] {
	return ListOptions[row]{
		ID:       func(r row) int64 { return r.ID },
		ViewType: NewViewType(kind),
		NewView: func(parent Container, viewType ViewType) View {
			return &textView{kind: kind}
		},
		Bind: func(view View, item row, holder Holder) {
			v := view.(*textView)
			v.text = item.Name
			v.position = holder.Position()
		},
	}
}

func rows(names ...string) []row {
	out := make([]row, len(names))
	for i, name := range names {
		out[i] = row{ID: int64(i + 1), Name: name}
	}
	return out
}

// fixture wires a root list, a Tree and a recorder. Child lists come from
// children keyed by the root row's name.
type fixture struct {
	root     *ListAdapter[row]
	tree     *Tree
	rec      *recorder
	children map[string][]string
	created  map[string]*ListAdapter[row]
	calls    int
}

func newFixture(t *testing.T, roots []row, children map[string][]string) *fixture {
	t.Helper()
	f := &fixture{
		root:     NewListAdapter(rowOptions("root"), roots...),
		rec:      &recorder{},
		children: children,
		created:  make(map[string]*ListAdapter[row]),
	}
	f.tree = NewTree(f.root, f.factory, Options{})
	f.tree.RegisterObserver(f.rec)
	return f
}

func (f *fixture) factory(rootPosition int) Adapter {
	f.calls++
	parent, err := f.root.Item(rootPosition)
	if err != nil {
		panic(err)
	}
	var items []row
	for i, name := range f.children[parent.Name] {
		items = append(items, row{ID: parent.ID*100 + int64(i), Name: name})
	}
	child := NewListAdapter(rowOptions("child"), items...)
	f.created[parent.Name] = child
	return child
}

// names binds every outer position and returns the bound texts.
func names(t *testing.T, tree *Tree) []string {
	t.Helper()
	var out []string
	for i := 0; i < tree.ItemCount(); i++ {
		vt := tree.ItemViewType(i)
		v := tree.NewView(nil, vt).(*textView)
		tree.BindView(v, &fixedHolder{position: i})
		out = append(out, v.text)
	}
	return out
}

// replay applies events to mirror the way a host would, taking inserted and
// changed texts from final, the rows after the notifications.
func replay(t *testing.T, mirror []string, events []event, final []string) []string {
	t.Helper()
	out := append([]string(nil), mirror...)
	for _, e := range events {
		switch e.Kind {
		case "changed":
			out = append([]string(nil), final...)
		case "range-changed":
			copy(out[e.A:e.A+e.B], final[e.A:e.A+e.B])
		case "inserted":
			rows := append([]string(nil), final[e.A:e.A+e.B]...)
			out = append(out[:e.A], append(rows, out[e.A:]...)...)
		case "removed":
			out = append(out[:e.A], out[e.A+e.B:]...)
		case "moved":
			rows := append([]string(nil), out[e.A:e.A+e.C]...)
			out = append(out[:e.A], out[e.A+e.C:]...)
			out = append(out[:e.B], append(rows, out[e.B:]...)...)
		default:
			t.Fatalf("unknown event %s", e)
		}
	}
	return out
}
