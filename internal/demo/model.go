package demo

import (
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/phroun/canopy"
)

// View types shared by every adapter in the model. Sharing them lets a host
// recycle views across sections.
var (
	SectionView  = canopy.NewViewType("section")
	HeadlineView = canopy.NewViewType("headline")
	LoadingView  = canopy.NewViewType("loading")
	EmptyView    = canopy.NewViewType("empty")
)

// View is the view handle created for every row of the model.
type View struct {
	Type     canopy.ViewType
	Text     string
	Depth    int
	Expanded bool

	// Position is the row's position in the adapter that bound it.
	Position int

	// Binds counts how often the view has been bound.
	Binds int
}

func newView(parent canopy.Container, viewType canopy.ViewType) canopy.View {
	v := &View{Type: viewType, Position: canopy.NoPosition}
	switch viewType {
	case LoadingView:
		v.Text, v.Depth = "loading...", 1
	case EmptyView:
		v.Text, v.Depth = "(no headlines)", 1
	}
	return v
}

// feed is the live child collection of one expanded section.
type feed struct {
	section  Section
	list     *canopy.ListAdapter[Headline]
	loading  bool
	progress *canopy.RowDecorator
	adapter  *canopy.RowDecorator
}

func (f *feed) IsLoading() bool {
	return f.loading
}

func (f *feed) IsEmpty() bool {
	return f.list.ItemCount() == 0
}

// finish delivers the section's headlines and drops the loading row.
func (f *feed) finish() {
	if !f.loading {
		return
	}
	f.loading = false
	f.list.Append(f.section.Headlines...)
	f.progress.Refresh()
}

// addedHeadlineBase keeps ids of headlines added at runtime clear of the
// catalog's own.
const addedHeadlineBase = 1 << 32

// Options configures a Model.
type Options struct {
	// Deferred leaves expanded sections loading until LoadPending is called.
	Deferred bool

	// Logger defaults to a no-op logger.
	Logger *zap.Logger
}

// Model is a catalog of sections shown through a canopy.Tree.
type Model struct {
	sections *canopy.ListAdapter[Section]
	tree     *canopy.Tree
	feeds    map[int64]*feed
	deferred bool
	logger   *zap.Logger

	nextSection  int64
	nextHeadline int
}

// NewModel creates a Model over catalog.
func NewModel(catalog []Section, options Options) *Model {
	m := &Model{
		feeds:    make(map[int64]*feed),
		deferred: options.Deferred,
		logger:   options.Logger,
	}
	if m.logger == nil {
		m.logger = zap.NewNop()
	}
	for _, s := range catalog {
		if s.ID > m.nextSection {
			m.nextSection = s.ID
		}
	}
	m.sections = canopy.NewListAdapter(canopy.ListOptions[Section]{
		ID:       func(s Section) int64 { return s.ID },
		ViewType: SectionView,
		NewView:  newView,
		Bind:     m.bindSection,
	}, catalog...)
	m.tree = canopy.NewTree(m.sections, m.openSection, canopy.Options{Logger: m.logger})
	return m
}

// Tree returns the flattened adapter.
func (m *Model) Tree() *canopy.Tree {
	return m.tree
}

// Sections returns the root collection.
func (m *Model) Sections() *canopy.ListAdapter[Section] {
	return m.sections
}

func (m *Model) bindSection(view canopy.View, s Section, holder canopy.Holder) {
	v := view.(*View)
	v.Position = holder.Position()
	v.Depth = 0
	v.Expanded = m.tree.IsExpanded(v.Position)
	v.Text = fmt.Sprintf("%s (%d)", s.Title, len(s.Headlines))
	v.Binds++
}

func bindHeadline(view canopy.View, h Headline, holder canopy.Holder) {
	v := view.(*View)
	v.Position = holder.Position()
	v.Depth = 1
	v.Expanded = false
	v.Text = fmt.Sprintf("%s  [%s]", h.Title, h.Source)
	v.Binds++
}

// openSection is the tree's child factory.
func (m *Model) openSection(rootPosition int) canopy.Adapter {
	s, err := m.sections.Item(rootPosition)
	if err != nil {
		panic(err)
	}
	f := &feed{
		section: s,
		list: canopy.NewListAdapter(canopy.ListOptions[Headline]{
			ID:       func(h Headline) int64 { return h.ID },
			ViewType: HeadlineView,
			NewView:  newView,
			Bind:     bindHeadline,
		}),
		loading: true,
	}
	f.progress = canopy.NewLoadingAdapter(f.list, f, canopy.LoadingOptions{
		RowOptions: canopy.RowOptions{
			ViewType: LoadingView,
			NewView:  func(parent canopy.Container) canopy.View { return newView(parent, LoadingView) },
		},
		EmptyPolicy: canopy.ShowOnlyIfEmpty,
	})
	f.adapter = canopy.NewEmptyAdapter(f.progress, f, canopy.RowOptions{
		ViewType: EmptyView,
		NewView:  func(parent canopy.Container) canopy.View { return newView(parent, EmptyView) },
	})
	m.feeds[s.ID] = f
	if !m.deferred {
		f.finish()
	}
	m.logger.Debug("opened section", zap.Int64("section", s.ID), zap.Bool("deferred", m.deferred))
	return f.adapter
}

// Pending returns the ids of sections whose headlines are still loading.
func (m *Model) Pending() []int64 {
	var ids []int64
	for id, f := range m.feeds {
		if f.loading {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// LoadPending finishes every loading section and returns how many there were.
func (m *Model) LoadPending() int {
	ids := m.Pending()
	for _, id := range ids {
		m.feeds[id].finish()
	}
	return len(ids)
}

// Toggle expands or collapses the section at an outer position. On a
// headline row it collapses the owning section.
func (m *Model) Toggle(outerPosition int) error {
	loc, err := m.tree.Locate(outerPosition)
	if err != nil {
		return err
	}
	if !loc.IsRoot() {
		return m.tree.SetExpanded(loc.RootPosition, false)
	}
	_, err = m.tree.ToggleExpanded(loc.RootPosition)
	return err
}

// AddSection appends a new, empty section and returns its root position.
func (m *Model) AddSection(title string) int {
	m.nextSection++
	m.sections.Append(Section{ID: m.nextSection, Title: title})
	return m.sections.ItemCount() - 1
}

// RemoveSection removes the section at rootPosition.
func (m *Model) RemoveSection(rootPosition int) error {
	s, err := m.sections.Item(rootPosition)
	if err != nil {
		return err
	}
	if err := m.sections.Remove(rootPosition, 1); err != nil {
		return err
	}
	delete(m.feeds, s.ID)
	return nil
}

// MoveSection moves the section at from so that it ends up at to.
func (m *Model) MoveSection(from, to int) error {
	return m.sections.Move(from, to, 1)
}

// RenameSection changes the title of the section at rootPosition.
func (m *Model) RenameSection(rootPosition int, title string) error {
	s, err := m.sections.Item(rootPosition)
	if err != nil {
		return err
	}
	s.Title = title
	return m.sections.Set(rootPosition, s)
}

// AddHeadline appends a headline to the section at rootPosition. An open,
// loaded section shows it immediately.
func (m *Model) AddHeadline(rootPosition int, title, source string) error {
	s, err := m.sections.Item(rootPosition)
	if err != nil {
		return err
	}
	m.nextHeadline++
	h := Headline{
		ID:     addedHeadlineBase + int64(m.nextHeadline),
		Title:  title,
		Source: source,
	}
	s.Headlines = append(append([]Headline(nil), s.Headlines...), h)
	if err := m.sections.Set(rootPosition, s); err != nil {
		return err
	}
	if f, ok := m.feeds[s.ID]; ok && m.tree.IsExpanded(rootPosition) {
		f.section = s
		if !f.loading {
			f.list.Append(h)
		}
	}
	return nil
}
