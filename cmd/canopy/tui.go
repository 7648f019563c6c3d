package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/phroun/canopy"
	"github.com/phroun/canopy/internal/demo"
	"github.com/phroun/canopy/internal/session"
)

var tuiLatency time.Duration

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Browse the catalog tree in a terminal UI",
	RunE: func(cmd *cobra.Command, args []string) error {
		m := newTUIModel(openStore(), demo.Options{Deferred: tuiLatency > 0, Logger: logger}, tuiLatency)
		defer m.close()
		_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
		return err
	},
}

func init() {
	tuiCmd.Flags().DurationVar(&tuiLatency, "latency", 400*time.Millisecond, "Simulated headline loading delay (0 loads immediately)")
}

var (
	sectionStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	headlineStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	loadingStyle  = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("241"))
	emptyStyle    = lipgloss.NewStyle().Faint(true)
	selectedStyle = lipgloss.NewStyle().Reverse(true)
	statusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Padding(0, 1)
)

// chromeHeight is the number of lines used by the status and help lines.
const chromeHeight = 2

type loadMsg struct{}

// tuiModel hosts the catalog tree in a bubbletea program. The program's
// update loop is the only goroutine touching the tree.
type tuiModel struct {
	model   *demo.Model
	host    *demo.Host
	store   *session.Store
	keys    keyMap
	help    help.Model
	latency time.Duration
	status  string
}

func newTUIModel(store *session.Store, options demo.Options, latency time.Duration) *tuiModel {
	model := demo.NewModel(demo.SampleCatalog(), options)
	return &tuiModel{
		model:   model,
		host:    demo.NewHost(model.Tree(), 20),
		store:   store,
		keys:    newKeyMap(),
		help:    help.New(),
		latency: latency,
	}
}

func (m *tuiModel) close() {
	m.host.Close()
}

func (m *tuiModel) Init() tea.Cmd {
	return nil
}

// scheduleLoad finishes loading sections after the configured latency.
func (m *tuiModel) scheduleLoad() tea.Cmd {
	if len(m.model.Pending()) == 0 {
		return nil
	}
	return tea.Tick(m.latency, func(time.Time) tea.Msg {
		return loadMsg{}
	})
}

func (m *tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.host.SetHeight(msg.Height - chromeHeight)
		m.help.Width = msg.Width

	case loadMsg:
		n := m.model.LoadPending()
		logger.Debug("loaded sections", zap.Int("count", n))

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Up):
			m.host.MoveCursor(-1)
		case key.Matches(msg, m.keys.Down):
			m.host.MoveCursor(1)
		case key.Matches(msg, m.keys.PageUp):
			m.host.MoveCursor(-m.pageSize())
		case key.Matches(msg, m.keys.PageDown):
			m.host.MoveCursor(m.pageSize())
		case key.Matches(msg, m.keys.Home):
			m.host.SetCursor(0)
		case key.Matches(msg, m.keys.End):
			m.host.SetCursor(m.model.Tree().ItemCount() - 1)
		case key.Matches(msg, m.keys.Toggle):
			m.report(m.model.Toggle(m.host.Cursor()), "")
			return m, m.scheduleLoad()
		case key.Matches(msg, m.keys.ExpandAll):
			m.report(m.model.Tree().SetAllExpanded(true), "expanded all")
			return m, m.scheduleLoad()
		case key.Matches(msg, m.keys.CollapseAll):
			m.report(m.model.Tree().SetAllExpanded(false), "collapsed all")
		case key.Matches(msg, m.keys.Save):
			m.save()
		case key.Matches(msg, m.keys.Restore):
			m.report(m.restore(), "restored")
			return m, m.scheduleLoad()
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		}
	}
	return m, nil
}

func (m *tuiModel) save() {
	snap, err := m.store.Save(snapshotFolder, m.model.Tree().SaveState())
	m.report(err, fmt.Sprintf("saved %d expanded", len(snap.Expanded)))
}

func (m *tuiModel) restore() error {
	snap, err := m.store.Latest(snapshotFolder)
	if err != nil {
		return err
	}
	return m.model.Tree().RestoreState(snap.State())
}

func (m *tuiModel) report(err error, ok string) {
	if err != nil {
		m.status = err.Error()
		logger.Debug("action failed", zap.String("stack", canopy.ErrorStack(err)))
		return
	}
	m.status = ok
}

func (m *tuiModel) pageSize() int {
	if n := len(m.host.Layout()); n > 1 {
		return n - 1
	}
	return 1
}

func (m *tuiModel) View() string {
	var b strings.Builder
	views := m.host.Layout()
	cursor, offset := m.host.Cursor(), m.host.Offset()
	for i, v := range views {
		line := renderRow(v)
		if offset+i == cursor {
			line = selectedStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	status := fmt.Sprintf("%d/%d", cursor+1, m.model.Tree().ItemCount())
	if m.status != "" {
		status += "  " + m.status
	}
	b.WriteString(statusStyle.Render(status))
	b.WriteByte('\n')
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func renderRow(v *demo.View) string {
	indent := strings.Repeat("  ", v.Depth)
	switch v.Type {
	case demo.SectionView:
		marker := "▸"
		if v.Expanded {
			marker = "▾"
		}
		return sectionStyle.Render(marker + " " + v.Text)
	case demo.LoadingView:
		return indent + loadingStyle.Render(v.Text)
	case demo.EmptyView:
		return indent + emptyStyle.Render(v.Text)
	default:
		return indent + headlineStyle.Render(v.Text)
	}
}
