package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/phroun/canopy"
	"github.com/phroun/canopy/internal/demo"
	"github.com/phroun/canopy/internal/session"
)

// snapshotFolder groups the demo catalog's snapshots in the store.
const snapshotFolder = "catalog"

var replDeferred bool

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Drive the catalog tree from an interactive prompt",
	RunE: func(cmd *cobra.Command, args []string) error {
		repl := newREPL(os.Stdout, openStore(), demo.Options{Deferred: replDeferred, Logger: logger})
		defer repl.close()
		fmt.Fprintln(repl.out, "Canopy REPL - type 'help' for available commands, 'quit' to exit")
		repl.run(os.Stdin)
		return nil
	},
}

func init() {
	replCmd.Flags().BoolVar(&replDeferred, "deferred", false, "Keep expanded sections loading until 'load'")
}

// REPL holds the state of the interactive session.
type REPL struct {
	model *demo.Model
	host  *demo.Host
	store *session.Store
	out   io.Writer

	events *canopy.ObserverFuncs
}

func newREPL(out io.Writer, store *session.Store, options demo.Options) *REPL {
	model := demo.NewModel(demo.SampleCatalog(), options)
	r := &REPL{
		model: model,
		host:  demo.NewHost(model.Tree(), 1),
		store: store,
		out:   out,
	}
	r.events = &canopy.ObserverFuncs{
		Changed:  func() { fmt.Fprintln(r.out, "  event: changed") },
		Changes:  func(start, count int) { fmt.Fprintf(r.out, "  event: changed %d+%d\n", start, count) },
		Inserted: func(start, count int) { fmt.Fprintf(r.out, "  event: inserted %d+%d\n", start, count) },
		Removed:  func(start, count int) { fmt.Fprintf(r.out, "  event: removed %d+%d\n", start, count) },
		Moved:    func(from, to, count int) { fmt.Fprintf(r.out, "  event: moved %d+%d to %d\n", from, count, to) },
	}
	return r
}

func (r *REPL) close() {
	r.model.Tree().UnregisterObserver(r.events)
	r.host.Close()
}

func (r *REPL) run(in io.Reader) {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(r.out, "canopy> ")
		if !scanner.Scan() {
			fmt.Fprintln(r.out, "\nGoodbye!")
			return
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		if !r.handleCommand(input) {
			return
		}
	}
}

func (r *REPL) handleCommand(input string) bool {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return true
	}

	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	var err error
	switch cmd {
	case "help":
		r.printHelp()

	case "quit", "exit":
		fmt.Fprintln(r.out, "Goodbye!")
		return false

	case "dump", "ls":
		r.cmdDump()

	case "expand":
		err = r.cmdSetExpanded(args, true)

	case "collapse":
		err = r.cmdSetExpanded(args, false)

	case "toggle":
		err = r.cmdToggle(args)

	case "all":
		err = r.cmdAll(args)

	case "load":
		fmt.Fprintf(r.out, "Loaded %d section(s)\n", r.model.LoadPending())

	case "add":
		err = r.cmdAdd(args)

	case "remove":
		err = r.cmdRemove(args)

	case "move":
		err = r.cmdMove(args)

	case "rename":
		err = r.cmdRename(args)

	case "headline":
		err = r.cmdHeadline(args)

	case "locate":
		err = r.cmdLocate(args)

	case "save":
		err = r.cmdSave()

	case "restore":
		err = r.cmdRestore(args)

	case "snapshots":
		err = r.cmdSnapshots()

	case "events":
		err = r.cmdEvents(args)

	case "status":
		r.cmdStatus()

	default:
		fmt.Fprintf(r.out, "Unknown command: %s. Type 'help' for available commands.\n", cmd)
	}

	if err != nil {
		fmt.Fprintf(r.out, "Error: %v\n", err)
		logger.Debug("command failed", zap.String("command", cmd), zap.String("stack", canopy.ErrorStack(err)))
	}
	return true
}

func (r *REPL) printHelp() {
	fmt.Fprintln(r.out, `Commands:
  dump | ls                 show every row
  expand <root>             expand the section at a root position
  collapse <root>           collapse the section at a root position
  toggle <row>              toggle the row at an outer position
  all on|off                expand or collapse every section
  load                      finish sections that are still loading
  add <title>               append a section
  remove <root>             remove a section
  move <from> <to>          move a section
  rename <root> <title>     rename a section
  headline <root> <title>   add a headline to a section
  locate <row>              show which adapter owns an outer position
  save                      save the expanded sections
  restore [id]              restore a snapshot (latest by default)
  snapshots                 list saved snapshots
  events on|off             print change notifications
  status                    show counts
  quit | exit               leave`)
}

func intArg(args []string, i int, name string) (int, error) {
	if i >= len(args) {
		return 0, fmt.Errorf("missing %s", name)
	}
	n, err := strconv.Atoi(args[i])
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", name, args[i])
	}
	return n, nil
}

func (r *REPL) cmdDump() {
	tree := r.model.Tree()
	r.host.SetHeight(tree.ItemCount())
	r.host.SetCursor(0)
	for i, v := range r.host.Layout() {
		marker := " "
		if v.Type == demo.SectionView {
			marker = "+"
			if v.Expanded {
				marker = "-"
			}
		}
		fmt.Fprintf(r.out, "%3d %s %s%s\n", i, marker, strings.Repeat("    ", v.Depth), v.Text)
	}
}

func (r *REPL) cmdSetExpanded(args []string, expanded bool) error {
	p, err := intArg(args, 0, "root position")
	if err != nil {
		return err
	}
	return r.model.Tree().SetExpanded(p, expanded)
}

func (r *REPL) cmdToggle(args []string) error {
	p, err := intArg(args, 0, "row")
	if err != nil {
		return err
	}
	return r.model.Toggle(p)
}

func (r *REPL) cmdAll(args []string) error {
	if len(args) != 1 || (args[0] != "on" && args[0] != "off") {
		return fmt.Errorf("usage: all on|off")
	}
	return r.model.Tree().SetAllExpanded(args[0] == "on")
}

func (r *REPL) cmdAdd(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("missing title")
	}
	p := r.model.AddSection(strings.Join(args, " "))
	fmt.Fprintf(r.out, "Added section at %d\n", p)
	return nil
}

func (r *REPL) cmdRemove(args []string) error {
	p, err := intArg(args, 0, "root position")
	if err != nil {
		return err
	}
	return r.model.RemoveSection(p)
}

func (r *REPL) cmdMove(args []string) error {
	from, err := intArg(args, 0, "from")
	if err != nil {
		return err
	}
	to, err := intArg(args, 1, "to")
	if err != nil {
		return err
	}
	return r.model.MoveSection(from, to)
}

func (r *REPL) cmdRename(args []string) error {
	p, err := intArg(args, 0, "root position")
	if err != nil {
		return err
	}
	if len(args) < 2 {
		return fmt.Errorf("missing title")
	}
	return r.model.RenameSection(p, strings.Join(args[1:], " "))
}

func (r *REPL) cmdHeadline(args []string) error {
	p, err := intArg(args, 0, "root position")
	if err != nil {
		return err
	}
	if len(args) < 2 {
		return fmt.Errorf("missing title")
	}
	return r.model.AddHeadline(p, strings.Join(args[1:], " "), "REPL")
}

func (r *REPL) cmdLocate(args []string) error {
	p, err := intArg(args, 0, "row")
	if err != nil {
		return err
	}
	loc, err := r.model.Tree().Locate(p)
	if err != nil {
		return err
	}
	if loc.IsRoot() {
		fmt.Fprintf(r.out, "Row %d: section at root position %d\n", p, loc.RootPosition)
		return nil
	}
	fmt.Fprintf(r.out, "Row %d: headline %d of section at root position %d\n", p, loc.Local, loc.RootPosition)
	return nil
}

func (r *REPL) cmdSave() error {
	snap, err := r.store.Save(snapshotFolder, r.model.Tree().SaveState())
	if err != nil {
		return err
	}
	fmt.Fprintf(r.out, "Saved %s (%d expanded)\n", snap.ID, len(snap.Expanded))
	return nil
}

func (r *REPL) cmdRestore(args []string) error {
	var snap session.Snapshot
	var err error
	if len(args) > 0 {
		snap, err = r.store.Load(snapshotFolder, args[0])
	} else {
		snap, err = r.store.Latest(snapshotFolder)
	}
	if err != nil {
		return err
	}
	if err := r.model.Tree().RestoreState(snap.State()); err != nil {
		return err
	}
	fmt.Fprintf(r.out, "Restored %s\n", snap.ID)
	return nil
}

func (r *REPL) cmdSnapshots() error {
	snaps, err := r.store.List(snapshotFolder)
	if err != nil {
		return err
	}
	if len(snaps) == 0 {
		fmt.Fprintln(r.out, "No snapshots")
		return nil
	}
	for _, s := range snaps {
		fmt.Fprintf(r.out, "%s  %s  %v\n", s.ID, s.SavedAt.Format("2006-01-02 15:04:05"), s.Expanded)
	}
	return nil
}

func (r *REPL) cmdEvents(args []string) error {
	if len(args) != 1 || (args[0] != "on" && args[0] != "off") {
		return fmt.Errorf("usage: events on|off")
	}
	if args[0] == "on" {
		r.model.Tree().RegisterObserver(r.events)
	} else {
		r.model.Tree().UnregisterObserver(r.events)
	}
	return nil
}

func (r *REPL) cmdStatus() {
	tree := r.model.Tree()
	fmt.Fprintf(r.out, "Sections: %d\n", r.model.Sections().ItemCount())
	fmt.Fprintf(r.out, "Rows:     %d\n", tree.ItemCount())
	fmt.Fprintf(r.out, "Expanded: %v\n", tree.ExpandedPositions())
	fmt.Fprintf(r.out, "Loading:  %v\n", r.model.Pending())
	stats := r.host.Stats()
	fmt.Fprintf(r.out, "Views:    %d created, %d recycled\n", stats.Created, stats.Recycled)
}
