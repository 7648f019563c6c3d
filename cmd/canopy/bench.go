package main

import (
	"fmt"
	"io"
	"math/rand"
	"os"
	"runtime"
	"time"

	"github.com/spf13/cobra"

	"github.com/phroun/canopy"
	"github.com/phroun/canopy/internal/demo"
)

var (
	benchSections  int
	benchHeadlines int
	benchOps       int
	benchSeed      int64
)

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Measure expansion, lookup and relay costs on a large catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		runBenchmarks(os.Stdout, benchConfig{
			sections:  benchSections,
			headlines: benchHeadlines,
			ops:       benchOps,
			seed:      benchSeed,
		})
		return nil
	},
}

func init() {
	benchCmd.Flags().IntVar(&benchSections, "sections", 20000, "Number of root sections")
	benchCmd.Flags().IntVar(&benchHeadlines, "headlines", 25, "Headlines per section")
	benchCmd.Flags().IntVar(&benchOps, "ops", 100000, "Operations per benchmark")
	benchCmd.Flags().Int64Var(&benchSeed, "seed", 1, "Random seed")
}

type BenchResult struct {
	Name     string
	Duration time.Duration
	Ops      int
	Extra    string
}

func (r BenchResult) String() string {
	if r.Ops > 0 {
		opsPerSec := float64(r.Ops) / r.Duration.Seconds()
		if r.Extra != "" {
			return fmt.Sprintf("%-40s %12v  (%d ops, %.2f ops/sec) %s", r.Name, r.Duration.Round(time.Microsecond), r.Ops, opsPerSec, r.Extra)
		}
		return fmt.Sprintf("%-40s %12v  (%d ops, %.2f ops/sec)", r.Name, r.Duration.Round(time.Microsecond), r.Ops, opsPerSec)
	}
	if r.Extra != "" {
		return fmt.Sprintf("%-40s %12v  %s", r.Name, r.Duration.Round(time.Microsecond), r.Extra)
	}
	return fmt.Sprintf("%-40s %12v", r.Name, r.Duration.Round(time.Microsecond))
}

type benchConfig struct {
	sections  int
	headlines int
	ops       int
	seed      int64
}

func benchCatalog(cfg benchConfig) []demo.Section {
	sections := make([]demo.Section, cfg.sections)
	for i := range sections {
		id := int64(i + 1)
		s := demo.Section{ID: id, Title: fmt.Sprintf("Section %d", id)}
		s.Headlines = make([]demo.Headline, cfg.headlines)
		for j := range s.Headlines {
			s.Headlines[j] = demo.Headline{
				ID:    id*1000 + int64(j),
				Title: fmt.Sprintf("Headline %d.%d", id, j),
			}
		}
		sections[i] = s
	}
	return sections
}

// counter is an observer that only counts notifications.
type counter struct {
	canopy.ObserverFuncs
	n int
}

func newCounter() *counter {
	c := &counter{}
	inc := func(int, int) { c.n++ }
	c.Changed = func() { c.n++ }
	c.Changes = inc
	c.Inserted = inc
	c.Removed = inc
	c.Moved = func(int, int, int) { c.n++ }
	return c
}

func runBenchmarks(out io.Writer, cfg benchConfig) []BenchResult {
	fmt.Fprintln(out, "Canopy Benchmark")
	fmt.Fprintln(out, "================")
	fmt.Fprintf(out, "Sections: %d, headlines per section: %d\n", cfg.sections, cfg.headlines)
	fmt.Fprintf(out, "Go version: %s\n", runtime.Version())
	fmt.Fprintln(out)

	model := demo.NewModel(benchCatalog(cfg), demo.Options{})
	tree := model.Tree()
	obs := newCounter()
	tree.RegisterObserver(obs)
	defer tree.UnregisterObserver(obs)
	rng := rand.New(rand.NewSource(cfg.seed))

	var results []BenchResult
	runBench := func(name string, fn func() BenchResult) {
		fmt.Fprintf(out, "  %-40s ", name+"...")
		result := fn()
		result.Name = name
		fmt.Fprintf(out, "%v\n", result.Duration.Round(time.Microsecond))
		results = append(results, result)
	}

	runBench("Expand all", func() BenchResult {
		start := time.Now()
		if err := tree.SetAllExpanded(true); err != nil {
			return BenchResult{Extra: err.Error()}
		}
		return BenchResult{Duration: time.Since(start), Extra: fmt.Sprintf("%d rows", tree.ItemCount())}
	})

	runBench("Random outer lookups", func() BenchResult {
		n := tree.ItemCount()
		start := time.Now()
		for i := 0; i < cfg.ops; i++ {
			if _, err := tree.Locate(rng.Intn(n)); err != nil {
				return BenchResult{Extra: err.Error()}
			}
		}
		return BenchResult{Duration: time.Since(start), Ops: cfg.ops}
	})

	runBench("Bind window", func() BenchResult {
		host := demo.NewHost(tree, 60)
		defer host.Close()
		start := time.Now()
		for i := 0; i < cfg.ops/60+1; i++ {
			host.SetCursor(rng.Intn(tree.ItemCount()))
			host.Layout()
		}
		stats := host.Stats()
		return BenchResult{
			Duration: time.Since(start),
			Ops:      stats.Bound,
			Extra:    fmt.Sprintf("%d views created", stats.Created),
		}
	})

	toggles := cfg.ops / 10
	runBench("Random toggles", func() BenchResult {
		start := time.Now()
		for i := 0; i < toggles; i++ {
			if _, err := tree.ToggleExpanded(rng.Intn(cfg.sections)); err != nil {
				return BenchResult{Extra: err.Error()}
			}
			tree.ItemCount()
		}
		return BenchResult{Duration: time.Since(start), Ops: toggles}
	})

	edits := cfg.ops / 100
	runBench("Root inserts and removes", func() BenchResult {
		start := time.Now()
		for i := 0; i < edits; i++ {
			p := model.AddSection("bench")
			if err := model.MoveSection(p, rng.Intn(p+1)); err != nil {
				return BenchResult{Extra: err.Error()}
			}
			if err := model.RemoveSection(rng.Intn(model.Sections().ItemCount())); err != nil {
				return BenchResult{Extra: err.Error()}
			}
			tree.ItemCount()
		}
		return BenchResult{Duration: time.Since(start), Ops: edits * 3}
	})

	runBench("Save and restore state", func() BenchResult {
		start := time.Now()
		state := tree.SaveState()
		if err := tree.SetAllExpanded(false); err != nil {
			return BenchResult{Extra: err.Error()}
		}
		if err := tree.RestoreState(state); err != nil {
			return BenchResult{Extra: err.Error()}
		}
		return BenchResult{Duration: time.Since(start), Extra: fmt.Sprintf("%d ids", state.Len())}
	})

	runBench("Collapse all", func() BenchResult {
		start := time.Now()
		if err := tree.SetAllExpanded(false); err != nil {
			return BenchResult{Extra: err.Error()}
		}
		return BenchResult{Duration: time.Since(start), Extra: fmt.Sprintf("%d rows", tree.ItemCount())}
	})

	fmt.Fprintln(out)
	fmt.Fprintln(out, "Summary:")
	for _, r := range results {
		fmt.Fprintln(out, r)
	}
	fmt.Fprintf(out, "Notifications delivered: %d\n", obs.n)
	return results
}
