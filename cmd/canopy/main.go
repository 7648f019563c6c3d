// canopy is a demo of the canopy hierarchical list adapter: an interactive
// REPL, a terminal UI host and a benchmark.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/phroun/canopy/internal/session"
)

var (
	verbose  bool
	stateDir string
	logFile  string

	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "canopy",
	Short: "Explore a virtualized hierarchical list",
	Long: `canopy flattens a catalog of sections and their headlines into one
virtualized list. Sections expand and collapse in place, and the expanded
set can be saved and restored across runs.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewProductionConfig()
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		if logFile != "" {
			config.OutputPaths = []string{logFile}
			config.ErrorOutputPaths = []string{logFile}
		}
		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func defaultStateDir() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return ".canopy"
	}
	return filepath.Join(dir, "canopy")
}

func openStore() *session.Store {
	return session.NewStore(stateDir, session.Options{Logger: logger})
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&stateDir, "state-dir", defaultStateDir(), "Directory for saved expansion snapshots")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Write logs to this file instead of stderr")

	rootCmd.AddCommand(replCmd)
	rootCmd.AddCommand(tuiCmd)
	rootCmd.AddCommand(benchCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
