package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/GoSim-25-26J-441/bandit-sim/internal/metrics"
	"github.com/GoSim-25-26J-441/bandit-sim/internal/session"
	"github.com/GoSim-25-26J-441/bandit-sim/internal/simd"
	"github.com/GoSim-25-26J-441/bandit-sim/pkg/config"
	"github.com/GoSim-25-26J-441/bandit-sim/pkg/logger"
)

var version = "0.1.0-dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "bandit",
		Short: "Compare random subject-line sends against epsilon-greedy",
		Long: `bandit simulates an email campaign over a fixed set of subject lines.

Each subject line has a hidden conversion probability. The random policy
sends every subject line an equal block of emails; the epsilon-greedy policy
learns from each send and shifts traffic toward the best performer.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
				logger.SetDefault(logger.Discard())
				return nil
			}
			level, _ := cmd.Flags().GetString("log-level")
			logger.SetDefault(logger.NewText(level, cmd.ErrOrStderr()))
			return nil
		},
	}

	// Global flags
	rootCmd.PersistentFlags().String("config", "", "Scenario YAML file (built-in defaults when empty)")
	rootCmd.PersistentFlags().Bool("json", false, "Output as JSON")
	rootCmd.PersistentFlags().String("log-level", "warn", "Log level (debug, info, warn, error)")

	rootCmd.AddCommand(
		newVersionCmd(),
		newTruthsCmd(),
		newRunCmd(),
		newRandomCmd(),
		newGreedyCmd(),
		newReplayCmd(),
		newTuneCmd(),
		newRemoteCmd(),
	)
	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				return writeJSON(cmd.OutOrStdout(), map[string]string{"version": version})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "bandit version %s\n", version)
			return nil
		},
	}
}

// newExecutor loads --config and builds a local executor with a single
// scratch session.
func newExecutor(cmd *cobra.Command) (*simd.Executor, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadConfig(path)
	if err != nil {
		return nil, err
	}
	store := session.NewStore()
	if _, err := store.Create(cliSession); err != nil {
		return nil, err
	}
	return simd.NewExecutor(cfg, store, metrics.NewCollector())
}

const cliSession = "cli"

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
