package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/GoSim-25-26J-441/bandit-sim/internal/metrics"
	"github.com/GoSim-25-26J-441/bandit-sim/internal/simd"
	"github.com/GoSim-25-26J-441/bandit-sim/pkg/models"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run both policies and show the improvement of epsilon-greedy",
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")
			exec, err := newExecutor(cmd)
			if err != nil {
				return err
			}

			params := simd.CompareParams{}
			params.Trials, _ = cmd.Flags().GetInt("trials")
			if cmd.Flags().Changed("epsilon") {
				epsilon, _ := cmd.Flags().GetFloat64("epsilon")
				params.Epsilon = &epsilon
			}
			if cmd.Flags().Changed("random-seed") {
				seed, _ := cmd.Flags().GetInt64("random-seed")
				params.RandomSeed = &seed
			}
			if cmd.Flags().Changed("greedy-seed") {
				seed, _ := cmd.Flags().GetInt64("greedy-seed")
				params.GreedySeed = &seed
			}

			imp, err := exec.Compare(cmd.Context(), cliSession, params)
			if err != nil {
				return err
			}
			sess, err := exec.Store().Get(cliSession)
			if err != nil {
				return err
			}
			snap := sess.Snapshot()

			if jsonOut {
				return writeJSON(cmd.OutOrStdout(), simd.CompareResult{
					Improvement: imp,
					Random:      simd.NewRunView(snap.Random),
					Greedy:      simd.NewRunView(snap.Greedy),
				})
			}

			out := cmd.OutOrStdout()
			if err := printRun(out, "Random (A/B) sends", snap.Random); err != nil {
				return err
			}
			fmt.Fprintln(out)
			if err := printRun(out, "Epsilon-greedy sends", snap.Greedy); err != nil {
				return err
			}
			fmt.Fprintln(out)
			printImprovement(out, imp)
			return nil
		},
	}

	cmd.Flags().Int("trials", 0, "Emails per policy (config value when 0)")
	cmd.Flags().Float64("epsilon", 0, "Exploration rate for epsilon-greedy")
	cmd.Flags().Int64("random-seed", 0, "Seed for the random policy")
	cmd.Flags().Int64("greedy-seed", 0, "Seed for the epsilon-greedy policy")
	return cmd
}

func newRandomCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "random",
		Short: "Send equal blocks of emails to every subject line",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPolicy(cmd, models.PolicyRandom)
		},
	}
	cmd.Flags().Int("trials", 0, "Emails to send (config value when 0)")
	cmd.Flags().Int64("seed", 0, "Seed for the reward stream")
	return cmd
}

func newGreedyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "greedy",
		Short: "Send emails with the epsilon-greedy policy",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPolicy(cmd, models.PolicyEpsilonGreedy)
		},
	}
	cmd.Flags().Int("trials", 0, "Emails to send (config value when 0)")
	cmd.Flags().Int64("seed", 0, "Seed for the decision and reward stream")
	cmd.Flags().Float64("epsilon", 0, "Exploration rate in [0, 1]")
	return cmd
}

// runParams reads the --trials, --seed and --epsilon flags a command defines.
// Unset flags leave the config values in force.
func runParams(cmd *cobra.Command) simd.RunParams {
	var params simd.RunParams
	params.Trials, _ = cmd.Flags().GetInt("trials")
	if cmd.Flags().Changed("seed") {
		seed, _ := cmd.Flags().GetInt64("seed")
		params.Seed = &seed
	}
	if cmd.Flags().Lookup("epsilon") != nil && cmd.Flags().Changed("epsilon") {
		epsilon, _ := cmd.Flags().GetFloat64("epsilon")
		params.Epsilon = &epsilon
	}
	return params
}

func runPolicy(cmd *cobra.Command, policy models.Policy) error {
	jsonOut, _ := cmd.Flags().GetBool("json")
	exec, err := newExecutor(cmd)
	if err != nil {
		return err
	}

	run, err := exec.Simulate(cmd.Context(), cliSession, policy, runParams(cmd))
	if err != nil {
		return err
	}
	if jsonOut {
		return writeJSON(cmd.OutOrStdout(), simd.NewRunView(run))
	}

	title := "Random (A/B) sends"
	if policy == models.PolicyEpsilonGreedy {
		title = fmt.Sprintf("Epsilon-greedy sends (epsilon=%.2f)", run.Epsilon)
	}
	return printRun(cmd.OutOrStdout(), title, run)
}

func printRun(w io.Writer, title string, run *models.RunResult) error {
	kpis := metrics.ComputeKPIs(run)
	fmt.Fprintln(w, title)
	if kpis.State != metrics.StateReady {
		fmt.Fprintf(w, "  no data (%s)\n", kpis.State)
		return nil
	}
	fmt.Fprintf(w, "  emails sent: %d  conversions: %d  rate: %.2f%%\n",
		kpis.EmailsSent, kpis.Conversions, kpis.ConversionRate*100)
	if run.Policy == models.PolicyEpsilonGreedy {
		fmt.Fprintf(w, "  regret: %.1f\n", metrics.Regret(run, run.Len()))
	}
	return printArmTable(w, metrics.ArmSummaries(run))
}

func printArmTable(w io.Writer, rows []metrics.ArmSummary) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "  SUBJECT LINE\tSENT\tCONVERSIONS\tRATE\tSHARE")
	for _, row := range rows {
		fmt.Fprintf(tw, "  %s\t%d\t%d\t%.2f%%\t%.1f%%\n",
			row.Name, row.Chosen, row.Conversions, row.RatePercent, row.TrafficShare*100)
	}
	return tw.Flush()
}

func printImprovement(w io.Writer, imp *metrics.Improvement) {
	fmt.Fprintf(w, "Improvement: %+d conversions", imp.Difference)
	if imp.RandomTotal > 0 {
		fmt.Fprintf(w, " (%+.2f%%)", imp.Percent)
	}
	fmt.Fprintln(w)
	if imp.GreedyBetter {
		fmt.Fprintln(w, "Epsilon-greedy outperformed random sends.")
	} else {
		fmt.Fprintln(w, "Epsilon-greedy did not outperform random sends.")
	}
}
