package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/GoSim-25-26J-441/bandit-sim/internal/simd"
)

func newTuneCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tune",
		Short: "Search for the exploration rate that works best on this scenario",
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")
			exec, err := newExecutor(cmd)
			if err != nil {
				return err
			}

			var params simd.TuneParams
			params.Objective, _ = cmd.Flags().GetString("objective")
			params.StepSize, _ = cmd.Flags().GetFloat64("step")
			params.MaxIterations, _ = cmd.Flags().GetInt("max-iterations")
			params.Seeds, _ = cmd.Flags().GetInt64Slice("seeds")
			params.Trials, _ = cmd.Flags().GetInt("trials")
			if cmd.Flags().Changed("epsilon") {
				epsilon, _ := cmd.Flags().GetFloat64("epsilon")
				params.InitialEpsilon = &epsilon
			}

			res, err := exec.Tune(cmd.Context(), params)
			if err != nil {
				return err
			}
			if jsonOut {
				return writeJSON(cmd.OutOrStdout(), res)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Best epsilon: %.4f (%s = %.2f)\n", res.BestEpsilon, res.Objective, res.BestValue)
			fmt.Fprintf(out, "Stopped after %d iterations, %d evaluations: %s\n\n", res.Iterations, res.Evaluations, res.ConvergenceReason)

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ITER\tEPSILON\tSTEP\tVALUE")
			for _, s := range res.History {
				fmt.Fprintf(tw, "%d\t%.4f\t%.4f\t%.2f\n", s.Iteration, s.Epsilon, s.StepSize, s.Value)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().String("objective", "total_reward", "Objective: total_reward, regret or best_arm_share")
	cmd.Flags().Float64("epsilon", 0, "Starting epsilon (config value when unset)")
	cmd.Flags().Float64("step", 0.1, "Initial step size")
	cmd.Flags().Int("max-iterations", 10, "Maximum hill-climbing iterations")
	cmd.Flags().Int64Slice("seeds", nil, "Greedy seeds averaged per evaluation")
	cmd.Flags().Int("trials", 0, "Emails per evaluation run (config value when 0)")
	return cmd
}
