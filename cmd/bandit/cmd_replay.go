package main

import (
	"fmt"
	"math"

	"github.com/spf13/cobra"

	"github.com/GoSim-25-26J-441/bandit-sim/internal/metrics"
	"github.com/GoSim-25-26J-441/bandit-sim/internal/simd"
	"github.com/GoSim-25-26J-441/bandit-sim/pkg/models"
)

func newReplayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Show how epsilon-greedy had learned by a given step",
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")
			exec, err := newExecutor(cmd)
			if err != nil {
				return err
			}

			if _, err := exec.Simulate(cmd.Context(), cliSession, models.PolicyEpsilonGreedy, runParams(cmd)); err != nil {
				return err
			}

			step := math.MaxInt
			if cmd.Flags().Changed("step") {
				step, _ = cmd.Flags().GetInt("step")
			}
			view, err := exec.Replay(cliSession, step)
			if err != nil {
				return err
			}

			if jsonOut {
				return writeJSON(cmd.OutOrStdout(), simd.ReplayResult{
					Replay: view,
					Steps:  metrics.ReplaySteps(view.MaxStep, exec.Config().Replay.Interval),
				})
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Step %d of %d\n", view.Step, view.MaxStep)
			fmt.Fprintf(out, "  conversions so far: %d  regret: %.1f\n", view.TotalReward, view.Regret)
			if view.TopArm >= 0 {
				fmt.Fprintf(out, "  leading subject line: %s (%.1f%% of sends)\n",
					view.Arms[view.TopArm].Name, view.TopArmShare*100)
			}
			return printArmTable(out, view.Arms)
		},
	}

	cmd.Flags().Int("step", 0, "Replay position (full run when unset)")
	cmd.Flags().Int("trials", 0, "Emails to send (config value when 0)")
	cmd.Flags().Int64("seed", 0, "Seed for the decision and reward stream")
	cmd.Flags().Float64("epsilon", 0, "Exploration rate in [0, 1]")
	return cmd
}
