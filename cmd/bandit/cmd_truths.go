package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newTruthsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "truths",
		Short: "Show the hidden conversion probability of each subject line",
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")
			exec, err := newExecutor(cmd)
			if err != nil {
				return err
			}

			arms := exec.Arms()
			if jsonOut {
				return writeJSON(cmd.OutOrStdout(), map[string]any{
					"arms":       arms,
					"truth_seed": exec.Config().Truths.Seed,
				})
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "#\tSUBJECT LINE\tTRUE RATE")
			for _, arm := range arms {
				fmt.Fprintf(tw, "%d\t%s\t%.2f%%\n", arm.Index, arm.Name, arm.TrueProbability*100)
			}
			return tw.Flush()
		},
	}
}
