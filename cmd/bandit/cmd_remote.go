package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/GoSim-25-26J-441/bandit-sim/internal/simd"
)

func newRemoteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remote",
		Short: "Run a comparison on a banditd server over gRPC",
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")
			addr, _ := cmd.Flags().GetString("addr")
			sessionID, _ := cmd.Flags().GetString("session")
			timeout, _ := cmd.Flags().GetDuration("timeout")

			conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
			if err != nil {
				return fmt.Errorf("connect to %s: %w", addr, err)
			}
			defer conn.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			client := simd.NewClient(conn)
			sess, err := client.CreateSession(ctx, sessionID)
			if err != nil {
				return fmt.Errorf("create session: %w", err)
			}

			var params simd.CompareParams
			params.Trials, _ = cmd.Flags().GetInt("trials")
			result, err := client.Compare(ctx, sess.ID, params)
			if err != nil {
				return fmt.Errorf("compare: %w", err)
			}

			if jsonOut {
				return writeJSON(cmd.OutOrStdout(), map[string]any{
					"session_id":  sess.ID,
					"improvement": result.Improvement,
					"random":      result.Random,
					"greedy":      result.Greedy,
				})
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Session %s on %s\n", sess.ID, addr)
			fmt.Fprintf(out, "  random:         %d conversions from %d emails\n", result.Random.KPIs.Conversions, result.Random.KPIs.EmailsSent)
			fmt.Fprintf(out, "  epsilon-greedy: %d conversions from %d emails\n", result.Greedy.KPIs.Conversions, result.Greedy.KPIs.EmailsSent)
			printImprovement(out, result.Improvement)
			return nil
		},
	}

	cmd.Flags().String("addr", "localhost:50051", "banditd gRPC address")
	cmd.Flags().String("session", "", "Session ID to create (server generated when empty)")
	cmd.Flags().Int("trials", 0, "Emails per policy (server config value when 0)")
	cmd.Flags().Duration("timeout", 30*time.Second, "Request timeout")
	return cmd
}
