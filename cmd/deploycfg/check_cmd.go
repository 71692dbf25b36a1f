// Copyright (c) 2026 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package main

import (
	"fmt"
	"time"

	"github.com/ManuGH/deploycfg/internal/validation"
	"github.com/spf13/cobra"
)

func newCheckCmd(opts *globalOptions) *cobra.Command {
	var (
		networks    []string
		timeout     time.Duration
		concurrency int
		outputDir   string
	)
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Probe every network's RPC endpoint and verify its chain id",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg, creds, err := opts.resolve(ctx)
			if err != nil {
				return err
			}

			results, err := validation.PerformPreflightChecks(ctx, cfg, creds, validation.Options{
				Timeout:     timeout,
				Concurrency: concurrency,
				Networks:    networks,
				OutputDir:   outputDir,
			})
			out := cmd.OutOrStdout()
			for _, r := range results {
				if r.Outcome == validation.OutcomeOK {
					_, _ = fmt.Fprintf(out, "✓ %s: chain %d (%s)\n", r.Network, r.ChainID, r.Duration.Round(time.Millisecond))
					continue
				}
				_, _ = fmt.Fprintf(out, "✗ %s: %v\n", r.Network, r.Err)
			}
			return err
		},
	}
	cmd.Flags().StringSliceVarP(&networks, "network", "n", nil, "networks to probe (default: all with a url)")
	cmd.Flags().DurationVar(&timeout, "timeout", 10*time.Second, "per-endpoint timeout")
	cmd.Flags().IntVar(&concurrency, "concurrency", 4, "endpoints probed in parallel")
	cmd.Flags().StringVar(&outputDir, "output-dir", "", "build output directory that must be writable")
	return cmd
}
