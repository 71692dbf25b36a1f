// Copyright (c) 2026 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/ManuGH/deploycfg/internal/persistence/sqlite"
	"github.com/spf13/cobra"
)

func newHistoryCmd(opts *globalOptions) *cobra.Command {
	var (
		limit  int
		verify string
	)
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded configuration loads",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			if opts.historyDB == "" {
				return usageError(errNoHistory)
			}
			out := cmd.OutOrStdout()

			if verify != "" {
				mode, err := sqlite.ParseVerifyMode(verify)
				if err != nil {
					return usageError(err)
				}
				issues, err := sqlite.VerifyIntegrity(cmd.Context(), opts.historyDB, mode)
				if err != nil {
					return err
				}
				if len(issues) > 0 {
					for _, issue := range issues {
						_, _ = fmt.Fprintf(out, "✗ %s\n", issue)
					}
					return &exitError{code: 1, err: fmt.Errorf("%s is corrupt", opts.historyDB)}
				}
				_, _ = fmt.Fprintf(out, "✓ %s passed the %s integrity check\n", opts.historyDB, mode)
			}

			store, err := sqlite.OpenHistory(opts.historyDB)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			events, err := store.List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			_, _ = fmt.Fprintln(tw, "TIME\tOUTCOME\tPATH\tDIGEST\tLOAD ID")
			for _, ev := range events {
				digest := ev.Digest
				if len(digest) > 12 {
					digest = digest[:12]
				}
				if digest == "" {
					digest = "-"
				}
				_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
					ev.At.Local().Format(time.RFC3339), ev.Outcome, ev.Path, digest, ev.ID)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().IntVar(&limit, "limit", sqlite.DefaultHistoryLimit, "number of entries to show")
	cmd.Flags().StringVar(&verify, "verify", "", "run an integrity check first: quick or full (bare --verify means quick)")
	cmd.Flags().Lookup("verify").NoOptDefVal = string(sqlite.VerifyQuick)
	return cmd
}
