// Copyright (c) 2026 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package main

import (
	"fmt"

	"github.com/ManuGH/deploycfg/internal/config"
	"github.com/spf13/cobra"
)

func newDiffCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "diff OLD NEW",
		Short: "Compare two configuration files field by field",
		Long: `Loads both files (any supported format, no environment overrides) and
prints the differing fields with secrets masked. Exits 1 when they differ.`,
		Args: exactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			var cfgs [2]config.ProjectConfig
			for i, path := range args {
				loader, err := opts.loaderFor(ctx, path, false)
				if err != nil {
					return err
				}
				if cfgs[i], err = loader.Load(ctx); err != nil {
					return err
				}
			}

			changes := config.Diff(cfgs[0], cfgs[1])
			out := cmd.OutOrStdout()
			if len(changes) == 0 {
				_, _ = fmt.Fprintln(out, "no differences")
				return nil
			}
			for _, c := range changes {
				_, _ = fmt.Fprintln(out, c)
			}
			return &exitError{code: 1}
		},
	}
}
