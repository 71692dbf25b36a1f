// Copyright (c) 2026 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/ManuGH/deploycfg/internal/config"
	"github.com/spf13/cobra"
)

func newFmtCmd(opts *globalOptions) *cobra.Command {
	var check bool
	cmd := &cobra.Command{
		Use:   "fmt",
		Short: "Rewrite the configuration file in canonical form",
		Long: `Rewrites --config in canonical form: sorted keys, two-space indentation,
defaults made explicit. Environment overrides are not applied. With
--check nothing is written and a non-canonical file exits 1.`,
		Args: exactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			path := opts.configPath

			loader, err := opts.loaderFor(ctx, path, false)
			if err != nil {
				return err
			}
			cfg, err := loader.Load(ctx)
			if err != nil {
				return err
			}
			format, err := config.FormatFromPath(path)
			if err != nil {
				return usageError(err)
			}
			canonical, err := config.Marshal(cfg, format)
			if err != nil {
				return err
			}
			current, err := os.ReadFile(path) // #nosec G304 -- operator supplied path
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if bytes.Equal(current, canonical) {
				_, _ = fmt.Fprintf(out, "✓ %s is formatted\n", path)
				return nil
			}
			if check {
				return &exitError{code: 1, err: fmt.Errorf("%s is not formatted (run deploycfg fmt)", path)}
			}
			if err := config.NewManager(path).SaveBytes(canonical); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(out, "✓ formatted %s\n", path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&check, "check", false, "report instead of rewriting")
	return cmd
}
