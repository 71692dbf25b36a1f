// Copyright (c) 2026 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/ManuGH/deploycfg/internal/config"
	"github.com/ManuGH/deploycfg/internal/plugin/contractsizer"
	"github.com/spf13/cobra"
)

func newSizeCmd(opts *globalOptions) *cobra.Command {
	var artifacts string
	cmd := &cobra.Command{
		Use:   "size",
		Short: "Report compiled contract sizes against the EVM limits",
		Long: fmt.Sprintf(`Measures every artifact under --artifacts. Deployed code is limited to
%d bytes (EIP-170) and init code to %d bytes (EIP-3860). With
contractSizerOptions.strict an oversized contract fails the command.`,
			contractsizer.MaxRuntimeSize, contractsizer.MaxInitSize),
		Args: exactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg, _, err := opts.load(ctx)
			if err != nil {
				return err
			}
			if _, err := os.Stat(artifacts); err != nil {
				return err
			}

			sizer := contractsizer.New(artifacts)
			sizeErr := sizer.Configure(ctx, config.NewSnapshot(cfg, opts.configPath))

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			_, _ = fmt.Fprintln(tw, "CONTRACT\tSOURCE\tRUNTIME\tINIT\t")
			for _, r := range sizer.Reports() {
				mark := ""
				if r.Oversized() {
					mark = "!"
				}
				_, _ = fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%s\n", r.Contract, r.Source, r.RuntimeSize, r.InitSize, mark)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			return sizeErr
		},
	}
	cmd.Flags().StringVar(&artifacts, "artifacts", "artifacts", "compiled artifacts directory")
	return cmd
}
