// Copyright (c) 2026 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package main

import (
	"fmt"

	"github.com/ManuGH/deploycfg/internal/config"
	"github.com/spf13/cobra"
)

func newShowCmd(opts *globalOptions) *cobra.Command {
	var (
		format  string
		network string
	)
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration with secrets masked",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := config.ParseFormat(format)
			if err != nil {
				return usageError(err)
			}
			cfg, _, err := opts.load(cmd.Context())
			if err != nil {
				return err
			}
			masked := config.MaskConfig(cfg)

			if network != "" {
				n, ok := masked.Networks[network]
				if !ok {
					return fmt.Errorf("network %q is not declared", network)
				}
				masked = config.ProjectConfig{
					CompilerVersion: masked.CompilerVersion,
					DefaultNetwork:  network,
					Networks:        map[string]config.NetworkProfile{network: n},
				}
			}

			data, err := config.Marshal(masked, f)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
	cmd.Flags().StringVarP(&format, "format", "o", "yaml", "output format: yaml, json or hcl")
	cmd.Flags().StringVarP(&network, "network", "n", "", "show only this network")
	return cmd
}
