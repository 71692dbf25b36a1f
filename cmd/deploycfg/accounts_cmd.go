// Copyright (c) 2026 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package main

import (
	"fmt"
	"sort"

	"github.com/ManuGH/deploycfg/internal/signer"
	"github.com/spf13/cobra"
)

func newAccountsCmd(opts *globalOptions) *cobra.Command {
	var network string
	cmd := &cobra.Command{
		Use:   "accounts",
		Short: "Show signer addresses and named accounts of a network",
		Long: `Resolves the network's account references from the secret sources,
derives the signer addresses and binds every named account to its signer.
Private keys are never printed.`,
		Args: exactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, creds, err := opts.resolve(cmd.Context())
			if err != nil {
				return err
			}
			if network == "" {
				network = cfg.DefaultNetwork
			}
			acc, err := signer.ForNetwork(creds, network, cfg.NamedAccounts)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "network: %s\n", acc.Network)
			if len(acc.Signers) == 0 {
				_, _ = fmt.Fprintln(out, "signers: provided by the node")
				return nil
			}
			_, _ = fmt.Fprintln(out, "signers:")
			for i, addr := range acc.Signers {
				_, _ = fmt.Fprintf(out, "  [%d] %s\n", i, addr.Hex())
			}

			roles := make([]string, 0, len(acc.Named))
			for role := range acc.Named {
				roles = append(roles, role)
			}
			sort.Strings(roles)
			if len(roles) > 0 {
				_, _ = fmt.Fprintln(out, "named accounts:")
			}
			for _, role := range roles {
				_, _ = fmt.Fprintf(out, "  %s -> %s (index %d)\n", role, acc.Named[role].Hex(), cfg.NamedAccounts[role])
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&network, "network", "n", "", "network to inspect (default: defaultNetwork)")
	return cmd
}
