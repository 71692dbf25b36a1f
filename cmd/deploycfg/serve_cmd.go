// Copyright (c) 2026 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package main

import (
	"github.com/ManuGH/deploycfg/internal/api"
	"github.com/ManuGH/deploycfg/internal/config"
	"github.com/ManuGH/deploycfg/internal/telemetry"
	"github.com/ManuGH/deploycfg/internal/version"
	"github.com/spf13/cobra"
)

func newServeCmd(opts *globalOptions) *cobra.Command {
	var (
		addr  string
		watch bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the masked configuration over HTTP",
		Long: `Serves /healthz, /metrics and the read-only /api/v1 endpoints. With
--watch (the default) a changed file is re-validated and served as soon as
it is valid; a rejected change keeps the previous configuration.`,
		Args: exactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg, loader, err := opts.load(ctx)
			if err != nil {
				return err
			}

			w := config.NewWatcher(cfg, loader)
			if watch {
				if err := w.Start(ctx); err != nil {
					return err
				}
				defer w.Stop()
			}

			srv := api.New(w, version.Version, api.Options{
				TracingService: telemetry.DefaultServiceName,
				RateLimit:      true,
			})
			return srv.ListenAndServe(ctx, addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:9464", "listen address")
	cmd.Flags().BoolVar(&watch, "watch", true, "reload the configuration when the file changes")
	return cmd
}
