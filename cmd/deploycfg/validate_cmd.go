// Copyright (c) 2026 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package main

import (
	"fmt"
	"io"
	"time"

	"github.com/ManuGH/deploycfg/internal/config"
	"github.com/ManuGH/deploycfg/internal/plugin"
	"github.com/spf13/cobra"
)

func newValidateCmd(opts *globalOptions) *cobra.Command {
	var (
		watch     bool
		resolve   bool
		artifacts string
		debounce  time.Duration
	)
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Load and validate the project configuration",
		Long: `Loads the configuration file, applies DEPLOYCFG_* overrides, validates
every field and activates the listed plugins. With --resolve the secret
references are expanded and checked too. With --watch the file is
re-validated on every change until interrupted.`,
		Args: exactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			cfg, loader, err := opts.load(ctx)
			if err != nil {
				return err
			}

			reg, err := plugin.DefaultRegistry(artifacts)
			if err != nil {
				return err
			}
			if _, err := reg.Activate(ctx, config.NewSnapshot(cfg, opts.configPath)); err != nil {
				return err
			}

			if resolve {
				if _, err := opts.resolveLoaded(ctx, cfg); err != nil {
					return err
				}
			}
			_, _ = fmt.Fprintf(out, "✓ %s is valid\n", opts.configPath)

			if !watch {
				return nil
			}
			return watchLoop(cmd, cfg, loader, debounce, out)
		},
	}
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "re-validate whenever the file changes")
	cmd.Flags().BoolVar(&resolve, "resolve", false, "also resolve secret references")
	cmd.Flags().StringVar(&artifacts, "artifacts", "artifacts", "compiled artifacts directory for the contract sizer")
	cmd.Flags().DurationVar(&debounce, "debounce", config.DefaultDebounce, "quiet period before re-validating")
	return cmd
}

func watchLoop(cmd *cobra.Command, cfg config.ProjectConfig, loader *config.Loader, debounce time.Duration, out io.Writer) error {
	ctx := cmd.Context()
	w := config.NewWatcher(cfg, loader, config.WithDebounce(debounce))
	results := make(chan config.WatchResult, 8)
	w.Subscribe(results)
	if err := w.Start(ctx); err != nil {
		return err
	}
	defer w.Stop()

	_, _ = fmt.Fprintf(out, "watching %s (Ctrl-C to stop)\n", loader.Path())
	for {
		select {
		case <-ctx.Done():
			return nil
		case res := <-results:
			if res.Err != nil {
				printError(cmd.ErrOrStderr(), res.Err)
				_, _ = fmt.Fprintln(out, "✗ change rejected, keeping the last valid configuration")
				continue
			}
			_, _ = fmt.Fprintf(out, "✓ %s is valid (%d changes)\n", loader.Path(), len(res.Changes))
			for _, c := range res.Changes {
				_, _ = fmt.Fprintf(out, "  %s\n", c)
			}
		}
	}
}
