// Copyright (c) 2026 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// deploycfg loads, validates and inspects smart-contract project
// configurations.
//
// Exit codes:
//   - 0: success
//   - 1: invalid configuration or failed check
//   - 2: usage error
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/ManuGH/deploycfg/internal/config"
	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := execute(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// exitError carries a specific exit code. A nil err prints nothing.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit status %d", e.code)
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error { return e.err }

func usageError(err error) error { return &exitError{code: 2, err: err} }

// execute runs the CLI and maps the outcome to an exit code.
func execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	opts := &globalOptions{}
	root := newRootCmd(opts)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	opts.close()
	if err == nil {
		return 0
	}

	var exitErr *exitError
	if errors.As(err, &exitErr) {
		if exitErr.err != nil {
			printError(stderr, exitErr.err)
		}
		return exitErr.code
	}
	printError(stderr, err)
	if strings.HasPrefix(err.Error(), "unknown command") {
		return 2
	}
	return 1
}

func printError(w io.Writer, err error) {
	var cerr *config.ConfigurationError
	if !errors.As(err, &cerr) || len(cerr.Issues) == 0 {
		_, _ = fmt.Fprintf(w, "Error: %v\n", err)
		return
	}
	_, _ = fmt.Fprintf(w, "Configuration error in %s:\n", cerr.Source)
	if cerr.Err != nil {
		_, _ = fmt.Fprintf(w, "  %v\n", cerr.Err)
	}
	for _, issue := range cerr.Issues {
		if issue.Field == "" {
			_, _ = fmt.Fprintf(w, "  - %s\n", issue.Message)
			continue
		}
		_, _ = fmt.Fprintf(w, "  - %s: %s\n", issue.Field, issue.Message)
	}
}

func newRootCmd(opts *globalOptions) *cobra.Command {
	root := &cobra.Command{
		Use:           "deploycfg",
		Short:         "Validate and inspect smart-contract project configuration",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.setup(cmd.Context(), cmd.ErrOrStderr())
		},
	}
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError(err)
	})
	opts.bindFlags(root)

	root.AddCommand(
		newValidateCmd(opts),
		newShowCmd(opts),
		newInitCmd(opts),
		newFmtCmd(opts),
		newDiffCmd(opts),
		newAccountsCmd(opts),
		newCheckCmd(opts),
		newSizeCmd(opts),
		newSchemaCmd(),
		newHistoryCmd(opts),
		newServeCmd(opts),
		newVersionCmd(),
	)
	return root
}

// exactArgs is cobra.ExactArgs reported as a usage error.
func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(n)(cmd, args); err != nil {
			return usageError(err)
		}
		return nil
	}
}
