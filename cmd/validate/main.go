// SPDX-License-Identifier: MIT

// validate checks a deploycfg project configuration file.
//
// Usage:
//
//	validate -f deploycfg.yaml
//	validate --file deploycfg.hcl
//
// Exit codes:
//   - 0: Configuration is valid
//   - 1: Configuration is invalid (parse or validation error)
//   - 2: Usage error (missing required flag)
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/ManuGH/deploycfg/internal/config"
	xglog "github.com/ManuGH/deploycfg/internal/log"
	"github.com/ManuGH/deploycfg/internal/version"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("validate", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var (
		file        string
		showVersion bool
	)
	fs.StringVar(&file, "file", "", "path to the configuration file (.yaml, .yml, .json, .hcl)")
	fs.StringVar(&file, "f", "", "path to the configuration file (shorthand)")
	fs.BoolVar(&showVersion, "version", false, "print version and exit")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if showVersion {
		_, _ = fmt.Fprintln(stdout, version.Version)
		return 0
	}

	if file == "" {
		_, _ = fmt.Fprintln(stderr, "Error: --file is required")
		_, _ = fmt.Fprintln(stderr, "")
		_, _ = fmt.Fprintln(stderr, "Usage:")
		_, _ = fmt.Fprintln(stderr, "  validate -f deploycfg.yaml")
		_, _ = fmt.Fprintln(stderr, "  validate --file deploycfg.yaml")
		return 2
	}

	xglog.Configure(xglog.Config{Level: "warn", Output: stderr, Version: version.Version})

	loader := config.NewLoader(file, version.Version)
	if _, err := loader.Load(context.Background()); err != nil {
		_, _ = fmt.Fprintf(stderr, "Configuration error in %s:\n", file)
		_, _ = fmt.Fprintf(stderr, "  %v\n", err)
		return 1
	}

	_, _ = fmt.Fprintf(stdout, "✓ %s is valid\n", file)
	return 0
}
