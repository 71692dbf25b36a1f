// Copyright (c) 2026 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/ManuGH/deploycfg/internal/config"
	"github.com/spf13/cobra"
)

type schemaEntry struct {
	Path        string `json:"path"`
	Env         string `json:"env,omitempty"`
	Kind        string `json:"kind"`
	Required    bool   `json:"required"`
	Default     any    `json:"default,omitempty"`
	Description string `json:"description"`
}

func newSchemaCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "List every configuration option and its environment override",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			reg, err := config.GetRegistry()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if asJSON {
				entries := make([]schemaEntry, 0, len(reg.Entries))
				for _, e := range reg.Entries {
					entries = append(entries, schemaEntry{
						Path:        e.Path,
						Env:         e.Env,
						Kind:        string(e.Kind),
						Required:    e.Required,
						Default:     e.Default,
						Description: e.Description,
					})
				}
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(entries)
			}

			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			_, _ = fmt.Fprintln(tw, "PATH\tKIND\tDEFAULT\tENV\tDESCRIPTION")
			for _, e := range reg.Entries {
				def := "-"
				if e.Required {
					def = "required"
				} else if e.Default != nil {
					def = fmt.Sprint(e.Default)
				}
				env := e.Env
				if env == "" {
					env = "-"
				}
				_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", e.Path, e.Kind, def, env, e.Description)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")
	return cmd
}
