// Copyright (c) 2026 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package config

import (
	"maps"
	"slices"
)

// Clone returns a deep copy of cfg.
func (cfg ProjectConfig) Clone() ProjectConfig {
	out := cfg
	if cfg.Networks != nil {
		out.Networks = make(map[string]NetworkProfile, len(cfg.Networks))
		for name, n := range cfg.Networks {
			n.Accounts = slices.Clone(n.Accounts)
			out.Networks[name] = n
		}
	}
	out.NamedAccounts = maps.Clone(cfg.NamedAccounts)
	out.Plugins = slices.Clone(cfg.Plugins)
	return out
}

// NetworkNames returns the declared network names in sorted order.
func (cfg ProjectConfig) NetworkNames() []string {
	return slices.Sorted(maps.Keys(cfg.Networks))
}
