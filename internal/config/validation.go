// Copyright (c) 2026 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package config

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ManuGH/deploycfg/internal/secrets"
	"github.com/ManuGH/deploycfg/internal/validate"
)

// Validate checks every invariant of cfg and returns a *ConfigurationError
// naming all offending fields, or nil.
func Validate(cfg ProjectConfig) error {
	v := validate.New()
	validateInto(v, cfg)
	if v.IsValid() {
		return nil
	}
	return NewConfigurationError("", v.Errors()...)
}

func validateInto(v *validate.Validator, cfg ProjectConfig) {
	v.SemVer("compilerVersion", cfg.CompilerVersion, SupportedCompilerRange)

	validateNetworks(v, cfg.Networks)

	// defaultNetwork must name a declared network
	switch {
	case strings.TrimSpace(cfg.DefaultNetwork) == "":
		v.AddError("defaultNetwork", "value cannot be empty", cfg.DefaultNetwork)
	case len(cfg.Networks) > 0:
		if _, ok := cfg.Networks[cfg.DefaultNetwork]; !ok {
			v.AddError("defaultNetwork",
				fmt.Sprintf("network %q is not declared in networks (declared: %s)",
					cfg.DefaultNetwork, strings.Join(cfg.NetworkNames(), ", ")),
				cfg.DefaultNetwork)
		}
	default:
		v.AddError("defaultNetwork", fmt.Sprintf("network %q is not declared in networks", cfg.DefaultNetwork), cfg.DefaultNetwork)
	}

	if cfg.OptimizerSettings.Enabled {
		v.Positive("optimizerSettings.runs", cfg.OptimizerSettings.Runs)
	} else {
		v.NonNegative("optimizerSettings.runs", cfg.OptimizerSettings.Runs)
	}

	roles := make([]string, 0, len(cfg.NamedAccounts))
	for role := range cfg.NamedAccounts {
		roles = append(roles, role)
	}
	sort.Strings(roles)
	for _, role := range roles {
		if strings.TrimSpace(role) == "" {
			v.AddError("namedAccounts", "role name cannot be empty", role)
			continue
		}
		v.NonNegative("namedAccounts."+role, cfg.NamedAccounts[role])
	}
	v.UniqueValues("namedAccounts", cfg.NamedAccounts)

	for i, p := range cfg.Plugins {
		v.NotEmpty(fmt.Sprintf("plugins[%d]", i), p)
	}
	v.UniqueStrings("plugins", cfg.Plugins)
}

func validateNetworks(v *validate.Validator, networks map[string]NetworkProfile) {
	if len(networks) == 0 {
		v.AddError("networks", "at least one network must be declared", nil)
		return
	}

	names := make([]string, 0, len(networks))
	for name := range networks {
		names = append(names, name)
	}
	sort.Strings(names)

	envOwners := make(map[string]string, len(names))
	for _, name := range names {
		if strings.TrimSpace(name) == "" {
			v.AddError("networks", "network name cannot be empty", name)
			continue
		}
		n := networks[name]
		path := "networks." + name

		// names differing only in punctuation share one override key
		key := NetworkURLEnvKey(name)
		if other, dup := envOwners[key]; dup {
			v.AddError(path, fmt.Sprintf("network %q shares the override key %s with %q; rename one of them", name, key, other), name)
		} else {
			envOwners[key] = name
		}

		switch {
		case strings.TrimSpace(n.URL) == "":
			if !IsLocal(name) {
				v.AddError(path+".url", "url is required for every network except "+LocalNetwork, n.URL)
			}
		case secrets.HasReference(n.URL):
			// Full URL validation happens after Resolve.
			if err := secrets.ValidateReferences(n.URL); err != nil {
				v.AddError(path+".url", err.Error(), MaskURL(n.URL))
			}
		default:
			v.URL(path+".url", n.URL, AllowedURLSchemes)
		}

		for i, acc := range n.Accounts {
			field := fmt.Sprintf("%s.accounts[%d]", path, i)
			if secrets.HasReference(acc) {
				if !secrets.IsWholeReference(acc) {
					v.AddError(field, "must be a hex private key or a single ${NAME} secret reference", "<redacted>")
				}
				continue
			}
			v.HexKey(field, acc, PrivateKeyBytes)
		}
	}
}

// HasLiteralKeys reports whether any network embeds a private key directly.
func HasLiteralKeys(cfg ProjectConfig) bool {
	for _, n := range cfg.Networks {
		for _, acc := range n.Accounts {
			if !secrets.HasReference(acc) {
				return true
			}
		}
	}
	return false
}
