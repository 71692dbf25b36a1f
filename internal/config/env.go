// Copyright (c) 2026 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package config

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	xglog "github.com/ManuGH/deploycfg/internal/log"
	"github.com/rs/zerolog"
)

// Placeholders of per-network registry entries.
const (
	networkPathPlaceholder = "<name>"
	networkEnvPlaceholder  = "<NAME>"
)

// NetworkURLEnvKey returns the override key for a network's url, e.g.
// DEPLOYCFG_NETWORK_ARBITRUM_SEPOLIA_URL for "arbitrum-sepolia".
func NetworkURLEnvKey(network string) string {
	return networkEnvKey(EnvPrefix+"NETWORK_"+networkEnvPlaceholder+"_URL", network)
}

func networkEnvKey(template, network string) string {
	var b strings.Builder
	for _, r := range network {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToUpper(r))
		} else {
			b.WriteByte('_')
		}
	}
	return strings.Replace(template, networkEnvPlaceholder, b.String(), 1)
}

// applyEnv layers the registry's environment overrides onto cfg. Malformed
// values are reported as issues on the overridden field, never silently
// ignored.
func (l *Loader) applyEnv(cfg *ProjectConfig, c *issueCollector, logger zerolog.Logger) {
	reg, err := GetRegistry()
	if err != nil {
		c.add("(root)", err.Error(), nil)
		return
	}
	for _, e := range reg.Entries {
		if e.Env == "" {
			continue
		}
		if strings.Contains(e.Path, networkPathPlaceholder) {
			l.applyNetworkEnv(cfg, e, c, logger)
			continue
		}
		v, ok := l.lookupEnv(e.Env)
		if !ok {
			continue
		}
		if err := setFromEnv(envTarget(cfg, e.Path), v); err != nil {
			c.add(e.Path, fmt.Sprintf("%s: %v", e.Env, err), v)
			continue
		}
		logOverride(logger, e.Env, e.Path)
	}
}

func (l *Loader) applyNetworkEnv(cfg *ProjectConfig, e ConfigEntry, c *issueCollector, logger zerolog.Logger) {
	for _, name := range cfg.NetworkNames() {
		key := networkEnvKey(e.Env, name)
		v, ok := l.lookupEnv(key)
		if !ok {
			continue
		}
		path := strings.Replace(e.Path, networkPathPlaceholder, name, 1)
		n := cfg.Networks[name]
		if err := setFromEnv(networkEnvTarget(&n, e.Path), v); err != nil {
			c.add(path, fmt.Sprintf("%s: %v", key, err), nil)
			continue
		}
		cfg.Networks[name] = n
		logOverride(logger, key, path)
	}
}

// envTarget returns the field an override of path writes to.
func envTarget(cfg *ProjectConfig, path string) any {
	switch path {
	case "compilerVersion":
		return &cfg.CompilerVersion
	case "defaultNetwork":
		return &cfg.DefaultNetwork
	case "optimizerSettings.enabled":
		return &cfg.OptimizerSettings.Enabled
	case "optimizerSettings.runs":
		return &cfg.OptimizerSettings.Runs
	case "contractSizerOptions.strict":
		return &cfg.ContractSizerOptions.Strict
	}
	return nil
}

func networkEnvTarget(n *NetworkProfile, path string) any {
	switch strings.TrimPrefix(path, "networks."+networkPathPlaceholder+".") {
	case "url":
		return &n.URL
	}
	return nil
}

func setFromEnv(target any, raw string) error {
	raw = strings.TrimSpace(raw)
	switch t := target.(type) {
	case *string:
		*t = raw
	case *bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return fmt.Errorf("invalid bool %q", raw)
		}
		*t = b
	case *int:
		n, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("invalid integer %q", raw)
		}
		*t = n
	default:
		return fmt.Errorf("no override target")
	}
	return nil
}

func logOverride(logger zerolog.Logger, key, field string) {
	logger.Debug().
		Str("key", key).
		Str(xglog.FieldField, field).
		Str("source", "environment").
		Msg("using environment override")
}
