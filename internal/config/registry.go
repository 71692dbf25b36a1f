// Copyright (c) 2026 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package config

import (
	"fmt"
	"sort"
	"sync"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "DEPLOYCFG_"

// Kind is the value type of a configuration option.
type Kind string

const (
	KindString Kind = "string"
	KindBool   Kind = "bool"
	KindInt    Kind = "int"
	KindUint   Kind = "uint"
	KindList   Kind = "list"
	KindMap    Kind = "map"
)

// ConfigEntry defines a single configuration option's metadata.
type ConfigEntry struct {
	Path        string // User-facing path (e.g. "optimizerSettings.runs")
	Env         string // Environment override, empty when none
	Kind        Kind   // Value type
	Required    bool   // Must be set by the file or the environment
	Default     any    // Default value, nil when none
	Description string // One-line help for `deploycfg schema`
}

// Registry manages the configuration surface inventory.
type Registry struct {
	Entries []ConfigEntry
	ByPath  map[string]ConfigEntry
	ByEnv   map[string]ConfigEntry
}

var (
	globalRegistry    *Registry
	globalRegistryErr error
	registryOnce      sync.Once
)

// GetRegistry returns the global configuration registry.
// It returns an error if the registry contains duplicates.
// Thread-safe via sync.Once.
func GetRegistry() (*Registry, error) {
	registryOnce.Do(func() {
		globalRegistry, globalRegistryErr = buildRegistry(registryEntries())
	})
	return globalRegistry, globalRegistryErr
}

func registryEntries() []ConfigEntry {
	return []ConfigEntry{
		{Path: "compilerVersion", Env: EnvPrefix + "COMPILER_VERSION", Kind: KindString, Required: true,
			Description: "solc version, MAJOR.MINOR.PATCH within " + SupportedCompilerRange},
		{Path: "defaultNetwork", Env: EnvPrefix + "DEFAULT_NETWORK", Kind: KindString, Default: LocalNetwork,
			Description: "network used when none is selected; must be declared in networks"},
		{Path: "networks", Kind: KindMap, Required: true,
			Description: "network profiles by name; at least one"},
		{Path: "networks.<name>.url", Env: EnvPrefix + "NETWORK_<NAME>_URL", Kind: KindString,
			Description: "RPC endpoint (http, https, ws, wss); required except for " + LocalNetwork},
		{Path: "networks.<name>.accounts", Kind: KindList,
			Description: "signer private keys as ${NAME} secret references"},
		{Path: "networks.<name>.chainId", Kind: KindUint,
			Description: "expected chain id, verified by `deploycfg check`"},
		{Path: "optimizerSettings.enabled", Env: EnvPrefix + "OPTIMIZER_ENABLED", Kind: KindBool, Default: false,
			Description: "enable the solc optimizer"},
		{Path: "optimizerSettings.runs", Env: EnvPrefix + "OPTIMIZER_RUNS", Kind: KindInt, Default: DefaultOptimizerRuns,
			Description: "expected contract invocations; positive when the optimizer is enabled"},
		{Path: "contractSizerOptions.strict", Env: EnvPrefix + "CONTRACT_SIZER_STRICT", Kind: KindBool, Default: false,
			Description: "fail the size check when a contract exceeds the deployable limit"},
		{Path: "namedAccounts", Kind: KindMap,
			Description: "role name to signer index; indices unique and non-negative"},
		{Path: "plugins", Kind: KindList,
			Description: "capability modules to activate, in order"},
	}
}

func buildRegistry(entries []ConfigEntry) (*Registry, error) {
	r := &Registry{
		Entries: entries,
		ByPath:  make(map[string]ConfigEntry, len(entries)),
		ByEnv:   make(map[string]ConfigEntry, len(entries)),
	}
	for _, e := range entries {
		if _, dup := r.ByPath[e.Path]; dup {
			return nil, fmt.Errorf("duplicate registry path %q", e.Path)
		}
		r.ByPath[e.Path] = e
		if e.Env == "" {
			continue
		}
		if _, dup := r.ByEnv[e.Env]; dup {
			return nil, fmt.Errorf("duplicate registry env key %q", e.Env)
		}
		r.ByEnv[e.Env] = e
	}
	return r, nil
}

// EnvKeys returns the static environment override keys in sorted order.
func (r *Registry) EnvKeys() []string {
	keys := make([]string, 0, len(r.ByEnv))
	for k := range r.ByEnv {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
