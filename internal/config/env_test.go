// Copyright (c) 2026 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package config

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNetworkURLEnvKey(t *testing.T) {
	assert.Equal(t, "DEPLOYCFG_NETWORK_RINKEBY_URL", NetworkURLEnvKey("rinkeby"))
	assert.Equal(t, "DEPLOYCFG_NETWORK_ARBITRUM_SEPOLIA_URL", NetworkURLEnvKey("arbitrum-sepolia"))
	assert.Equal(t, "DEPLOYCFG_NETWORK_OP_MAINNET_URL", NetworkURLEnvKey("op.mainnet"))
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	env := map[string]string{
		"DEPLOYCFG_COMPILER_VERSION":      "0.8.19",
		"DEPLOYCFG_OPTIMIZER_RUNS":        "50",
		"DEPLOYCFG_CONTRACT_SIZER_STRICT": "true",
		"DEPLOYCFG_DEFAULT_NETWORK":       "rinkeby",
		"DEPLOYCFG_NETWORK_RINKEBY_URL":   "wss://rinkeby.example.org/ws",
	}
	loader := NewLoader(filepath.Join("testdata", "valid-example.yaml"), "test", WithEnvLookup(envMap(env)))
	cfg, err := loader.Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "0.8.19", cfg.CompilerVersion)
	assert.Equal(t, 50, cfg.OptimizerSettings.Runs)
	assert.True(t, cfg.OptimizerSettings.Enabled, "file value kept when not overridden")
	assert.True(t, cfg.ContractSizerOptions.Strict)
	assert.Equal(t, "rinkeby", cfg.DefaultNetwork)
	assert.Equal(t, "wss://rinkeby.example.org/ws", cfg.Networks["rinkeby"].URL)
}

func TestLoad_EnvOverrideIsValidated(t *testing.T) {
	env := map[string]string{"DEPLOYCFG_OPTIMIZER_RUNS": "0"}
	loader := NewLoader(filepath.Join("testdata", "valid-example.yaml"), "test", WithEnvLookup(envMap(env)))
	_, err := loader.Load(context.Background())
	cerr := requireConfigError(t, err)
	assert.Equal(t, []string{"optimizerSettings.runs"}, cerr.Fields())
}

func TestLoad_MalformedEnvOverrideIsFatal(t *testing.T) {
	tests := map[string]string{
		"DEPLOYCFG_OPTIMIZER_ENABLED":     "optimizerSettings.enabled",
		"DEPLOYCFG_OPTIMIZER_RUNS":        "optimizerSettings.runs",
		"DEPLOYCFG_CONTRACT_SIZER_STRICT": "contractSizerOptions.strict",
	}
	for key, field := range tests {
		t.Run(key, func(t *testing.T) {
			loader := NewLoader(filepath.Join("testdata", "valid-example.yaml"), "test",
				WithEnvLookup(envMap(map[string]string{key: "not-a-value"})))
			_, err := loader.Load(context.Background())
			cerr := requireConfigError(t, err)
			assert.True(t, cerr.HasField(field), "fields: %v", cerr.Fields())
			assert.Contains(t, err.Error(), key)
		})
	}
}

func TestLoad_ProcessEnvironment(t *testing.T) {
	t.Setenv("DEPLOYCFG_COMPILER_VERSION", "0.7.6")
	loader := NewLoader(filepath.Join("testdata", "valid-example.yaml"), "test")
	cfg, err := loader.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "0.7.6", cfg.CompilerVersion)
}

func TestRegistry(t *testing.T) {
	r, err := GetRegistry()
	require.NoError(t, err)

	entry, ok := r.ByPath["optimizerSettings.runs"]
	require.True(t, ok)
	assert.Equal(t, "DEPLOYCFG_OPTIMIZER_RUNS", entry.Env)
	assert.Equal(t, DefaultOptimizerRuns, entry.Default)

	assert.Contains(t, r.EnvKeys(), "DEPLOYCFG_COMPILER_VERSION")
	assert.True(t, r.ByPath["compilerVersion"].Required)

	_, err = buildRegistry([]ConfigEntry{{Path: "a"}, {Path: "a"}})
	assert.Error(t, err)
}

func TestRegistry_EveryEnvKeyHasTarget(t *testing.T) {
	r, err := GetRegistry()
	require.NoError(t, err)

	cfg := Defaults()
	var n NetworkProfile
	for _, e := range r.Entries {
		if e.Env == "" {
			continue
		}
		if strings.Contains(e.Path, networkPathPlaceholder) {
			assert.NotNil(t, networkEnvTarget(&n, e.Path), e.Path)
			continue
		}
		assert.NotNil(t, envTarget(&cfg, e.Path), e.Path)
	}
}

func TestNetworkURLEnvKey_Collision(t *testing.T) {
	doc := "compilerVersion: 0.8.6\nnetworks:\n  hardhat: {}\n  arb-sepolia:\n    url: https://a.example.org\n  arb_sepolia:\n    url: https://b.example.org\n"
	loader := NewLoader("", "test", WithEnvLookup(envMap(nil)))
	_, err := loader.LoadBytes(context.Background(), []byte(doc), FormatYAML)
	cerr := requireConfigError(t, err)
	assert.True(t, cerr.HasField("networks.arb_sepolia"), "fields: %v", cerr.Fields())
	assert.Contains(t, err.Error(), "DEPLOYCFG_NETWORK_ARB_SEPOLIA_URL")
}
