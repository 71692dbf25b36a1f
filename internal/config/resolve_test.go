// Copyright (c) 2026 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package config

import (
	"context"
	"testing"

	"github.com/ManuGH/deploycfg/internal/secrets"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testKey0 = "0x4c0883a69102937d6231471b5dbb6204fe5129617082792ae468d01a3f362318"
	testKey1 = "ac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"
)

type staticSource map[string]string

func (s staticSource) Name() string { return "static" }

func (s staticSource) Lookup(_ context.Context, key string) (string, error) {
	if v, ok := s[key]; ok {
		return v, nil
	}
	return "", secrets.ErrNotFound
}

func templateWithSepolia() ProjectConfig {
	cfg := exampleConfig()
	cfg.Networks["sepolia"] = NetworkProfile{
		URL:      "https://eth-sepolia.g.alchemy.com/v2/${ALCHEMY_API_KEY}",
		Accounts: []string{"${DEPLOYER_KEY}", testKey1},
		ChainID:  11155111,
	}
	return cfg
}

func TestResolve(t *testing.T) {
	src := staticSource{
		"ALCHEMY_API_KEY": "k3y",
		"DEPLOYER_KEY":    testKey0,
	}
	creds, err := Resolve(context.Background(), templateWithSepolia(), src)
	require.NoError(t, err)

	sepolia, ok := creds.Network("sepolia")
	require.True(t, ok)
	assert.Equal(t, "https://eth-sepolia.g.alchemy.com/v2/k3y", sepolia.URL)
	assert.Equal(t, []string{testKey0, testKey1}, sepolia.Accounts)
	assert.Equal(t, uint64(11155111), sepolia.ChainID)

	local, ok := creds.Network("hardhat")
	require.True(t, ok)
	assert.Empty(t, local.URL)
	assert.Nil(t, local.Accounts)
}

func TestResolve_MissingSecrets(t *testing.T) {
	_, err := Resolve(context.Background(), templateWithSepolia(), staticSource{})
	cerr := requireConfigError(t, err)
	assert.ElementsMatch(t, []string{"networks.sepolia.url", "networks.sepolia.accounts[0]"}, cerr.Fields())
	assert.Contains(t, err.Error(), "ALCHEMY_API_KEY")
}

func TestResolve_InvalidResolvedValues(t *testing.T) {
	src := staticSource{
		"ALCHEMY_API_KEY": "k3y",
		"DEPLOYER_KEY":    "not-hex",
	}
	cfg := templateWithSepolia()
	cfg.Networks["mainnet"] = NetworkProfile{URL: "${MAINNET_URL}"}
	src["MAINNET_URL"] = "mainnet.example.org"

	_, err := Resolve(context.Background(), cfg, src)
	cerr := requireConfigError(t, err)
	assert.ElementsMatch(t, []string{"networks.sepolia.accounts[0]", "networks.mainnet.url"}, cerr.Fields())
	assert.NotContains(t, err.Error(), "not-hex")
}

func TestResolve_NilSource(t *testing.T) {
	creds, err := Resolve(context.Background(), exampleConfig(), nil)
	require.NoError(t, err, "no references, no source needed")
	assert.Len(t, creds.Networks, 2)

	_, err = Resolve(context.Background(), templateWithSepolia(), nil)
	assert.ErrorIs(t, err, ErrConfiguration)
}

func TestResolve_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Resolve(ctx, exampleConfig(), staticSource{})
	assert.ErrorIs(t, err, context.Canceled)
}
