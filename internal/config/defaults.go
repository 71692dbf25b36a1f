// Copyright (c) 2026 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package config

// Defaults returns the values applied before the file is decoded.
// compilerVersion and networks have no default.
func Defaults() ProjectConfig {
	return ProjectConfig{
		DefaultNetwork: LocalNetwork,
		OptimizerSettings: OptimizerSettings{
			Enabled: false,
			Runs:    DefaultOptimizerRuns,
		},
		ContractSizerOptions: ContractSizerOptions{Strict: false},
	}
}

// normalize collapses empty collections to nil so that a record survives a
// marshal/load round trip unchanged.
func normalize(cfg *ProjectConfig) {
	if len(cfg.Networks) == 0 {
		cfg.Networks = nil
	}
	for name, n := range cfg.Networks {
		if len(n.Accounts) == 0 && n.Accounts != nil {
			n.Accounts = nil
			cfg.Networks[name] = n
		}
	}
	if len(cfg.NamedAccounts) == 0 {
		cfg.NamedAccounts = nil
	}
	if len(cfg.Plugins) == 0 {
		cfg.Plugins = nil
	}
}

// DefaultTemplate returns a starter configuration. Credentials are sourced
// from secret references, never literal values.
func DefaultTemplate() ProjectConfig {
	return ProjectConfig{
		CompilerVersion: "0.8.6",
		DefaultNetwork:  LocalNetwork,
		Networks: map[string]NetworkProfile{
			LocalNetwork: {},
			"rinkeby": {
				URL:      "https://eth-rinkeby.alchemyapi.io/v2/${ALCHEMY_API_KEY}",
				Accounts: []string{"${RINKEBY_DEPLOYER_KEY}"},
				ChainID:  4,
			},
		},
		OptimizerSettings:    OptimizerSettings{Enabled: true, Runs: 1000},
		ContractSizerOptions: ContractSizerOptions{Strict: true},
		NamedAccounts: map[string]int{
			"deployer": 0,
			"dev":      1,
		},
		Plugins: []string{
			"hardhat-ethers",
			"hardhat-upgrades",
			"hardhat-waffle",
			"hardhat-contract-sizer",
			"solidity-coverage",
			"hardhat-deploy",
			"hardhat-deploy-ethers",
		},
	}
}
