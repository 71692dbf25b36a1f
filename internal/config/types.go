// Copyright (c) 2026 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package config

const (
	// LocalNetwork is the simulated in-process chain. It is the only network
	// that may omit its url.
	LocalNetwork = "hardhat"

	// DefaultOptimizerRuns applies when optimizerSettings.runs is omitted.
	DefaultOptimizerRuns = 200

	// SupportedCompilerRange bounds compilerVersion.
	SupportedCompilerRange = ">=0.4.11 <0.9.0"

	// PrivateKeyBytes is the length of a secp256k1 private key.
	PrivateKeyBytes = 32
)

// AllowedURLSchemes lists the RPC transports a network url may use.
var AllowedURLSchemes = []string{"http", "https", "ws", "wss"}

// ProjectConfig is the validated project configuration.
type ProjectConfig struct {
	CompilerVersion      string                    `yaml:"compilerVersion" json:"compilerVersion"`
	DefaultNetwork       string                    `yaml:"defaultNetwork" json:"defaultNetwork"`
	Networks             map[string]NetworkProfile `yaml:"networks" json:"networks"`
	OptimizerSettings    OptimizerSettings         `yaml:"optimizerSettings" json:"optimizerSettings"`
	ContractSizerOptions ContractSizerOptions      `yaml:"contractSizerOptions" json:"contractSizerOptions"`
	NamedAccounts        map[string]int            `yaml:"namedAccounts,omitempty" json:"namedAccounts,omitempty"`
	Plugins              []string                  `yaml:"plugins,omitempty" json:"plugins,omitempty"`
}

// NetworkProfile is the endpoint and signing material for one network.
// URL and Accounts may hold ${NAME} secret references.
type NetworkProfile struct {
	URL      string   `yaml:"url,omitempty" json:"url,omitempty"`
	Accounts []string `yaml:"accounts,omitempty" json:"accounts,omitempty"`
	ChainID  uint64   `yaml:"chainId,omitempty" json:"chainId,omitempty"`
}

// OptimizerSettings are the solc optimizer parameters.
type OptimizerSettings struct {
	Enabled bool `yaml:"enabled" json:"enabled"`
	Runs    int  `yaml:"runs" json:"runs"`
}

// ContractSizerOptions controls the contract size check.
type ContractSizerOptions struct {
	Strict bool `yaml:"strict" json:"strict"`
}

// IsLocal reports whether name is the simulated local network.
func IsLocal(name string) bool {
	return name == LocalNetwork
}
