// Copyright (c) 2026 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package config

import (
	"crypto/sha256"
	"encoding/hex"
	"maps"
	"slices"
	"time"
)

// Snapshot is an immutable view of a loaded ProjectConfig. Accessors return
// copies; holders of a Snapshot cannot change what other holders see.
type Snapshot struct {
	cfg      ProjectConfig
	source   string
	digest   string
	loadedAt time.Time
}

// NewSnapshot captures a deep copy of cfg.
func NewSnapshot(cfg ProjectConfig, source string) Snapshot {
	c := cfg.Clone()
	return Snapshot{
		cfg:      c,
		source:   source,
		digest:   Digest(c),
		loadedAt: time.Now().UTC(),
	}
}

// Config returns a deep copy of the captured configuration.
func (s Snapshot) Config() ProjectConfig { return s.cfg.Clone() }

func (s Snapshot) Source() string          { return s.source }
func (s Snapshot) Digest() string          { return s.digest }
func (s Snapshot) LoadedAt() time.Time     { return s.loadedAt }
func (s Snapshot) CompilerVersion() string { return s.cfg.CompilerVersion }
func (s Snapshot) DefaultNetwork() string  { return s.cfg.DefaultNetwork }
func (s Snapshot) NetworkNames() []string  { return s.cfg.NetworkNames() }

func (s Snapshot) Optimizer() OptimizerSettings { return s.cfg.OptimizerSettings }

func (s Snapshot) ContractSizer() ContractSizerOptions { return s.cfg.ContractSizerOptions }

// Network returns a copy of the named profile.
func (s Snapshot) Network(name string) (NetworkProfile, bool) {
	n, ok := s.cfg.Networks[name]
	if !ok {
		return NetworkProfile{}, false
	}
	n.Accounts = slices.Clone(n.Accounts)
	return n, true
}

func (s Snapshot) NamedAccounts() map[string]int { return maps.Clone(s.cfg.NamedAccounts) }

func (s Snapshot) Plugins() []string { return slices.Clone(s.cfg.Plugins) }

// Digest returns the hex SHA-256 of the canonical YAML encoding of cfg.
func Digest(cfg ProjectConfig) string {
	data, err := Marshal(cfg, FormatYAML)
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
