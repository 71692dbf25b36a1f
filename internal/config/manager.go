// Copyright (c) 2026 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/renameio/v2"
	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/zclconf/go-cty/cty"
	"gopkg.in/yaml.v3"
)

// Marshal encodes cfg canonically. Loading the output yields cfg unchanged.
func Marshal(cfg ProjectConfig, format Format) ([]byte, error) {
	switch format {
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(cfg); err != nil {
			return nil, fmt.Errorf("encode config: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("close encoder: %w", err)
		}
		return buf.Bytes(), nil
	case FormatJSON:
		out, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encode config: %w", err)
		}
		return append(out, '\n'), nil
	case FormatHCL:
		return marshalHCL(cfg), nil
	default:
		return nil, fmt.Errorf("unsupported config format: %q", format)
	}
}

func marshalHCL(cfg ProjectConfig) []byte {
	f := hclwrite.NewEmptyFile()
	body := f.Body()

	body.SetAttributeValue("compiler_version", cty.StringVal(cfg.CompilerVersion))
	body.SetAttributeValue("default_network", cty.StringVal(cfg.DefaultNetwork))
	if len(cfg.NamedAccounts) > 0 {
		roles := make(map[string]cty.Value, len(cfg.NamedAccounts))
		for role, idx := range cfg.NamedAccounts {
			roles[role] = cty.NumberIntVal(int64(idx))
		}
		body.SetAttributeValue("named_accounts", cty.ObjectVal(roles))
	}
	if len(cfg.Plugins) > 0 {
		body.SetAttributeValue("plugins", stringList(cfg.Plugins))
	}

	for _, name := range cfg.NetworkNames() {
		n := cfg.Networks[name]
		body.AppendNewline()
		blk := body.AppendNewBlock("network", []string{name}).Body()
		if n.URL != "" {
			blk.SetAttributeValue("url", cty.StringVal(n.URL))
		}
		if len(n.Accounts) > 0 {
			blk.SetAttributeValue("accounts", stringList(n.Accounts))
		}
		if n.ChainID != 0 {
			blk.SetAttributeValue("chain_id", cty.NumberUIntVal(n.ChainID))
		}
	}

	body.AppendNewline()
	opt := body.AppendNewBlock("optimizer", nil).Body()
	opt.SetAttributeValue("enabled", cty.BoolVal(cfg.OptimizerSettings.Enabled))
	opt.SetAttributeValue("runs", cty.NumberIntVal(int64(cfg.OptimizerSettings.Runs)))

	body.AppendNewline()
	sizer := body.AppendNewBlock("contract_sizer", nil).Body()
	sizer.SetAttributeValue("strict", cty.BoolVal(cfg.ContractSizerOptions.Strict))

	return hclwrite.Format(f.Bytes())
}

func stringList(values []string) cty.Value {
	vals := make([]cty.Value, len(values))
	for i, v := range values {
		vals[i] = cty.StringVal(v)
	}
	return cty.ListVal(vals)
}

// Manager handles configuration persistence.
type Manager struct {
	configPath string
}

// NewManager creates a new configuration manager.
func NewManager(configPath string) *Manager {
	return &Manager{
		configPath: configPath,
	}
}

// Save validates cfg and writes it atomically in the format implied by the
// file extension.
func (m *Manager) Save(cfg ProjectConfig) error {
	if err := Validate(cfg); err != nil {
		return err
	}
	format, err := FormatFromPath(m.configPath)
	if err != nil {
		return err
	}
	normalize(&cfg)
	data, err := Marshal(cfg, format)
	if err != nil {
		return err
	}
	return m.write(data)
}

// SaveBytes writes pre-rendered content atomically.
func (m *Manager) SaveBytes(data []byte) error {
	return m.write(data)
}

func (m *Manager) write(data []byte) error {
	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(m.configPath), 0o750); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	// renameio handles: temp file creation, fsync, atomic rename, cleanup on error
	pending, err := renameio.NewPendingFile(m.configPath, renameio.WithPermissions(0o644), renameio.WithExistingPermissions())
	if err != nil {
		return fmt.Errorf("create pending config file: %w", err)
	}
	defer func() { _ = pending.Cleanup() }()

	if _, err := pending.Write(data); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	if err := pending.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("replace config file: %w", err)
	}
	return nil
}
