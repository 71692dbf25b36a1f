// Copyright (c) 2026 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package config

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
)

// hclDocument is the HCL surface of ProjectConfig:
//
//	compiler_version = "0.8.6"
//	default_network  = "hardhat"
//	named_accounts   = { deployer = 0, dev = 1 }
//	plugins          = ["hardhat-deploy"]
//
//	network "rinkeby" {
//	  url      = "https://eth-rinkeby.alchemyapi.io/v2/${secret("ALCHEMY_API_KEY")}"
//	  accounts = [secret("DEPLOYER_KEY")]
//	}
//
//	optimizer {
//	  enabled = true
//	  runs    = 1000
//	}
//
//	contract_sizer {
//	  strict = true
//	}
//
// Every attribute is optional so that missing values are reported by
// Validate under their canonical field names.
type hclDocument struct {
	CompilerVersion *string           `hcl:"compiler_version,optional"`
	DefaultNetwork  *string           `hcl:"default_network,optional"`
	NamedAccounts   map[string]int    `hcl:"named_accounts,optional"`
	Plugins         []string          `hcl:"plugins,optional"`
	Networks        []hclNetwork      `hcl:"network,block"`
	Optimizer       *hclOptimizer     `hcl:"optimizer,block"`
	ContractSizer   *hclContractSizer `hcl:"contract_sizer,block"`
}

type hclNetwork struct {
	Name     string   `hcl:"name,label"`
	URL      *string  `hcl:"url,optional"`
	Accounts []string `hcl:"accounts,optional"`
	ChainID  *uint64  `hcl:"chain_id,optional"`
}

type hclOptimizer struct {
	Enabled *bool `hcl:"enabled,optional"`
	Runs    *int  `hcl:"runs,optional"`
}

type hclContractSizer struct {
	Strict *bool `hcl:"strict,optional"`
}

// hclBlockFields maps HCL block types to canonical field prefixes.
var hclBlockFields = map[string]string{
	"network":        "networks",
	"optimizer":      "optimizerSettings",
	"contract_sizer": "contractSizerOptions",
}

// hclAttrFields maps HCL attribute names to canonical field names.
var hclAttrFields = map[string]string{
	"compiler_version": "compilerVersion",
	"default_network":  "defaultNetwork",
	"named_accounts":   "namedAccounts",
	"chain_id":         "chainId",
}

// secretFunc lets HCL files write secret("NAME"), which evaluates to the
// ${NAME} reference understood by Resolve.
var secretFunc = function.New(&function.Spec{
	Params: []function.Parameter{{Name: "name", Type: cty.String}},
	Type:   function.StaticReturnType(cty.String),
	Impl: func(args []cty.Value, _ cty.Type) (cty.Value, error) {
		return cty.StringVal("${" + args[0].AsString() + "}"), nil
	},
})

func hclEvalContext() *hcl.EvalContext {
	return &hcl.EvalContext{
		Functions: map[string]function.Function{"secret": secretFunc},
	}
}

func decodeHCL(data []byte, filename string, cfg *ProjectConfig, c *issueCollector) error {
	if filename == "" {
		filename = "config.hcl"
	}
	file, diags := hclparse.NewParser().ParseHCL(data, filename)
	if diags.HasErrors() {
		return fmt.Errorf("parse: %w", diags)
	}

	var doc hclDocument
	diags = gohcl.DecodeBody(file.Body, hclEvalContext(), &doc)
	body, _ := file.Body.(*hclsyntax.Body)
	for _, diag := range diags {
		if diag.Severity != hcl.DiagError {
			continue
		}
		field := hclDiagField(body, diag)
		switch diag.Summary {
		case "Unsupported argument", "Unsupported block type":
			c.addUnknown(field)
		default:
			c.add(field, diag.Detail, nil)
		}
	}

	if doc.CompilerVersion != nil {
		cfg.CompilerVersion = *doc.CompilerVersion
	}
	if doc.DefaultNetwork != nil {
		cfg.DefaultNetwork = *doc.DefaultNetwork
	}
	if doc.NamedAccounts != nil {
		cfg.NamedAccounts = doc.NamedAccounts
	}
	if doc.Plugins != nil {
		cfg.Plugins = doc.Plugins
	}
	if len(doc.Networks) > 0 {
		cfg.Networks = make(map[string]NetworkProfile, len(doc.Networks))
		for _, n := range doc.Networks {
			if _, dup := cfg.Networks[n.Name]; dup {
				c.add("networks."+n.Name, fmt.Sprintf("duplicate network block %q", n.Name), nil)
				continue
			}
			profile := NetworkProfile{Accounts: n.Accounts}
			if n.URL != nil {
				profile.URL = *n.URL
			}
			if n.ChainID != nil {
				profile.ChainID = *n.ChainID
			}
			cfg.Networks[n.Name] = profile
		}
	}
	if o := doc.Optimizer; o != nil {
		if o.Enabled != nil {
			cfg.OptimizerSettings.Enabled = *o.Enabled
		}
		if o.Runs != nil {
			cfg.OptimizerSettings.Runs = *o.Runs
		}
	}
	if s := doc.ContractSizer; s != nil && s.Strict != nil {
		cfg.ContractSizerOptions.Strict = *s.Strict
	}
	return nil
}

// hclDiagField locates the canonical field a diagnostic points at.
func hclDiagField(body *hclsyntax.Body, diag *hcl.Diagnostic) string {
	if body == nil || diag.Subject == nil {
		return "(root)"
	}
	pos := diag.Subject.Start

	for _, blk := range body.Blocks {
		if !blk.Range().ContainsPos(pos) {
			continue
		}
		prefix, known := hclBlockFields[blk.Type]
		if !known {
			return blk.Type
		}
		if blk.Type == "network" && len(blk.Labels) > 0 {
			prefix += "." + blk.Labels[0]
		}
		if name := hclAttrAt(blk.Body, pos); name != "" {
			return prefix + "." + name
		}
		return prefix
	}
	if name := hclAttrAt(body, pos); name != "" {
		return name
	}
	return "(root)"
}

func hclAttrAt(body *hclsyntax.Body, pos hcl.Pos) string {
	if body == nil {
		return ""
	}
	for name, attr := range body.Attributes {
		if attr.SrcRange.ContainsPos(pos) {
			if canonical, ok := hclAttrFields[name]; ok {
				return canonical
			}
			return name
		}
	}
	return ""
}
