// Copyright (c) 2026 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// decode parses data onto cfg. Field-level problems are collected in c; a
// non-nil error means the document itself is unusable.
func decode(data []byte, format Format, filename string, cfg *ProjectConfig, c *issueCollector) error {
	switch format {
	case FormatYAML:
		return decodeYAML(data, cfg, c)
	case FormatJSON:
		if len(bytes.TrimSpace(data)) > 0 && !json.Valid(data) {
			return errors.New("invalid JSON document")
		}
		return decodeYAML(data, cfg, c)
	case FormatHCL:
		return decodeHCL(data, filename, cfg, c)
	default:
		return fmt.Errorf("unsupported config format: %q", format)
	}
}

// decodeYAML walks the document node by node so that type errors and unknown
// keys are reported with their full field path. JSON documents go through the
// same path.
func decodeYAML(data []byte, cfg *ProjectConfig, c *issueCollector) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))

	var doc yaml.Node
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("parse: %w", err)
	}

	// Strict: Ensure no multiple documents or trailing content
	var extra yaml.Node
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		return errors.New("config file contains multiple documents or trailing content")
	}

	if len(doc.Content) == 0 {
		return nil
	}
	root := resolveAlias(doc.Content[0])
	if isNull(root) {
		return nil
	}
	if root.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: top level must be a mapping", root.Line)
	}

	d := nodeDecoder{c: c}
	d.root(root, cfg)
	return nil
}

type nodeDecoder struct {
	c *issueCollector
}

func (d nodeDecoder) root(n *yaml.Node, cfg *ProjectConfig) {
	d.mapping(n, "", func(key string, val *yaml.Node) {
		switch key {
		case "compilerVersion":
			d.scalar(val, key, &cfg.CompilerVersion)
		case "defaultNetwork":
			d.scalar(val, key, &cfg.DefaultNetwork)
		case "networks":
			d.networks(val, cfg)
		case "optimizerSettings":
			d.mapping(val, key, func(k string, v *yaml.Node) {
				switch k {
				case "enabled":
					d.scalar(v, key+".enabled", &cfg.OptimizerSettings.Enabled)
				case "runs":
					d.scalar(v, key+".runs", &cfg.OptimizerSettings.Runs)
				default:
					d.c.addUnknown(key + "." + k)
				}
			})
		case "contractSizerOptions":
			d.mapping(val, key, func(k string, v *yaml.Node) {
				if k != "strict" {
					d.c.addUnknown(key + "." + k)
					return
				}
				d.scalar(v, key+".strict", &cfg.ContractSizerOptions.Strict)
			})
		case "namedAccounts":
			accounts := make(map[string]int)
			d.mapping(val, key, func(role string, v *yaml.Node) {
				var idx int
				if d.scalar(v, key+"."+role, &idx) {
					accounts[role] = idx
				}
			})
			cfg.NamedAccounts = accounts
		case "plugins":
			cfg.Plugins = d.stringList(val, key)
		default:
			d.c.addUnknown(key)
		}
	})
}

func (d nodeDecoder) networks(n *yaml.Node, cfg *ProjectConfig) {
	networks := make(map[string]NetworkProfile)
	d.mapping(n, "networks", func(name string, val *yaml.Node) {
		path := "networks." + name
		var profile NetworkProfile
		d.mapping(val, path, func(k string, v *yaml.Node) {
			switch k {
			case "url":
				d.scalar(v, path+".url", &profile.URL)
			case "accounts":
				profile.Accounts = d.stringList(v, path+".accounts")
			case "chainId":
				d.scalar(v, path+".chainId", &profile.ChainID)
			default:
				d.c.addUnknown(path + "." + k)
			}
		})
		networks[name] = profile
	})
	cfg.Networks = networks
}

// mapping iterates a mapping node, rejecting duplicate keys. A null node is an
// empty mapping.
func (d nodeDecoder) mapping(n *yaml.Node, path string, fn func(key string, val *yaml.Node)) {
	n = resolveAlias(n)
	if isNull(n) {
		return
	}
	if n.Kind != yaml.MappingNode {
		d.c.add(pathOrRoot(path), fmt.Sprintf("line %d: expected a mapping, got %s", n.Line, describe(n)), nil)
		return
	}
	seen := make(map[string]struct{}, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		keyNode := resolveAlias(n.Content[i])
		if keyNode.Kind != yaml.ScalarNode {
			d.c.add(pathOrRoot(path), fmt.Sprintf("line %d: mapping keys must be strings", keyNode.Line), nil)
			continue
		}
		key := keyNode.Value
		full := joinPath(path, key)
		if _, dup := seen[key]; dup {
			d.c.add(full, fmt.Sprintf("line %d: duplicate key %q", keyNode.Line, key), nil)
			continue
		}
		seen[key] = struct{}{}
		fn(key, n.Content[i+1])
	}
}

// scalar decodes a scalar node into out and reports whether it succeeded.
// An explicit null is an error; omit the key to take the default.
func (d nodeDecoder) scalar(n *yaml.Node, path string, out any) bool {
	n = resolveAlias(n)
	if n.Kind != yaml.ScalarNode {
		d.c.add(path, fmt.Sprintf("line %d: expected a scalar, got %s", n.Line, describe(n)), nil)
		return false
	}
	if isNull(n) {
		d.c.add(path, fmt.Sprintf("line %d: value cannot be null", n.Line), nil)
		return false
	}
	if err := n.Decode(out); err != nil {
		d.c.add(path, typeErrorMessage(err), n.Value)
		return false
	}
	return true
}

func (d nodeDecoder) stringList(n *yaml.Node, path string) []string {
	n = resolveAlias(n)
	if isNull(n) {
		return nil
	}
	if n.Kind != yaml.SequenceNode {
		d.c.add(path, fmt.Sprintf("line %d: expected a list, got %s", n.Line, describe(n)), nil)
		return nil
	}
	out := make([]string, 0, len(n.Content))
	for i, item := range n.Content {
		var s string
		if d.scalar(item, fmt.Sprintf("%s[%d]", path, i), &s) {
			out = append(out, s)
		} else {
			out = append(out, "")
		}
	}
	return out
}

func resolveAlias(n *yaml.Node) *yaml.Node {
	for n != nil && n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	return n
}

func isNull(n *yaml.Node) bool {
	return n == nil || (n.Kind == yaml.ScalarNode && n.ShortTag() == "!!null")
}

func describe(n *yaml.Node) string {
	switch n.Kind {
	case yaml.MappingNode:
		return "a mapping"
	case yaml.SequenceNode:
		return "a list"
	case yaml.ScalarNode:
		return fmt.Sprintf("%s %q", strings.TrimPrefix(n.ShortTag(), "!!"), n.Value)
	default:
		return "an unsupported node"
	}
}

func typeErrorMessage(err error) string {
	var te *yaml.TypeError
	if errors.As(err, &te) {
		return strings.Join(te.Errors, "; ")
	}
	return err.Error()
}

func joinPath(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}

func pathOrRoot(path string) string {
	if path == "" {
		return "(root)"
	}
	return path
}
